package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hengadev/persistx"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleBold.Render(persistx.VersionInfo()))
			fmt.Fprintln(out, styleFaint.Render("Supported serializers: json, encrypted_json"))
		},
	}
}
