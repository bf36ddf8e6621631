package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func infoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the effective configuration and record count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			names, err := svc.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, field("serializer", svc.Kind().String()))
			fmt.Fprintln(out, field("directory", svc.Directory()))
			fmt.Fprintln(out, field("extension", svc.Extension()))
			fmt.Fprintln(out, field("records", numberColor.Render(strconv.Itoa(len(names)))))
			return nil
		},
	}
}
