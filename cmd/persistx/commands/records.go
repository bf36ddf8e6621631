package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hengadev/persistx"
)

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored records",
		Args:    cobra.NoArgs,
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
			if len(names) == 0 {
				fmt.Fprintln(out, styleFaint.Render("No records in "+svc.Directory()))
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func showCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print a record as indented JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				data, err := svc.ReadRaw(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			var doc json.RawMessage
			if err := svc.Load(args[0], &doc); err != nil {
				return err
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, doc, "", "  "); err != nil {
				return fmt.Errorf("%w: %w", persistx.ErrFormat, err)
			}
			fmt.Fprintln(out, pretty.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the stored text without decoding")
	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME...",
		Aliases: []string{"rm"},
		Short:   "Delete records",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range args {
				if err := svc.Delete(name); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render("Deleted "+name))
			}
			return nil
		},
	}
}

func clearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record with the configured extension",
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
			if !yes {
				fmt.Fprintf(out, "%s would be deleted from %s. Re-run with --yes to confirm.\n",
					numberColor.Render(strconv.Itoa(len(names))+" records"), svc.Directory())
				return nil
			}

			if err := svc.DeleteAll(); err != nil {
				return err
			}
			fmt.Fprintln(out, styleSuccess.Render(fmt.Sprintf("Deleted %d records", len(names))))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
