package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hengadev/persistx/internal/health"
)

var errUnhealthy = errors.New("save directory is unhealthy")

func doctorCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the save directory, key material and stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			serializer, err := cfg.NewSerializer()
			if err != nil {
				return err
			}
			svc, err := a.serviceFor(cfg)
			if err != nil {
				return err
			}

			checker := health.NewChecker(timeout)
			for _, check := range []*health.Check{
				health.DirectoryCheck(svc.Directory()),
				health.SerializerCheck(serializer),
				health.RecordsCheck(svc),
			} {
				if err := checker.Register(check); err != nil {
					return err
				}
			}

			report := checker.Run(cmd.Context())
			out := cmd.OutOrStdout()
			for _, r := range report.Results {
				line := statusMark(r.Status) + " " + field(r.Name, r.Message)
				if r.Error != "" {
					line += " " + styleError.Render(r.Error)
				}
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, field("status", statusStyle(report.Status).Render(string(report.Status))))

			if report.Status == health.StatusUnhealthy {
				return errUnhealthy
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-check timeout")
	return cmd
}

func statusStyle(s health.Status) lipgloss.Style {
	switch s {
	case health.StatusHealthy:
		return styleSuccess
	case health.StatusDegraded:
		return styleWarning
	default:
		return styleError
	}
}

func statusMark(s health.Status) string {
	mark := "xx"
	switch s {
	case health.StatusHealthy:
		mark = "ok"
	case health.StatusDegraded:
		mark = "!!"
	}
	return statusStyle(s).Render(mark)
}
