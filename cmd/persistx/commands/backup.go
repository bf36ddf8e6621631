package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	s3backup "github.com/hengadev/persistx/providers/s3"
)

const (
	envBackupBucket = "PERSISTX_BACKUP_BUCKET"
	envBackupPrefix = "PERSISTX_BACKUP_PREFIX"
)

type backupFlags struct {
	bucket string
	prefix string
}

func (f *backupFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.bucket, "bucket", "", "S3 bucket (default $"+envBackupBucket+")")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "key prefix (default $"+envBackupPrefix+" or persistx)")
}

func (a *app) openBackup(cmd *cobra.Command, f *backupFlags) (*s3backup.Backup, error) {
	bucket := f.bucket
	if bucket == "" {
		bucket = os.Getenv(envBackupBucket)
	}
	prefix := f.prefix
	if prefix == "" {
		prefix = os.Getenv(envBackupPrefix)
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket required (--bucket or %s)", envBackupBucket)
	}
	return a.newBackup(cmd.Context(), bucket, prefix)
}

func backupCmd(a *app) *cobra.Command {
	var f backupFlags

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload all records to S3 as a new snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			b, err := a.openBackup(cmd, &f)
			if err != nil {
				return err
			}

			snap, err := b.Push(cmd.Context(), svc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleSuccess.Render("Snapshot "+snap.ID))
			fmt.Fprintln(out, field("records", numberColor.Render(strconv.Itoa(len(snap.Records)))))
			fmt.Fprintln(out, field("location", fmt.Sprintf("s3://%s/%s/%s/", b.Bucket(), b.Prefix(), snap.ID)))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func restoreCmd(a *app) *cobra.Command {
	var (
		f         backupFlags
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "restore [SNAPSHOT]",
		Short: "Download a snapshot from S3 (default: the latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			b, err := a.openBackup(cmd, &f)
			if err != nil {
				return err
			}

			var id string
			if len(args) == 1 {
				id = args[0]
			} else {
				id, err = b.Latest(cmd.Context())
				if err != nil {
					return err
				}
			}

			restored, err := b.Restore(cmd.Context(), svc, id, overwrite)
			out := cmd.OutOrStdout()
			if failures, ok := s3backup.IsPartial(err); ok {
				for name, ferr := range failures {
					fmt.Fprintln(out, styleWarning.Render("skipped "+name+": "+ferr.Error()))
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, styleSuccess.Render(fmt.Sprintf("Restored %d records from %s", len(restored), id)))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace records that already exist locally")
	return cmd
}

func snapshotsCmd(a *app) *cobra.Command {
	var f backupFlags

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List snapshots in S3, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBackup(cmd, &f)
			if err != nil {
				return err
			}
			ids, err := b.Snapshots(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, styleFaint.Render("No snapshots"))
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}

	f.register(cmd)
	return cmd
}
