package command

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/fintrack/internal/backup"
)

func newBackupCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export, inspect and restore zip backups",
	}

	cmd.AddCommand(
		newBackupExportCmd(r),
		newBackupImportCmd(r),
		newBackupPreviewCmd(r),
	)

	return cmd
}

func newBackupExportCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection to fintrack_backup_<date>.zip",
		Example: `  fintrack backup export
  fintrack backup export --dir ~/backups`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			archive, err := r.app.Backup.Export(cmd.Context())
			if err != nil {
				return err
			}

			path := filepath.Join(dir, archive.Name)
			if err := os.WriteFile(path, archive.Data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)

			return nil
		},
	}

	cmd.Flags().String("dir", ".", "Directory to write the archive to")

	return cmd
}

func newBackupImportCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.zip>",
		Short: "Replace all data with the contents of a backup",
		Long: `Replaces every collection with the archive's contents in one commit.
Nothing is changed unless --yes is given, and nothing is changed if the
archive is incomplete or unreadable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			if !yes {
				current, err := r.app.Backup.Preview(cmd.Context())
				if err != nil {
					return err
				}

				printCounts(cmd, "Current data", current)

				return errors.New("this replaces all current data; re-run with --yes to confirm")
			}

			counts, err := r.app.Backup.Import(cmd.Context(), data)
			if err != nil {
				return err
			}

			printCounts(cmd, "Restored", *counts)

			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Confirm replacing all current data")

	return cmd
}

func newBackupPreviewCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Show how many records a backup would contain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			counts, err := r.app.Backup.Preview(cmd.Context())
			if err != nil {
				return err
			}

			printCounts(cmd, "Stored", counts)

			return nil
		},
	}
}

func printCounts(cmd *cobra.Command, title string, c backup.Counts) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries, %d invoices, %d clients\n", title, c.Entries, c.Invoices, c.Clients)
}
