// Package command defines the fintrack CLI.
package command

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/fintrack/internal/app"
)

// Opener opens the configured store. It is called once, before any
// subcommand runs.
type Opener func(ctx context.Context) (*app.App, error)

type runner struct {
	open Opener
	app  *app.App
}

func (r *runner) ensure(cmd *cobra.Command, _ []string) error {
	if r.app != nil {
		return nil
	}

	a, err := r.open(cmd.Context())
	if err != nil {
		return err
	}

	r.app = a

	return nil
}

func New(open Opener) *cobra.Command {
	r := &runner{open: open}

	root := &cobra.Command{
		Use:   "fintrack",
		Short: "FinTrack - ledger, invoices and backups from the command line",
		Long: `fintrack works on the same data store as the FinTrack API and TUI.
The store is chosen with STORE_DRIVER and STORE_PATH (see .env).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.ensure,
	}

	root.AddCommand(
		newBackupCmd(r),
		newLedgerCmd(r),
		newSettingsCmd(r),
	)

	return root
}
