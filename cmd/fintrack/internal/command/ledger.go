package command

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/finance"
	"github.com/MrJamesThe3rd/fintrack/internal/importer"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

func newLedgerCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show, export and import ledger entries",
	}

	cmd.AddCommand(
		newLedgerShowCmd(r),
		newLedgerCSVCmd(r),
		newLedgerImportCmd(r),
	)

	return cmd
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "First date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Last date to include (YYYY-MM-DD)")
	cmd.Flags().String("type", "", "Only expense or credit entries")
}

func filterFromFlags(cmd *cobra.Command) (ledger.ListFilter, error) {
	var filter ledger.ListFilter

	for _, f := range []struct {
		name string
		dst  **time.Time
	}{
		{"from", &filter.StartDate},
		{"to", &filter.EndDate},
	} {
		s, _ := cmd.Flags().GetString(f.name)
		if s == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fault.Invalid(f.name, "must be YYYY-MM-DD")
		}

		*f.dst = new(t)
	}

	if s, _ := cmd.Flags().GetString("type"); s != "" {
		t := ledger.Type(s)
		if !t.Valid() {
			return filter, fault.Invalid("type", "must be expense or credit")
		}

		filter.Type = new(t)
	}

	return filter, nil
}

func newLedgerShowCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print entries oldest first with a running balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}

			sorted, err := r.app.Ledger.Ledger(cmd.Context(), filter)
			if err != nil {
				return err
			}

			s, err := r.app.Settings.Get(cmd.Context())
			if err != nil {
				return err
			}

			renderLedger(cmd.OutOrStdout(), sorted, s.CurrencySymbol)

			return nil
		},
	}

	addFilterFlags(cmd)

	return cmd
}

func renderLedger(w io.Writer, sorted ledger.Sorted, symbol string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Description", "Category", "Type", "Amount", "Balance")

	for i, e := range sorted.Entries() {
		t.Row(
			e.Date,
			e.Description,
			e.CategoryLabel(),
			e.Type.Label(),
			symbol+finance.Format(e.Amount),
			symbol+finance.Format(sorted.RunningBalance(i)),
		)
	}

	totals := sorted.Totals()

	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "Credits: %s%s  Expenses: %s%s  Net: %s%s\n",
		symbol, finance.Format(totals.Credits),
		symbol, finance.Format(totals.Expenses),
		symbol, finance.Format(totals.Net))
}

func newLedgerCSVCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Write the ledger as CSV to stdout or a file",
		Example: `  fintrack ledger csv --from 2024-01-01 > january.csv
  fintrack ledger csv --out ledger.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if path, _ := cmd.Flags().GetString("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				defer f.Close()

				out = f
			}

			return r.app.Export.WriteLedgerCSV(cmd.Context(), out, filter)
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().String("out", "", "File to write instead of stdout")

	return cmd
}

func newLedgerImportCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Append entries from a CSV file",
		Long: `Reads a ledger CSV and appends every row. If any row is invalid nothing
is imported. Formats: fintrack (Date, Description, Amount and optional Type
and Category columns) and cgd (Caixa Geral de Depósitos statements).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			params, err := r.app.Importer.Parse(importer.Format(format), f)
			if err != nil {
				return err
			}

			created, err := r.app.Ledger.ImportBatch(cmd.Context(), params)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", len(created))

			return nil
		},
	}

	cmd.Flags().String("format", string(importer.FormatFinTrack), "Input format: fintrack or cgd")

	return cmd
}
