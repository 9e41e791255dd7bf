package command_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/cmd/fintrack/internal/command"
	"github.com/MrJamesThe3rd/fintrack/internal/app"
	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/memory"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

func run(t *testing.T, a *app.App, args ...string) (string, error) {
	t.Helper()

	root := command.New(func(context.Context) (*app.App, error) { return a, nil })

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func seed(t *testing.T, a *app.App) {
	t.Helper()

	_, err := a.Ledger.ImportBatch(context.Background(), []ledger.CreateParams{
		{Date: "2024-01-15", Description: "Salary", Amount: "3000", Type: ledger.TypeCredit},
		{Date: "2024-01-10", Description: "Rent", Amount: "1000", Type: ledger.TypeExpense, Category: "Housing"},
	})
	require.NoError(t, err)
}

func TestLedgerShow(t *testing.T) {
	a := app.New(memory.New(), nil)
	seed(t, a)

	out, err := run(t, a, "ledger", "show")
	require.NoError(t, err)

	assert.Less(t, strings.Index(out, "Rent"), strings.Index(out, "Salary"))
	assert.Contains(t, out, "$-1000.00")
	assert.Contains(t, out, "Uncategorized")
	assert.Contains(t, out, "Net: $2000.00")
}

func TestLedgerShow_BadFilter(t *testing.T) {
	_, err := run(t, app.New(memory.New(), nil), "ledger", "show", "--from", "jan")
	assert.ErrorIs(t, err, fault.ErrValidation)
}

func TestLedgerCSVAndImport(t *testing.T) {
	src := app.New(memory.New(), nil)
	seed(t, src)

	path := filepath.Join(t.TempDir(), "ledger.csv")

	_, err := run(t, src, "ledger", "csv", "--type", "expense", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Description,Category,Type,Amount,Balance\n2024-01-10,Rent,Housing,Expense,1000.00,-1000.00\n", string(data))

	dst := app.New(memory.New(), nil)

	out, err := run(t, dst, "ledger", "import", path)
	require.NoError(t, err)
	assert.Equal(t, "Imported 1 entries\n", out)

	entries, err := dst.Ledger.List(context.Background(), ledger.ListFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Housing", entries[0].Category)
}

func TestBackup_ExportImport(t *testing.T) {
	src := app.New(memory.New(), nil)
	seed(t, src)

	dir := t.TempDir()

	out, err := run(t, src, "backup", "export", "--dir", dir)
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "fintrack_backup_"))

	dst := app.New(memory.New(), nil)

	out, err = run(t, dst, "backup", "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Contains(t, out, "Current data: 0 entries")

	out, err = run(t, dst, "backup", "import", "--yes", path)
	require.NoError(t, err)
	assert.Equal(t, "Restored: 2 entries, 0 invoices, 0 clients\n", out)

	out, err = run(t, dst, "backup", "preview")
	require.NoError(t, err)
	assert.Equal(t, "Stored: 2 entries, 0 invoices, 0 clients\n", out)
}

func TestSettings_ShowApply(t *testing.T) {
	a := app.New(memory.New(), nil)

	out, err := run(t, a, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `currency = "USD"`)

	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
company_name = "Acme Ltd"
tax_name = "VAT"
tax_percentage = "23"
currency = "EUR"
currency_symbol = "€"
`), 0o644))

	_, err = run(t, a, "settings", "apply", path)
	require.NoError(t, err)

	s, err := a.Settings.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", s.CompanyName)
	assert.Equal(t, "23", s.TaxPercentage.String())
	assert.Equal(t, "€", s.CurrencySymbol)

	require.NoError(t, os.WriteFile(path, []byte("tax_percentage = 120\n"), 0o644))

	_, err = run(t, a, "settings", "apply", path)
	assert.ErrorIs(t, err, fault.ErrValidation)

	require.NoError(t, os.WriteFile(path, []byte("tax_rate = 5\n"), 0o644))

	_, err = run(t, a, "settings", "apply", path)
	assert.ErrorContains(t, err, "unknown keys")
}
