package backup_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/backup"
	"github.com/MrJamesThe3rd/fintrack/internal/client"
	clientStore "github.com/MrJamesThe3rd/fintrack/internal/client/store"
	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/fintrack/internal/invoice/store"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/kvtest"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/memory"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/fintrack/internal/ledger/store"
	"github.com/MrJamesThe3rd/fintrack/internal/settings"
	settingsStore "github.com/MrJamesThe3rd/fintrack/internal/settings/store"
)

// seed fills a store with one of everything.
func seed(t *testing.T, store *kv.Store) {
	t.Helper()

	ctx := context.Background()

	clients := client.NewService(clientStore.New(store))
	st := settings.NewService(settingsStore.New(store))
	entries := ledger.NewService(ledgerStore.New(store))
	invoices := invoice.NewService(invoiceStore.New(store), st, clients, nil)

	s := settings.Default()
	s.CompanyName = "Acme"
	s.TaxPercentage = decimal.NewFromInt(10)
	_, err := st.Save(ctx, s)
	require.NoError(t, err)

	_, err = entries.Add(ctx, ledger.CreateParams{Date: "2024-01-10", Description: "Rent", Amount: "1000", Type: ledger.TypeExpense})
	require.NoError(t, err)
	_, err = entries.Add(ctx, ledger.CreateParams{Date: "2024-01-15", Description: "Salary", Amount: "3000", Type: ledger.TypeCredit})
	require.NoError(t, err)

	_, err = invoices.Create(ctx, invoice.Draft{
		Client: "Globex",
		Lines:  []invoice.DraftLine{{Description: "Design", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50)}},
	})
	require.NoError(t, err)
}

func snapshot(t *testing.T, store *kv.Store) map[kv.Key]string {
	t.Helper()

	out := make(map[kv.Key]string)

	for _, k := range kv.Keys() {
		data, err := store.Raw(context.Background(), k)
		if err != nil {
			require.ErrorIs(t, err, fault.ErrNotFound)
			continue
		}

		out[k] = string(data)
	}

	return out
}

func buildZip(t *testing.T, members map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)

		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestExport_Layout(t *testing.T) {
	store := kv.New(memory.New())
	seed(t, store)

	archive, err := backup.NewService(store).Export(context.Background())
	require.NoError(t, err)

	assert.Regexp(t, `^fintrack_backup_\d{4}-\d{2}-\d{2}\.zip$`, archive.Name)

	zr, err := zip.NewReader(bytes.NewReader(archive.Data), int64(len(archive.Data)))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.ElementsMatch(t, []string{"entries.json", "invoices.json", "clients.json", "settings.json"}, names)
}

func TestExport_EmptyStore(t *testing.T) {
	archive, err := backup.NewService(kv.New(memory.New())).Export(context.Background())
	require.NoError(t, err)

	target := kv.New(memory.New())

	counts, err := backup.NewService(target).Import(context.Background(), archive.Data)
	require.NoError(t, err)
	assert.Equal(t, backup.Counts{}, *counts)

	got, err := settings.NewService(settingsStore.New(target)).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "Thank you for your business", got.DefaultBottomCenter)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()

	source := kv.New(memory.New())
	seed(t, source)

	archive, err := backup.NewService(source).Export(ctx)
	require.NoError(t, err)

	target := kv.New(memory.New())
	require.NoError(t, target.ReplaceAll(ctx, map[kv.Key][]byte{kv.KeyClients: []byte(`["Stale"]`)}))

	counts, err := backup.NewService(target).Import(ctx, archive.Data)
	require.NoError(t, err)
	assert.Equal(t, backup.Counts{Entries: 2, Invoices: 1, Clients: 1}, *counts)

	assert.Equal(t, snapshot(t, source), snapshot(t, target))

	sorted, err := ledger.NewService(ledgerStore.New(target)).Ledger(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2000.00", sorted.RunningBalance(1).StringFixed(2))

	preview, err := backup.NewService(target).Preview(ctx)
	require.NoError(t, err)
	assert.Equal(t, backup.Counts{Entries: 2, Invoices: 1, Clients: 1}, preview)
}

func TestImport_Rejects(t *testing.T) {
	valid := map[string]string{
		"entries.json":  `[]`,
		"invoices.json": `[]`,
		"clients.json":  `[]`,
		"settings.json": `{}`,
	}

	without := func(name string) map[string]string {
		m := make(map[string]string, len(valid))
		for k, v := range valid {
			if k != name {
				m[k] = v
			}
		}

		return m
	}

	with := func(name, content string) map[string]string {
		m := without(name)
		m[name] = content

		return m
	}

	type testCase struct {
		name    string
		data    func(t *testing.T) []byte
		wantErr error
	}

	tests := []testCase{
		{
			name:    "MissingClients",
			data:    func(t *testing.T) []byte { return buildZip(t, without("clients.json")) },
			wantErr: fault.ErrFormat,
		},
		{
			name:    "CorruptEntries",
			data:    func(t *testing.T) []byte { return buildZip(t, with("entries.json", `[{"id":`)) },
			wantErr: fault.ErrFormat,
		},
		{
			name:    "SettingsNotAnObject",
			data:    func(t *testing.T) []byte { return buildZip(t, with("settings.json", `[1,2]`)) },
			wantErr: fault.ErrFormat,
		},
		{
			name:    "ClientsNotAList",
			data:    func(t *testing.T) []byte { return buildZip(t, with("clients.json", `"Acme"`)) },
			wantErr: fault.ErrFormat,
		},
		{
			name: "EntriesWrongElementTypes",
			data: func(t *testing.T) []byte {
				return buildZip(t, with("entries.json", `[1, "x", {"amount":"abc"}]`))
			},
			wantErr: fault.ErrFormat,
		},
		{
			name:    "EntryAmountNotDecimal",
			data:    func(t *testing.T) []byte { return buildZip(t, with("entries.json", `[{"id":"1","amount":"abc"}]`)) },
			wantErr: fault.ErrFormat,
		},
		{
			name:    "InvoiceLineItemsNotAList",
			data:    func(t *testing.T) []byte { return buildZip(t, with("invoices.json", `[{"lineItems":"Design"}]`)) },
			wantErr: fault.ErrFormat,
		},
		{
			name:    "ClientsNotStrings",
			data:    func(t *testing.T) []byte { return buildZip(t, with("clients.json", `["Acme", 7]`)) },
			wantErr: fault.ErrFormat,
		},
		{
			name:    "SettingsTaxNotDecimal",
			data:    func(t *testing.T) []byte { return buildZip(t, with("settings.json", `{"taxPercentage":"ten"}`)) },
			wantErr: fault.ErrFormat,
		},
	}

	for _, name := range []string{"entries.json", "invoices.json", "clients.json", "settings.json"} {
		tests = append(tests, testCase{
			name:    "Null_" + name,
			data:    func(t *testing.T) []byte { return buildZip(t, with(name, " null\n")) },
			wantErr: fault.ErrFormat,
		})
	}

	tests = append(tests, []testCase{
		{
			name:    "NotAZip",
			data:    func(*testing.T) []byte { return []byte("definitely not a zip") },
			wantErr: fault.ErrEncoding,
		},
	}...)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kv.New(memory.New())
			seed(t, store)

			before := snapshot(t, store)

			_, err := backup.NewService(store).Import(context.Background(), tt.data(t))
			require.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, before, snapshot(t, store), "store must be untouched")
		})
	}
}

func TestImport_CommitFailure(t *testing.T) {
	ctx := context.Background()

	backend := &kvtest.Failing{Backend: memory.New()}
	store := kv.New(backend)
	seed(t, store)

	before := snapshot(t, store)

	archive, err := backup.NewService(kv.New(memory.New())).Export(ctx)
	require.NoError(t, err)

	backend.FailWrites = true

	_, err = backup.NewService(store).Import(ctx, archive.Data)
	require.ErrorIs(t, err, fault.ErrStorage)

	assert.Equal(t, before, snapshot(t, store))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "fintrack_backup_2024-06-30.zip", backup.FileName(time.Date(2024, 6, 30, 23, 0, 0, 0, time.UTC)))
}
