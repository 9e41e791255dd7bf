package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
	"github.com/MrJamesThe3rd/fintrack/internal/kv/memory"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger/store"
)

// applyTo makes UpdateEntries run its callback over *stored, the way the kv store does.
func applyTo(stored *[]ledger.Entry) func(context.Context, func([]ledger.Entry) ([]ledger.Entry, error)) error {
	return func(_ context.Context, fn func([]ledger.Entry) ([]ledger.Entry, error)) error {
		next, err := fn(append([]ledger.Entry(nil), *stored...))
		if err != nil {
			return err
		}

		*stored = next

		return nil
	}
}

func TestService_Add(t *testing.T) {
	type testCase struct {
		name      string
		params    ledger.CreateParams
		setupMock func(m *ledger.MockRepository, stored *[]ledger.Entry)
		wantErr   error
	}

	valid := ledger.CreateParams{Date: "2024-01-10", Description: "Rent", Amount: "1000", Type: ledger.TypeExpense}

	tests := []testCase{
		{
			name:   "Success",
			params: valid,
			setupMock: func(m *ledger.MockRepository, stored *[]ledger.Entry) {
				m.EXPECT().UpdateEntries(gomock.Any(), gomock.Any()).DoAndReturn(applyTo(stored))
			},
		},
		{
			name:   "ZeroAmountAllowed",
			params: ledger.CreateParams{Date: "2024-01-10", Description: "Free", Amount: "0", Type: ledger.TypeCredit},
			setupMock: func(m *ledger.MockRepository, stored *[]ledger.Entry) {
				m.EXPECT().UpdateEntries(gomock.Any(), gomock.Any()).DoAndReturn(applyTo(stored))
			},
		},
		{
			name:    "MissingDescription",
			params:  ledger.CreateParams{Date: "2024-01-10", Description: "  ", Amount: "1", Type: ledger.TypeExpense},
			wantErr: fault.ErrValidation,
		},
		{
			name:    "MissingAmount",
			params:  ledger.CreateParams{Date: "2024-01-10", Description: "Rent", Type: ledger.TypeExpense},
			wantErr: fault.ErrValidation,
		},
		{
			name:    "NegativeAmount",
			params:  ledger.CreateParams{Date: "2024-01-10", Description: "Rent", Amount: "-5", Type: ledger.TypeExpense},
			wantErr: fault.ErrValidation,
		},
		{
			name:    "BadDate",
			params:  ledger.CreateParams{Date: "10/01/2024", Description: "Rent", Amount: "5", Type: ledger.TypeExpense},
			wantErr: fault.ErrValidation,
		},
		{
			name:    "BadType",
			params:  ledger.CreateParams{Date: "2024-01-10", Description: "Rent", Amount: "5", Type: "transfer"},
			wantErr: fault.ErrValidation,
		},
		{
			name:   "RepoError",
			params: valid,
			setupMock: func(m *ledger.MockRepository, _ *[]ledger.Entry) {
				m.EXPECT().UpdateEntries(gomock.Any(), gomock.Any()).Return(fault.Storage("writing entries", errors.New("disk full")))
			},
			wantErr: fault.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			var stored []ledger.Entry

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, &stored)
			}

			svc := ledger.NewService(repo)
			got, err := svc.Add(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Empty(t, stored)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.NotZero(t, got.Timestamp)
			require.Len(t, stored, 1)
			assert.Equal(t, *got, stored[0])
		})
	}
}

func newService(t *testing.T) *ledger.Service {
	t.Helper()

	return ledger.NewService(store.New(kv.New(memory.New())))
}

func TestService_RentAndSalary(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Add(ctx, ledger.CreateParams{Date: "2024-01-15", Description: "Salary", Amount: "3000", Type: ledger.TypeCredit})
	require.NoError(t, err)

	_, err = svc.Add(ctx, ledger.CreateParams{Date: "2024-01-10", Description: "Rent", Amount: "1000", Type: ledger.TypeExpense})
	require.NoError(t, err)

	totals, err := svc.Summary(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2000.00", totals.Net.StringFixed(2))

	sorted, err := svc.Ledger(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, sorted.Len())
	assert.Equal(t, "Rent", sorted.Entry(0).Description)
	assert.Equal(t, "-1000.00", sorted.RunningBalance(0).StringFixed(2))
	assert.Equal(t, "2000.00", sorted.RunningBalance(1).StringFixed(2))
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	e, err := svc.Add(ctx, ledger.CreateParams{Date: "2024-01-10", Description: "Rent", Amount: "1000", Type: ledger.TypeExpense})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "missing"))

	all, err := svc.List(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, e.ID))

	_, err = svc.Get(ctx, e.ID)
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestService_Replace(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	e, err := svc.Add(ctx, ledger.CreateParams{Date: "2024-01-10", Description: "Rent", Amount: "1000", Type: ledger.TypeExpense})
	require.NoError(t, err)

	got, err := svc.Replace(ctx, e.ID, ledger.CreateParams{
		Date: "2024-01-11", Description: "Rent (Jan)", Amount: "1000.50", Type: ledger.TypeExpense, Category: "Housing",
	})
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, e.Timestamp, got.Timestamp)

	stored, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rent (Jan)", stored.Description)
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("1000.50")))
	assert.Equal(t, "Housing", stored.Category)

	_, err = svc.Replace(ctx, "missing", ledger.CreateParams{Date: "2024-01-11", Description: "x", Amount: "1", Type: ledger.TypeCredit})
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestService_ListFilter(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, p := range []ledger.CreateParams{
		{Date: "2024-01-01", Description: "a", Amount: "1", Type: ledger.TypeExpense},
		{Date: "2024-01-15", Description: "b", Amount: "2", Type: ledger.TypeCredit},
		{Date: "2024-01-31", Description: "c", Amount: "3", Type: ledger.TypeExpense},
		{Date: "2024-02-01", Description: "d", Amount: "4", Type: ledger.TypeCredit},
	} {
		_, err := svc.Add(ctx, p)
		require.NoError(t, err)
	}

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	got, err := svc.List(ctx, ledger.ListFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Description)
	assert.Equal(t, "c", got[1].Description)

	got, err = svc.List(ctx, ledger.ListFilter{Type: new(ledger.TypeCredit)})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_Recent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, d := range []string{"2024-01-02", "2024-03-01", "2024-02-01"} {
		_, err := svc.Add(ctx, ledger.CreateParams{Date: d, Description: d, Amount: "1", Type: ledger.TypeExpense})
		require.NoError(t, err)
	}

	got, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-01", got[0].Date)
	assert.Equal(t, "2024-02-01", got[1].Date)
}

func TestService_ImportBatch(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.ImportBatch(ctx, []ledger.CreateParams{
		{Date: "2024-01-01", Description: "ok", Amount: "1", Type: ledger.TypeExpense},
		{Date: "2024-01-02", Description: "", Amount: "1", Type: ledger.TypeExpense},
	})
	assert.ErrorIs(t, err, fault.ErrValidation)

	all, err := svc.List(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	created, err := svc.ImportBatch(ctx, []ledger.CreateParams{
		{Date: "2024-01-01", Description: "one", Amount: "1", Type: ledger.TypeExpense},
		{Date: "2024-01-02", Description: "two", Amount: "2", Type: ledger.TypeCredit},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.NotEqual(t, created[0].ID, created[1].ID)

	all, err = svc.List(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
