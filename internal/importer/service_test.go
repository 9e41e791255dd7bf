package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/importer"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

func TestService_Formats(t *testing.T) {
	assert.Equal(t, []importer.Format{importer.FormatCGD, importer.FormatFinTrack}, importer.NewService().Formats())
}

func TestService_Parse(t *testing.T) {
	svc := importer.NewService()

	rows, err := svc.Parse("", strings.NewReader("Date,Description,Amount\n2024-03-01,Lunch,-9.5\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.TypeExpense, rows[0].Type)

	rows, err = svc.Parse(importer.FormatCGD, strings.NewReader("Data mov.;Descrição;Montante\n30-01-2026;TEST;-10,00\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-01-30", rows[0].Date)
}

func TestService_UnknownFormat(t *testing.T) {
	_, err := importer.NewService().Parse("ofx", strings.NewReader(""))

	var verr *fault.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "format", verr.Field)
}
