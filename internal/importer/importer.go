package importer

import (
	"io"

	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

// Format names a supported CSV layout.
type Format string

const (
	// FormatFinTrack is the ledger CSV this app exports, or any sheet with
	// Date, Description and Amount columns.
	FormatFinTrack Format = "fintrack"
	// FormatCGD is a Caixa Geral de Depósitos bank statement export.
	FormatCGD Format = "cgd"
)

// Parser turns a CSV file into entries ready for ledger.Service.ImportBatch.
type Parser interface {
	Parse(r io.Reader) ([]ledger.CreateParams, error)
}
