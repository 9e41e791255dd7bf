package importer

import (
	"fmt"
	"io"
	"slices"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/importer/cgd"
	"github.com/MrJamesThe3rd/fintrack/internal/importer/csvledger"
	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

type Service struct {
	parsers map[Format]Parser
}

func NewService() *Service {
	return &Service{
		parsers: map[Format]Parser{
			FormatFinTrack: csvledger.NewParser(),
			FormatCGD:      cgd.NewParser(),
		},
	}
}

// Formats lists the accepted format names.
func (s *Service) Formats() []Format {
	out := make([]Format, 0, len(s.parsers))
	for f := range s.parsers {
		out = append(out, f)
	}

	slices.Sort(out)

	return out
}

// Parse reads r in the given format. An empty format means FormatFinTrack.
func (s *Service) Parse(format Format, r io.Reader) ([]ledger.CreateParams, error) {
	if format == "" {
		format = FormatFinTrack
	}

	p, ok := s.parsers[format]
	if !ok {
		return nil, fault.Invalid("format", fmt.Sprintf("unknown import format %q", format))
	}

	return p.Parse(r)
}
