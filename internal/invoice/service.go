package invoice

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/finance"
	"github.com/MrJamesThe3rd/fintrack/internal/ident"
	"github.com/MrJamesThe3rd/fintrack/internal/metrics"
	"github.com/MrJamesThe3rd/fintrack/internal/settings"
)

const (
	defaultTaxName        = "Tax"
	defaultCurrency       = "USD"
	defaultCurrencySymbol = "$"
	defaultBottomCenter   = "Thank you for your business"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	ListInvoices(ctx context.Context) ([]Invoice, error)
	UpdateInvoices(ctx context.Context, fn func([]Invoice) ([]Invoice, error)) error
}

type SettingsReader interface {
	Get(ctx context.Context) (settings.Settings, error)
}

type ClientRegistrar interface {
	Add(ctx context.Context, name string) error
}

type Service struct {
	repo      Repository
	settings  SettingsReader
	clients   ClientRegistrar
	numbering ident.Numbering
	now       func() time.Time
}

func NewService(repo Repository, settings SettingsReader, clients ClientRegistrar, numbering ident.Numbering) *Service {
	if numbering == nil {
		numbering = ident.CountNumbering{}
	}

	return &Service{
		repo:      repo,
		settings:  settings,
		clients:   clients,
		numbering: numbering,
		now:       time.Now,
	}
}

// NewDraft returns an empty invoice dated today with the customization
// fields pre-filled from the organization defaults.
func (s *Service) NewDraft(ctx context.Context) (Draft, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return Draft{}, fmt.Errorf("reading settings: %w", err)
	}

	return Draft{
		Date:         s.now().Format(time.DateOnly),
		Lines:        []DraftLine{{Quantity: decimal.NewFromInt(1), Rate: decimal.Zero}},
		TopLeft:      st.DefaultTopLeft,
		TopRight:     st.DefaultTopRight,
		BottomLeft:   st.DefaultBottomLeft,
		BottomRight:  st.DefaultBottomRight,
		BottomCenter: cmp.Or(st.DefaultBottomCenter, defaultBottomCenter),
	}, nil
}

// Create validates the draft, computes its totals with the current settings
// and stores it under the next invoice number.
func (s *Service) Create(ctx context.Context, d Draft) (*Invoice, error) {
	client := strings.TrimSpace(d.Client)
	if client == "" {
		return nil, fault.Invalid("client", "is required")
	}

	date := strings.TrimSpace(d.Date)
	if date == "" {
		date = s.now().Format(time.DateOnly)
	}

	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, fault.Invalid("date", "must be YYYY-MM-DD")
	}

	if err := d.checkLines(); err != nil {
		return nil, err
	}

	lines := d.ValidLines()
	if len(lines) == 0 {
		return nil, fault.Invalid("lineItems", "need at least one line with a description and a positive amount")
	}

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	totals := totalsOf(lines, st.TaxPercentage)

	inv := Invoice{
		ID:                 ident.NewID(),
		Client:             client,
		Date:               date,
		LineItems:          lines,
		Subtotal:           &totals.Subtotal,
		TaxPercentage:      st.TaxPercentage,
		TaxAmount:          &totals.TaxAmount,
		TaxName:            cmp.Or(st.TaxName, defaultTaxName),
		Total:              &totals.Total,
		Currency:           cmp.Or(st.Currency, defaultCurrency),
		CurrencySymbol:     cmp.Or(st.CurrencySymbol, defaultCurrencySymbol),
		CompanyName:        st.CompanyName,
		CompanyLogo:        st.CompanyLogo,
		CompanyDescription: st.CompanyDescription,
		TopLeft:            d.TopLeft,
		TopRight:           d.TopRight,
		BottomLeft:         d.BottomLeft,
		BottomRight:        d.BottomRight,
		BottomCenter:       d.BottomCenter,
		Timestamp:          s.now().UnixMilli(),
	}

	err = s.repo.UpdateInvoices(ctx, func(invoices []Invoice) ([]Invoice, error) {
		numbers := make([]string, len(invoices))
		for i, existing := range invoices {
			numbers[i] = existing.InvoiceNumber
		}

		inv.InvoiceNumber = s.numbering.Next(numbers)

		return append(invoices, inv), nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving invoice: %w", err)
	}

	metrics.RecordsCreated.WithLabelValues("invoice").Inc()

	// The client list is only a picker aid; the stored invoice stands on its own.
	if err := s.clients.Add(ctx, client); err != nil {
		slog.Warn("failed to register client", "client", client, "invoice", inv.InvoiceNumber, "error", err)
	}

	return &inv, nil
}

// Delete removes the invoice with id. Remaining invoices keep their numbers.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.UpdateInvoices(ctx, func(invoices []Invoice) ([]Invoice, error) {
		return slices.DeleteFunc(invoices, func(inv Invoice) bool { return inv.ID == id }), nil
	})
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Invoice, error) {
	invoices, err := s.repo.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	i := slices.IndexFunc(invoices, func(inv Invoice) bool { return inv.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("invoice %s: %w", id, fault.ErrNotFound)
	}

	return &invoices[i], nil
}

// List returns every invoice, newest date first.
func (s *Service) List(ctx context.Context) ([]Invoice, error) {
	invoices, err := s.repo.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	slices.SortStableFunc(invoices, func(a, b Invoice) int {
		return cmp.Compare(b.Date, a.Date)
	})

	return invoices, nil
}

// Recent returns up to n invoices, newest date first.
func (s *Service) Recent(ctx context.Context, n int) ([]Invoice, error) {
	invoices, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	if n >= 0 && len(invoices) > n {
		invoices = invoices[:n]
	}

	return invoices, nil
}

type Summary struct {
	Count    int             `json:"count"`
	Invoiced decimal.Decimal `json:"invoiced"`
}

// Summary counts invoices and adds up their grand totals.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	invoices, err := s.repo.ListInvoices(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("listing invoices: %w", err)
	}

	totals := make([]decimal.Decimal, len(invoices))
	for i, inv := range invoices {
		totals[i] = inv.GrandTotal()
	}

	return Summary{Count: len(invoices), Invoiced: finance.Sum(totals)}, nil
}
