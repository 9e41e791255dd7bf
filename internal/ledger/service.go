package ledger

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/ident"
	"github.com/MrJamesThe3rd/fintrack/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	ListEntries(ctx context.Context) ([]Entry, error)
	// UpdateEntries runs fn over the whole collection and persists the result
	// unless fn fails. Calls are serialized.
	UpdateEntries(ctx context.Context, fn func([]Entry) ([]Entry, error)) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateParams is the user-supplied part of an entry. Amount is text so that
// a missing amount can be told apart from zero.
type CreateParams struct {
	Date        string
	Description string
	Amount      string
	Type        Type
	Category    string
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      *Type
}

func (f ListFilter) match(e Entry) bool {
	if f.StartDate != nil && e.Date < f.StartDate.Format(time.DateOnly) {
		return false
	}

	if f.EndDate != nil && e.Date > f.EndDate.Format(time.DateOnly) {
		return false
	}

	if f.Type != nil && e.Type != *f.Type {
		return false
	}

	return true
}

type validated struct {
	date        string
	description string
	amount      decimal.Decimal
	typ         Type
	category    string
}

func validate(p CreateParams) (validated, error) {
	date := strings.TrimSpace(p.Date)
	if date == "" {
		return validated{}, fault.Invalid("date", "is required")
	}

	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return validated{}, fault.Invalid("date", "must be YYYY-MM-DD")
	}

	description := strings.TrimSpace(p.Description)
	if description == "" {
		return validated{}, fault.Invalid("description", "is required")
	}

	raw := strings.TrimSpace(p.Amount)
	if raw == "" {
		return validated{}, fault.Invalid("amount", "is required")
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return validated{}, fault.Invalid("amount", "must be a number")
	}

	if amount.IsNegative() {
		return validated{}, fault.Invalid("amount", "must not be negative")
	}

	if !p.Type.Valid() {
		return validated{}, fault.Invalid("type", "must be expense or credit")
	}

	return validated{
		date:        date,
		description: description,
		amount:      amount,
		typ:         p.Type,
		category:    strings.TrimSpace(p.Category),
	}, nil
}

func (s *Service) newEntry(v validated) Entry {
	return Entry{
		ID:          ident.NewID(),
		Date:        v.date,
		Description: v.description,
		Amount:      v.amount,
		Type:        v.typ,
		Category:    v.category,
		Timestamp:   s.now().UnixMilli(),
	}
}

// Add validates params and appends a new entry.
func (s *Service) Add(ctx context.Context, params CreateParams) (*Entry, error) {
	v, err := validate(params)
	if err != nil {
		return nil, err
	}

	entry := s.newEntry(v)

	err = s.repo.UpdateEntries(ctx, func(entries []Entry) ([]Entry, error) {
		return append(entries, entry), nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving entry: %w", err)
	}

	metrics.RecordsCreated.WithLabelValues("entry").Inc()

	return &entry, nil
}

// Replace overwrites every user field of an existing entry. ID and timestamp are kept.
func (s *Service) Replace(ctx context.Context, id string, params CreateParams) (*Entry, error) {
	v, err := validate(params)
	if err != nil {
		return nil, err
	}

	var updated Entry

	err = s.repo.UpdateEntries(ctx, func(entries []Entry) ([]Entry, error) {
		i := slices.IndexFunc(entries, func(e Entry) bool { return e.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("entry %s: %w", id, fault.ErrNotFound)
		}

		updated = Entry{
			ID:          id,
			Date:        v.date,
			Description: v.description,
			Amount:      v.amount,
			Type:        v.typ,
			Category:    v.category,
			Timestamp:   entries[i].Timestamp,
		}
		entries[i] = updated

		return entries, nil
	})
	if err != nil {
		return nil, fmt.Errorf("replacing entry: %w", err)
	}

	return &updated, nil
}

// Delete removes the entry with id. Deleting an unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.UpdateEntries(ctx, func(entries []Entry) ([]Entry, error) {
		return slices.DeleteFunc(entries, func(e Entry) bool { return e.ID == id }), nil
	})
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Entry, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	i := slices.IndexFunc(entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("entry %s: %w", id, fault.ErrNotFound)
	}

	return &entries[i], nil
}

// List returns matching entries in stored order.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	out := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if filter.match(e) {
			out = append(out, e)
		}
	}

	return out, nil
}

// Ledger returns matching entries sorted by date with running balances.
func (s *Service) Ledger(ctx context.Context, filter ListFilter) (Sorted, error) {
	entries, err := s.List(ctx, filter)
	if err != nil {
		return Sorted{}, err
	}

	return SortByDate(entries), nil
}

func (s *Service) Summary(ctx context.Context, filter ListFilter) (Totals, error) {
	entries, err := s.List(ctx, filter)
	if err != nil {
		return Totals{}, err
	}

	return Summarize(entries), nil
}

// Recent returns up to n entries, newest date first.
func (s *Service) Recent(ctx context.Context, n int) ([]Entry, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}

		return cmp.Compare(b.Timestamp, a.Timestamp)
	})

	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}

	return entries, nil
}

// ImportBatch validates every row first and then appends them all in one
// write. A single invalid row rejects the whole batch.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) ([]Entry, error) {
	if len(params) == 0 {
		return nil, nil
	}

	created := make([]Entry, 0, len(params))

	for i, p := range params {
		v, err := validate(p)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		created = append(created, s.newEntry(v))
	}

	err := s.repo.UpdateEntries(ctx, func(entries []Entry) ([]Entry, error) {
		return append(entries, created...), nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving entries: %w", err)
	}

	metrics.RecordsCreated.WithLabelValues("entry").Add(float64(len(created)))

	return created, nil
}
