package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=settings
type Repository interface {
	// GetSettings returns fault.ErrNotFound when nothing has been saved.
	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var maxTax = decimal.NewFromInt(100)

// Get returns the saved settings, or Default when none exist.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	got, err := s.repo.GetSettings(ctx)
	if errors.Is(err, fault.ErrNotFound) {
		return Default(), nil
	}

	if err != nil {
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	return *got, nil
}

// Save replaces the whole record.
func (s *Service) Save(ctx context.Context, in Settings) (Settings, error) {
	if in.TaxPercentage.IsNegative() || in.TaxPercentage.GreaterThan(maxTax) {
		return Settings{}, fault.Invalid("taxPercentage", "must be between 0 and 100")
	}

	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Currency = strings.TrimSpace(in.Currency)

	if err := s.repo.SaveSettings(ctx, in); err != nil {
		return Settings{}, fmt.Errorf("saving settings: %w", err)
	}

	return in, nil
}
