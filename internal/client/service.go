// Package client keeps the registry of client names. A name is its own identity.
package client

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client
type Repository interface {
	ListClients(ctx context.Context) ([]string, error)
	UpdateClients(ctx context.Context, fn func([]string) ([]string, error)) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]string, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	return clients, nil
}

// Add registers name. Adding a name that is already present is a no-op.
func (s *Service) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fault.Invalid("client", "is required")
	}

	added := false

	err := s.repo.UpdateClients(ctx, func(clients []string) ([]string, error) {
		if slices.Contains(clients, name) {
			return clients, nil
		}

		added = true

		return append(clients, name), nil
	})
	if err != nil {
		return fmt.Errorf("saving client: %w", err)
	}

	if added {
		metrics.RecordsCreated.WithLabelValues("client").Inc()
	}

	return nil
}

// Delete removes name. Invoices that reference it are left alone.
func (s *Service) Delete(ctx context.Context, name string) error {
	err := s.repo.UpdateClients(ctx, func(clients []string) ([]string, error) {
		return slices.DeleteFunc(clients, func(c string) bool { return c == name }), nil
	})
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	return nil
}
