package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	GetInvoice(ctx context.Context, id uuid.UUID) (*Record, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Record, error)

	BeginBatch(ctx context.Context) (BatchTx, error)
}

type BatchTx interface {
	UpsertInvoices(ctx context.Context, batchID uuid.UUID, invoices []Invoice) ([]*Record, error)
	Commit() error
	Rollback() error
}

type ListFilter struct {
	Status    *Status
	OwnerName *string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	return s.repo.ListInvoices(ctx, filter)
}

// SaveBatch stores the invoices of one import atomically. Invoices are keyed by
// code, so saving the same file twice updates rows instead of duplicating them.
func (s *Service) SaveBatch(ctx context.Context, invoices []Invoice) ([]*Record, error) {
	if len(invoices) == 0 {
		return nil, nil
	}

	btx, err := s.repo.BeginBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer btx.Rollback()

	records, err := btx.UpsertInvoices(ctx, uuid.New(), dedupeByCode(invoices))
	if err != nil {
		return nil, fmt.Errorf("upsert invoices: %w", err)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	return records, nil
}

// dedupeByCode keeps the last occurrence of every code, in first-seen order.
// Repeated codes within one file resolve to the last row.
func dedupeByCode(invoices []Invoice) []Invoice {
	pos := make(map[string]int, len(invoices))
	out := make([]Invoice, 0, len(invoices))

	for _, inv := range invoices {
		if i, ok := pos[inv.Code]; ok {
			out[i] = inv
			continue
		}

		pos[inv.Code] = len(out)
		out = append(out, inv)
	}

	return out
}
