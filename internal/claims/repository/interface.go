package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sujal-debug/Policy-IQ/internal/claims/domain"
)

// ClaimStore is the persistence contract the pipeline depends on. The
// pgx-backed Repository is the production implementation; tests provide
// in-memory fakes.
type ClaimStore interface {
	GetByEmail(ctx context.Context, email string) (Claim, error)
	ListByStatus(ctx context.Context, status string) ([]Claim, error)
	UpdateClaimData(ctx context.Context, id uuid.UUID, attrs domain.Attributes, documents []string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkSubmitted(ctx context.Context, id uuid.UUID, ticketReference string) error
}

var _ ClaimStore = (*Repository)(nil)
