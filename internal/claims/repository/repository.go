package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sujal-debug/Policy-IQ/internal/claims/domain"
)

var ErrNotFound = errors.New("claim not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Claim is the persisted record of one claimant's in-progress submission.
// Rows are provisioned at signup; the pipeline only reads and mutates them.
type Claim struct {
	ID              uuid.UUID
	Email           string
	TicketReference *string
	Status          string
	Attributes      domain.Attributes
	Documents       []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const claimColumns = `id, email, ticket_reference, status, claim_data, document_data, created_at, updated_at`

// GetByEmail returns the claim for the claimant address, or ErrNotFound.
func (r *Repository) GetByEmail(ctx context.Context, email string) (Claim, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+claimColumns+`
		FROM claims
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email)))

	return scanClaim(row)
}

// ListByStatus returns all claims currently in the given status, oldest first.
func (r *Repository) ListByStatus(ctx context.Context, status string) ([]Claim, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+claimColumns+`
		FROM claims
		WHERE status = $1
		ORDER BY updated_at ASC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := make([]Claim, 0)
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return claims, nil
}

// UpdateClaimData persists a merged attribute/document snapshot. The
// status and ticket reference are untouched so a crash after this write
// leaves the claim safe to reprocess.
func (r *Repository) UpdateClaimData(ctx context.Context, id uuid.UUID, attrs domain.Attributes, documents []string) error {
	attrJSON, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("marshal claim attributes: %w", err)
	}
	docJSON, err := json.Marshal(normalizeDocs(documents))
	if err != nil {
		return fmt.Errorf("marshal document tags: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE claims
		SET claim_data = $2, document_data = $3, updated_at = now()
		WHERE id = $1
	`, id, attrJSON, docJSON)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus sets the claim status. The guard re-checks monotonicity in
// SQL so a concurrent writer can never regress a terminal claim.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !domain.IsKnownStatus(status) {
		return fmt.Errorf("unknown claim status %q", status)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE claims
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status NOT IN ('processed', 'declined')
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSubmitted records the tracker reference and moves the claim to
// submitted in one write.
func (r *Repository) MarkSubmitted(ctx context.Context, id uuid.UUID, ticketReference string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE claims
		SET ticket_reference = $2, status = 'submitted', updated_at = now()
		WHERE id = $1 AND status NOT IN ('processed', 'declined')
	`, id, ticketReference)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanClaim(row pgx.Row) (Claim, error) {
	var (
		claim    Claim
		attrJSON []byte
		docJSON  []byte
	)
	err := row.Scan(
		&claim.ID,
		&claim.Email,
		&claim.TicketReference,
		&claim.Status,
		&attrJSON,
		&docJSON,
		&claim.CreatedAt,
		&claim.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Claim{}, ErrNotFound
	}
	if err != nil {
		return Claim{}, err
	}

	claim.Attributes = make(domain.Attributes)
	if len(attrJSON) > 0 {
		if err := json.Unmarshal(attrJSON, &claim.Attributes); err != nil {
			return Claim{}, fmt.Errorf("decode claim_data for %s: %w", claim.Email, err)
		}
	}
	if len(docJSON) > 0 {
		if err := json.Unmarshal(docJSON, &claim.Documents); err != nil {
			return Claim{}, fmt.Errorf("decode document_data for %s: %w", claim.Email, err)
		}
	}

	return claim, nil
}

func normalizeDocs(documents []string) []string {
	if documents == nil {
		return []string{}
	}
	return documents
}
