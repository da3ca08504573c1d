package database

import (
	"context"
	"database/sql"

	"github.com/elevenxsolutions/elevenx-api/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, service, plan, message, utm, processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Service,
		lead.Plan,
		lead.Message,
		nullJSON(lead.UTM),
	).Scan(
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
}

// ClaimUnprocessed marks up to limit unprocessed leads as claimed by this
// run and returns them. SKIP LOCKED plus the claim window keeps two
// overlapping dispatch runs from double-sending the same lead; a claim
// left behind by a crashed run expires after 10 minutes.
func (r *LeadRepository) ClaimUnprocessed(ctx context.Context, limit int) ([]*entity.Lead, error) {
	query := `
		UPDATE leads
		SET claimed_at = NOW(), updated_at = NOW()
		WHERE id IN (
			SELECT id FROM leads
			WHERE processed = FALSE
			  AND (claimed_at IS NULL OR claimed_at < NOW() - INTERVAL '10 minutes')
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, name, email, service, plan, message, utm, processed, created_at, updated_at
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		var l entity.Lead
		if err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.Email,
			&l.Service,
			&l.Plan,
			&l.Message,
			&l.UTM,
			&l.Processed,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, &l)
	}

	return leads, rows.Err()
}

// MarkProcessed is conditional: a lead already processed by another run is
// left untouched, so the flag never flips back.
func (r *LeadRepository) MarkProcessed(ctx context.Context, id string) error {
	query := `
		UPDATE leads
		SET processed = TRUE, claimed_at = NULL, updated_at = NOW()
		WHERE id = $1 AND processed = FALSE
	`

	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func nullJSON(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
