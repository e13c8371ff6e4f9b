package repository

import (
	"context"
	"time"

	"livesocial_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReconciliationRepository records settlements whose debit/credit pair
// failed mid-sequence. Writes go through the pool, never the failed
// transaction, so the record survives the rollback.
type ReconciliationRepository struct {
	db *pgxpool.Pool
}

func NewReconciliationRepository(db *pgxpool.Pool) *ReconciliationRepository {
	return &ReconciliationRepository{db: db}
}

func (r *ReconciliationRepository) Create(ctx context.Context, rec *domain.Reconciliation) error {
	if rec.Status == "" {
		rec.Status = domain.ReconciliationPending
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO reconciliations (payer_id, payee_id, gross_amount, credit_amount, event_kind, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, rec.PayerID, rec.PayeeID, rec.GrossAmount, rec.CreditAmount, rec.EventKind, rec.Reason, rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// GetPending lists unresolved reconciliation events, oldest first
func (r *ReconciliationRepository) GetPending(ctx context.Context) ([]domain.Reconciliation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, payer_id, payee_id, gross_amount, credit_amount, event_kind, reason, status, created_at, resolved_at
		FROM reconciliations
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.Reconciliation
	for rows.Next() {
		var rec domain.Reconciliation
		if err := rows.Scan(
			&rec.ID, &rec.PayerID, &rec.PayeeID, &rec.GrossAmount, &rec.CreditAmount,
			&rec.EventKind, &rec.Reason, &rec.Status, &rec.CreatedAt, &rec.ResolvedAt,
		); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Resolve marks an event handled after manual or automated replay.
func (r *ReconciliationRepository) Resolve(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE reconciliations SET status = 'resolved', resolved_at = $2 WHERE id = $1 AND status = 'pending'
	`, id, time.Now())
	return err
}
