package repository

import (
	"context"
	"errors"
	"time"

	"livesocial_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrWithdrawalNotFound = errors.New("withdrawal not found")

type WithdrawalRepository struct {
	db *pgxpool.Pool
}

func NewWithdrawalRepository(db *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

const withdrawalColumns = `id, user_id, coin_amount, rupee_amount, ratio, status, COALESCE(admin_notes, ''), created_at, resolved_at`

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	if err := row.Scan(
		&w.ID, &w.UserID, &w.CoinAmount, &w.RupeeAmount, &w.Ratio, &w.Status, &w.AdminNotes, &w.CreatedAt, &w.ResolvedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}
	return &w, nil
}

// CreateTx inserts a pending request within the transaction that debits
// the coins, so request and debit commit or fail together.
func (r *WithdrawalRepository) CreateTx(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	if w.Status == "" {
		w.Status = domain.WithdrawalPending
	}
	return tx.QueryRow(ctx, `
		INSERT INTO withdrawals (user_id, coin_amount, rupee_amount, ratio, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, w.UserID, w.CoinAmount, w.RupeeAmount, w.Ratio, w.Status).Scan(&w.ID, &w.CreatedAt)
}

func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id)
	return scanWithdrawal(row)
}

// GetByUserID returns a user's withdrawal history, newest first
func (r *WithdrawalRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// GetPending returns all requests awaiting admin action, oldest first
func (r *WithdrawalRepository) GetPending(ctx context.Context) ([]domain.Withdrawal, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals
		 WHERE status IN ('pending', 'processing')
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// HasPending checks if the user already has an unresolved request
func (r *WithdrawalRepository) HasPending(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM withdrawals WHERE user_id = $1 AND status IN ('pending', 'processing'))
	`, userID).Scan(&exists)
	return exists, err
}

// Resolve moves a request out of pending/processing. Used for complete and
// reject; the refund on reject runs in the same transaction.
func (r *WithdrawalRepository) ResolveTx(ctx context.Context, tx pgx.Tx, id int64, status domain.WithdrawalStatus, notes string) error {
	result, err := tx.Exec(ctx, `
		UPDATE withdrawals
		SET status = $2, admin_notes = NULLIF($3, ''), resolved_at = $4
		WHERE id = $1 AND status IN ('pending', 'processing')
	`, id, status, notes, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrWithdrawalNotFound
	}
	return nil
}

// CancelTx cancels a user's own pending request.
func (r *WithdrawalRepository) CancelTx(ctx context.Context, tx pgx.Tx, id, userID int64) (*domain.Withdrawal, error) {
	row := tx.QueryRow(ctx, `
		UPDATE withdrawals
		SET status = 'cancelled', resolved_at = $3
		WHERE id = $1 AND user_id = $2 AND status = 'pending'
		RETURNING `+withdrawalColumns,
		id, userID, time.Now())
	return scanWithdrawal(row)
}

func scanWithdrawals(rows pgx.Rows) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal
	for rows.Next() {
		var w domain.Withdrawal
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.CoinAmount, &w.RupeeAmount, &w.Ratio, &w.Status, &w.AdminNotes, &w.CreatedAt, &w.ResolvedAt,
		); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}
