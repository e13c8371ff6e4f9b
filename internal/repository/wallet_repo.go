package repository

import (
	"context"
	"errors"

	"livesocial_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type WalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, coin_balance, total_earned::text, total_spent::text, updated_at
		FROM wallets
		WHERE user_id = $1
	`, userID)

	var w domain.Wallet
	if err := row.Scan(
		&w.ID, &w.UserID, &w.CoinBalance, &w.TotalEarned, &w.TotalSpent, &w.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}

// The wallet mutation primitive takes a signed delta and adds it to the
// current balance. A debit that would push the balance below zero matches
// no row and is rejected with no mutation. Cumulative totals move with the
// sign of the delta.
const applyDeltaSQL = `
	UPDATE wallets
	SET coin_balance = coin_balance + $1,
	    total_earned = total_earned + CASE WHEN $1 > 0 THEN $1 ELSE 0 END,
	    total_spent  = total_spent  + CASE WHEN $1 < 0 THEN -$1 ELSE 0 END,
	    updated_at   = NOW()
	WHERE user_id = $2 AND coin_balance + $1 >= 0
	RETURNING coin_balance`

// ApplyDelta mutates the balance by a signed delta and returns the new
// balance. Returns ErrInsufficientBalance when the delta would underflow,
// ErrWalletNotFound when no wallet exists.
func (r *WalletRepository) ApplyDelta(ctx context.Context, userID int64, delta int64) (int64, error) {
	var newBalance int64
	err := r.db.QueryRow(ctx, applyDeltaSQL, delta, userID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, r.classifyNoRows(ctx, r.db, userID)
		}
		return 0, err
	}
	return newBalance, nil
}

// ApplyDeltaTx is ApplyDelta within an existing database transaction.
func (r *WalletRepository) ApplyDeltaTx(ctx context.Context, tx pgx.Tx, userID int64, delta int64) (int64, error) {
	var newBalance int64
	err := tx.QueryRow(ctx, applyDeltaSQL, delta, userID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, r.classifyNoRows(ctx, tx, userID)
		}
		return 0, err
	}
	return newBalance, nil
}

// LockTx takes a row lock on the wallet and returns the current balance.
// Callers locking two wallets must lock in ascending user id order.
func (r *WalletRepository) LockTx(ctx context.Context, tx pgx.Tx, userID int64) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx,
		`SELECT coin_balance FROM wallets WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrWalletNotFound
		}
		return 0, err
	}
	return balance, nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// No row matched: either the wallet is missing or the delta would have
// gone negative. Tell them apart for the caller.
func (r *WalletRepository) classifyNoRows(ctx context.Context, q queryRower, userID int64) error {
	var exists bool
	_ = q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wallets WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if !exists {
		return ErrWalletNotFound
	}
	return ErrInsufficientBalance
}
