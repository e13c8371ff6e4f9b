package service

import (
	"context"
	"errors"
	"fmt"

	"livesocial_backend/internal/domain"
	"livesocial_backend/internal/repository"
	"livesocial_backend/internal/settlement"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPendingWithdrawal = errors.New("a withdrawal is already pending")

// WithdrawalService converts coins to currency. Coins are debited when the
// request is created; cancel and reject credit them back with a refund
// ledger entry.
type WithdrawalService struct {
	db              *pgxpool.Pool
	walletRepo      *repository.WalletRepository
	withdrawalRepo  *repository.WithdrawalRepository
	transactionRepo *repository.TransactionRepository
	rates           *RateService
}

func NewWithdrawalService(db *pgxpool.Pool, rates *RateService) *WithdrawalService {
	return &WithdrawalService{
		db:              db,
		walletRepo:      repository.NewWalletRepository(db),
		withdrawalRepo:  repository.NewWithdrawalRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		rates:           rates,
	}
}

// Estimate converts a coin amount at the current ratio without touching
// the wallet.
func (s *WithdrawalService) Estimate(ctx context.Context, coins int64) (rupees, ratio int64, err error) {
	ratio = s.rates.Current(ctx).CoinToRupeeRatio
	rupees, err = settlement.CoinsToRupees(coins, ratio)
	return rupees, ratio, err
}

// Request validates the conversion and atomically debits the coins while
// creating the pending request.
func (s *WithdrawalService) Request(ctx context.Context, userID, coins int64) (*domain.Withdrawal, error) {
	ratio := s.rates.Current(ctx).CoinToRupeeRatio
	rupees, err := settlement.CoinsToRupees(coins, ratio)
	if err != nil {
		return nil, err
	}

	pending, err := s.withdrawalRepo.HasPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrPendingWithdrawal
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.walletRepo.ApplyDeltaTx(ctx, tx, userID, -coins); err != nil {
		return nil, err
	}

	w := &domain.Withdrawal{
		UserID:      userID,
		CoinAmount:  coins,
		RupeeAmount: rupees,
		Ratio:       ratio,
	}
	if err := s.withdrawalRepo.CreateTx(ctx, tx, w); err != nil {
		return nil, err
	}

	entry := &domain.WalletTransaction{
		UserID:     userID,
		Type:       domain.TxWithdrawal,
		Status:     domain.TxStatusPending,
		Amount:     -coins,
		ExternalID: withdrawalRef(w.ID),
		Meta:       map[string]interface{}{"rupee_amount": rupees, "ratio": ratio},
	}
	if err := s.transactionRepo.CreateTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Cancel lets a user withdraw their own pending request; coins come back.
func (s *WithdrawalService) Cancel(ctx context.Context, userID, withdrawalID int64) (*domain.Withdrawal, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	w, err := s.withdrawalRepo.CancelTx(ctx, tx, withdrawalID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.refundTx(ctx, tx, w); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.ResolveByExternalIDTx(ctx, tx, withdrawalRef(w.ID), domain.TxStatusCancelled); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Complete marks a paid-out request done (admin action).
func (s *WithdrawalService) Complete(ctx context.Context, withdrawalID int64, notes string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.withdrawalRepo.ResolveTx(ctx, tx, withdrawalID, domain.WithdrawalCompleted, notes); err != nil {
		return err
	}
	if err := s.transactionRepo.ResolveByExternalIDTx(ctx, tx, withdrawalRef(withdrawalID), domain.TxStatusCompleted); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Reject refuses a request and refunds the coins (admin action).
func (s *WithdrawalService) Reject(ctx context.Context, withdrawalID int64, notes string) error {
	w, err := s.withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.withdrawalRepo.ResolveTx(ctx, tx, withdrawalID, domain.WithdrawalRejected, notes); err != nil {
		return err
	}
	if err := s.refundTx(ctx, tx, w); err != nil {
		return err
	}
	if err := s.transactionRepo.ResolveByExternalIDTx(ctx, tx, withdrawalRef(w.ID), domain.TxStatusFailed); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// List returns a user's withdrawal history.
func (s *WithdrawalService) List(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	return s.withdrawalRepo.GetByUserID(ctx, userID, limit)
}

// ListPending returns all unresolved requests (admin view).
func (s *WithdrawalService) ListPending(ctx context.Context) ([]domain.Withdrawal, error) {
	return s.withdrawalRepo.GetPending(ctx)
}

func (s *WithdrawalService) refundTx(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	if _, err := s.walletRepo.ApplyDeltaTx(ctx, tx, w.UserID, w.CoinAmount); err != nil {
		return err
	}
	entry := &domain.WalletTransaction{
		UserID:     w.UserID,
		Type:       domain.TxRefund,
		Status:     domain.TxStatusCompleted,
		Amount:     w.CoinAmount,
		ExternalID: withdrawalRef(w.ID),
		Meta:       map[string]interface{}{"withdrawal_id": w.ID},
	}
	return s.transactionRepo.CreateTx(ctx, tx, entry)
}

func withdrawalRef(id int64) string {
	return fmt.Sprintf("wd-%d", id)
}
