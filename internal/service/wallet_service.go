package service

import (
	"context"
	"errors"

	"livesocial_backend/internal/domain"
	"livesocial_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInvalidAmount = errors.New("invalid amount")

// WalletService covers the non-settlement wallet surface: balance reads,
// recharge credits and ledger history.
type WalletService struct {
	db              *pgxpool.Pool
	walletRepo      *repository.WalletRepository
	transactionRepo *repository.TransactionRepository
}

func NewWalletService(db *pgxpool.Pool) *WalletService {
	return &WalletService{
		db:              db,
		walletRepo:      repository.NewWalletRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

func (s *WalletService) GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	return s.walletRepo.GetByUserID(ctx, userID)
}

// Recharge credits purchased coins. The external payment reference is kept
// on the ledger row; payment gateway callbacks are outside this service.
func (s *WalletService) Recharge(ctx context.Context, userID, coins int64, externalID string) (int64, error) {
	if coins <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newBalance, err := s.walletRepo.ApplyDeltaTx(ctx, tx, userID, coins)
	if err != nil {
		return 0, err
	}

	entry := &domain.WalletTransaction{
		UserID:     userID,
		Type:       domain.TxRecharge,
		Status:     domain.TxStatusCompleted,
		Amount:     coins,
		ExternalID: externalID,
	}
	if err := s.transactionRepo.CreateTx(ctx, tx, entry); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// History returns recent ledger entries, optionally filtered by type.
func (s *WalletService) History(ctx context.Context, userID int64, txType domain.TransactionType, limit int) ([]*domain.WalletTransaction, error) {
	if txType != "" {
		return s.transactionRepo.GetByUserIDAndType(ctx, userID, txType, limit)
	}
	return s.transactionRepo.GetByUserID(ctx, userID, limit)
}
