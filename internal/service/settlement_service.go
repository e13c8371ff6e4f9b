package service

import (
	"context"
	"errors"
	"fmt"

	"livesocial_backend/internal/domain"
	"livesocial_backend/internal/logger"
	"livesocial_backend/internal/repository"
	"livesocial_backend/internal/settlement"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPayerNotFound = errors.New("payer not found")
	ErrSelfSettle    = errors.New("payer and payee are the same user")

	// ErrPartialSettlement reports that the debit step succeeded but the
	// credit/ledger step failed. The transaction is rolled back, so no
	// partial debit persists, but the event is recorded for reconciliation
	// and the caller gets this distinct error so client retry logic does
	// not double-debit blindly.
	ErrPartialSettlement = errors.New("settlement partially failed, queued for reconciliation")
)

// SettleRequest describes one call-end or gift-send event. GrossAmount is
// computed by the calling handler (duration*rate or price*quantity).
type SettleRequest struct {
	Kind        settlement.EventKind
	PayerID     int64
	PayeeID     int64
	GrossAmount int64
	Meta        map[string]interface{}
}

// SettleOutcome is the engine result plus the balances after applying it.
type SettleOutcome struct {
	settlement.Result
	PayerBalance int64
	PayeeBalance int64
}

// SettlementService applies engine quotes to wallets: one debit, one
// optional credit and their ledger rows, committed as a single unit.
type SettlementService struct {
	db                 *pgxpool.Pool
	userRepo           *repository.UserRepository
	walletRepo         *repository.WalletRepository
	transactionRepo    *repository.TransactionRepository
	reconciliationRepo *repository.ReconciliationRepository
	rates              *RateService
}

func NewSettlementService(db *pgxpool.Pool, rates *RateService) *SettlementService {
	return &SettlementService{
		db:                 db,
		userRepo:           repository.NewUserRepository(db),
		walletRepo:         repository.NewWalletRepository(db),
		transactionRepo:    repository.NewTransactionRepository(db),
		reconciliationRepo: repository.NewReconciliationRepository(db),
		rates:              rates,
	}
}

// Settle computes and applies the coin movement for one event.
//
// Within one database transaction: wallets are locked in ascending user id
// order, the payer is debited the full gross amount, the payee is credited
// the net amount when eligible, and one ledger row is written per
// movement. Insufficient payer balance rejects before any mutation. A
// failure after the debit step rolls the transaction back, records the
// event for reconciliation and returns ErrPartialSettlement.
func (s *SettlementService) Settle(ctx context.Context, req SettleRequest) (*SettleOutcome, error) {
	if req.PayerID == req.PayeeID {
		return nil, ErrSelfSettle
	}

	payer, err := s.userRepo.GetByID(ctx, req.PayerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrPayerNotFound
		}
		return nil, err
	}

	in := settlement.Input{
		Kind:        req.Kind,
		GrossAmount: req.GrossAmount,
		PayerGender: payer.Gender,
	}

	// A deleted payee degrades to a payer-only debit, not a hard failure.
	payee, err := s.userRepo.GetByID(ctx, req.PayeeID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		in.PayeeMissing = true
	} else {
		in.PayeeGender = payee.Gender
		in.PayeeTier = payee.ProfileTier
	}

	quote, err := settlement.Quote(in, s.rates.Current(ctx))
	if err != nil {
		settlementFailures.WithLabelValues("invalid_amount").Inc()
		return nil, err
	}

	outcome, err := s.apply(ctx, req, quote)
	if err != nil {
		return nil, err
	}

	settlementsTotal.WithLabelValues(string(req.Kind), string(quote.CommissionType)).Inc()
	return outcome, nil
}

func (s *SettlementService) apply(ctx context.Context, req SettleRequest, quote settlement.Result) (*SettleOutcome, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock in ascending user id order to avoid deadlocks between
	// concurrent settlements touching the same wallets.
	if err := s.lockWallets(ctx, tx, req, quote.Eligible); err != nil {
		return nil, err
	}

	outcome := &SettleOutcome{Result: quote}

	outcome.PayerBalance, err = s.walletRepo.ApplyDeltaTx(ctx, tx, req.PayerID, -quote.DebitAmount)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			settlementFailures.WithLabelValues("insufficient_balance").Inc()
		}
		return nil, err
	}

	debitEntry := &domain.WalletTransaction{
		UserID: req.PayerID,
		Type:   debitType(req.Kind),
		Status: domain.TxStatusCompleted,
		Amount: -quote.DebitAmount,
		Meta:   req.Meta,
	}
	if err := s.transactionRepo.CreateTx(ctx, tx, debitEntry); err != nil {
		return nil, s.reconcile(ctx, req, quote, fmt.Errorf("debit ledger entry: %w", err))
	}

	if quote.Eligible {
		outcome.PayeeBalance, err = s.walletRepo.ApplyDeltaTx(ctx, tx, req.PayeeID, quote.CreditAmount)
		if err != nil {
			return nil, s.reconcile(ctx, req, quote, fmt.Errorf("payee credit: %w", err))
		}

		creditEntry := &domain.WalletTransaction{
			UserID: req.PayeeID,
			Type:   creditType(req.Kind),
			Status: domain.TxStatusCompleted,
			Amount: quote.CreditAmount,
			Meta:   req.Meta,
		}
		if err := s.transactionRepo.CreateTx(ctx, tx, creditEntry); err != nil {
			return nil, s.reconcile(ctx, req, quote, fmt.Errorf("credit ledger entry: %w", err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, s.reconcile(ctx, req, quote, fmt.Errorf("commit: %w", err))
	}
	return outcome, nil
}

func (s *SettlementService) lockWallets(ctx context.Context, tx pgx.Tx, req SettleRequest, eligible bool) error {
	ids := []int64{req.PayerID}
	if eligible {
		if req.PayeeID < req.PayerID {
			ids = []int64{req.PayeeID, req.PayerID}
		} else {
			ids = append(ids, req.PayeeID)
		}
	}
	for _, id := range ids {
		if _, err := s.walletRepo.LockTx(ctx, tx, id); err != nil {
			// A missing payee wallet is a storage inconsistency (the user
			// row exists). Let the credit step hit it so it is handled as
			// a reconciliation-worthy failure, not a silent skip.
			if id == req.PayeeID && errors.Is(err, repository.ErrWalletNotFound) {
				continue
			}
			return err
		}
	}
	return nil
}

// reconcile is called when the settlement failed after the debit step. The
// surrounding transaction will be rolled back by the caller's defer; the
// reconciliation row goes through the pool so it survives.
func (s *SettlementService) reconcile(ctx context.Context, req SettleRequest, quote settlement.Result, cause error) error {
	rec := &domain.Reconciliation{
		PayerID:      req.PayerID,
		PayeeID:      req.PayeeID,
		GrossAmount:  req.GrossAmount,
		CreditAmount: quote.CreditAmount,
		EventKind:    string(req.Kind),
		Reason:       cause.Error(),
	}
	if recErr := s.reconciliationRepo.Create(ctx, rec); recErr != nil {
		// Worst case: both the settlement and the reconciliation write
		// failed. Log everything; this line is the last trace of the event.
		logger.Error("settlement failed and reconciliation record could not be written",
			"payer_id", req.PayerID, "payee_id", req.PayeeID,
			"gross", req.GrossAmount, "kind", req.Kind,
			"cause", cause, "reconcile_error", recErr)
	} else {
		logger.Warn("settlement queued for reconciliation",
			"reconciliation_id", rec.ID, "payer_id", req.PayerID,
			"payee_id", req.PayeeID, "gross", req.GrossAmount, "cause", cause)
	}

	reconciliationsPending.Inc()
	settlementFailures.WithLabelValues("partial").Inc()
	return fmt.Errorf("%w: %s", ErrPartialSettlement, cause)
}

func debitType(kind settlement.EventKind) domain.TransactionType {
	if kind == settlement.EventGift {
		return domain.TxGiftSent
	}
	return domain.TxCallPayment
}

func creditType(kind settlement.EventKind) domain.TransactionType {
	if kind == settlement.EventGift {
		return domain.TxGiftReceived
	}
	return domain.TxCallEarning
}
