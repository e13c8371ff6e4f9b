package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"livesocial_backend/internal/domain"
	"livesocial_backend/internal/repository"
	"livesocial_backend/internal/settlement"

	"github.com/jackc/pgx/v5/pgxpool"
)

// These tests need a real database with the migrations applied. They skip
// when DATABASE_URL is not set.

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

var testUserSeq int64

func createTestUser(t *testing.T, pool *pgxpool.Pool, gender domain.Gender, tier domain.ProfileTier, balance int64) *domain.User {
	t.Helper()

	testUserSeq++
	u := &domain.User{
		Phone:       fmt.Sprintf("+%d%03d", time.Now().UnixNano(), testUserSeq),
		Username:    fmt.Sprintf("itest_%d", testUserSeq),
		Gender:      gender,
		ProfileTier: tier,
	}
	if err := repository.NewUserRepository(pool).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if balance > 0 {
		if _, err := repository.NewWalletRepository(pool).ApplyDelta(context.Background(), u.ID, balance); err != nil {
			t.Fatalf("fund wallet: %v", err)
		}
	}
	return u
}

func walletBalance(t *testing.T, pool *pgxpool.Pool, userID int64) int64 {
	t.Helper()
	w, err := repository.NewWalletRepository(pool).GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	return w.CoinBalance
}

func TestApplyDeltaRejectsUnderflow(t *testing.T) {
	pool := newTestPool(t)
	u := createTestUser(t, pool, domain.GenderMale, domain.TierBasic, 60)
	wallets := repository.NewWalletRepository(pool)

	_, err := wallets.ApplyDelta(context.Background(), u.ID, -100)
	if !errors.Is(err, repository.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := walletBalance(t, pool, u.ID); got != 60 {
		t.Fatalf("balance mutated on rejected debit: %d", got)
	}
}

func TestApplyDeltaConcurrentDebits(t *testing.T) {
	pool := newTestPool(t)
	u := createTestUser(t, pool, domain.GenderMale, domain.TierBasic, 60)
	wallets := repository.NewWalletRepository(pool)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = wallets.ApplyDelta(context.Background(), u.ID, -50)
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repository.ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || insufficient != 1 {
		t.Fatalf("expected exactly one debit to win, got ok=%d insufficient=%d", ok, insufficient)
	}
	if got := walletBalance(t, pool, u.ID); got != 10 {
		t.Fatalf("final balance = %d, want 10", got)
	}
}

func TestSettleCallMovesCoins(t *testing.T) {
	pool := newTestPool(t)
	payer := createTestUser(t, pool, domain.GenderMale, domain.TierBasic, 2000)
	payee := createTestUser(t, pool, domain.GenderFemale, domain.TierBasic, 0)

	rates := NewRateService(repository.NewRateConfigRepository(pool), time.Second)
	svc := NewSettlementService(pool, rates)

	const gross = 140
	outcome, err := svc.Settle(context.Background(), SettleRequest{
		Kind:        settlement.EventCall,
		PayerID:     payer.ID,
		PayeeID:     payee.ID,
		GrossAmount: gross,
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	if !outcome.Eligible {
		t.Fatal("male to female call should credit the payee")
	}
	if outcome.CommissionAmount != gross*outcome.CommissionRate/100 {
		t.Fatalf("commission %d inconsistent with rate %d", outcome.CommissionAmount, outcome.CommissionRate)
	}
	if outcome.CreditAmount+outcome.CommissionAmount != gross {
		t.Fatalf("credit %d + commission %d != gross %d", outcome.CreditAmount, outcome.CommissionAmount, gross)
	}
	if got := walletBalance(t, pool, payer.ID); got != 2000-gross {
		t.Fatalf("payer balance = %d, want %d", got, 2000-gross)
	}
	if got := walletBalance(t, pool, payee.ID); got != outcome.CreditAmount {
		t.Fatalf("payee balance = %d, want %d", got, outcome.CreditAmount)
	}
}

func TestSettleIneligibleDirectionDebitsOnly(t *testing.T) {
	pool := newTestPool(t)
	payer := createTestUser(t, pool, domain.GenderFemale, domain.TierBasic, 500)
	payee := createTestUser(t, pool, domain.GenderMale, domain.TierBasic, 0)

	rates := NewRateService(repository.NewRateConfigRepository(pool), time.Second)
	svc := NewSettlementService(pool, rates)

	outcome, err := svc.Settle(context.Background(), SettleRequest{
		Kind:        settlement.EventCall,
		PayerID:     payer.ID,
		PayeeID:     payee.ID,
		GrossAmount: 100,
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	if outcome.Eligible || outcome.CreditAmount != 0 {
		t.Fatalf("female to male call must not credit, got %+v", outcome.Result)
	}
	if got := walletBalance(t, pool, payer.ID); got != 400 {
		t.Fatalf("payer balance = %d, want 400", got)
	}
	if got := walletBalance(t, pool, payee.ID); got != 0 {
		t.Fatalf("payee balance = %d, want 0", got)
	}
}

func TestSettlePartialFailureRollsBackAndReconciles(t *testing.T) {
	pool := newTestPool(t)
	payer := createTestUser(t, pool, domain.GenderMale, domain.TierBasic, 500)
	payee := createTestUser(t, pool, domain.GenderFemale, domain.TierBasic, 0)

	// Break the payee side after user creation: the user row exists so the
	// quote stays eligible, but the credit has no wallet to land in.
	if _, err := pool.Exec(context.Background(),
		`DELETE FROM wallets WHERE user_id = $1`, payee.ID); err != nil {
		t.Fatalf("delete payee wallet: %v", err)
	}

	rates := NewRateService(repository.NewRateConfigRepository(pool), time.Second)
	svc := NewSettlementService(pool, rates)

	_, err := svc.Settle(context.Background(), SettleRequest{
		Kind:        settlement.EventCall,
		PayerID:     payer.ID,
		PayeeID:     payee.ID,
		GrossAmount: 100,
	})
	if !errors.Is(err, ErrPartialSettlement) {
		t.Fatalf("expected ErrPartialSettlement, got %v", err)
	}

	if got := walletBalance(t, pool, payer.ID); got != 500 {
		t.Fatalf("debit survived rollback, payer balance = %d", got)
	}

	recs, err := repository.NewReconciliationRepository(pool).GetPending(context.Background())
	if err != nil {
		t.Fatalf("get pending reconciliations: %v", err)
	}
	found := false
	for _, rec := range recs {
		if rec.PayerID == payer.ID && rec.PayeeID == payee.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("no pending reconciliation row recorded for the failed settlement")
	}
}

func TestWithdrawalRequestAndCancel(t *testing.T) {
	pool := newTestPool(t)
	u := createTestUser(t, pool, domain.GenderFemale, domain.TierGstar, 300)

	rates := NewRateService(repository.NewRateConfigRepository(pool), time.Second)
	svc := NewWithdrawalService(pool, rates)

	w, err := svc.Request(context.Background(), u.ID, 100)
	if err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}
	if w.Status != domain.WithdrawalPending {
		t.Fatalf("status = %s, want pending", w.Status)
	}
	if got := walletBalance(t, pool, u.ID); got != 200 {
		t.Fatalf("balance after request = %d, want 200", got)
	}

	// Second request while one is pending must be refused.
	if _, err := svc.Request(context.Background(), u.ID, 100); !errors.Is(err, ErrPendingWithdrawal) {
		t.Fatalf("expected ErrPendingWithdrawal, got %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), u.ID, w.ID)
	if err != nil {
		t.Fatalf("cancel withdrawal: %v", err)
	}
	if cancelled.Status != domain.WithdrawalCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
	if got := walletBalance(t, pool, u.ID); got != 300 {
		t.Fatalf("balance after cancel = %d, want 300", got)
	}
}
