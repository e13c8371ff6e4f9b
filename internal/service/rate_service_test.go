package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"livesocial_backend/internal/domain"
	"livesocial_backend/internal/repository"
	"livesocial_backend/internal/settlement"
)

type fakeRateSource struct {
	cfg   *domain.RateConfig
	err   error
	reads int
}

func (f *fakeRateSource) Get(_ context.Context) (*domain.RateConfig, error) {
	f.reads++
	return f.cfg, f.err
}

func (f *fakeRateSource) Upsert(_ context.Context, cfg *domain.RateConfig) error {
	f.cfg = cfg
	return nil
}

func TestRateService_MissingConfigFallsBackToDefaults(t *testing.T) {
	src := &fakeRateSource{err: repository.ErrRateConfigMissing}
	s := NewRateService(src, time.Minute)

	rates := s.Current(context.Background())
	want := settlement.DefaultRates()
	if rates != want {
		t.Fatalf("rates = %+v; want defaults %+v", rates, want)
	}
}

func TestRateService_CachesWithinTTL(t *testing.T) {
	src := &fakeRateSource{cfg: &domain.RateConfig{
		AdminCommissionPercent: 30,
		GstarCommissionPercent: 35,
		GiconCommissionPercent: 28,
		CoinToRupeeRatio:       20,
		AudioCallRate:          50,
		VideoCallRate:          90,
		GiconRateMultiplier:    110,
		GstarRateMultiplier:    140,
	}}
	s := NewRateService(src, time.Minute)

	first := s.Current(context.Background())
	second := s.Current(context.Background())

	if first.AdminCommissionPercent != 30 || second != first {
		t.Fatalf("expected cached snapshot, got %+v then %+v", first, second)
	}
	if src.reads != 1 {
		t.Fatalf("expected 1 backing read, got %d", src.reads)
	}
}

func TestRateService_UpdateInvalidatesCache(t *testing.T) {
	src := &fakeRateSource{cfg: &domain.RateConfig{AdminCommissionPercent: 20, CoinToRupeeRatio: 10}}
	s := NewRateService(src, time.Minute)

	_ = s.Current(context.Background())

	updated := &domain.RateConfig{AdminCommissionPercent: 22, CoinToRupeeRatio: 10}
	if err := s.Update(context.Background(), updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := s.Current(context.Background()); got.AdminCommissionPercent != 22 {
		t.Fatalf("expected fresh rates after update, got %+v", got)
	}
}

func TestRateService_StorageErrorServesStaleSnapshot(t *testing.T) {
	src := &fakeRateSource{cfg: &domain.RateConfig{AdminCommissionPercent: 21, CoinToRupeeRatio: 10}}
	s := NewRateService(src, time.Nanosecond)

	first := s.Current(context.Background())
	if first.AdminCommissionPercent != 21 {
		t.Fatalf("unexpected first snapshot %+v", first)
	}

	src.err = errors.New("connection refused")
	time.Sleep(time.Millisecond)

	if got := s.Current(context.Background()); got.AdminCommissionPercent != 21 {
		t.Fatalf("expected stale snapshot on storage error, got %+v", got)
	}
}
