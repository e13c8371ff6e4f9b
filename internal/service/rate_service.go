package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"livesocial_backend/internal/domain"
	"livesocial_backend/internal/logger"
	"livesocial_backend/internal/repository"
	"livesocial_backend/internal/settlement"
)

// rateSource is satisfied by *repository.RateConfigRepository.
type rateSource interface {
	Get(ctx context.Context) (*domain.RateConfig, error)
	Upsert(ctx context.Context, cfg *domain.RateConfig) error
}

// RateService reads the admin-managed rate table through a TTL cache and
// hands settlement an immutable snapshot per call. A missing config row
// falls back to the documented defaults instead of failing the request.
type RateService struct {
	src rateSource
	ttl time.Duration

	mu        sync.RWMutex
	cached    settlement.Rates
	haveCache bool
	fetchedAt time.Time
}

func NewRateService(src rateSource, ttl time.Duration) *RateService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RateService{src: src, ttl: ttl}
}

// Current returns the rate snapshot to settle against. Never fails: on a
// storage error the last cached snapshot (or the defaults) is used, so a
// config outage does not take down the payment path.
func (s *RateService) Current(ctx context.Context) settlement.Rates {
	s.mu.RLock()
	if s.haveCache && time.Since(s.fetchedAt) < s.ttl {
		rates := s.cached
		s.mu.RUnlock()
		return rates
	}
	s.mu.RUnlock()

	cfg, err := s.src.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrRateConfigMissing) {
			return settlement.DefaultRates()
		}
		logger.Warn("rate config read failed, using stale/default rates", "error", err)
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.haveCache {
			return s.cached
		}
		return settlement.DefaultRates()
	}

	rates := settlement.FromConfig(cfg)
	s.mu.Lock()
	s.cached = rates
	s.haveCache = true
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return rates
}

// Get returns the raw stored config for the admin read endpoint.
func (s *RateService) Get(ctx context.Context) (*domain.RateConfig, error) {
	return s.src.Get(ctx)
}

// Update writes the rate table and invalidates the cache so the next
// settlement sees the new rates.
func (s *RateService) Update(ctx context.Context, cfg *domain.RateConfig) error {
	if err := s.src.Upsert(ctx, cfg); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// Invalidate drops the cached snapshot.
func (s *RateService) Invalidate() {
	s.mu.Lock()
	s.haveCache = false
	s.mu.Unlock()
}
