package repository

import (
	"context"
	"errors"

	"livesocial_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRateConfigMissing = errors.New("rate config missing")

// RateConfigRepository reads and writes the single admin-managed rate row.
type RateConfigRepository struct {
	db *pgxpool.Pool
}

func NewRateConfigRepository(db *pgxpool.Pool) *RateConfigRepository {
	return &RateConfigRepository{db: db}
}

func (r *RateConfigRepository) Get(ctx context.Context) (*domain.RateConfig, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, admin_commission_percent, gstar_commission_percent, gicon_commission_percent,
		       coin_to_rupee_ratio, audio_call_rate, video_call_rate,
		       gicon_rate_multiplier, gstar_rate_multiplier, updated_at
		FROM rate_config
		ORDER BY id
		LIMIT 1
	`)

	var cfg domain.RateConfig
	if err := row.Scan(
		&cfg.ID, &cfg.AdminCommissionPercent, &cfg.GstarCommissionPercent, &cfg.GiconCommissionPercent,
		&cfg.CoinToRupeeRatio, &cfg.AudioCallRate, &cfg.VideoCallRate,
		&cfg.GiconRateMultiplier, &cfg.GstarRateMultiplier, &cfg.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRateConfigMissing
		}
		return nil, err
	}
	return &cfg, nil
}

// Upsert writes the rate table (admin endpoint).
func (r *RateConfigRepository) Upsert(ctx context.Context, cfg *domain.RateConfig) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO rate_config (id, admin_commission_percent, gstar_commission_percent, gicon_commission_percent,
		                         coin_to_rupee_ratio, audio_call_rate, video_call_rate,
		                         gicon_rate_multiplier, gstar_rate_multiplier, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			admin_commission_percent = EXCLUDED.admin_commission_percent,
			gstar_commission_percent = EXCLUDED.gstar_commission_percent,
			gicon_commission_percent = EXCLUDED.gicon_commission_percent,
			coin_to_rupee_ratio      = EXCLUDED.coin_to_rupee_ratio,
			audio_call_rate          = EXCLUDED.audio_call_rate,
			video_call_rate          = EXCLUDED.video_call_rate,
			gicon_rate_multiplier    = EXCLUDED.gicon_rate_multiplier,
			gstar_rate_multiplier    = EXCLUDED.gstar_rate_multiplier,
			updated_at               = NOW()
		RETURNING id, updated_at
	`, cfg.AdminCommissionPercent, cfg.GstarCommissionPercent, cfg.GiconCommissionPercent,
		cfg.CoinToRupeeRatio, cfg.AudioCallRate, cfg.VideoCallRate,
		cfg.GiconRateMultiplier, cfg.GstarRateMultiplier,
	).Scan(&cfg.ID, &cfg.UpdatedAt)
}
