package domain

import "time"

// RateConfig is the admin-managed rate table: commission percentages by
// payee tier, per-minute call prices and the coin-to-rupee conversion
// ratio. It is read-only input to settlement; mutations go through the
// admin endpoints only.
type RateConfig struct {
	ID                     int64     `db:"id" json:"id"`
	AdminCommissionPercent int64     `db:"admin_commission_percent" json:"admin_commission_percent"`
	GstarCommissionPercent int64     `db:"gstar_commission_percent" json:"gstar_commission_percent"`
	GiconCommissionPercent int64     `db:"gicon_commission_percent" json:"gicon_commission_percent"`
	CoinToRupeeRatio       int64     `db:"coin_to_rupee_ratio" json:"coin_to_rupee_ratio"`
	AudioCallRate          int64     `db:"audio_call_rate" json:"audio_call_rate"`
	VideoCallRate          int64     `db:"video_call_rate" json:"video_call_rate"`
	GiconRateMultiplier    int64     `db:"gicon_rate_multiplier" json:"gicon_rate_multiplier"`
	GstarRateMultiplier    int64     `db:"gstar_rate_multiplier" json:"gstar_rate_multiplier"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}
