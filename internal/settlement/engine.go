package settlement

import (
	"errors"

	"livesocial_backend/internal/domain"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNotMultiple   = errors.New("amount not a multiple of conversion ratio")
	ErrBelowMinimum  = errors.New("amount below minimum withdrawal")
)

// EventKind distinguishes the two settlement triggers.
type EventKind string

const (
	EventCall EventKind = "call"
	EventGift EventKind = "gift"
)

// CommissionType labels which rate was applied, for audit.
type CommissionType string

const (
	CommissionAdmin CommissionType = "admin"
	CommissionGstar CommissionType = "gstar"
	CommissionGicon CommissionType = "gicon"
	CommissionNone  CommissionType = "none"
)

// Rates is the snapshot of the rate table a single settlement runs against.
// It is passed in per call; there is no package-level mutable state.
type Rates struct {
	AdminCommissionPercent int64
	GstarCommissionPercent int64
	GiconCommissionPercent int64
	CoinToRupeeRatio       int64
	AudioCallRate          int64 // coins per minute
	VideoCallRate          int64 // coins per minute
	GiconRateMultiplier    int64 // percent, 100 = base rate
	GstarRateMultiplier    int64 // percent
}

// DefaultRates returns the documented fallback used when the rate config
// row is missing.
func DefaultRates() Rates {
	return Rates{
		AdminCommissionPercent: 20,
		GstarCommissionPercent: 25,
		GiconCommissionPercent: 18,
		CoinToRupeeRatio:       10,
		AudioCallRate:          60,
		VideoCallRate:          100,
		GiconRateMultiplier:    120,
		GstarRateMultiplier:    150,
	}
}

// FromConfig converts a stored rate config row into an engine snapshot.
func FromConfig(cfg *domain.RateConfig) Rates {
	return Rates{
		AdminCommissionPercent: cfg.AdminCommissionPercent,
		GstarCommissionPercent: cfg.GstarCommissionPercent,
		GiconCommissionPercent: cfg.GiconCommissionPercent,
		CoinToRupeeRatio:       cfg.CoinToRupeeRatio,
		AudioCallRate:          cfg.AudioCallRate,
		VideoCallRate:          cfg.VideoCallRate,
		GiconRateMultiplier:    cfg.GiconRateMultiplier,
		GstarRateMultiplier:    cfg.GstarRateMultiplier,
	}
}

// CommissionRate returns the platform cut for a payee of the given tier.
// Unknown tiers fall back to the basic rate.
func (r Rates) CommissionRate(tier domain.ProfileTier) (int64, CommissionType) {
	switch tier {
	case domain.TierGstar:
		return r.GstarCommissionPercent, CommissionGstar
	case domain.TierGicon:
		return r.GiconCommissionPercent, CommissionGicon
	default:
		return r.AdminCommissionPercent, CommissionAdmin
	}
}

// CreditEligible decides whether the payee receives a credit at all.
// Calls pay out only on the male-caller/female-receiver direction; gifts
// settle regardless of gender. The source product flip-flopped on both
// rules; this is the single place to change if product direction does.
func CreditEligible(kind EventKind, payerGender, payeeGender domain.Gender) bool {
	if kind == EventGift {
		return true
	}
	return payerGender == domain.GenderMale && payeeGender == domain.GenderFemale
}

// Input describes one call-end or gift-send event to settle.
type Input struct {
	Kind        EventKind
	GrossAmount int64
	PayerGender domain.Gender
	PayeeGender domain.Gender
	PayeeTier   domain.ProfileTier
	// PayeeMissing degrades the settlement to a payer-only debit.
	PayeeMissing bool
}

// Result reports the coin movement for one settlement.
type Result struct {
	DebitAmount      int64          `json:"debit_amount"`
	CreditAmount     int64          `json:"credit_amount"`
	CommissionAmount int64          `json:"commission_amount"`
	CommissionRate   int64          `json:"commission_rate"`
	CommissionType   CommissionType `json:"commission_type"`
	Eligible         bool           `json:"eligible"`
}

// Quote computes the coin split for one event. Pure integer arithmetic,
// truncating toward zero. The payer is always debited the full gross
// amount; the credit and commission apply only when eligible.
func Quote(in Input, rates Rates) (Result, error) {
	if in.GrossAmount <= 0 {
		return Result{}, ErrInvalidAmount
	}

	res := Result{
		DebitAmount:    in.GrossAmount,
		CommissionType: CommissionNone,
	}

	if in.PayeeMissing || !CreditEligible(in.Kind, in.PayerGender, in.PayeeGender) {
		return res, nil
	}

	rate, ctype := rates.CommissionRate(in.PayeeTier)
	commission := in.GrossAmount * rate / 100

	res.Eligible = true
	res.CommissionRate = rate
	res.CommissionType = ctype
	res.CommissionAmount = commission
	res.CreditAmount = in.GrossAmount - commission
	return res, nil
}

// CoinsPerMinute prices one minute of a call: the per-type base rate scaled
// by the payee tier multiplier, floor division.
func CoinsPerMinute(rates Rates, callType domain.CallType, payeeTier domain.ProfileTier) int64 {
	base := rates.AudioCallRate
	if callType == domain.CallVideo {
		base = rates.VideoCallRate
	}

	switch payeeTier {
	case domain.TierGicon:
		return base * rates.GiconRateMultiplier / 100
	case domain.TierGstar:
		return base * rates.GstarRateMultiplier / 100
	default:
		return base
	}
}

// CoinsToRupees converts a withdrawal coin amount to currency. The amount
// must be a positive exact multiple of the ratio and at least one rupee
// worth of coins.
func CoinsToRupees(coins, ratio int64) (int64, error) {
	if ratio <= 0 {
		ratio = DefaultRates().CoinToRupeeRatio
	}
	if coins <= 0 {
		return 0, ErrInvalidAmount
	}
	if coins < ratio {
		return 0, ErrBelowMinimum
	}
	if coins%ratio != 0 {
		return 0, ErrNotMultiple
	}
	return coins / ratio, nil
}
