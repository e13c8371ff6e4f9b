package domain

import "time"

// Gender is set at registration and never changes afterwards.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// ProfileTier classifies a payee and drives the platform commission rate.
// Only admins may change a user's tier.
type ProfileTier string

const (
	TierBasic ProfileTier = "basic"
	TierGicon ProfileTier = "gicon"
	TierGstar ProfileTier = "gstar"
)

func (t ProfileTier) Valid() bool {
	return t == TierBasic || t == TierGicon || t == TierGstar
}

type User struct {
	ID          int64       `db:"id" json:"id"`
	Phone       string      `db:"phone" json:"phone"`
	Username    string      `db:"username" json:"username"`
	Gender      Gender      `db:"gender" json:"gender"`
	ProfileTier ProfileTier `db:"profile_tier" json:"profile_tier"`
	IsOnline    bool        `db:"is_online" json:"is_online"`
	IsBusy      bool        `db:"is_busy" json:"is_busy"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}
