package domain

import "time"

// Wallet holds a user's coin balance. CoinBalance never goes negative;
// the repository rejects any delta that would underflow it.
type Wallet struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	CoinBalance int64     `db:"coin_balance" json:"coin_balance"`
	TotalEarned string    `db:"total_earned" json:"total_earned"`
	TotalSpent  string    `db:"total_spent" json:"total_spent"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
