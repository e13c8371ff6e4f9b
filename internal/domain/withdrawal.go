package domain

import "time"

type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalRejected   WithdrawalStatus = "rejected"
	WithdrawalCancelled  WithdrawalStatus = "cancelled"
)

// Withdrawal is a request to convert coins to currency. Coins are debited
// when the request is created; cancel/reject refund them.
type Withdrawal struct {
	ID          int64            `db:"id" json:"id"`
	UserID      int64            `db:"user_id" json:"user_id"`
	CoinAmount  int64            `db:"coin_amount" json:"coin_amount"`
	RupeeAmount int64            `db:"rupee_amount" json:"rupee_amount"`
	Ratio       int64            `db:"ratio" json:"ratio"`
	Status      WithdrawalStatus `db:"status" json:"status"`
	AdminNotes  string           `db:"admin_notes" json:"admin_notes,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	ResolvedAt  *time.Time       `db:"resolved_at" json:"resolved_at,omitempty"`
}
