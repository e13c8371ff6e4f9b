package domain

import "time"

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TxCallPayment  TransactionType = "call_payment"
	TxCallEarning  TransactionType = "call_earning"
	TxGiftSent     TransactionType = "gift_sent"
	TxGiftReceived TransactionType = "gift_received"
	TxRecharge     TransactionType = "recharge"
	TxWithdrawal   TransactionType = "withdrawal"
	TxRefund       TransactionType = "refund"
)

type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "pending"
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusFailed    TransactionStatus = "failed"
	TxStatusCancelled TransactionStatus = "cancelled"
)

// WalletTransaction is an immutable ledger entry. Amount is signed:
// positive for credits, negative for debits. Only Status may transition
// after creation (pending -> completed/failed/cancelled).
type WalletTransaction struct {
	ID         int64                  `db:"id" json:"id"`
	UserID     int64                  `db:"user_id" json:"user_id"`
	Type       TransactionType        `db:"type" json:"type"`
	Status     TransactionStatus      `db:"status" json:"status"`
	Amount     int64                  `db:"amount" json:"amount"`
	ExternalID string                 `db:"external_id" json:"external_id,omitempty"`
	Meta       map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt  time.Time              `db:"created_at" json:"created_at"`
}
