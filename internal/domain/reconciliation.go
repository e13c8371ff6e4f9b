package domain

import "time"

type ReconciliationStatus string

const (
	ReconciliationPending  ReconciliationStatus = "pending"
	ReconciliationResolved ReconciliationStatus = "resolved"
)

// Reconciliation records a settlement whose debit/credit pair could not be
// committed as a unit. Rows are written outside the failed transaction so
// the event survives the rollback and can be replayed or resolved manually.
type Reconciliation struct {
	ID           int64                `db:"id" json:"id"`
	PayerID      int64                `db:"payer_id" json:"payer_id"`
	PayeeID      int64                `db:"payee_id" json:"payee_id"`
	GrossAmount  int64                `db:"gross_amount" json:"gross_amount"`
	CreditAmount int64                `db:"credit_amount" json:"credit_amount"`
	EventKind    string               `db:"event_kind" json:"event_kind"`
	Reason       string               `db:"reason" json:"reason"`
	Status       ReconciliationStatus `db:"status" json:"status"`
	CreatedAt    time.Time            `db:"created_at" json:"created_at"`
	ResolvedAt   *time.Time           `db:"resolved_at" json:"resolved_at,omitempty"`
}
