package repository

import (
	"context"
	"encoding/json"

	"livesocial_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const insertTransactionSQL = `
	INSERT INTO transactions (user_id, type, status, amount, external_id, meta)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
	RETURNING id, created_at`

// Create inserts a ledger entry. Entries are immutable apart from status
// transitions.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.WalletTransaction) error {
	if tx.Status == "" {
		tx.Status = domain.TxStatusCompleted
	}
	return r.db.QueryRow(ctx, insertTransactionSQL,
		tx.UserID, tx.Type, tx.Status, tx.Amount, tx.ExternalID, metaJSON(tx.Meta),
	).Scan(&tx.ID, &tx.CreatedAt)
}

// CreateTx inserts a ledger entry within an existing database transaction.
func (r *TransactionRepository) CreateTx(ctx context.Context, dbTx pgx.Tx, tx *domain.WalletTransaction) error {
	if tx.Status == "" {
		tx.Status = domain.TxStatusCompleted
	}
	return dbTx.QueryRow(ctx, insertTransactionSQL,
		tx.UserID, tx.Type, tx.Status, tx.Amount, tx.ExternalID, metaJSON(tx.Meta),
	).Scan(&tx.ID, &tx.CreatedAt)
}

// UpdateStatus moves an entry from pending to a terminal status.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id int64, status domain.TransactionStatus) error {
	result, err := r.db.Exec(ctx,
		`UPDATE transactions SET status = $2 WHERE id = $1 AND status = 'pending'`, id, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ResolveByExternalIDTx finalizes pending entries that share an external
// reference (e.g. a withdrawal's ledger row) inside an existing
// transaction.
func (r *TransactionRepository) ResolveByExternalIDTx(ctx context.Context, dbTx pgx.Tx, externalID string, status domain.TransactionStatus) error {
	_, err := dbTx.Exec(ctx,
		`UPDATE transactions SET status = $2 WHERE external_id = $1 AND status = 'pending'`, externalID, status)
	return err
}

// GetByUserID returns recent ledger entries for a user
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.WalletTransaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, status, amount, COALESCE(external_id, ''), meta, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByUserIDAndType returns ledger entries filtered by type
func (r *TransactionRepository) GetByUserIDAndType(ctx context.Context, userID int64, txType domain.TransactionType, limit int) ([]*domain.WalletTransaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, status, amount, COALESCE(external_id, ''), meta, created_at
		 FROM transactions
		 WHERE user_id = $1 AND type = $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		userID, txType, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func metaJSON(meta map[string]interface{}) []byte {
	b, err := json.Marshal(meta)
	if err != nil {
		return []byte("{}")
	}
	return b
}

func scanTransactions(rows pgx.Rows) ([]*domain.WalletTransaction, error) {
	var result []*domain.WalletTransaction

	for rows.Next() {
		var (
			tx      domain.WalletTransaction
			metaRaw []byte
		)

		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Status, &tx.Amount, &tx.ExternalID, &metaRaw, &tx.CreatedAt); err != nil {
			return nil, err
		}

		if len(metaRaw) > 0 {
			_ = json.Unmarshal(metaRaw, &tx.Meta)
		}

		result = append(result, &tx)
	}

	return result, rows.Err()
}
