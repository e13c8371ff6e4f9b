package repository

import (
	"context"
	"errors"

	"livesocial_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrGiftNotFound = errors.New("gift not found")

type GiftRepository struct {
	db *pgxpool.Pool
}

func NewGiftRepository(db *pgxpool.Pool) *GiftRepository {
	return &GiftRepository{db: db}
}

func (r *GiftRepository) GetByID(ctx context.Context, id int64) (*domain.Gift, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, COALESCE(icon, ''), coin_price, active, created_at
		FROM gifts
		WHERE id = $1
	`, id)

	var g domain.Gift
	if err := row.Scan(&g.ID, &g.Name, &g.Icon, &g.CoinPrice, &g.Active, &g.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGiftNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListActive returns the catalog shown to users.
func (r *GiftRepository) ListActive(ctx context.Context) ([]domain.Gift, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, COALESCE(icon, ''), coin_price, active, created_at
		FROM gifts
		WHERE active
		ORDER BY coin_price ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gifts []domain.Gift
	for rows.Next() {
		var g domain.Gift
		if err := rows.Scan(&g.ID, &g.Name, &g.Icon, &g.CoinPrice, &g.Active, &g.CreatedAt); err != nil {
			return nil, err
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

// Create adds a catalog item (admin endpoint).
func (r *GiftRepository) Create(ctx context.Context, g *domain.Gift) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO gifts (name, icon, coin_price, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, g.Name, g.Icon, g.CoinPrice, g.Active).Scan(&g.ID, &g.CreatedAt)
}

// Update rewrites a catalog item (admin endpoint).
func (r *GiftRepository) Update(ctx context.Context, g *domain.Gift) error {
	result, err := r.db.Exec(ctx, `
		UPDATE gifts SET name = $2, icon = $3, coin_price = $4, active = $5 WHERE id = $1
	`, g.ID, g.Name, g.Icon, g.CoinPrice, g.Active)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrGiftNotFound
	}
	return nil
}
