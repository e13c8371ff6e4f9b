package repository

import (
	"context"
	"errors"

	"livesocial_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, phone, COALESCE(username, ''), gender, profile_tier, is_online, is_busy, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Phone, &u.Username, &u.Gender, &u.ProfileTier, &u.IsOnline, &u.IsBusy, &u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
	return scanUser(row)
}

// Create inserts a user and an empty wallet in one transaction. Gender is
// written once here and has no update path.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if u.ProfileTier == "" {
		u.ProfileTier = domain.TierBasic
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO users (phone, username, gender, profile_tier)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Phone, u.Username, u.Gender, u.ProfileTier,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO wallets (user_id) VALUES ($1)`, u.ID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetTier changes a user's profile tier (admin action only).
func (r *UserRepository) SetTier(ctx context.Context, userID int64, tier domain.ProfileTier) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET profile_tier = $2 WHERE id = $1`, userID, tier)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetOnline updates the presence flag; going offline also clears busy.
func (r *UserRepository) SetOnline(ctx context.Context, userID int64, online bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET is_online = $2, is_busy = CASE WHEN $2 THEN is_busy ELSE FALSE END
		 WHERE id = $1`,
		userID, online)
	return err
}

// SetBusy marks a user as in-call or available again.
func (r *UserRepository) SetBusy(ctx context.Context, userID int64, busy bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET is_busy = $2 WHERE id = $1`, userID, busy)
	return err
}
