package repository

import (
	"context"
	"errors"
	"time"

	"livesocial_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCallNotFound = errors.New("call session not found")

type CallRepository struct {
	db *pgxpool.Pool
}

func NewCallRepository(db *pgxpool.Pool) *CallRepository {
	return &CallRepository{db: db}
}

// Create opens a new call session in ringing state.
func (r *CallRepository) Create(ctx context.Context, s *domain.CallSession) error {
	if s.Status == "" {
		s.Status = domain.CallRinging
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO call_sessions (caller_id, receiver_id, type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, started_at
	`, s.CallerID, s.ReceiverID, s.Type, s.Status).Scan(&s.ID, &s.StartedAt)
}

func (r *CallRepository) GetByID(ctx context.Context, id int64) (*domain.CallSession, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, caller_id, receiver_id, type, status, duration_minutes, started_at, ended_at
		FROM call_sessions
		WHERE id = $1
	`, id)

	var s domain.CallSession
	if err := row.Scan(
		&s.ID, &s.CallerID, &s.ReceiverID, &s.Type, &s.Status, &s.DurationMinutes, &s.StartedAt, &s.EndedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCallNotFound
		}
		return nil, err
	}
	return &s, nil
}

// MarkOngoing transitions a ringing call to ongoing (receiver accepted).
func (r *CallRepository) MarkOngoing(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `
		UPDATE call_sessions SET status = 'ongoing' WHERE id = $1 AND status = 'ringing'
	`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCallNotFound
	}
	return nil
}

// End closes a call and records its duration. Only ringing or ongoing
// calls can end; ending an already ended call matches no row, which keeps
// call-end settlement idempotent at the session level.
func (r *CallRepository) End(ctx context.Context, id int64, durationMinutes int, status domain.CallStatus) error {
	result, err := r.db.Exec(ctx, `
		UPDATE call_sessions
		SET status = $2, duration_minutes = $3, ended_at = $4
		WHERE id = $1 AND status IN ('ringing', 'ongoing')
	`, id, status, durationMinutes, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCallNotFound
	}
	return nil
}
