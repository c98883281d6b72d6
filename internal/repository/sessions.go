package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bodyfit-workers/internal/models"
)

const (
	insertSessionQuery = `INSERT INTO tryon_sessions (id, body_model_id, status, payload, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	updateSessionQuery = `UPDATE tryon_sessions SET status = $2, payload = $3, updated_at = $4 WHERE id = $1`

	selectSessionQuery = `SELECT payload FROM tryon_sessions WHERE id = $1`
)

// Sessions stores try-on sessions as JSONB documents.
type Sessions struct {
	db *sql.DB
}

func NewSessions(db *sql.DB) *Sessions {
	return &Sessions{db: db}
}

func (r *Sessions) Create(ctx context.Context, s *models.TryOnSession) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, insertSessionQuery,
		s.ID, s.BodyModelID, s.Status, payload, s.CreatedAt, s.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert session %s: %w", s.ID, err)
	}
	return nil
}

// Update returns models.ErrNotFound when the session does not exist.
func (r *Sessions) Update(ctx context.Context, s *models.TryOnSession) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	res, err := r.db.ExecContext(ctx, updateSessionQuery, s.ID, s.Status, payload, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update session %s: %w", s.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session %s: %w", s.ID, err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Sessions) Get(ctx context.Context, id string) (*models.TryOnSession, error) {
	var payload []byte
	if err := r.db.QueryRowContext(ctx, selectSessionQuery, id).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("select session %s: %w", id, err)
	}

	var s models.TryOnSession
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}
