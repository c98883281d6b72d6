package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bodyfit-workers/internal/bodymodel/bodytype"
	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	upsertBodyModelQuery = `INSERT INTO body_models (id, user_id, body_type, model, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET body_type = EXCLUDED.body_type, model = EXCLUDED.model, updated_at = EXCLUDED.updated_at`

	selectBodyModelQuery = `SELECT id, user_id, model, created_at, updated_at FROM body_models WHERE id = $1`

	listBodyModelsQuery = `SELECT id, user_id, body_type, (model->'measurements'->>'estimated_height')::double precision, created_at, updated_at
FROM body_models WHERE ($1 = '' OR user_id = $1) ORDER BY created_at DESC LIMIT $2`

	deleteBodyModelSessionsQuery = `DELETE FROM tryon_sessions WHERE body_model_id = $1`
	deleteBodyModelQuery         = `DELETE FROM body_models WHERE id = $1`

	defaultListLimit = 50
)

// BodyModels stores body models in Postgres behind a Redis read-through cache.
type BodyModels struct {
	db     *sql.DB
	cache  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewBodyModels(db *sql.DB, cache *redis.Client, ttl time.Duration, log logger.Logger) *BodyModels {
	return &BodyModels{
		db:     db,
		cache:  cache,
		ttl:    ttl,
		logger: log.Named("repository.body_models"),
	}
}

func bodyModelCacheKey(id string) string {
	return "bodymodel:" + id
}

// Save upserts the record and drops any cached copy.
func (r *BodyModels) Save(ctx context.Context, record *models.BodyModelRecord) error {
	payload, err := json.Marshal(record.Model)
	if err != nil {
		return fmt.Errorf("marshal body model: %w", err)
	}

	userID := sql.NullString{String: record.UserID, Valid: record.UserID != ""}
	if _, err := r.db.ExecContext(ctx, upsertBodyModelQuery,
		record.ID, userID, string(record.Model.BodyType), payload, record.CreatedAt, record.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert body model %s: %w", record.ID, err)
	}

	if err := r.cache.Del(ctx, bodyModelCacheKey(record.ID)).Err(); err != nil {
		r.logger.Warn("failed to invalidate body model cache", map[string]interface{}{
			"bodyModelId": record.ID,
			"error":       err.Error(),
		})
	}
	return nil
}

// Get returns models.ErrNotFound when no record exists. Cache failures fall through
// to Postgres.
func (r *BodyModels) Get(ctx context.Context, id string) (*models.BodyModelRecord, error) {
	key := bodyModelCacheKey(id)

	cached, err := r.cache.Get(ctx, key).Result()
	switch {
	case err == nil:
		var record models.BodyModelRecord
		if jsonErr := json.Unmarshal([]byte(cached), &record); jsonErr == nil {
			return &record, nil
		}
		r.logger.Warn("discarding undecodable cached body model", map[string]interface{}{"bodyModelId": id})
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("body model cache read failed", map[string]interface{}{
			"bodyModelId": id,
			"error":       err.Error(),
		})
	}

	record, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(record); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.logger.Warn("body model cache write failed", map[string]interface{}{
				"bodyModelId": id,
				"error":       err.Error(),
			})
		}
	}
	return record, nil
}

func (r *BodyModels) load(ctx context.Context, id string) (*models.BodyModelRecord, error) {
	var (
		record  models.BodyModelRecord
		userID  sql.NullString
		payload []byte
	)
	err := r.db.QueryRowContext(ctx, selectBodyModelQuery, id).Scan(
		&record.ID, &userID, &payload, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("select body model %s: %w", id, err)
	}

	if err := json.Unmarshal(payload, &record.Model); err != nil {
		return nil, fmt.Errorf("decode body model %s: %w", id, err)
	}
	record.UserID = userID.String
	return &record, nil
}

// List returns summaries newest first; a non-positive limit uses the default page size.
func (r *BodyModels) List(ctx context.Context, filter models.BodyModelFilter) ([]models.BodyModelSummary, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, listBodyModelsQuery, filter.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list body models: %w", err)
	}
	defer rows.Close()

	out := []models.BodyModelSummary{}
	for rows.Next() {
		var (
			s        models.BodyModelSummary
			userID   sql.NullString
			bodyType string
			height   sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &userID, &bodyType, &height, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan body model summary: %w", err)
		}
		s.UserID = userID.String
		s.BodyType = bodytype.Type(bodyType)
		if height.Valid {
			h := height.Float64
			s.EstimatedHeight = &h
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list body models: %w", err)
	}
	return out, nil
}

// Delete removes the body model and its try-on sessions in one transaction, then drops
// the cached copy. It returns models.ErrNotFound when the body model does not exist.
func (r *BodyModels) Delete(ctx context.Context, id string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete body model %s: %w", id, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, deleteBodyModelSessionsQuery, id)
	if err != nil {
		return 0, fmt.Errorf("delete sessions of body model %s: %w", id, err)
	}
	sessions, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete sessions of body model %s: %w", id, err)
	}

	res, err = tx.ExecContext(ctx, deleteBodyModelQuery, id)
	if err != nil {
		return 0, fmt.Errorf("delete body model %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete body model %s: %w", id, err)
	}
	if n == 0 {
		return 0, models.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete body model %s: %w", id, err)
	}

	if err := r.cache.Del(ctx, bodyModelCacheKey(id)).Err(); err != nil {
		r.logger.Warn("failed to drop cached body model", map[string]interface{}{
			"bodyModelId": id,
			"error":       err.Error(),
		})
	}
	return sessions, nil
}
