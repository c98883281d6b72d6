// Package repository persists body models and try-on sessions in Postgres, caches body
// models in Redis and reads analysed garments from Elasticsearch.
package repository

// Schema is applied at startup; every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS body_models (
		id         TEXT PRIMARY KEY,
		user_id    TEXT,
		body_type  TEXT NOT NULL,
		model      JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS body_models_user_id_idx ON body_models (user_id)`,
	`CREATE TABLE IF NOT EXISTS tryon_sessions (
		id            TEXT PRIMARY KEY,
		body_model_id TEXT NOT NULL REFERENCES body_models (id),
		status        TEXT NOT NULL,
		payload       JSONB NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS tryon_sessions_body_model_id_idx ON tryon_sessions (body_model_id)`,
}
