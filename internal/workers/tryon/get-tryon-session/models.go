package gettryonsession

import (
	"time"

	"bodyfit-workers/internal/models"
)

type Input struct {
	SessionID string `json:"sessionId"`
}

type Output struct {
	SessionID   string              `json:"sessionId"`
	Session     models.TryOnSession `json:"session"`
	RetrievedAt time.Time           `json:"retrievedAt"`
}
