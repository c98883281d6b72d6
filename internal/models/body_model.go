package models

import (
	"context"
	"errors"
	"time"

	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/bodymodel/bodytype"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("record not found")

// BodyModelRecord is a stored body model.
type BodyModelRecord struct {
	ID        string              `json:"body_model_id"`
	UserID    string              `json:"user_id,omitempty"`
	Model     bodymodel.BodyModel `json:"model"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// BodyModelSummary is the listing view of a stored body model.
type BodyModelSummary struct {
	ID              string        `json:"bodyModelId"`
	UserID          string        `json:"userId,omitempty"`
	BodyType        bodytype.Type `json:"bodyType"`
	EstimatedHeight *float64      `json:"estimatedHeight"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// BodyModelFilter narrows a listing. An empty UserID lists every owner.
type BodyModelFilter struct {
	UserID string
	Limit  int
}

// BodyModelRepository defines body model data access.
type BodyModelRepository interface {
	Save(ctx context.Context, record *BodyModelRecord) error
	Get(ctx context.Context, id string) (*BodyModelRecord, error)
}

// BodyModelLister lists stored body models, newest first.
type BodyModelLister interface {
	List(ctx context.Context, filter BodyModelFilter) ([]BodyModelSummary, error)
}

// BodyModelDeleter removes a body model together with its try-on sessions and returns
// how many sessions went with it. It returns ErrNotFound when nothing was deleted.
type BodyModelDeleter interface {
	Delete(ctx context.Context, id string) (int64, error)
}
