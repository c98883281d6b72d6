package getbodymodel

import (
	"time"

	"bodyfit-workers/internal/bodymodel"
)

type Input struct {
	BodyModelID string `json:"bodyModelId"`
}

type Output struct {
	BodyModelID string              `json:"bodyModelId"`
	UserID      string              `json:"userId,omitempty"`
	BodyModel   bodymodel.BodyModel `json:"bodyModel"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	RetrievedAt time.Time           `json:"retrievedAt"`
}
