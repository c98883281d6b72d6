package addtryongarment

import (
	"time"

	"bodyfit-workers/internal/tryon"
)

type Input struct {
	SessionID string `json:"sessionId"`
	GarmentID string `json:"garmentId"`
}

type Output struct {
	SessionID   string            `json:"sessionId"`
	GarmentIDs  []string          `json:"garmentIds"`
	Added       bool              `json:"added"`
	TryOnResult tryon.Composition `json:"tryOnResult"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
