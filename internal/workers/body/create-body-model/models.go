package createbodymodel

import (
	"bodyfit-workers/internal/bodymodel/bodytype"
	"bodyfit-workers/internal/bodymodel/measurements"
	"bodyfit-workers/internal/bodymodel/shape"
)

type Input struct {
	Image           string   `json:"image"`
	ReferenceHeight *float64 `json:"referenceHeight,omitempty"`
	UserID          string   `json:"userId,omitempty"`
	BodyModelID     string   `json:"bodyModelId,omitempty"`

	// RequestKey is the element instance key of the job; retries of the same task
	// resolve to the same body model id.
	RequestKey int64 `json:"-"`
}

type Output struct {
	BodyModelID        string                    `json:"bodyModelId"`
	BodyType           bodytype.Type             `json:"bodyType"`
	Measurements       measurements.Measurements `json:"measurements"`
	ShapeParameters    shape.Parameters          `json:"shapeParameters"`
	FitRecommendations bodytype.Recommendations  `json:"fitRecommendations"`
	VertexCount        int                       `json:"vertexCount"`
	NotificationID     string                    `json:"notificationId,omitempty"`
}
