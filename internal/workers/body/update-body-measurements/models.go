package updatebodymeasurements

import (
	"time"

	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/bodymodel/bodytype"
	"bodyfit-workers/internal/bodymodel/measurements"
	"bodyfit-workers/internal/bodymodel/shape"
)

type Input struct {
	BodyModelID string                      `json:"bodyModelId"`
	Update      bodymodel.MeasurementUpdate `json:"update"`
}

type Output struct {
	BodyModelID        string                    `json:"bodyModelId"`
	BodyType           bodytype.Type             `json:"bodyType"`
	PreviousBodyType   bodytype.Type             `json:"previousBodyType"`
	Measurements       measurements.Measurements `json:"measurements"`
	ShapeParameters    shape.Parameters          `json:"shapeParameters"`
	FitRecommendations bodytype.Recommendations  `json:"fitRecommendations"`
	UpdatedAt          time.Time                 `json:"updatedAt"`
}

func optionalNumber(variables map[string]interface{}, key string) *float64 {
	if v, ok := variables[key].(float64); ok {
		return &v
	}
	return nil
}
