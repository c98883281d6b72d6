package createtryonsession

import (
	"bodyfit-workers/internal/models"
	"bodyfit-workers/internal/tryon"
)

type Input struct {
	BodyModelID string   `json:"bodyModelId"`
	GarmentIDs  []string `json:"garmentIds"`
	PoseType    string   `json:"poseType"`
	Lighting    string   `json:"lighting"`
}

type Output struct {
	SessionID   string             `json:"sessionId"`
	Status      string             `json:"status"`
	GarmentIDs  []string           `json:"garmentIds"`
	TryOnResult tryon.Composition  `json:"tryOnResult"`
	Summary     models.BodySummary `json:"bodyModelSummary"`
}

// stringSlice keeps the string elements of a decoded JSON array in order.
func stringSlice(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
