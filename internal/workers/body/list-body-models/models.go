package listbodymodels

import "bodyfit-workers/internal/models"

// MaxLimit caps how many body models one job returns.
const MaxLimit = 100

type Input struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit"`
}

type Output struct {
	BodyModels []models.BodyModelSummary `json:"bodyModels"`
	Count      int                       `json:"count"`
}
