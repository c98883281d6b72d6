package preparear

import "bodyfit-workers/internal/models"

type Input struct {
	SessionID string `json:"sessionId"`
}

type Output struct {
	SessionID string        `json:"sessionId"`
	ARData    models.ARData `json:"arData"`
}
