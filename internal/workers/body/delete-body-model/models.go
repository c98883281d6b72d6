package deletebodymodel

import "time"

type Input struct {
	BodyModelID string `json:"bodyModelId"`
}

type Output struct {
	BodyModelID     string    `json:"bodyModelId"`
	Deleted         bool      `json:"deleted"`
	SessionsDeleted int64     `json:"sessionsDeleted"`
	DeletedAt       time.Time `json:"deletedAt"`
}
