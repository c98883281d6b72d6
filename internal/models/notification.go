// internal/models/notification.go
package models

import "bodyfit-workers/internal/bodymodel/bodytype"

const EventBodyModelCreated = "body-model.created"

// BodyModelEvent is published when a body model is created.
type BodyModelEvent struct {
	Type        string        `json:"type"`
	BodyModelID string        `json:"bodyModelId"`
	UserID      string        `json:"userId,omitempty"`
	BodyType    bodytype.Type `json:"bodyType"`
	RealScale   bool          `json:"realScale"`
	OccurredAt  string        `json:"occurredAt"`
}
