package models

import (
	"context"
	"time"

	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/bodymodel/bodytype"
	"bodyfit-workers/internal/bodymodel/measurements"
	"bodyfit-workers/internal/bodymodel/mesh"
	"bodyfit-workers/internal/tryon"
)

const (
	SessionStatusInitialized = "initialized"
	SessionStatusUpdated     = "updated"

	DefaultPoseType = "standing"
	DefaultLighting = "natural"
)

// BodySummary is the slice of the body model copied into a session for display.
type BodySummary struct {
	BodyType     bodytype.Type       `json:"body_type"`
	Measurements measurements.Values `json:"measurements"`
}

// TryOnSession is a persisted try-on of one or more garments on a body model.
type TryOnSession struct {
	ID          string                    `json:"session_id"`
	BodyModelID string                    `json:"body_model_id"`
	GarmentIDs  []string                  `json:"clothing_ids"`
	PoseType    string                    `json:"pose_type"`
	Lighting    string                    `json:"lighting"`
	CustomPose  *bodymodel.PoseParameters `json:"custom_pose_data,omitempty"`
	Status      string                    `json:"status"`
	Result      tryon.Composition         `json:"tryon_result"`
	Summary     BodySummary               `json:"body_model_summary"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// HasGarment reports whether garmentID is already part of the session.
func (s *TryOnSession) HasGarment(garmentID string) bool {
	for _, id := range s.GarmentIDs {
		if id == garmentID {
			return true
		}
	}
	return false
}

// AddGarment appends garmentID unless present and reports whether it was added.
func (s *TryOnSession) AddGarment(garmentID string) bool {
	if s.HasGarment(garmentID) {
		return false
	}
	s.GarmentIDs = append(s.GarmentIDs, garmentID)
	return true
}

// Recompose refreshes the stored composition and marks the session updated.
func (s *TryOnSession) Recompose(result tryon.Composition, now time.Time) {
	s.Result = result
	s.Status = SessionStatusUpdated
	s.UpdatedAt = now
}

// ARData is the render-ready view of a session.
type ARData struct {
	SessionID      string                   `json:"session_id"`
	Anchors        tryon.Anchors            `json:"anchor_points"`
	Adjustments    tryon.Adjustments        `json:"fit_adjustments"`
	Bounds         mesh.BoundingBox         `json:"body_bounds"`
	RenderSettings ARRenderSettings         `json:"render_settings"`
	Pose           bodymodel.PoseParameters `json:"pose_parameters"`
}

type ARRenderSettings struct {
	Lighting    string  `json:"lighting"`
	PoseType    string  `json:"pose_type"`
	ScaleFactor float64 `json:"scale_factor"`
}

// AR builds the AR view; the custom pose wins over the neutral default.
func (s *TryOnSession) AR() ARData {
	pose := bodymodel.DefaultPoseParameters()
	if s.CustomPose != nil {
		pose = *s.CustomPose
	}
	return ARData{
		SessionID:   s.ID,
		Anchors:     s.Result.Anchors,
		Adjustments: s.Result.Adjustments,
		Bounds:      s.Result.Bounds,
		RenderSettings: ARRenderSettings{
			Lighting:    s.Lighting,
			PoseType:    s.PoseType,
			ScaleFactor: s.Result.ScaleFactor,
		},
		Pose: pose,
	}
}

// TryOnSessionRepository defines try-on session data access.
type TryOnSessionRepository interface {
	Create(ctx context.Context, session *TryOnSession) error
	Get(ctx context.Context, sessionID string) (*TryOnSession, error)
	Update(ctx context.Context, session *TryOnSession) error
}
