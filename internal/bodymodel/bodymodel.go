// Package bodymodel assembles the body model pipeline: key points, measurements,
// shape parameters, body type, recommendations and mesh.
package bodymodel

import (
	"bodyfit-workers/internal/bodymodel/bodytype"
	"bodyfit-workers/internal/bodymodel/keypoints"
	"bodyfit-workers/internal/bodymodel/measurements"
	"bodyfit-workers/internal/bodymodel/mesh"
	"bodyfit-workers/internal/bodymodel/shape"
)

// PoseParameters describe the captured stance. The pipeline always reports a neutral
// standing pose.
type PoseParameters struct {
	SpineCurve       float64 `json:"spine_curve"`
	ShoulderRotation float64 `json:"shoulder_rotation"`
	HipRotation      float64 `json:"hip_rotation"`
	ArmPosition      string  `json:"arm_position"`
	LegStance        string  `json:"leg_stance"`
}

func DefaultPoseParameters() PoseParameters {
	return PoseParameters{ArmPosition: "neutral", LegStance: "standing"}
}

// BodyModel is the complete pipeline output. Shape, body type, recommendations and
// mesh are always derived from Measurements; mutate them only through Regenerate.
type BodyModel struct {
	KeyPoints       keypoints.Set             `json:"key_points"`
	Measurements    measurements.Measurements `json:"measurements"`
	Shape           shape.Parameters          `json:"shape_parameters"`
	BodyType        bodytype.Type             `json:"body_type"`
	Recommendations bodytype.Recommendations  `json:"fit_recommendations"`
	Pose            PoseParameters            `json:"pose_parameters"`
	Mesh            mesh.Mesh                 `json:"mesh"`
}

// FromSkeleton runs the full pipeline over a detected skeleton.
func FromSkeleton(points []keypoints.SkeletalPoint, referenceHeight *float64) BodyModel {
	kp := keypoints.Derive(points)
	bm := BodyModel{
		KeyPoints:    kp,
		Measurements: measurements.Estimate(kp, referenceHeight),
		Pose:         DefaultPoseParameters(),
	}
	bm.Regenerate()
	return bm
}

// Regenerate recomputes everything downstream of the measurements.
func (b *BodyModel) Regenerate() {
	b.Shape = shape.Normalize(b.Measurements)
	b.BodyType = bodytype.Classify(b.Shape)
	b.Recommendations = bodytype.Recommend(b.BodyType)
	b.Mesh = mesh.Synthesize(b.Shape)
}

// MeasurementUpdate carries caller-corrected measurements. Nil fields are left alone.
type MeasurementUpdate struct {
	Height *float64 `json:"height,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
	Chest  *float64 `json:"chest,omitempty"`
	Waist  *float64 `json:"waist,omitempty"`
	Hips   *float64 `json:"hips,omitempty"`
}

// IsEmpty reports whether the update carries no values.
func (u MeasurementUpdate) IsEmpty() bool {
	return u.Height == nil && u.Weight == nil && u.Chest == nil && u.Waist == nil && u.Hips == nil
}

// ApplyMeasurements records the update and regenerates the derived fields. A new height
// replaces the estimated height; real measurements keep their original scale.
func (b *BodyModel) ApplyMeasurements(u MeasurementUpdate) {
	if u.Height != nil && *u.Height > 0 {
		b.Measurements.EstimatedHeight = *u.Height
	}

	extras := []struct {
		key string
		val *float64
	}{
		{"weight", u.Weight},
		{"chest", u.Chest},
		{"waist", u.Waist},
		{"hips", u.Hips},
	}
	for _, e := range extras {
		if e.val == nil {
			continue
		}
		if b.Measurements.Supplied == nil {
			b.Measurements.Supplied = make(map[string]float64)
		}
		b.Measurements.Supplied[e.key] = *e.val
	}

	b.Regenerate()
}
