// Package measurements estimates body proportions from derived key points and,
// when a reference height is supplied, converts them to centimetres.
package measurements

import (
	"math"

	"bodyfit-workers/internal/bodymodel/keypoints"
)

// DefaultHeightCM is the reference adult height used when the caller gives none.
const DefaultHeightCM = 170.0

// Metric names a pixel-space body measurement.
type Metric string

const (
	ShoulderWidth Metric = "shoulder_width"
	TorsoLength   Metric = "torso_length"
	LegLength     Metric = "leg_length"
	HipWidth      Metric = "hip_width"
)

var metricEndpoints = []struct {
	metric Metric
	from   keypoints.Name
	to     keypoints.Name
}{
	{ShoulderWidth, keypoints.LeftShoulder, keypoints.RightShoulder},
	{TorsoLength, keypoints.ShoulderCenter, keypoints.HipCenter},
	{LegLength, keypoints.HipCenter, keypoints.AnkleCenter},
	{HipWidth, keypoints.LeftHip, keypoints.RightHip},
}

// Values maps metrics to a length. Missing metrics are absent, never zero.
type Values map[Metric]float64

// Get returns the metric and whether it was measured.
func (v Values) Get(m Metric) (float64, bool) {
	x, ok := v[m]
	return x, ok
}

// Measurements is the output of Estimate.
type Measurements struct {
	Pixel           Values  `json:"pixel_measurements"`
	Real            Values  `json:"real_measurements"`
	ScaleFactor     float64 `json:"scale_factor"`
	EstimatedHeight float64 `json:"estimated_height"`
	// Supplied records caller-provided extras (weight, chest, waist, hips). The
	// pipeline keeps them with the model but does not derive anything from them.
	Supplied map[string]float64 `json:"supplied,omitempty"`
}

// Estimate measures the four pixel metrics and, if referenceHeight is set, positive,
// torso_length was measured and the nose-to-ankle span is non-zero, scales every pixel
// metric to real units. The gate on torso_length holds even when it is not the metric
// being scaled.
func Estimate(kp keypoints.Set, referenceHeight *float64) Measurements {
	m := Measurements{
		Pixel:           make(Values, len(metricEndpoints)),
		Real:            make(Values),
		ScaleFactor:     1.0,
		EstimatedHeight: DefaultHeightCM,
	}

	for _, me := range metricEndpoints {
		if d, ok := kp.Distance(me.from, me.to); ok {
			m.Pixel[me.metric] = d
		}
	}

	ref, hasRef := reference(referenceHeight)
	if hasRef {
		m.EstimatedHeight = ref
	}

	_, hasTorso := m.Pixel[TorsoLength]
	total := TotalBodyHeight(kp)
	if hasRef && hasTorso && total > 0 {
		m.ScaleFactor = ref / total
		for metric, px := range m.Pixel {
			m.Real[metric] = px * m.ScaleFactor
		}
	}

	return m
}

// TotalBodyHeight is the vertical nose-to-ankle span, or 0 when either end is missing.
func TotalBodyHeight(kp keypoints.Set) float64 {
	nose, okN := kp.Get(keypoints.Nose)
	ankle, okA := kp.Get(keypoints.AnkleCenter)
	if !okN || !okA {
		return 0
	}
	return math.Abs(nose.Y - ankle.Y)
}

func reference(h *float64) (float64, bool) {
	if h == nil || *h <= 0 {
		return 0, false
	}
	return *h, true
}
