// Package shape normalizes measurements into scale factors relative to an average body.
package shape

import "bodyfit-workers/internal/bodymodel/measurements"

// Average-body reference proportions in pixel-normalized units.
const (
	ReferenceHeightCM      = 170.0
	ReferenceShoulderWidth = 0.18
	ReferenceHipWidth      = 0.16
	ReferenceLegTorsoRatio = 1.3
	waistToFrameRatio      = 0.8
)

// Parameters are the five multipliers that drive classification and mesh synthesis.
type Parameters struct {
	HeightScale        float64 `json:"height_scale"`
	ShoulderWidthScale float64 `json:"shoulder_width_scale"`
	WaistWidthScale    float64 `json:"waist_width_scale"`
	HipWidthScale      float64 `json:"hip_width_scale"`
	LegLengthScale     float64 `json:"leg_length_scale"`
}

// Neutral is the parameter set of the reference body.
func Neutral() Parameters {
	return Parameters{
		HeightScale:        1,
		ShoulderWidthScale: 1,
		WaistWidthScale:    0.8,
		HipWidthScale:      1,
		LegLengthScale:     1,
	}
}

// Normalize derives shape parameters from pixel measurements and the estimated height.
func Normalize(m measurements.Measurements) Parameters {
	p := Parameters{
		HeightScale:        m.EstimatedHeight / ReferenceHeightCM,
		ShoulderWidthScale: 1.0,
		HipWidthScale:      1.0,
		LegLengthScale:     1.0,
	}

	if sw, ok := m.Pixel.Get(measurements.ShoulderWidth); ok {
		p.ShoulderWidthScale = clamp(sw/ReferenceShoulderWidth, 0.7, 1.3)
	}
	if hw, ok := m.Pixel.Get(measurements.HipWidth); ok {
		p.HipWidthScale = clamp(hw/ReferenceHipWidth, 0.7, 1.3)
	}

	p.WaistWidthScale = (p.ShoulderWidthScale + p.HipWidthScale) / 2 * waistToFrameRatio

	leg, okLeg := m.Pixel.Get(measurements.LegLength)
	torso, okTorso := m.Pixel.Get(measurements.TorsoLength)
	if okLeg && okTorso && torso > 0 {
		p.LegLengthScale = clamp((leg/torso)/ReferenceLegTorsoRatio, 0.8, 1.2)
	}

	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
