// Package tryon positions, scales, scores and sizes garments against a body model.
package tryon

import (
	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/bodymodel/bodytype"
	"bodyfit-workers/internal/bodymodel/keypoints"
	"bodyfit-workers/internal/bodymodel/measurements"
	"bodyfit-workers/internal/bodymodel/mesh"
	"bodyfit-workers/internal/bodymodel/shape"
)

// Anchors are garment attachment points in model space.
type Anchors struct {
	LeftShoulder  keypoints.Point3D `json:"left_shoulder"`
	RightShoulder keypoints.Point3D `json:"right_shoulder"`
	LeftHip       keypoints.Point3D `json:"left_hip"`
	RightHip      keypoints.Point3D `json:"right_hip"`
	WaistCenter   keypoints.Point3D `json:"waist_center"`
	ChestCenter   keypoints.Point3D `json:"chest_center"`
}

var defaultAnchors = Anchors{
	LeftShoulder:  keypoints.Point3D{X: -0.2, Y: 1.5},
	RightShoulder: keypoints.Point3D{X: 0.2, Y: 1.5},
	LeftHip:       keypoints.Point3D{X: -0.15, Y: 0.8},
	RightHip:      keypoints.Point3D{X: 0.15, Y: 0.8},
	WaistCenter:   keypoints.Point3D{Y: 1.0},
	ChestCenter:   keypoints.Point3D{Y: 1.3},
}

// ComputeAnchors takes shoulders and hips from the key points when present.
func ComputeAnchors(kp keypoints.Set) Anchors {
	a := defaultAnchors
	pick := func(dst *keypoints.Point3D, name keypoints.Name) {
		if p, ok := kp.Get(name); ok {
			*dst = p
		}
	}
	pick(&a.LeftShoulder, keypoints.LeftShoulder)
	pick(&a.RightShoulder, keypoints.RightShoulder)
	pick(&a.LeftHip, keypoints.LeftHip)
	pick(&a.RightHip, keypoints.RightHip)
	return a
}

// GarmentAdjustment places one garment on the body.
type GarmentAdjustment struct {
	PositionOffset keypoints.Point3D `json:"position_offset"`
	Rotation       keypoints.Point3D `json:"rotation"`
	ScaleFactors   ScaleFactors      `json:"scale_factors"`
}

type Adjustments struct {
	GlobalScale        float64                      `json:"global_scale"`
	ShoulderAdjustment float64                      `json:"shoulder_adjustment"`
	WaistAdjustment    float64                      `json:"waist_adjustment"`
	HipAdjustment      float64                      `json:"hip_adjustment"`
	LengthAdjustment   float64                      `json:"length_adjustment"`
	Garments           map[string]GarmentAdjustment `json:"clothing_specific"`
}

// ComputeAdjustments passes the shape parameters through and gives every garment a
// (shoulder, height, 1) scale unless it carries an override.
func ComputeAdjustments(p shape.Parameters, garments []Garment) Adjustments {
	adj := Adjustments{
		GlobalScale:        p.HeightScale,
		ShoulderAdjustment: p.ShoulderWidthScale,
		WaistAdjustment:    p.WaistWidthScale,
		HipAdjustment:      p.HipWidthScale,
		LengthAdjustment:   p.LegLengthScale,
		Garments:           make(map[string]GarmentAdjustment, len(garments)),
	}

	for _, g := range garments {
		scale := ScaleFactors{X: p.ShoulderWidthScale, Y: p.HeightScale, Z: 1.0}
		if g.ScaleOverride != nil {
			scale = *g.ScaleOverride
		}
		adj.Garments[g.ID] = GarmentAdjustment{ScaleFactors: scale}
	}
	return adj
}

// FitScore starts at 0.5, adds 0.3 when the garment type is an exact recommended top or
// bottom, subtracts 0.2 when any avoid tag is contained in it, and clamps to [0, 1].
func FitScore(rec bodytype.Recommendations, garmentType string) float64 {
	score := 0.5
	if rec.Recommends(garmentType) {
		score += 0.3
	}
	if rec.Discourages(garmentType) {
		score -= 0.2
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Size is a garment size bucket.
type Size string

const (
	SizeXS Size = "XS"
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

// DefaultShoulderWidthCM is assumed when no real shoulder width was measured.
const DefaultShoulderWidthCM = 40.0

// SuggestSize buckets the real shoulder width in centimetres.
func SuggestSize(real measurements.Values) Size {
	sw, ok := real.Get(measurements.ShoulderWidth)
	if !ok {
		sw = DefaultShoulderWidthCM
	}
	switch {
	case sw < 35:
		return SizeXS
	case sw < 40:
		return SizeS
	case sw < 45:
		return SizeM
	case sw < 50:
		return SizeL
	default:
		return SizeXL
	}
}

type GarmentFit struct {
	GarmentID       string   `json:"clothing_id"`
	GarmentType     string   `json:"clothing_type"`
	FitScore        float64  `json:"fit_score"`
	Recommendations []string `json:"recommendations"`
	SizeSuggestion  Size     `json:"size_suggestion"`
}

// Styling is the session-level styling summary.
type Styling struct {
	OutfitRating           float64                  `json:"outfit_rating"`
	StyleTips              []string                 `json:"style_tips"`
	AlternativeSuggestions []string                 `json:"alternative_suggestions"`
	BodyTypeSpecific       bodytype.Recommendations `json:"body_type_specific"`
	ConfidenceScore        float64                  `json:"confidence_score"`
}

func styling(rec bodytype.Recommendations) Styling {
	return Styling{
		OutfitRating: 7.5,
		StyleTips: []string{
			"Consider adding a belt to define your waist",
			"This color complements your body type well",
			"Try layering for more visual interest",
		},
		AlternativeSuggestions: []string{
			"Try a slightly looser fit for comfort",
			"Consider similar items in different colors",
			"Add accessories to complete the look",
		},
		BodyTypeSpecific: rec,
		ConfidenceScore:  0.8,
	}
}

// Composition is the result of fitting a set of garments to one body model.
type Composition struct {
	BodyType    bodytype.Type    `json:"body_type"`
	ScaleFactor float64          `json:"scale_factor"`
	Anchors     Anchors          `json:"anchor_points"`
	Adjustments Adjustments      `json:"fit_adjustments"`
	Bounds      mesh.BoundingBox `json:"body_bounds"`
	FitAnalysis []GarmentFit     `json:"fit_analysis"`
	Styling     Styling          `json:"styling"`
}

// Compose fits garments, in order, to bm. It is pure and safe for concurrent use.
func Compose(bm bodymodel.BodyModel, garments []Garment) Composition {
	bodyType := bm.BodyType
	if bodyType == "" {
		bodyType = bodytype.Unknown
	}

	rec := bm.Recommendations
	if rec.Tops == nil && rec.Bottoms == nil {
		rec = bodytype.Recommend(bodyType)
	}

	c := Composition{
		BodyType:    bodyType,
		ScaleFactor: bm.Shape.HeightScale,
		Anchors:     ComputeAnchors(bm.KeyPoints),
		Adjustments: ComputeAdjustments(bm.Shape, garments),
		Bounds:      bm.Mesh.Bounds(),
		FitAnalysis: make([]GarmentFit, 0, len(garments)),
		Styling:     styling(rec),
	}

	size := SuggestSize(bm.Measurements.Real)
	advice := bodytype.Advice(bodyType)
	for _, g := range garments {
		garmentType := g.ClassifiedType()
		c.FitAnalysis = append(c.FitAnalysis, GarmentFit{
			GarmentID:       g.ID,
			GarmentType:     garmentType,
			FitScore:        FitScore(rec, garmentType),
			Recommendations: append([]string{}, advice...),
			SizeSuggestion:  size,
		})
	}

	return c
}
