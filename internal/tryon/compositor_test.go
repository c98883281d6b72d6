package tryon

import (
	"testing"

	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/bodymodel/bodymodeltest"
	"bodyfit-workers/internal/bodymodel/bodytype"
	"bodyfit-workers/internal/bodymodel/keypoints"
	"bodyfit-workers/internal/bodymodel/measurements"
	"bodyfit-workers/internal/bodymodel/mesh"
	"bodyfit-workers/internal/bodymodel/shape"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

// ==========================
// Fit Score Tests
// ==========================

func TestFitScore(t *testing.T) {
	rec := bodytype.Recommend(bodytype.InvertedTriangle)

	tests := []struct {
		garmentType string
		want        float64
	}{
		{"v-neck", 0.8},
		{"wide_leg", 0.8},
		{"shoulder_pads", 0.3},
		{"shoulder_pads_blazer", 0.3},
		{"unknown", 0.5},
		{"fitted_v-neck", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.garmentType, func(t *testing.T) {
			assert.InDelta(t, tt.want, FitScore(rec, tt.garmentType), 1e-9)
		})
	}
}

func TestFitScore_StaysInRange(t *testing.T) {
	rec := bodytype.Recommendations{Tops: []string{"x"}, Avoid: []string{"x"}}
	assert.InDelta(t, 0.6, FitScore(rec, "x"), 1e-9)

	for _, typ := range append(bodytype.All, bodytype.Unknown) {
		for _, g := range []string{"", "fitted", "tight_fitting_top", "horizontal_stripes"} {
			s := FitScore(bodytype.Recommend(typ), g)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

// ==========================
// Size Tests
// ==========================

func TestSuggestSize(t *testing.T) {
	tests := []struct {
		name string
		real measurements.Values
		want Size
	}{
		{"no measurement defaults to medium", measurements.Values{}, SizeM},
		{"extra small", measurements.Values{measurements.ShoulderWidth: 34.9}, SizeXS},
		{"small", measurements.Values{measurements.ShoulderWidth: 35}, SizeS},
		{"medium", measurements.Values{measurements.ShoulderWidth: 40}, SizeM},
		{"large", measurements.Values{measurements.ShoulderWidth: 45}, SizeL},
		{"extra large", measurements.Values{measurements.ShoulderWidth: 50}, SizeXL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestSize(tt.real))
		})
	}
}

// ==========================
// Anchor And Adjustment Tests
// ==========================

func TestComputeAnchors(t *testing.T) {
	a := ComputeAnchors(keypoints.Derive(bodymodeltest.Hidden(23)))

	assert.Equal(t, keypoints.Point3D{X: 0.4, Y: 0.25}, a.LeftShoulder)
	assert.Equal(t, defaultAnchors.LeftHip, a.LeftHip)
	assert.Equal(t, keypoints.Point3D{X: 0.58, Y: 0.55}, a.RightHip)
	assert.Equal(t, defaultAnchors.WaistCenter, a.WaistCenter)
	assert.Equal(t, defaultAnchors.ChestCenter, a.ChestCenter)

	assert.Equal(t, defaultAnchors, ComputeAnchors(keypoints.Set{}))
}

func TestComputeAdjustments(t *testing.T) {
	p := shape.Parameters{HeightScale: 1.1, ShoulderWidthScale: 1.2, WaistWidthScale: 0.9, HipWidthScale: 1.0, LegLengthScale: 0.95}
	override := &ScaleFactors{X: 2, Y: 2, Z: 2}

	adj := ComputeAdjustments(p, []Garment{{ID: "a"}, {ID: "b", ScaleOverride: override}})

	assert.Equal(t, 1.1, adj.GlobalScale)
	assert.Equal(t, 1.2, adj.ShoulderAdjustment)
	assert.Equal(t, 0.9, adj.WaistAdjustment)
	assert.Equal(t, 1.0, adj.HipAdjustment)
	assert.Equal(t, 0.95, adj.LengthAdjustment)
	assert.Equal(t, ScaleFactors{X: 1.2, Y: 1.1, Z: 1}, adj.Garments["a"].ScaleFactors)
	assert.Equal(t, *override, adj.Garments["b"].ScaleFactors)
	assert.Equal(t, keypoints.Point3D{}, adj.Garments["a"].PositionOffset)
}

// ==========================
// Compose Tests
// ==========================

func TestCompose(t *testing.T) {
	bm := bodymodeltest.Model(ptr(170))
	garments := []Garment{
		{ID: "top", Type: "v-neck"},
		{ID: "jacket", Type: "shoulder_pads_blazer"},
		DefaultGarment("mystery"),
	}

	c := Compose(bm, garments)

	assert.Equal(t, bodytype.InvertedTriangle, c.BodyType)
	assert.Equal(t, bm.Shape.HeightScale, c.ScaleFactor)
	assert.Equal(t, bm.Mesh.Bounds(), c.Bounds)
	assert.Equal(t, bm.Recommendations, c.Styling.BodyTypeSpecific)

	require.Len(t, c.FitAnalysis, 3)
	for i, g := range garments {
		assert.Equal(t, g.ID, c.FitAnalysis[i].GarmentID, "order preserved")
		assert.Equal(t, SizeM, c.FitAnalysis[i].SizeSuggestion)
		assert.Equal(t, bodytype.Advice(bodytype.InvertedTriangle), c.FitAnalysis[i].Recommendations)
	}
	assert.InDelta(t, 0.8, c.FitAnalysis[0].FitScore, 1e-9)
	assert.InDelta(t, 0.3, c.FitAnalysis[1].FitScore, 1e-9)
	assert.InDelta(t, 0.5, c.FitAnalysis[2].FitScore, 1e-9)
	assert.Equal(t, UnknownGarmentType, c.FitAnalysis[2].GarmentType)
}

func TestCompose_LegacyRecord(t *testing.T) {
	c := Compose(bodymodel.BodyModel{}, []Garment{{ID: "g", Type: "classic_fit"}})

	assert.Equal(t, bodytype.Unknown, c.BodyType)
	assert.Equal(t, bodytype.Recommend(bodytype.Unknown), c.Styling.BodyTypeSpecific)
	assert.InDelta(t, 0.8, c.FitAnalysis[0].FitScore, 1e-9)
	assert.Equal(t, mesh.DefaultBounds, c.Bounds)
}

func TestCompose_NoGarments(t *testing.T) {
	c := Compose(bodymodeltest.Model(nil), nil)
	assert.Empty(t, c.FitAnalysis)
	assert.NotNil(t, c.FitAnalysis)
	assert.Empty(t, c.Adjustments.Garments)
}
