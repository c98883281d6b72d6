package bodymodel_test

import (
	"context"
	"encoding/json"
	"testing"

	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/bodymodel/bodymodeltest"
	"bodyfit-workers/internal/bodymodel/bodytype"
	"bodyfit-workers/internal/bodymodel/keypoints"
	"bodyfit-workers/internal/bodymodel/measurements"
	"bodyfit-workers/internal/bodymodel/mesh"
	"bodyfit-workers/internal/bodymodel/pose"
	"bodyfit-workers/internal/bodymodel/shape"
	"bodyfit-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedEstimator struct {
	points []keypoints.SkeletalPoint
}

func (f fixedEstimator) Estimate(context.Context, []byte) ([]keypoints.SkeletalPoint, error) {
	return f.points, nil
}

func ptr(v float64) *float64 { return &v }

// ==========================
// Pipeline Tests
// ==========================

func TestFromSkeleton(t *testing.T) {
	bm := bodymodeltest.Model(ptr(170))

	assert.Equal(t, bodytype.InvertedTriangle, bm.BodyType)
	assert.Equal(t, bodytype.Recommend(bodytype.InvertedTriangle), bm.Recommendations)
	assert.Equal(t, bodymodel.DefaultPoseParameters(), bm.Pose)
	assert.Len(t, bm.Mesh.Vertices, 28)
	assert.Len(t, bm.Mesh.Faces, 9)
	assert.InDelta(t, 40.0, bm.Measurements.Real[measurements.ShoulderWidth], 1e-6)
}

// Shoulders and hips only: both width scales clamp to 1.3 and the derived waist lands
// exactly on the hourglass threshold, so the cascade must fall through to rectangle.
func TestFromSkeleton_ClampedStraightFrame(t *testing.T) {
	points := make([]keypoints.SkeletalPoint, bodymodeltest.LandmarkCount)
	points[11] = keypoints.SkeletalPoint{X: -0.2, Y: 1.5, Visibility: 0.9}
	points[12] = keypoints.SkeletalPoint{X: 0.2, Y: 1.5, Visibility: 0.9}
	points[23] = keypoints.SkeletalPoint{X: -0.15, Y: 0.8, Visibility: 0.9}
	points[24] = keypoints.SkeletalPoint{X: 0.15, Y: 0.8, Visibility: 0.9}

	bm := bodymodel.FromSkeleton(points, ptr(170))

	shoulder, ok := bm.Measurements.Pixel.Get(measurements.ShoulderWidth)
	require.True(t, ok)
	assert.InDelta(t, 0.4, shoulder, 1e-9)
	hip, ok := bm.Measurements.Pixel.Get(measurements.HipWidth)
	require.True(t, ok)
	assert.InDelta(t, 0.3, hip, 1e-9)

	assert.Equal(t, 1.3, bm.Shape.ShoulderWidthScale)
	assert.Equal(t, 1.3, bm.Shape.HipWidthScale)
	assert.InDelta(t, 1.04, bm.Shape.WaistWidthScale, 1e-9)
	assert.Equal(t, bodytype.Rectangle, bm.BodyType)

	// No nose or ankles, so there is no height span to scale against.
	assert.Empty(t, bm.Measurements.Real)
	assert.Equal(t, 170.0, bm.Measurements.EstimatedHeight)
}

func TestRegenerate_IsDeterministic(t *testing.T) {
	bm := bodymodeltest.Model(ptr(182))

	assert.Equal(t, bm.Mesh, mesh.Synthesize(shape.Normalize(bm.Measurements)))

	// Same check on a copy decoded the way the body model store reads it back.
	data, err := json.Marshal(bm)
	require.NoError(t, err)
	var stored bodymodel.BodyModel
	require.NoError(t, json.Unmarshal(data, &stored))

	assert.Equal(t, bm.Shape, shape.Normalize(stored.Measurements))
	assert.Equal(t, bm.Mesh, mesh.Synthesize(shape.Normalize(stored.Measurements)))

	stored.Regenerate()
	assert.Equal(t, bm.Mesh, stored.Mesh)
	assert.Equal(t, bm.BodyType, stored.BodyType)
	assert.Equal(t, bm.Recommendations, stored.Recommendations)
}

func TestApplyMeasurements(t *testing.T) {
	bm := bodymodeltest.Model(ptr(170))
	realBefore := bm.Measurements.Real[measurements.ShoulderWidth]

	bm.ApplyMeasurements(bodymodel.MeasurementUpdate{Height: ptr(187), Weight: ptr(72), Waist: ptr(80)})

	assert.Equal(t, 187.0, bm.Measurements.EstimatedHeight)
	assert.InDelta(t, 1.1, bm.Shape.HeightScale, 1e-9)
	assert.InDelta(t, 1.7*1.1, bm.Mesh.Bounds().Max[1], 1e-9)
	assert.Equal(t, map[string]float64{"weight": 72, "waist": 80}, bm.Measurements.Supplied)
	assert.Equal(t, realBefore, bm.Measurements.Real[measurements.ShoulderWidth], "real measurements keep their scale")
}

func TestApplyMeasurements_IgnoresNonPositiveHeight(t *testing.T) {
	bm := bodymodeltest.Model(nil)
	bm.ApplyMeasurements(bodymodel.MeasurementUpdate{Height: ptr(0), Chest: ptr(95)})

	assert.Equal(t, measurements.DefaultHeightCM, bm.Measurements.EstimatedHeight)
	assert.Equal(t, 95.0, bm.Measurements.Supplied["chest"])
}

func TestMeasurementUpdate_IsEmpty(t *testing.T) {
	assert.True(t, bodymodel.MeasurementUpdate{}.IsEmpty())
	assert.False(t, bodymodel.MeasurementUpdate{Hips: ptr(90)}.IsEmpty())
}

// ==========================
// Builder Tests
// ==========================

func TestBuilder_Build(t *testing.T) {
	model := pose.NewModel(fixedEstimator{points: bodymodeltest.Standing()})
	b, err := bodymodel.NewBuilder(model, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.EqualValues(t, 2, model.Refs())

	bm, err := b.Build(context.Background(), []byte("img"), nil)
	require.NoError(t, err)
	assert.Equal(t, bodymodeltest.Model(nil), bm)

	require.NoError(t, b.Close())
	assert.EqualValues(t, 1, model.Refs())
}

func TestBuilder_NoPose(t *testing.T) {
	model := pose.NewModel(fixedEstimator{})
	b, err := bodymodel.NewBuilder(model, logger.NewNoOpLogger())
	require.NoError(t, err)
	defer b.Close()

	bm, err := b.Build(context.Background(), []byte("img"), ptr(170))
	assert.ErrorIs(t, err, pose.ErrNoPoseDetected)
	assert.Empty(t, bm.Mesh.Vertices)
}

func TestNewBuilder_ReleasedModel(t *testing.T) {
	model := pose.NewModel(fixedEstimator{})
	require.NoError(t, model.Release())

	_, err := bodymodel.NewBuilder(model, logger.NewNoOpLogger())
	assert.ErrorIs(t, err, pose.ErrModelReleased)
}
