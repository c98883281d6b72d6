package measurements_test

import (
	"testing"

	"bodyfit-workers/internal/bodymodel/bodymodeltest"
	"bodyfit-workers/internal/bodymodel/keypoints"
	"bodyfit-workers/internal/bodymodel/measurements"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestEstimate_PixelMetrics(t *testing.T) {
	m := measurements.Estimate(keypoints.Derive(bodymodeltest.Standing()), nil)

	want := map[measurements.Metric]float64{
		measurements.ShoulderWidth: 0.2,
		measurements.HipWidth:      0.16,
		measurements.TorsoLength:   0.3,
		measurements.LegLength:     0.4,
	}
	require.Len(t, m.Pixel, len(want))
	for metric, v := range want {
		assert.InDelta(t, v, m.Pixel[metric], 1e-9, string(metric))
	}

	assert.Empty(t, m.Real)
	assert.Equal(t, 1.0, m.ScaleFactor)
	assert.Equal(t, measurements.DefaultHeightCM, m.EstimatedHeight)
}

func TestEstimate_RealScaling(t *testing.T) {
	m := measurements.Estimate(keypoints.Derive(bodymodeltest.Standing()), ptr(170))

	assert.InDelta(t, 200.0, m.ScaleFactor, 1e-9)
	assert.InDelta(t, 40.0, m.Real[measurements.ShoulderWidth], 1e-6)
	assert.InDelta(t, 32.0, m.Real[measurements.HipWidth], 1e-6)
	assert.InDelta(t, 60.0, m.Real[measurements.TorsoLength], 1e-6)
	assert.InDelta(t, 80.0, m.Real[measurements.LegLength], 1e-6)
	assert.Equal(t, 170.0, m.EstimatedHeight)
}

func TestEstimate_ScalingGates(t *testing.T) {
	tests := []struct {
		name       string
		points     []keypoints.SkeletalPoint
		reference  *float64
		wantHeight float64
	}{
		{name: "zero reference is ignored", points: bodymodeltest.Standing(), reference: ptr(0), wantHeight: measurements.DefaultHeightCM},
		{name: "negative reference is ignored", points: bodymodeltest.Standing(), reference: ptr(-10), wantHeight: measurements.DefaultHeightCM},
		{name: "no torso", points: bodymodeltest.Hidden(12), reference: ptr(180), wantHeight: 180},
		{name: "no nose", points: bodymodeltest.Hidden(0), reference: ptr(180), wantHeight: 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := measurements.Estimate(keypoints.Derive(tt.points), tt.reference)
			assert.Empty(t, m.Real)
			assert.Equal(t, 1.0, m.ScaleFactor)
			assert.Equal(t, tt.wantHeight, m.EstimatedHeight)
		})
	}
}

func TestEstimate_MissingMetricsAreAbsent(t *testing.T) {
	m := measurements.Estimate(keypoints.Derive(bodymodeltest.Hidden(23)), nil)

	_, ok := m.Pixel.Get(measurements.HipWidth)
	assert.False(t, ok)
	_, ok = m.Pixel.Get(measurements.TorsoLength)
	assert.False(t, ok)
	_, ok = m.Pixel.Get(measurements.ShoulderWidth)
	assert.True(t, ok)
}

func TestTotalBodyHeight(t *testing.T) {
	assert.InDelta(t, 0.85, measurements.TotalBodyHeight(keypoints.Derive(bodymodeltest.Standing())), 1e-9)
	assert.Zero(t, measurements.TotalBodyHeight(keypoints.Derive(bodymodeltest.Hidden(28))))
}
