package shape_test

import (
	"testing"

	"bodyfit-workers/internal/bodymodel/measurements"
	"bodyfit-workers/internal/bodymodel/shape"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   measurements.Measurements
		want shape.Parameters
	}{
		{
			name: "reference body",
			in: measurements.Measurements{
				Pixel: measurements.Values{
					measurements.ShoulderWidth: 0.18,
					measurements.HipWidth:      0.16,
					measurements.TorsoLength:   0.3,
					measurements.LegLength:     0.39,
				},
				EstimatedHeight: 170,
			},
			want: shape.Neutral(),
		},
		{
			name: "clamped extremes",
			in: measurements.Measurements{
				Pixel: measurements.Values{
					measurements.ShoulderWidth: 0.5,
					measurements.HipWidth:      0.01,
					measurements.TorsoLength:   0.1,
					measurements.LegLength:     0.9,
				},
				EstimatedHeight: 187,
			},
			want: shape.Parameters{
				HeightScale:        1.1,
				ShoulderWidthScale: 1.3,
				WaistWidthScale:    0.8,
				HipWidthScale:      0.7,
				LegLengthScale:     1.2,
			},
		},
		{
			name: "no measurements",
			in:   measurements.Measurements{Pixel: measurements.Values{}, EstimatedHeight: 170},
			want: shape.Neutral(),
		},
		{
			name: "zero torso leaves leg scale neutral",
			in: measurements.Measurements{
				Pixel:           measurements.Values{measurements.TorsoLength: 0, measurements.LegLength: 0.4},
				EstimatedHeight: 170,
			},
			want: shape.Neutral(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shape.Normalize(tt.in)
			assert.InDelta(t, tt.want.HeightScale, got.HeightScale, 1e-9)
			assert.InDelta(t, tt.want.ShoulderWidthScale, got.ShoulderWidthScale, 1e-9)
			assert.InDelta(t, tt.want.WaistWidthScale, got.WaistWidthScale, 1e-9)
			assert.InDelta(t, tt.want.HipWidthScale, got.HipWidthScale, 1e-9)
			assert.InDelta(t, tt.want.LegLengthScale, got.LegLengthScale, 1e-9)
		})
	}
}
