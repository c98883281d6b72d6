// Package bodymodeltest provides skeleton fixtures for tests of the body model
// pipeline and its consumers.
package bodymodeltest

import (
	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/bodymodel/keypoints"
)

// LandmarkCount is the size of a full pose-model skeleton.
const LandmarkCount = 33

// Landmark positions of Standing, in normalized image coordinates.
var standing = map[int]keypoints.SkeletalPoint{
	0:  {X: 0.50, Y: 0.10},
	11: {X: 0.40, Y: 0.25},
	12: {X: 0.60, Y: 0.25},
	13: {X: 0.36, Y: 0.40},
	14: {X: 0.64, Y: 0.40},
	15: {X: 0.34, Y: 0.52},
	16: {X: 0.66, Y: 0.52},
	23: {X: 0.42, Y: 0.55},
	24: {X: 0.58, Y: 0.55},
	25: {X: 0.43, Y: 0.75},
	26: {X: 0.57, Y: 0.75},
	27: {X: 0.43, Y: 0.95},
	28: {X: 0.57, Y: 0.95},
}

// Standing returns a front-facing skeleton with every named landmark visible.
// Shoulder width is 0.2, hip width 0.16, torso 0.3, leg 0.4 and the nose-to-ankle
// span 0.85.
func Standing() []keypoints.SkeletalPoint {
	points := make([]keypoints.SkeletalPoint, LandmarkCount)
	for i := range points {
		points[i].Visibility = 0.1
	}
	for i, p := range standing {
		p.Visibility = 0.95
		points[i] = p
	}
	return points
}

// Hidden returns Standing with the given landmark indices made invisible.
func Hidden(indices ...int) []keypoints.SkeletalPoint {
	points := Standing()
	for _, i := range indices {
		points[i].Visibility = 0.2
	}
	return points
}

// Model runs the pipeline over Standing.
func Model(referenceHeight *float64) bodymodel.BodyModel {
	return bodymodel.FromSkeleton(Standing(), referenceHeight)
}
