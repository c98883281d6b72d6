// Package keypoints turns a raw pose-landmark skeleton into the named anatomical
// points the rest of the body model works with.
package keypoints

import "math"

// VisibilityThreshold is the minimum landmark visibility kept by Derive.
const VisibilityThreshold = 0.5

// SkeletalPoint is one landmark as reported by the pose model.
type SkeletalPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Point3D is a landmark with visibility dropped.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Name identifies a derived key point.
type Name string

const (
	Nose          Name = "nose"
	LeftShoulder  Name = "left_shoulder"
	RightShoulder Name = "right_shoulder"
	LeftElbow     Name = "left_elbow"
	RightElbow    Name = "right_elbow"
	LeftWrist     Name = "left_wrist"
	RightWrist    Name = "right_wrist"
	LeftHip       Name = "left_hip"
	RightHip      Name = "right_hip"
	LeftKnee      Name = "left_knee"
	RightKnee     Name = "right_knee"
	LeftAnkle     Name = "left_ankle"
	RightAnkle    Name = "right_ankle"

	ShoulderCenter Name = "shoulder_center"
	HipCenter      Name = "hip_center"
	AnkleCenter    Name = "ankle_center"
)

// landmarkIndex maps named points to their position in the 33-landmark skeleton.
var landmarkIndex = []struct {
	name  Name
	index int
}{
	{Nose, 0},
	{LeftShoulder, 11},
	{RightShoulder, 12},
	{LeftElbow, 13},
	{RightElbow, 14},
	{LeftWrist, 15},
	{RightWrist, 16},
	{LeftHip, 23},
	{RightHip, 24},
	{LeftKnee, 25},
	{RightKnee, 26},
	{LeftAnkle, 27},
	{RightAnkle, 28},
}

var midpoints = []struct {
	name        Name
	left, right Name
}{
	{ShoulderCenter, LeftShoulder, RightShoulder},
	{HipCenter, LeftHip, RightHip},
	{AnkleCenter, LeftAnkle, RightAnkle},
}

// Set holds the derived key points. Absent names were not visible.
type Set map[Name]Point3D

// Get returns the point and whether it is present.
func (s Set) Get(name Name) (Point3D, bool) {
	p, ok := s[name]
	return p, ok
}

// Derive keeps the visible named landmarks and adds the shoulder, hip and ankle centres
// when both sides are present. Out-of-range indices are treated as not visible.
func Derive(points []SkeletalPoint) Set {
	set := make(Set, len(landmarkIndex)+len(midpoints))

	for _, lm := range landmarkIndex {
		if lm.index >= len(points) {
			continue
		}
		sp := points[lm.index]
		if sp.Visibility <= VisibilityThreshold {
			continue
		}
		set[lm.name] = Point3D{X: sp.X, Y: sp.Y, Z: sp.Z}
	}

	for _, mp := range midpoints {
		l, okL := set[mp.left]
		r, okR := set[mp.right]
		if okL && okR {
			set[mp.name] = Midpoint(l, r)
		}
	}

	return set
}

// Midpoint is the per-axis mean of a and b.
func Midpoint(a, b Point3D) Point3D {
	return Point3D{
		X: (a.X + b.X) / 2,
		Y: (a.Y + b.Y) / 2,
		Z: (a.Z + b.Z) / 2,
	}
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point3D) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Distance returns the distance between two named points, if both are present.
func (s Set) Distance(a, b Name) (float64, bool) {
	pa, okA := s[a]
	pb, okB := s[b]
	if !okA || !okB {
		return 0, false
	}
	return Distance(pa, pb), true
}
