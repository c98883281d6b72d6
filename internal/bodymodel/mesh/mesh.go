// Package mesh synthesizes the placeholder body mesh from shape parameters.
//
// The vertex layout and triangle grouping are a fixed contract: consumers such as the
// try-on bounding box rely on the emission order, so changes here are breaking.
package mesh

import (
	"math"

	"bodyfit-workers/internal/bodymodel/shape"
)

// Vertex is an (x, y, z) position in model space; y is up.
type Vertex [3]float64

// Face indexes three vertices of a mesh.
type Face [3]int

// Mesh is a triangle mesh; Faces index into Vertices.
type Mesh struct {
	Vertices []Vertex `json:"vertices"`
	Faces    []Face   `json:"faces"`
}

const headRingSegments = 8

// Synthesize emits the head ring, shoulder, waist and hip quads, then the two legs,
// and groups every consecutive run of three vertices into a face.
func Synthesize(p shape.Parameters) Mesh {
	h := p.HeightScale
	verts := make([]Vertex, 0, 28)

	headY := 1.7 * h
	for i := 0; i < headRingSegments; i++ {
		angle := float64(i) * math.Pi / 4
		verts = append(verts, Vertex{0.1 * math.Cos(angle), headY, 0.1 * math.Sin(angle)})
	}

	verts = appendQuad(verts, 0.2*p.ShoulderWidthScale, 1.5*h)
	verts = appendQuad(verts, 0.15*p.WaistWidthScale, 1.0*h)
	verts = appendQuad(verts, 0.18*p.HipWidthScale, 0.8*h)

	for _, legX := range []float64{-0.1, 0.1} {
		for _, y := range []float64{0.4, 0.0} {
			verts = append(verts,
				Vertex{legX, y * h, 0},
				Vertex{legX, y * h, -0.1},
			)
		}
	}

	return Mesh{Vertices: verts, Faces: groupFaces(len(verts))}
}

// appendQuad adds front-left, front-right, back-left, back-right at height y.
func appendQuad(verts []Vertex, halfWidth, y float64) []Vertex {
	return append(verts,
		Vertex{-halfWidth, y, 0},
		Vertex{halfWidth, y, 0},
		Vertex{-halfWidth, y, -0.1},
		Vertex{halfWidth, y, -0.1},
	)
}

func groupFaces(n int) []Face {
	faces := make([]Face, 0, n/3)
	for i := 0; i < n-2; i += 3 {
		faces = append(faces, Face{i, i + 1, i + 2})
	}
	return faces
}

// BoundingBox is an axis-aligned box in model space.
type BoundingBox struct {
	Min Vertex `json:"min"`
	Max Vertex `json:"max"`
}

// DefaultBounds is reported for a mesh without vertices.
var DefaultBounds = BoundingBox{
	Min: Vertex{-1, 0, -1},
	Max: Vertex{1, 2, 1},
}

// Bounds returns the axis-aligned extent of the vertices, or DefaultBounds when empty.
func (m Mesh) Bounds() BoundingBox {
	if len(m.Vertices) == 0 {
		return DefaultBounds
	}
	b := BoundingBox{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			b.Min[axis] = math.Min(b.Min[axis], v[axis])
			b.Max[axis] = math.Max(b.Max[axis], v[axis])
		}
	}
	return b
}

// Valid reports whether every face index refers to an existing vertex.
func (m Mesh) Valid() bool {
	for _, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				return false
			}
		}
	}
	return true
}
