package mesh

import (
	"bytes"
	"strings"
	"testing"

	"bodyfit-workers/internal/bodymodel/shape"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_Layout(t *testing.T) {
	m := Synthesize(shape.Neutral())

	require.Len(t, m.Vertices, 28)
	require.Len(t, m.Faces, 9)
	assert.True(t, m.Valid())

	assert.Equal(t, Face{0, 1, 2}, m.Faces[0])
	assert.Equal(t, Face{24, 25, 26}, m.Faces[8])

	// Head ring first, then shoulder, waist and hip quads.
	assert.InDelta(t, 1.7, m.Vertices[0][1], 1e-9)
	assert.InDelta(t, 0.1, m.Vertices[0][0], 1e-9)
	assert.Equal(t, Vertex{-0.2, 1.5, 0}, m.Vertices[8])
	assert.InDelta(t, 0.12, m.Vertices[13][0], 1e-9)
	assert.Equal(t, Vertex{0.18, 0.8, -0.1}, m.Vertices[19])
	assert.Equal(t, Vertex{0.1, 0, -0.1}, m.Vertices[27])
}

func TestSynthesize_ScalesWithHeight(t *testing.T) {
	p := shape.Neutral()
	p.HeightScale = 1.2
	m := Synthesize(p)

	b := m.Bounds()
	assert.InDelta(t, 1.7*1.2, b.Max[1], 1e-9)
	assert.InDelta(t, 0.0, b.Min[1], 1e-9)
	assert.InDelta(t, 1.2, m.Vertices[12][1], 1e-9)
}

func TestBounds(t *testing.T) {
	assert.Equal(t, DefaultBounds, Mesh{}.Bounds())

	m := Synthesize(shape.Neutral())
	b := m.Bounds()
	assert.InDelta(t, -0.2, b.Min[0], 1e-9)
	assert.InDelta(t, 0.2, b.Max[0], 1e-9)
	assert.InDelta(t, -0.1, b.Min[2], 1e-9)
	assert.InDelta(t, 0.1, b.Max[2], 1e-9)
}

func TestValid(t *testing.T) {
	m := Mesh{Vertices: []Vertex{{}, {}, {}}, Faces: []Face{{0, 1, 3}}}
	assert.False(t, m.Valid())
	m.Faces[0] = Face{-1, 0, 1}
	assert.False(t, m.Valid())
}

func TestOBJ(t *testing.T) {
	m := Synthesize(shape.Neutral())
	lines := strings.Split(m.OBJ(), "\n")

	require.Len(t, lines, 40)
	assert.Equal(t, objHeader, lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "v 0.100000 1.700000 0.000000", lines[2])
	assert.Equal(t, "", lines[30])
	assert.Equal(t, "f 1 2 3", lines[31])
	assert.Equal(t, "f 25 26 27", lines[39])

	var buf bytes.Buffer
	require.NoError(t, m.WriteOBJ(&buf))
	assert.Equal(t, m.OBJ(), buf.String())
}
