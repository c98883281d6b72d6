package mesh

import (
	"fmt"
	"io"
	"strings"
)

const objHeader = "# Treads Body Model Export"

// OBJ renders the mesh as Wavefront OBJ text: header, vertices, a blank line, then
// faces with 1-based indices. Lines are newline-separated with no trailing newline.
func (m Mesh) OBJ() string {
	lines := make([]string, 0, len(m.Vertices)+len(m.Faces)+3)
	lines = append(lines, objHeader, "")
	for _, v := range m.Vertices {
		lines = append(lines, fmt.Sprintf("v %.6f %.6f %.6f", v[0], v[1], v[2]))
	}
	lines = append(lines, "")
	for _, f := range m.Faces {
		lines = append(lines, fmt.Sprintf("f %d %d %d", f[0]+1, f[1]+1, f[2]+1))
	}
	return strings.Join(lines, "\n")
}

// WriteOBJ writes OBJ() to w.
func (m Mesh) WriteOBJ(w io.Writer) error {
	_, err := io.WriteString(w, m.OBJ())
	return err
}
