package exportbodymesh

import (
	"time"

	"bodyfit-workers/internal/bodymodel/mesh"
)

// DefaultFormat is used when the job carries no format.
const DefaultFormat = "obj"

type Input struct {
	BodyModelID string `json:"bodyModelId"`
	Format      string `json:"format"`
}

type Output struct {
	BodyModelID string           `json:"bodyModelId"`
	Format      string           `json:"format"`
	FileName    string           `json:"fileName"`
	Content     string           `json:"content"`
	VertexCount int              `json:"vertexCount"`
	FaceCount   int              `json:"faceCount"`
	Bounds      mesh.BoundingBox `json:"bounds"`
	ExportedAt  time.Time        `json:"exportedAt"`
}
