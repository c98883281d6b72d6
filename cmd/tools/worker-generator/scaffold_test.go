package main

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodyfit-workers/pkg/registry"
)

func scaleActivity() registry.Activity {
	return registry.Activity{
		ID:          "scale-body-model",
		DisplayName: "Scale Body Model",
		Description: "Rescales a stored body model.",
		Category:    "body",
		TaskType:    "scale-body-model",
		Timeout:     "1500ms",
		ErrorCodes:  []string{"BODY_MODEL_NOT_FOUND", "VALIDATION_FAILED"},
		InputSchema: map[string]interface{}{
			"bodyModelId": map[string]interface{}{"type": "string", "required": true, "description": "Body model to scale"},
			"factor":      map[string]interface{}{"type": "number", "required": true},
			"unit":        map[string]interface{}{"type": "string", "enum": []interface{}{"cm", "in"}},
		},
		OutputSchema: map[string]interface{}{
			"bodyModelId": map[string]interface{}{"type": "string"},
			"vertexCount": map[string]interface{}{"type": "integer"},
		},
	}
}

func TestNewWorkerData(t *testing.T) {
	data := newWorkerData(scaleActivity(), 4)

	assert.Equal(t, "scalebodymodel", data.PackageName)
	assert.Equal(t, "1500 * time.Millisecond", data.TimeoutExpr)
	assert.Equal(t, []string{"bodyModelId", "factor"}, data.Required)

	require.Len(t, data.InputFields, 3)
	assert.Equal(t, "BodyModelID", data.InputFields[0].GoName)
	assert.Equal(t, "float64", data.InputFields[1].GoType)
	assert.Equal(t, []string{"cm", "in"}, data.InputFields[2].Enum)
	assert.Equal(t, `"cm"`, data.InputFields[2].Sample)
}

func TestRender_ProducesValidGo(t *testing.T) {
	files, err := render(newWorkerData(scaleActivity(), 4))
	require.NoError(t, err)
	require.Len(t, files, len(scaffoldFiles))

	fset := token.NewFileSet()
	for name, src := range files {
		f, err := parser.ParseFile(fset, name, src, 0)
		require.NoError(t, err, name)
		assert.Equal(t, "scalebodymodel", f.Name.Name, name)
	}

	assert.Contains(t, string(files["handler.go"]), `const TaskType = "scale-body-model"`)
	assert.Contains(t, string(files["config.go"]), "1500 * time.Millisecond")
	assert.Contains(t, string(files["models.go"]), "`json:\"unit,omitempty\"`")
	assert.Contains(t, string(files["validation.go"]), `Required: []string{"bodyModelId", "factor"}`)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "GarmentIDs", goName("garmentIds"))
	assert.Equal(t, "PoseType", goName("poseType"))
	assert.Equal(t, "10 * time.Second", durationExpr(""))
	assert.Equal(t, "30 * time.Second", durationExpr("30s"))
	assert.Equal(t, "tryon", categoryDirectory("try-on"))
	assert.Equal(t, "body", categoryDirectory("body"))
}
