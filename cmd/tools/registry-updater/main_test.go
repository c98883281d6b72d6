package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"bodyfit-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRegistryUpdater_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	out, err := run(t, "add", "--path", path,
		"--id", "scale-body-model",
		"--display-name", "Scale Body Model",
		"--description", "Rescales a stored body model",
		"--category", "body",
		"--task-type", "scale-body-model",
		"--error-codes", "BODY_MODEL_NOT_FOUND, VALIDATION_FAILED")
	require.NoError(t, err)
	assert.Contains(t, out, "Added activity: scale-body-model")

	out, err = run(t, "update", "--path", path, "--id", "scale-body-model", "--field", "status", "--value", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "field status to completed")

	out, err = run(t, "list", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "TASK TYPE")
	assert.Regexp(t, `scale-body-model\s+body\s+completed\s+Scale Body Model`, out)

	out, err = run(t, "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 activities")

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	a, ok := reg.Find("scale-body-model")
	require.True(t, ok)
	assert.Equal(t, []string{"BODY_MODEL_NOT_FOUND", "VALIDATION_FAILED"}, a.ErrorCodes)
	assert.Equal(t, 3, a.Retries)
}

func TestRegistryUpdater_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "add without required flags",
			args:    []string{"add", "--path", path, "--id", "x"},
			wantErr: "required flag(s)",
		},
		{
			name:    "update missing registry",
			args:    []string{"update", "--path", path, "--id", "x", "--field", "status", "--value", "completed"},
			wantErr: "failed to load registry",
		},
		{
			name:    "validate missing registry",
			args:    []string{"validate", "--path", path},
			wantErr: "registry validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistryUpdater_CatalogIsValid(t *testing.T) {
	out, err := run(t, "validate", "--path", filepath.Join("..", "..", "..", defaultRegistryPath))
	require.NoError(t, err)
	assert.Contains(t, out, "Found 11 activities")
}
