package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		Named("worker").
		WithFields(map[string]interface{}{"taskType": "export-body-mesh"})

	log.Named("service").Warn("export slow", map[string]interface{}{
		"bodyModelId": "bm-1",
		"elapsed":     1500 * time.Millisecond,
		"cause":       errors.New("disk busy"),
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "worker.service", entry.LoggerName)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "export-body-mesh", fields["taskType"])
	assert.Equal(t, "bm-1", fields["bodyModelId"])
	assert.Equal(t, "1.5s", fields["elapsed"])
	assert.Equal(t, "disk busy", fields["cause"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}
