package preparear

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/bodymodel/bodymodeltest"
	"bodyfit-workers/internal/common/config"
	"bodyfit-workers/internal/common/errors"
	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/models"
	"bodyfit-workers/internal/tryon"
	"bodyfit-workers/internal/workers/tryon/composer/composertest"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "virtual-tryon",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_PrepareAR",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}}
}

func storedSession(custom *bodymodel.PoseParameters) models.TryOnSession {
	bm := bodymodeltest.Model(nil)
	return models.TryOnSession{
		ID:          "s-1",
		BodyModelID: "bm-1",
		GarmentIDs:  []string{"top-1"},
		PoseType:    "walking",
		Lighting:    "studio",
		CustomPose:  custom,
		Status:      models.SessionStatusUpdated,
		Result:      tryon.Compose(bm, []tryon.Garment{tryon.DefaultGarment("top-1")}),
	}
}

// ==========================
// Handler Construction Tests
// ==========================

func TestNewHandler(t *testing.T) {
	t.Run("requires session store", func(t *testing.T) {
		_, err := NewHandler(HandlerOptions{AppConfig: &config.Config{}})
		assert.Error(t, err)
	})

	t.Run("reads worker settings from app config", func(t *testing.T) {
		appCfg := &config.Config{Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: false, MaxJobsActive: 3, Timeout: 2000},
		}}
		h, err := NewHandler(HandlerOptions{
			AppConfig: appCfg,
			Sessions:  composertest.NewSessions(),
			Logger:    logger.NewNoOpLogger(),
		})
		require.NoError(t, err)
		assert.False(t, h.IsEnabled())
		assert.Equal(t, 3, h.GetConfig().MaxJobsActive)
		assert.Equal(t, TaskType, h.GetTaskType())
	})
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := &Handler{config: DefaultConfig(), logger: logger.NewNoOpLogger()}

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{"sessionId": "s-1", "userId": "u-9"}))
	require.NoError(t, err)
	assert.Equal(t, "s-1", input.SessionID)

	_, err = h.parseInput(createMockJob(2, map[string]interface{}{"sessionId": ""}))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.NormalizeError(err).Code)
}

// ==========================
// Service Tests
// ==========================

func TestService_Execute(t *testing.T) {
	custom := &bodymodel.PoseParameters{SpineCurve: 0.1, ArmPosition: "raised", LegStance: "walking"}

	tests := []struct {
		name     string
		session  models.TryOnSession
		wantPose bodymodel.PoseParameters
	}{
		{name: "neutral pose", session: storedSession(nil), wantPose: bodymodel.DefaultPoseParameters()},
		{name: "custom pose", session: storedSession(custom), wantPose: *custom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := composertest.NewSessions(tt.session)
			svc := NewService(ServiceDependencies{Sessions: sessions, Logger: logger.NewTestLogger(t)}, DefaultConfig())

			out, err := svc.Execute(context.Background(), &Input{SessionID: "s-1"})
			require.NoError(t, err)

			assert.Equal(t, "s-1", out.ARData.SessionID)
			assert.Equal(t, tt.wantPose, out.ARData.Pose)
			assert.Equal(t, "studio", out.ARData.RenderSettings.Lighting)
			assert.Equal(t, "walking", out.ARData.RenderSettings.PoseType)
			assert.Equal(t, tt.session.Result.ScaleFactor, out.ARData.RenderSettings.ScaleFactor)
			assert.Equal(t, tt.session.Result.Anchors, out.ARData.Anchors)
			assert.Equal(t, 0, sessions.Updates)
		})
	}
}

func TestService_Execute_Errors(t *testing.T) {
	t.Run("unknown session", func(t *testing.T) {
		svc := NewService(ServiceDependencies{Sessions: composertest.NewSessions(), Logger: logger.NewNoOpLogger()}, DefaultConfig())
		_, err := svc.Execute(context.Background(), &Input{SessionID: "missing"})
		assert.Equal(t, errors.ErrCodeSessionNotFound, errors.NormalizeError(err).Code)
	})

	t.Run("store unavailable", func(t *testing.T) {
		sessions := composertest.NewSessions(storedSession(nil))
		sessions.ReadErr = stderrors.New("connection refused")
		svc := NewService(ServiceDependencies{Sessions: sessions, Logger: logger.NewNoOpLogger()}, DefaultConfig())

		_, err := svc.Execute(context.Background(), &Input{SessionID: "s-1"})
		stdErr := errors.NormalizeError(err)
		assert.Equal(t, errors.ErrCodeStoreReadFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})
}
