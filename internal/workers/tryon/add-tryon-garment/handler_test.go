package addtryongarment

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"bodyfit-workers/internal/bodymodel/bodymodeltest"
	"bodyfit-workers/internal/common/errors"
	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/models"
	"bodyfit-workers/internal/tryon"
	"bodyfit-workers/internal/workers/tryon/composer"
	"bodyfit-workers/internal/workers/tryon/composer/composertest"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	created = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	updated = time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)
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
		ElementId:                "Activity_AddGarment",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}}
}

type fixture struct {
	service  *Service
	sessions *composertest.Sessions
	garments *composertest.Garments
}

func newFixture(t *testing.T) *fixture {
	bm := bodymodeltest.Model(nil)
	bodyModels := composertest.NewBodyModels(&models.BodyModelRecord{ID: "bm-1", Model: bm})

	f := &fixture{
		sessions: composertest.NewSessions(models.TryOnSession{
			ID:          "s-1",
			BodyModelID: "bm-1",
			GarmentIDs:  []string{"top-1"},
			PoseType:    models.DefaultPoseType,
			Lighting:    models.DefaultLighting,
			Status:      models.SessionStatusInitialized,
			Result:      tryon.Compose(bm, []tryon.Garment{tryon.DefaultGarment("top-1")}),
			CreatedAt:   created,
			UpdatedAt:   created,
		}),
		garments: composertest.NewGarments(tryon.Garment{ID: "jeans-1", Type: "bootcut"}),
	}
	f.service = NewService(ServiceDependencies{
		Composer: composer.New(bodyModels, f.sessions, f.garments),
		Logger:   logger.NewTestLogger(t),
	}, DefaultConfig())
	f.service.now = func() time.Time { return updated }
	return f
}

func TestHandler_ParseInput(t *testing.T) {
	h := &Handler{config: DefaultConfig(), logger: logger.NewNoOpLogger()}

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{"sessionId": "s-1", "garmentId": "g-1"}))
	require.NoError(t, err)
	assert.Equal(t, &Input{SessionID: "s-1", GarmentID: "g-1"}, input)

	_, err = h.parseInput(createMockJob(1, map[string]interface{}{"sessionId": "s-1"}))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.NormalizeError(err).Code)
}

func TestService_Execute_AddsAndRecomposes(t *testing.T) {
	f := newFixture(t)

	out, err := f.service.Execute(context.Background(), &Input{SessionID: "s-1", GarmentID: "jeans-1"})
	require.NoError(t, err)

	assert.True(t, out.Added)
	assert.Equal(t, []string{"top-1", "jeans-1"}, out.GarmentIDs)
	require.Len(t, out.TryOnResult.FitAnalysis, 2)
	assert.Equal(t, "bootcut", out.TryOnResult.FitAnalysis[1].GarmentType)
	assert.InDelta(t, 0.8, out.TryOnResult.FitAnalysis[1].FitScore, 1e-9)
	assert.Equal(t, updated, out.UpdatedAt)

	stored, err := f.sessions.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusUpdated, stored.Status)
	assert.Equal(t, created, stored.CreatedAt)
	assert.Equal(t, 1, f.sessions.Updates)
}

func TestService_Execute_DuplicateGarmentIsNoOp(t *testing.T) {
	f := newFixture(t)

	out, err := f.service.Execute(context.Background(), &Input{SessionID: "s-1", GarmentID: "top-1"})
	require.NoError(t, err)

	assert.False(t, out.Added)
	assert.Equal(t, []string{"top-1"}, out.GarmentIDs)
	assert.Equal(t, created, out.UpdatedAt)
	assert.Equal(t, 0, f.sessions.Updates)
}

func TestService_Execute_Errors(t *testing.T) {
	t.Run("unknown session", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Execute(context.Background(), &Input{SessionID: "nope", GarmentID: "g"})
		assert.Equal(t, errors.ErrCodeSessionNotFound, errors.NormalizeError(err).Code)
	})

	t.Run("garment lookup fails", func(t *testing.T) {
		f := newFixture(t)
		f.garments.Err = fmt.Errorf("timeout")
		_, err := f.service.Execute(context.Background(), &Input{SessionID: "s-1", GarmentID: "jeans-1"})
		assert.Equal(t, errors.ErrCodeGarmentLookupFailed, errors.NormalizeError(err).Code)
		assert.Equal(t, 0, f.sessions.Updates)
	})
}
