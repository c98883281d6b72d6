package createbodymodel

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/color"
	"testing"
	"time"

	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/bodymodel/bodymodeltest"
	"bodyfit-workers/internal/bodymodel/bodytype"
	"bodyfit-workers/internal/bodymodel/pose"
	"bodyfit-workers/internal/common/config"
	"bodyfit-workers/internal/common/errors"
	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/disintegration/imaging"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockBuilder struct {
	mock.Mock
}

func (m *MockBuilder) Build(ctx context.Context, image []byte, referenceHeight *float64) (bodymodel.BodyModel, error) {
	args := m.Called(ctx, image, referenceHeight)
	return args.Get(0).(bodymodel.BodyModel), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, record *models.BodyModelRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, id string) (*models.BodyModelRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BodyModelRecord), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType string, event interface{}) (string, error) {
	args := m.Called(ctx, eventType, event)
	return args.String(0), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "body-scan",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_CreateBodyModel",
		ElementInstanceKey:       key * 100,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

func createTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Second
	return cfg
}

// testPhoto is a small portrait PNG that passes decoding untouched.
var testPhoto = mustEncodePhoto(40, 80)

func mustEncodePhoto(w, h int) []byte {
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 180, B: 160, A: 255})
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func mustEncodeJPEG(w, h int) []byte {
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 90, G: 120, B: 150, A: 255})
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// withOrientation splices a big-endian EXIF APP1 segment holding only the orientation
// tag (0x0112) directly after the JPEG SOI marker.
func withOrientation(jpg []byte, orientation uint16) []byte {
	payload := append([]byte("Exif\x00\x00"),
		'M', 'M', 0, 42, 0, 0, 0, 8, // TIFF header, IFD0 at offset 8
		0, 1, // one entry
		0x01, 0x12, 0, 3, 0, 0, 0, 1, byte(orientation >> 8), byte(orientation), 0, 0,
		0, 0, 0, 0, // no next IFD
	)
	size := len(payload) + 2

	out := append([]byte{}, jpg[:2]...)
	out = append(out, 0xFF, 0xE1, byte(size>>8), byte(size))
	out = append(out, payload...)
	return append(out, jpg[2:]...)
}

func encodedImage() string {
	return base64.StdEncoding.EncodeToString(testPhoto)
}

func newTestService(t *testing.T, cfg *Config, builder *MockBuilder, store *MockStore, publisher EventPublisher) *Service {
	return NewService(ServiceDependencies{
		Builder:   builder,
		Store:     store,
		Publisher: publisher,
		Logger:    logger.NewTestLogger(t),
	}, cfg)
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) *errors.StandardError {
	t.Helper()
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok, "expected StandardError, got %T", err)
	assert.Equal(t, code, stdErr.Code)
	return stdErr
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr string
	}{
		{
			name: "valid options",
			opts: HandlerOptions{
				CustomConfig: createTestConfig(),
				Builder:      &MockBuilder{},
				Store:        &MockStore{},
				Logger:       logger.NewNoOpLogger(),
			},
		},
		{
			name: "missing builder",
			opts: HandlerOptions{
				CustomConfig: createTestConfig(),
				Store:        &MockStore{},
			},
			wantErr: "requires a model builder",
		},
		{
			name: "invalid timeout",
			opts: HandlerOptions{
				CustomConfig: &Config{Enabled: true, MaxJobsActive: 1, MaxImageBytes: 1},
				Builder:      &MockBuilder{},
				Store:        &MockStore{},
			},
			wantErr: "timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TaskType, h.GetTaskType())
			assert.True(t, h.IsEnabled())
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: false, MaxJobsActive: 9, Timeout: 45000},
		},
	}
	appCfg.Notifications.SNS.Enabled = true

	cfg := createConfigFromAppConfig(appCfg, nil)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 9, cfg.MaxJobsActive)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.True(t, cfg.PublishEvents)
	assert.Equal(t, 10<<20, cfg.MaxImageBytes)

	custom := createTestConfig()
	assert.Same(t, custom, createConfigFromAppConfig(appCfg, custom))
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := &Handler{config: createTestConfig(), logger: logger.NewNoOpLogger()}

	tests := []struct {
		name      string
		variables map[string]interface{}
		errCode   errors.ErrorCode
		validate  func(*testing.T, *Input)
	}{
		{
			name: "all fields",
			variables: map[string]interface{}{
				"image":           encodedImage(),
				"referenceHeight": 172.5,
				"userId":          "user-1",
				"bodyModelId":     "bm-1",
				"processVariable": "ignored",
			},
			validate: func(t *testing.T, in *Input) {
				require.NotNil(t, in.ReferenceHeight)
				assert.Equal(t, 172.5, *in.ReferenceHeight)
				assert.Equal(t, "user-1", in.UserID)
				assert.Equal(t, "bm-1", in.BodyModelID)
				assert.Equal(t, int64(4200), in.RequestKey)
			},
		},
		{
			name:      "image only",
			variables: map[string]interface{}{"image": encodedImage()},
			validate: func(t *testing.T, in *Input) {
				assert.Nil(t, in.ReferenceHeight)
				assert.Empty(t, in.UserID)
			},
		},
		{
			name:      "missing image",
			variables: map[string]interface{}{"referenceHeight": 170},
			errCode:   errors.ErrCodeValidationFailed,
		},
		{
			name:      "reference height as string",
			variables: map[string]interface{}{"image": encodedImage(), "referenceHeight": "tall"},
			errCode:   errors.ErrCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(createMockJob(42, tt.variables))
			if tt.errCode != "" {
				requireCode(t, err, tt.errCode)
				return
			}
			require.NoError(t, err)
			tt.validate(t, input)
		})
	}
}

// ==========================
// Service Tests
// ==========================

func TestService_Execute_Success(t *testing.T) {
	height := 180.0
	bm := bodymodeltest.Model(&height)

	builder := &MockBuilder{}
	builder.On("Build", mock.Anything, testPhoto, &height).Return(bm, nil)

	store := &MockStore{}
	store.On("Save", mock.Anything, mock.MatchedBy(func(r *models.BodyModelRecord) bool {
		return r.UserID == "user-1" && r.Model.BodyType == bm.BodyType && !r.CreatedAt.IsZero()
	})).Return(nil)

	svc := newTestService(t, createTestConfig(), builder, store, nil)

	out, err := svc.Execute(context.Background(), &Input{
		Image:           encodedImage(),
		ReferenceHeight: &height,
		UserID:          "user-1",
		RequestKey:      77,
	})
	require.NoError(t, err)

	assert.Equal(t, bodytype.InvertedTriangle, out.BodyType)
	assert.Equal(t, 28, out.VertexCount)
	assert.Equal(t, bm.Shape, out.ShapeParameters)
	assert.Equal(t, bm.Recommendations, out.FitRecommendations)
	assert.NotEmpty(t, out.Measurements.Real)
	assert.Empty(t, out.NotificationID)
	assert.Equal(t, resolveBodyModelID(&Input{RequestKey: 77}), out.BodyModelID)

	builder.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestService_Execute_DataURL(t *testing.T) {
	builder := &MockBuilder{}
	builder.On("Build", mock.Anything, testPhoto, (*float64)(nil)).
		Return(bodymodeltest.Model(nil), nil)
	store := &MockStore{}
	store.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(t, createTestConfig(), builder, store, nil)
	_, err := svc.Execute(context.Background(), &Input{Image: "data:image/png;base64," + encodedImage()})
	require.NoError(t, err)
	builder.AssertExpectations(t)
}

func TestService_Execute_PublishesEvent(t *testing.T) {
	cfg := createTestConfig()
	cfg.PublishEvents = true

	builder := &MockBuilder{}
	builder.On("Build", mock.Anything, mock.Anything, mock.Anything).Return(bodymodeltest.Model(nil), nil)
	store := &MockStore{}
	store.On("Save", mock.Anything, mock.Anything).Return(nil)

	publisher := &MockPublisher{}
	publisher.On("Publish", mock.Anything, models.EventBodyModelCreated, mock.MatchedBy(func(e models.BodyModelEvent) bool {
		return e.BodyModelID == "bm-7" && e.UserID == "user-7" && !e.RealScale
	})).Return("msg-123", nil)

	svc := newTestService(t, cfg, builder, store, publisher)
	out, err := svc.Execute(context.Background(), &Input{Image: encodedImage(), UserID: "user-7", BodyModelID: "bm-7"})
	require.NoError(t, err)
	assert.Equal(t, "msg-123", out.NotificationID)
	publisher.AssertExpectations(t)
}

func TestService_Execute_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      *Input
		buildErr   error
		saveErr    error
		publishErr error
		errCode    errors.ErrorCode
		retryable  bool
	}{
		{
			name:    "not base64",
			input:   &Input{Image: "%%%not-base64%%%"},
			errCode: errors.ErrCodeInvalidImage,
		},
		{
			name:     "no person in image",
			input:    &Input{Image: encodedImage()},
			buildErr: fmt.Errorf("estimate pose: %w", pose.ErrNoPoseDetected),
			errCode:  errors.ErrCodePoseNotDetected,
		},
		{
			name:      "pose service down",
			input:     &Input{Image: encodedImage()},
			buildErr:  fmt.Errorf("estimate pose: connection refused"),
			errCode:   errors.ErrCodePoseServiceUnavailable,
			retryable: true,
		},
		{
			name:     "pose model released",
			input:    &Input{Image: encodedImage()},
			buildErr: pose.ErrModelReleased,
			errCode:  errors.ErrCodeInternal,
		},
		{
			name:      "store write fails",
			input:     &Input{Image: encodedImage()},
			saveErr:   fmt.Errorf("connection reset"),
			errCode:   errors.ErrCodeStoreWriteFailed,
			retryable: true,
		},
		{
			name:       "publish fails",
			input:      &Input{Image: encodedImage(), BodyModelID: "bm-9"},
			publishErr: fmt.Errorf("throttled"),
			errCode:    errors.ErrCodeNotificationPublishFailed,
			retryable:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			cfg.PublishEvents = true

			builder := &MockBuilder{}
			builder.On("Build", mock.Anything, mock.Anything, mock.Anything).Return(bodymodeltest.Model(nil), tt.buildErr)
			store := &MockStore{}
			store.On("Save", mock.Anything, mock.Anything).Return(tt.saveErr)
			publisher := &MockPublisher{}
			publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return("", tt.publishErr)

			svc := newTestService(t, cfg, builder, store, publisher)
			_, err := svc.Execute(context.Background(), tt.input)

			stdErr := requireCode(t, err, tt.errCode)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
			if tt.publishErr != nil {
				assert.Equal(t, "bm-9", stdErr.Metadata["bodyModelId"])
			}
		})
	}
}

func TestService_DecodeImage_TooLarge(t *testing.T) {
	cfg := createTestConfig()
	cfg.MaxImageBytes = 4

	svc := newTestService(t, cfg, &MockBuilder{}, &MockStore{}, nil)
	_, err := svc.decodeImage(encodedImage())
	requireCode(t, err, errors.ErrCodeInvalidImage)
}

func TestService_DecodeImage(t *testing.T) {
	t.Run("not an image", func(t *testing.T) {
		svc := newTestService(t, createTestConfig(), &MockBuilder{}, &MockStore{}, nil)
		_, err := svc.decodeImage(base64.StdEncoding.EncodeToString([]byte("plain text, no pixels")))
		requireCode(t, err, errors.ErrCodeInvalidImage)
	})

	t.Run("small image forwarded unchanged", func(t *testing.T) {
		svc := newTestService(t, createTestConfig(), &MockBuilder{}, &MockStore{}, nil)
		out, err := svc.decodeImage(encodedImage())
		require.NoError(t, err)
		assert.Equal(t, testPhoto, out)
	})

	t.Run("large image downscaled", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.MaxImageDimension = 32

		svc := newTestService(t, cfg, &MockBuilder{}, &MockStore{}, nil)
		out, err := svc.decodeImage(encodedImage())
		require.NoError(t, err)

		img, err := imaging.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 16, img.Bounds().Dx())
		assert.Equal(t, 32, img.Bounds().Dy())
	})

	t.Run("jpeg without exif forwarded unchanged", func(t *testing.T) {
		photo := mustEncodeJPEG(40, 80)
		svc := newTestService(t, createTestConfig(), &MockBuilder{}, &MockStore{}, nil)
		out, err := svc.decodeImage(base64.StdEncoding.EncodeToString(photo))
		require.NoError(t, err)
		assert.Equal(t, photo, out)
	})

	t.Run("exif orientation applied", func(t *testing.T) {
		photo := withOrientation(mustEncodeJPEG(40, 80), 6)
		svc := newTestService(t, createTestConfig(), &MockBuilder{}, &MockStore{}, nil)
		out, err := svc.decodeImage(base64.StdEncoding.EncodeToString(photo))
		require.NoError(t, err)
		assert.NotEqual(t, photo, out)

		img, err := imaging.Decode(bytes.NewReader(out), imaging.AutoOrientation(true))
		require.NoError(t, err)
		assert.Equal(t, 80, img.Bounds().Dx(), "rotated quarter turn")
		assert.Equal(t, 40, img.Bounds().Dy())
	})

	t.Run("dimension cap disabled", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.MaxImageDimension = 0

		svc := newTestService(t, cfg, &MockBuilder{}, &MockStore{}, nil)
		out, err := svc.decodeImage(encodedImage())
		require.NoError(t, err)
		assert.Equal(t, testPhoto, out)
	})
}

func TestResolveBodyModelID(t *testing.T) {
	assert.Equal(t, "given", resolveBodyModelID(&Input{BodyModelID: "given", RequestKey: 5}))
	assert.Equal(t, resolveBodyModelID(&Input{RequestKey: 5}), resolveBodyModelID(&Input{RequestKey: 5}))
	assert.NotEqual(t, resolveBodyModelID(&Input{RequestKey: 5}), resolveBodyModelID(&Input{RequestKey: 6}))
	assert.NotEqual(t, resolveBodyModelID(&Input{}), resolveBodyModelID(&Input{}))
}

// ==========================
// Config & Schema Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MaxJobsActive = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxImageBytes = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxImageDimension = -1
	assert.Error(t, cfg.Validate())
}

func TestGetInputSchema(t *testing.T) {
	schema := GetInputSchema()
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"image"}, schema.Required)
	assert.True(t, schema.AdditionalProperties)
	assert.Contains(t, schema.Properties, "referenceHeight")
}
