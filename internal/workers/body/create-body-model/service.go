package createbodymodel

import (
	"bytes"
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/bodymodel/pose"
	"bodyfit-workers/internal/common/errors"
	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/common/metrics"
	"bodyfit-workers/internal/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var bodyModelNamespace = uuid.MustParse("6f1c9a52-3d0e-4b8a-9a57-2f4c1d9e7b10")

// ModelBuilder turns a photograph into a body model.
type ModelBuilder interface {
	Build(ctx context.Context, image []byte, referenceHeight *float64) (bodymodel.BodyModel, error)
}

// EventPublisher publishes domain events; it returns the broker message id.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, event interface{}) (string, error)
}

type ServiceDependencies struct {
	Builder   ModelBuilder
	Store     models.BodyModelRepository
	Publisher EventPublisher
	Logger    logger.Logger
}

type Service struct {
	config    *Config
	builder   ModelBuilder
	store     models.BodyModelRepository
	publisher EventPublisher
	logger    logger.Logger
	now       func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:    config,
		builder:   deps.Builder,
		store:     deps.Store,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	image, err := s.decodeImage(input.Image)
	if err != nil {
		return nil, err
	}

	bm, err := s.builder.Build(ctx, image, input.ReferenceHeight)
	if err != nil {
		return nil, s.mapBuildError(err)
	}
	metrics.BodyModelsClassified.WithLabelValues(string(bm.BodyType)).Inc()

	now := s.now()
	record := &models.BodyModelRecord{
		ID:        resolveBodyModelID(input),
		UserID:    input.UserID,
		Model:     bm,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, record); err != nil {
		return nil, errors.NewStoreWriteError("body model", err)
	}

	output := &Output{
		BodyModelID:        record.ID,
		BodyType:           bm.BodyType,
		Measurements:       bm.Measurements,
		ShapeParameters:    bm.Shape,
		FitRecommendations: bm.Recommendations,
		VertexCount:        len(bm.Mesh.Vertices),
	}

	if s.config.PublishEvents && s.publisher != nil {
		messageID, err := s.publisher.Publish(ctx, models.EventBodyModelCreated, models.BodyModelEvent{
			Type:        models.EventBodyModelCreated,
			BodyModelID: record.ID,
			UserID:      record.UserID,
			BodyType:    bm.BodyType,
			RealScale:   len(bm.Measurements.Real) > 0,
			OccurredAt:  now.Format(time.RFC3339),
		})
		if err != nil {
			return nil, errors.NewNotificationPublishError(err).WithMetadata("bodyModelId", record.ID)
		}
		output.NotificationID = messageID
	}

	s.logger.Info("body model created", map[string]interface{}{
		"bodyModelId": record.ID,
		"bodyType":    bm.BodyType,
		"realScale":   len(bm.Measurements.Real) > 0,
	})

	return output, nil
}

func (s *Service) decodeImage(encoded string) ([]byte, error) {
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, errors.NewInvalidImageError(fmt.Sprintf("base64 decode: %v", err))
	}
	if len(raw) == 0 {
		return nil, errors.NewInvalidImageError("image is empty")
	}
	if len(raw) > s.config.MaxImageBytes {
		return nil, errors.NewInvalidImageError(
			fmt.Sprintf("image is %d bytes, limit is %d", len(raw), s.config.MaxImageBytes))
	}
	return s.fitImage(raw)
}

// fitImage rejects undecodable photos. JPEGs with EXIF metadata are re-encoded upright,
// and photos whose long side exceeds MaxImageDimension are downscaled; anything else is
// forwarded unchanged.
func (s *Service) fitImage(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.NewInvalidImageError(fmt.Sprintf("decode: %v", err))
	}

	maxDim := s.config.MaxImageDimension
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	oversized := maxDim > 0 && (w > maxDim || h > maxDim)
	reorient := hasEXIF(raw)
	if !oversized && !reorient {
		return raw, nil
	}

	if oversized {
		if w >= h {
			img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("re-encode image: %w", err))
	}
	s.logger.Debug("image normalized", map[string]interface{}{
		"from":      fmt.Sprintf("%dx%d", w, h),
		"to":        fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
		"downscale": oversized,
		"reorient":  reorient,
		"bytes":     buf.Len(),
	})
	return buf.Bytes(), nil
}

var (
	jpegSOI    = []byte{0xFF, 0xD8}
	exifHeader = []byte("Exif\x00\x00")
)

// hasEXIF reports whether raw is a JPEG with an EXIF block in its leading segments,
// the only place imaging reads an orientation tag from.
func hasEXIF(raw []byte) bool {
	if !bytes.HasPrefix(raw, jpegSOI) {
		return false
	}
	return bytes.Contains(raw[:min(len(raw), 64<<10)], exifHeader)
}

func (s *Service) mapBuildError(err error) error {
	switch {
	case stderrors.Is(err, pose.ErrNoPoseDetected):
		metrics.PoseDetectionFailures.Inc()
		return errors.NewPoseNotDetectedError(err.Error())
	case stderrors.Is(err, pose.ErrModelReleased):
		return errors.NewInternalError(err)
	default:
		return errors.NewPoseServiceUnavailableError(err)
	}
}

// resolveBodyModelID prefers the caller's id, then a name-based id from the job so
// redelivered jobs upsert the same row.
func resolveBodyModelID(input *Input) string {
	if input.BodyModelID != "" {
		return input.BodyModelID
	}
	if input.RequestKey != 0 {
		return uuid.NewSHA1(bodyModelNamespace, []byte(strconv.FormatInt(input.RequestKey, 10))).String()
	}
	return uuid.NewString()
}
