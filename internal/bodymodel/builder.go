package bodymodel

import (
	"context"
	"fmt"

	"bodyfit-workers/internal/bodymodel/keypoints"
	"bodyfit-workers/internal/bodymodel/pose"
	"bodyfit-workers/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "bodyfit-workers/bodymodel"

// Builder is the pipeline entry point for images. It holds one reference to the shared
// pose model for its lifetime.
type Builder struct {
	model  *pose.Model
	tracer trace.Tracer
	logger logger.Logger
}

// NewBuilder acquires a reference to model; call Close to give it back.
func NewBuilder(model *pose.Model, log logger.Logger) (*Builder, error) {
	ref, err := model.Acquire()
	if err != nil {
		return nil, fmt.Errorf("acquire pose model: %w", err)
	}
	return &Builder{
		model:  ref,
		tracer: otel.Tracer(tracerName),
		logger: log.Named("bodymodel"),
	}, nil
}

// Build detects the pose in image and runs the pipeline. When no person is found the
// error wraps pose.ErrNoPoseDetected and no partial model is produced.
func (b *Builder) Build(ctx context.Context, image []byte, referenceHeight *float64) (BodyModel, error) {
	ctx, span := b.tracer.Start(ctx, "bodymodel.build")
	defer span.End()

	points, err := b.estimate(ctx, image)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pose estimation failed")
		return BodyModel{}, err
	}

	_, pipelineSpan := b.tracer.Start(ctx, "bodymodel.pipeline")
	bm := FromSkeleton(points, referenceHeight)
	pipelineSpan.SetAttributes(
		attribute.String("body_type", string(bm.BodyType)),
		attribute.Int("key_points", len(bm.KeyPoints)),
		attribute.Bool("real_scale", len(bm.Measurements.Real) > 0),
	)
	pipelineSpan.End()

	b.logger.Debug("body model built", map[string]interface{}{
		"bodyType":    bm.BodyType,
		"keyPoints":   len(bm.KeyPoints),
		"scaleFactor": bm.Measurements.ScaleFactor,
		"vertexCount": len(bm.Mesh.Vertices),
	})

	return bm, nil
}

func (b *Builder) estimate(ctx context.Context, image []byte) ([]keypoints.SkeletalPoint, error) {
	ctx, span := b.tracer.Start(ctx, "pose.estimate")
	defer span.End()

	points, err := b.model.Estimate(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("estimate pose: %w", err)
	}
	span.SetAttributes(attribute.Int("landmarks", len(points)))
	return points, nil
}

// Close releases the builder's pose model reference.
func (b *Builder) Close() error {
	return b.model.Release()
}
