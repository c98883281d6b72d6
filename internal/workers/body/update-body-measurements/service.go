package updatebodymeasurements

import (
	"context"
	stderrors "errors"
	"time"

	"bodyfit-workers/internal/common/errors"
	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/common/metrics"
	"bodyfit-workers/internal/models"
)

type ServiceDependencies struct {
	Store  models.BodyModelRepository
	Logger logger.Logger
}

type Service struct {
	config *Config
	store  models.BodyModelRepository
	logger logger.Logger
	now    func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		store:  deps.Store,
		logger: deps.Logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Execute applies the supplied measurements and regenerates shape, body type,
// recommendations and mesh. Pixel and real measurements are kept as captured.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Update.IsEmpty() {
		return nil, errors.NewValidationError("at least one of height, weight, chest, waist or hips is required")
	}

	record, err := s.store.Get(ctx, input.BodyModelID)
	if err != nil {
		if stderrors.Is(err, models.ErrNotFound) {
			return nil, errors.NewBodyModelNotFoundError(input.BodyModelID)
		}
		return nil, errors.NewStoreReadError("body model", err)
	}

	previous := record.Model.BodyType
	record.Model.ApplyMeasurements(input.Update)
	record.UpdatedAt = s.now()

	if err := s.store.Save(ctx, record); err != nil {
		return nil, errors.NewStoreWriteError("body model", err)
	}
	metrics.BodyModelsClassified.WithLabelValues(string(record.Model.BodyType)).Inc()

	if previous != record.Model.BodyType {
		s.logger.Info("body type changed after measurement update", map[string]interface{}{
			"bodyModelId": record.ID,
			"from":        previous,
			"to":          record.Model.BodyType,
		})
	}

	return &Output{
		BodyModelID:        record.ID,
		BodyType:           record.Model.BodyType,
		PreviousBodyType:   previous,
		Measurements:       record.Model.Measurements,
		ShapeParameters:    record.Model.Shape,
		FitRecommendations: record.Model.Recommendations,
		UpdatedAt:          record.UpdatedAt,
	}, nil
}
