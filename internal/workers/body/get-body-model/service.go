package getbodymodel

import (
	"context"
	stderrors "errors"
	"time"

	"bodyfit-workers/internal/common/errors"
	"bodyfit-workers/internal/common/logger"
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

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	record, err := s.store.Get(ctx, input.BodyModelID)
	if err != nil {
		if stderrors.Is(err, models.ErrNotFound) {
			return nil, errors.NewBodyModelNotFoundError(input.BodyModelID)
		}
		return nil, errors.NewStoreReadError("body model", err)
	}

	s.logger.Debug("body model loaded", map[string]interface{}{
		"bodyModelId": record.ID,
		"bodyType":    record.Model.BodyType,
	})

	return &Output{
		BodyModelID: record.ID,
		UserID:      record.UserID,
		BodyModel:   record.Model,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
		RetrievedAt: s.now(),
	}, nil
}
