package listbodymodels

import (
	"context"

	"bodyfit-workers/internal/common/errors"
	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/models"
)

type ServiceDependencies struct {
	Lister models.BodyModelLister
	Logger logger.Logger
}

type Service struct {
	config *Config
	lister models.BodyModelLister
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		lister: deps.Lister,
		logger: deps.Logger,
	}
}

// Execute lists stored body models, newest first. A zero limit falls back to the configured default.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	summaries, err := s.lister.List(ctx, models.BodyModelFilter{UserID: input.UserID, Limit: limit})
	if err != nil {
		return nil, errors.NewStoreReadError("body models", err)
	}
	if summaries == nil {
		summaries = []models.BodyModelSummary{}
	}

	s.logger.Debug("body models listed", map[string]interface{}{
		"userId": input.UserID,
		"limit":  limit,
		"count":  len(summaries),
	})

	return &Output{BodyModels: summaries, Count: len(summaries)}, nil
}
