package deletebodymodel

import (
	"context"
	stderrors "errors"
	"time"

	"bodyfit-workers/internal/common/errors"
	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/models"
)

type ServiceDependencies struct {
	Store  models.BodyModelDeleter
	Logger logger.Logger
}

type Service struct {
	config *Config
	store  models.BodyModelDeleter
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

// Execute removes the body model and every try-on session built on it.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	sessions, err := s.store.Delete(ctx, input.BodyModelID)
	if err != nil {
		if stderrors.Is(err, models.ErrNotFound) {
			return nil, errors.NewBodyModelNotFoundError(input.BodyModelID)
		}
		return nil, errors.NewStoreWriteError("body model", err)
	}

	s.logger.Info("body model deleted", map[string]interface{}{
		"bodyModelId":     input.BodyModelID,
		"sessionsDeleted": sessions,
	})

	return &Output{
		BodyModelID:     input.BodyModelID,
		Deleted:         true,
		SessionsDeleted: sessions,
		DeletedAt:       s.now(),
	}, nil
}
