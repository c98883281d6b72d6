package preparear

import (
	"context"
	stderrors "errors"

	"bodyfit-workers/internal/common/errors"
	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/models"
)

type ServiceDependencies struct {
	Sessions models.TryOnSessionRepository
	Logger   logger.Logger
}

type Service struct {
	config   *Config
	sessions models.TryOnSessionRepository
	logger   logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		sessions: deps.Sessions,
		logger:   deps.Logger,
	}
}

// Execute projects a stored session into render-ready AR data. Nothing is written.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	session, err := s.sessions.Get(ctx, input.SessionID)
	if err != nil {
		if stderrors.Is(err, models.ErrNotFound) {
			return nil, errors.NewSessionNotFoundError(input.SessionID)
		}
		return nil, errors.NewStoreReadError("try-on session", err)
	}

	ar := session.AR()
	s.logger.Debug("AR data prepared", map[string]interface{}{
		"sessionId":  session.ID,
		"garments":   len(session.GarmentIDs),
		"customPose": session.CustomPose != nil,
	})

	return &Output{SessionID: session.ID, ARData: ar}, nil
}
