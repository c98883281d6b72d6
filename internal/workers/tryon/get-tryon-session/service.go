package gettryonsession

import (
	"context"
	stderrors "errors"
	"time"

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
	now      func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		sessions: deps.Sessions,
		logger:   deps.Logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	session, err := s.sessions.Get(ctx, input.SessionID)
	if err != nil {
		if stderrors.Is(err, models.ErrNotFound) {
			return nil, errors.NewSessionNotFoundError(input.SessionID)
		}
		return nil, errors.NewStoreReadError("try-on session", err)
	}

	s.logger.Debug("try-on session loaded", map[string]interface{}{
		"sessionId":   session.ID,
		"bodyModelId": session.BodyModelID,
		"status":      session.Status,
	})

	return &Output{SessionID: session.ID, Session: *session, RetrievedAt: s.now()}, nil
}
