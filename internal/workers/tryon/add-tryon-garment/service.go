package addtryongarment

import (
	"context"
	"time"

	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/workers/tryon/composer"
)

type ServiceDependencies struct {
	Composer *composer.Composer
	Logger   logger.Logger
}

type Service struct {
	config   *Config
	composer *composer.Composer
	logger   logger.Logger
	now      func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		composer: deps.Composer,
		logger:   deps.Logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Execute appends the garment and recomposes the session. A garment already in the
// session leaves it untouched.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	session, err := s.composer.LoadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if !session.AddGarment(input.GarmentID) {
		s.logger.Debug("garment already in session", map[string]interface{}{
			"sessionId": session.ID,
			"garmentId": input.GarmentID,
		})
		return &Output{
			SessionID:   session.ID,
			GarmentIDs:  session.GarmentIDs,
			TryOnResult: session.Result,
			UpdatedAt:   session.UpdatedAt,
		}, nil
	}

	record, err := s.composer.LoadBodyModel(ctx, session.BodyModelID)
	if err != nil {
		return nil, err
	}

	result, err := s.composer.Compose(ctx, record, session.GarmentIDs)
	if err != nil {
		return nil, err
	}
	session.Recompose(result, s.now())

	if err := s.composer.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	return &Output{
		SessionID:   session.ID,
		GarmentIDs:  session.GarmentIDs,
		Added:       true,
		TryOnResult: session.Result,
		UpdatedAt:   session.UpdatedAt,
	}, nil
}
