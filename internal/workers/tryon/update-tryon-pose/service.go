package updatetryonpose

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

// Execute switches the session pose and recomposes it. A custom pose is kept on the
// session only; the stored body model is not modified.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	session, err := s.composer.LoadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	record, err := s.composer.LoadBodyModel(ctx, session.BodyModelID)
	if err != nil {
		return nil, err
	}

	session.PoseType = input.PoseType
	if input.CustomPose != nil {
		session.CustomPose = input.CustomPose
		record.Model.Pose = *input.CustomPose
	}

	result, err := s.composer.Compose(ctx, record, session.GarmentIDs)
	if err != nil {
		return nil, err
	}
	session.Recompose(result, s.now())

	if err := s.composer.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("try-on pose updated", map[string]interface{}{
		"sessionId":  session.ID,
		"poseType":   session.PoseType,
		"customPose": session.CustomPose != nil,
	})

	return &Output{
		SessionID:   session.ID,
		PoseType:    session.PoseType,
		CustomPose:  session.CustomPose,
		TryOnResult: session.Result,
		UpdatedAt:   session.UpdatedAt,
	}, nil
}
