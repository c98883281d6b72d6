package createtryonsession

import (
	"context"
	"time"

	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/models"
	"bodyfit-workers/internal/workers/tryon/composer"

	"github.com/google/uuid"
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
	newID    func() string
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		composer: deps.Composer,
		logger:   deps.Logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	record, err := s.composer.LoadBodyModel(ctx, input.BodyModelID)
	if err != nil {
		return nil, err
	}

	garmentIDs := dedupe(input.GarmentIDs)
	result, err := s.composer.Compose(ctx, record, garmentIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &models.TryOnSession{
		ID:          s.newID(),
		BodyModelID: record.ID,
		GarmentIDs:  garmentIDs,
		PoseType:    input.PoseType,
		Lighting:    input.Lighting,
		Status:      models.SessionStatusInitialized,
		Result:      result,
		Summary: models.BodySummary{
			BodyType:     result.BodyType,
			Measurements: record.Model.Measurements.Real,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.composer.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("try-on session created", map[string]interface{}{
		"sessionId":   session.ID,
		"bodyModelId": session.BodyModelID,
		"garments":    len(session.GarmentIDs),
		"bodyType":    result.BodyType,
	})

	return &Output{
		SessionID:   session.ID,
		Status:      session.Status,
		GarmentIDs:  session.GarmentIDs,
		TryOnResult: session.Result,
		Summary:     session.Summary,
	}, nil
}

// dedupe drops repeated ids, keeping first occurrences in order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
