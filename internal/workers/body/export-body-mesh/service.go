package exportbodymesh

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
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
	format := strings.ToLower(input.Format)
	if format != "obj" {
		return nil, errors.NewUnsupportedExportFormatError(input.Format)
	}

	record, err := s.store.Get(ctx, input.BodyModelID)
	if err != nil {
		if stderrors.Is(err, models.ErrNotFound) {
			return nil, errors.NewBodyModelNotFoundError(input.BodyModelID)
		}
		return nil, errors.NewStoreReadError("body model", err)
	}

	m := record.Model.Mesh
	if len(m.Vertices) == 0 {
		return nil, errors.NewValidationError(fmt.Sprintf("body model %s has no mesh data", record.ID))
	}
	if !m.Valid() {
		return nil, errors.NewInternalError(fmt.Errorf("body model %s has faces referencing missing vertices", record.ID))
	}

	return &Output{
		BodyModelID: record.ID,
		Format:      format,
		FileName:    fmt.Sprintf("%s_body.%s", record.ID, format),
		Content:     m.OBJ(),
		VertexCount: len(m.Vertices),
		FaceCount:   len(m.Faces),
		Bounds:      m.Bounds(),
		ExportedAt:  s.now(),
	}, nil
}
