// Package composer holds the load-compose-save steps shared by the try-on workers.
// Every returned error is already a StandardError.
package composer

import (
	"context"
	stderrors "errors"

	"bodyfit-workers/internal/common/errors"
	"bodyfit-workers/internal/common/metrics"
	"bodyfit-workers/internal/models"
	"bodyfit-workers/internal/tryon"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentLookups = 4

// GarmentSource resolves analysed garments; a missing analysis is not an error.
type GarmentSource interface {
	Lookup(ctx context.Context, garmentID string) (tryon.Garment, error)
}

type Composer struct {
	bodyModels models.BodyModelRepository
	sessions   models.TryOnSessionRepository
	garments   GarmentSource
}

func New(bodyModels models.BodyModelRepository, sessions models.TryOnSessionRepository, garments GarmentSource) *Composer {
	return &Composer{bodyModels: bodyModels, sessions: sessions, garments: garments}
}

func (c *Composer) LoadBodyModel(ctx context.Context, id string) (*models.BodyModelRecord, error) {
	record, err := c.bodyModels.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, models.ErrNotFound) {
			return nil, errors.NewBodyModelNotFoundError(id)
		}
		return nil, errors.NewStoreReadError("body model", err)
	}
	return record, nil
}

func (c *Composer) LoadSession(ctx context.Context, id string) (*models.TryOnSession, error) {
	session, err := c.sessions.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, models.ErrNotFound) {
			return nil, errors.NewSessionNotFoundError(id)
		}
		return nil, errors.NewStoreReadError("try-on session", err)
	}
	return session, nil
}

// Garments looks up the ids concurrently; the result keeps the caller's order.
func (c *Composer) Garments(ctx context.Context, ids []string) ([]tryon.Garment, error) {
	out := make([]tryon.Garment, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			garment, err := c.garments.Lookup(gctx, id)
			if err != nil {
				return errors.NewGarmentLookupError(id, err)
			}
			out[i] = garment
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Compose fits the garments to the record's body model and records fit scores.
func (c *Composer) Compose(ctx context.Context, record *models.BodyModelRecord, garmentIDs []string) (tryon.Composition, error) {
	garments, err := c.Garments(ctx, garmentIDs)
	if err != nil {
		return tryon.Composition{}, err
	}

	result := tryon.Compose(record.Model, garments)
	for _, fit := range result.FitAnalysis {
		metrics.GarmentFitScore.WithLabelValues(string(result.BodyType)).Observe(fit.FitScore)
	}
	return result, nil
}

func (c *Composer) CreateSession(ctx context.Context, session *models.TryOnSession) error {
	if err := c.sessions.Create(ctx, session); err != nil {
		return errors.NewStoreWriteError("try-on session", err)
	}
	return nil
}

func (c *Composer) UpdateSession(ctx context.Context, session *models.TryOnSession) error {
	if err := c.sessions.Update(ctx, session); err != nil {
		if stderrors.Is(err, models.ErrNotFound) {
			return errors.NewSessionNotFoundError(session.ID)
		}
		return errors.NewStoreWriteError("try-on session", err)
	}
	return nil
}
