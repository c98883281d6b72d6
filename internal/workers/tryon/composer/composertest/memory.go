// Package composertest provides in-memory stores for body model and try-on worker tests.
package composertest

import (
	"context"
	"sort"
	"sync"

	"bodyfit-workers/internal/models"
	"bodyfit-workers/internal/tryon"
)

// BodyModels is a map-backed models.BodyModelRepository that also lists and deletes.
// LinkedSessions sets how many sessions Delete reports per body model.
type BodyModels struct {
	mu             sync.Mutex
	Records        map[string]*models.BodyModelRecord
	LinkedSessions map[string]int64
	Err            error
}

func NewBodyModels(records ...*models.BodyModelRecord) *BodyModels {
	b := &BodyModels{Records: make(map[string]*models.BodyModelRecord)}
	for _, r := range records {
		b.Records[r.ID] = r
	}
	return b
}

func (b *BodyModels) Save(_ context.Context, record *models.BodyModelRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.Records[record.ID] = record
	return nil
}

func (b *BodyModels) Get(_ context.Context, id string) (*models.BodyModelRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	r, ok := b.Records[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// List orders by creation time, newest first.
func (b *BodyModels) List(_ context.Context, filter models.BodyModelFilter) ([]models.BodyModelSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}

	out := []models.BodyModelSummary{}
	for _, r := range b.Records {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		height := r.Model.Measurements.EstimatedHeight
		out = append(out, models.BodyModelSummary{
			ID:              r.ID,
			UserID:          r.UserID,
			BodyType:        r.Model.BodyType,
			EstimatedHeight: &height,
			CreatedAt:       r.CreatedAt,
			UpdatedAt:       r.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (b *BodyModels) Delete(_ context.Context, id string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return 0, b.Err
	}
	if _, ok := b.Records[id]; !ok {
		return 0, models.ErrNotFound
	}
	delete(b.Records, id)
	return b.LinkedSessions[id], nil
}

// Sessions is a map-backed models.TryOnSessionRepository. Stored sessions are
// copied so callers cannot mutate them in place.
type Sessions struct {
	mu       sync.Mutex
	Records  map[string]models.TryOnSession
	ReadErr  error
	WriteErr error
	Creates  int
	Updates  int
}

func NewSessions(sessions ...models.TryOnSession) *Sessions {
	s := &Sessions{Records: make(map[string]models.TryOnSession)}
	for _, sess := range sessions {
		s.Records[sess.ID] = sess
	}
	return s
}

func (s *Sessions) Create(_ context.Context, session *models.TryOnSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.Creates++
	s.Records[session.ID] = clone(*session)
	return nil
}

func (s *Sessions) Get(_ context.Context, id string) (*models.TryOnSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	sess, ok := s.Records[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := clone(sess)
	return &cp, nil
}

func (s *Sessions) Update(_ context.Context, session *models.TryOnSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	if _, ok := s.Records[session.ID]; !ok {
		return models.ErrNotFound
	}
	s.Updates++
	s.Records[session.ID] = clone(*session)
	return nil
}

func clone(s models.TryOnSession) models.TryOnSession {
	s.GarmentIDs = append([]string(nil), s.GarmentIDs...)
	return s
}

// Garments returns configured garments and the default record for unknown ids.
type Garments struct {
	Items map[string]tryon.Garment
	Err   error
}

func NewGarments(items ...tryon.Garment) *Garments {
	g := &Garments{Items: make(map[string]tryon.Garment)}
	for _, item := range items {
		g.Items[item.ID] = item
	}
	return g
}

func (g *Garments) Lookup(_ context.Context, id string) (tryon.Garment, error) {
	if g.Err != nil {
		return tryon.Garment{}, g.Err
	}
	if item, ok := g.Items[id]; ok {
		return item, nil
	}
	return tryon.DefaultGarment(id), nil
}
