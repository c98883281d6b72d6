// Package pose adapts the external pose-estimation model behind a shared handle.
package pose

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"bodyfit-workers/internal/bodymodel/keypoints"
)

var (
	// ErrNoPoseDetected means the model found no person in the image. Callers must
	// treat it as a hard failure.
	ErrNoPoseDetected = errors.New("pose: no pose detected")

	// ErrModelReleased is returned after the last reference to a Model is released.
	ErrModelReleased = errors.New("pose: model released")
)

// Estimator returns the ordered skeleton landmarks for an encoded image.
type Estimator interface {
	Estimate(ctx context.Context, image []byte) ([]keypoints.SkeletalPoint, error)
}

// Model is the process-wide pose model handle. It is created once, shared read-only
// by every pipeline, and reference counted so the backing resource is released only
// after its last user.
type Model struct {
	est     Estimator
	mu      *sync.Mutex
	refs    atomic.Int64
	onClose func() error
}

type Option func(*Model)

// WithSerialization guards every Estimate call with a mutex for non-reentrant backends.
func WithSerialization() Option {
	return func(m *Model) { m.mu = &sync.Mutex{} }
}

// WithCloser registers fn to run when the last reference is released.
func WithCloser(fn func() error) Option {
	return func(m *Model) { m.onClose = fn }
}

// NewModel wraps est with one reference held by the caller.
func NewModel(est Estimator, opts ...Option) *Model {
	m := &Model{est: est}
	for _, opt := range opts {
		opt(m)
	}
	m.refs.Store(1)
	return m
}

// Acquire adds a reference. It fails once the handle has been fully released.
func (m *Model) Acquire() (*Model, error) {
	for {
		n := m.refs.Load()
		if n <= 0 {
			return nil, ErrModelReleased
		}
		if m.refs.CompareAndSwap(n, n+1) {
			return m, nil
		}
	}
}

// Release drops a reference and closes the backing resource on the last one.
func (m *Model) Release() error {
	n := m.refs.Add(-1)
	switch {
	case n == 0 && m.onClose != nil:
		return m.onClose()
	case n < 0:
		m.refs.Store(0)
		return ErrModelReleased
	}
	return nil
}

// Refs reports the live reference count.
func (m *Model) Refs() int64 {
	return m.refs.Load()
}

// Estimate runs the model. An empty result is reported as ErrNoPoseDetected.
func (m *Model) Estimate(ctx context.Context, image []byte) ([]keypoints.SkeletalPoint, error) {
	if m.refs.Load() <= 0 {
		return nil, ErrModelReleased
	}
	if m.mu != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
	}

	points, err := m.est.Estimate(ctx, image)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrNoPoseDetected
	}
	return points, nil
}
