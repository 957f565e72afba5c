package store

import (
	"context"
	"sync"

	"github.com/learnzy/learnzy/internal/errors"
	"github.com/learnzy/learnzy/internal/quiz"
)

// ErrUnavailable simulates a store that cannot accept writes, e.g. quota exceeded.
var ErrUnavailable = errors.NewSentinel("session store unavailable")

// Memory is an in-memory [quiz.Store] for tests and for running without a
// database. Set FailWrites to exercise the engine's best-effort persistence.
type Memory struct {
	mu         sync.Mutex
	saved      *quiz.SavedSession
	points     int
	FailWrites bool
}

var _ quiz.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SavedSession(_ context.Context) (*quiz.SavedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return nil, nil
	}
	saved := *m.saved
	return &saved, nil
}

func (m *Memory) SaveSession(_ context.Context, session quiz.SavedSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrUnavailable
	}
	m.saved = &session
	return nil
}

func (m *Memory) RemoveSession(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrUnavailable
	}
	m.saved = nil
	return nil
}

func (m *Memory) TotalPoints(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.points, nil
}

func (m *Memory) SetTotalPoints(_ context.Context, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrUnavailable
	}
	m.points = points
	return nil
}
