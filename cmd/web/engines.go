package main

import (
	"log/slog"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/learnzy/learnzy/internal/quiz"
	"github.com/learnzy/learnzy/internal/store"
)

// engineRegistry hands out one engine per device so that all intents from the
// same device hit the same state machine. Engines are created lazily and kept
// for the lifetime of the process; the persisted snapshot covers restarts.
type engineRegistry struct {
	store  *store.Store
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.Mutex
	engines map[string]*quiz.Engine
}

func newEngineRegistry(st *store.Store, clk clock.Clock, logger *slog.Logger) *engineRegistry {
	return &engineRegistry{
		store:   st,
		clock:   clk,
		logger:  logger,
		engines: make(map[string]*quiz.Engine),
	}
}

func (r *engineRegistry) forDevice(deviceID string) *quiz.Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	engine, ok := r.engines[deviceID]
	if !ok {
		engine = quiz.NewEngine(r.store.ForDevice(deviceID), r.clock, r.logger)
		r.engines[deviceID] = engine
	}
	return engine
}
