package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/learnzy/learnzy/internal/errors"
	"github.com/learnzy/learnzy/internal/models"
)

// State of the quiz session state machine.
type State string

const (
	StateIdle      State = "idle"
	StateActive    State = "active"
	StateCompleted State = "completed"
)

const (
	// StartingLives is the number of lives for a freshly started session.
	StartingLives = 5
	// idleLives is the legacy reset value applied when a session is closed.
	// It differs from StartingLives on purpose, see DESIGN.md.
	idleLives = 3
	// AdvanceDelay is how long answer feedback stays on screen before the
	// session moves to the next question or completes.
	AdvanceDelay = 1500 * time.Millisecond
)

var (
	// ErrInvalidState is the base error for intents that arrive in a state that
	// does not permit them. Specific rejections wrap it so callers can match
	// either the group or the exact cause.
	ErrInvalidState = errors.NewSentinel("invalid session state")

	ErrNoSession        = fmt.Errorf("%w: no active session", ErrInvalidState)
	ErrSessionCompleted = fmt.Errorf("%w: session already completed", ErrInvalidState)
	ErrSessionActive    = fmt.Errorf("%w: session already in progress", ErrInvalidState)
	ErrAwaitingAdvance  = fmt.Errorf("%w: awaiting advance to next question", ErrInvalidState)
	ErrEmptyAnswer      = fmt.Errorf("%w: empty answer", ErrInvalidState)

	ErrEmptyQuestionSet = errors.NewSentinel("question set is empty")
)

// AnswerResult is the feedback for one answer submission.
type AnswerResult struct {
	IsCorrect     bool   `json:"isCorrect"`
	PointsAwarded int    `json:"pointsAwarded"`
	CorrectAnswer string `json:"correctAnswer"`
	Score         int    `json:"score"`
	Lives         int    `json:"lives"`
}

// Engine drives one device's quiz session through answer submission, scoring,
// life loss, completion, persistence and resumption.
//
// All intents are serialized with a mutex. The deferred advance after an answer
// is an explicit awaiting-advance sub-state armed through the injected clock, so
// a second submission during the feedback window is rejected instead of
// double-scoring, and tests can drive the delay with a mock clock.
type Engine struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger

	mu              sync.Mutex
	state           State
	awaitingAdvance bool
	advanceTimer    *clock.Timer
	difficulty      models.Difficulty
	snapshot        models.SessionSnapshot
}

// NewEngine creates an idle engine bound to one device's store.
func NewEngine(store Store, clk clock.Clock, logger *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		clock:    clk,
		logger:   logger.With("source", "quiz.Engine"),
		state:    StateIdle,
		snapshot: idleSnapshot(),
	}
}

func idleSnapshot() models.SessionSnapshot {
	return models.SessionSnapshot{
		Questions:    nil,
		CurrentIndex: 0,
		Score:        0,
		Lives:        idleLives,
		Completed:    false,
	}
}

// Start begins a new session over the given question set, replacing any
// previous session on this device.
func (e *Engine) Start(ctx context.Context, questions models.QuestionSet, difficulty models.Difficulty) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.awaitingAdvance {
		return ErrAwaitingAdvance
	}
	if len(questions) == 0 {
		return errors.Wrap(ErrEmptyQuestionSet, "start session")
	}
	if err := questions.Validate(); err != nil {
		return errors.Wrap(err, "start session")
	}

	e.snapshot = models.SessionSnapshot{
		Questions:    questions,
		CurrentIndex: 0,
		Score:        0,
		Lives:        StartingLives,
		Completed:    false,
	}
	e.difficulty = difficulty
	e.state = StateActive
	e.persist(ctx)
	return nil
}

// Submit checks the selected answer against the current question, applies
// scoring or life loss, persists the snapshot and arms the deferred advance.
func (e *Engine) Submit(ctx context.Context, selected string) (AnswerResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result AnswerResult
	switch e.state {
	case StateActive:
	case StateCompleted:
		return result, ErrSessionCompleted
	case StateIdle:
		return result, ErrNoSession
	default:
		return result, ErrNoSession
	}
	if e.awaitingAdvance {
		return result, ErrAwaitingAdvance
	}
	if strings.TrimSpace(selected) == "" {
		return result, ErrEmptyAnswer
	}
	question, ok := e.snapshot.CurrentQuestion()
	if !ok {
		return result, fmt.Errorf("%w: no current question", ErrInvalidState)
	}

	result.IsCorrect = question.Matches(selected)
	result.CorrectAnswer = question.CorrectAnswer
	if result.IsCorrect {
		result.PointsAwarded = PointsFor(e.difficulty)
		e.snapshot.Score += result.PointsAwarded
		e.addTotalPoints(ctx, result.PointsAwarded)
	} else {
		e.snapshot.Lives--
	}
	result.Score = e.snapshot.Score
	result.Lives = e.snapshot.Lives

	// Compute, persist, then schedule: the persisted snapshot always matches
	// the in-memory one, and the advance decision below reads the same
	// post-update lives value.
	e.persist(ctx)
	e.awaitingAdvance = true
	e.advanceTimer = e.clock.AfterFunc(AdvanceDelay, func() {
		e.advance(context.Background())
	})
	return result, nil
}

// advance is the deferred tick after answer feedback. It either moves the
// cursor to the next question or completes the session.
func (e *Engine) advance(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.awaitingAdvance || e.state != StateActive {
		return
	}
	e.awaitingAdvance = false

	if e.snapshot.Lives > 0 && e.snapshot.CurrentIndex < len(e.snapshot.Questions)-1 {
		e.snapshot.CurrentIndex++
	} else {
		e.snapshot.Completed = true
		e.state = StateCompleted
	}
	e.persist(ctx)
}

// Close ends the session, removes the persisted snapshot and returns the engine
// to idle. Closing an active session is treated as abandoning it.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateIdle {
		return ErrNoSession
	}
	if e.advanceTimer != nil {
		e.advanceTimer.Stop()
		e.advanceTimer = nil
	}
	e.awaitingAdvance = false
	if err := e.store.RemoveSession(ctx); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "remove saved session", errors.SlogError(err))
	}
	e.snapshot = idleSnapshot()
	e.difficulty = ""
	e.state = StateIdle
	return nil
}

// Resume loads the persisted snapshot verbatim and reactivates the session.
// It reports false without error when no resumable snapshot exists.
func (e *Engine) Resume(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return false, ErrSessionActive
	}
	saved, err := e.loadResumable(ctx)
	if err != nil {
		return false, errors.Wrap(err, "resume session")
	}
	if saved == nil {
		return false, nil
	}
	e.snapshot = saved.Snapshot
	e.difficulty = saved.Difficulty
	e.state = StateActive
	return true, nil
}

// HasResumable reports whether an unfinished session is waiting on this device.
// A leftover completed snapshot is purged on sight, the way the original app
// cleared finished quests on page load.
func (e *Engine) HasResumable(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return false, nil
	}
	saved, err := e.loadResumable(ctx)
	if err != nil {
		return false, errors.Wrap(err, "check resumable session")
	}
	return saved != nil, nil
}

// loadResumable fetches the saved session and filters out completed or corrupt
// snapshots, removing them from the store. Callers must hold the mutex.
func (e *Engine) loadResumable(ctx context.Context) (*SavedSession, error) {
	saved, err := e.store.SavedSession(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load saved session")
	}
	if saved == nil {
		return nil, nil
	}
	if saved.Snapshot.Completed || !validSnapshot(saved.Snapshot) {
		if err = e.store.RemoveSession(ctx); err != nil {
			e.logger.LogAttrs(ctx, slog.LevelWarn, "purge saved session", errors.SlogError(err))
		}
		return nil, nil
	}
	return saved, nil
}

func validSnapshot(s models.SessionSnapshot) bool {
	return len(s.Questions) > 0 &&
		s.Questions.Validate() == nil &&
		s.CurrentIndex >= 0 && s.CurrentIndex < len(s.Questions) &&
		s.Score >= 0 &&
		s.Lives > 0 && s.Lives <= StartingLives
}

// TotalPoints returns the device-wide cumulative score.
func (e *Engine) TotalPoints(ctx context.Context) (int, error) {
	points, err := e.store.TotalPoints(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "read total points")
	}
	return points, nil
}

// persist writes the snapshot best-effort. A failed write must not fail the
// in-memory transition, it only makes resumption unavailable after a reload.
func (e *Engine) persist(ctx context.Context) {
	saved := SavedSession{
		Snapshot:   e.snapshot,
		Difficulty: e.difficulty,
	}
	if err := e.store.SaveSession(ctx, saved); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "persist snapshot", errors.SlogError(err))
	}
}

// addTotalPoints bumps the device-wide score best-effort.
func (e *Engine) addTotalPoints(ctx context.Context, delta int) {
	total, err := e.store.TotalPoints(ctx)
	if err == nil {
		err = e.store.SetTotalPoints(ctx, total+delta)
	}
	if err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "persist total points", errors.SlogError(err))
	}
}

// QuestionView is the presentation projection of the current question. The
// correct answer is deliberately absent.
type QuestionView struct {
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Tag     string   `json:"tag"`
}

// View is a read-only projection of the engine state for the presentation layer.
type View struct {
	State           State             `json:"state"`
	Difficulty      models.Difficulty `json:"difficulty,omitempty"`
	Score           int               `json:"score"`
	Lives           int               `json:"lives"`
	QuestionCount   int               `json:"questionCount"`
	Question        *QuestionView     `json:"question,omitempty"`
	AwaitingAdvance bool              `json:"awaitingAdvance"`
}

// View returns the current projection.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := View{
		State:           e.state,
		Difficulty:      e.difficulty,
		Score:           e.snapshot.Score,
		Lives:           e.snapshot.Lives,
		QuestionCount:   len(e.snapshot.Questions),
		Question:        nil,
		AwaitingAdvance: e.awaitingAdvance,
	}
	if e.state == StateActive {
		if question, ok := e.snapshot.CurrentQuestion(); ok {
			view.Question = &QuestionView{
				Number:  e.snapshot.CurrentIndex + 1,
				Text:    question.Text,
				Options: question.Options,
				Tag:     question.Tag,
			}
		}
	}
	return view
}
