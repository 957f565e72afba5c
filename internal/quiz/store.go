package quiz

import (
	"context"

	"github.com/learnzy/learnzy/internal/models"
)

// SavedSession is what the engine persists between reloads. The difficulty rides
// along with the snapshot so that a resumed session keeps awarding the points the
// player signed up for.
type SavedSession struct {
	Snapshot   models.SessionSnapshot `json:"snapshot"`
	Difficulty models.Difficulty      `json:"difficulty"`
}

// Store is the durable key-value persistence for one device. Writes are
// last-write-wins and best-effort: the engine keeps operating in memory when a
// write fails, resumption is simply not available after a reload.
type Store interface {
	// SavedSession returns the persisted session or nil when none exists.
	SavedSession(ctx context.Context) (*SavedSession, error)
	SaveSession(ctx context.Context, session SavedSession) error
	RemoveSession(ctx context.Context) error

	// TotalPoints is the device-wide cumulative score across all sessions.
	// It is incremented only on correct answers and never reset.
	TotalPoints(ctx context.Context) (int, error)
	SetTotalPoints(ctx context.Context, points int) error
}
