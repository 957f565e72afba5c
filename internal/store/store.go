package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/learnzy/learnzy/internal/errors"
	"github.com/learnzy/learnzy/internal/quiz"
	"github.com/learnzy/learnzy/internal/sqlite"
)

// snapshotVersion tags the serialized payload so a future schema change can
// migrate or discard old snapshots instead of misreading them.
const snapshotVersion = 1

// Store persists quiz snapshots and cumulative points for all devices.
// Bind it to a single device with ForDevice.
type Store struct {
	readWrite *sqlx.DB
	readOnly  *sqlx.DB
	logger    *slog.Logger
}

func New(db *sqlite.Database, logger *slog.Logger) *Store {
	return &Store{
		readWrite: sqlx.NewDb(db.ReadWrite, "sqlite3"),
		readOnly:  sqlx.NewDb(db.ReadOnly, "sqlite3"),
		logger:    logger.With("source", "store.Store"),
	}
}

// ForDevice binds the store to one device. The result implements [quiz.Store].
func (s *Store) ForDevice(deviceID string) *DeviceStore {
	return &DeviceStore{store: s, deviceID: deviceID}
}

// DeviceStore is the single-writer view of one device's persisted state.
type DeviceStore struct {
	store    *Store
	deviceID string
}

var _ quiz.Store = (*DeviceStore)(nil)

type snapshotRow struct {
	Version int    `db:"version"`
	Payload string `db:"payload"`
}

// SavedSession returns the persisted session for the device or nil when none
// exists. Snapshots with an unknown version tag are dropped and reported as
// absent so the client starts fresh instead of wedging.
func (d *DeviceStore) SavedSession(ctx context.Context) (*quiz.SavedSession, error) {
	var row snapshotRow
	stmt := `SELECT version, payload FROM quiz_snapshots WHERE device_id = ?`
	err := d.store.readOnly.GetContext(ctx, &row, stmt, d.deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read quiz snapshot", slog.String("deviceID", d.deviceID))
	}
	if row.Version != snapshotVersion {
		d.store.logger.LogAttrs(ctx, slog.LevelWarn, "dropping snapshot with unknown version",
			slog.Int("version", row.Version), slog.String("deviceID", d.deviceID))
		return nil, d.RemoveSession(ctx)
	}

	var saved quiz.SavedSession
	if err = json.Unmarshal([]byte(row.Payload), &saved); err != nil {
		return nil, errors.Wrap(err, "unmarshal quiz snapshot", slog.String("deviceID", d.deviceID))
	}
	return &saved, nil
}

// SaveSession writes the session snapshot, last-write-wins.
func (d *DeviceStore) SaveSession(ctx context.Context, session quiz.SavedSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "marshal quiz snapshot")
	}
	stmt := `INSERT INTO quiz_snapshots (device_id, version, payload, updated_at)
	VALUES (?, ?, ?, datetime('now'))
	ON CONFLICT (device_id) DO UPDATE SET
		version = excluded.version,
		payload = excluded.payload,
		updated_at = excluded.updated_at`
	if _, err = d.store.readWrite.ExecContext(ctx, stmt, d.deviceID, snapshotVersion, string(payload)); err != nil {
		return errors.Wrap(err, "write quiz snapshot", slog.String("deviceID", d.deviceID))
	}
	return nil
}

// RemoveSession deletes the device's snapshot. Removing an absent snapshot is not an error.
func (d *DeviceStore) RemoveSession(ctx context.Context) error {
	stmt := `DELETE FROM quiz_snapshots WHERE device_id = ?`
	if _, err := d.store.readWrite.ExecContext(ctx, stmt, d.deviceID); err != nil {
		return errors.Wrap(err, "remove quiz snapshot", slog.String("deviceID", d.deviceID))
	}
	return nil
}

// TotalPoints returns the device-wide cumulative score, zero for a new device.
func (d *DeviceStore) TotalPoints(ctx context.Context) (int, error) {
	var points int
	stmt := `SELECT points FROM device_points WHERE device_id = ?`
	err := d.store.readOnly.GetContext(ctx, &points, stmt, d.deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "read total points", slog.String("deviceID", d.deviceID))
	}
	return points, nil
}

// SetTotalPoints overwrites the device-wide cumulative score.
func (d *DeviceStore) SetTotalPoints(ctx context.Context, points int) error {
	stmt := `INSERT INTO device_points (device_id, points)
	VALUES (?, ?)
	ON CONFLICT (device_id) DO UPDATE SET points = excluded.points`
	if _, err := d.store.readWrite.ExecContext(ctx, stmt, d.deviceID, points); err != nil {
		return errors.Wrap(err, "write total points", slog.String("deviceID", d.deviceID))
	}
	return nil
}
