// Package drivelog persists per-interval scalar telemetry for each drive
// session to sqlite. Geometry is never persisted; the log exists for
// after-the-fact review of speed and engagement state.
package drivelog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB wraps the sqlite handle for the drive log.
type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the drive log database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open drive log: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id        TEXT PRIMARY KEY,
			started_at_ns     BIGINT,
			ended_at_ns       BIGINT
		);
		CREATE TABLE IF NOT EXISTS ticks (
			session_id        TEXT,
			tick              BIGINT,
			speed_mps         DOUBLE,
			steering_deg      DOUBLE,
			status            TEXT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(session_id) REFERENCES sessions(session_id)
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("create drive log schema: %w", err)
	}

	return &DB{db}, nil
}

// StartSession inserts a new session row and returns its generated ID.
func (db *DB) StartSession(startedAt time.Time) (string, error) {
	sessionID := uuid.New().String()
	_, err := db.Exec("INSERT INTO sessions (session_id, started_at_ns) VALUES (?, ?)",
		sessionID, startedAt.UnixNano())
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return sessionID, nil
}

// EndSession stamps the session's end time.
func (db *DB) EndSession(sessionID string, endedAt time.Time) error {
	_, err := db.Exec("UPDATE sessions SET ended_at_ns = ? WHERE session_id = ?",
		endedAt.UnixNano(), sessionID)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// RecordTick appends one scalar telemetry row for the session.
func (db *DB) RecordTick(sessionID string, tick uint64, speedMPS, steeringDeg float64, status string) error {
	_, err := db.Exec(
		"INSERT INTO ticks (session_id, tick, speed_mps, steering_deg, status) VALUES (?, ?, ?, ?, ?)",
		sessionID, int64(tick), speedMPS, steeringDeg, status)
	if err != nil {
		return fmt.Errorf("record tick: %w", err)
	}
	return nil
}

// SessionSummary aggregates a session's recorded ticks.
type SessionSummary struct {
	SessionID string  `json:"session_id"`
	TickCount int64   `json:"tick_count"`
	MaxSpeed  float64 `json:"max_speed_mps"`
	AvgSpeed  float64 `json:"avg_speed_mps"`
}

// Summarize returns aggregate statistics for one session.
func (db *DB) Summarize(sessionID string) (*SessionSummary, error) {
	row := db.QueryRow(`
		SELECT COUNT(*), COALESCE(MAX(speed_mps), 0), COALESCE(AVG(speed_mps), 0)
		FROM ticks WHERE session_id = ?`, sessionID)

	s := SessionSummary{SessionID: sessionID}
	if err := row.Scan(&s.TickCount, &s.MaxSpeed, &s.AvgSpeed); err != nil {
		return nil, fmt.Errorf("summarize session: %w", err)
	}
	return &s, nil
}
