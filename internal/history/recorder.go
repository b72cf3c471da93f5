package history

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// PlayRecord represents a single playback event
type PlayRecord struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id"`
	Path       string    `json:"path"`
	Codec      string    `json:"codec"`
	SampleRate int       `json:"sample_rate"`
	Channels   int       `json:"channels"`
	Frames     int       `json:"frames"`
	Backend    string    `json:"backend"`
}

// Recorder writes playback events to the history database.
// A recorder that hits a database error disables itself so playback
// is never blocked by history bookkeeping.
type Recorder struct {
	db        *sql.DB
	sessionID string
	disabled  bool
}

// NewRecorder creates a recorder with a fresh session id
func NewRecorder(db *sql.DB) *Recorder {
	sessionID := uuid.NewString()
	slog.Debug("creating history recorder", "session_id", sessionID)
	return &Recorder{
		db:        db,
		sessionID: sessionID,
	}
}

// NewRecorderWithSession creates a recorder bound to an existing session id
func NewRecorderWithSession(db *sql.DB, sessionID string) *Recorder {
	return &Recorder{
		db:        db,
		sessionID: sessionID,
	}
}

// SessionID returns the session id this recorder writes under
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// RecordPlay writes a playback event to the database
func (r *Recorder) RecordPlay(record PlayRecord) {
	if r.disabled {
		return
	}

	timestamp := record.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO plays (timestamp, session_id, path, codec, sample_rate, channels, frames, backend)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		timestamp.Unix(),
		r.sessionID,
		record.Path,
		record.Codec,
		record.SampleRate,
		record.Channels,
		record.Frames,
		record.Backend,
	)
	if err != nil {
		slog.Warn("history failed to record play, disabling recorder", "error", err, "path", record.Path)
		r.disabled = true
		return
	}

	slog.Debug("history recorded play",
		"session_id", r.sessionID,
		"path", record.Path,
		"codec", record.Codec,
		"frames", record.Frames)
}
