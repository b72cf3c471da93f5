package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecorderGeneratesSessionID(t *testing.T) {
	db := setupTestDB(t)

	first := NewRecorder(db)
	second := NewRecorder(db)

	assert.NotEmpty(t, first.SessionID())
	assert.NotEmpty(t, second.SessionID())
	assert.NotEqual(t, first.SessionID(), second.SessionID())
}

func TestRecorderRecordPlay(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewRecorderWithSession(db, "test-session")

	recorder.RecordPlay(PlayRecord{
		Path:       "/sounds/clip.wav",
		Codec:      "WAV",
		SampleRate: 44100,
		Channels:   2,
		Frames:     88200,
		Backend:    "malgo",
	})

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM plays WHERE session_id = ?", "test-session").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var path, codec, backend string
	var rate, channels, frames int
	err = db.QueryRow(
		"SELECT path, codec, sample_rate, channels, frames, backend FROM plays WHERE session_id = ?",
		"test-session").Scan(&path, &codec, &rate, &channels, &frames, &backend)
	require.NoError(t, err)

	assert.Equal(t, "/sounds/clip.wav", path)
	assert.Equal(t, "WAV", codec)
	assert.Equal(t, 44100, rate)
	assert.Equal(t, 2, channels)
	assert.Equal(t, 88200, frames)
	assert.Equal(t, "malgo", backend)
}

func TestRecorderUsesExplicitTimestamp(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewRecorderWithSession(db, "ts-session")

	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recorder.RecordPlay(PlayRecord{
		Timestamp: when,
		Path:      "/a.wav",
		Codec:     "WAV",
		Backend:   "oto",
	})

	var unix int64
	err := db.QueryRow("SELECT timestamp FROM plays WHERE session_id = ?", "ts-session").Scan(&unix)
	require.NoError(t, err)
	assert.Equal(t, when.Unix(), unix)
}

func TestRecorderDisablesItselfOnError(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewRecorderWithSession(db, "broken-session")

	// Break the recorder's database
	require.NoError(t, db.Close())

	// First write fails silently and disables the recorder
	recorder.RecordPlay(PlayRecord{Path: "/a.wav", Codec: "WAV", Backend: "oto"})
	assert.True(t, recorder.disabled)

	// Subsequent writes are no-ops
	recorder.RecordPlay(PlayRecord{Path: "/b.wav", Codec: "WAV", Backend: "oto"})
}
