package history

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertPlay(t *testing.T, db *sql.DB, when time.Time, session, path, codec, backend string) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO plays (timestamp, session_id, path, codec, sample_rate, channels, frames, backend)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		when.Unix(), session, path, codec, 44100, 2, 1000, backend)
	require.NoError(t, err)
}

func TestListPlaysNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	insertPlay(t, db, now.Add(-2*time.Hour), "s1", "/old.wav", "WAV", "malgo")
	insertPlay(t, db, now.Add(-1*time.Hour), "s1", "/mid.mp3", "MP3", "malgo")
	insertPlay(t, db, now, "s1", "/new.wav", "WAV", "oto")

	records, err := ListPlays(db, QueryFilter{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "/new.wav", records[0].Path)
	assert.Equal(t, "/mid.mp3", records[1].Path)
	assert.Equal(t, "/old.wav", records[2].Path)
}

func TestListPlaysContentFilters(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	insertPlay(t, db, now, "s1", "/a.wav", "WAV", "malgo")
	insertPlay(t, db, now, "s2", "/b.mp3", "MP3", "oto")
	insertPlay(t, db, now, "s2", "/c.wav", "WAV", "oto")

	t.Run("by codec", func(t *testing.T) {
		records, err := ListPlays(db, QueryFilter{Codec: "MP3"})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "/b.mp3", records[0].Path)
	})

	t.Run("by backend", func(t *testing.T) {
		records, err := ListPlays(db, QueryFilter{Backend: "oto"})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("by session", func(t *testing.T) {
		records, err := ListPlays(db, QueryFilter{SessionID: "s1"})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "/a.wav", records[0].Path)
	})

	t.Run("by path", func(t *testing.T) {
		records, err := ListPlays(db, QueryFilter{Path: "/c.wav"})
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestListPlaysTimeFilters(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	insertPlay(t, db, now.AddDate(0, 0, -10), "s1", "/ancient.wav", "WAV", "malgo")
	insertPlay(t, db, now.Add(-time.Hour), "s1", "/recent.wav", "WAV", "malgo")

	t.Run("days window", func(t *testing.T) {
		records, err := ListPlays(db, QueryFilter{Days: 2})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "/recent.wav", records[0].Path)
	})

	t.Run("explicit since", func(t *testing.T) {
		since := now.AddDate(0, 0, -20)
		records, err := ListPlays(db, QueryFilter{Since: &since})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("all preset has no lower bound", func(t *testing.T) {
		records, err := ListPlays(db, QueryFilter{DatePreset: "all"})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func TestListPlaysLimitAndOffset(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	for i := 0; i < 30; i++ {
		insertPlay(t, db, now.Add(-time.Duration(i)*time.Minute), "s1", "/clip.wav", "WAV", "malgo")
	}

	t.Run("default limit", func(t *testing.T) {
		records, err := ListPlays(db, QueryFilter{})
		require.NoError(t, err)
		assert.Len(t, records, DefaultQueryLimit)
	})

	t.Run("explicit limit", func(t *testing.T) {
		records, err := ListPlays(db, QueryFilter{Limit: 5})
		require.NoError(t, err)
		assert.Len(t, records, 5)
	})

	t.Run("offset pagination", func(t *testing.T) {
		page1, err := ListPlays(db, QueryFilter{Limit: 10})
		require.NoError(t, err)
		page2, err := ListPlays(db, QueryFilter{Limit: 10, Offset: 10})
		require.NoError(t, err)

		require.Len(t, page2, 10)
		assert.True(t, page2[0].Timestamp.Before(page1[9].Timestamp.Add(time.Second)))
	})
}

func TestListPlaysNilDatabase(t *testing.T) {
	records, err := ListPlays(nil, QueryFilter{})

	assert.Nil(t, records)
	assert.Error(t, err)
}

func TestGetMostPlayed(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	for i := 0; i < 3; i++ {
		insertPlay(t, db, now, "s1", "/favorite.wav", "WAV", "malgo")
	}
	insertPlay(t, db, now, "s1", "/rare.mp3", "MP3", "malgo")

	results, err := GetMostPlayed(db, QueryFilter{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "/favorite.wav", results[0].Path)
	assert.Equal(t, 3, results[0].PlayCount)
	assert.Equal(t, "/rare.mp3", results[1].Path)
	assert.Equal(t, 1, results[1].PlayCount)
}

func TestParseDatePreset(t *testing.T) {
	// A Wednesday
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

	t.Run("today", func(t *testing.T) {
		start, end, err := ParseDatePreset("today", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, now, end)
	})

	t.Run("yesterday", func(t *testing.T) {
		start, end, err := ParseDatePreset("yesterday", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("week starts monday", func(t *testing.T) {
		start, _, err := ParseDatePreset("week", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Monday, start.Weekday())
	})

	t.Run("month", func(t *testing.T) {
		start, _, err := ParseDatePreset("month", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), start)
	})

	t.Run("all", func(t *testing.T) {
		start, end, err := ParseDatePreset("all", now)
		require.NoError(t, err)
		assert.True(t, start.IsZero())
		assert.Equal(t, now, end)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, _, err := ParseDatePreset("fortnight", now)
		assert.Error(t, err)
	})
}

func TestParseNaturalDate(t *testing.T) {
	t.Run("relative date", func(t *testing.T) {
		result, err := ParseNaturalDate("2 days ago")
		require.NoError(t, err)

		// Relative day expressions resolve to midnight of that day,
		// so compare calendar dates rather than instants.
		expected := time.Now().AddDate(0, 0, -2)
		assert.Equal(t, expected.Year(), result.Year())
		assert.Equal(t, expected.Month(), result.Month())
		assert.Equal(t, expected.Day(), result.Day())
	})

	t.Run("garbage input returns current time", func(t *testing.T) {
		// go-naturaldate is permissive and falls back to the base time
		result, err := ParseNaturalDate("blorp blorp")
		require.NoError(t, err)

		assert.NotZero(t, result)
		assert.WithinDuration(t, time.Now(), result, time.Minute)
	})
}
