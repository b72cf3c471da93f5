package history

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/tj/go-naturaldate"
)

// QueryFilter narrows history queries
type QueryFilter struct {
	// Time filters (priority order: DatePreset > Since/Until > Days)
	Since      *time.Time // Start of time range (inclusive)
	Until      *time.Time // End of time range (exclusive)
	Days       int        // Convenience: last N days
	DatePreset string     // Convenience: "today", "yesterday", "week", "month", "all"

	// Content filters
	Path      string // Filter by played file path
	Codec     string // Filter by codec name
	Backend   string // Filter by backend name
	SessionID string // Filter by specific session

	// Output control
	Limit  int // Maximum results (0 = default of 20)
	Offset int // For pagination
}

// DefaultQueryLimit applies when QueryFilter.Limit is 0
const DefaultQueryLimit = 20

// timeRange converts the filter's time options to Unix timestamps
func (q *QueryFilter) timeRange(now time.Time) (startUnix, endUnix int64) {
	slog.Debug("applying time filter", "days", q.Days, "date_preset", q.DatePreset)

	endUnix = now.Unix()

	if q.DatePreset != "" {
		start, end, err := ParseDatePreset(q.DatePreset, now)
		if err != nil {
			slog.Warn("invalid date preset, using no time filter", "preset", q.DatePreset, "error", err)
			return 0, endUnix
		}
		return start.Unix(), end.Unix()
	}

	if q.Since != nil && q.Until != nil {
		return q.Since.Unix(), q.Until.Unix()
	}
	if q.Since != nil {
		return q.Since.Unix(), endUnix
	}
	if q.Until != nil {
		return 0, q.Until.Unix()
	}

	if q.Days > 0 {
		return now.AddDate(0, 0, -q.Days).Unix(), endUnix
	}

	return 0, endUnix
}

// buildSelect constructs the SELECT statement for this filter
func (q *QueryFilter) buildSelect(now time.Time) (string, []interface{}) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("id", "timestamp", "session_id", "path", "codec", "sample_rate", "channels", "frames", "backend")
	sb.From("plays")

	if q.DatePreset != "" || q.Since != nil || q.Until != nil || q.Days > 0 {
		startUnix, endUnix := q.timeRange(now)
		if startUnix > 0 {
			sb.Where(sb.GreaterEqualThan("timestamp", startUnix))
		}
		sb.Where(sb.LessEqualThan("timestamp", endUnix))
	}

	if q.Path != "" {
		sb.Where(sb.Equal("path", q.Path))
	}
	if q.Codec != "" {
		sb.Where(sb.Equal("codec", q.Codec))
	}
	if q.Backend != "" {
		sb.Where(sb.Equal("backend", q.Backend))
	}
	if q.SessionID != "" {
		sb.Where(sb.Equal("session_id", q.SessionID))
	}

	sb.OrderBy("timestamp").Desc()

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	sb.Limit(limit)

	if q.Offset > 0 {
		sb.Offset(q.Offset)
	}

	query, args := sb.Build()
	slog.Debug("built history query", "query", query, "arg_count", len(args))
	return query, args
}

// ListPlays queries the database for playback events matching the filter
func ListPlays(db *sql.DB, filter QueryFilter) ([]PlayRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query, args := filter.buildSelect(time.Now())

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query play history: %w", err)
	}
	defer rows.Close()

	var results []PlayRecord
	for rows.Next() {
		var record PlayRecord
		var unix int64
		err := rows.Scan(
			&record.ID,
			&unix,
			&record.SessionID,
			&record.Path,
			&record.Codec,
			&record.SampleRate,
			&record.Channels,
			&record.Frames,
			&record.Backend,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play record: %w", err)
		}
		record.Timestamp = time.Unix(unix, 0)
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read play history: %w", err)
	}

	slog.Debug("listed play history", "count", len(results))
	return results, nil
}

// MostPlayed summarizes how often each path was played
type MostPlayed struct {
	Path      string `json:"path"`
	PlayCount int    `json:"play_count"`
}

// GetMostPlayed queries the database for the most frequently played paths
func GetMostPlayed(db *sql.DB, filter QueryFilter) ([]MostPlayed, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("path", "COUNT(*) AS play_count")
	sb.From("plays")

	if filter.DatePreset != "" || filter.Since != nil || filter.Until != nil || filter.Days > 0 {
		startUnix, endUnix := filter.timeRange(time.Now())
		if startUnix > 0 {
			sb.Where(sb.GreaterEqualThan("timestamp", startUnix))
		}
		sb.Where(sb.LessEqualThan("timestamp", endUnix))
	}
	if filter.Backend != "" {
		sb.Where(sb.Equal("backend", filter.Backend))
	}
	if filter.SessionID != "" {
		sb.Where(sb.Equal("session_id", filter.SessionID))
	}

	sb.GroupBy("path")
	sb.OrderBy("play_count").Desc()

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	sb.Limit(limit)

	query, args := sb.Build()

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query most played: %w", err)
	}
	defer rows.Close()

	var results []MostPlayed
	for rows.Next() {
		var entry MostPlayed
		if err := rows.Scan(&entry.Path, &entry.PlayCount); err != nil {
			return nil, fmt.Errorf("failed to scan most played entry: %w", err)
		}
		results = append(results, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read most played: %w", err)
	}

	return results, nil
}

// ParseDatePreset converts date preset strings to time ranges
func ParseDatePreset(preset string, now time.Time) (start, end time.Time, err error) {
	slog.Debug("parsing date preset", "preset", preset)

	switch preset {
	case "today":
		start = beginningOfDay(now)
		end = now
	case "yesterday":
		yesterday := now.AddDate(0, 0, -1)
		start = beginningOfDay(yesterday)
		end = beginningOfDay(now)
	case "week", "this-week":
		start = beginningOfWeek(now)
		end = now
	case "last-week":
		start = beginningOfWeek(now).AddDate(0, 0, -7)
		end = beginningOfWeek(now)
	case "month", "this-month":
		start = beginningOfMonth(now)
		end = now
	case "last-month":
		start = beginningOfMonth(now).AddDate(0, -1, 0)
		end = beginningOfMonth(now)
	case "all", "all-time":
		start = time.Time{} // Zero value = no lower bound
		end = now
	default:
		err = fmt.Errorf("unknown preset: %s", preset)
		slog.Error("invalid date preset", "preset", preset)
		return
	}

	slog.Debug("parsed date preset", "preset", preset, "start", start, "end", end)
	return
}

// ParseNaturalDate parses natural language dates like "2 days ago".
// The underlying parser is permissive: unrecognized input falls back to
// the current time rather than an error.
func ParseNaturalDate(naturalDate string) (time.Time, error) {
	slog.Debug("parsing natural language date", "input", naturalDate)

	result, err := naturaldate.Parse(naturalDate, time.Now())
	if err != nil {
		slog.Warn("failed to parse natural language date", "input", naturalDate, "error", err)
		return time.Time{}, fmt.Errorf("failed to parse natural date '%s': %w", naturalDate, err)
	}

	slog.Debug("parsed natural language date", "input", naturalDate, "result", result)
	return result, nil
}

// beginningOfDay returns time at start of day (00:00:00)
func beginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// beginningOfWeek returns time at start of week (Monday 00:00:00)
func beginningOfWeek(t time.Time) time.Time {
	weekday := t.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	monday := t.AddDate(0, 0, -int(weekday-1))
	return beginningOfDay(monday)
}

// beginningOfMonth returns time at start of month (1st day 00:00:00)
func beginningOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
