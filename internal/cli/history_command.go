package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"pcmbox.click/internal/history"
)

// newHistoryCommand creates the history command with its subcommands
func newHistoryCommand() *cobra.Command {
	var limit int
	var offset int
	var days int
	var preset string
	var since string
	var until string
	var session string
	var codec string
	var backendFilter string
	var path string
	var jsonOutput bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show play history",
		Long: `Show what has been played, newest first.

Time filters accept natural language dates ("2 days ago", "last monday")
and presets (today, yesterday, week, month, all).

Examples:
  pcmbox history                       # Recent plays
  pcmbox history --limit 50            # More results
  pcmbox history --preset today        # Today only
  pcmbox history --since "2 days ago"  # Natural date range
  pcmbox history --codec WAV           # WAV plays only
  pcmbox history --session SESSION_ID  # One session`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := history.QueryFilter{
				Days:       days,
				DatePreset: preset,
				Path:       path,
				Codec:      codec,
				Backend:    backendFilter,
				SessionID:  session,
				Limit:      limit,
				Offset:     offset,
			}
			if err := applyNaturalDates(&filter, since, until); err != nil {
				return err
			}
			return runHistoryList(cmd, filter, jsonOutput)
		},
	}

	historyCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (0 = default of 20)")
	historyCmd.Flags().IntVar(&offset, "offset", 0, "Skip this many results for pagination")
	historyCmd.Flags().IntVar(&days, "days", 0, "Only plays from the last N days (0 = all time)")
	historyCmd.Flags().StringVar(&preset, "preset", "", "Date preset (today, yesterday, week, month, all)")
	historyCmd.Flags().StringVar(&since, "since", "", "Start of time range, natural language accepted")
	historyCmd.Flags().StringVar(&until, "until", "", "End of time range, natural language accepted")
	historyCmd.Flags().StringVar(&session, "session", "", "Filter by session id")
	historyCmd.Flags().StringVar(&codec, "codec", "", "Filter by codec name (WAV, MP3, AIFF, G711)")
	historyCmd.Flags().StringVar(&backendFilter, "backend", "", "Filter by audio backend")
	historyCmd.Flags().StringVar(&path, "path", "", "Filter by played file path")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	historyCmd.AddCommand(newHistoryMostPlayedCommand())

	return historyCmd
}

// newHistoryMostPlayedCommand creates the history most-played subcommand
func newHistoryMostPlayedCommand() *cobra.Command {
	var limit int
	var days int
	var preset string
	var jsonOutput bool

	mostPlayedCmd := &cobra.Command{
		Use:   "most-played",
		Short: "Show the most frequently played files",
		Long: `Show which files have been played the most, ordered by play count.

Examples:
  pcmbox history most-played
  pcmbox history most-played --days 30
  pcmbox history most-played --preset week --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := history.QueryFilter{
				Days:       days,
				DatePreset: preset,
				Limit:      limit,
			}
			return runHistoryMostPlayed(cmd, filter, jsonOutput)
		},
	}

	mostPlayedCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (0 = default of 20)")
	mostPlayedCmd.Flags().IntVar(&days, "days", 0, "Only plays from the last N days (0 = all time)")
	mostPlayedCmd.Flags().StringVar(&preset, "preset", "", "Date preset (today, yesterday, week, month, all)")
	mostPlayedCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return mostPlayedCmd
}

// applyNaturalDates parses the since/until flags into the filter's time range
func applyNaturalDates(filter *history.QueryFilter, since, until string) error {
	if since != "" {
		parsed, err := history.ParseNaturalDate(since)
		if err != nil {
			return fmt.Errorf("invalid --since value '%s': %w", since, err)
		}
		filter.Since = &parsed
	}
	if until != "" {
		parsed, err := history.ParseNaturalDate(until)
		if err != nil {
			return fmt.Errorf("invalid --until value '%s': %w", until, err)
		}
		filter.Until = &parsed
	}
	return nil
}

// openHistoryDB loads config and opens the history database for query commands
func openHistoryDB(cmd *cobra.Command) (*CLI, error) {
	cli := cliFromContext(cmd.Context())
	if cli == nil {
		return nil, fmt.Errorf("CLI instance not found in context")
	}

	cfg, err := loadAndValidateConfig(cmd, cli)
	if err != nil {
		return nil, err
	}

	setupLogging(cfg, cli, cmd.ErrOrStderr())

	cli.initializeHistory(cfg)
	if cli.historyDB == nil {
		return nil, fmt.Errorf("play history is not enabled or the database is not available")
	}

	return cli, nil
}

// runHistoryList executes the history list command
func runHistoryList(cmd *cobra.Command, filter history.QueryFilter, jsonOutput bool) error {
	slog.Debug("running history command",
		"limit", filter.Limit,
		"days", filter.Days,
		"preset", filter.DatePreset,
		"codec", filter.Codec,
		"backend", filter.Backend,
		"session", filter.SessionID)

	cli, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}

	records, err := history.ListPlays(cli.historyDB, filter)
	if err != nil {
		slog.Error("failed to list plays", "error", err)
		return fmt.Errorf("failed to query play history: %w", err)
	}

	if jsonOutput {
		encoded, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode history: %w", err)
		}
		cmd.Println(string(encoded))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No plays recorded.")
		return nil
	}

	for _, record := range records {
		cmd.Printf("%s  %-5s %6d Hz %dch  %-14s %s\n",
			record.Timestamp.Format(time.DateTime),
			record.Codec, record.SampleRate, record.Channels,
			record.Backend, record.Path)
	}
	cmd.Printf("%d plays\n", len(records))

	return nil
}

// runHistoryMostPlayed executes the history most-played command
func runHistoryMostPlayed(cmd *cobra.Command, filter history.QueryFilter, jsonOutput bool) error {
	slog.Debug("running history most-played command",
		"limit", filter.Limit,
		"days", filter.Days,
		"preset", filter.DatePreset)

	cli, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}

	results, err := history.GetMostPlayed(cli.historyDB, filter)
	if err != nil {
		slog.Error("failed to get most played", "error", err)
		return fmt.Errorf("failed to query play history: %w", err)
	}

	if jsonOutput {
		encoded, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode history: %w", err)
		}
		cmd.Println(string(encoded))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No plays recorded.")
		return nil
	}

	for _, result := range results {
		cmd.Printf("%6d  %s\n", result.PlayCount, result.Path)
	}

	return nil
}
