package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pcmbox.click/internal/audio"
	"pcmbox.click/internal/config"
	pcmfs "pcmbox.click/internal/fs"
	"pcmbox.click/internal/history"
)

const Version = "1.2.0"

// CLI represents the command-line interface
type CLI struct {
	rootCmd          *cobra.Command
	configManager    *config.ConfigManager
	backendFactory   audio.BackendFactory
	terminalDetector TerminalDetector
	fs               afero.Fs
	historyDB        *sql.DB // Optional play history database
}

// NewCLI creates a new CLI instance
func NewCLI() *CLI {
	slog.Debug("creating new CLI instance")

	rootCmd := &cobra.Command{
		Use:   "pcmbox",
		Short: "Planar PCM audio toolbox",
		Long:  "Pcmbox decodes audio files into planar PCM, plays them through a native backend, and keeps a queryable history of what was played.",
		RunE:  runRootE,
	}

	rootCmd.AddCommand(newPlayCommand())
	rootCmd.AddCommand(newProbeCommand())
	rootCmd.AddCommand(newHistoryCommand())

	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("volume", "", "Set volume (0.0 to 1.0)")
	rootCmd.PersistentFlags().String("backend", "", "Audio backend (auto, system_command, malgo, oto)")
	rootCmd.PersistentFlags().Bool("silent", false, "Silent mode - decode without audio playback")

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	return &CLI{
		rootCmd:          rootCmd,
		configManager:    nil, // Lazy initialization - only create when needed
		backendFactory:   nil, // Lazy initialization - only create when needed
		terminalDetector: nil, // Lazy initialization - only create when needed
		fs:               nil, // Lazy initialization - only create when needed
		historyDB:        nil, // Lazy initialization - only create when needed
	}
}

// contextWithCLI stores the CLI instance in a context for command handlers
func contextWithCLI(cli *CLI) context.Context {
	return context.WithValue(context.Background(), cliContextKey{}, cli)
}

type cliContextKey struct{}

// cliFromContext extracts the CLI instance from a command context
func cliFromContext(ctx context.Context) *CLI {
	if cli, ok := ctx.Value(cliContextKey{}).(*CLI); ok {
		return cli
	}
	return nil
}

// handleVersionFlag checks and handles the version flag.
// Returns true if version was handled and processing should stop.
func handleVersionFlag(cmd *cobra.Command) (bool, error) {
	version, _ := cmd.Flags().GetBool("version")
	if version {
		cmd.Printf("pcmbox version %s\nPlanar PCM audio toolbox\n", Version)
		return true, nil
	}
	return false, nil
}

// runRootE handles a bare invocation: version flag or help
func runRootE(cmd *cobra.Command, args []string) error {
	handled, err := handleVersionFlag(cmd)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}
	return cmd.Help()
}

// loadAndValidateConfig loads configuration from flags and files, applies overrides, and validates
func loadAndValidateConfig(cmd *cobra.Command, cli *CLI) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	volumeStr, _ := cmd.Flags().GetString("volume")

	// Validate the volume flag early so a bad value fails before any decode work
	if volumeStr != "" {
		vol, err := strconv.ParseFloat(volumeStr, 64)
		if err != nil {
			cmd.PrintErrf("Error: invalid volume value '%s': %v\n", volumeStr, err)
			slog.Error("invalid volume value", "value", volumeStr, "error", err)
			return nil, fmt.Errorf("invalid volume value '%s': %w", volumeStr, err)
		}
		if vol < 0.0 || vol > 1.0 {
			cmd.PrintErrf("Error: volume must be between 0.0 and 1.0, got %f\n", vol)
			slog.Error("volume out of range", "value", vol)
			return nil, fmt.Errorf("volume must be between 0.0 and 1.0, got %f", vol)
		}
	}

	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = cli.configManager.LoadFromFile(configFile)
		if err != nil {
			// A missing config file falls back to defaults
			slog.Warn("config file not found, using defaults", "file", configFile, "error", err)
			cfg = cli.configManager.GetDefaultConfig()
		}
	} else {
		cfg, err = cli.configManager.LoadConfig()
		if err != nil {
			cmd.PrintErrf("Error loading config: %v\n", err)
			slog.Error("config load failed", "error", err)
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	cfg = cli.configManager.ApplyEnvironmentOverrides(cfg)

	if volumeStr != "" {
		// Volume already validated above, just parse and apply
		vol, _ := strconv.ParseFloat(volumeStr, 64)
		cfg.Volume = vol
		slog.Debug("volume override applied", "value", vol)
	}

	err = cli.configManager.ValidateConfig(cfg)
	if err != nil {
		cmd.PrintErrf("Error: invalid configuration: %v\n", err)
		slog.Error("config validation failed", "error", err)
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// playbackBackend resolves the backend to use: flag override wins over config
func playbackBackend(cmd *cobra.Command, cfg *config.Config) string {
	if backendFlag, _ := cmd.Flags().GetString("backend"); backendFlag != "" {
		slog.Debug("backend override applied", "value", backendFlag)
		return backendFlag
	}
	return cfg.AudioBackend
}

// Run executes the CLI with the given arguments and I/O streams
func (c *CLI) Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	slog.Debug("CLI run started", "args", args)

	// Version requests skip system initialization entirely
	if len(args) > 1 && (args[1] == "--version" || args[1] == "-v") {
		fmt.Fprintf(stdout, "pcmbox version %s\nPlanar PCM audio toolbox\n", Version)
		return 0
	}

	c.initializeSystems()

	// Ensure resources are cleaned up on exit
	defer func() {
		if c.historyDB != nil {
			err := c.historyDB.Close()
			if err != nil {
				slog.Error("error closing history database", "error", err)
			}
		}
	}()

	c.rootCmd.SetArgs(args[1:]) // Skip program name
	c.rootCmd.SetIn(stdin)
	c.rootCmd.SetOut(stdout)
	c.rootCmd.SetErr(stderr)

	// Store CLI instance for access in command handlers
	c.rootCmd.SetContext(contextWithCLI(c))

	if err := c.rootCmd.Execute(); err != nil {
		slog.Error("cobra execution failed", "error", err)
		return 1
	}

	return 0
}

// initializeSystems lazily initializes CLI components when actually needed
func (c *CLI) initializeSystems() {
	slog.Debug("initializeSystems() called")

	if c.configManager == nil {
		c.configManager = config.NewConfigManager()
	}
	if c.backendFactory == nil {
		c.backendFactory = audio.NewBackendFactory()
	}
	if c.terminalDetector == nil {
		c.terminalDetector = &DefaultTerminalDetector{}
	}
	if c.fs == nil {
		c.fs = pcmfs.NewDefaultFactory().Production()
	}
	// historyDB is initialized in initializeHistory when a command needs it
}

// newPlayer builds a player on the CLI's injected factory and filesystem
func (c *CLI) newPlayer() *audio.Player {
	return audio.NewPlayerWithDependencies(audio.NewDefaultRegistry(), c.backendFactory, c.fs)
}

// initializeHistory opens the play history database if enabled in configuration.
// Failures degrade gracefully so playback never depends on history bookkeeping.
func (c *CLI) initializeHistory(cfg *config.Config) {
	slog.Debug("initializeHistory() called", "historyDB_nil", c.historyDB == nil)

	if c.historyDB != nil {
		slog.Debug("history database already initialized, skipping")
		return
	}

	if cfg.History == nil || !cfg.History.Enabled {
		slog.Debug("play history disabled, skipping database initialization",
			"history_nil", cfg.History == nil,
			"enabled", cfg.History != nil && cfg.History.Enabled)
		return
	}

	dbPath := c.configManager.ResolveHistoryDatabasePath(cfg.History.DatabasePath)
	slog.Debug("attempting to initialize history database", "path", dbPath)

	db, err := history.NewDatabase(dbPath)
	if err != nil {
		slog.Error("failed to initialize history database, continuing without history",
			"path", dbPath, "error", err)
		return
	}

	c.historyDB = db
	slog.Info("history database initialized", "path", dbPath)
}
