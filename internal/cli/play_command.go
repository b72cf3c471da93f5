package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pcmbox.click/internal/audio"
	"pcmbox.click/internal/history"
	"pcmbox.click/internal/signal"
)

// newPlayCommand creates the play command
func newPlayCommand() *cobra.Command {
	var seekSeconds float64

	playCmd := &cobra.Command{
		Use:   "play FILE...",
		Short: "Decode and play audio files",
		Long: `Decode one or more audio files and play them through the configured backend.

Files are decoded into planar PCM, converted to interleaved 16-bit samples,
and handed to the selected audio backend. Each successful play is recorded
in the play history when history is enabled.

Examples:
  pcmbox play chime.wav
  pcmbox play --volume 0.5 a.wav b.mp3
  pcmbox play --backend oto --seek 1.5 long.wav
  pcmbox play --silent broken.aiff    # decode only, no audio output`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, seekSeconds)
		},
	}

	playCmd.Flags().Float64Var(&seekSeconds, "seek", 0, "Start position in seconds")

	return playCmd
}

// runPlay executes the play command
func runPlay(cmd *cobra.Command, args []string, seekSeconds float64) error {
	slog.Debug("running play command", "files", args, "seek_seconds", seekSeconds)

	cli := cliFromContext(cmd.Context())
	if cli == nil {
		return fmt.Errorf("CLI instance not found in context")
	}

	cfg, err := loadAndValidateConfig(cmd, cli)
	if err != nil {
		return err
	}

	setupLogging(cfg, cli, cmd.ErrOrStderr())

	silent, _ := cmd.Flags().GetBool("silent")
	backend := playbackBackend(cmd, cfg)
	player := cli.newPlayer()

	var recorder *history.Recorder
	if !silent {
		cli.initializeHistory(cfg)
		if cli.historyDB != nil {
			recorder = history.NewRecorder(cli.historyDB)
			slog.Debug("history recording enabled", "session_id", recorder.SessionID())
		}
	}

	interactive := cli.isInteractiveTerminal(int(os.Stdout.Fd()))

	for _, path := range args {
		if interactive {
			cmd.Printf("Playing %s\n", path)
		}

		decoded, err := playOne(cmd, player, path, backend, cfg.Volume, seekSeconds, silent)
		if err != nil {
			cmd.PrintErrf("Error playing %s: %v\n", path, err)
			slog.Error("playback failed", "path", path, "error", err)
			return fmt.Errorf("failed to play %s: %w", path, err)
		}

		verb := "Played"
		if silent {
			verb = "Decoded"
		}
		cmd.Printf("%s %s (%s, %d Hz, %dch, %.1fs)\n",
			verb, path, decoded.Codec, decoded.Spec.Rate,
			decoded.Spec.Channels.Count(), decoded.Seconds())

		if recorder != nil {
			recorder.RecordPlay(history.PlayRecord{
				Path:       path,
				Codec:      decoded.Codec,
				SampleRate: int(decoded.Spec.Rate),
				Channels:   decoded.Spec.Channels.Count(),
				Frames:     decoded.Frames,
				Backend:    backend,
			})
		}
	}

	return nil
}

// playOne plays a single file, or only decodes it in silent mode
func playOne(cmd *cobra.Command, player *audio.Player, path, backend string, volume, seekSeconds float64, silent bool) (*audio.DecodedAudio, error) {
	if silent {
		slog.Debug("silent mode, decoding without playback", "path", path)
		return player.Probe(path)
	}

	opts := audio.PlayOptions{
		Backend: backend,
		Volume:  float32(volume),
	}
	if seekSeconds > 0 {
		opts.Seek = signal.TimestampTime(seekSeconds)
	}

	return player.PlayFile(cmd.Context(), path, opts)
}
