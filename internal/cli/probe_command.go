package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// probeResult is the JSON shape of a probed file
type probeResult struct {
	Path       string  `json:"path"`
	Codec      string  `json:"codec"`
	SampleRate uint32  `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Frames     int     `json:"frames"`
	Seconds    float64 `json:"seconds"`
}

// newProbeCommand creates the probe command
func newProbeCommand() *cobra.Command {
	var jsonOutput bool

	probeCmd := &cobra.Command{
		Use:   "probe FILE...",
		Short: "Inspect audio files without playing them",
		Long: `Decode audio files and print their codec, sample rate, channel count,
frame count, and duration without playing anything.

Examples:
  pcmbox probe chime.wav
  pcmbox probe --json *.wav`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, args, jsonOutput)
		},
	}

	probeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return probeCmd
}

// runProbe executes the probe command
func runProbe(cmd *cobra.Command, args []string, jsonOutput bool) error {
	slog.Debug("running probe command", "files", args, "json", jsonOutput)

	cli := cliFromContext(cmd.Context())
	if cli == nil {
		return fmt.Errorf("CLI instance not found in context")
	}

	cfg, err := loadAndValidateConfig(cmd, cli)
	if err != nil {
		return err
	}

	setupLogging(cfg, cli, cmd.ErrOrStderr())

	player := cli.newPlayer()

	results := make([]probeResult, 0, len(args))
	for _, path := range args {
		decoded, err := player.Probe(path)
		if err != nil {
			cmd.PrintErrf("Error probing %s: %v\n", path, err)
			slog.Error("probe failed", "path", path, "error", err)
			return fmt.Errorf("failed to probe %s: %w", path, err)
		}

		results = append(results, probeResult{
			Path:       path,
			Codec:      decoded.Codec,
			SampleRate: decoded.Spec.Rate,
			Channels:   decoded.Spec.Channels.Count(),
			Frames:     decoded.Frames,
			Seconds:    decoded.Seconds(),
		})
	}

	if jsonOutput {
		encoded, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode probe results: %w", err)
		}
		cmd.Println(string(encoded))
		return nil
	}

	for _, result := range results {
		cmd.Printf("%s: %s, %d Hz, %dch, %d frames, %.2fs\n",
			result.Path, result.Codec, result.SampleRate,
			result.Channels, result.Frames, result.Seconds)
	}

	return nil
}
