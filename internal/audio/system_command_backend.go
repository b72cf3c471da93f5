package audio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
)

// SystemCommandBackend implements AudioBackend by piping raw PCM to a
// system player like paplay or aplay
type SystemCommandBackend struct {
	command   string
	volume    float32
	isPlaying bool
	closed    bool
	mutex     sync.RWMutex
}

// NewSystemCommandBackend creates a new SystemCommandBackend with the specified command
func NewSystemCommandBackend(command string) *SystemCommandBackend {
	slog.Debug("creating new SystemCommandBackend", "command", command)
	return &SystemCommandBackend{
		command: command,
		volume:  1.0,
	}
}

// Start initializes the backend (no-op for system commands)
func (scb *SystemCommandBackend) Start() error {
	scb.mutex.Lock()
	defer scb.mutex.Unlock()

	if scb.closed {
		return ErrBackendClosed
	}

	slog.Debug("SystemCommandBackend started", "command", scb.command)
	return nil
}

// Stop stops any ongoing playback (limited control with system commands)
func (scb *SystemCommandBackend) Stop() error {
	scb.mutex.Lock()
	defer scb.mutex.Unlock()

	if scb.closed {
		return ErrBackendClosed
	}

	scb.isPlaying = false
	slog.Debug("SystemCommandBackend stopped")
	return nil
}

// Close shuts down the backend
func (scb *SystemCommandBackend) Close() error {
	scb.mutex.Lock()
	defer scb.mutex.Unlock()

	scb.closed = true
	scb.isPlaying = false
	slog.Debug("SystemCommandBackend closed")
	return nil
}

// IsPlaying returns the current playing state
func (scb *SystemCommandBackend) IsPlaying() bool {
	scb.mutex.RLock()
	defer scb.mutex.RUnlock()
	return scb.isPlaying && !scb.closed
}

// SetVolume sets the volume level (0.0 to 1.0)
func (scb *SystemCommandBackend) SetVolume(volume float32) error {
	if volume < 0.0 || volume > 1.0 {
		err := fmt.Errorf("invalid volume level: %f (must be 0.0-1.0)", volume)
		slog.Error("invalid volume setting", "volume", volume, "error", err)
		return err
	}

	scb.mutex.Lock()
	defer scb.mutex.Unlock()

	if scb.closed {
		return ErrBackendClosed
	}

	oldVolume := scb.volume
	scb.volume = volume
	slog.Debug("volume changed", "old_volume", oldVolume, "new_volume", volume)
	return nil
}

// GetVolume returns the current volume level
func (scb *SystemCommandBackend) GetVolume() float32 {
	scb.mutex.RLock()
	defer scb.mutex.RUnlock()
	return scb.volume
}

// Play pipes the PCM stream to the system command over stdin
func (scb *SystemCommandBackend) Play(ctx context.Context, stream *PCMStream) error {
	scb.mutex.Lock()
	if scb.closed {
		scb.mutex.Unlock()
		return ErrBackendClosed
	}
	scb.isPlaying = true
	volume := scb.volume
	scb.mutex.Unlock()

	defer func() {
		scb.mutex.Lock()
		scb.isPlaying = false
		scb.mutex.Unlock()
	}()

	args, err := rawStreamArgs(scb.command, stream)
	if err != nil {
		slog.Error("cannot build raw stream arguments", "command", scb.command, "error", err)
		return err
	}

	data := stream.Data
	if volume != 1.0 {
		data = scalePCM16(stream.Data, volume)
	}

	slog.Debug("SystemCommandBackend starting playback",
		"command", scb.command,
		"args", args,
		"size_bytes", len(data))

	cmd := exec.CommandContext(ctx, scb.command, args...)
	cmd.Stdin = bytes.NewReader(data)

	err = cmd.Run()
	if err != nil {
		slog.Error("system command failed", "command", scb.command, "error", err)
		return fmt.Errorf("system command failed: %w", err)
	}

	slog.Debug("playback completed successfully", "command", scb.command)
	return nil
}

// rawStreamArgs builds the command arguments for reading signed 16-bit
// little-endian PCM from stdin
func rawStreamArgs(command string, stream *PCMStream) ([]string, error) {
	rate := strconv.Itoa(int(stream.SampleRate))
	channels := strconv.Itoa(stream.Channels)

	switch command {
	case "paplay":
		return []string{
			"--raw",
			"--format=s16le",
			"--rate=" + rate,
			"--channels=" + channels,
		}, nil
	case "aplay":
		return []string{
			"-q",
			"-f", "S16_LE",
			"-r", rate,
			"-c", channels,
		}, nil
	case "ffplay":
		return []string{
			"-autoexit",
			"-nodisp",
			"-loglevel", "quiet",
			"-f", "s16le",
			"-ar", rate,
			"-ac", channels,
			"-i", "-",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s cannot play raw streams", ErrBackendNotAvailable, command)
	}
}
