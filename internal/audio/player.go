package audio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	pcmfs "pcmbox.click/internal/fs"
	"pcmbox.click/internal/signal"
)

// PlayOptions controls a single playback operation
type PlayOptions struct {
	Backend string
	Volume  float32
	Seek    signal.Timestamp
}

// Player orchestrates decoding and playback of audio files
type Player struct {
	registry *DecoderRegistry
	factory  BackendFactory
	fs       afero.Fs
}

// NewPlayer creates a player with the default registry, factory, and OS filesystem
func NewPlayer() *Player {
	return NewPlayerWithDependencies(NewDefaultRegistry(), NewBackendFactory(), pcmfs.NewDefaultFactory().Production())
}

// NewPlayerWithDependencies creates a player with injected dependencies for testing
func NewPlayerWithDependencies(registry *DecoderRegistry, factory BackendFactory, fs afero.Fs) *Player {
	slog.Debug("creating audio player")
	return &Player{
		registry: registry,
		factory:  factory,
		fs:       fs,
	}
}

// Probe decodes an audio file and returns its description without playing it
func (p *Player) Probe(path string) (*DecodedAudio, error) {
	slog.Debug("probing audio file", "path", path)

	file, err := p.fs.Open(path)
	if err != nil {
		slog.Error("failed to open audio file", "path", path, "error", err)
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	decoded, err := p.registry.DecodeFile(path, file)
	if err != nil {
		return nil, err
	}

	slog.Info("probe completed",
		"path", path,
		"frames", decoded.Frames,
		"channels", decoded.Spec.Channels.Count(),
		"sample_rate", decoded.Spec.Rate,
		"duration_seconds", decoded.Seconds())

	return decoded, nil
}

// PlayFile decodes and plays an audio file, blocking until playback completes.
// The decoded description is returned so callers can report or record what played.
func (p *Player) PlayFile(ctx context.Context, path string, opts PlayOptions) (*DecodedAudio, error) {
	slog.Debug("starting playback",
		"path", path,
		"backend", opts.Backend,
		"volume", opts.Volume)

	decoded, err := p.Probe(path)
	if err != nil {
		return nil, err
	}

	stream := ExportForPlayback(decoded)

	if skip := opts.Seek.Frame(stream.SampleRate); skip > 0 {
		stream = seekStream(stream, skip)
		slog.Debug("seek applied", "skipped_frames", skip, "remaining_bytes", len(stream.Data))
	}

	backend, err := p.factory.CreateBackend(opts.Backend)
	if err != nil {
		slog.Error("failed to create audio backend", "backend", opts.Backend, "error", err)
		return nil, fmt.Errorf("failed to create audio backend: %w", err)
	}
	defer backend.Close()

	if err := backend.Start(); err != nil {
		return nil, fmt.Errorf("failed to start audio backend: %w", err)
	}

	volume := opts.Volume
	if volume == 0 {
		volume = 1.0
	}
	if err := backend.SetVolume(volume); err != nil {
		return nil, fmt.Errorf("failed to set volume: %w", err)
	}

	if err := backend.Play(ctx, stream); err != nil {
		slog.Error("playback failed", "path", path, "error", err)
		return nil, fmt.Errorf("playback failed: %w", err)
	}

	slog.Info("playback completed", "path", path)
	return decoded, nil
}

// seekStream drops the first skip frames from an interleaved 16-bit stream
func seekStream(stream *PCMStream, skip uint64) *PCMStream {
	offset := int(skip) * stream.Channels * 2
	if offset > len(stream.Data) {
		offset = len(stream.Data)
	}
	return &PCMStream{
		Data:       stream.Data[offset:],
		SampleRate: stream.SampleRate,
		Channels:   stream.Channels,
	}
}
