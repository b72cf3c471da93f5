package audio

import (
	"context"
	"errors"
	"log/slog"

	"pcmbox.click/internal/signal"
)

// Common errors for AudioBackend implementations
var (
	ErrBackendNotAvailable = errors.New("audio backend not available")
	ErrBackendClosed       = errors.New("audio backend is closed")
)

// PCMStream holds interleaved signed 16-bit native-endian samples ready
// for a playback device.
type PCMStream struct {
	Data       []byte
	SampleRate uint32
	Channels   int
}

// AudioBackend represents a system for playing decoded audio
// Implementations handle the actual playback mechanism (malgo, oto, system commands)
type AudioBackend interface {
	// Lifecycle management
	Start() error
	Stop() error
	Close() error

	// State management
	IsPlaying() bool
	SetVolume(volume float32) error
	GetVolume() float32

	// Playback of a prepared PCM stream
	Play(ctx context.Context, stream *PCMStream) error
}

// ExportForPlayback densifies decoded planar audio into an interleaved
// 16-bit stream suitable for any backend.
func ExportForPlayback(decoded *DecodedAudio) *PCMStream {
	slog.Debug("exporting decoded audio for playback",
		"frames", decoded.Frames,
		"channels", decoded.Spec.Channels.Count(),
		"sample_rate", decoded.Spec.Rate)

	samples := signal.NewSampleBuffer[int16](
		signal.DurationFrames(uint64(decoded.Frames)), decoded.Spec)
	samples.CopyInterleavedRef(decoded.Ref, signal.NoDither{})

	// The sample buffer may be reused, so hand the backend its own copy
	data := make([]byte, len(samples.AsBytes()))
	copy(data, samples.AsBytes())

	stream := &PCMStream{
		Data:       data,
		SampleRate: decoded.Spec.Rate,
		Channels:   decoded.Spec.Channels.Count(),
	}

	slog.Debug("playback stream prepared", "size_bytes", len(stream.Data))
	return stream
}
