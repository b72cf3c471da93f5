package audio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoBackend implements AudioBackend using the oto library.
// oto allows only one context per process, so the context is created on
// first play and never torn down until Close.
type OtoBackend struct {
	otoCtx     *oto.Context
	sampleRate int
	channels   int
	volume     float32
	playing    bool
	closed     bool
	mutex      sync.RWMutex
}

// NewOtoBackend creates a new OtoBackend
func NewOtoBackend() *OtoBackend {
	slog.Debug("creating new OtoBackend")
	return &OtoBackend{
		volume: 1.0,
	}
}

// Start initializes the backend (the context is created lazily on first play)
func (ob *OtoBackend) Start() error {
	ob.mutex.Lock()
	defer ob.mutex.Unlock()

	if ob.closed {
		return ErrBackendClosed
	}

	slog.Debug("OtoBackend started")
	return nil
}

// Stop stops any ongoing playback
func (ob *OtoBackend) Stop() error {
	ob.mutex.Lock()
	defer ob.mutex.Unlock()

	if ob.closed {
		return ErrBackendClosed
	}

	ob.playing = false
	slog.Debug("OtoBackend stopped")
	return nil
}

// Close shuts down the backend
func (ob *OtoBackend) Close() error {
	ob.mutex.Lock()
	defer ob.mutex.Unlock()

	if ob.closed {
		slog.Debug("OtoBackend already closed")
		return nil
	}

	ob.closed = true
	ob.playing = false

	if ob.otoCtx != nil {
		// oto has no context teardown, suspend is the closest thing
		if err := ob.otoCtx.Suspend(); err != nil {
			slog.Error("error suspending oto context", "error", err)
			return fmt.Errorf("error suspending oto context: %w", err)
		}
	}

	slog.Debug("OtoBackend closed")
	return nil
}

// IsPlaying returns the current playing state
func (ob *OtoBackend) IsPlaying() bool {
	ob.mutex.RLock()
	defer ob.mutex.RUnlock()
	return ob.playing && !ob.closed
}

// SetVolume sets the volume level (0.0 to 1.0)
func (ob *OtoBackend) SetVolume(volume float32) error {
	if volume < 0.0 || volume > 1.0 {
		err := fmt.Errorf("invalid volume level: %f (must be 0.0-1.0)", volume)
		slog.Error("invalid volume setting", "volume", volume, "error", err)
		return err
	}

	ob.mutex.Lock()
	defer ob.mutex.Unlock()

	if ob.closed {
		return ErrBackendClosed
	}

	oldVolume := ob.volume
	ob.volume = volume
	slog.Debug("volume changed", "old_volume", oldVolume, "new_volume", volume)
	return nil
}

// GetVolume returns the current volume level
func (ob *OtoBackend) GetVolume() float32 {
	ob.mutex.RLock()
	defer ob.mutex.RUnlock()
	return ob.volume
}

// Play plays the prepared PCM stream, blocking until it finishes or ctx is cancelled
func (ob *OtoBackend) Play(ctx context.Context, stream *PCMStream) error {
	ob.mutex.Lock()
	if ob.closed {
		ob.mutex.Unlock()
		return ErrBackendClosed
	}

	if ob.otoCtx == nil {
		slog.Debug("initializing oto context",
			"sample_rate", stream.SampleRate,
			"channels", stream.Channels)

		op := &oto.NewContextOptions{
			SampleRate:   int(stream.SampleRate),
			ChannelCount: stream.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		otoCtx, readyChan, err := oto.NewContext(op)
		if err != nil {
			ob.mutex.Unlock()
			return fmt.Errorf("failed to create oto context: %w", err)
		}
		<-readyChan

		ob.otoCtx = otoCtx
		ob.sampleRate = int(stream.SampleRate)
		ob.channels = stream.Channels
	} else if ob.sampleRate != int(stream.SampleRate) || ob.channels != stream.Channels {
		// oto does not support reinitialization with a different format
		slog.Warn("oto context format mismatch, playback may be distorted",
			"context_rate", ob.sampleRate,
			"context_channels", ob.channels,
			"stream_rate", stream.SampleRate,
			"stream_channels", stream.Channels)
	}

	ob.playing = true
	ob.mutex.Unlock()

	defer func() {
		ob.mutex.Lock()
		ob.playing = false
		ob.mutex.Unlock()
	}()

	data := stream.Data
	volume := ob.GetVolume()
	if volume != 1.0 {
		data = scalePCM16(stream.Data, volume)
	}

	player := ob.otoCtx.NewPlayer(bytes.NewReader(data))
	defer player.Close()

	slog.Info("playback started", "backend", "oto", "size_bytes", len(data))
	player.Play()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			slog.Debug("playback cancelled", "backend", "oto")
			return nil
		case <-ticker.C:
		}
	}

	slog.Info("playback finished", "backend", "oto")
	return nil
}

// scalePCM16 applies a volume multiplier to interleaved 16-bit samples
func scalePCM16(data []byte, volume float32) []byte {
	scaled := make([]byte, len(data))
	for i := 0; i+1 < len(data); i += 2 {
		sample := int16(data[i]) | int16(data[i+1])<<8
		sample = int16(float32(sample) * volume)
		scaled[i] = byte(sample)
		scaled[i+1] = byte(sample >> 8)
	}
	return scaled
}
