package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gen2brain/malgo"
)

// MalgoBackend implements AudioBackend using the miniaudio bindings
type MalgoBackend struct {
	context *Context
	volume  float32
	playing bool
	closed  bool
	mutex   sync.RWMutex
}

// NewMalgoBackend creates a new MalgoBackend
func NewMalgoBackend() *MalgoBackend {
	slog.Debug("creating new MalgoBackend")
	return &MalgoBackend{
		volume: 1.0,
	}
}

// Start initializes the backend (no-op, the device is created per play)
func (mb *MalgoBackend) Start() error {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	if mb.closed {
		return ErrBackendClosed
	}

	slog.Debug("MalgoBackend started")
	return nil
}

// Stop stops any ongoing playback
func (mb *MalgoBackend) Stop() error {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	if mb.closed {
		return ErrBackendClosed
	}

	mb.playing = false
	slog.Debug("MalgoBackend stopped")
	return nil
}

// Close shuts down the backend and releases the audio context
func (mb *MalgoBackend) Close() error {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	if mb.closed {
		slog.Debug("MalgoBackend already closed")
		return nil
	}

	mb.closed = true
	mb.playing = false

	if mb.context != nil {
		err := mb.context.Close()
		if err != nil {
			slog.Error("error closing audio context", "error", err)
			return fmt.Errorf("error closing audio context: %w", err)
		}
		mb.context = nil
	}

	slog.Debug("MalgoBackend closed")
	return nil
}

// IsPlaying returns the current playing state
func (mb *MalgoBackend) IsPlaying() bool {
	mb.mutex.RLock()
	defer mb.mutex.RUnlock()
	return mb.playing && !mb.closed
}

// SetVolume sets the volume level (0.0 to 1.0)
func (mb *MalgoBackend) SetVolume(volume float32) error {
	if volume < 0.0 || volume > 1.0 {
		err := fmt.Errorf("invalid volume level: %f (must be 0.0-1.0)", volume)
		slog.Error("invalid volume setting", "volume", volume, "error", err)
		return err
	}

	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	if mb.closed {
		return ErrBackendClosed
	}

	oldVolume := mb.volume
	mb.volume = volume
	slog.Debug("volume changed", "old_volume", oldVolume, "new_volume", volume)
	return nil
}

// GetVolume returns the current volume level
func (mb *MalgoBackend) GetVolume() float32 {
	mb.mutex.RLock()
	defer mb.mutex.RUnlock()
	return mb.volume
}

// Play plays the prepared PCM stream, blocking until it finishes or ctx is cancelled
func (mb *MalgoBackend) Play(ctx context.Context, stream *PCMStream) error {
	mb.mutex.Lock()
	if mb.closed {
		mb.mutex.Unlock()
		return ErrBackendClosed
	}

	if mb.context == nil {
		slog.Debug("initializing audio context for playback")
		audioCtx, err := NewContext()
		if err != nil {
			mb.mutex.Unlock()
			return fmt.Errorf("failed to initialize audio context: %w", err)
		}
		mb.context = audioCtx
	}

	mb.playing = true
	mb.mutex.Unlock()

	defer func() {
		mb.mutex.Lock()
		mb.playing = false
		mb.mutex.Unlock()
	}()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(stream.Channels)
	deviceConfig.SampleRate = stream.SampleRate
	deviceConfig.Alsa.NoMMap = 1

	slog.Debug("playback device configuration",
		"channels", stream.Channels,
		"sample_rate", stream.SampleRate,
		"size_bytes", len(stream.Data))

	cursor := 0
	done := make(chan struct{})
	var doneOnce sync.Once

	onSamples := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		select {
		case <-ctx.Done():
			for i := range pOutputSample {
				pOutputSample[i] = 0
			}
			doneOnce.Do(func() { close(done) })
			return
		default:
		}

		n := copy(pOutputSample, stream.Data[cursor:])
		cursor += n

		// Pad the tail with silence
		for i := n; i < len(pOutputSample); i++ {
			pOutputSample[i] = 0
		}

		volume := mb.GetVolume()
		if volume != 1.0 && n > 0 {
			for i := 0; i < n-1; i += 2 {
				sample := int16(pOutputSample[i]) | int16(pOutputSample[i+1])<<8
				sample = int16(float32(sample) * volume)
				pOutputSample[i] = byte(sample)
				pOutputSample[i+1] = byte(sample >> 8)
			}
		}

		if cursor >= len(stream.Data) {
			doneOnce.Do(func() { close(done) })
		}
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: onSamples,
	}

	device, err := malgo.InitDevice(mb.context.Raw().Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	defer device.Uninit()

	err = device.Start()
	if err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}
	defer device.Stop()

	slog.Info("playback started", "backend", "malgo")

	select {
	case <-done:
	case <-ctx.Done():
	}

	slog.Info("playback finished", "backend", "malgo", "bytes_played", cursor)
	return nil
}
