package audio

import (
	"errors"
	"io"

	"pcmbox.click/internal/signal"
)

// Common decoder errors
var (
	ErrInvalidData       = errors.New("invalid audio data")
	ErrReadFailure       = errors.New("failed to read audio data")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// DecodedAudio is a decoded signal ready for conversion, export, or playback.
// The underlying buffer is reachable only through the type-erased reference,
// so the concrete sample kind stays opaque to consumers.
type DecodedAudio struct {
	Ref    signal.AudioBufferRef // Type-erased planar buffer
	Spec   signal.SignalSpec     // Sample rate and channel assignment
	Frames int                   // Valid frames in the buffer
	Codec  string                // Format name of the decoder that produced this, set by the registry
}

// Seconds returns the decoded length in seconds
func (d *DecodedAudio) Seconds() float64 {
	if d.Spec.Rate == 0 {
		return 0
	}
	return float64(d.Frames) / float64(d.Spec.Rate)
}

// Decoder interface for audio format decoding into planar buffers
type Decoder interface {
	// Decode reads audio data from reader and returns the decoded signal
	Decode(reader io.Reader) (*DecodedAudio, error)

	// CanDecode checks if this decoder can handle the given filename
	CanDecode(filename string) bool

	// FormatName returns the name of the format this decoder handles
	FormatName() string
}
