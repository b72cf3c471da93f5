package audio

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"pcmbox.click/internal/signal"
)

// AiffDecoder handles AIFF audio format decoding
type AiffDecoder struct{}

// NewAiffDecoder creates a new AIFF decoder instance
func NewAiffDecoder() *AiffDecoder {
	slog.Debug("creating new AIFF decoder instance")
	return &AiffDecoder{}
}

// FormatName returns the name of the format this decoder handles
func (d *AiffDecoder) FormatName() string {
	return "AIFF"
}

// CanDecode checks if this decoder can handle the given filename
func (d *AiffDecoder) CanDecode(filename string) bool {
	lower := strings.ToLower(filename)
	canDecode := strings.HasSuffix(lower, ".aiff") || strings.HasSuffix(lower, ".aif")

	slog.Debug("AIFF decoder file check",
		"filename", filename,
		"can_decode", canDecode)

	return canDecode
}

// Decode reads AIFF audio data from reader and renders it into a planar buffer
func (d *AiffDecoder) Decode(reader io.Reader) (*DecodedAudio, error) {
	slog.Debug("starting AIFF decode operation")

	// go-audio/aiff needs a ReadSeeker
	data, err := io.ReadAll(reader)
	if err != nil {
		slog.Error("failed to read AIFF data", "error", err)
		return nil, ErrReadFailure
	}

	if len(data) == 0 {
		slog.Error("empty AIFF data")
		return nil, ErrInvalidData
	}

	decoder := aiff.NewDecoder(bytes.NewReader(data))
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		slog.Error("invalid AIFF file format")
		return nil, ErrInvalidData
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		slog.Error("failed to decode AIFF PCM data", "error", err)
		return nil, ErrReadFailure
	}

	if pcm == nil || pcm.Format == nil || len(pcm.Data) == 0 {
		slog.Error("no audio data found in AIFF file")
		return nil, ErrInvalidData
	}

	channels := pcm.Format.NumChannels
	rate := pcm.Format.SampleRate
	bitDepth := pcm.SourceBitDepth
	if channels <= 0 || rate <= 0 {
		slog.Error("invalid AIFF format parameters",
			"channels", channels,
			"sample_rate", rate)
		return nil, ErrInvalidData
	}

	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		slog.Error("unsupported AIFF bit depth", "bits", bitDepth)
		return nil, ErrUnsupportedFormat
	}

	slog.Debug("AIFF format detected",
		"sample_rate", rate,
		"channels", channels,
		"bits_per_sample", bitDepth)

	decoded, err := renderIntBuffer(pcm, bitDepth)
	if err != nil {
		slog.Error("failed to render AIFF samples", "error", err)
		return nil, ErrInvalidData
	}

	slog.Info("AIFF decode completed successfully",
		"frames", decoded.Frames,
		"channels", channels,
		"sample_rate", rate,
		"duration_estimate_ms", int(decoded.Seconds()*1000))

	return decoded, nil
}

// renderIntBuffer converts a go-audio interleaved int buffer into a planar
// signal, left justifying samples of the given bit depth to 32 bits
func renderIntBuffer(pcm *goaudio.IntBuffer, bitDepth int) (*DecodedAudio, error) {
	channels := pcm.Format.NumChannels
	frames := len(pcm.Data) / channels

	spec := signal.NewSignalSpec(uint32(pcm.Format.SampleRate), signal.DefaultChannels(channels))
	buf := signal.NewAudioBuffer[int32](signal.DurationFrames(uint64(frames)), spec)

	shift := uint(32 - bitDepth)
	err := buf.Fill(func(planes [][]int32, frame int) error {
		off := frame * channels
		for ch := range planes {
			planes[ch][frame] = int32(pcm.Data[off+ch]) << shift
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DecodedAudio{
		Ref:    buf.AsAudioBufferRef(),
		Spec:   spec,
		Frames: buf.Frames(),
	}, nil
}
