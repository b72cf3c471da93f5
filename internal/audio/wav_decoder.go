package audio

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/youpy/go-wav"

	"pcmbox.click/internal/signal"
)

// WavDecoder handles WAV audio format decoding
type WavDecoder struct{}

// NewWavDecoder creates a new WAV decoder instance
func NewWavDecoder() *WavDecoder {
	slog.Debug("creating new WAV decoder instance")
	return &WavDecoder{}
}

// Decode reads WAV audio data from reader and renders it into a planar buffer
func (d *WavDecoder) Decode(reader io.Reader) (*DecodedAudio, error) {
	slog.Debug("starting WAV decode operation")

	// youpy/go-wav needs a ReadSeeker, so we need to read all data first
	data, err := io.ReadAll(reader)
	if err != nil {
		slog.Error("failed to read WAV data", "error", err)
		return nil, ErrReadFailure
	}

	if len(data) == 0 {
		slog.Error("empty WAV data")
		return nil, ErrInvalidData
	}

	wavReader := wav.NewReader(bytes.NewReader(data))

	format, err := wavReader.Format()
	if err != nil {
		slog.Error("failed to read WAV format", "error", err)
		return nil, ErrInvalidData
	}

	slog.Debug("WAV format detected",
		"sample_rate", format.SampleRate,
		"channels", format.NumChannels,
		"bits_per_sample", format.BitsPerSample)

	if format.NumChannels == 0 || format.SampleRate == 0 {
		slog.Error("invalid WAV format parameters",
			"channels", format.NumChannels,
			"sample_rate", format.SampleRate)
		return nil, ErrInvalidData
	}

	switch format.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		slog.Error("unsupported bit depth", "bits", format.BitsPerSample)
		return nil, ErrUnsupportedFormat
	}

	// Read all interleaved samples into memory
	var allSamples []wav.Sample
	for {
		samples, err := wavReader.ReadSamples()
		if err != nil {
			if err == io.EOF {
				slog.Debug("reached end of WAV file", "total_frames", len(allSamples))
				break
			}
			slog.Error("failed to read WAV samples", "error", err)
			return nil, ErrReadFailure
		}

		if len(samples) == 0 {
			break
		}

		allSamples = append(allSamples, samples...)
	}

	if len(allSamples) == 0 {
		slog.Error("no audio data found in WAV file")
		return nil, ErrInvalidData
	}

	spec := signal.NewSignalSpec(uint32(format.SampleRate), signal.DefaultChannels(int(format.NumChannels)))
	buf := signal.NewAudioBuffer[int32](signal.DurationFrames(uint64(len(allSamples))), spec)

	// Left-justify every decoded sample to 32 bits. 8-bit WAV is unsigned
	// offset binary, deeper widths are signed.
	shift := uint(32 - format.BitsPerSample)
	unsigned8 := format.BitsPerSample == 8

	err = buf.Fill(func(planes [][]int32, frame int) error {
		sample := allSamples[frame]
		for ch := range planes {
			var value int
			if ch < len(sample.Values) {
				value = sample.Values[ch]
			}
			if unsigned8 {
				value -= 128
			}
			planes[ch][frame] = int32(value) << shift
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to render WAV samples", "error", err)
		return nil, ErrInvalidData
	}

	decoded := &DecodedAudio{
		Ref:    buf.AsAudioBufferRef(),
		Spec:   spec,
		Frames: buf.Frames(),
	}

	slog.Info("WAV decode completed successfully",
		"frames", decoded.Frames,
		"channels", spec.Channels.Count(),
		"sample_rate", spec.Rate,
		"duration_estimate_ms", int(decoded.Seconds()*1000))

	return decoded, nil
}

// CanDecode checks if this decoder can handle the given filename
func (d *WavDecoder) CanDecode(filename string) bool {
	lower := strings.ToLower(filename)
	canDecode := strings.HasSuffix(lower, ".wav") || strings.HasSuffix(lower, ".wave")

	slog.Debug("WAV decoder file check",
		"filename", filename,
		"can_decode", canDecode)

	return canDecode
}

// FormatName returns the name of the format this decoder handles
func (d *WavDecoder) FormatName() string {
	return "WAV"
}
