package audio

import (
	"encoding/binary"
	"io"
	"log/slog"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"

	"pcmbox.click/internal/signal"
)

// Mp3Decoder handles MP3 audio format decoding
type Mp3Decoder struct{}

// NewMp3Decoder creates a new MP3 decoder instance
func NewMp3Decoder() *Mp3Decoder {
	slog.Debug("creating new MP3 decoder instance")
	return &Mp3Decoder{}
}

// Decode reads MP3 audio data from reader and renders it into a planar buffer
func (d *Mp3Decoder) Decode(reader io.Reader) (*DecodedAudio, error) {
	slog.Debug("starting MP3 decode operation")

	decoder, err := mp3.NewDecoder(reader)
	if err != nil {
		slog.Error("failed to create MP3 decoder", "error", err)
		return nil, ErrInvalidData
	}

	sampleRate := decoder.SampleRate()
	if sampleRate <= 0 {
		slog.Error("invalid MP3 sample rate", "sample_rate", sampleRate)
		return nil, ErrInvalidData
	}

	// go-mp3 always yields 16-bit little-endian stereo PCM
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		slog.Error("failed to read MP3 PCM data", "error", err)
		return nil, ErrReadFailure
	}

	const frameBytes = 4 // 2 channels x 2 bytes
	frames := len(pcm) / frameBytes
	if frames == 0 {
		slog.Error("no audio data found in MP3 file")
		return nil, ErrInvalidData
	}

	spec := signal.NewSignalSpecWithLayout(uint32(sampleRate), signal.LayoutStereo)
	buf := signal.NewAudioBuffer[int32](signal.DurationFrames(uint64(frames)), spec)

	err = buf.Fill(func(planes [][]int32, frame int) error {
		off := frame * frameBytes
		left := int16(binary.LittleEndian.Uint16(pcm[off:]))
		right := int16(binary.LittleEndian.Uint16(pcm[off+2:]))
		planes[0][frame] = int32(left) << 16
		planes[1][frame] = int32(right) << 16
		return nil
	})
	if err != nil {
		slog.Error("failed to render MP3 samples", "error", err)
		return nil, ErrInvalidData
	}

	decoded := &DecodedAudio{
		Ref:    buf.AsAudioBufferRef(),
		Spec:   spec,
		Frames: buf.Frames(),
	}

	slog.Info("MP3 decode completed successfully",
		"frames", decoded.Frames,
		"sample_rate", spec.Rate,
		"duration_estimate_ms", int(decoded.Seconds()*1000))

	return decoded, nil
}

// CanDecode checks if this decoder can handle the given filename
func (d *Mp3Decoder) CanDecode(filename string) bool {
	lower := strings.ToLower(filename)
	canDecode := strings.HasSuffix(lower, ".mp3")

	slog.Debug("MP3 decoder file check",
		"filename", filename,
		"can_decode", canDecode)

	return canDecode
}

// FormatName returns the name of the format this decoder handles
func (d *Mp3Decoder) FormatName() string {
	return "MP3"
}
