package audio

import (
	"encoding/binary"
	"io"
	"log/slog"
	"strings"

	"github.com/zaf/g711"

	"pcmbox.click/internal/signal"
)

// Telephony G.711 streams carry no header, so the sample rate and
// channel count are fixed by convention.
const g711SampleRate = 8000

// G711Decoder handles raw mu-law and A-law telephony audio
type G711Decoder struct{}

// NewG711Decoder creates a new G.711 decoder instance
func NewG711Decoder() *G711Decoder {
	slog.Debug("creating new G.711 decoder instance")
	return &G711Decoder{}
}

// FormatName returns the name of the format this decoder handles
func (d *G711Decoder) FormatName() string {
	return "G711"
}

// CanDecode checks if this decoder can handle the given filename
func (d *G711Decoder) CanDecode(filename string) bool {
	lower := strings.ToLower(filename)
	canDecode := strings.HasSuffix(lower, ".ul") || strings.HasSuffix(lower, ".ulaw") ||
		strings.HasSuffix(lower, ".al") || strings.HasSuffix(lower, ".alaw")

	slog.Debug("G.711 decoder file check",
		"filename", filename,
		"can_decode", canDecode)

	return canDecode
}

// Decode reads raw G.711 data from reader, assuming mu-law companding
func (d *G711Decoder) Decode(reader io.Reader) (*DecodedAudio, error) {
	return d.decode(reader, false)
}

// DecodeAlaw reads raw G.711 data from reader using A-law companding
func (d *G711Decoder) DecodeAlaw(reader io.Reader) (*DecodedAudio, error) {
	return d.decode(reader, true)
}

// DecodeFile picks the companding law from the filename extension
func (d *G711Decoder) DecodeFile(reader io.Reader, filename string) (*DecodedAudio, error) {
	lower := strings.ToLower(filename)
	alaw := strings.HasSuffix(lower, ".al") || strings.HasSuffix(lower, ".alaw")
	return d.decode(reader, alaw)
}

func (d *G711Decoder) decode(reader io.Reader, alaw bool) (*DecodedAudio, error) {
	slog.Debug("starting G.711 decode operation", "alaw", alaw)

	data, err := io.ReadAll(reader)
	if err != nil {
		slog.Error("failed to read G.711 data", "error", err)
		return nil, ErrReadFailure
	}

	if len(data) == 0 {
		slog.Error("empty G.711 data")
		return nil, ErrInvalidData
	}

	var lpcm []byte
	if alaw {
		lpcm = g711.DecodeAlaw(data)
	} else {
		lpcm = g711.DecodeUlaw(data)
	}

	frames := len(lpcm) / 2
	spec := signal.NewSignalSpecWithLayout(g711SampleRate, signal.LayoutMono)
	buf := signal.NewAudioBuffer[int32](signal.DurationFrames(uint64(frames)), spec)

	err = buf.Fill(func(planes [][]int32, frame int) error {
		s := int16(binary.LittleEndian.Uint16(lpcm[frame*2 : frame*2+2]))
		planes[0][frame] = int32(s) << 16
		return nil
	})
	if err != nil {
		slog.Error("failed to render G.711 samples", "error", err)
		return nil, ErrInvalidData
	}

	decoded := &DecodedAudio{
		Ref:    buf.AsAudioBufferRef(),
		Spec:   spec,
		Frames: buf.Frames(),
	}

	slog.Info("G.711 decode completed successfully",
		"frames", decoded.Frames,
		"alaw", alaw,
		"sample_rate", g711SampleRate,
		"duration_estimate_ms", int(decoded.Seconds()*1000))

	return decoded, nil
}
