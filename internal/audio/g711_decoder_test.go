package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaf/g711"

	"pcmbox.click/internal/signal"
)

func TestG711DecoderInterface(t *testing.T) {
	decoder := NewG711Decoder()

	var _ Decoder = decoder

	if decoder.FormatName() != "G711" {
		t.Errorf("expected format name 'G711', got '%s'", decoder.FormatName())
	}
}

func TestG711DecoderCanDecode(t *testing.T) {
	decoder := NewG711Decoder()

	testCases := []struct {
		filename string
		expected bool
	}{
		{"call.ul", true},
		{"call.ulaw", true},
		{"call.UL", true},
		{"call.al", true},
		{"call.alaw", true},
		{"call.ALAW", true},
		{"audio.wav", false},
		{"audio.mp3", false},
		{"", false},
		{"ulaw", false},
	}

	for _, tc := range testCases {
		result := decoder.CanDecode(tc.filename)
		if result != tc.expected {
			t.Errorf("CanDecode('%s') = %v, expected %v", tc.filename, result, tc.expected)
		}
	}
}

func TestG711DecoderDecodeEmptyData(t *testing.T) {
	decoder := NewG711Decoder()

	decoded, err := decoder.Decode(bytes.NewReader([]byte{}))

	if err == nil {
		t.Fatal("expected error for empty data")
	}

	if decoded != nil {
		t.Error("expected nil result on error")
	}
}

func TestG711DecoderDecodeUlaw(t *testing.T) {
	decoder := NewG711Decoder()

	// Encode a known 16-bit signal so the expectation can be drawn
	// from the same codec tables the decoder uses
	pcm := encodeInt16LE([]int16{0, 1000, -1000, 8000, -8000, 32000})
	ulaw := g711.EncodeUlaw(pcm)

	decoded, err := decoder.Decode(bytes.NewReader(ulaw))
	require.NoError(t, err)
	require.NotNil(t, decoded)

	assert.Equal(t, uint32(8000), decoded.Spec.Rate)
	assert.Equal(t, 1, decoded.Spec.Channels.Count())
	assert.Equal(t, len(ulaw), decoded.Frames)

	expectedPCM := g711.DecodeUlaw(ulaw)
	assertMatchesLPCM16(t, decoded, expectedPCM)
}

func TestG711DecoderDecodeAlaw(t *testing.T) {
	decoder := NewG711Decoder()

	pcm := encodeInt16LE([]int16{0, 500, -500, 12000, -12000})
	alaw := g711.EncodeAlaw(pcm)

	decoded, err := decoder.DecodeAlaw(bytes.NewReader(alaw))
	require.NoError(t, err)

	assert.Equal(t, len(alaw), decoded.Frames)

	expectedPCM := g711.DecodeAlaw(alaw)
	assertMatchesLPCM16(t, decoded, expectedPCM)
}

func TestG711DecoderDecodeFilePicksLaw(t *testing.T) {
	decoder := NewG711Decoder()

	pcm := encodeInt16LE([]int16{2000, -2000, 4000})
	ulaw := g711.EncodeUlaw(pcm)
	alaw := g711.EncodeAlaw(pcm)

	fromUlaw, err := decoder.DecodeFile(bytes.NewReader(ulaw), "call.ulaw")
	require.NoError(t, err)
	assertMatchesLPCM16(t, fromUlaw, g711.DecodeUlaw(ulaw))

	fromAlaw, err := decoder.DecodeFile(bytes.NewReader(alaw), "call.alaw")
	require.NoError(t, err)
	assertMatchesLPCM16(t, fromAlaw, g711.DecodeAlaw(alaw))
}

// assertMatchesLPCM16 checks a decoded mono signal against expected
// 16-bit little-endian LPCM bytes
func assertMatchesLPCM16(t *testing.T, decoded *DecodedAudio, lpcm []byte) {
	t.Helper()

	samples := signal.NewSampleBuffer[int16](
		signal.DurationFrames(uint64(decoded.Frames)), decoded.Spec)
	samples.CopyInterleavedRef(decoded.Ref, signal.NoDither{})
	got := decodeInt16Bytes(samples.AsBytes())

	require.Equal(t, len(lpcm)/2, len(got))
	for i := range got {
		expected := int16(binary.LittleEndian.Uint16(lpcm[i*2:]))
		assert.Equal(t, expected, got[i], "sample %d", i)
	}
}

func encodeInt16LE(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}
