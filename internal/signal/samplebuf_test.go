package signal

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int32Bytes(values ...int32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.NativeEndian.AppendUint32(out, uint32(v))
	}
	return out
}

func TestSampleBufferSizing(t *testing.T) {
	spec := stereoSpec()

	sb := NewSampleBuffer[int16](DurationFrames(10), spec)
	assert.Equal(t, 20, sb.Capacity())
	assert.Equal(t, 0, sb.Samples())
	assert.Empty(t, sb.AsBytes())

	// The allocation is sized for the exported representation, so 24-bit
	// samples occupy three bytes each.
	sb24 := NewSampleBuffer[Int24](DurationFrames(10), spec)
	assert.Equal(t, 20, sb24.Capacity())
}

func TestCopyPlanarDensifies(t *testing.T) {
	// capacity=10, frames=3, channels=2: the export must drop the stride
	// padding between source planes and emit exactly six elements.
	buf := NewAudioBuffer[int32](DurationFrames(10), stereoSpec())
	require.NoError(t, buf.Render(3, func(planes [][]int32, frame int) error {
		planes[0][frame] = int32(frame + 1)
		planes[1][frame] = int32(frame + 10)
		return nil
	}))

	sb := NewSampleBuffer[int32](DurationFrames(10), stereoSpec())
	sb.CopyPlanar(buf)

	assert.Equal(t, 6, sb.Samples())
	assert.Equal(t, int32Bytes(1, 2, 3, 10, 11, 12), sb.AsBytes())
}

func TestCopyInterleavedScenario(t *testing.T) {
	// Stereo buffer of four frames rendered as (i, i+100) exports to the
	// frame-major byte sequence 0,100,1,101,2,102,3,103.
	spec := stereoSpec()
	buf := NewAudioBuffer[int32](DurationFrames(4), spec)
	require.NoError(t, buf.Fill(func(planes [][]int32, frame int) error {
		planes[0][frame] = int32(frame)
		planes[1][frame] = int32(frame + 100)
		return nil
	}))

	sb := NewSampleBuffer[int32](DurationFrames(4), spec)
	sb.CopyInterleaved(buf)

	assert.Equal(t, 8, sb.Samples())
	assert.Equal(t, int32Bytes(0, 100, 1, 101, 2, 102, 3, 103), sb.AsBytes())
}

func TestInterleaveSpecializationsMatchGeneralPath(t *testing.T) {
	// The mono and stereo fast paths are an optimization, not a semantic
	// branch: the general N-channel walk must produce identical bytes.
	for _, channels := range []int{1, 2} {
		spec := NewSignalSpec(44100, DefaultChannels(channels))
		buf := NewAudioBuffer[int32](DurationFrames(16), spec)
		require.NoError(t, buf.Render(9, func(planes [][]int32, frame int) error {
			for ch := range planes {
				planes[ch][frame] = int32(frame*8 + ch)
			}
			return nil
		}))

		fast := NewSampleBuffer[int16](DurationFrames(16), spec)
		CopyInterleavedTyped(fast, buf, NoDither{})

		general := NewSampleBuffer[int16](DurationFrames(16), spec)
		writer := newSampleWriter(general, buf.Frames()*channels)
		interleaveGeneric(writer, buf, NoDither{})

		assert.Equal(t, fast.AsBytes(), general.AsBytes(), "%d channels", channels)
	}
}

func TestCopyInterleavedManyChannels(t *testing.T) {
	spec := NewSignalSpecWithLayout(48000, LayoutFivePointOne)
	buf := NewAudioBuffer[int32](DurationFrames(4), spec)
	require.NoError(t, buf.Render(2, func(planes [][]int32, frame int) error {
		for ch := range planes {
			planes[ch][frame] = int32(frame*10 + ch)
		}
		return nil
	}))

	sb := NewSampleBuffer[int32](DurationFrames(4), spec)
	sb.CopyInterleaved(buf)

	assert.Equal(t, int32Bytes(
		0, 1, 2, 3, 4, 5,
		10, 11, 12, 13, 14, 15,
	), sb.AsBytes())
}

func TestCopyConvertsInline(t *testing.T) {
	spec := NewSignalSpecWithLayout(44100, LayoutMono)
	buf := NewAudioBuffer[float32](DurationFrames(3), spec)
	require.NoError(t, buf.Fill(func(planes [][]float32, frame int) error {
		planes[0][frame] = float32(frame) * 0.25
		return nil
	}))

	sb := NewSampleBuffer[int16](DurationFrames(3), spec)
	CopyInterleavedTyped(sb, buf, NoDither{})

	bytes := sb.AsBytes()
	require.Len(t, bytes, 6)
	assert.Equal(t, int16(0), int16(binary.NativeEndian.Uint16(bytes[0:2])))
	assert.Equal(t, int16(8192), int16(binary.NativeEndian.Uint16(bytes[2:4])))
	assert.Equal(t, int16(16384), int16(binary.NativeEndian.Uint16(bytes[4:6])))
}

func TestCopyRefDispatch(t *testing.T) {
	spec := stereoSpec()

	f32 := NewAudioBuffer[float32](DurationFrames(2), spec)
	require.NoError(t, f32.Fill(func(planes [][]float32, frame int) error {
		planes[0][frame] = 0.5
		planes[1][frame] = -0.5
		return nil
	}))

	s32 := NewAudioBuffer[int32](DurationFrames(2), spec)
	require.NoError(t, s32.Fill(func(planes [][]int32, frame int) error {
		planes[0][frame] = 1 << 30
		planes[1][frame] = -(1 << 30)
		return nil
	}))

	sbF := NewSampleBuffer[int16](DurationFrames(2), spec)
	sbF.CopyInterleavedRef(f32.AsAudioBufferRef(), NoDither{})
	require.Equal(t, 4, sbF.Samples())
	assert.Equal(t, int16(16384), int16(binary.NativeEndian.Uint16(sbF.AsBytes()[0:2])))

	sbS := NewSampleBuffer[int16](DurationFrames(2), spec)
	sbS.CopyPlanarRef(s32.AsAudioBufferRef(), NoDither{})
	require.Equal(t, 4, sbS.Samples())
	assert.Equal(t, int16(16384), int16(binary.NativeEndian.Uint16(sbS.AsBytes()[0:2])))
	assert.Equal(t, int16(-16384), int16(binary.NativeEndian.Uint16(sbS.AsBytes()[4:6])))
}

func TestUndersizedSampleBufferPanics(t *testing.T) {
	spec := stereoSpec()
	buf := NewAudioBuffer[int32](DurationFrames(8), spec)
	buf.RenderReserved(8)

	small := NewSampleBuffer[int32](DurationFrames(4), spec)
	assert.Panics(t, func() { small.CopyInterleaved(buf) })
	assert.Panics(t, func() { small.CopyPlanar(buf) })
}

func TestWriterInt24Packing(t *testing.T) {
	spec := NewSignalSpecWithLayout(44100, LayoutMono)
	buf := NewAudioBuffer[Int24](DurationFrames(2), spec)
	require.NoError(t, buf.Fill(func(planes [][]Int24, frame int) error {
		if frame == 0 {
			planes[0][frame] = 0x123456
		} else {
			planes[0][frame] = -1
		}
		return nil
	}))

	sb := NewSampleBuffer[Int24](DurationFrames(2), spec)
	sb.CopyPlanar(buf)

	// Three bytes per element, low byte first.
	assert.Equal(t, []byte{0x56, 0x34, 0x12, 0xFF, 0xFF, 0xFF}, sb.AsBytes())
}

func TestWriterTracksWrittenSamples(t *testing.T) {
	spec := stereoSpec()
	buf := NewAudioBuffer[int32](DurationFrames(10), spec)
	buf.RenderReserved(4)

	sb := NewSampleBuffer[int32](DurationFrames(10), spec)
	sb.CopyInterleaved(buf)

	// A fresh copy supersedes any previously written region.
	assert.Equal(t, 8, sb.Samples())
	assert.Len(t, sb.AsBytes(), 32)

	buf.Clear()
	buf.RenderReserved(1)
	sb.CopyInterleaved(buf)
	assert.Equal(t, 2, sb.Samples())
	assert.Len(t, sb.AsBytes(), 8)
}
