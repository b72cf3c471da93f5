package signal

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SampleBuffer is a flat byte buffer of exported stream samples, agnostic to
// the ordering of samples within it. It is the import/export surface between
// planar audio buffers and byte-oriented sinks. Its capacity is fixed at
// construction and never resized.
type SampleBuffer[S Sample] struct {
	buf     []byte
	written int
}

// NewSampleBuffer allocates a sample buffer of the given duration and
// specification. The allocation is sized for the exported representation of
// sample kind S, not its in-memory width.
func NewSampleBuffer[S Sample](duration Duration, spec SignalSpec) *SampleBuffer[S] {
	frames := int(duration.Frames(spec.Rate))
	sampleCount := frames * spec.Channels.Count()
	return &SampleBuffer[S]{
		buf: make([]byte, sampleCount*StreamBytes[S]()),
	}
}

// Samples returns the number of valid samples written. After a planar or
// interleaved copy this is frames times channels.
func (s *SampleBuffer[S]) Samples() int {
	return s.written
}

// Capacity returns the maximum number of samples the buffer may store.
func (s *SampleBuffer[S]) Capacity() int {
	return len(s.buf) / StreamBytes[S]()
}

// AsBytes returns the written region as raw bytes. The region always reflects
// exactly Samples() fully-formed stream elements.
func (s *SampleBuffer[S]) AsBytes() []byte {
	return s.buf[:s.written*StreamBytes[S]()]
}

// CopyPlanar copies all valid samples of a same-kind source buffer in planar
// channel order: each channel's samples contiguously, channel 0 first, each
// block sized by the frame count rather than the source's capacity. This
// densification removes the stride padding of the source allocation. The
// destination must hold at least frames times channels samples.
func (s *SampleBuffer[S]) CopyPlanar(src *AudioBuffer[S]) {
	frames := src.frames
	channelCount := src.spec.Channels.Count()
	writer := newSampleWriter(s, frames*channelCount)

	for ch := 0; ch < channelCount; ch++ {
		begin := ch * src.capacity
		for _, sample := range src.buf[begin : begin+frames] {
			writer.WriteSample(sample)
		}
	}
}

// CopyPlanarTyped copies all valid samples of src into dst in planar channel
// order, converting each sample to kind S inline and applying the dither
// policy if the conversion loses resolution.
func CopyPlanarTyped[F, S Sample](dst *SampleBuffer[S], src *AudioBuffer[F], dither Dither) {
	frames := src.frames
	channelCount := src.spec.Channels.Count()
	writer := newSampleWriter(dst, frames*channelCount)

	for ch := 0; ch < channelCount; ch++ {
		begin := ch * src.capacity
		for _, sample := range src.buf[begin : begin+frames] {
			writer.WriteSample(fromNorm[S](dither.Apply(toNorm(sample))))
		}
	}
}

// CopyPlanarRef copies a type-erased source buffer in planar channel order,
// dispatching on its concrete kind. This dispatch, together with its
// interleaved twin, is the one place the closed sample-kind set is matched
// exhaustively; surfacing a new kind through AudioBufferRef means extending
// both.
func (s *SampleBuffer[S]) CopyPlanarRef(src AudioBufferRef, dither Dither) {
	switch {
	case src.f32 != nil:
		CopyPlanarTyped(s, src.f32, dither)
	case src.s32 != nil:
		CopyPlanarTyped(s, src.s32, dither)
	}
}

// CopyInterleaved copies all valid samples of a same-kind source buffer in
// interleaved order: frame-major, channel-minor. The destination must hold at
// least frames times channels samples.
func (s *SampleBuffer[S]) CopyInterleaved(src *AudioBuffer[S]) {
	CopyInterleavedTyped(s, src, NoDither{})
}

// CopyInterleavedTyped copies all valid samples of src into dst in
// interleaved order, converting each sample to kind S inline and applying the
// dither policy. Mono and stereo take a straight-line path; behaviour is
// identical to the general path for every channel count.
func CopyInterleavedTyped[F, S Sample](dst *SampleBuffer[S], src *AudioBuffer[F], dither Dither) {
	frames := src.frames
	channelCount := src.spec.Channels.Count()
	writer := newSampleWriter(dst, frames*channelCount)

	switch channelCount {
	case 0:
		// No channels, nothing to copy.
	case 1:
		for _, sample := range src.buf[:frames] {
			writer.WriteSample(fromNorm[S](dither.Apply(toNorm(sample))))
		}
	case 2:
		left := src.buf[:frames]
		right := src.buf[src.capacity : src.capacity+frames]
		for i := range left {
			writer.WriteSample(fromNorm[S](dither.Apply(toNorm(left[i]))))
			writer.WriteSample(fromNorm[S](dither.Apply(toNorm(right[i]))))
		}
	default:
		interleaveGeneric(writer, src, dither)
	}
}

// interleaveGeneric walks the source frame-major for any channel count,
// striding across planes by the source capacity.
func interleaveGeneric[F, S Sample](writer *SampleWriter[S], src *AudioBuffer[F], dither Dither) {
	stride := src.capacity
	channelCount := src.spec.Channels.Count()
	for i := 0; i < src.frames; i++ {
		for ch := 0; ch < channelCount; ch++ {
			writer.WriteSample(fromNorm[S](dither.Apply(toNorm(src.buf[ch*stride+i]))))
		}
	}
}

// CopyInterleavedRef copies a type-erased source buffer in interleaved order,
// dispatching on its concrete kind.
func (s *SampleBuffer[S]) CopyInterleavedRef(src AudioBufferRef, dither Dither) {
	switch {
	case src.f32 != nil:
		CopyInterleavedTyped(s, src.f32, dither)
	case src.s32 != nil:
		CopyInterleavedTyped(s, src.s32, dither)
	}
}

// SampleWriter writes successive exported-form samples into one SampleBuffer.
// It lives only for the duration of a single copy operation and guarantees
// every written element lands at a unique, monotonically increasing,
// in-bounds offset, so the exported byte region never holds a partially
// written element.
type SampleWriter[S Sample] struct {
	buf  []byte
	next int
	size int
}

// newSampleWriter binds a writer to dst for exactly sampleCount samples.
// Undersized destinations indicate a construction-time sizing bug and panic.
// Any previously written data is superseded.
func newSampleWriter[S Sample](dst *SampleBuffer[S], sampleCount int) *SampleWriter[S] {
	if sampleCount > dst.Capacity() {
		panic(fmt.Sprintf("signal: sample buffer capacity %d too small for %d samples",
			dst.Capacity(), sampleCount))
	}
	size := StreamBytes[S]()
	dst.written = sampleCount
	return &SampleWriter[S]{
		buf:  dst.buf[:sampleCount*size],
		size: size,
	}
}

// WriteSample encodes one sample at the next offset and advances the cursor.
// Full-width kinds use the platform-native byte order; Int24 packs its low,
// middle, and high bytes in that order.
func (w *SampleWriter[S]) WriteSample(sample S) {
	off := w.next * w.size
	switch v := any(sample).(type) {
	case uint8:
		w.buf[off] = v
	case int8:
		w.buf[off] = byte(v)
	case uint16:
		binary.NativeEndian.PutUint16(w.buf[off:off+2], v)
	case int16:
		binary.NativeEndian.PutUint16(w.buf[off:off+2], uint16(v))
	case Int24:
		w.buf[off] = byte(v)
		w.buf[off+1] = byte(v >> 8)
		w.buf[off+2] = byte(v >> 16)
	case uint32:
		binary.NativeEndian.PutUint32(w.buf[off:off+4], v)
	case int32:
		binary.NativeEndian.PutUint32(w.buf[off:off+4], uint32(v))
	case float32:
		binary.NativeEndian.PutUint32(w.buf[off:off+4], math.Float32bits(v))
	case float64:
		binary.NativeEndian.PutUint64(w.buf[off:off+8], math.Float64bits(v))
	}
	w.next++
}
