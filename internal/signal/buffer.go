package signal

import (
	"fmt"
	"log/slog"
)

// RemainingFrames requests all frames left in the buffer when passed as a
// frame count to Render or RenderReserved.
const RemainingFrames = -1

// RenderFunc renders a single frame into the plane windows handed to it.
// The windows cover only the region being rendered, so a callback indexes
// them relative to the first frame of the render call. Returning an error
// terminates the render; frames committed before the failure are kept.
type RenderFunc[S Sample] func(planes [][]S, frame int) error

// AudioBuffer is a container for multi-channel planar audio sample data. It
// is characterized by a capacity (the maximum number of frames it may store
// per channel, fixed at construction) and a signal specification. Up to
// capacity frames for each of N channels live in one flat allocation, plane
// c occupying indexes [c*capacity, c*capacity+capacity). A frame cursor
// tracks how many frames are currently valid; it is identical across all
// planes and is mutated only through the render protocol.
type AudioBuffer[S Sample] struct {
	buf      []S
	spec     SignalSpec
	frames   int
	capacity int
}

// NewAudioBuffer allocates a buffer of the given duration and specification.
// Seconds durations truncate toward zero. The allocation is zero-initialized
// so consumers reading unrendered regions through plane views observe the
// sample kind's neutral value, never garbage.
func NewAudioBuffer[S Sample](duration Duration, spec SignalSpec) *AudioBuffer[S] {
	capacity := int(duration.Frames(spec.Rate))
	sampleCount := capacity * spec.Channels.Count()

	slog.Debug("allocating audio buffer",
		"capacity_frames", capacity,
		"channels", spec.Channels.Count(),
		"rate", spec.Rate,
		"total_samples", sampleCount)

	return &AudioBuffer[S]{
		buf:      make([]S, sampleCount),
		spec:     spec,
		capacity: capacity,
	}
}

// UnusedAudioBuffer returns the capacity-0 sentinel buffer: no allocation, a
// sample rate of 0, and an empty channel set. All operations on it degrade to
// empty ranges.
func UnusedAudioBuffer[S Sample]() *AudioBuffer[S] {
	return &AudioBuffer[S]{}
}

// IsUnused reports whether the buffer is the capacity-0 sentinel.
func (b *AudioBuffer[S]) IsUnused() bool {
	return b.capacity == 0
}

// Spec returns the buffer's signal specification.
func (b *AudioBuffer[S]) Spec() SignalSpec {
	return b.spec
}

// Capacity returns the maximum number of frames the buffer can store per
// channel.
func (b *AudioBuffer[S]) Capacity() int {
	return b.capacity
}

// Frames returns the number of valid frames written to the buffer. This is
// also the number of written samples in any one channel.
func (b *AudioBuffer[S]) Frames() int {
	return b.frames
}

// Clear resets the frame cursor to zero. The underlying sample data is left
// untouched; the next render overwrites it.
func (b *AudioBuffer[S]) Clear() {
	b.frames = 0
}

// Clone returns a deep copy of the buffer.
func (b *AudioBuffer[S]) Clone() *AudioBuffer[S] {
	buf := make([]S, len(b.buf))
	copy(buf, b.buf)
	return &AudioBuffer[S]{
		buf:      buf,
		spec:     b.spec,
		frames:   b.frames,
		capacity: b.capacity,
	}
}

// window slices channel's written region out of the flat allocation. The
// three-index slice caps the view at the plane boundary so no window can ever
// grow into the next channel's plane.
func (b *AudioBuffer[S]) window(channel int) []S {
	channelCount := b.spec.Channels.Count()
	if channel < 0 || channel >= channelCount {
		panic(fmt.Sprintf("signal: channel %d out of range (%d channels)", channel, channelCount))
	}
	start := channel * b.capacity
	return b.buf[start : start+b.frames : start+b.capacity]
}

// Chan returns the written samples of the given channel. Callers must treat
// the returned slice as read-only; use ChanMut for mutation. Channel indexes
// out of range are a programmer error and panic.
func (b *AudioBuffer[S]) Chan(channel int) []S {
	return b.window(channel)
}

// ChanMut returns a mutable view of the written samples of the given channel.
func (b *AudioBuffer[S]) ChanMut(channel int) []S {
	return b.window(channel)
}

// ChanPair returns mutable views of two distinct channels at once, for
// algorithms that mix a pair of channels. The windows are disjoint plane
// ranges of the same allocation; requesting the same channel twice would
// alias and panics.
func (b *AudioBuffer[S]) ChanPair(first, second int) ([]S, []S) {
	if first == second {
		panic(fmt.Sprintf("signal: chan pair requires two distinct channels, got %d twice", first))
	}
	return b.window(first), b.window(second)
}

// Planes returns read-only views of every channel's written samples, in
// ascending channel-mask bit order. The collection is built fresh on every
// call and sized exactly to the live channel count; this is the expensive
// path, prefer Chan for single-channel access.
func (b *AudioBuffer[S]) Planes() [][]S {
	channelCount := b.spec.Channels.Count()
	planes := make([][]S, 0, channelCount)
	for ch := 0; ch < channelCount; ch++ {
		planes = append(planes, b.window(ch))
	}
	return planes
}

// PlanesMut returns mutable views of every channel's written samples. Like
// Planes, the collection is built fresh on every call.
func (b *AudioBuffer[S]) PlanesMut() [][]S {
	channelCount := b.spec.Channels.Count()
	planes := make([][]S, 0, channelCount)
	for ch := 0; ch < channelCount; ch++ {
		planes = append(planes, b.window(ch))
	}
	return planes
}

// RenderReserved advances the frame cursor by frameCount without touching the
// sample data, for callers that fill memory through a side channel before
// committing the frame count. RemainingFrames advances by the remaining
// capacity. Advancing past capacity is a programmer error and panics.
func (b *AudioBuffer[S]) RenderReserved(frameCount int) {
	reserved := frameCount
	if reserved < 0 {
		reserved = b.capacity - b.frames
	}
	if b.frames+reserved > b.capacity {
		panic(fmt.Sprintf("signal: render of %d frames overflows capacity (%d written, %d capacity)",
			reserved, b.frames, b.capacity))
	}
	b.frames += reserved
}

// Render renders frameCount frames using the provided render function, or the
// remaining capacity if frameCount is RemainingFrames. The function sees the
// unwritten tail of each plane and is invoked once per frame in increasing
// order. Each successful invocation commits exactly one frame, so a failure
// leaves the buffer holding every frame rendered before it; nothing is rolled
// back.
func (b *AudioBuffer[S]) Render(frameCount int, render RenderFunc[S]) error {
	count := frameCount
	if count < 0 {
		count = b.capacity - b.frames
	}

	end := b.frames + count
	if end > b.capacity {
		panic(fmt.Sprintf("signal: render of %d frames overflows capacity (%d written, %d capacity)",
			count, b.frames, b.capacity))
	}

	channelCount := b.spec.Channels.Count()
	planes := make([][]S, 0, channelCount)
	for ch := 0; ch < channelCount; ch++ {
		start := ch*b.capacity + b.frames
		planes = append(planes, b.buf[start:start+count:start+count])
	}

	for b.frames < end {
		if err := render(planes, b.frames); err != nil {
			return err
		}
		b.frames++
	}

	return nil
}

// Fill clears the buffer and renders it to capacity with the fill function.
// It behaves exactly like Render with respect to the fill function.
func (b *AudioBuffer[S]) Fill(fill RenderFunc[S]) error {
	b.Clear()
	return b.Render(RemainingFrames, fill)
}

// Transform applies a pure function to every written sample in every plane.
// No ordering is guaranteed. Samples beyond the written region are never read
// or written.
func (b *AudioBuffer[S]) Transform(f func(S) S) {
	channelCount := b.spec.Channels.Count()
	for ch := 0; ch < channelCount; ch++ {
		plane := b.window(ch)
		for i, s := range plane {
			plane[i] = f(s)
		}
	}
}
