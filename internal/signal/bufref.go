package signal

// AudioBufferRef is a copy-on-write reference to an audio buffer of either
// supported reference kind, letting downstream code be generic over "some
// audio buffer" without the concrete sample kind leaking through its API.
// A reference borrows the underlying buffer by default; only operations
// needing exclusive access clone it.
type AudioBufferRef struct {
	f32   *AudioBuffer[float32]
	s32   *AudioBuffer[int32]
	owned bool
}

// AsAudioBufferRef wraps the buffer in a borrowed type-erased reference.
// Only float32 and int32 buffers may cross API boundaries untyped; wrapping
// any other kind is a programmer error and panics.
func (b *AudioBuffer[S]) AsAudioBufferRef() AudioBufferRef {
	switch buf := any(b).(type) {
	case *AudioBuffer[float32]:
		return AudioBufferRef{f32: buf}
	case *AudioBuffer[int32]:
		return AudioBufferRef{s32: buf}
	default:
		panic("signal: buffer kind cannot be referenced generically")
	}
}

// Spec returns the signal specification of the referenced buffer.
func (r *AudioBufferRef) Spec() SignalSpec {
	switch {
	case r.f32 != nil:
		return r.f32.Spec()
	case r.s32 != nil:
		return r.s32.Spec()
	default:
		return SignalSpec{}
	}
}

// Capacity returns the capacity of the referenced buffer.
func (r *AudioBufferRef) Capacity() int {
	switch {
	case r.f32 != nil:
		return r.f32.Capacity()
	case r.s32 != nil:
		return r.s32.Capacity()
	default:
		return 0
	}
}

// Frames returns the number of valid frames in the referenced buffer.
func (r *AudioBufferRef) Frames() int {
	switch {
	case r.f32 != nil:
		return r.f32.Frames()
	case r.s32 != nil:
		return r.s32.Frames()
	default:
		return 0
	}
}

// Transform applies f to every written sample through the normalized float64
// domain. The reference is read-only by default, so the underlying buffer is
// cloned first if it is still borrowed; the original buffer is never touched.
func (r *AudioBufferRef) Transform(f func(float64) float64) {
	r.materialize()
	switch {
	case r.f32 != nil:
		r.f32.Transform(func(s float32) float32 {
			return float32(f(float64(s)))
		})
	case r.s32 != nil:
		r.s32.Transform(func(s int32) int32 {
			return fromNorm[int32](f(toNorm(s)))
		})
	}
}

// materialize turns a borrowed reference into an owned one by cloning the
// underlying buffer. Owned references are left alone.
func (r *AudioBufferRef) materialize() {
	if r.owned {
		return
	}
	switch {
	case r.f32 != nil:
		r.f32 = r.f32.Clone()
	case r.s32 != nil:
		r.s32 = r.s32.Clone()
	}
	r.owned = true
}
