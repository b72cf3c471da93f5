package signal

import (
	"fmt"
	"math"
)

// Dither selects the rounding/noise-shaping step applied when a conversion
// loses resolution. Policies operate on the normalized sample value just
// before requantization. Only a pass-through policy ships; additional
// strategies implement the interface.
type Dither interface {
	Apply(v float64) float64
}

// NoDither performs no dithering.
type NoDither struct{}

// Apply returns the sample unchanged.
func (NoDither) Apply(v float64) float64 { return v }

// Sample kinds convert through a normalized float64 domain where integer
// full scale maps onto [-1.0, 1.0). Every integer kind of width <= 32 bits
// and every float32 value is exactly representable in float64, so lossless
// kind pairs round-trip exactly. Unsigned kinds are offset binary: their
// midpoint is the neutral value.
func toNorm[S Sample](s S) float64 {
	switch v := any(s).(type) {
	case uint8:
		return (float64(v) - 128) / 128
	case int8:
		return float64(v) / 128
	case uint16:
		return (float64(v) - 32768) / 32768
	case int16:
		return float64(v) / 32768
	case Int24:
		return float64(v) / 8388608
	case uint32:
		return (float64(v) - 2147483648) / 2147483648
	case int32:
		return float64(v) / 2147483648
	case float32:
		return float64(v)
	case float64:
		return v
	default:
		panic("signal: unsupported sample kind")
	}
}

// fromNorm requantizes a normalized value into sample kind S. Integer kinds
// truncate toward zero and clamp to their representable range; float kinds
// pass through unclamped.
func fromNorm[S Sample](f float64) S {
	var out S
	switch p := any(&out).(type) {
	case *uint8:
		*p = uint8(rescale(f, 128) + 128)
	case *int8:
		*p = int8(rescale(f, 128))
	case *uint16:
		*p = uint16(rescale(f, 32768) + 32768)
	case *int16:
		*p = int16(rescale(f, 32768))
	case *Int24:
		*p = Int24(rescale(f, 8388608))
	case *uint32:
		*p = uint32(rescale(f, 2147483648) + 2147483648)
	case *int32:
		*p = int32(rescale(f, 2147483648))
	case *float32:
		*p = float32(f)
	case *float64:
		*p = f
	default:
		panic("signal: unsupported sample kind")
	}
	return out
}

// rescale maps a normalized value onto [-scale, scale-1], truncating toward
// zero. The clamp keeps the later integer conversion in range.
func rescale(f, scale float64) float64 {
	v := math.Trunc(f * scale)
	if v > scale-1 {
		v = scale - 1
	}
	if v < -scale {
		v = -scale
	}
	return v
}

// ConvertSample converts a single sample between two supported kinds using
// the defined total numeric mapping: integer to integer rescales by the
// bit-width ratio, integer to float maps full scale onto [-1.0, 1.0), and
// float to float is a direct cast.
func ConvertSample[F, T Sample](v F) T {
	return fromNorm[T](toNorm(v))
}

// Convert converts every valid sample of src into the equivalent destination
// buffer dst, applying the dither policy if the conversion loses resolution.
// The two buffers must be equivalent: identical frame count, capacity, and
// signal specification. Mismatched buffers indicate a caller bug and panic.
func Convert[F, T Sample](src *AudioBuffer[F], dst *AudioBuffer[T], dither Dither) {
	if dst.frames != src.frames || dst.capacity != src.capacity || dst.spec != src.spec {
		panic(fmt.Sprintf("signal: convert requires equivalent buffers (src frames=%d cap=%d, dst frames=%d cap=%d)",
			src.frames, src.capacity, dst.frames, dst.capacity))
	}

	channelCount := src.spec.Channels.Count()
	for ch := 0; ch < channelCount; ch++ {
		begin := ch * src.capacity
		end := begin + src.frames
		for i := begin; i < end; i++ {
			dst.buf[i] = fromNorm[T](dither.Apply(toNorm(src.buf[i])))
		}
	}
}

// MakeEquivalent allocates a zero-filled buffer of sample kind T with the
// same capacity and signal specification as src. No frames are rendered; the
// caller must render into it.
func MakeEquivalent[T, F Sample](src *AudioBuffer[F]) *AudioBuffer[T] {
	return NewAudioBuffer[T](DurationFrames(uint64(src.capacity)), src.spec)
}
