package signal

// Sample is the closed set of in-memory numeric sample representations a
// buffer may hold. Each kind has a neutral value (its zero value), a defined
// conversion to and from every other kind, and an exported stream
// representation used when serializing to bytes.
type Sample interface {
	uint8 | int8 | uint16 | int16 | Int24 | uint32 | int32 | float32 | float64
}

// Int24 is a 24-bit signed sample stored sign-extended in 32 bits. Its
// exported stream representation is a 3-byte packed value rather than the
// in-memory width.
type Int24 int32

const (
	// MaxInt24 is the largest value representable by a 24-bit signed sample.
	MaxInt24 Int24 = 1<<23 - 1
	// MinInt24 is the smallest value representable by a 24-bit signed sample.
	MinInt24 Int24 = -1 << 23
)

// StreamBytes returns the byte width of the exported stream representation of
// sample kind S. For every kind but Int24 this matches the in-memory width.
func StreamBytes[S Sample]() int {
	var zero S
	switch any(zero).(type) {
	case uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case Int24:
		return 3
	case uint32, int32, float32:
		return 4
	case float64:
		return 8
	default:
		panic("signal: unsupported sample kind")
	}
}
