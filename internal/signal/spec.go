package signal

// SignalSpec describes the characteristics of a signal: its sampling rate and
// channel assignment. It is an immutable, copyable value.
type SignalSpec struct {
	// Rate is the signal sampling rate in hertz (Hz).
	Rate uint32
	// Channels is the channel assignment of the signal.
	Channels Channels
}

// NewSignalSpec creates a signal specification from a rate and channel mask.
func NewSignalSpec(rate uint32, channels Channels) SignalSpec {
	return SignalSpec{Rate: rate, Channels: channels}
}

// NewSignalSpecWithLayout creates a signal specification from a rate and a
// named channel layout.
func NewSignalSpecWithLayout(rate uint32, layout Layout) SignalSpec {
	return SignalSpec{Rate: rate, Channels: layout.Channels()}
}

// Duration indicates a span of time, expressed either as an exact number of
// frames or as seconds. It is only consulted at construction time to compute
// a frame capacity.
type Duration struct {
	frames  uint64
	seconds float64
	inTime  bool
}

// DurationFrames expresses a duration as an exact frame count.
func DurationFrames(frames uint64) Duration {
	return Duration{frames: frames}
}

// DurationSeconds expresses a duration as a time span in seconds.
func DurationSeconds(seconds float64) Duration {
	return Duration{seconds: seconds, inTime: true}
}

// Frames resolves the duration to a frame count at the given sample rate.
// Seconds durations truncate toward zero; negative spans resolve to zero.
func (d Duration) Frames(rate uint32) uint64 {
	if !d.inTime {
		return d.frames
	}
	frames := d.seconds * float64(rate)
	if frames <= 0 {
		return 0
	}
	return uint64(frames)
}

// Timestamp indicates an instantaneous moment in time, expressed either as a
// frame index or as seconds. The core only converts it; seek handling belongs
// to the caller.
type Timestamp struct {
	frame   uint64
	seconds float64
	inTime  bool
}

// TimestampFrame expresses a timestamp as a frame index.
func TimestampFrame(frame uint64) Timestamp {
	return Timestamp{frame: frame}
}

// TimestampTime expresses a timestamp in seconds.
func TimestampTime(seconds float64) Timestamp {
	return Timestamp{seconds: seconds, inTime: true}
}

// Frame resolves the timestamp to a frame index at the given sample rate.
func (t Timestamp) Frame(rate uint32) uint64 {
	if !t.inTime {
		return t.frame
	}
	frame := t.seconds * float64(rate)
	if frame <= 0 {
		return 0
	}
	return uint64(frame)
}
