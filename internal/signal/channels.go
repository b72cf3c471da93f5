package signal

import (
	"fmt"
	"math/bits"
)

// Channels is a bit mask of all channels contained in a signal. The order of
// channels within a frame or plane array always follows the ascending bit
// order of the mask, least-significant bit first.
type Channels uint32

const (
	// ChannelFrontLeft is the front-left (left) or mono channel.
	ChannelFrontLeft Channels = 1 << iota
	// ChannelFrontRight is the front-right (right) channel.
	ChannelFrontRight
	// ChannelFrontCentre is the front-centre (centre) channel.
	ChannelFrontCentre
	// ChannelRearLeft is the rear-left (surround rear left) channel.
	ChannelRearLeft
	// ChannelRearCentre is the rear-centre (surround rear centre) channel.
	ChannelRearCentre
	// ChannelRearRight is the rear-right (surround rear right) channel.
	ChannelRearRight
	// ChannelLFE1 is low frequency channel 1.
	ChannelLFE1
	// ChannelFrontLeftCentre is the front left-of-centre channel.
	ChannelFrontLeftCentre
	// ChannelFrontRightCentre is the front right-of-centre channel.
	ChannelFrontRightCentre
	// ChannelRearLeftCentre is the rear left-of-centre channel.
	ChannelRearLeftCentre
	// ChannelRearRightCentre is the rear right-of-centre channel.
	ChannelRearRightCentre
	// ChannelFrontLeftWide is the front left-wide channel.
	ChannelFrontLeftWide
	// ChannelFrontRightWide is the front right-wide channel.
	ChannelFrontRightWide
	// ChannelFrontLeftHigh is the front left-high channel.
	ChannelFrontLeftHigh
	// ChannelFrontCentreHigh is the front centre-high channel.
	ChannelFrontCentreHigh
	// ChannelFrontRightHigh is the front right-high channel.
	ChannelFrontRightHigh
	// ChannelLFE2 is low frequency channel 2.
	ChannelLFE2
	// ChannelSideLeft is the side left (surround left) channel.
	ChannelSideLeft
	// ChannelSideRight is the side right (surround right) channel.
	ChannelSideRight
	// ChannelTopCentre is the top centre channel.
	ChannelTopCentre
	// ChannelTopFrontLeft is the top front-left channel.
	ChannelTopFrontLeft
	// ChannelTopFrontCentre is the top front-centre channel.
	ChannelTopFrontCentre
	// ChannelTopFrontRight is the top front-right channel.
	ChannelTopFrontRight
	// ChannelTopRearLeft is the top rear-left channel.
	ChannelTopRearLeft
	// ChannelTopRearCentre is the top rear-centre channel.
	ChannelTopRearCentre
	// ChannelTopRearRight is the top rear-right channel.
	ChannelTopRearRight
	// ChannelTopSideLeft is the top side-left channel.
	ChannelTopSideLeft
)

// Count returns the number of channels in the mask.
func (c Channels) Count() int {
	return bits.OnesCount32(uint32(c))
}

// String formats the mask as a binary channel map.
func (c Channels) String() string {
	return fmt.Sprintf("%#032b", uint32(c))
}

// Layout describes common audio channel configurations.
type Layout int

const (
	// LayoutMono is a single channel, mapped to the front-left position.
	LayoutMono Layout = iota
	// LayoutStereo is left and right channels.
	LayoutStereo
	// LayoutTwoPointOne is left and right channels with a single low-frequency channel.
	LayoutTwoPointOne
	// LayoutFivePointOne is front left and right, centre, rear left and right,
	// and a single low-frequency channel.
	LayoutFivePointOne
)

// Channels expands the layout into its canonical channel bit mask.
func (l Layout) Channels() Channels {
	switch l {
	case LayoutMono:
		return ChannelFrontLeft
	case LayoutStereo:
		return ChannelFrontLeft | ChannelFrontRight
	case LayoutTwoPointOne:
		return ChannelFrontLeft | ChannelFrontRight | ChannelLFE1
	case LayoutFivePointOne:
		return ChannelFrontLeft | ChannelFrontRight | ChannelFrontCentre |
			ChannelRearLeft | ChannelRearRight | ChannelLFE1
	default:
		panic(fmt.Sprintf("signal: unknown layout %d", l))
	}
}

// DefaultChannels returns a positional channel mask for a bare channel count,
// for codecs that only report how many channels they decoded. Mono and stereo
// map to their named layouts; larger counts fill the lowest mask bits.
func DefaultChannels(count int) Channels {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return LayoutMono.Channels()
	case count == 2:
		return LayoutStereo.Channels()
	default:
		return Channels(1<<uint(count)) - 1
	}
}
