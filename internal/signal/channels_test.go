package signal

import (
	"testing"
)

func TestChannelsCount(t *testing.T) {
	tests := []struct {
		name     string
		channels Channels
		want     int
	}{
		{"empty", 0, 0},
		{"mono", ChannelFrontLeft, 1},
		{"stereo", ChannelFrontLeft | ChannelFrontRight, 2},
		{"five_point_one", LayoutFivePointOne.Channels(), 6},
		{"sparse mask", ChannelLFE2 | ChannelTopRearRight | ChannelFrontCentre, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.channels.Count(); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLayoutChannels(t *testing.T) {
	if LayoutMono.Channels() != ChannelFrontLeft {
		t.Errorf("mono layout = %v", LayoutMono.Channels())
	}

	if LayoutStereo.Channels() != ChannelFrontLeft|ChannelFrontRight {
		t.Errorf("stereo layout = %v", LayoutStereo.Channels())
	}

	if LayoutTwoPointOne.Channels() != ChannelFrontLeft|ChannelFrontRight|ChannelLFE1 {
		t.Errorf("2.1 layout = %v", LayoutTwoPointOne.Channels())
	}

	want := ChannelFrontLeft | ChannelFrontRight | ChannelFrontCentre |
		ChannelRearLeft | ChannelRearRight | ChannelLFE1
	if LayoutFivePointOne.Channels() != want {
		t.Errorf("5.1 layout = %v, want %v", LayoutFivePointOne.Channels(), want)
	}
}

func TestDefaultChannels(t *testing.T) {
	if DefaultChannels(0) != 0 {
		t.Error("expected empty mask for zero channels")
	}

	if DefaultChannels(1) != LayoutMono.Channels() {
		t.Error("expected mono layout for one channel")
	}

	if DefaultChannels(2) != LayoutStereo.Channels() {
		t.Error("expected stereo layout for two channels")
	}

	six := DefaultChannels(6)
	if six.Count() != 6 {
		t.Errorf("expected 6 channels, got %d", six.Count())
	}

	// Positional masks fill the lowest bits so plane order tracks bit order.
	if six != Channels(1<<6)-1 {
		t.Errorf("expected lowest six bits set, got %v", six)
	}
}
