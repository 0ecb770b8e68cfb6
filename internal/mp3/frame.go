package mp3

import (
	"errors"
	"fmt"
)

// MPEG audio versions as encoded in the frame header.
const (
	mpeg25 = 0
	mpeg2  = 2
	mpeg1  = 3
)

// Layers as encoded in the frame header.
const (
	layerIII = 1
	layerII  = 2
	layerI   = 3
)

const channelModeMono = 3

var (
	errNoSync             = errors.New("no frame sync")
	errReservedVersion    = errors.New("reserved MPEG version")
	errReservedLayer      = errors.New("reserved layer")
	errBadBitrate         = errors.New("invalid bitrate index")
	errFreeFormat         = errors.New("free-format bitrate is not supported")
	errReservedSampleRate = errors.New("reserved sample rate")
	errReservedEmphasis   = errors.New("reserved emphasis")
)

// Bitrates in kbps, indexed by bitrate index.
var (
	bitratesV1L1 = [15]int{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448}
	bitratesV1L2 = [15]int{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384}
	bitratesV1L3 = [15]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}
	bitratesV2L1 = [15]int{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256}
	bitratesV2L2 = [15]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}
)

var sampleRates = map[int][3]int{
	mpeg1:  {44100, 48000, 32000},
	mpeg2:  {22050, 24000, 16000},
	mpeg25: {11025, 12000, 8000},
}

// FrameHeader is a decoded MPEG audio frame header.
type FrameHeader struct {
	Version     int // raw 2-bit version id
	Layer       int // raw 2-bit layer id
	Bitrate     int // bits per second
	SampleRate  int // Hz
	Padding     bool
	Protected   bool // CRC follows the header
	ChannelMode int

	// Length is the full frame size in bytes, header included.
	Length int

	// Samples is the number of PCM samples per channel the frame decodes to.
	Samples int
}

// ParseFrameHeader decodes the 4-byte big-endian header h.
func ParseFrameHeader(h uint32) (FrameHeader, error) {
	if h&0xFFE00000 != 0xFFE00000 {
		return FrameHeader{}, errNoSync
	}

	fh := FrameHeader{
		Version:     int(h>>19) & 0x3,
		Layer:       int(h>>17) & 0x3,
		Protected:   (h>>16)&0x1 == 0,
		Padding:     (h>>9)&0x1 == 1,
		ChannelMode: int(h>>6) & 0x3,
	}

	if fh.Version == 1 {
		return FrameHeader{}, errReservedVersion
	}
	if fh.Layer == 0 {
		return FrameHeader{}, errReservedLayer
	}

	bitrateIdx := int(h>>12) & 0xF
	switch bitrateIdx {
	case 0:
		return FrameHeader{}, errFreeFormat
	case 15:
		return FrameHeader{}, errBadBitrate
	}

	srIdx := int(h>>10) & 0x3
	if srIdx == 3 {
		return FrameHeader{}, errReservedSampleRate
	}
	if h&0x3 == 2 {
		return FrameHeader{}, errReservedEmphasis
	}

	fh.Bitrate = bitrateTable(fh.Version, fh.Layer)[bitrateIdx] * 1000
	fh.SampleRate = sampleRates[fh.Version][srIdx]
	fh.Samples = samplesPerFrame(fh.Version, fh.Layer)

	pad := 0
	if fh.Padding {
		pad = 1
	}
	if fh.Layer == layerI {
		fh.Length = (12*fh.Bitrate/fh.SampleRate + pad) * 4
	} else {
		fh.Length = fh.Samples/8*fh.Bitrate/fh.SampleRate + pad
	}

	return fh, nil
}

func bitrateTable(version, layer int) [15]int {
	if version == mpeg1 {
		switch layer {
		case layerI:
			return bitratesV1L1
		case layerII:
			return bitratesV1L2
		default:
			return bitratesV1L3
		}
	}
	if layer == layerI {
		return bitratesV2L1
	}
	return bitratesV2L2
}

func samplesPerFrame(version, layer int) int {
	switch {
	case layer == layerI:
		return 384
	case layer == layerIII && version != mpeg1:
		return 576
	default:
		return 1152
	}
}

// sideInfoSize returns the Layer III side information length.
func (fh FrameHeader) sideInfoSize() int {
	mono := fh.ChannelMode == channelModeMono
	switch {
	case fh.Version == mpeg1 && mono:
		return 17
	case fh.Version == mpeg1:
		return 32
	case mono:
		return 9
	default:
		return 17
	}
}

// compatible reports whether two headers plausibly belong to the same stream.
func (fh FrameHeader) compatible(other FrameHeader) bool {
	return fh.Version == other.Version && fh.Layer == other.Layer && fh.SampleRate == other.SampleRate
}

func (fh FrameHeader) String() string {
	v := map[int]string{mpeg1: "1", mpeg2: "2", mpeg25: "2.5"}[fh.Version]
	l := map[int]string{layerI: "I", layerII: "II", layerIII: "III"}[fh.Layer]
	return fmt.Sprintf("MPEG-%s Layer %s %d kbps %d Hz", v, l, fh.Bitrate/1000, fh.SampleRate)
}
