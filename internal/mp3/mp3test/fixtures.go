// Package mp3test builds synthetic MPEG audio streams and ID3 tags for tests.
package mp3test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// FrameSpec describes a constant frame layout.
type FrameSpec struct {
	Header     uint32
	Length     int
	Samples    int
	SampleRate int
}

// Duration returns the playing time of one frame.
func (s FrameSpec) Duration() time.Duration {
	return time.Duration(s.Samples) * time.Second / time.Duration(s.SampleRate)
}

// Frame layouts used across tests.
var (
	// MPEG-1 Layer I, 32 kbps, 48 kHz, mono: 32 bytes, 8ms.
	LayerI48k = FrameSpec{Header: 0xFFFF14C0, Length: 32, Samples: 384, SampleRate: 48000}

	// MPEG-1 Layer III, 128 kbps, 48 kHz, joint stereo: 384 bytes, 24ms.
	LayerIII48k = FrameSpec{Header: 0xFFFB9464, Length: 384, Samples: 1152, SampleRate: 48000}

	// MPEG-1 Layer III, 128 kbps, 44.1 kHz, mono, unpadded and padded.
	LayerIII44k       = FrameSpec{Header: 0xFFFB90C4, Length: 417, Samples: 1152, SampleRate: 44100}
	LayerIII44kPadded = FrameSpec{Header: 0xFFFB92C4, Length: 418, Samples: 1152, SampleRate: 44100}

	// MPEG-2 Layer III, 64 kbps, 24 kHz, mono: 192 bytes, 24ms.
	MPEG2LayerIII24k = FrameSpec{Header: 0xFFF384C4, Length: 192, Samples: 576, SampleRate: 24000}
)

// Frame returns one frame whose payload bytes are derived from seq, so
// that frames are distinguishable after splitting.
func (s FrameSpec) Frame(seq int) []byte {
	b := make([]byte, s.Length)
	binary.BigEndian.PutUint32(b, s.Header)
	for i := 4; i < len(b); i++ {
		// Never 0xFF so payload cannot look like a sync word.
		b[i] = byte((seq*7 + i) % 0xFF)
	}
	return b
}

// Frames returns n consecutive frames.
func (s FrameSpec) Frames(n int) []byte {
	out := make([]byte, 0, n*s.Length)
	for i := range n {
		out = append(out, s.Frame(i)...)
	}
	return out
}

// XingFrame returns a Layer III frame carrying a Xing header that declares
// frames audio frames. s must be an MPEG-1 stereo Layer III layout.
func (s FrameSpec) XingFrame(frames uint32) []byte {
	b := make([]byte, s.Length)
	binary.BigEndian.PutUint32(b, s.Header)
	off := 4 + 32
	if s.Header&0x000000C0 == 0xC0 {
		off = 4 + 17
	}
	copy(b[off:], "Xing")
	binary.BigEndian.PutUint32(b[off+4:], 0x0001)
	binary.BigEndian.PutUint32(b[off+8:], frames)
	return b
}

// ID3v2 builds a tag of the given major version (3 or 4) from encoded frames.
func ID3v2(version byte, frames ...[]byte) []byte {
	body := bytes.Join(frames, nil)
	out := []byte{'I', 'D', '3', version, 0, 0}
	out = append(out, synchsafe(uint32(len(body)))...)
	return append(out, body...)
}

// RawFrame encodes one ID3v2 frame. Sizes are synchsafe for version 4.
func RawFrame(version byte, id string, flags uint16, data []byte) []byte {
	out := []byte(id)
	if version == 4 {
		out = append(out, synchsafe(uint32(len(data)))...)
	} else {
		out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	}
	out = binary.BigEndian.AppendUint16(out, flags)
	return append(out, data...)
}

// TextFrame encodes a UTF-8 (v4) or Latin-1 (v3) text frame.
func TextFrame(version byte, id, text string) []byte {
	enc := byte(3)
	if version == 3 {
		enc = 0
	}
	return RawFrame(version, id, 0, append([]byte{enc}, text...))
}

// CommentFrame encodes a COMM frame with an empty description.
func CommentFrame(version byte, text string) []byte {
	enc := byte(3)
	if version == 3 {
		enc = 0
	}
	return RawFrame(version, "COMM", 0, append([]byte{enc, 'e', 'n', 'g', 0}, text...))
}

// ID3v1 builds a 128-byte ID3v1.1 tag. A zero track yields plain ID3v1.
func ID3v1(title, artist, album, year, comment string, track byte) []byte {
	b := make([]byte, 128)
	copy(b[0:3], "TAG")
	copy(b[3:33], title)
	copy(b[33:63], artist)
	copy(b[63:93], album)
	copy(b[93:97], year)
	copy(b[97:127], comment)
	if track > 0 {
		b[125] = 0
		b[126] = track
	}
	b[127] = 0xFF
	return b
}

// Concat joins byte slices.
func Concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

func synchsafe(v uint32) []byte {
	return []byte{byte(v>>21) & 0x7F, byte(v>>14) & 0x7F, byte(v>>7) & 0x7F, byte(v) & 0x7F}
}
