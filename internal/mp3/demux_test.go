package mp3

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/simonhull/mp3split/internal/mp3/mp3test"
	"github.com/simonhull/mp3split/internal/registry"
	"github.com/simonhull/mp3split/internal/types"
)

func openStream(t *testing.T, data []byte) registry.PacketReader {
	t.Helper()
	pr, err := demuxer{}.Open(bytes.NewReader(data), int64(len(data)), "test.mp3")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return pr
}

func readAll(t *testing.T, pr registry.PacketReader) []types.RawPacket {
	t.Helper()
	var packets []types.RawPacket
	for {
		pkt, err := pr.ReadPacket()
		if err == io.EOF {
			return packets
		}
		if err != nil {
			t.Fatalf("ReadPacket() error = %v", err)
		}
		packets = append(packets, pkt)
	}
}

func hasWarning(warnings []types.Warning, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

func TestDemux_PlainStream(t *testing.T) {
	spec := mp3test.LayerIII48k
	data := spec.Frames(10)

	pr := openStream(t, data)
	if got, want := pr.TimeBase(), (types.TimeBase{Num: 1, Den: 48000}); got != want {
		t.Errorf("TimeBase() = %v, want %v", got, want)
	}

	packets := readAll(t, pr)
	if len(packets) != 10 {
		t.Fatalf("got %d packets, want 10", len(packets))
	}
	for i, pkt := range packets {
		if pkt.PTS != uint64(i*1152) {
			t.Errorf("packet %d: PTS = %d, want %d", i, pkt.PTS, i*1152)
		}
		if pkt.Dur != 1152 {
			t.Errorf("packet %d: Dur = %d, want 1152", i, pkt.Dur)
		}
		if pkt.Offset != int64(i*spec.Length) {
			t.Errorf("packet %d: Offset = %d, want %d", i, pkt.Offset, i*spec.Length)
		}
		if !bytes.Equal(pkt.Data, spec.Frame(i)) {
			t.Errorf("packet %d: data differs from source frame", i)
		}
	}
	if len(pr.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", pr.Warnings())
	}
}

func TestDemux_MPEG2(t *testing.T) {
	spec := mp3test.MPEG2LayerIII24k
	pr := openStream(t, spec.Frames(4))

	if pr.TimeBase().Den != 24000 {
		t.Errorf("TimeBase().Den = %d, want 24000", pr.TimeBase().Den)
	}
	packets := readAll(t, pr)
	if len(packets) != 4 {
		t.Fatalf("got %d packets, want 4", len(packets))
	}
	if packets[3].PTS != 3*576 {
		t.Errorf("PTS = %d, want %d", packets[3].PTS, 3*576)
	}
}

func TestDemux_SkipsTags(t *testing.T) {
	spec := mp3test.LayerI48k
	id3 := mp3test.ID3v2(4, mp3test.TextFrame(4, "TIT2", "Title"))
	ape := apeTag()
	v1 := mp3test.ID3v1("Title", "", "", "", "", 0)
	data := mp3test.Concat(id3, spec.Frames(5), ape, v1)

	packets := readAll(t, openStream(t, data))
	if len(packets) != 5 {
		t.Fatalf("got %d packets, want 5", len(packets))
	}
	if packets[0].Offset != int64(len(id3)) {
		t.Errorf("first packet offset = %d, want %d", packets[0].Offset, len(id3))
	}
}

func TestDemux_ID3v2Footer(t *testing.T) {
	spec := mp3test.LayerI48k
	id3 := mp3test.ID3v2(4, mp3test.TextFrame(4, "TIT2", "Title"))
	id3[5] |= 0x10
	footer := append([]byte("3DI"), id3[3:10]...)
	data := mp3test.Concat(id3, footer, spec.Frames(3))

	packets := readAll(t, openStream(t, data))
	if len(packets) != 3 {
		t.Fatalf("got %d packets, want 3", len(packets))
	}
	if packets[0].Offset != int64(len(id3)+10) {
		t.Errorf("first packet offset = %d, want %d", packets[0].Offset, len(id3)+10)
	}
}

func TestDemux_JunkBetweenFrames(t *testing.T) {
	spec := mp3test.LayerIII48k
	data := mp3test.Concat(spec.Frames(3), []byte("garbage!"), spec.Frames(3))

	pr := openStream(t, data)
	packets := readAll(t, pr)
	if len(packets) != 6 {
		t.Fatalf("got %d packets, want 6", len(packets))
	}
	if packets[3].Offset != int64(3*spec.Length+8) {
		t.Errorf("packet 3 offset = %d, want %d", packets[3].Offset, 3*spec.Length+8)
	}
	if packets[3].PTS != 3*1152 {
		t.Errorf("packet 3 PTS = %d, want %d", packets[3].PTS, 3*1152)
	}

	warnings := pr.Warnings()
	if len(warnings) != 1 || !hasWarning(warnings, "skipped 8 bytes") {
		t.Errorf("warnings = %v, want one lost-sync warning", warnings)
	}
	if warnings[0].Offset != int64(3*spec.Length) {
		t.Errorf("warning offset = %d, want %d", warnings[0].Offset, 3*spec.Length)
	}
}

func TestDemux_FalseSyncBeforeFirstFrame(t *testing.T) {
	spec := mp3test.LayerIII48k
	junk := []byte{0xFF, 0xFB, 0x94, 0x64, 1, 2, 3, 4, 5, 6}
	data := mp3test.Concat(junk, spec.Frames(3))

	pr := openStream(t, data)
	packets := readAll(t, pr)
	if len(packets) != 3 {
		t.Fatalf("got %d packets, want 3", len(packets))
	}
	if packets[0].Offset != int64(len(junk)) {
		t.Errorf("first packet offset = %d, want %d", packets[0].Offset, len(junk))
	}
	if !hasWarning(pr.Warnings(), "before first frame") {
		t.Errorf("warnings = %v, want leading junk warning", pr.Warnings())
	}
}

func TestDemux_TruncatedFinalFrame(t *testing.T) {
	spec := mp3test.LayerIII48k
	data := mp3test.Concat(spec.Frames(5), spec.Frame(5)[:100])

	pr := openStream(t, data)
	packets := readAll(t, pr)
	if len(packets) != 5 {
		t.Fatalf("got %d packets, want 5", len(packets))
	}
	if !hasWarning(pr.Warnings(), "truncated") {
		t.Errorf("warnings = %v, want truncated frame warning", pr.Warnings())
	}
}

func TestDemux_SkipsXingFrame(t *testing.T) {
	spec := mp3test.LayerIII48k
	data := mp3test.Concat(spec.XingFrame(4), spec.Frames(4))

	pr := openStream(t, data)
	packets := readAll(t, pr)
	if len(packets) != 4 {
		t.Fatalf("got %d packets, want 4", len(packets))
	}
	if packets[0].PTS != 0 {
		t.Errorf("first PTS = %d, want 0", packets[0].PTS)
	}
	if packets[0].Offset != int64(spec.Length) {
		t.Errorf("first offset = %d, want %d", packets[0].Offset, spec.Length)
	}
	if !hasWarning(pr.Warnings(), "Xing") {
		t.Errorf("warnings = %v, want Xing warning", pr.Warnings())
	}
}

func TestDemux_FreeFormat(t *testing.T) {
	frame := make([]byte, 200)
	frame[0], frame[1], frame[2], frame[3] = 0xFF, 0xFB, 0x04, 0x64
	data := bytes.Repeat(frame, 3)

	_, err := demuxer{}.Open(bytes.NewReader(data), int64(len(data)), "free.mp3")
	var decErr *types.DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("Open() error = %v, want *types.DecodeError", err)
	}
}

func TestDemux_OversizedID3v2(t *testing.T) {
	data := mp3test.Concat([]byte{'I', 'D', '3', 4, 0, 0, 0x7F, 0x7F, 0x7F, 0x7F}, mp3test.LayerI48k.Frames(2))

	_, err := demuxer{}.Open(bytes.NewReader(data), int64(len(data)), "big.mp3")
	var decErr *types.DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("Open() error = %v, want *types.DecodeError", err)
	}
}

func TestDemux_TagOnly(t *testing.T) {
	data := mp3test.ID3v2(4, mp3test.TextFrame(4, "TIT2", "Nothing"))

	pr := openStream(t, data)
	if packets := readAll(t, pr); len(packets) != 0 {
		t.Errorf("got %d packets, want 0", len(packets))
	}
}

func TestDemux_NoFrames(t *testing.T) {
	adts := []byte{0xFF, 0xF1, 0x50, 0x80, 0x02, 0x1F, 0xFC, 0x21, 0x10, 0x05}
	tests := []struct {
		name string
		data []byte
	}{
		{"ADTS", bytes.Repeat(adts, 8)},
		{"text", []byte("this is not audio at all")},
		{"tagged text", mp3test.Concat(mp3test.ID3v2(4, mp3test.TextFrame(4, "TIT2", "x")), []byte("plain text"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := demuxer{}.Open(bytes.NewReader(tt.data), int64(len(tt.data)), "x.mp3")
			var decErr *types.DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("Open() error = %v, want *types.DecodeError", err)
			}
			if !strings.Contains(decErr.Reason, "no MPEG audio frames") {
				t.Errorf("Reason = %q", decErr.Reason)
			}
		})
	}
}

func TestPacketReader_Ticks(t *testing.T) {
	pr := &packetReader{tb: types.TimeBase{Num: 1, Den: 48000}}

	if got := pr.ticks(FrameHeader{Samples: 1152, SampleRate: 48000}); got != 1152 {
		t.Errorf("ticks at native rate = %d, want 1152", got)
	}
	// 1152 * 48000 / 44100 = 1253.88
	if got := pr.ticks(FrameHeader{Samples: 1152, SampleRate: 44100}); got != 1254 {
		t.Errorf("ticks at foreign rate = %d, want 1254", got)
	}
}

// apeTag returns an APEv2 tag with header and footer and no items.
func apeTag() []byte {
	block := func(flags uint32) []byte {
		b := make([]byte, 32)
		copy(b, "APETAGEX")
		b[8] = 0xD0 // version 2000
		b[9] = 0x07
		b[12] = 32 // size: footer only, no items
		b[20] = byte(flags)
		b[21] = byte(flags >> 8)
		b[22] = byte(flags >> 16)
		b[23] = byte(flags >> 24)
		return b
	}
	const hasHeader = 1 << 31
	return mp3test.Concat(block(hasHeader|1<<29), block(hasHeader))
}
