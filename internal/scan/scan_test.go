package scan

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/simonhull/mp3split/internal/mp3"
	"github.com/simonhull/mp3split/internal/mp3/mp3test"
	"github.com/simonhull/mp3split/internal/registry"
	"github.com/simonhull/mp3split/internal/types"
)

func TestScan_Timestamps(t *testing.T) {
	spec := mp3test.LayerIII44k
	path := mp3test.WriteFile(t, t.TempDir(), "in.mp3", spec.Frames(100))

	stream, err := Scan(path)
	require.NoError(t, err)

	assert.Equal(t, types.FormatMP3, stream.Format)
	assert.Equal(t, types.TimeBase{Num: 1, Den: 44100}, stream.TimeBase)
	require.Len(t, stream.Packets, 100)

	for i, p := range stream.Packets {
		assert.Equal(t, i, p.Index)
		assert.Len(t, p.Data, spec.Length)
		if i > 0 {
			prev := stream.Packets[i-1]
			assert.Equal(t, prev.End(), p.Timestamp, "packet %d does not start where %d ends", i, i-1)
		}
	}

	// 100 * 1152 / 44100 s, truncated to the nanosecond.
	want := stream.TimeBase.Duration(100 * 1152)
	assert.Equal(t, want, types.TotalDuration(stream.Packets))
	assert.Equal(t, want, stream.Packets[99].End())
	assert.InDelta(t, float64(2612244897), float64(want), 1)
}

func TestScan_PacketBytesVerbatim(t *testing.T) {
	spec := mp3test.LayerI48k
	id3 := mp3test.ID3v2(4, mp3test.TextFrame(4, "TIT2", "x"))
	audio := spec.Frames(20)
	path := mp3test.WriteFile(t, t.TempDir(), "in.mp3", mp3test.Concat(id3, audio))

	stream, err := Scan(path)
	require.NoError(t, err)

	var got []byte
	for _, p := range stream.Packets {
		got = append(got, p.Data...)
	}
	assert.Equal(t, audio, got)
	assert.Equal(t, int64(len(id3)), stream.Packets[0].Offset)
	assert.Equal(t, 20*8*time.Millisecond, types.TotalDuration(stream.Packets))
}

func TestScan_LeadingJunkWithMP3Extension(t *testing.T) {
	data := mp3test.Concat([]byte("junkjunk"), mp3test.LayerIII48k.Frames(3))
	path := mp3test.WriteFile(t, t.TempDir(), "junk.MP3", data)

	stream, err := Scan(path)
	require.NoError(t, err)
	assert.Len(t, stream.Packets, 3)
	require.NotEmpty(t, stream.Warnings)
	assert.Equal(t, "scan", stream.Warnings[0].Stage)
}

func TestScan_Empty(t *testing.T) {
	dir := t.TempDir()

	t.Run("zero bytes", func(t *testing.T) {
		stream, err := Scan(mp3test.WriteFile(t, dir, "empty.mp3", nil))
		require.NoError(t, err)
		assert.Empty(t, stream.Packets)
	})

	t.Run("tag only", func(t *testing.T) {
		data := mp3test.ID3v2(4, mp3test.TextFrame(4, "TIT2", "Silence"))
		stream, err := Scan(mp3test.WriteFile(t, dir, "tag.mp3", data))
		require.NoError(t, err)
		assert.Empty(t, stream.Packets)
	})
}

func TestScan_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Scan(filepath.Join(dir, "nope.mp3"))
		var ioErr *types.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "open", ioErr.Op)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Scan(mp3test.WriteFile(t, dir, "notes.txt", []byte("hello, world")))
		var decErr *types.DecodeError
		require.ErrorAs(t, err, &decErr)
	})

	t.Run("ADTS stream", func(t *testing.T) {
		adts := []byte{0xFF, 0xF1, 0x50, 0x80, 0x02, 0x1F, 0xFC, 0x21, 0x10, 0x05}
		_, err := Scan(mp3test.WriteFile(t, dir, "song.aac.mp3", bytes.Repeat(adts, 8)))
		var decErr *types.DecodeError
		require.ErrorAs(t, err, &decErr)
		assert.Contains(t, decErr.Reason, "no MPEG audio frames")
	})

	t.Run("non-audio named mp3", func(t *testing.T) {
		_, err := Scan(mp3test.WriteFile(t, dir, "junk.mp3", []byte("hello, world")))
		var decErr *types.DecodeError
		require.ErrorAs(t, err, &decErr)
	})

	t.Run("no demuxer", func(t *testing.T) {
		_, err := Scan(mp3test.WriteFile(t, dir, "a.flac", []byte("fLaC\x00\x00\x00\x22")))
		var decErr *types.DecodeError
		require.ErrorAs(t, err, &decErr)
		assert.Contains(t, decErr.Reason, "FLAC")
	})
}

type fakeDemuxer struct {
	packets []types.RawPacket
}

func (d fakeDemuxer) Open(io.ReaderAt, int64, string) (registry.PacketReader, error) {
	return &fakeReader{packets: d.packets}, nil
}

type fakeReader struct {
	packets []types.RawPacket
}

func (r *fakeReader) TimeBase() types.TimeBase  { return types.TimeBase{Num: 1, Den: 1000} }
func (r *fakeReader) Warnings() []types.Warning { return nil }

func (r *fakeReader) ReadPacket() (types.RawPacket, error) {
	if len(r.packets) == 0 {
		return types.RawPacket{}, io.EOF
	}
	p := r.packets[0]
	r.packets = r.packets[1:]
	return p, nil
}

func TestScan_NonIncreasingTimestamps(t *testing.T) {
	registry.RegisterDemuxer(types.FormatWAV, fakeDemuxer{packets: []types.RawPacket{
		{PTS: 0, Dur: 10, Data: []byte{1}},
		{PTS: 10, Dur: 10, Data: []byte{2}},
		{PTS: 10, Dur: 10, Data: []byte{3}, Offset: 2},
	}})
	t.Cleanup(func() { registry.RegisterDemuxer(types.FormatWAV, nil) })

	data := []byte("RIFF\x00\x00\x00\x00WAVE")
	_, err := ScanReader(bytes.NewReader(data), int64(len(data)), "x.wav")

	var decErr *types.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, int64(2), decErr.Offset)
}
