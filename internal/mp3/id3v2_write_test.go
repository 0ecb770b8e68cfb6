package mp3

import (
	"bytes"
	"errors"
	"testing"
	"time"

	binutil "github.com/simonhull/mp3split/internal/binary"
	"github.com/simonhull/mp3split/internal/registry"
	"github.com/simonhull/mp3split/internal/types"
)

func TestWriteTag_RoundTrip(t *testing.T) {
	apic := []byte("\x00image/jpeg\x00\x03\x00\xFF\xD8\xFF")
	tag := &types.ChunkTag{
		Title:       "Book (Part 2)",
		Artist:      "Author",
		Album:       "Series",
		AlbumArtist: "Various",
		Genre:       "Audiobook",
		Comment:     "Part 2 of 5 (00:10:00.000 - 00:20:00.000)",
		Year:        2021,
		TrackNumber: 2,
		TrackTotal:  5,
		Length:      10 * time.Minute,
		Frames:      []types.RawFrame{{ID: "APIC", Data: apic}},
	}

	var buf bytes.Buffer
	if err := (tagWriter{}).WriteTag(&buf, tag); err != nil {
		t.Fatalf("WriteTag() error = %v", err)
	}

	out := buf.Bytes()
	if string(out[0:3]) != "ID3" || out[3] != 4 || out[4] != 0 || out[5] != 0 {
		t.Fatalf("bad tag header: % X", out[:10])
	}
	if size := binutil.DecodeSynchsafe(out[6:10]); int(size) != len(out)-10 {
		t.Errorf("tag size = %d, want %d", size, len(out)-10)
	}

	got, warnings := readTag(t, out)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if got.Title != tag.Title {
		t.Errorf("Title = %q, want %q", got.Title, tag.Title)
	}
	if got.Artist != tag.Artist || got.Album != tag.Album || got.AlbumArtist != tag.AlbumArtist {
		t.Errorf("people/album = %q/%q/%q", got.Artist, got.Album, got.AlbumArtist)
	}
	if got.Genre != tag.Genre {
		t.Errorf("Genre = %q, want %q", got.Genre, tag.Genre)
	}
	if got.Comment != tag.Comment {
		t.Errorf("Comment = %q, want %q", got.Comment, tag.Comment)
	}
	if got.Year != 2021 {
		t.Errorf("Year = %d, want 2021", got.Year)
	}
	if got.TrackNumber != 2 || got.TrackTotal != 5 {
		t.Errorf("track = %d/%d, want 2/5", got.TrackNumber, got.TrackTotal)
	}
	if len(got.Frames) != 1 || got.Frames[0].ID != "APIC" || !bytes.Equal(got.Frames[0].Data, apic) {
		t.Errorf("Frames = %v, want preserved APIC", got.Frames)
	}

	if !bytes.Contains(out, []byte("TLEN")) || !bytes.Contains(out, []byte("600000")) {
		t.Error("expected TLEN frame with length in milliseconds")
	}
}

func TestWriteTag_EmptyFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	if err := (tagWriter{}).WriteTag(&buf, &types.ChunkTag{Title: "Part 1", TrackNumber: 1}); err != nil {
		t.Fatalf("WriteTag() error = %v", err)
	}

	out := buf.Bytes()
	for _, id := range []string{"TPE1", "TALB", "TDRC", "COMM", "TLEN"} {
		if bytes.Contains(out, []byte(id)) {
			t.Errorf("unexpected %s frame", id)
		}
	}
	if !bytes.Contains(out, []byte("TRCK")) {
		t.Error("missing TRCK frame")
	}
	if bytes.Contains(out, []byte("1/")) {
		t.Error("track total written without a total")
	}
}

func TestWriteTag_PreservedFrameDoesNotDuplicate(t *testing.T) {
	tag := &types.ChunkTag{
		Title:  "Mine",
		Frames: []types.RawFrame{{ID: "TIT2", Data: []byte("\x03Theirs")}},
	}

	var buf bytes.Buffer
	if err := (tagWriter{}).WriteTag(&buf, tag); err != nil {
		t.Fatalf("WriteTag() error = %v", err)
	}
	if n := bytes.Count(buf.Bytes(), []byte("TIT2")); n != 1 {
		t.Errorf("TIT2 written %d times, want 1", n)
	}
}

func TestWriteTag_InvalidFrameID(t *testing.T) {
	tag := &types.ChunkTag{Frames: []types.RawFrame{{ID: "TT2", Data: []byte("x")}}}

	if err := (tagWriter{}).WriteTag(&bytes.Buffer{}, tag); err == nil {
		t.Error("expected error for three-character frame ID")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteTag_WriterError(t *testing.T) {
	if err := (tagWriter{}).WriteTag(failingWriter{}, &types.ChunkTag{Title: "x"}); err == nil {
		t.Error("expected write error")
	}
}

func TestRegistered(t *testing.T) {
	if registry.GetDemuxer(types.FormatMP3) == nil {
		t.Error("MP3 demuxer not registered")
	}
	if registry.GetTagReader(types.FormatMP3) == nil {
		t.Error("MP3 tag reader not registered")
	}
	if registry.GetTagWriter(types.FormatMP3) == nil {
		t.Error("MP3 tag writer not registered")
	}
}
