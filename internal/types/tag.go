package types

import "time"

// RawFrame is a tag frame kept verbatim from the source so it can be
// re-emitted into every chunk (artwork, custom text, links, ...).
type RawFrame struct {
	ID   string
	Data []byte
}

// SourceTag is the descriptive metadata read once from the source file.
//
// The zero value is the default tag used when the source carries none:
// empty title and track 0.
type SourceTag struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Genre       string
	Comment     string
	Year        int
	TrackNumber int
	TrackTotal  int

	// Frames holds preserved frames. Shared read-only by every chunk tag.
	Frames []RawFrame
}

// IsEmpty reports whether no descriptive field was found.
func (t *SourceTag) IsEmpty() bool {
	return t.Title == "" && t.Artist == "" && t.Album == "" && t.AlbumArtist == "" &&
		t.Genre == "" && t.Comment == "" && t.Year == 0 && t.TrackNumber == 0 &&
		len(t.Frames) == 0
}

// ChunkTag is the metadata written into one chunk file.
type ChunkTag struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Genre       string
	Comment     string
	Year        int
	TrackNumber int
	TrackTotal  int
	Length      time.Duration
	Frames      []RawFrame
}
