// Package registry maps container formats to the demuxing and tag-metadata
// facilities that understand them.
package registry

import (
	"io"

	"github.com/simonhull/mp3split/internal/types"
)

// Demuxer opens a container and exposes its elementary packets.
type Demuxer interface {
	// Open prepares a PacketReader over r. Container-level problems are
	// reported as *types.DecodeError.
	Open(r io.ReaderAt, size int64, path string) (PacketReader, error)
}

// PacketReader yields elementary packets in stream order.
type PacketReader interface {
	// TimeBase is the unit of RawPacket.PTS and RawPacket.Dur.
	TimeBase() types.TimeBase

	// ReadPacket returns the next packet, or io.EOF after the last one.
	ReadPacket() (types.RawPacket, error)

	// Warnings returns non-fatal issues met so far.
	Warnings() []types.Warning
}

// TagReader reads the descriptive metadata block of a file.
type TagReader interface {
	// ReadTag returns the source tag. A nil tag with a nil error means the
	// file carries no tag.
	ReadTag(r io.ReaderAt, size int64, path string) (*types.SourceTag, []types.Warning, error)
}

// TagWriter encodes a descriptive metadata block.
type TagWriter interface {
	// WriteTag writes tag to w in the form expected at the start of a file.
	WriteTag(w io.Writer, tag *types.ChunkTag) error
}

var (
	demuxers   = make(map[types.Format]Demuxer)
	tagReaders = make(map[types.Format]TagReader)
	tagWriters = make(map[types.Format]TagWriter)
)

// RegisterDemuxer registers a demuxer for a format.
// This is called by format packages during initialization (init functions).
func RegisterDemuxer(format types.Format, d Demuxer) {
	demuxers[format] = d
}

// GetDemuxer returns the demuxer for a format, or nil.
func GetDemuxer(format types.Format) Demuxer {
	return demuxers[format]
}

// RegisterTagReader registers a tag reader for a format.
func RegisterTagReader(format types.Format, r TagReader) {
	tagReaders[format] = r
}

// GetTagReader returns the tag reader for a format, or nil.
func GetTagReader(format types.Format) TagReader {
	return tagReaders[format]
}

// RegisterTagWriter registers a tag writer for a format.
func RegisterTagWriter(format types.Format, w TagWriter) {
	tagWriters[format] = w
}

// GetTagWriter returns the tag writer for a format, or nil.
func GetTagWriter(format types.Format) TagWriter {
	return tagWriters[format]
}
