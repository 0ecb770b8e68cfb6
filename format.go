package mp3split

import (
	"io"

	"github.com/simonhull/mp3split/internal/registry"
	"github.com/simonhull/mp3split/internal/types"
)

// Format is an alias to types.Format.
type Format = types.Format

// FormatMP3 is the only format Split accepts.
const (
	FormatUnknown = types.FormatUnknown
	FormatMP3     = types.FormatMP3
)

// Detection-only formats. DetectFormat recognises them so callers can
// report what a file is, but Split rejects them with a DecodeError.
const (
	FormatFLAC = types.FormatFLAC
	FormatOgg  = types.FormatOgg
	FormatWAV  = types.FormatWAV
	FormatAIFF = types.FormatAIFF
	FormatM4A  = types.FormatM4A
)

// DetectFormat is a wrapper around types.DetectFormat. Use Splittable to
// check whether the result can be passed to Split.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}

// Splittable reports whether Split has a demuxer for f.
func Splittable(f Format) bool {
	return registry.GetDemuxer(f) != nil
}
