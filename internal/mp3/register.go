package mp3

import (
	"io"

	binutil "github.com/simonhull/mp3split/internal/binary"
	"github.com/simonhull/mp3split/internal/registry"
	"github.com/simonhull/mp3split/internal/types"
)

func init() {
	registry.RegisterDemuxer(types.FormatMP3, demuxer{})
	registry.RegisterTagReader(types.FormatMP3, tagReader{})
	registry.RegisterTagWriter(types.FormatMP3, tagWriter{})
}

// tagReader reads ID3v2.3/2.4, falling back to ID3v1 when the ID3v2 tag is
// absent or carries nothing useful.
type tagReader struct{}

func (tagReader) ReadTag(r io.ReaderAt, size int64, path string) (*types.SourceTag, []types.Warning, error) {
	sr := binutil.NewSafeReader(r, size, path)

	tag, warnings, err := readID3v2(sr)
	if err != nil {
		return nil, warnings, err
	}
	if tag != nil && !tag.IsEmpty() {
		return tag, warnings, nil
	}

	v1, err := readID3v1(sr)
	if err != nil {
		return tag, warnings, err
	}
	if v1 != nil {
		return v1, warnings, nil
	}
	return tag, warnings, nil
}
