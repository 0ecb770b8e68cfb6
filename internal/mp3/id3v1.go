package mp3

import (
	"strings"

	binutil "github.com/simonhull/mp3split/internal/binary"
	"github.com/simonhull/mp3split/internal/types"
)

// readID3v1 parses a trailing ID3v1/1.1 tag. It returns nil if there is none.
//
// Layout: "TAG" title(30) artist(30) album(30) year(4) comment(30) genre(1).
// ID3v1.1 stores the track number in the last comment byte when the one
// before it is zero.
func readID3v1(sr *binutil.SafeReader) (*types.SourceTag, error) {
	if sr.Size() < id3v1Size {
		return nil, nil
	}

	buf := make([]byte, id3v1Size)
	if err := sr.ReadAt(buf, sr.Size()-id3v1Size, "ID3v1 tag"); err != nil {
		return nil, &types.IOError{Op: "read", Path: sr.Path(), Err: err}
	}
	if string(buf[0:3]) != "TAG" {
		return nil, nil
	}

	tag := &types.SourceTag{
		Title:  id3v1String(buf[3:33]),
		Artist: id3v1String(buf[33:63]),
		Album:  id3v1String(buf[63:93]),
		Year:   parseYear(id3v1String(buf[93:97])),
	}

	comment := buf[97:127]
	if comment[28] == 0 && comment[29] != 0 {
		tag.TrackNumber = int(comment[29])
		comment = comment[:28]
	}
	tag.Comment = id3v1String(comment)

	return tag, nil
}

func id3v1String(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(decodeLatin1(b))
}
