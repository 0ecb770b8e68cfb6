package mp3

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	binutil "github.com/simonhull/mp3split/internal/binary"
	"github.com/simonhull/mp3split/internal/types"
)

// tagWriter encodes chunk tags as ID3v2.4 with UTF-8 text frames.
type tagWriter struct{}

// WriteTag writes tag as a complete ID3v2.4 block (header and frames, no
// padding).
func (tagWriter) WriteTag(w io.Writer, tag *types.ChunkTag) error {
	body, err := encodeFrames(tag)
	if err != nil {
		return err
	}
	if len(body) > binutil.MaxSynchsafe {
		return fmt.Errorf("ID3v2 tag body of %d bytes exceeds the maximum of %d", len(body), binutil.MaxSynchsafe)
	}

	sw := binutil.NewSafeWriter(w)
	if err := sw.WriteString("ID3"); err != nil {
		return err
	}
	// version 2.4.0, no flags
	if err := sw.WriteBytes([]byte{4, 0, 0}); err != nil {
		return err
	}
	if err := sw.WriteSynchsafe(uint32(len(body))); err != nil {
		return err
	}
	return sw.WriteBytes(body)
}

func encodeFrames(tag *types.ChunkTag) ([]byte, error) {
	var buf bytes.Buffer
	sw := binutil.NewSafeWriter(&buf)
	emitted := make(map[string]bool)

	text := func(id, value string) error {
		if value == "" {
			return nil
		}
		emitted[id] = true
		data := append([]byte{encUTF8}, value...)
		return writeFrame(sw, id, data)
	}

	if err := text("TIT2", tag.Title); err != nil {
		return nil, err
	}
	if err := text("TPE1", tag.Artist); err != nil {
		return nil, err
	}
	if err := text("TALB", tag.Album); err != nil {
		return nil, err
	}
	if err := text("TPE2", tag.AlbumArtist); err != nil {
		return nil, err
	}
	if err := text("TCON", tag.Genre); err != nil {
		return nil, err
	}
	if tag.Year > 0 {
		if err := text("TDRC", strconv.Itoa(tag.Year)); err != nil {
			return nil, err
		}
	}
	if tag.TrackNumber > 0 {
		track := strconv.Itoa(tag.TrackNumber)
		if tag.TrackTotal > 0 {
			track += "/" + strconv.Itoa(tag.TrackTotal)
		}
		if err := text("TRCK", track); err != nil {
			return nil, err
		}
	}
	if tag.Length > 0 {
		if err := text("TLEN", strconv.FormatInt(tag.Length.Milliseconds(), 10)); err != nil {
			return nil, err
		}
	}
	if tag.Comment != "" {
		// [encoding]["eng"][empty description\0][text]
		data := append([]byte{encUTF8, 'e', 'n', 'g', 0}, tag.Comment...)
		emitted["COMM"] = true
		if err := writeFrame(sw, "COMM", data); err != nil {
			return nil, err
		}
	}

	for _, f := range tag.Frames {
		if emitted[f.ID] {
			continue
		}
		if err := writeFrame(sw, f.ID, f.Data); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func writeFrame(sw *binutil.SafeWriter, id string, data []byte) error {
	if len(id) != 4 {
		return fmt.Errorf("invalid frame ID %q", id)
	}
	if len(data) > binutil.MaxSynchsafe {
		return fmt.Errorf("frame %s of %d bytes is too large", id, len(data))
	}
	if err := sw.WriteString(id); err != nil {
		return err
	}
	if err := sw.WriteSynchsafe(uint32(len(data))); err != nil {
		return err
	}
	if err := binutil.Write[uint16](sw, 0); err != nil {
		return err
	}
	return sw.WriteBytes(data)
}
