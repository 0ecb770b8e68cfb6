package mp3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	binutil "github.com/simonhull/mp3split/internal/binary"
	"github.com/simonhull/mp3split/internal/types"
)

// ID3v2Header represents an ID3v2 tag header
type ID3v2Header struct {
	Version  byte // Major version (3 or 4)
	Revision byte // Minor version
	Flags    byte
	Size     uint32 // Tag size (excluding header), synchsafe
}

// Tag header flags.
const (
	flagUnsync    = 0x80
	flagExtHeader = 0x40
)

// ID3v2Frame represents a single ID3v2 frame
type ID3v2Frame struct {
	ID    string // 4-character frame ID (e.g., "TIT2", "APIC")
	Flags uint16 // Frame flags
	Data  []byte // Frame data, flags already applied
}

// Frames that are either mapped to SourceTag fields, regenerated per chunk,
// or describe timing of the whole file. They are not copied into chunks.
var droppedFrames = map[string]bool{
	"TIT2": true, "TPE1": true, "TALB": true, "TPE2": true, "TCON": true,
	"TYER": true, "TDRC": true, "TRCK": true, "TLEN": true, "COMM": true,
	"CHAP": true, "CTOC": true, "SEEK": true, "ASPI": true, "MLLT": true,
	"ETCO": true, "SYLT": true, "SYTC": true, "POSS": true,
	// ID3v2.3 frames without a v2.4 equivalent.
	"TDAT": true, "TIME": true, "TRDA": true, "TORY": true, "TSIZ": true,
	"RVAD": true, "EQUA": true, "IPLS": true,
}

// readID3v2 parses a leading ID3v2.3/2.4 tag. It returns a nil tag if the
// file does not start with one.
func readID3v2(sr *binutil.SafeReader) (*types.SourceTag, []types.Warning, error) {
	if sr.Size() < id3v2HeaderSize {
		return nil, nil, nil
	}

	buf := make([]byte, id3v2HeaderSize)
	if err := sr.ReadAt(buf, 0, "ID3v2 header"); err != nil {
		return nil, nil, &types.IOError{Op: "read", Path: sr.Path(), Err: err}
	}
	if string(buf[0:3]) != "ID3" {
		return nil, nil, nil
	}

	header := ID3v2Header{
		Version:  buf[3],
		Revision: buf[4],
		Flags:    buf[5],
		Size:     binutil.DecodeSynchsafe(buf[6:10]),
	}

	if header.Version != 3 && header.Version != 4 {
		return nil, []types.Warning{{
			Stage:   "tag",
			Message: fmt.Sprintf("unsupported ID3v2 version: 2.%d", header.Version),
		}}, nil
	}

	if int64(id3v2HeaderSize)+int64(header.Size) > sr.Size() {
		return nil, nil, &types.DecodeError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("ID3v2 tag size %d exceeds file size", header.Size),
		}
	}

	body := make([]byte, header.Size)
	if len(body) > 0 {
		if err := sr.ReadAt(body, id3v2HeaderSize, "ID3v2 tag body"); err != nil {
			return nil, nil, &types.IOError{Op: "read", Path: sr.Path(), Err: err}
		}
	}

	// In v2.3 unsynchronisation applies to the whole tag; in v2.4 to
	// every frame individually.
	tagUnsync := header.Flags&flagUnsync != 0
	if tagUnsync && header.Version == 3 {
		body = removeUnsync(body)
	}

	p := &id3v2Parser{
		version:   header.Version,
		tagUnsync: tagUnsync && header.Version == 4,
		path:      sr.Path(),
		tag:       &types.SourceTag{},
	}
	p.parseFrames(body, header.Flags&flagExtHeader != 0)

	return p.tag, p.warnings, nil
}

type id3v2Parser struct {
	version   byte
	tagUnsync bool
	path      string
	tag       *types.SourceTag
	warnings  []types.Warning
}

func (p *id3v2Parser) warn(offset int64, format string, args ...any) {
	p.warnings = append(p.warnings, types.Warning{
		Stage:   "tag",
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	})
}

func (p *id3v2Parser) parseFrames(body []byte, extended bool) {
	size := int64(len(body))
	r := binutil.NewReader(binutil.NewSafeReader(bytes.NewReader(body), size, p.path), 0)

	if extended {
		raw, err := r.ReadBytes(4, "extended header size")
		if err != nil {
			p.warn(id3v2HeaderSize, "truncated extended header")
			return
		}
		if p.version == 4 {
			// Size includes the size field itself.
			r.Skip(max(int64(binutil.DecodeSynchsafe(raw))-4, 0))
		} else {
			r.Skip(int64(binary.BigEndian.Uint32(raw)))
		}
	}

	for r.Offset()+10 <= size {
		frameOffset := r.Offset()
		id, err := r.ReadString(4, "frame ID")
		if err != nil {
			break
		}

		// Padding (null bytes indicate end of frames)
		if id[0] == 0 {
			break
		}
		if !validFrameID(id) {
			p.warn(id3v2HeaderSize+frameOffset, "invalid frame ID %q, stopping", id)
			break
		}

		rawSize, err := r.ReadBytes(4, "frame size")
		if err != nil {
			break
		}
		flags, err := binutil.ReadValue[uint16](r, "frame flags")
		if err != nil {
			break
		}

		var frameSize uint32
		if p.version == 4 {
			frameSize = binutil.DecodeSynchsafe(rawSize)
		} else {
			frameSize = binary.BigEndian.Uint32(rawSize)
		}

		if frameSize == 0 {
			continue
		}
		if int64(frameSize) > size-r.Offset() {
			p.warn(id3v2HeaderSize+frameOffset, "frame %s overruns tag, stopping", id)
			break
		}

		data, err := r.ReadBytes(int(frameSize), fmt.Sprintf("frame %s data", id))
		if err != nil {
			p.warn(id3v2HeaderSize+frameOffset, "frame %s overruns tag, stopping", id)
			break
		}

		data, err = p.applyFrameFlags(flags, data)
		if err != nil {
			p.warn(id3v2HeaderSize+frameOffset, "skipped frame %s: %v", id, err)
			continue
		}

		p.handleFrame(ID3v2Frame{ID: id, Flags: flags, Data: data})
	}
}

// applyFrameFlags strips per-frame additional data and undoes
// unsynchronisation. Compressed and encrypted frames are rejected.
func (p *id3v2Parser) applyFrameFlags(flags uint16, data []byte) ([]byte, error) {
	if p.version == 3 {
		switch {
		case flags&0x0080 != 0:
			return nil, fmt.Errorf("compressed frames are not supported")
		case flags&0x0040 != 0:
			return nil, fmt.Errorf("encrypted frames are not supported")
		}
		if flags&0x0020 != 0 {
			if len(data) < 1 {
				return nil, io.ErrUnexpectedEOF
			}
			data = data[1:]
		}
		return data, nil
	}

	switch {
	case flags&0x0008 != 0:
		return nil, fmt.Errorf("compressed frames are not supported")
	case flags&0x0004 != 0:
		return nil, fmt.Errorf("encrypted frames are not supported")
	}
	if flags&0x0040 != 0 {
		if len(data) < 1 {
			return nil, io.ErrUnexpectedEOF
		}
		data = data[1:]
	}
	if flags&0x0001 != 0 {
		if len(data) < 4 {
			return nil, io.ErrUnexpectedEOF
		}
		data = data[4:]
	}
	if flags&0x0002 != 0 || p.tagUnsync {
		data = removeUnsync(data)
	}
	return data, nil
}

func (p *id3v2Parser) handleFrame(frame ID3v2Frame) {
	tag := p.tag

	switch frame.ID {
	case "TIT2":
		tag.Title = decodeTextFrame(frame.Data)
	case "TPE1":
		tag.Artist = decodeTextFrame(frame.Data)
	case "TALB":
		tag.Album = decodeTextFrame(frame.Data)
	case "TPE2":
		tag.AlbumArtist = decodeTextFrame(frame.Data)
	case "TCON":
		tag.Genre = decodeTextFrame(frame.Data)
	case "TYER", "TDRC":
		if year := parseYear(decodeTextFrame(frame.Data)); year > 0 {
			tag.Year = year
		}
	case "TRCK":
		tag.TrackNumber, tag.TrackTotal = parseTrackNumber(decodeTextFrame(frame.Data))
	case "COMM":
		if tag.Comment == "" {
			tag.Comment = decodeCommentFrame(frame.Data)
		}
	}

	if !droppedFrames[frame.ID] {
		tag.Frames = append(tag.Frames, types.RawFrame{ID: frame.ID, Data: frame.Data})
	}
}

func validFrameID(id string) bool {
	if len(id) != 4 {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return (r < 'A' || r > 'Z') && (r < '0' || r > '9')
	}) < 0
}

// removeUnsync reverses ID3v2 unsynchronisation (0xFF 0x00 -> 0xFF).
func removeUnsync(data []byte) []byte {
	if bytes.IndexByte(data, 0xFF) < 0 {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		out = append(out, data[i])
		if data[i] == 0xFF && i+1 < len(data) && data[i+1] == 0x00 {
			i++
		}
	}
	return out
}
