package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	binutil "github.com/simonhull/mp3split/internal/binary"
	"github.com/simonhull/mp3split/internal/registry"
	"github.com/simonhull/mp3split/internal/types"
)

const (
	id3v2HeaderSize = 10
	id3v1Size       = 128
	apeFooterSize   = 32
)

// demuxer iterates the MPEG audio frames of an MP3 file.
type demuxer struct{}

// Open locates the audio region of the file (between any leading ID3v2 tag
// and trailing ID3v1/APEv2 tags), loads it and synchronises on the first
// frame.
func (demuxer) Open(r io.ReaderAt, size int64, path string) (registry.PacketReader, error) {
	sr := binutil.NewSafeReader(r, size, path)

	start, err := skipID3v2(sr)
	if err != nil {
		return nil, err
	}
	end, err := trailingTagsStart(sr, start)
	if err != nil {
		return nil, err
	}

	data := make([]byte, end-start)
	if len(data) > 0 {
		if err := sr.ReadAt(data, start, "audio data"); err != nil {
			return nil, &types.IOError{Op: "read", Path: path, Err: err}
		}
	}

	pr := &packetReader{
		path: path,
		data: data,
		base: start,
		tb:   types.TimeBase{Num: 1, Den: 1},
	}

	pos, fh, ok := pr.findFrame(0)
	if !ok {
		if pr.freeFormat {
			return nil, &types.DecodeError{Path: path, Reason: errFreeFormat.Error(), Offset: start}
		}
		if len(data) > 0 {
			return nil, &types.DecodeError{
				Path:   path,
				Reason: fmt.Sprintf("no MPEG audio frames in %d bytes of data", len(data)),
				Offset: start,
			}
		}
		return pr, nil
	}

	if pos > 0 {
		pr.warn(0, fmt.Sprintf("skipped %d bytes before first frame", pos))
	}
	pr.pos = pos
	pr.synced = true
	pr.tb = types.TimeBase{Num: 1, Den: uint32(fh.SampleRate)}
	return pr, nil
}

// skipID3v2 returns the offset just past any leading ID3v2 tags.
func skipID3v2(sr *binutil.SafeReader) (int64, error) {
	var off int64
	header := make([]byte, id3v2HeaderSize)
	for off+id3v2HeaderSize <= sr.Size() {
		if err := sr.ReadAt(header, off, "ID3v2 header"); err != nil {
			return 0, &types.IOError{Op: "read", Path: sr.Path(), Err: err}
		}
		if string(header[0:3]) != "ID3" {
			break
		}

		tagSize := int64(id3v2HeaderSize) + int64(binutil.DecodeSynchsafe(header[6:10]))
		if header[5]&0x10 != 0 {
			tagSize += id3v2HeaderSize // footer
		}
		if off+tagSize > sr.Size() {
			return 0, &types.DecodeError{
				Path:   sr.Path(),
				Reason: fmt.Sprintf("ID3v2 tag claims %d bytes but file has %d", tagSize, sr.Size()-off),
				Offset: off,
			}
		}
		off += tagSize
	}
	return off, nil
}

// trailingTagsStart returns the offset where trailing ID3v1 and APEv2 tags
// begin, or the file size if there are none.
func trailingTagsStart(sr *binutil.SafeReader, start int64) (int64, error) {
	end := sr.Size()

	if end-start >= id3v1Size {
		magic := make([]byte, 3)
		if err := sr.ReadAt(magic, end-id3v1Size, "ID3v1 tag"); err != nil {
			return 0, &types.IOError{Op: "read", Path: sr.Path(), Err: err}
		}
		if string(magic) == "TAG" {
			end -= id3v1Size
		}
	}

	if end-start >= apeFooterSize {
		footer := make([]byte, apeFooterSize)
		if err := sr.ReadAt(footer, end-apeFooterSize, "APEv2 footer"); err != nil {
			return 0, &types.IOError{Op: "read", Path: sr.Path(), Err: err}
		}
		if string(footer[0:8]) == "APETAGEX" {
			tagSize := int64(binary.LittleEndian.Uint32(footer[12:16]))
			if binary.LittleEndian.Uint32(footer[20:24])&(1<<31) != 0 {
				tagSize += apeFooterSize // header
			}
			if tagSize <= end-start {
				end -= tagSize
			}
		}
	}

	return end, nil
}

// packetReader yields the frames of an in-memory audio region. Packet data
// are subslices of the region.
type packetReader struct {
	path string
	data []byte
	base int64
	pos  int
	tb   types.TimeBase
	pts  uint64

	synced     bool
	sawFirst   bool
	freeFormat bool
	warnings   []types.Warning
}

func (pr *packetReader) TimeBase() types.TimeBase {
	return pr.tb
}

func (pr *packetReader) Warnings() []types.Warning {
	return pr.warnings
}

// ReadPacket returns the next audio frame, or io.EOF.
func (pr *packetReader) ReadPacket() (types.RawPacket, error) {
	for {
		if !pr.synced {
			pos, _, ok := pr.findFrame(pr.pos)
			if pos > pr.pos {
				pr.warn(pr.pos, fmt.Sprintf("lost sync, skipped %d bytes", pos-pr.pos))
			}
			pr.pos = pos
			if !ok {
				return types.RawPacket{}, io.EOF
			}
			pr.synced = true
		}

		remaining := len(pr.data) - pr.pos
		if remaining == 0 {
			return types.RawPacket{}, io.EOF
		}
		if remaining < 4 {
			pr.warn(pr.pos, fmt.Sprintf("ignored %d trailing bytes", remaining))
			pr.pos = len(pr.data)
			return types.RawPacket{}, io.EOF
		}

		fh, err := ParseFrameHeader(binary.BigEndian.Uint32(pr.data[pr.pos:]))
		if err != nil {
			pr.synced = false
			continue
		}
		if fh.Length > remaining {
			pr.warn(pr.pos, fmt.Sprintf("dropped truncated frame (%d of %d bytes)", remaining, fh.Length))
			pr.pos = len(pr.data)
			return types.RawPacket{}, io.EOF
		}

		start := pr.pos
		frame := pr.data[start : start+fh.Length]
		pr.pos += fh.Length

		if !pr.sawFirst {
			pr.sawFirst = true
			if vbr, ok := parseVBRHeader(fh, frame); ok {
				pr.warn(start, fmt.Sprintf("skipped %s header frame", vbr.Kind))
				continue
			}
		}

		dur := pr.ticks(fh)
		pkt := types.RawPacket{
			PTS:    pr.pts,
			Dur:    dur,
			Offset: pr.base + int64(start),
			Data:   frame,
		}
		pr.pts += dur
		return pkt, nil
	}
}

// ticks converts the frame's sample count into time base units.
func (pr *packetReader) ticks(fh FrameHeader) uint64 {
	sr := uint64(fh.SampleRate)
	if sr == uint64(pr.tb.Den) {
		return uint64(fh.Samples)
	}
	return (uint64(fh.Samples)*uint64(pr.tb.Den) + sr/2) / sr
}

// findFrame searches from off for a frame header whose successor is also a
// compatible header (or that ends the region). It returns len(data) and
// false when none is found.
func (pr *packetReader) findFrame(off int) (int, FrameHeader, bool) {
	for i := off; i+4 <= len(pr.data); i++ {
		if pr.data[i] != 0xFF {
			continue
		}
		fh, err := ParseFrameHeader(binary.BigEndian.Uint32(pr.data[i:]))
		if err != nil {
			if errors.Is(err, errFreeFormat) {
				pr.freeFormat = true
			}
			continue
		}

		next := i + fh.Length
		if next+4 > len(pr.data) {
			return i, fh, true
		}
		nh, err := ParseFrameHeader(binary.BigEndian.Uint32(pr.data[next:]))
		if err == nil && fh.compatible(nh) {
			return i, fh, true
		}
	}
	return len(pr.data), FrameHeader{}, false
}

func (pr *packetReader) warn(pos int, msg string) {
	pr.warnings = append(pr.warnings, types.Warning{
		Stage:   "scan",
		Message: msg,
		Offset:  pr.base + int64(pos),
	})
}
