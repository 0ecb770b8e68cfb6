// Package scan reads every elementary packet of a source file into memory.
package scan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/mp3split/internal/registry"
	"github.com/simonhull/mp3split/internal/types"
)

// Stream is the scanned packet arena of one source file.
type Stream struct {
	Format   types.Format
	TimeBase types.TimeBase

	// Packets in presentation order. Packet data alias a single buffer
	// owned by the Stream.
	Packets []types.Packet

	// Warnings encountered while demuxing (non-fatal issues)
	Warnings []types.Warning
}

// Scan opens path read-only and collects all of its packets.
//
// A file without any audio packets is not an error; the returned Stream
// has no Packets.
func Scan(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, &types.IOError{Op: "stat", Path: path, Err: err}
	}

	return ScanReader(f, stat.Size(), path)
}

// ScanReader scans from an io.ReaderAt of the given size.
func ScanReader(r io.ReaderAt, size int64, path string) (*Stream, error) {
	if size == 0 {
		return &Stream{}, nil
	}

	format, err := detectFormat(r, size, path)
	if err != nil {
		return nil, err
	}

	demuxer := registry.GetDemuxer(format)
	if demuxer == nil {
		return nil, &types.DecodeError{
			Path:   path,
			Reason: fmt.Sprintf("no demuxer available for format %s", format),
		}
	}

	pr, err := demuxer.Open(r, size, path)
	if err != nil {
		return nil, err
	}

	tb := pr.TimeBase()
	stream := &Stream{
		Format:   format,
		TimeBase: tb,
	}

	var prevPTS uint64
	for {
		raw, err := pr.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		n := len(stream.Packets)
		if n > 0 && raw.PTS <= prevPTS {
			return nil, &types.DecodeError{
				Path:   path,
				Reason: fmt.Sprintf("non-increasing timestamp %d after %d", raw.PTS, prevPTS),
				Offset: raw.Offset,
			}
		}
		if !tb.Valid() {
			return nil, &types.DecodeError{Path: path, Reason: fmt.Sprintf("invalid time base %s", tb)}
		}
		prevPTS = raw.PTS

		ts := tb.Duration(raw.PTS)
		stream.Packets = append(stream.Packets, types.Packet{
			Index:     n,
			PTS:       raw.PTS,
			Ticks:     raw.Dur,
			Timestamp: ts,
			Duration:  tb.Duration(raw.PTS+raw.Dur) - ts,
			Offset:    raw.Offset,
			Data:      raw.Data,
		})
	}

	stream.Warnings = pr.Warnings()
	return stream, nil
}

// detectFormat sniffs the container. MPEG audio preceded by junk has no
// signature, so a .mp3 extension is trusted when sniffing fails.
func detectFormat(r io.ReaderAt, size int64, path string) (types.Format, error) {
	format, err := types.DetectFormat(r, size, path)
	if err == nil {
		return format, nil
	}

	var decErr *types.DecodeError
	if errors.As(err, &decErr) && strings.EqualFold(filepath.Ext(path), ".mp3") {
		return types.FormatMP3, nil
	}
	return types.FormatUnknown, err
}
