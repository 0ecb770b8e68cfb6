// Package chunk writes planned packet ranges to standalone MP3 files.
package chunk

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	binutil "github.com/simonhull/mp3split/internal/binary"
	"github.com/simonhull/mp3split/internal/registry"
	"github.com/simonhull/mp3split/internal/tagging"
	"github.com/simonhull/mp3split/internal/types"
)

// Writer materialises chunk plans as {dir}/{prefix}_NNN.mp3 files.
type Writer struct {
	dir    string
	prefix string
	tags   registry.TagWriter
	log    *slog.Logger
}

// NewWriter creates a Writer. A nil tags writer produces untagged chunks;
// a nil logger uses slog.Default().
func NewWriter(dir, prefix string, tags registry.TagWriter, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	return &Writer{
		dir:    dir,
		prefix: prefix,
		tags:   tags,
		log:    log,
	}
}

// Path returns the output path of chunk index.
func (w *Writer) Path(index int) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_%03d%s", w.prefix, index, types.FormatMP3.Extension()))
}

// Write stores the packets of plan, preceded by the chunk's tag, at
// Path(plan.Index). The file appears atomically: on failure no partial
// output is left behind.
func (w *Writer) Write(plan types.ChunkPlan, packets []types.Packet, source *types.SourceTag, count int) (types.ChunkInfo, error) {
	info := types.ChunkInfo{
		Index:     plan.Index,
		Path:      w.Path(plan.Index),
		StartTime: plan.StartTime,
		EndTime:   plan.EndTime(),
		Packets:   plan.Len(),
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return info, &types.IOError{Op: "mkdir", Path: w.dir, Err: err}
	}

	// Create temp file in the output directory so the rename stays atomic
	tempFile, err := os.CreateTemp(w.dir, "."+w.prefix+"-*.tmp")
	if err != nil {
		return info, &types.IOError{Op: "create", Path: info.Path, Err: err}
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	bw := bufio.NewWriter(tempFile)
	sw := binutil.NewSafeWriter(bw)

	if w.tags != nil {
		tag := tagging.DeriveChunkTag(source, plan.Index, count, info)
		if err := w.tags.WriteTag(sw, &tag); err != nil {
			return info, &types.IOError{Op: "write tag", Path: info.Path, Err: err}
		}
	}

	for _, p := range packets[plan.Start:plan.End] {
		if err := sw.WriteBytes(p.Data); err != nil {
			return info, &types.IOError{Op: "write", Path: info.Path, Err: err}
		}
	}

	if err := bw.Flush(); err != nil {
		return info, &types.IOError{Op: "write", Path: info.Path, Err: err}
	}
	if err := tempFile.Chmod(0o644); err != nil {
		return info, &types.IOError{Op: "chmod", Path: info.Path, Err: err}
	}
	if err := tempFile.Sync(); err != nil {
		return info, &types.IOError{Op: "sync", Path: info.Path, Err: err}
	}
	if err := tempFile.Close(); err != nil {
		return info, &types.IOError{Op: "close", Path: info.Path, Err: err}
	}
	if err := os.Rename(tempPath, info.Path); err != nil {
		return info, &types.IOError{Op: "rename", Path: info.Path, Err: err}
	}
	success = true

	info.Bytes = sw.Offset()
	w.log.Debug("chunk written",
		"index", info.Index,
		"path", info.Path,
		"packets", info.Packets,
		"bytes", info.Bytes,
		"start", info.StartTime,
		"end", info.EndTime,
	)

	return info, nil
}
