// Package tagging reads the source file's descriptive metadata and derives
// the tag written into each chunk.
package tagging

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/simonhull/mp3split/internal/registry"
	"github.com/simonhull/mp3split/internal/types"
)

// ReadSourceTag reads the tag of the file at path once.
//
// It never fails: a missing, unreadable or unsupported tag yields the
// default (empty) tag, with any problem reported as a warning.
func ReadSourceTag(path string, format types.Format) (*types.SourceTag, []types.Warning) {
	reader := registry.GetTagReader(format)
	if reader == nil {
		return &types.SourceTag{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return &types.SourceTag{}, []types.Warning{tagWarning(err)}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return &types.SourceTag{}, []types.Warning{tagWarning(err)}
	}

	tag, warnings, err := reader.ReadTag(f, stat.Size(), path)
	if err != nil {
		warnings = append(warnings, tagWarning(err))
	}
	if tag == nil {
		tag = &types.SourceTag{}
	}
	return tag, warnings
}

func tagWarning(err error) types.Warning {
	return types.Warning{
		Stage:   "tag",
		Message: fmt.Sprintf("metadata unreadable, using defaults: %v", err),
	}
}

// DeriveChunkTag builds the tag for chunk index (1-based) of count.
func DeriveChunkTag(source *types.SourceTag, index, count int, chunk types.ChunkInfo) types.ChunkTag {
	if source == nil {
		source = &types.SourceTag{}
	}

	title := "Part " + strconv.Itoa(index)
	if source.Title != "" {
		title = source.Title + " (" + title + ")"
	}

	comment := fmt.Sprintf("Part %d of %d (%s - %s)",
		index, count, FormatTimestamp(chunk.StartTime), FormatTimestamp(chunk.EndTime))
	if source.Comment != "" {
		comment += "\n" + source.Comment
	}

	return types.ChunkTag{
		Title:       title,
		Artist:      source.Artist,
		Album:       source.Album,
		AlbumArtist: source.AlbumArtist,
		Genre:       source.Genre,
		Year:        source.Year,
		TrackNumber: index,
		TrackTotal:  count,
		Comment:     comment,
		Length:      chunk.Duration(),
		Frames:      source.Frames,
	}
}

// FormatTimestamp renders d as HH:MM:SS.mmm, truncating to the millisecond.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}
