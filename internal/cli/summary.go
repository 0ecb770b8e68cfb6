package cli

import (
	"github.com/simonhull/mp3split"
	"github.com/simonhull/mp3split/internal/publish"
	"github.com/simonhull/mp3split/internal/tagging"
)

// Summary is the printable report of a split.
type Summary struct {
	Input         string           `json:"input" yaml:"input"`
	ChunkCount    int              `json:"chunk_count" yaml:"chunk_count"`
	TotalDuration string           `json:"total_duration" yaml:"total_duration"`
	Chunks        []ChunkSummary   `json:"chunks" yaml:"chunks"`
	Warnings      []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Uploads       []publish.Upload `json:"uploads,omitempty" yaml:"uploads,omitempty"`
}

// ChunkSummary describes one output file.
type ChunkSummary struct {
	Index int    `json:"index" yaml:"index"`
	Path  string `json:"path" yaml:"path"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
	Bytes int64  `json:"bytes" yaml:"bytes"`
}

// NewSummary builds a Summary from a split result and optional uploads.
func NewSummary(input string, result *mp3split.SplitResult, uploads []publish.Upload) Summary {
	s := Summary{
		Input:         input,
		ChunkCount:    result.ChunkCount,
		TotalDuration: tagging.FormatTimestamp(result.TotalDuration),
		Chunks:        make([]ChunkSummary, len(result.Chunks)),
		Uploads:       uploads,
	}
	for i, c := range result.Chunks {
		s.Chunks[i] = ChunkSummary{
			Index: c.Index,
			Path:  c.Path,
			Start: tagging.FormatTimestamp(c.StartTime),
			End:   tagging.FormatTimestamp(c.EndTime),
			Bytes: c.Bytes,
		}
	}
	for _, w := range result.Warnings {
		s.Warnings = append(s.Warnings, w.String())
	}
	return s
}
