package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/mp3split"
	"github.com/simonhull/mp3split/internal/publish"
)

func testResult() *mp3split.SplitResult {
	return &mp3split.SplitResult{
		ChunkCount:    2,
		TotalDuration: 15*time.Minute + 500*time.Millisecond,
		OutputFiles:   []string{"out/p_001.mp3", "out/p_002.mp3"},
		Chunks: []mp3split.ChunkInfo{
			{Index: 1, Path: "out/p_001.mp3", StartTime: 0, EndTime: 10 * time.Minute, Bytes: 1000},
			{Index: 2, Path: "out/p_002.mp3", StartTime: 10 * time.Minute, EndTime: 15*time.Minute + 500*time.Millisecond, Bytes: 500},
		},
		Warnings: []mp3split.Warning{{Stage: "scan", Message: "lost sync, skipped 4 bytes", Offset: 800}},
	}
}

func TestNewSummary(t *testing.T) {
	uploads := []publish.Upload{{Path: "out/p_001.mp3", Key: "p_001.mp3", URL: "https://b/p_001.mp3"}}
	s := NewSummary("in.mp3", testResult(), uploads)

	assert.Equal(t, "in.mp3", s.Input)
	assert.Equal(t, 2, s.ChunkCount)
	assert.Equal(t, "00:15:00.500", s.TotalDuration)
	require.Len(t, s.Chunks, 2)
	assert.Equal(t, "00:10:00.000", s.Chunks[1].Start)
	assert.Equal(t, "00:15:00.500", s.Chunks[1].End)
	assert.Equal(t, []string{"scan (at offset 800): lost sync, skipped 4 bytes"}, s.Warnings)
	assert.Equal(t, uploads, s.Uploads)
}

func TestOutput(t *testing.T) {
	s := NewSummary("in.mp3", testResult(), nil)

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Output(&buf, s, FormatYAML))

		var back Summary
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
		assert.Equal(t, s.Chunks, back.Chunks)
		assert.NotContains(t, buf.String(), "uploads")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Output(&buf, s, FormatJSON))

		var back map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
		assert.Equal(t, float64(2), back["chunk_count"])
		assert.Equal(t, "00:15:00.500", back["total_duration"])
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, Output(&bytes.Buffer{}, s, "xml"))
	})
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": FormatYAML, "yaml": FormatYAML, "json": FormatJSON} {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseOutputFormat("table")
	assert.Error(t, err)
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, DefaultTheme)

	p.Success("wrote %d chunks", 3)
	p.Warning("skipped %d bytes", 4)
	p.Error("boom")
	p.Info("done")

	out := buf.String()
	assert.Contains(t, out, "wrote 3 chunks")
	assert.Contains(t, out, "skipped 4 bytes")
	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "done")
	assert.Equal(t, 4, bytes.Count(buf.Bytes(), []byte("\n")))
}
