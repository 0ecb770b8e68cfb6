package mp3split

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/simonhull/mp3split/internal/chunk"
	_ "github.com/simonhull/mp3split/internal/mp3" // registers the MPEG demuxer and ID3 facility
	"github.com/simonhull/mp3split/internal/plan"
	"github.com/simonhull/mp3split/internal/registry"
	"github.com/simonhull/mp3split/internal/scan"
	"github.com/simonhull/mp3split/internal/tagging"
	"github.com/simonhull/mp3split/internal/types"
)

// SplitOptions describes one split operation.
type SplitOptions struct {
	// InputPath is the source MP3 file.
	InputPath string `json:"input_path" yaml:"input_path" validate:"required"`

	// ChunkDuration is the target playing time of each chunk.
	ChunkDuration time.Duration `json:"chunk_duration" yaml:"chunk_duration" validate:"gt=0"`

	// OutputDir receives the chunk files. It is created if missing.
	OutputDir string `json:"output_dir" yaml:"output_dir" validate:"required"`

	// Prefix names the chunk files: {Prefix}_001.mp3, {Prefix}_002.mp3, ...
	Prefix string `json:"prefix" yaml:"prefix" validate:"required,excludesall=/\\"`
}

// SplitResult reports what Split produced.
type SplitResult struct {
	ChunkCount    int           `json:"chunk_count" yaml:"chunk_count"`
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`
	OutputFiles   []string      `json:"output_files" yaml:"output_files"`

	// Chunks describes each output file, in order.
	Chunks []ChunkInfo `json:"chunks" yaml:"chunks"`

	// Warnings encountered while reading the source (non-fatal issues)
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ChunkInfo is an alias to types.ChunkInfo.
type ChunkInfo = types.ChunkInfo

var validate = validator.New(validator.WithRequiredStructEnabled())

// Split cuts the MP3 file at opts.InputPath into consecutive chunks of about
// opts.ChunkDuration each, without re-encoding.
//
// Cuts fall only on frame boundaries: every chunk but the last lasts at
// least ChunkDuration and less than ChunkDuration plus one frame. Each
// chunk carries an ID3v2.4 tag derived from the source tag, numbered as
// part i of n.
//
// Errors:
//   - *InvalidArgumentError: opts are unusable; nothing was read or written
//   - *IOError: the source or an output file could not be read or written
//   - *DecodeError: the source is not a supported MPEG audio stream
//   - *EmptyInputError: the source holds no audio; nothing was written
//
// A failure while writing leaves earlier chunks in place.
//
// Example:
//
//	result, err := mp3split.Split(mp3split.SplitOptions{
//		InputPath:     "lecture.mp3",
//		ChunkDuration: 10 * time.Minute,
//		OutputDir:     "chunks",
//		Prefix:        "lecture",
//	})
//	if err != nil {
//		return err
//	}
//	fmt.Printf("wrote %d chunks\n", result.ChunkCount)
func Split(opts SplitOptions, options ...Option) (*SplitResult, error) {
	cfg := defaultOptions()
	for _, opt := range options {
		opt(cfg)
	}
	log := cfg.logger

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	log.Info("scanning input", "path", opts.InputPath)
	stream, err := scan.Scan(opts.InputPath)
	if err != nil {
		return nil, err
	}

	warnings := stream.Warnings
	for _, w := range stream.Warnings {
		log.Warn("scan warning", "warning", w.String())
	}
	if cfg.strictParsing && len(stream.Warnings) > 0 {
		w := stream.Warnings[0]
		return nil, &DecodeError{
			Path:   opts.InputPath,
			Reason: fmt.Sprintf("strict parsing failed: %s", w.Message),
			Offset: w.Offset,
		}
	}

	if len(stream.Packets) == 0 {
		return nil, &EmptyInputError{Path: opts.InputPath}
	}
	total := types.TotalDuration(stream.Packets)
	log.Info("scanned input",
		"format", stream.Format.String(),
		"packets", len(stream.Packets),
		"duration", total,
	)

	source, tagWarnings := tagging.ReadSourceTag(opts.InputPath, stream.Format)
	for _, w := range tagWarnings {
		log.Warn("tag warning", "warning", w.String())
	}
	warnings = append(warnings, tagWarnings...)

	plans := plan.Plan(stream.Packets, opts.ChunkDuration)
	log.Info("planned chunks", "chunks", len(plans), "target", opts.ChunkDuration)

	writer := chunk.NewWriter(opts.OutputDir, opts.Prefix, registry.GetTagWriter(stream.Format), log)
	result := &SplitResult{
		ChunkCount:    len(plans),
		TotalDuration: total,
		OutputFiles:   make([]string, 0, len(plans)),
		Chunks:        make([]ChunkInfo, 0, len(plans)),
	}
	for _, p := range plans {
		info, err := writer.Write(p, stream.Packets, source, len(plans))
		if err != nil {
			return nil, err
		}
		result.OutputFiles = append(result.OutputFiles, info.Path)
		result.Chunks = append(result.Chunks, info)
	}

	if !cfg.ignoreWarnings {
		result.Warnings = warnings
	}

	log.Info("split complete", "chunks", result.ChunkCount, "output_dir", opts.OutputDir)
	return result, nil
}

// Validate checks opts without touching the filesystem.
func (o SplitOptions) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InvalidArgumentError{Field: "SplitOptions", Reason: err.Error()}
	}

	fe := verrs[0]
	reason := fmt.Sprintf("failed %q validation", fe.Tag())
	switch fe.Tag() {
	case "required":
		reason = "must not be empty"
	case "gt":
		reason = fmt.Sprintf("must be positive, got %v", fe.Value())
	case "excludesall":
		reason = "must not contain path separators"
	}
	return &InvalidArgumentError{Field: fe.Field(), Reason: reason}
}

