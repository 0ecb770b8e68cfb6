// Package commands implements the mp3split command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/simonhull/mp3split"
	"github.com/simonhull/mp3split/internal/cli"
	"github.com/simonhull/mp3split/internal/config"
	"github.com/simonhull/mp3split/internal/publish"
)

var (
	outputDir    string
	formatOutput string
	upload       bool
	verbose      bool
)

// errUploadDisabled is returned for --upload without S3 settings.
var errUploadDisabled = errors.New("--upload requires S3_BUCKET and S3_REGION")

var rootCmd = &cobra.Command{
	Use:   "mp3split [input_file] [chunk_minutes] [output_prefix]",
	Short: "Split an MP3 file into fixed-duration chunks",
	Long: `Split an MP3 file into chunks of roughly equal duration.

Cuts fall only on frame boundaries, so no audio is re-encoded. Each chunk
carries the source's ID3 metadata with its title and track number set to the
part it holds.

Omitted arguments default to MP3SPLIT_INPUT, MP3SPLIT_CHUNK_MINUTES and
MP3SPLIT_PREFIX (audiofile.mp3, 10 and audiofile_part).

Examples:
  mp3split lecture.mp3 15 lecture
  mp3split book.mp3 30 book -o parts -f json
  S3_BUCKET=media S3_REGION=eu-west-1 mp3split show.mp3 10 show --upload`,
	Args:          cobra.RangeArgs(0, 3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSplit,
}

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for chunk files (default from MP3SPLIT_OUTPUT_DIR, mp3_chunks)")
	rootCmd.PersistentFlags().StringVarP(&formatOutput, "output", "f", "yaml", "summary format: yaml, json")
	rootCmd.Flags().BoolVar(&upload, "upload", false, "upload chunks to S3 after splitting")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. An interrupt cancels any upload in flight.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func runSplit(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(formatOutput)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := cfg.NewLogger(cmd.ErrOrStderr())

	opts := mp3split.SplitOptions{
		InputPath:     cfg.Input,
		ChunkDuration: cfg.ChunkDuration(),
		OutputDir:     cfg.OutputDir,
		Prefix:        cfg.Prefix,
	}
	if len(args) > 0 {
		opts.InputPath = args[0]
	}
	if len(args) > 1 {
		d, err := parseMinutes(args[1])
		if err != nil {
			return err
		}
		opts.ChunkDuration = d
	}
	if len(args) > 2 {
		opts.Prefix = args[2]
	}
	if cmd.Flags().Changed("output-dir") {
		opts.OutputDir = outputDir
	}
	if upload && !cfg.S3Enabled() {
		return errUploadDisabled
	}

	log.Debug("configuration", "config", cfg.String())

	result, err := mp3split.Split(opts, mp3split.WithLogger(log))
	if err != nil {
		return err
	}

	p := cli.NewPrinter(cmd.ErrOrStderr(), cli.DefaultTheme)
	for _, w := range result.Warnings {
		p.Warning("%s", w.String())
	}
	p.Success("wrote %d chunk(s) to %s", result.ChunkCount, opts.OutputDir)

	var uploads []publish.Upload
	if upload {
		pub, err := publish.NewS3Publisher(cmd.Context(), publish.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			KeyPrefix:       cfg.S3KeyPrefix,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Concurrency:     cfg.UploadConcurrency,
		}, log)
		if err != nil {
			return err
		}
		uploads, err = pub.Publish(cmd.Context(), result.OutputFiles)
		if err != nil {
			return err
		}
		p.Success("uploaded %d chunk(s) to s3://%s", len(uploads), cfg.S3Bucket)
	}

	return cli.Output(cmd.OutOrStdout(), cli.NewSummary(opts.InputPath, result, uploads), format)
}

// parseMinutes converts a chunk_minutes argument to a duration. Range
// checks are left to SplitOptions validation.
func parseMinutes(s string) (time.Duration, error) {
	m, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, fmt.Errorf("invalid chunk_minutes %q: must be a number", s)
	}
	return config.MinutesToDuration(m), nil
}
