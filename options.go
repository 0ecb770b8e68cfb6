package mp3split

import "log/slog"

// Option configures the behavior of Split.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	result, err := mp3split.Split(opts,
//	    mp3split.WithLogger(logger),
//	    mp3split.WithStrictParsing(),
//	)
type Option func(*splitOptions)

// splitOptions holds configuration for a split.
type splitOptions struct {
	logger         *slog.Logger
	strictParsing  bool // Fail on any scan warning
	ignoreWarnings bool // Drop warnings from the result
}

// defaultOptions returns the default configuration.
func defaultOptions() *splitOptions {
	return &splitOptions{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger used for progress and warnings.
//
// Stage-level events are logged at Info, each written chunk at Debug and
// every warning at Warn. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(o *splitOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStrictParsing treats any scan warning as a fatal error.
//
// By default, Split skips junk between frames, drops a truncated final
// frame and carries on, reporting each as a Warning. With strict parsing
// enabled the first such issue aborts the split with a DecodeError before
// any chunk is written. Tag problems never abort.
//
// Example:
//
//	result, err := mp3split.Split(opts, mp3split.WithStrictParsing())
//	// err != nil if the audio stream has any irregularity
func WithStrictParsing() Option {
	return func(o *splitOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default, warnings about non-fatal issues are collected in
// SplitResult.Warnings. This option discards them. They are still logged.
func WithIgnoreWarnings() Option {
	return func(o *splitOptions) {
		o.ignoreWarnings = true
	}
}
