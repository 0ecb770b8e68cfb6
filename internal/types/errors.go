package types

import "fmt"

// InvalidArgumentError is returned when caller-supplied options are unusable.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

// IOError is returned when a source or output file cannot be opened, read,
// created or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when the source container is malformed or uses an
// encoding no demuxer understands.
type DecodeError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *DecodeError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("%s: decode error at offset %d: %s", e.Path, e.Offset, e.Reason)
	}
	return fmt.Sprintf("%s: decode error: %s", e.Path, e.Reason)
}

// EmptyInputError is returned when the source holds no audio packets.
type EmptyInputError struct {
	Path string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no audio packets found", e.Path)
}

// Warning represents a non-fatal issue encountered while reading the source.
//
// Warnings indicate problems that don't prevent splitting but may indicate
// corrupted or unusual data. Examples include:
//   - Junk bytes between audio frames
//   - A truncated final frame
//   - An unreadable or unsupported tag
type Warning struct {
	// Stage where the warning occurred
	Stage string // "scan", "tag"

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
