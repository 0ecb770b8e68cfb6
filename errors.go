package mp3split

import (
	"github.com/simonhull/mp3split/internal/types"
)

// InvalidArgumentError is an alias to types.InvalidArgumentError.
// Re-exporting from internal/types to maintain public API.
type InvalidArgumentError = types.InvalidArgumentError

// IOError is an alias to types.IOError.
// Re-exporting from internal/types to maintain public API.
type IOError = types.IOError

// DecodeError is an alias to types.DecodeError.
// Re-exporting from internal/types to maintain public API.
type DecodeError = types.DecodeError

// EmptyInputError is an alias to types.EmptyInputError.
// Re-exporting from internal/types to maintain public API.
type EmptyInputError = types.EmptyInputError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning
