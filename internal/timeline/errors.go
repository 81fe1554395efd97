package timeline

import "github.com/pkg/errors"

var (
	ErrInvalidTempoData = errors.New("invalid tempo data")

	// ErrBeatOutOfRange is an invariant violation, never a user error.
	ErrBeatOutOfRange = errors.New("beat out of range")
)
