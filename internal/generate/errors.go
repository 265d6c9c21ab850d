package generate

import "codeberg.org/mutker/crayontools/internal/errors"

const (
	ErrInvalidRange = errors.ErrInvalidRange
	ErrEmit         = errors.ErrEmit
)
