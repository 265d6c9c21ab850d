package version

import "codeberg.org/mutker/crayontools/internal/errors"

const (
	ErrVersionNotFound  = errors.ErrVersionNotFound
	ErrVersionUnderflow = errors.ErrVersionUnderflow
	ErrInvalidArgument  = errors.ErrInvalidArgument
	ErrReadFile         = errors.ErrReadFile
	ErrWriteFile        = errors.ErrWriteFile
	ErrLocked           = errors.ErrLocked
)
