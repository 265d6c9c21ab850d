package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrUsage           ErrorCode = "usage_error"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// File errors
	ErrReadFile  ErrorCode = "read_file_failed"
	ErrWriteFile ErrorCode = "write_file_failed"
	ErrLocked    ErrorCode = "resource_locked"

	// Generator errors
	ErrInvalidRange ErrorCode = "invalid_range"
	ErrEmit         ErrorCode = "emit_failed"

	// Version errors
	ErrVersionNotFound  ErrorCode = "version_not_found"
	ErrVersionUnderflow ErrorCode = "version_underflow"

	// History errors
	ErrInitHistory   ErrorCode = "init_history_failed"
	ErrRecordHistory ErrorCode = "record_history_failed"
	ErrCloseHistory  ErrorCode = "close_history_failed"
)

var errorMessages = map[ErrorCode]string{
	ErrInternal:         "Internal error occurred",
	ErrInvalidArgument:  "Invalid argument provided",
	ErrUsage:            "Invalid usage",
	ErrInvalidConfig:    "Invalid configuration",
	ErrReadConfig:       "Failed to read config file",
	ErrBindFlags:        "Failed to bind flags",
	ErrInvalidLogLevel:  "Invalid log level",
	ErrReadFile:         "Failed to read file",
	ErrWriteFile:        "Failed to write file",
	ErrLocked:           "File is locked by another process",
	ErrInvalidRange:     "Invalid range",
	ErrEmit:             "Failed to emit sample",
	ErrVersionNotFound:  "Version literal not found",
	ErrVersionUnderflow: "Version component would become negative",
	ErrInitHistory:      "Failed to initialize history",
	ErrRecordHistory:    "Failed to record history",
	ErrCloseHistory:     "Failed to close history",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
