package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerIsWarnLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newDefault(&buf)

	l.Debug().Msg("debug line")
	l.Info().Msg("info line")
	l.Warn().Msg("warn line")

	assert.NotContains(t, buf.String(), "debug line")
	assert.NotContains(t, buf.String(), "info line")
	assert.Contains(t, buf.String(), "warn line")
}
