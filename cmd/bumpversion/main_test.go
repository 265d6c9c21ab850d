package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initialContent = "// crayon\ncrayon.version = '2.3.4';\n"

func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("CRAYON_CONFIG", "")

	path := filepath.Join(t.TempDir(), "version.js")
	require.NoError(t, os.WriteFile(path, []byte(initialContent), 0o644))

	return path
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func content(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(b)
}

func TestBump(t *testing.T) {
	tests := []struct {
		direction, component string
		want                 string
	}{
		{"increment", "major", "crayon.version = '3.0.0';"},
		{"increment", "minor", "crayon.version = '2.4.0';"},
		{"increment", "patch", "crayon.version = '2.3.5';"},
		{"decrement", "patch", "crayon.version = '2.3.3';"},
	}

	for _, tt := range tests {
		t.Run(tt.direction+"_"+tt.component, func(t *testing.T) {
			path := setup(t)

			code, stdout, _ := execute(t, "--file", path, tt.direction, tt.component)
			require.Equal(t, exitOK, code)
			assert.Equal(t, tt.want, content(t, path))
			assert.Equal(t, "Version number bumped to "+tt.want+"\n", stdout)
		})
	}
}

func TestWrongArgumentCount(t *testing.T) {
	for _, args := range [][]string{{}, {"increment"}, {"increment", "patch", "extra"}} {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			path := setup(t)

			code, stdout, stderr := execute(t, append([]string{"--file", path}, args...)...)
			assert.Equal(t, exitUsage, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "not enough arguments")
			assert.Equal(t, initialContent, content(t, path))
		})
	}
}

func TestUnknownArguments(t *testing.T) {
	for _, args := range [][]string{{"up", "patch"}, {"increment", "build"}} {
		path := setup(t)

		code, _, stderr := execute(t, "--file", path, args[0], args[1])
		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stderr, "unknown")
		assert.Equal(t, initialContent, content(t, path))
	}
}

func TestUnknownFlag(t *testing.T) {
	path := setup(t)

	code, _, _ := execute(t, "--file", path, "--bogus", "increment", "patch")
	assert.Equal(t, exitUsage, code)
	assert.Equal(t, initialContent, content(t, path))
}

func TestDryRun(t *testing.T) {
	path := setup(t)

	code, stdout, _ := execute(t, "--file", path, "--dry-run", "increment", "minor")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "Dry run: crayon.version = '2.4.0';\n", stdout)
	assert.Equal(t, initialContent, content(t, path))
}

func TestLabelFromEnv(t *testing.T) {
	path := setup(t)
	t.Setenv("CRAYON_VERSION_LABEL", "plot")

	code, _, _ := execute(t, "--file", path, "increment", "patch")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "plot.version = '2.3.5';", content(t, path))
}

func TestMissingLiteral(t *testing.T) {
	path := setup(t)
	require.NoError(t, os.WriteFile(path, []byte(`cry.version = "v0.2";`), 0o644))

	code, stdout, stderr := execute(t, "--file", path, "increment", "patch")
	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "version_not_found")
	assert.Equal(t, `cry.version = "v0.2";`, content(t, path))
}

func TestHistory(t *testing.T) {
	path := setup(t)
	db := filepath.Join(t.TempDir(), "history.db")

	code, _, _ := execute(t, "--file", path, "--history", "--history-db", db, "increment", "patch")
	require.Equal(t, exitOK, code)
	code, _, _ = execute(t, "--file", path, "--history", "--history-db", db, "increment", "minor")
	require.Equal(t, exitOK, code)

	code, stdout, _ := execute(t, "history", "--history", "--history-db", db)
	require.Equal(t, exitOK, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "2.3.5 -> 2.4.0")
	assert.Contains(t, lines[1], "2.3.4 -> 2.3.5")
}

func TestHistoryDisabled(t *testing.T) {
	setup(t)

	code, _, stderr := execute(t, "history")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "history is disabled")
}

func TestUsageErrorsWithBrokenConfig(t *testing.T) {
	path := setup(t)
	broken := filepath.Join(t.TempDir(), "crayon.toml")
	require.NoError(t, os.WriteFile(broken, []byte("not = [valid"), 0o600))
	t.Setenv("CRAYON_CONFIG", broken)

	for _, args := range [][]string{{}, {"increment"}, {"up", "patch"}} {
		code, _, stderr := execute(t, append([]string{"--file", path}, args...)...)
		assert.Equal(t, exitUsage, code, args)
		assert.NotContains(t, stderr, "read_config_failed", args)
	}
	assert.Equal(t, initialContent, content(t, path))

	code, _, stderr := execute(t, "--file", path, "increment", "patch")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "read_config_failed")
}
