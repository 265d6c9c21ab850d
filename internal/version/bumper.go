package version

import (
	"context"
	"os"
	"path/filepath"

	"codeberg.org/mutker/crayontools/internal/errors"
	"codeberg.org/mutker/crayontools/internal/logger"
)

// Result describes a completed bump.
type Result struct {
	File      string
	Direction Direction
	Component Component
	Old       Version
	New       Version
	Literal   string
	Written   bool
}

// Bumper rewrites the version literal stored in a single file.
type Bumper struct {
	path   string
	label  string
	dryRun bool
	log    logger.Logger
}

type BumperOption func(*Bumper)

// WithDryRun computes the new version without touching the file.
func WithDryRun(dryRun bool) BumperOption {
	return func(b *Bumper) {
		b.dryRun = dryRun
	}
}

func WithLogger(log logger.Logger) BumperOption {
	return func(b *Bumper) {
		b.log = log
	}
}

func NewBumper(path, label string, opts ...BumperOption) *Bumper {
	b := &Bumper{
		path:  path,
		label: label,
		log:   logger.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Bump reads the file, bumps its version and overwrites the whole file with
// the new literal. Any other content of the file is discarded.
func (b *Bumper) Bump(ctx context.Context, d Direction, c Component) (*Result, error) {
	errFactory := errors.New()

	unlock, err := acquireLock(b.path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(); err != nil {
			b.log.Warn().Err(err).Str("file", b.path).Msg("Failed to release lock")
		}
	}()

	content, err := os.ReadFile(b.path)
	if err != nil {
		return nil, errFactory.Wrap(ErrReadFile, err)
	}

	old, next, out, err := Rewrite(string(content), b.label, d, c)
	if err != nil {
		return nil, err
	}

	b.log.Debug().
		Str("file", b.path).
		Str("direction", d.String()).
		Str("component", c.String()).
		Str("old", old.String()).
		Str("new", next.String()).
		Msg("Computed new version")

	res := &Result{
		File:      b.path,
		Direction: d,
		Component: c,
		Old:       old,
		New:       next,
		Literal:   out,
	}

	if b.dryRun {
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := writeFile(b.path, []byte(out)); err != nil {
		return nil, errFactory.Wrap(ErrWriteFile, err)
	}
	res.Written = true

	b.log.Info().
		Str("file", b.path).
		Str("version", next.String()).
		Msg("Version file rewritten")

	return res, nil
}

// writeFile replaces path through a temporary file in the same directory so
// readers never observe a truncated file.
func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	committed = true

	return nil
}
