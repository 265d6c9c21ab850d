package history

import (
	"context"
	"time"

	"codeberg.org/mutker/crayontools/internal/errors"
	"codeberg.org/mutker/crayontools/internal/logger"
	"github.com/google/uuid"
)

type service struct {
	repo Repository
	cfg  Config
}

type noopRecorder struct{}

func NewService(cfg Config, log logger.Logger) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("History disabled, using no-op recorder")
		return &noopRecorder{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create history repository")
		return nil, err
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

// Record stores entry, filling in a missing ID and timestamp.
func (s *service) Record(ctx context.Context, entry *Entry) error {
	errFactory := errors.New()

	if entry == nil || entry.File == "" {
		return errFactory.New(ErrInvalidEntry)
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		return errFactory.Wrap(ErrRecord, err)
	}

	return nil
}

func (s *service) List(ctx context.Context, limit int) ([]Entry, error) {
	entries, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, errors.New().Wrap(ErrStorageAccess, err)
	}

	return entries, nil
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}

func (*noopRecorder) Record(_ context.Context, _ *Entry) error {
	return nil
}

func (*noopRecorder) List(_ context.Context, _ int) ([]Entry, error) {
	return nil, nil
}

func (*noopRecorder) Close() error {
	return nil
}
