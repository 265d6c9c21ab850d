package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Recorder keeps a journal of version bumps.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Repository defines the interface for history storage
type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Entry is one recorded bump.
type Entry struct {
	ID        uuid.UUID
	Timestamp time.Time
	File      string
	Direction string
	Component string
	Old       string
	New       string
}
