package storage

import (
	"context"
	"errors"
	"time"

	"booklog/internal/models"
)

var (
	// ErrNotFound is returned when a book does not exist or belongs to
	// another owner.
	ErrNotFound = errors.New("book not found")

	// ErrInvalidTransition is returned for lifecycle writes that would
	// violate the timestamp ordering invariant, e.g. finishing a book that
	// was never started.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
)

// BookStore defines the interface for book record operations. All reads
// and writes are scoped to an owner.
type BookStore interface {
	// CreateBook persists a new record. The store assigns BookUid and
	// defaults AddedAt to the current time when unset.
	CreateBook(ctx context.Context, book *models.Book) error
	GetBook(ctx context.Context, ownerID, bookUid string) (models.Book, error)
	ListBooks(ctx context.Context, ownerID string) ([]models.Book, error)
	DeleteBook(ctx context.Context, ownerID, bookUid string) error

	// Lifecycle transitions. StartReading sets StartedAt; FinishReading
	// sets FinishedAt and requires the book to be started with a finish
	// time no earlier than the start time.
	StartReading(ctx context.Context, ownerID, bookUid string, at time.Time) (models.Book, error)
	FinishReading(ctx context.Context, ownerID, bookUid string, at time.Time) (models.Book, error)

	// UpdateProgress sets pages read, clamped to [0, TotalPages].
	UpdateProgress(ctx context.Context, ownerID, bookUid string, pagesRead int) (models.Book, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}

// ActivityLog defines the interface for the append-only reading-activity
// history that backs the streak metric.
type ActivityLog interface {
	RecordActivity(ctx context.Context, event models.ActivityEvent) error

	// ActiveDays returns the distinct days with activity for an owner
	// since the given time.
	ActiveDays(ctx context.Context, ownerID string, since time.Time) ([]time.Time, error)

	// RecentActivity returns the last N events, newest first.
	RecentActivity(ctx context.Context, ownerID string, limit int) ([]models.ActivityEvent, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
