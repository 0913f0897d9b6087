// Package gormstore implements the book store on a relational database
// via gorm. Production runs on Postgres; tests use an in-memory sqlite.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"booklog/internal/models"
	"booklog/internal/storage"
)

type Store struct {
	db *gorm.DB
}

// New connects to Postgres with the given DSN.
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing gorm connection. Used by tests with sqlite.
func NewWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Initialize runs the schema migration for the book table.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Book{}); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) CreateBook(ctx context.Context, book *models.Book) error {
	if book.BookUid == "" {
		book.BookUid = uuid.NewString()
	}
	if book.AddedAt.IsZero() {
		book.AddedAt = time.Now().UTC()
	}
	book.PagesRead = clamp(book.PagesRead, book.TotalPages)

	if err := s.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

func (s *Store) GetBook(ctx context.Context, ownerID, bookUid string) (models.Book, error) {
	var book models.Book
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND book_uid = ?", ownerID, bookUid).
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Book{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Book{}, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

func (s *Store) ListBooks(ctx context.Context, ownerID string) ([]models.Book, error) {
	var books []models.Book
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("added_at DESC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

func (s *Store) DeleteBook(ctx context.Context, ownerID, bookUid string) error {
	res := s.db.WithContext(ctx).
		Where("owner_id = ? AND book_uid = ?", ownerID, bookUid).
		Delete(&models.Book{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) StartReading(ctx context.Context, ownerID, bookUid string, at time.Time) (models.Book, error) {
	book, err := s.GetBook(ctx, ownerID, bookUid)
	if err != nil {
		return models.Book{}, err
	}
	if book.StartedAt != nil {
		return models.Book{}, storage.ErrInvalidTransition
	}
	if at.Before(book.AddedAt) {
		at = book.AddedAt
	}

	book.StartedAt = &at
	if err := s.db.WithContext(ctx).Save(&book).Error; err != nil {
		return models.Book{}, fmt.Errorf("failed to start reading: %w", err)
	}
	return book, nil
}

func (s *Store) FinishReading(ctx context.Context, ownerID, bookUid string, at time.Time) (models.Book, error) {
	book, err := s.GetBook(ctx, ownerID, bookUid)
	if err != nil {
		return models.Book{}, err
	}
	if book.StartedAt == nil || book.FinishedAt != nil {
		return models.Book{}, storage.ErrInvalidTransition
	}
	if at.Before(*book.StartedAt) {
		return models.Book{}, storage.ErrInvalidTransition
	}

	book.FinishedAt = &at
	if book.TotalPages > 0 {
		book.PagesRead = book.TotalPages
	}
	if err := s.db.WithContext(ctx).Save(&book).Error; err != nil {
		return models.Book{}, fmt.Errorf("failed to finish reading: %w", err)
	}
	return book, nil
}

func (s *Store) UpdateProgress(ctx context.Context, ownerID, bookUid string, pagesRead int) (models.Book, error) {
	book, err := s.GetBook(ctx, ownerID, bookUid)
	if err != nil {
		return models.Book{}, err
	}

	book.PagesRead = clamp(pagesRead, book.TotalPages)
	if err := s.db.WithContext(ctx).Save(&book).Error; err != nil {
		return models.Book{}, fmt.Errorf("failed to update progress: %w", err)
	}
	return book, nil
}

func clamp(pages, total int) int {
	if pages < 0 {
		return 0
	}
	if total > 0 && pages > total {
		return total
	}
	return pages
}
