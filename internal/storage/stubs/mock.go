package stubs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"booklog/internal/models"
	"booklog/internal/storage"
)

// MockDB is an in-memory implementation of both the BookStore and
// ActivityLog interfaces, used in tests and the mock-DB run mode.
type MockDB struct {
	mu     sync.RWMutex
	books  map[string]models.Book
	events []models.ActivityEvent
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		books: make(map[string]models.Book),
	}
}

func (m *MockDB) Initialize(ctx context.Context) error { return nil }
func (m *MockDB) Close() error                         { return nil }

func (m *MockDB) CreateBook(ctx context.Context, book *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if book.BookUid == "" {
		book.BookUid = uuid.NewString()
	}
	if book.AddedAt.IsZero() {
		book.AddedAt = time.Now().UTC()
	}
	m.books[book.BookUid] = *book
	return nil
}

func (m *MockDB) GetBook(ctx context.Context, ownerID, bookUid string) (models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(ownerID, bookUid)
}

// get requires the caller to hold the lock
func (m *MockDB) get(ownerID, bookUid string) (models.Book, error) {
	book, ok := m.books[bookUid]
	if !ok || book.OwnerID != ownerID {
		return models.Book{}, storage.ErrNotFound
	}
	return book, nil
}

func (m *MockDB) ListBooks(ctx context.Context, ownerID string) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var books []models.Book
	for _, book := range m.books {
		if book.OwnerID == ownerID {
			books = append(books, book)
		}
	}

	// Newest first, same as the relational store
	sort.Slice(books, func(i, j int) bool {
		return books[i].AddedAt.After(books[j].AddedAt)
	})
	return books, nil
}

func (m *MockDB) DeleteBook(ctx context.Context, ownerID, bookUid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.get(ownerID, bookUid); err != nil {
		return err
	}
	delete(m.books, bookUid)
	return nil
}

func (m *MockDB) StartReading(ctx context.Context, ownerID, bookUid string, at time.Time) (models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, err := m.get(ownerID, bookUid)
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
	m.books[bookUid] = book
	return book, nil
}

func (m *MockDB) FinishReading(ctx context.Context, ownerID, bookUid string, at time.Time) (models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, err := m.get(ownerID, bookUid)
	if err != nil {
		return models.Book{}, err
	}
	if book.StartedAt == nil || book.FinishedAt != nil || at.Before(*book.StartedAt) {
		return models.Book{}, storage.ErrInvalidTransition
	}

	book.FinishedAt = &at
	if book.TotalPages > 0 {
		book.PagesRead = book.TotalPages
	}
	m.books[bookUid] = book
	return book, nil
}

func (m *MockDB) UpdateProgress(ctx context.Context, ownerID, bookUid string, pagesRead int) (models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, err := m.get(ownerID, bookUid)
	if err != nil {
		return models.Book{}, err
	}

	if pagesRead < 0 {
		pagesRead = 0
	}
	if book.TotalPages > 0 && pagesRead > book.TotalPages {
		pagesRead = book.TotalPages
	}
	book.PagesRead = pagesRead
	m.books[bookUid] = book
	return book, nil
}

func (m *MockDB) RecordActivity(ctx context.Context, event models.ActivityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
	return nil
}

func (m *MockDB) ActiveDays(ctx context.Context, ownerID string, since time.Time) ([]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[time.Time]bool)
	for _, e := range m.events {
		if e.OwnerID != ownerID || e.Day.Before(since) {
			continue
		}
		day := time.Date(e.Day.Year(), e.Day.Month(), e.Day.Day(), 0, 0, 0, 0, e.Day.Location())
		seen[day] = true
	}

	var days []time.Time
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

func (m *MockDB) RecentActivity(ctx context.Context, ownerID string, limit int) ([]models.ActivityEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []models.ActivityEvent
	for _, e := range m.events {
		if e.OwnerID == ownerID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Day.After(events[j].Day) })

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
