package gormstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"booklog/internal/models"
	"booklog/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	store := NewWithDB(db)
	require.NoError(t, store.Initialize(context.Background()))
	return store
}

func createTestBook(t *testing.T, store *Store, owner string) models.Book {
	book := models.Book{
		OwnerID:    owner,
		Title:      "Test Book",
		Author:     "Test Author",
		Genre:      "Fiction",
		TotalPages: 300,
	}
	require.NoError(t, store.CreateBook(context.Background(), &book))
	return book
}

func TestCreateBook(t *testing.T) {
	store := setupTestStore(t)
	book := createTestBook(t, store, "user-1")

	assert.NotEmpty(t, book.BookUid)
	assert.False(t, book.AddedAt.IsZero())
	assert.Nil(t, book.StartedAt)
	assert.Nil(t, book.FinishedAt)
}

func TestGetBookScopedToOwner(t *testing.T) {
	store := setupTestStore(t)
	book := createTestBook(t, store, "user-1")
	ctx := context.Background()

	got, err := store.GetBook(ctx, "user-1", book.BookUid)
	require.NoError(t, err)
	assert.Equal(t, "Test Book", got.Title)

	_, err = store.GetBook(ctx, "user-2", book.BookUid)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListBooks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestBook(t, store, "user-1")
	createTestBook(t, store, "user-1")
	createTestBook(t, store, "user-2")

	books, err := store.ListBooks(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	books, err = store.ListBooks(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestDeleteBook(t *testing.T) {
	store := setupTestStore(t)
	book := createTestBook(t, store, "user-1")
	ctx := context.Background()

	require.NoError(t, store.DeleteBook(ctx, "user-1", book.BookUid))
	_, err := store.GetBook(ctx, "user-1", book.BookUid)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, store.DeleteBook(ctx, "user-1", book.BookUid), storage.ErrNotFound)
}

func TestStartReading(t *testing.T) {
	store := setupTestStore(t)
	book := createTestBook(t, store, "user-1")
	ctx := context.Background()

	started, err := store.StartReading(ctx, "user-1", book.BookUid, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, started.StartedAt)
	assert.False(t, started.StartedAt.Before(started.AddedAt))

	_, err = store.StartReading(ctx, "user-1", book.BookUid, time.Now().UTC())
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)
}

func TestStartReadingClampsToAddedAt(t *testing.T) {
	store := setupTestStore(t)
	book := createTestBook(t, store, "user-1")

	early := book.AddedAt.AddDate(0, 0, -5)
	started, err := store.StartReading(context.Background(), "user-1", book.BookUid, early)
	require.NoError(t, err)
	assert.True(t, started.StartedAt.Equal(book.AddedAt))
}

func TestFinishReading(t *testing.T) {
	store := setupTestStore(t)
	book := createTestBook(t, store, "user-1")
	ctx := context.Background()

	// Finishing an unstarted book violates the lifecycle invariant.
	_, err := store.FinishReading(ctx, "user-1", book.BookUid, time.Now().UTC())
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	started, err := store.StartReading(ctx, "user-1", book.BookUid, time.Now().UTC())
	require.NoError(t, err)

	// A finish earlier than the start is rejected.
	_, err = store.FinishReading(ctx, "user-1", book.BookUid, started.StartedAt.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	finished, err := store.FinishReading(ctx, "user-1", book.BookUid, started.StartedAt.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, finished.FinishedAt)
	assert.Equal(t, 300, finished.PagesRead)
	assert.Equal(t, models.StateFinished, finished.State())

	_, err = store.FinishReading(ctx, "user-1", book.BookUid, time.Now().UTC())
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)
}

func TestUpdateProgress(t *testing.T) {
	store := setupTestStore(t)
	book := createTestBook(t, store, "user-1")
	ctx := context.Background()

	testCases := []struct {
		name     string
		pages    int
		expected int
	}{
		{name: "normal update", pages: 120, expected: 120},
		{name: "clamped to total pages", pages: 999, expected: 300},
		{name: "negative floors at zero", pages: -10, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.UpdateProgress(ctx, "user-1", book.BookUid, tc.pages)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.PagesRead)
		})
	}
}
