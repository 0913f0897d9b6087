// Package server exposes the web surface: the JSON book API, the
// server-rendered dashboard and timeline pages, and login against the
// identity provider.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"booklog/internal/books"
	"booklog/internal/models"
	"booklog/internal/stats"
	"booklog/internal/storage"
	"booklog/internal/view"
)

// activityWindow bounds how far back the streak query looks. Anything
// older cannot extend a streak that is already broken inside the window.
const activityWindow = 366 * 24 * time.Hour

type Server struct {
	store    storage.BookStore
	activity storage.ActivityLog
	lookup   *books.Client
	auth     *Authenticator
	logger   *zap.Logger
	engine   *gin.Engine
}

// New wires the router. lookup may be nil to disable ISBN metadata
// resolution.
func New(store storage.BookStore, activity storage.ActivityLog, lookup *books.Client, auth *Authenticator, logger *zap.Logger) *Server {
	s := &Server{
		store:    store,
		activity: activity,
		lookup:   lookup,
		auth:     auth,
		logger:   logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/manage/health", s.healthCheck)
	engine.GET("/login", auth.HandleLogin)
	engine.GET("/auth/callback", auth.HandleCallback)
	engine.POST("/logout", auth.HandleLogout)

	api := engine.Group("/api/v1", auth.RequireUser)
	api.GET("/books", s.listBooks)
	api.POST("/books", s.createBook)
	api.GET("/books/:bookUid", s.getBook)
	api.DELETE("/books/:bookUid", s.deleteBook)
	api.POST("/books/:bookUid/start", s.startReading)
	api.POST("/books/:bookUid/finish", s.finishReading)
	api.POST("/books/:bookUid/progress", s.updateProgress)
	api.GET("/stats", s.getStats)

	pages := engine.Group("/", auth.RequireUser)
	pages.GET("/dashboard", s.dashboardPage)
	pages.GET("/books/:bookUid/timeline", s.timelinePage)

	s.engine = engine
	return s
}

// Handler returns the root http.Handler for the service.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

type createBookRequest struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Genre      string `json:"genre"`
	TotalPages int    `json:"totalPages"`
	ISBN       string `json:"isbn"`
}

func (s *Server) createBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	book := models.Book{
		OwnerID:    UserID(c),
		Title:      req.Title,
		Author:     req.Author,
		Genre:      req.Genre,
		TotalPages: req.TotalPages,
	}

	if req.ISBN != "" && s.lookup != nil {
		s.resolveMetadata(c.Request.Context(), &book, req.ISBN)
	}

	if book.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	if err := s.store.CreateBook(c.Request.Context(), &book); err != nil {
		s.logger.Error("Failed to create book", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create book"})
		return
	}
	c.JSON(http.StatusCreated, book)
}

// resolveMetadata fills empty fields from the books API. Lookup failures
// only log; the user's own input always wins.
func (s *Server) resolveMetadata(ctx context.Context, book *models.Book, isbn string) {
	vol, err := s.lookup.LookupISBN(ctx, isbn)
	if err != nil {
		s.logger.Warn("Book metadata lookup failed", zap.String("isbn", isbn), zap.Error(err))
		return
	}
	if vol == nil {
		return
	}

	if book.Title == "" {
		book.Title = vol.Title
	}
	if book.Author == "" {
		book.Author = vol.Author
	}
	if book.Genre == "" {
		book.Genre = vol.Genre
	}
	if book.TotalPages == 0 {
		book.TotalPages = vol.PageCount
	}
	if book.CoverURL == "" {
		book.CoverURL = vol.CoverURL
	}
}

func (s *Server) listBooks(c *gin.Context) {
	bookList, err := s.store.ListBooks(c.Request.Context(), UserID(c))
	if err != nil {
		s.logger.Error("Failed to list books", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list books"})
		return
	}

	items := make([]gin.H, len(bookList))
	for i, b := range bookList {
		items[i] = bookPayload(b)
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "totalElements": len(items)})
}

func (s *Server) getBook(c *gin.Context) {
	book, ok := s.findBook(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, bookPayload(book))
}

func (s *Server) deleteBook(c *gin.Context) {
	err := s.store.DeleteBook(c.Request.Context(), UserID(c), c.Param("bookUid"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if err != nil {
		s.logger.Error("Failed to delete book", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}
	c.Status(http.StatusNoContent)
}

type transitionRequest struct {
	At *time.Time `json:"at"`
}

func (s *Server) startReading(c *gin.Context) {
	var req transitionRequest
	// The body is optional; no body means "now".
	_ = c.ShouldBindJSON(&req)
	at := time.Now().UTC()
	if req.At != nil {
		at = *req.At
	}

	book, err := s.store.StartReading(c.Request.Context(), UserID(c), c.Param("bookUid"), at)
	s.writeTransition(c, book, err)
}

func (s *Server) finishReading(c *gin.Context) {
	var req transitionRequest
	_ = c.ShouldBindJSON(&req)
	at := time.Now().UTC()
	if req.At != nil {
		at = *req.At
	}

	book, err := s.store.FinishReading(c.Request.Context(), UserID(c), c.Param("bookUid"), at)
	s.writeTransition(c, book, err)
}

// writeTransition maps storage errors onto HTTP statuses and writes the
// updated record on success.
func (s *Server) writeTransition(c *gin.Context, book models.Book, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
	case errors.Is(err, storage.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid lifecycle transition"})
	case err != nil:
		s.logger.Error("Lifecycle transition failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transition failed"})
	default:
		c.JSON(http.StatusOK, bookPayload(book))
	}
}

type progressRequest struct {
	PagesRead int `json:"pagesRead"`
}

func (s *Server) updateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	owner := UserID(c)
	bookUid := c.Param("bookUid")

	before, err := s.store.GetBook(c.Request.Context(), owner, bookUid)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if err != nil {
		s.logger.Error("Failed to get book", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update progress"})
		return
	}

	book, err := s.store.UpdateProgress(c.Request.Context(), owner, bookUid, req.PagesRead)
	if err != nil {
		s.logger.Error("Failed to update progress", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update progress"})
		return
	}

	// Forward progress feeds the activity log that backs the streak.
	if delta := book.PagesRead - before.PagesRead; delta > 0 {
		event := models.ActivityEvent{
			Day:     time.Now().UTC(),
			OwnerID: owner,
			BookUid: bookUid,
			Pages:   delta,
		}
		if err := s.activity.RecordActivity(c.Request.Context(), event); err != nil {
			s.logger.Warn("Failed to record reading activity", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, bookPayload(book))
}

func (s *Server) getStats(c *gin.Context) {
	summary, ok := s.summary(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) dashboardPage(c *gin.Context) {
	summary, ok := s.summary(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := view.RenderDashboard(c.Writer, summary); err != nil {
		s.logger.Error("Failed to render dashboard", zap.Error(err))
	}
}

func (s *Server) timelinePage(c *gin.Context) {
	book, ok := s.findBook(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := view.RenderTimeline(c.Writer, book); err != nil {
		s.logger.Error("Failed to render timeline", zap.Error(err))
	}
}

// summary aggregates the dashboard statistics for the current user.
func (s *Server) summary(c *gin.Context) (models.Summary, bool) {
	owner := UserID(c)
	ctx := c.Request.Context()

	bookList, err := s.store.ListBooks(ctx, owner)
	if err != nil {
		s.logger.Error("Failed to list books", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return models.Summary{}, false
	}

	now := time.Now().UTC()
	days, err := s.activity.ActiveDays(ctx, owner, now.Add(-activityWindow))
	if err != nil {
		// A broken activity store degrades the streak to zero, never the
		// whole dashboard.
		s.logger.Warn("Failed to load activity days", zap.Error(err))
		days = nil
	}

	return stats.Aggregate(bookList, now, stats.Streak(days, now)), true
}

func (s *Server) findBook(c *gin.Context) (models.Book, bool) {
	book, err := s.store.GetBook(c.Request.Context(), UserID(c), c.Param("bookUid"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return models.Book{}, false
	}
	if err != nil {
		s.logger.Error("Failed to get book", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get book"})
		return models.Book{}, false
	}
	return book, true
}

func bookPayload(b models.Book) gin.H {
	payload := gin.H{
		"bookUid":    b.BookUid,
		"title":      b.Title,
		"author":     b.Author,
		"genre":      b.Genre,
		"totalPages": b.TotalPages,
		"pagesRead":  b.PagesRead,
		"state":      b.State(),
		"addedAt":    b.AddedAt,
	}
	if b.CoverURL != "" {
		payload["coverUrl"] = b.CoverURL
	}
	if b.StartedAt != nil {
		payload["startedAt"] = b.StartedAt
	}
	if b.FinishedAt != nil {
		payload["finishedAt"] = b.FinishedAt
	}
	return payload
}
