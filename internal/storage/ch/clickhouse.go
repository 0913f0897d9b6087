package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"booklog/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouseLog stores reading-activity events in ClickHouse. Events are
// append-only; the streak metric only needs distinct active days, which
// is what ClickHouse aggregates well.
type ClickHouseLog struct {
	conn clickhouse.Conn
}

// NewClickHouseLog creates a new ClickHouse connection for the activity log
func NewClickHouseLog(host string, port int, database, user, password string, useTLS bool) (*ClickHouseLog, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseLog{conn: conn}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (l *ClickHouseLog) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/ directory)
	return nil
}

// RecordActivity appends one reading-activity event
func (l *ClickHouseLog) RecordActivity(ctx context.Context, event models.ActivityEvent) error {
	err := l.conn.Exec(ctx, `INSERT INTO reading_activity (day, owner_id, book_uid, pages) VALUES (?, ?, ?, ?)`,
		event.Day, event.OwnerID, event.BookUid, int32(event.Pages))
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ActiveDays returns the distinct days with reading activity for an owner
// since the given time
func (l *ClickHouseLog) ActiveDays(ctx context.Context, ownerID string, since time.Time) ([]time.Time, error) {
	rows, err := l.conn.Query(ctx,
		`SELECT DISTINCT toStartOfDay(day) AS d FROM reading_activity WHERE owner_id = ? AND day >= ? ORDER BY d`,
		ownerID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query active days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan active day: %w", err)
		}
		days = append(days, day)
	}
	return days, nil
}

// RecentActivity returns the last N events for an owner, newest first
func (l *ClickHouseLog) RecentActivity(ctx context.Context, ownerID string, limit int) ([]models.ActivityEvent, error) {
	rows, err := l.conn.Query(ctx,
		`SELECT day, owner_id, book_uid, pages FROM reading_activity WHERE owner_id = ? ORDER BY day DESC LIMIT ?`,
		ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent activity: %w", err)
	}
	defer rows.Close()

	var events []models.ActivityEvent
	for rows.Next() {
		var event models.ActivityEvent
		var pages int32
		if err := rows.Scan(&event.Day, &event.OwnerID, &event.BookUid, &pages); err != nil {
			return nil, fmt.Errorf("failed to scan activity event: %w", err)
		}
		event.Pages = int(pages)
		events = append(events, event)
	}
	return events, nil
}

// Close closes the database connection
func (l *ClickHouseLog) Close() error {
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
