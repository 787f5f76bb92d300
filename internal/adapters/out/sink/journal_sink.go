package sink

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"escrow/internal/core/domain/model/outbox"

	_ "modernc.org/sqlite"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS order_events (
	event_id     TEXT PRIMARY KEY,
	sequence     INTEGER NOT NULL,
	order_id     TEXT NOT NULL,
	topic        TEXT NOT NULL,
	payload      TEXT NOT NULL,
	occurred_at  INTEGER NOT NULL,
	published_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS order_events_order_id ON order_events (order_id, sequence);
`

// JournalEntry is one event as recorded in the journal.
type JournalEntry struct {
	EventID     string
	Sequence    int64
	OrderID     string
	Topic       string
	Payload     string
	OccurredAt  uint64
	PublishedAt time.Time
}

// JournalSink appends events to a local SQLite file that indexers can tail.
// Redelivered events are ignored, so the journal holds each event once.
type JournalSink struct {
	db  *sql.DB
	now func() time.Time
}

// OpenJournal opens or creates the journal at path.
func OpenJournal(path string) (*JournalSink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}
	if _, err = db.Exec(journalSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &JournalSink{db: db, now: time.Now}, nil
}

func (s *JournalSink) Close() error {
	return s.db.Close()
}

func (s *JournalSink) Publish(ctx context.Context, message *outbox.Message) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO order_events (event_id, sequence, order_id, topic, payload, occurred_at, published_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (event_id) DO NOTHING
`,
		message.ID().String(),
		message.Sequence(),
		message.OrderID().String(),
		message.Topic().String(),
		string(message.Payload()),
		int64(message.OccurredAt()), //nolint:gosec // logical timestamps fit in int64
		s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("append to journal: %w", err)
	}
	return nil
}

// Entries lists the journaled events of one order in relay order.
func (s *JournalSink) Entries(ctx context.Context, orderID string) ([]JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT event_id, sequence, order_id, topic, payload, occurred_at, published_at
FROM order_events
WHERE order_id = ?
ORDER BY sequence
`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	entries := make([]JournalEntry, 0)
	for rows.Next() {
		var (
			entry       JournalEntry
			occurredAt  int64
			publishedAt int64
		)
		if err = rows.Scan(
			&entry.EventID,
			&entry.Sequence,
			&entry.OrderID,
			&entry.Topic,
			&entry.Payload,
			&occurredAt,
			&publishedAt,
		); err != nil {
			return nil, err
		}
		entry.OccurredAt = uint64(max(occurredAt, 0))
		entry.PublishedAt = time.UnixMilli(publishedAt).UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
