package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/kbcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ kbcrawl.EntryService = (*EntryService)(nil)
	_ kbcrawl.Sink         = (*Sink)(nil)
)

// EntryService implements kbcrawl.EntryService using SQLite.
type EntryService struct {
	db *DB
}

// NewEntryService creates a new EntryService.
func NewEntryService(db *DB) *EntryService {
	return &EntryService{db: db}
}

// CreateEntry stores a new entry. Returns ECONFLICT if the knowledge base
// already holds an entry with the same source URL and title. Several
// entries may share a URL when they were extracted from one page.
func (s *EntryService) CreateEntry(ctx context.Context, entry *kbcrawl.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if entry.SourceType == "" {
		entry.SourceType = kbcrawl.SourceBlog
	}

	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	entry.ID = uuid.New().String()
	now := time.Now().UTC().Truncate(time.Second)
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO knowledge_entries (id, knowledge_base_id, title, content, source_url, source_type, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.KnowledgeBaseID, entry.Title, entry.Content, entry.SourceURL,
		string(entry.SourceType), string(metadata), formatTime(entry.CreatedAt), formatTime(entry.UpdatedAt))
	if isUniqueViolation(err) {
		return kbcrawl.Errorf(kbcrawl.ECONFLICT, "entry %q for %s already exists", entry.Title, entry.SourceURL)
	}
	if isForeignKeyViolation(err) {
		return kbcrawl.Errorf(kbcrawl.ENOTFOUND, "knowledge base not found")
	}
	return err
}

// FindEntries retrieves entries matching the filter in insertion order.
func (s *EntryService) FindEntries(ctx context.Context, filter kbcrawl.EntryFilter) ([]*kbcrawl.Entry, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, knowledge_base_id, title, content, source_url, source_type, metadata, created_at, updated_at
		FROM knowledge_entries WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.KnowledgeBaseID != nil {
		query.WriteString(" AND knowledge_base_id = ?")
		args = append(args, *filter.KnowledgeBaseID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*kbcrawl.Entry
	for rows.Next() {
		var e kbcrawl.Entry
		var sourceType, metadata, createdAt, updatedAt string

		if err := rows.Scan(&e.ID, &e.KnowledgeBaseID, &e.Title, &e.Content, &e.SourceURL,
			&sourceType, &metadata, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		e.SourceType = kbcrawl.SourceType(sourceType)
		if err := json.Unmarshal([]byte(metadata), &e.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
		if e.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if e.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// DeleteEntriesByKnowledgeBase removes all entries of a knowledge base.
func (s *EntryService) DeleteEntriesByKnowledgeBase(ctx context.Context, kbID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM knowledge_entries WHERE knowledge_base_id = ?", kbID)
	return err
}

// Sink stores every accepted entry in one knowledge base.
type Sink struct {
	entries kbcrawl.EntryService
	kbID    string
}

// NewSink returns a sink that writes into the knowledge base kbID.
func NewSink(entries kbcrawl.EntryService, kbID string) *Sink {
	return &Sink{entries: entries, kbID: kbID}
}

// Accept assigns the sink's knowledge base to entry and stores it.
func (s *Sink) Accept(ctx context.Context, entry *kbcrawl.Entry) error {
	entry.KnowledgeBaseID = s.kbID
	return s.entries.CreateEntry(ctx, entry)
}
