package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/kbcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ kbcrawl.KnowledgeBaseService = (*KnowledgeBaseService)(nil)

// KnowledgeBaseService implements kbcrawl.KnowledgeBaseService using SQLite.
type KnowledgeBaseService struct {
	db *DB
}

// NewKnowledgeBaseService creates a new KnowledgeBaseService.
func NewKnowledgeBaseService(db *DB) *KnowledgeBaseService {
	return &KnowledgeBaseService{db: db}
}

// CreateKnowledgeBase creates a new knowledge base.
func (s *KnowledgeBaseService) CreateKnowledgeBase(ctx context.Context, kb *kbcrawl.KnowledgeBase) error {
	if err := kb.Validate(); err != nil {
		return err
	}

	kb.ID = uuid.New().String()
	now := time.Now().UTC().Truncate(time.Second)
	kb.CreatedAt = now
	kb.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO knowledge_bases (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, kb.ID, kb.Name, kb.Description, formatTime(kb.CreatedAt), formatTime(kb.UpdatedAt))
	if isUniqueViolation(err) {
		return kbcrawl.Errorf(kbcrawl.ECONFLICT, "knowledge base %q already exists", kb.Name)
	}
	return err
}

// FindKnowledgeBaseByID retrieves a knowledge base by ID.
func (s *KnowledgeBaseService) FindKnowledgeBaseByID(ctx context.Context, id string) (*kbcrawl.KnowledgeBase, error) {
	kbs, err := s.FindKnowledgeBases(ctx, kbcrawl.KnowledgeBaseFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(kbs) == 0 {
		return nil, kbcrawl.Errorf(kbcrawl.ENOTFOUND, "knowledge base not found")
	}
	return kbs[0], nil
}

// FindKnowledgeBases retrieves knowledge bases matching the filter, oldest first.
func (s *KnowledgeBaseService) FindKnowledgeBases(ctx context.Context, filter kbcrawl.KnowledgeBaseFilter) ([]*kbcrawl.KnowledgeBase, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, description, created_at, updated_at FROM knowledge_bases WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY created_at ASC, name ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kbs []*kbcrawl.KnowledgeBase
	for rows.Next() {
		kb, err := scanKnowledgeBase(rows)
		if err != nil {
			return nil, err
		}
		kbs = append(kbs, kb)
	}

	return kbs, rows.Err()
}

// DeleteKnowledgeBase permanently removes a knowledge base. Its entries are
// removed by the foreign key cascade.
func (s *KnowledgeBaseService) DeleteKnowledgeBase(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM knowledge_bases WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return kbcrawl.Errorf(kbcrawl.ENOTFOUND, "knowledge base not found")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanKnowledgeBase(row scanner) (*kbcrawl.KnowledgeBase, error) {
	var kb kbcrawl.KnowledgeBase
	var createdAt, updatedAt string

	if err := row.Scan(&kb.ID, &kb.Name, &kb.Description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if kb.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if kb.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &kb, nil
}
