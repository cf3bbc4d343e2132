package kbcrawl

import (
	"context"
	"time"
)

// KnowledgeBase is a named collection of entries that scrape jobs fill.
type KnowledgeBase struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the knowledge base contains invalid fields.
func (kb *KnowledgeBase) Validate() error {
	if kb.Name == "" {
		return Errorf(EINVALID, "knowledge base name required")
	}
	return nil
}

// KnowledgeBaseService represents a service for managing knowledge bases.
type KnowledgeBaseService interface {
	// CreateKnowledgeBase creates a new knowledge base.
	// Returns ECONFLICT if the name is taken.
	CreateKnowledgeBase(ctx context.Context, kb *KnowledgeBase) error

	// FindKnowledgeBaseByID retrieves a knowledge base by ID.
	// Returns ENOTFOUND if it does not exist.
	FindKnowledgeBaseByID(ctx context.Context, id string) (*KnowledgeBase, error)

	// FindKnowledgeBases retrieves knowledge bases matching the filter.
	FindKnowledgeBases(ctx context.Context, filter KnowledgeBaseFilter) ([]*KnowledgeBase, error)

	// DeleteKnowledgeBase removes a knowledge base and all of its entries.
	// Returns ENOTFOUND if it does not exist.
	DeleteKnowledgeBase(ctx context.Context, id string) error
}

// KnowledgeBaseFilter represents a filter for FindKnowledgeBases.
type KnowledgeBaseFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
