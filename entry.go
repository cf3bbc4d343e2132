package kbcrawl

import (
	"context"
	"time"
)

// Entry is an extracted item stored in a knowledge base.
type Entry struct {
	ID              string        `json:"id"`
	KnowledgeBaseID string        `json:"knowledgeBaseId"`
	Title           string        `json:"title"`
	Content         string        `json:"content"`
	SourceURL       string        `json:"sourceUrl"`
	SourceType      SourceType    `json:"sourceType"`
	Metadata        EntryMetadata `json:"metadata"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// EntryMetadata holds the optional descriptive fields of an entry.
type EntryMetadata struct {
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	Date        string   `json:"date,omitempty" yaml:"date,omitempty"`
	Excerpt     string   `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Source      string   `json:"source,omitempty" yaml:"source,omitempty"`
	ContentHash string   `json:"contentHash,omitempty" yaml:"content_hash,omitempty"`
}

// NewEntry maps an item produced by job to an entry. The knowledge base is
// assigned by the sink that stores it.
func NewEntry(job Job, item *ExtractedItem) *Entry {
	return &Entry{
		Title:      item.Title,
		Content:    item.Content,
		SourceURL:  item.URL,
		SourceType: job.Info().SourceType,
		Metadata: EntryMetadata{
			Author:  item.Author,
			Date:    item.Date,
			Excerpt: item.Excerpt(DefaultExcerptLength),
			Tags:    item.Tags,
			Source:  item.Source,
		},
	}
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if e.KnowledgeBaseID == "" {
		return Errorf(EINVALID, "entry knowledge base ID required")
	}
	if e.Title == "" {
		return Errorf(EINVALID, "entry title required")
	}
	if e.SourceURL == "" {
		return Errorf(EINVALID, "entry source URL required")
	}
	if _, err := ParseSourceType(string(e.SourceType)); err != nil {
		return err
	}
	return nil
}

// Sink receives extracted entries as a job produces them. A rejected entry
// is reported back to the engine and never stops the job.
type Sink interface {
	Accept(ctx context.Context, entry *Entry) error
}

// EntryService represents a service for managing stored entries.
type EntryService interface {
	// CreateEntry stores a new entry.
	CreateEntry(ctx context.Context, entry *Entry) error

	// FindEntries retrieves entries matching the filter.
	FindEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)

	// DeleteEntriesByKnowledgeBase removes all entries of a knowledge base.
	DeleteEntriesByKnowledgeBase(ctx context.Context, kbID string) error
}

// EntryFilter represents a filter for FindEntries.
type EntryFilter struct {
	ID              *string `json:"id"`
	KnowledgeBaseID *string `json:"knowledgeBaseId"`
	SourceURL       *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
