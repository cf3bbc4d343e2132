package mock

import (
	"context"

	"github.com/fwojciec/kbcrawl"
)

// Compile-time interface verification.
var (
	_ kbcrawl.Sink                 = (*Sink)(nil)
	_ kbcrawl.KnowledgeBaseService = (*KnowledgeBaseService)(nil)
	_ kbcrawl.EntryService         = (*EntryService)(nil)
	_ kbcrawl.DomainLimiter        = (*DomainLimiter)(nil)
)

// Sink is a mock implementation of kbcrawl.Sink.
type Sink struct {
	AcceptFn func(ctx context.Context, entry *kbcrawl.Entry) error
}

func (s *Sink) Accept(ctx context.Context, entry *kbcrawl.Entry) error {
	return s.AcceptFn(ctx, entry)
}

// KnowledgeBaseService is a mock implementation of kbcrawl.KnowledgeBaseService.
type KnowledgeBaseService struct {
	CreateKnowledgeBaseFn   func(ctx context.Context, kb *kbcrawl.KnowledgeBase) error
	FindKnowledgeBaseByIDFn func(ctx context.Context, id string) (*kbcrawl.KnowledgeBase, error)
	FindKnowledgeBasesFn    func(ctx context.Context, filter kbcrawl.KnowledgeBaseFilter) ([]*kbcrawl.KnowledgeBase, error)
	DeleteKnowledgeBaseFn   func(ctx context.Context, id string) error
}

func (s *KnowledgeBaseService) CreateKnowledgeBase(ctx context.Context, kb *kbcrawl.KnowledgeBase) error {
	return s.CreateKnowledgeBaseFn(ctx, kb)
}

func (s *KnowledgeBaseService) FindKnowledgeBaseByID(ctx context.Context, id string) (*kbcrawl.KnowledgeBase, error) {
	return s.FindKnowledgeBaseByIDFn(ctx, id)
}

func (s *KnowledgeBaseService) FindKnowledgeBases(ctx context.Context, filter kbcrawl.KnowledgeBaseFilter) ([]*kbcrawl.KnowledgeBase, error) {
	return s.FindKnowledgeBasesFn(ctx, filter)
}

func (s *KnowledgeBaseService) DeleteKnowledgeBase(ctx context.Context, id string) error {
	return s.DeleteKnowledgeBaseFn(ctx, id)
}

// EntryService is a mock implementation of kbcrawl.EntryService.
type EntryService struct {
	CreateEntryFn                  func(ctx context.Context, entry *kbcrawl.Entry) error
	FindEntriesFn                  func(ctx context.Context, filter kbcrawl.EntryFilter) ([]*kbcrawl.Entry, error)
	DeleteEntriesByKnowledgeBaseFn func(ctx context.Context, kbID string) error
}

func (s *EntryService) CreateEntry(ctx context.Context, entry *kbcrawl.Entry) error {
	return s.CreateEntryFn(ctx, entry)
}

func (s *EntryService) FindEntries(ctx context.Context, filter kbcrawl.EntryFilter) ([]*kbcrawl.Entry, error) {
	return s.FindEntriesFn(ctx, filter)
}

func (s *EntryService) DeleteEntriesByKnowledgeBase(ctx context.Context, kbID string) error {
	return s.DeleteEntriesByKnowledgeBaseFn(ctx, kbID)
}

// DomainLimiter is a mock implementation of kbcrawl.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
