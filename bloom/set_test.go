package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/kbcrawl/bloom"
	"github.com/stretchr/testify/assert"
)

func TestSet_AddAndHas(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(1000, 0.01)

	assert.False(t, s.Has("https://example.com/a"))
	assert.True(t, s.Add("https://example.com/a"))
	assert.True(t, s.Has("https://example.com/a"))
	assert.False(t, s.Has("https://example.com/b"))
}

func TestSet_AddReportsDuplicates(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(1000, 0.01)

	assert.True(t, s.Add("https://example.com/a"))
	assert.False(t, s.Add("https://example.com/a"))
	assert.Equal(t, 1, s.Len())
}

func TestSet_NoFalsePositives(t *testing.T) {
	t.Parallel()

	// An undersized filter saturates quickly and reports almost everything
	// as maybe present.
	s := bloom.NewSet(1, 0.5)
	for i := range 500 {
		s.Add(fmt.Sprintf("https://example.com/seen/%d", i))
	}

	for i := range 500 {
		assert.False(t, s.Has(fmt.Sprintf("https://example.com/unseen/%d", i)))
	}
	assert.Equal(t, 500, s.Len())
}

func TestSet_EstimatedCount(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(1000, 0.01)
	assert.Equal(t, uint(0), s.EstimatedCount())

	s.Add("https://example.com/1")
	s.Add("https://example.com/2")
	s.Add("https://example.com/3")

	count := s.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}
