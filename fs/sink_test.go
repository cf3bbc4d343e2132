package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/kbcrawl"
	"github.com/fwojciec/kbcrawl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Story: Markdown Output
// Each entry becomes one file and the directory appears on commit

func TestSlugify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "negotiating-your-offer", fs.Slugify("Negotiating Your Offer!"))
	assert.Equal(t, "c-vs-go-2024", fs.Slugify("  C++ vs. Go (2024) "))
	assert.Equal(t, "untitled", fs.Slugify("???"))
}

func TestSink_AcceptWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a sink targeting a directory
	base := t.TempDir()
	sink := fs.NewSink(base, "output")

	// When I accept an entry
	err := sink.Accept(context.Background(), &kbcrawl.Entry{
		Title:     "System Design",
		SourceURL: "https://example.com/blog/system-design",
		Content:   "# System Design\n\nStart with requirements.",
	})

	// Then no error occurs
	require.NoError(t, err)

	// And the file exists in the temp directory
	_, err = os.Stat(filepath.Join(base, "output.tmp", "system-design.md"))
	require.NoError(t, err, "file should exist in temp directory")

	// And the final directory does not exist yet
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestSink_CommitMovesFromTempToFinal(t *testing.T) {
	t.Parallel()

	// Given a sink with an accepted entry
	base := t.TempDir()
	sink := fs.NewSink(base, "output")
	require.NoError(t, sink.Accept(context.Background(), &kbcrawl.Entry{
		Title:     "A",
		SourceURL: "https://example.com/a",
	}))

	// When I commit
	require.NoError(t, sink.Commit())

	// Then the final directory holds the file
	_, err := os.Stat(filepath.Join(sink.Dir(), "a.md"))
	require.NoError(t, err, "file should exist in final directory after commit")

	// And the temp directory is gone
	_, err = os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestSink_CommitWithoutEntriesCreatesEmptyDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	sink := fs.NewSink(base, "output")

	require.NoError(t, sink.Commit())

	entries, err := os.ReadDir(filepath.Join(base, "output"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSink_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a sink with an accepted entry
	base := t.TempDir()
	sink := fs.NewSink(base, "output")
	require.NoError(t, sink.Accept(context.Background(), &kbcrawl.Entry{
		Title:     "A",
		SourceURL: "https://example.com/a",
	}))

	// When I abort
	require.NoError(t, sink.Abort())

	// Then neither directory exists
	_, err := os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist after abort")
}

func TestSink_CollidingTitlesGetSuffixes(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	sink := fs.NewSink(base, "output")
	ctx := context.Background()

	for _, u := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		require.NoError(t, sink.Accept(ctx, &kbcrawl.Entry{Title: "Same Title", SourceURL: u}))
	}
	require.NoError(t, sink.Commit())

	for _, name := range []string{"same-title.md", "same-title-2.md", "same-title-3.md"} {
		_, err := os.Stat(filepath.Join(sink.Dir(), name))
		assert.NoError(t, err, name)
	}
}

func TestSink_KeepsOutputInsideBaseDirectory(t *testing.T) {
	t.Parallel()

	// Given a sink whose name tries to escape the base directory
	root := t.TempDir()
	base := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(base, 0o755))
	outside := filepath.Join(root, "x")
	require.NoError(t, os.MkdirAll(outside, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "keep.txt"), []byte("keep"), 0o644))
	sink := fs.NewSink(base, "../x")

	// When I accept an entry and commit
	require.NoError(t, sink.Accept(context.Background(), &kbcrawl.Entry{
		Title:     "A",
		SourceURL: "https://example.com/a",
	}))
	require.NoError(t, sink.Commit())

	// Then the output lands in a directory under base
	assert.Equal(t, filepath.Join(base, "x"), sink.Dir())
	_, err := os.Stat(filepath.Join(base, "x", "a.md"))
	require.NoError(t, err)

	// And the directory outside base is untouched
	data, err := os.ReadFile(filepath.Join(outside, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestSink_RejectsEntryWithoutTitle(t *testing.T) {
	t.Parallel()

	sink := fs.NewSink(t.TempDir(), "output")

	err := sink.Accept(context.Background(), &kbcrawl.Entry{SourceURL: "https://example.com/a"})
	assert.Equal(t, kbcrawl.EINVALID, kbcrawl.ErrorCode(err))
}

func TestSink_IncludesFrontmatter(t *testing.T) {
	t.Parallel()

	// Given an entry with metadata
	base := t.TempDir()
	sink := fs.NewSink(base, "output")
	require.NoError(t, sink.Accept(context.Background(), &kbcrawl.Entry{
		Title:      "Offers: what to ask",
		SourceURL:  "https://example.com/offers",
		SourceType: kbcrawl.SourceGuide,
		Content:    "# Offers",
		Metadata: kbcrawl.EntryMetadata{
			Author: "Aline",
			Date:   "2024-01-02",
			Tags:   []string{"salary"},
			Source: "example.com",
		},
	}))
	require.NoError(t, sink.Commit())

	// When I read the file
	data, err := os.ReadFile(filepath.Join(sink.Dir(), "offers-what-to-ask.md"))
	require.NoError(t, err)
	content := string(data)

	// Then it starts with a frontmatter block followed by the content
	require.True(t, strings.HasPrefix(content, "---\n"))
	parts := strings.SplitN(strings.TrimPrefix(content, "---\n"), "---\n", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "\n# Offers\n", parts[1])

	// And the frontmatter parses as YAML with every field
	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(parts[0]), &fm))
	assert.Equal(t, "Offers: what to ask", fm["title"])
	assert.Equal(t, "https://example.com/offers", fm["url"])
	assert.Equal(t, "example.com", fm["source"])
	assert.Equal(t, "guide", fm["source_type"])
	assert.Equal(t, "Aline", fm["author"])
	assert.Equal(t, "2024-01-02", fm["date"])
	assert.Equal(t, []any{"salary"}, fm["tags"])
}
