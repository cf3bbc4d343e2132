// Package fs writes extracted entries as Markdown files.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/fwojciec/kbcrawl"
	"gopkg.in/yaml.v3"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a file name stem.
// Example: "Negotiating Your Offer!" → negotiating-your-offer
func Slugify(title string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}

// frontmatter is the YAML header of an entry file.
type frontmatter struct {
	Title      string   `yaml:"title"`
	URL        string   `yaml:"url"`
	Source     string   `yaml:"source,omitempty"`
	SourceType string   `yaml:"source_type,omitempty"`
	Author     string   `yaml:"author,omitempty"`
	Date       string   `yaml:"date,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
}

// FormatEntry formats an entry as Markdown with YAML frontmatter.
func FormatEntry(e *kbcrawl.Entry) (string, error) {
	header, err := yaml.Marshal(frontmatter{
		Title:      e.Title,
		URL:        e.SourceURL,
		Source:     e.Metadata.Source,
		SourceType: string(e.SourceType),
		Author:     e.Metadata.Author,
		Date:       e.Metadata.Date,
		Tags:       e.Metadata.Tags,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(e.Content)
	b.WriteString("\n")
	return b.String(), nil
}

// Ensure Sink implements kbcrawl.Sink at compile time.
var _ kbcrawl.Sink = (*Sink)(nil)

// Sink writes one Markdown file per entry. Files go to a temporary
// directory first and replace the output directory on Commit.
//
// Sink is safe for concurrent use.
type Sink struct {
	baseDir string
	name    string

	mu    sync.Mutex
	taken map[string]bool
}

// NewSink creates a Sink. Files are saved to baseDir/name.tmp and moved to
// baseDir/name on Commit. The name is slugified so it always stays a single
// directory inside baseDir.
func NewSink(baseDir, name string) *Sink {
	return &Sink{
		baseDir: baseDir,
		name:    Slugify(name),
		taken:   make(map[string]bool),
	}
}

func (s *Sink) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *Sink) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Accept writes entry to a file named after its title. Titles that slug to
// the same name get -2, -3 and so on.
func (s *Sink) Accept(ctx context.Context, entry *kbcrawl.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.Title == "" {
		return kbcrawl.Errorf(kbcrawl.EINVALID, "entry title required")
	}
	if entry.SourceURL == "" {
		return kbcrawl.Errorf(kbcrawl.EINVALID, "entry source URL required")
	}

	content, err := FormatEntry(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	filename := s.claim(Slugify(entry.Title))
	return os.WriteFile(filepath.Join(s.tempDir(), filename), []byte(content), 0644)
}

// claim reserves a unique file name for slug. Must be called with mu held.
func (s *Sink) claim(slug string) string {
	name := slug + ".md"
	for i := 2; s.taken[name]; i++ {
		name = fmt.Sprintf("%s-%d.md", slug, i)
	}
	s.taken[name] = true
	return name
}

// Commit replaces the output directory with everything written so far.
func (s *Sink) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything written so far.
func (s *Sink) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return os.RemoveAll(s.tempDir())
}

// Dir returns the directory files end up in after Commit.
func (s *Sink) Dir() string {
	return s.finalDir()
}
