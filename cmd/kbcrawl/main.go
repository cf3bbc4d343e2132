package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/kbcrawl"
	kbhttp "github.com/fwojciec/kbcrawl/http"
	"github.com/fwojciec/kbcrawl/rod"
	kbslog "github.com/fwojciec/kbcrawl/slog"
	"github.com/fwojciec/kbcrawl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Renderer overrides the browser or static renderer chosen by flags.
	Renderer kbcrawl.Renderer

	// Services for end-to-end testing. When set, no database is opened.
	KnowledgeBases kbcrawl.KnowledgeBaseService
	Entries        kbcrawl.EntryService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("kbcrawl"),
		kong.Description("Scrape articles from websites into knowledge bases"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'kbcrawl --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	command := kongCtx.Command()

	logger, logCloser, err := newLogger(cli.LogLevel, cli.LogFile, stderr)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	deps.Logger = logger

	if needsStore(command, cli) {
		if err := m.openStore(stderr); err != nil {
			return err
		}
		defer m.Close()
	}
	deps.KnowledgeBases = m.KnowledgeBases
	deps.Entries = m.Entries

	if needsRenderer(command) {
		renderer := m.Renderer
		if renderer == nil {
			renderer = cli.newRenderer()
		}
		renderer = kbslog.NewLoggingRenderer(renderer, logger)
		defer renderer.Close()

		// Kill the browser as soon as the run is interrupted.
		stopClose := context.AfterFunc(ctx, func() { _ = renderer.Close() })
		defer stopClose()

		deps.Renderer = renderer
	}

	return kongCtx.Run(deps)
}

// openStore opens the database unless services were injected.
func (m *Main) openStore(stderr io.Writer) error {
	if m.KnowledgeBases != nil && m.Entries != nil {
		return nil
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set KBCRAWL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	m.KnowledgeBases = sqlite.NewKnowledgeBaseService(m.DB)
	m.Entries = sqlite.NewEntryService(m.DB)
	return nil
}

// newRenderer builds the renderer selected by the global flags. The browser
// is not started until the first page is opened.
func (c *CLI) newRenderer() kbcrawl.Renderer {
	if c.Static {
		return kbhttp.NewRenderer()
	}
	var opts []rod.Option
	if c.ChromeBin != "" {
		opts = append(opts, rod.WithBrowserBin(c.ChromeBin))
	}
	if c.NoSandbox {
		opts = append(opts, rod.WithNoSandbox())
	}
	return rod.NewSessionManager(opts...)
}

func needsStore(command string, cli *CLI) bool {
	switch {
	case strings.HasPrefix(command, "kb "), strings.HasPrefix(command, "entries"):
		return true
	case strings.HasPrefix(command, "scrape"):
		return cli.Scrape.Out == ""
	}
	return false
}

func needsRenderer(command string) bool {
	return strings.HasPrefix(command, "scrape") || strings.HasPrefix(command, "categories")
}

func defaultDBPath() string {
	if path := os.Getenv("KBCRAWL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "kbcrawl.db"
	}
	dir := filepath.Join(home, ".kbcrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "kbcrawl.db")
}
