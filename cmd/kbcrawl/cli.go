package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/kbcrawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Renderer       kbcrawl.Renderer
	KnowledgeBases kbcrawl.KnowledgeBaseService
	Entries        kbcrawl.EntryService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel  string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Minimum log level (debug, info, warn, error)"`
	LogFile   string `name:"log-file" help:"Write JSON logs to this file with rotation instead of stderr"`
	Static    bool   `help:"Fetch pages over plain HTTP instead of a headless browser"`
	ChromeBin string `name:"chrome-bin" env:"KBCRAWL_CHROME" help:"Chrome executable to launch"`
	NoSandbox bool   `name:"no-sandbox" help:"Disable the Chrome sandbox (needed in some containers)"`

	Scrape     ScrapeCmd     `cmd:"" help:"Scrape a URL, a job file or presets"`
	Categories CategoriesCmd `cmd:"" help:"List link and button texts on a page"`
	Presets    PresetsCmd    `cmd:"" help:"List built-in presets"`
	KB         KBCmd         `cmd:"" name:"kb" help:"Manage knowledge bases"`
	Entries    EntriesCmd    `cmd:"" help:"List entries of a knowledge base"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL             string   `arg:"" optional:"" help:"Seed URL"`
	Mode            string   `short:"m" default:"link-follow" enum:"single,partial,crawl,link-follow,pdf" help:"Traversal mode"`
	ContentSelector string   `name:"content-selector" short:"s" help:"CSS selector for the content element"`
	LinkSelector    string   `name:"link-selector" short:"l" help:"CSS selector for links to follow in crawl mode"`
	MaxPages        int      `name:"max-pages" help:"Maximum linked pages to visit (0 uses the mode default)"`
	Name            string   `short:"n" help:"Job name (defaults to the host)"`
	SourceType      string   `name:"source-type" default:"blog" enum:"blog,guide,book" help:"Source type of the entries"`
	Jobs            string   `short:"j" help:"YAML job file"`
	Preset          []string `short:"p" help:"Built-in preset to run (repeatable)"`

	KB  string `name:"kb" help:"Knowledge base to store entries in (default: job name, created if missing)"`
	Out string `short:"o" help:"Write Markdown files under this directory instead of the database"`

	Fallback    string        `default:"trafilatura" enum:"trafilatura,readability,none" help:"Main-content extractor used when selectors find nothing"`
	Timeout     time.Duration `short:"t" default:"30s" help:"Navigation timeout per page"`
	Wait        string        `default:"load" enum:"load,domcontentloaded,networkidle" help:"When a page counts as loaded"`
	Settle      time.Duration `help:"Extra pause after a page has loaded"`
	RPS         float64       `name:"rps" default:"2" help:"Page loads per second per host (0 disables pacing)"`
	Retries     int           `default:"1" help:"Retries for a failed page load"`
	RetryDelay  time.Duration `name:"retry-delay" default:"1s" help:"Pause before each retry"`
	Concurrency int           `short:"c" default:"2" help:"Jobs to run at once"`
}

// CategoriesCmd is the "categories" subcommand.
type CategoriesCmd struct {
	URL     string        `arg:"" help:"Page URL"`
	Timeout time.Duration `short:"t" default:"30s" help:"Navigation timeout"`
}

// PresetsCmd is the "presets" subcommand.
type PresetsCmd struct{}

// KBCmd groups the knowledge base subcommands.
type KBCmd struct {
	Create KBCreateCmd `cmd:"" help:"Create a knowledge base"`
	List   KBListCmd   `cmd:"" help:"List knowledge bases"`
	Delete KBDeleteCmd `cmd:"" help:"Delete a knowledge base and its entries"`
}

// KBCreateCmd is the "kb create" subcommand.
type KBCreateCmd struct {
	Name        string `arg:"" help:"Knowledge base name"`
	Description string `short:"d" help:"Description"`
}

// KBListCmd is the "kb list" subcommand.
type KBListCmd struct{}

// KBDeleteCmd is the "kb delete" subcommand.
type KBDeleteCmd struct {
	Name  string `arg:"" help:"Knowledge base name"`
	Force bool   `help:"Confirm deletion"`
}

// EntriesCmd is the "entries" subcommand.
type EntriesCmd struct {
	Name  string `arg:"" help:"Knowledge base name"`
	Full  bool   `help:"Show full entry content"`
	Limit int    `default:"0" help:"Maximum entries to show (0 shows all)"`
}
