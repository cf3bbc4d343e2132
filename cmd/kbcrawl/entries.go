package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/kbcrawl"
)

// Run executes the entries command.
func (c *EntriesCmd) Run(deps *Dependencies) error {
	kb, err := findKBByName(deps, c.Name)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbcrawl.ErrorMessage(err))
		return err
	}

	entries, err := deps.Entries.FindEntries(deps.Ctx, kbcrawl.EntryFilter{KnowledgeBaseID: &kb.ID, Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbcrawl.ErrorMessage(err))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintf(deps.Stdout, "No entries in %q.\n", kb.Name)
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(deps.Stdout, "%s\n  %s\n", e.Title, e.SourceURL)
		if e.Metadata.Author != "" || e.Metadata.Date != "" {
			fmt.Fprintf(deps.Stdout, "  %s\n", strings.TrimSpace(e.Metadata.Author+" "+e.Metadata.Date))
		}
		if c.Full {
			fmt.Fprintf(deps.Stdout, "\n%s\n\n", e.Content)
		} else if e.Metadata.Excerpt != "" {
			fmt.Fprintf(deps.Stdout, "  %s\n", e.Metadata.Excerpt)
		}
	}
	return nil
}
