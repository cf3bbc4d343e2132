package main

import (
	"fmt"

	"github.com/fwojciec/kbcrawl"
	"github.com/fwojciec/kbcrawl/crawl"
	"github.com/fwojciec/kbcrawl/goquery"
)

// Run executes the categories command.
func (c *CategoriesCmd) Run(deps *Dependencies) error {
	engine := &crawl.Engine{
		Renderer:      deps.Renderer,
		Links:         goquery.NewLinkExtractor(),
		RenderOptions: kbcrawl.RenderOptions{Timeout: c.Timeout},
		Logger:        deps.Logger,
	}

	categories, err := engine.Categories(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbcrawl.ErrorMessage(err))
		return err
	}

	if len(categories) == 0 {
		fmt.Fprintln(deps.Stdout, "No categories found.")
		return nil
	}
	for _, category := range categories {
		fmt.Fprintln(deps.Stdout, category)
	}
	return nil
}
