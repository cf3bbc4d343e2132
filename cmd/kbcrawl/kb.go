package main

import (
	"fmt"

	"github.com/fwojciec/kbcrawl"
)

// Run executes the kb create command.
func (c *KBCreateCmd) Run(deps *Dependencies) error {
	kb := &kbcrawl.KnowledgeBase{Name: c.Name, Description: c.Description}
	if err := deps.KnowledgeBases.CreateKnowledgeBase(deps.Ctx, kb); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Created knowledge base %q (%s)\n", kb.Name, kb.ID)
	return nil
}

// Run executes the kb list command.
func (c *KBListCmd) Run(deps *Dependencies) error {
	kbs, err := deps.KnowledgeBases.FindKnowledgeBases(deps.Ctx, kbcrawl.KnowledgeBaseFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbcrawl.ErrorMessage(err))
		return err
	}

	if len(kbs) == 0 {
		fmt.Fprintln(deps.Stdout, "No knowledge bases found. Use 'kbcrawl kb create' or 'kbcrawl scrape' to create one.")
		return nil
	}

	for _, kb := range kbs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", kb.ID, kb.Name, kb.Description)
	}
	return nil
}

// Run executes the kb delete command.
func (c *KBDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		err := fmt.Errorf("refusing to delete %q without --force", c.Name)
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	kb, err := findKBByName(deps, c.Name)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbcrawl.ErrorMessage(err))
		return err
	}

	if err := deps.KnowledgeBases.DeleteKnowledgeBase(deps.Ctx, kb.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted knowledge base %q\n", kb.Name)
	return nil
}

// findKBByName returns the knowledge base called name or ENOTFOUND.
func findKBByName(deps *Dependencies, name string) (*kbcrawl.KnowledgeBase, error) {
	kbs, err := deps.KnowledgeBases.FindKnowledgeBases(deps.Ctx, kbcrawl.KnowledgeBaseFilter{Name: &name, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(kbs) == 0 {
		return nil, kbcrawl.Errorf(kbcrawl.ENOTFOUND, "knowledge base %q not found", name)
	}
	return kbs[0], nil
}
