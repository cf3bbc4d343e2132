package main

import (
	"fmt"

	"github.com/fwojciec/kbcrawl/yaml"
)

// Run executes the presets command.
func (c *PresetsCmd) Run(deps *Dependencies) error {
	for _, p := range yaml.Presets() {
		fmt.Fprintf(deps.Stdout, "%-18s %s\n", p.ID, p.Name)
		fmt.Fprintf(deps.Stdout, "%-18s %s\n", "", p.Config.URL)
	}
	return nil
}
