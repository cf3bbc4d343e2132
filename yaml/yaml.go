// Package yaml reads scrape job files and the built-in presets.
package yaml

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"os"

	"github.com/fwojciec/kbcrawl"
	yamlv3 "gopkg.in/yaml.v3"
)

// jobFile is the top-level shape of a job file.
type jobFile struct {
	Jobs []kbcrawl.ScrapeConfig `yaml:"jobs"`
}

// LoadJobs reads the job file at path. See ParseJobs.
func LoadJobs(path string) ([]kbcrawl.ScrapeConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, kbcrawl.Errorf(kbcrawl.ENOTFOUND, "job file %s not found", path)
		}
		return nil, err
	}
	defer f.Close()

	return ParseJobs(f)
}

// ParseJobs decodes a job file with a top-level jobs list. Unknown keys are
// rejected and every job must pass kbcrawl.NewJob.
func ParseJobs(r io.Reader) ([]kbcrawl.ScrapeConfig, error) {
	dec := yamlv3.NewDecoder(r)
	dec.KnownFields(true)

	var file jobFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, kbcrawl.Errorf(kbcrawl.EINVALID, "job file is empty")
		}
		return nil, kbcrawl.WrapError(kbcrawl.EINVALID, err, "failed to parse job file")
	}
	if len(file.Jobs) == 0 {
		return nil, kbcrawl.Errorf(kbcrawl.EINVALID, "job file has no jobs")
	}

	for i, cfg := range file.Jobs {
		if _, err := kbcrawl.NewJob(cfg); err != nil {
			return nil, kbcrawl.WrapError(kbcrawl.EINVALID, err, "job %d (%s)", i+1, cfg.URL)
		}
	}
	return file.Jobs, nil
}

// Preset is a named, ready-made scrape configuration.
type Preset struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Config      kbcrawl.ScrapeConfig `yaml:"config"`
}

//go:embed presets.yaml
var presetsYAML []byte

// Presets returns the built-in presets in a stable order.
func Presets() []Preset {
	var file struct {
		Presets []Preset `yaml:"presets"`
	}
	dec := yamlv3.NewDecoder(bytes.NewReader(presetsYAML))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		panic("yaml: invalid embedded presets: " + err.Error())
	}
	return file.Presets
}

// FindPreset returns the preset with the given ID.
// Returns ENOTFOUND if there is none.
func FindPreset(id string) (*Preset, error) {
	for _, p := range Presets() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, kbcrawl.Errorf(kbcrawl.ENOTFOUND, "unknown preset %q", id)
}
