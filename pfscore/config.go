package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Dilshan-Pathirana/Partition-Finder-2.1.1/score"
)

// config stores the settings which can be given in the configuration
// file. Command line flags override them.
type config struct {
	BranchLengths  string `yaml:"branchlengths" validate:"required"`
	ModelSelection string `yaml:"model_selection" validate:"required"`
	NumTaxa        int    `yaml:"num_taxa" validate:"gte=0"`
	Tree           string `yaml:"tree"`
	Models         string `yaml:"models"`
	Database       string `yaml:"database"`
	Threads        int    `yaml:"threads" validate:"gte=0"`
}

// defaultConfig returns the built-in settings.
func defaultConfig() config {
	return config{
		BranchLengths:  "linked",
		ModelSelection: "aicc",
	}
}

// loadConfig reads the YAML file fn over the defaults. An empty fn
// gives the defaults.
func loadConfig(fn string) (config, error) {
	cfg := defaultConfig()
	if fn == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(fn)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", fn, err)
	}
	return cfg, nil
}

// override replaces settings given on the command line (non-zero
// values).
func (c *config) override(o config) {
	if o.BranchLengths != "" {
		c.BranchLengths = o.BranchLengths
	}
	if o.ModelSelection != "" {
		c.ModelSelection = o.ModelSelection
	}
	if o.NumTaxa != 0 {
		c.NumTaxa = o.NumTaxa
	}
	if o.Tree != "" {
		c.Tree = o.Tree
	}
	if o.Models != "" {
		c.Models = o.Models
	}
	if o.Database != "" {
		c.Database = o.Database
	}
	if o.Threads != 0 {
		c.Threads = o.Threads
	}
}

// validate checks the settings, including the policy and criterion
// names.
func (c *config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if _, err := score.ParseBranchLengths(c.BranchLengths); err != nil {
		return err
	}
	if _, err := score.ParseCriterion(c.ModelSelection); err != nil {
		return err
	}
	return nil
}
