// Copyright © 2026 The Bit Authors under an MIT-style license.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// config is the contents of a bit.yml file.
type config struct {
	// Root is the root directory of the package.
	Root string `yaml:"root"`
	// IntBits and FloatBits are the default literal sizes.
	IntBits   int  `yaml:"int_bits"`
	FloatBits int  `yaml:"float_bits"`
	Trace     bool `yaml:"trace"`
}

// loadConfig reads a config file.
// A missing file is not an error unless required is set;
// it returns the zero config.
func loadConfig(path string, required bool) (config, error) {
	var cfg config
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	if err := decodeConfig(f, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch cfg.IntBits {
	case 0, 8, 16, 32, 64:
	default:
		return fmt.Errorf("bad int_bits: %d", cfg.IntBits)
	}
	switch cfg.FloatBits {
	case 0, 32, 64:
	default:
		return fmt.Errorf("bad float_bits: %d", cfg.FloatBits)
	}
	return nil
}

// override replaces fields of cfg by the flags set on the command line.
// set is the names of the flags that were set.
func (cfg config) override(set map[string]bool, root string, intBits, floatBits int, trace bool) config {
	if set["root"] {
		cfg.Root = root
	}
	if set["int"] {
		cfg.IntBits = intBits
	}
	if set["float"] {
		cfg.FloatBits = floatBits
	}
	if set["trace"] {
		cfg.Trace = trace
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	return cfg
}
