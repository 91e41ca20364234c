// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import (
	"fmt"

	"github.com/bitlang/bit/ast"
	"github.com/bitlang/bit/mod"
)

// An Importer imports modules by path.
// Imported modules must be checked with cfg,
// so that they share its definition store.
type Importer interface {
	Import(cfg Config, path string) (*Mod, error)
}

type importer struct {
	paths    []string
	imports  map[string]*Mod
	importer Importer
}

func newImporter(modPath string, base Importer) *importer {
	return &importer{
		paths:    []string{modPath},
		imports:  make(map[string]*Mod),
		importer: base,
	}
}

func (ir *importer) Import(cfg Config, path string) (*Mod, error) {
	ir.paths = append(ir.paths, path)
	defer func() { ir.paths = ir.paths[:len(ir.paths)-1] }()
	for _, p := range ir.paths[:len(ir.paths)-1] {
		if p == path {
			return nil, fmt.Errorf("import cycle: %v", ir.paths)
		}
	}
	if m, ok := ir.imports[path]; ok {
		if m == nil {
			return nil, fmt.Errorf("failed to import %s", path)
		}
		return m, nil
	}
	m, err := ir.importer.Import(cfg, path)
	ir.imports[path] = m // add nil on error too
	if err != nil {
		return nil, err
	}
	if m.Defs != cfg.Defs {
		return nil, fmt.Errorf("module %s was checked with a different definition store", path)
	}
	return m, nil
}

// SourceImporter imports modules from their source code.
type SourceImporter struct {
	// Root is the root directory of the package holding the modules.
	Root string

	pkg *mod.Package
}

// Import implemements the Importer interface.
func (ir *SourceImporter) Import(cfg Config, modPath string) (*Mod, error) {
	if ir.pkg == nil {
		pkg, err := mod.New(ir.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to open package %s: %s", ir.Root, err)
		}
		ir.pkg = pkg
	}
	m, err := ir.pkg.Resolve(modPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %s", modPath, err)
	}
	p := ast.NewParser(modPath)
	for _, f := range m.Files {
		if err := p.ParseFile(f); err != nil {
			return nil, fmt.Errorf("error parsing import %s:\n%v", modPath, err)
		}
	}
	cfg.Trace = false // don't trace imports
	checked, errs := Check(p.Mod(), cfg)
	if len(errs) > 0 {
		return nil, fmt.Errorf("error checking import %s:\n%v", modPath, errs)
	}
	return checked, nil
}

// A Cache is an Importer that returns previously checked modules,
// falling back to another Importer for modules it does not have.
type Cache struct {
	Mods     map[string]*Mod
	Fallback Importer
}

// Import implemements the Importer interface.
func (c *Cache) Import(cfg Config, path string) (*Mod, error) {
	if m, ok := c.Mods[path]; ok {
		return m, nil
	}
	if c.Fallback == nil {
		return nil, fmt.Errorf("module %s not found", path)
	}
	m, err := c.Fallback.Import(cfg, path)
	if err != nil {
		return nil, err
	}
	if c.Mods == nil {
		c.Mods = make(map[string]*Mod)
	}
	c.Mods[path] = m
	return m, nil
}
