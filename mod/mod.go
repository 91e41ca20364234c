// Copyright © 2026 The Bit Authors under an MIT-style license.

// Package mod finds the modules of a bit package
// and the use dependencies among them.
//
// A package is a directory tree.
// Each directory of the tree that holds source files is a module,
// named by its slash-separated path below the package root.
// That name is what a use item gives:
// use lib/num names the module in the directory lib/num.
// The source files directly in the root form the module named main.
package mod

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bitlang/bit/ast"
)

// Ext is the file extension of source files.
const Ext = ".bit"

// MainPath is the path of the module in the package root directory.
const MainPath = "main"

// A Package is the modules beneath a root directory.
type Package struct {
	// Root is the absolute path of the root directory.
	Root string

	mods map[string]*Mod
}

// A Mod is a module of a package.
type Mod struct {
	// Path is the module's path, as it appears in a use item.
	Path string
	// Dir is the directory holding the module's source files.
	Dir string
	// Files are the module's source files in alphabetical order.
	Files []string
	// Uses are the paths named by the module's use items,
	// sorted, without duplicates.
	Uses []string
	// Deps are the modules named by Uses, in the same order.
	// Deps is nil until the module is linked.
	Deps []*Mod

	linked bool
}

// Name returns the last element of the module's path.
func (m *Mod) Name() string { return path.Base(m.Path) }

// New returns the package rooted at the directory root.
// Modules are read as they are resolved.
func New(root string) (*Package, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	return &Package{Root: root, mods: make(map[string]*Mod)}, nil
}

// Resolve returns the module named by a use path.
func (p *Package) Resolve(modPath string) (*Mod, error) {
	if m, ok := p.mods[modPath]; ok {
		return m, nil
	}
	if err := checkPath(modPath); err != nil {
		return nil, err
	}
	dir := p.Root
	if modPath != MainPath {
		dir = filepath.Join(p.Root, filepath.FromSlash(modPath))
	}
	files, err := srcFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("module %s not found: no source files in %s", modPath, dir)
	}
	uses, err := readUses(files)
	if err != nil {
		return nil, err
	}
	m := &Mod{Path: modPath, Dir: dir, Files: files, Uses: uses}
	p.mods[modPath] = m
	return m, nil
}

// checkPath returns an error if modPath cannot name a module.
func checkPath(modPath string) error {
	if modPath == "" {
		return fmt.Errorf("empty module path")
	}
	for _, elem := range strings.Split(modPath, "/") {
		switch {
		case elem == "" || elem == "." || elem == "..":
			return fmt.Errorf("bad module path %q", modPath)
		case strings.ContainsAny(elem, `\:`):
			return fmt.Errorf("bad module path %q", modPath)
		}
	}
	return nil
}

func srcFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func readUses(files []string) ([]string, error) {
	var uses []string
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		us, err := ast.ReadImports(file, bufio.NewReader(f))
		f.Close()
		if err != nil {
			return nil, err
		}
		uses = append(uses, us...)
	}
	sort.Strings(uses)
	var i int
	for _, u := range uses {
		if i == 0 || u != uses[i-1] {
			uses[i] = u
			i++
		}
	}
	return uses[:i], nil
}

// Link resolves the dependencies of m,
// and of its dependencies in turn, setting their Deps.
func (p *Package) Link(m *Mod) error {
	if m.linked {
		return nil
	}
	m.linked = true
	m.Deps = make([]*Mod, 0, len(m.Uses))
	for _, u := range m.Uses {
		d, err := p.Resolve(u)
		if err != nil {
			return fmt.Errorf("%s: use %s: %w", m.Path, u, err)
		}
		m.Deps = append(m.Deps, d)
		if err := p.Link(d); err != nil {
			return err
		}
	}
	return nil
}

// All resolves and links every module of the package,
// returning them sorted by path.
func (p *Package) All() ([]*Mod, error) {
	var mods []*Mod
	err := filepath.WalkDir(p.Root, func(dir string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case !d.IsDir():
			return nil
		case dir != p.Root && strings.HasPrefix(d.Name(), "."):
			return filepath.SkipDir
		}
		files, err := srcFiles(dir)
		if err != nil || len(files) == 0 {
			return err
		}
		rel, err := filepath.Rel(p.Root, dir)
		if err != nil {
			return err
		}
		modPath := filepath.ToSlash(rel)
		switch modPath {
		case ".":
			modPath = MainPath
		case MainPath:
			return fmt.Errorf("%s: directory conflicts with the root module %s", dir, MainPath)
		}
		m, err := p.Resolve(modPath)
		if err != nil {
			return err
		}
		mods = append(mods, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, m := range mods {
		if err := p.Link(m); err != nil {
			return nil, err
		}
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Path < mods[j].Path })
	return mods, nil
}

// Order returns the roots and their linked dependencies,
// each dependency before its dependants,
// or an error if the uses form a cycle.
// Each module appears once, even if reachable from several roots.
func Order(roots ...*Mod) ([]*Mod, error) {
	const (
		visiting = 1
		done     = 2
	)
	var sorted []*Mod
	state := make(map[*Mod]int)
	var stack []string
	var visit func(*Mod) error
	visit = func(m *Mod) error {
		switch state[m] {
		case done:
			return nil
		case visiting:
			i := len(stack) - 1
			for i > 0 && stack[i] != m.Path {
				i--
			}
			cycle := append(stack[i:len(stack):len(stack)], m.Path)
			return fmt.Errorf("use cycle: %s", strings.Join(cycle, " -> "))
		}
		state[m] = visiting
		stack = append(stack, m.Path)
		for _, d := range m.Deps {
			if err := visit(d); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[m] = done
		sorted = append(sorted, m)
		return nil
	}
	for _, r := range roots {
		if err := visit(r); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
