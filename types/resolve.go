// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import "github.com/bitlang/bit/loc"

// A Def is a module-level definition: an AdtID or a FnID.
type Def interface {
	isDef()
}

func (AdtID) isDef() {}
func (FnID) isDef()  {}

// A Local is a local variable or parameter.
type Local struct {
	Name string
	Ty   Ty
	Mut  bool
	// Range is the location of the definition.
	Range loc.Range
}

// Res is the resolution of a name.
// Exactly one of Local or Def is non-nil.
type Res struct {
	Local *Local
	Def   Def
}

// resolver is the lexical scope of a module.
type resolver struct {
	scopes  []map[string]*Local
	defs    map[string]Def
	imports map[string]*Mod
}

func newResolver() *resolver {
	return &resolver{
		defs:    make(map[string]Def),
		imports: make(map[string]*Mod),
	}
}

func (r *resolver) pushScope() { r.scopes = append(r.scopes, make(map[string]*Local)) }

func (r *resolver) popScope() {
	if len(r.scopes) == 0 {
		bug(nil, "pop of empty scope stack")
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// defineLocal defines a local in the innermost scope.
// It returns the previous definition and false
// if the name is already defined in that scope.
func (r *resolver) defineLocal(l *Local) (*Local, bool) {
	if len(r.scopes) == 0 {
		bug(l, "define local with no scope")
	}
	top := r.scopes[len(r.scopes)-1]
	if prev, ok := top[l.Name]; ok {
		return prev, false
	}
	top[l.Name] = l
	return nil, true
}

// defineDef defines a module-level name.
// It returns false and leaves the table unchanged if the name is defined.
func (r *resolver) defineDef(name string, d Def) bool {
	if _, ok := r.defs[name]; ok {
		return false
	}
	r.defs[name] = d
	return true
}

func (r *resolver) defineImport(name string, m *Mod) bool {
	if _, ok := r.imports[name]; ok {
		return false
	}
	r.imports[name] = m
	return true
}

// resolve returns the resolution of a name,
// searching locals innermost first, then module definitions.
func (r *resolver) resolve(name string) (Res, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if l, ok := r.scopes[i][name]; ok {
			return Res{Local: l}, true
		}
	}
	if d, ok := r.defs[name]; ok {
		return Res{Def: d}, true
	}
	return Res{}, false
}

// lookupImport returns the module imported under a name,
// unless the name is shadowed by a local or definition.
func (r *resolver) lookupImport(name string) (*Mod, bool) {
	if _, ok := r.resolve(name); ok {
		return nil, false
	}
	m, ok := r.imports[name]
	return m, ok
}
