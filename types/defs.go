// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import (
	"fortio.org/safecast"
	"github.com/bitlang/bit/loc"
)

// AdtID is the handle of a struct or enum definition.
type AdtID uint32

// FnID is the handle of a function definition.
type FnID uint32

// AdtKind distinguishes structs from enums.
type AdtKind int

const (
	StructKind AdtKind = iota
	EnumKind
)

// An AdtDef is a struct or enum definition.
type AdtDef struct {
	Loc      loc.Loc
	Mod      string
	Name     string
	Pub      bool
	Kind     AdtKind
	Generics []string
	// Fields is the fields of a struct.
	Fields []FieldDef
	// Variants is the variants of an enum.
	Variants []VariantDef
}

// A FieldDef is a struct field.
type FieldDef struct {
	Name string
	Ty   Ty
}

// A VariantDef is an enum variant.
type VariantDef struct {
	Name   string
	Params []Ty
}

// Field returns the index of the named field or -1.
func (d *AdtDef) Field(name string) int {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// Variant returns the index of the named variant or -1.
func (d *AdtDef) Variant(name string) int {
	for i := range d.Variants {
		if d.Variants[i].Name == name {
			return i
		}
	}
	return -1
}

// A FnDef is a function definition.
type FnDef struct {
	Loc      loc.Loc
	Mod      string
	Name     string
	Pub      bool
	Generics []string
	Params   []ParamDef
	Ret      Ty
}

// A ParamDef is a function parameter.
type ParamDef struct {
	Name string
	Ty   Ty
}

// Defs is the definition store: arenas of ADT and function definitions.
// A definition is added as a shell holding only its name and generics,
// and later replaced whole by its resolved form.
type Defs struct {
	adts []AdtDef
	fns  []FnDef
}

// NewDefs returns a new, empty definition store.
func NewDefs() *Defs { return &Defs{} }

func (ds *Defs) newAdt(d AdtDef) AdtID {
	id, err := safecast.Convert[uint32](len(ds.adts))
	if err != nil {
		bug(err, "too many ADT definitions")
	}
	ds.adts = append(ds.adts, d)
	return AdtID(id)
}

func (ds *Defs) newFn(d FnDef) FnID {
	id, err := safecast.Convert[uint32](len(ds.fns))
	if err != nil {
		bug(err, "too many function definitions")
	}
	ds.fns = append(ds.fns, d)
	return FnID(id)
}

// Adt returns the definition of an ADT handle.
func (ds *Defs) Adt(id AdtID) *AdtDef {
	if int(id) >= len(ds.adts) {
		bug(id, "stale ADT handle")
	}
	return &ds.adts[id]
}

// Fn returns the definition of a function handle.
func (ds *Defs) Fn(id FnID) *FnDef {
	if int(id) >= len(ds.fns) {
		bug(id, "stale function handle")
	}
	return &ds.fns[id]
}

// Len returns the number of ADT and function definitions.
func (ds *Defs) Len() (adts, fns int) { return len(ds.adts), len(ds.fns) }

func (ds *Defs) setAdt(id AdtID, d AdtDef) { *ds.Adt(id) = d }

func (ds *Defs) setFn(id FnID, d FnDef) { *ds.Fn(id) = d }
