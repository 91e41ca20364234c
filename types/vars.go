// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import "fortio.org/safecast"

// VarID is the handle of a type variable.
type VarID uint32

// VarKind is the state of a type variable.
type VarKind int

const (
	// Unbound is a variable with no constraint.
	Unbound VarKind = iota
	// IntLiteral is a variable that must become an integer type.
	IntLiteral
	// FloatLiteral is a variable that must become a float type.
	FloatLiteral
	// Bound is a variable resolved to a type.
	Bound
)

func (k VarKind) String() string {
	switch k {
	case Unbound:
		return "unbound"
	case IntLiteral:
		return "int literal"
	case FloatLiteral:
		return "float literal"
	case Bound:
		return "bound"
	default:
		return "?"
	}
}

// A TyVar is a type variable.
// Ty is non-nil only if Kind is Bound.
type TyVar struct {
	Kind VarKind
	Ty   Ty
}

// Vars is an arena of type variables.
type Vars struct {
	vars []TyVar
}

func (vs *Vars) alloc(v TyVar) VarID {
	id, err := safecast.Convert[uint32](len(vs.vars))
	if err != nil {
		bug(err, "too many type variables")
	}
	vs.vars = append(vs.vars, v)
	return VarID(id)
}

func (vs *Vars) fresh() VarID      { return vs.alloc(TyVar{Kind: Unbound}) }
func (vs *Vars) freshInt() VarID   { return vs.alloc(TyVar{Kind: IntLiteral}) }
func (vs *Vars) freshFloat() VarID { return vs.alloc(TyVar{Kind: FloatLiteral}) }

// bind returns a new variable already bound to t.
func (vs *Vars) bind(t Ty) VarID { return vs.alloc(TyVar{Kind: Bound, Ty: t}) }

// substitute binds an unbound or literal variable to t.
// It does nothing if the variable is already bound.
func (vs *Vars) substitute(id VarID, t Ty) {
	v := vs.ref(id)
	if v.Kind == Bound {
		return
	}
	*v = TyVar{Kind: Bound, Ty: t}
}

// get returns the variable with the given handle.
func (vs *Vars) get(id VarID) TyVar { return *vs.ref(id) }

func (vs *Vars) ref(id VarID) *TyVar {
	if int(id) >= len(vs.vars) {
		bug(id, "stale type variable handle")
	}
	return &vs.vars[id]
}
