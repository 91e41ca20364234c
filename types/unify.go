// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import "fmt"

// TypeErrorKind is the kind of a unification failure.
type TypeErrorKind int

const (
	// Mismatch is a failure to unify two different types.
	Mismatch TypeErrorKind = iota
	// RigidMismatch is a failure to unify a rigid generic parameter
	// with a type other than itself.
	RigidMismatch
	// InfiniteType is a failure of the occurs check.
	InfiniteType
)

func (k TypeErrorKind) String() string {
	switch k {
	case Mismatch:
		return "type mismatch"
	case RigidMismatch:
		return "generic type mismatch"
	case InfiniteType:
		return "infinite type"
	default:
		return "?"
	}
}

// A TypeError is a unification failure.
// A and B are the two types that failed to unify.
type TypeError struct {
	Kind TypeErrorKind
	A, B Ty
}

func (err *TypeError) Error() string {
	return fmt.Sprintf("%s: %s and %s", err.Kind, TyString(nil, nil, err.A), TyString(nil, nil, err.B))
}

// Unify unifies two types, binding variables as needed.
// On failure, variables bound before the failure remain bound.
func (cx *InferCx) Unify(a, b Ty) *TypeError {
	a, b = cx.Apply(a), cx.Apply(b)
	switch {
	case isError(a):
		cx.poison(b)
		return nil
	case isError(b):
		cx.poison(a)
		return nil
	}
	if v, ok := a.(Var); ok {
		return cx.unifyVar(v, b)
	}
	if v, ok := b.(Var); ok {
		return cx.unifyVar(v, a)
	}
	if g, ok := b.(Generic); ok {
		if h, ok := a.(Generic); ok && h.Index == g.Index {
			return nil
		}
		return &TypeError{Kind: RigidMismatch, A: g, B: a}
	}
	switch a := a.(type) {
	case Generic:
		return &TypeError{Kind: RigidMismatch, A: a, B: b}
	case Adt:
		if b, ok := b.(Adt); ok && a.ID == b.ID {
			return cx.unifyAll(a.Args, b.Args, a, b)
		}
	case Fn:
		switch b := b.(type) {
		case Fn:
			if a.ID != b.ID {
				return mismatch(a, b)
			}
			return cx.unifyAll(a.Args, b.Args, a, b)
		case FnRef:
			return cx.Unify(cx.fnSig(a), b)
		}
	case FnRef:
		switch b := b.(type) {
		case Fn:
			return cx.Unify(a, cx.fnSig(b))
		case FnRef:
			if err := cx.unifyAll(a.Params, b.Params, a, b); err != nil {
				return err
			}
			return cx.Unify(a.Ret, b.Ret)
		}
	case Ref:
		if b, ok := b.(Ref); ok {
			return cx.Unify(a.Elem, b.Elem)
		}
	case MutRef:
		if b, ok := b.(MutRef); ok {
			return cx.Unify(a.Elem, b.Elem)
		}
	default:
		if a == b {
			return nil
		}
	}
	return mismatch(a, b)
}

// poison binds every variable left in an applied type to Error.
func (cx *InferCx) poison(t Ty) {
	switch t := t.(type) {
	case Var:
		cx.vars.substitute(t.ID, Error{})
	case Adt:
		cx.poisonAll(t.Args)
	case Fn:
		cx.poisonAll(t.Args)
	case FnRef:
		cx.poisonAll(t.Params)
		cx.poison(t.Ret)
	case Ref:
		cx.poison(t.Elem)
	case MutRef:
		cx.poison(t.Elem)
	}
}

func (cx *InferCx) poisonAll(ts []Ty) {
	for _, t := range ts {
		cx.poison(t)
	}
}

func mismatch(a, b Ty) *TypeError { return &TypeError{Kind: Mismatch, A: a, B: b} }

func (cx *InferCx) unifyAll(as, bs []Ty, a, b Ty) *TypeError {
	if len(as) != len(bs) {
		return mismatch(a, b)
	}
	for i := range as {
		if err := cx.Unify(as[i], bs[i]); err != nil {
			return err
		}
	}
	return nil
}

// unifyVar unifies a variable that is not bound with an applied type.
func (cx *InferCx) unifyVar(v Var, t Ty) *TypeError {
	if w, ok := t.(Var); ok && w.ID == v.ID {
		return nil
	}
	switch kind := cx.vars.get(v.ID).Kind; kind {
	case Unbound:
		if cx.occurs(v.ID, t) {
			return &TypeError{Kind: InfiniteType, A: v, B: t}
		}
		cx.vars.substitute(v.ID, t)
		return nil
	case IntLiteral, FloatLiteral:
		return cx.unifyLiteral(v, kind, t)
	default:
		bug(v, "unifyVar of a bound variable")
		panic("impossible")
	}
}

func (cx *InferCx) unifyLiteral(v Var, kind VarKind, t Ty) *TypeError {
	switch t := t.(type) {
	case Var:
		switch cx.vars.get(t.ID).Kind {
		case Unbound:
			// The unbound variable takes on the literal flavor.
			cx.vars.substitute(t.ID, v)
			return nil
		case kind:
			cx.vars.substitute(v.ID, t)
			return nil
		}
		return mismatch(v, t)
	case Generic:
		return &TypeError{Kind: RigidMismatch, A: t, B: v}
	case Int, UInt:
		if kind == IntLiteral {
			cx.vars.substitute(v.ID, t)
			return nil
		}
	case Float:
		if kind == FloatLiteral {
			cx.vars.substitute(v.ID, t)
			return nil
		}
	}
	return mismatch(v, t)
}

// occurs returns whether the variable occurs in t.
func (cx *InferCx) occurs(id VarID, t Ty) bool {
	switch t := cx.shallow(t).(type) {
	case Var:
		return t.ID == id
	case Adt:
		return cx.occursAny(id, t.Args)
	case Fn:
		return cx.occursAny(id, t.Args)
	case FnRef:
		return cx.occursAny(id, t.Params) || cx.occurs(id, t.Ret)
	case Ref:
		return cx.occurs(id, t.Elem)
	case MutRef:
		return cx.occurs(id, t.Elem)
	default:
		return false
	}
}

func (cx *InferCx) occursAny(id VarID, ts []Ty) bool {
	for _, t := range ts {
		if cx.occurs(id, t) {
			return true
		}
	}
	return false
}
