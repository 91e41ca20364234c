// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import (
	"fmt"
	"math"
	"math/big"

	"github.com/bitlang/bit/ast"
	"github.com/hashicorp/go-set/v3"
)

// finalize defaults the literal variables of a checked function body,
// checks the operands whose types were unknown at their operators,
// replaces every type in its tree with its applied form,
// and bounds-checks its literals.
func finalize(x *state, fun *Func) (errs []checkError) {
	defer x.tr("finalize(%s)", fun.AST.Name.Name)(&errs)
	for _, id := range x.litVars {
		v, ok := x.cx.shallow(Var{ID: id}).(Var)
		if !ok {
			continue
		}
		switch x.cx.vars.get(v.ID).Kind {
		case IntLiteral:
			x.cx.vars.substitute(v.ID, Int{Bits: x.cfg.IntBits})
		case FloatLiteral:
			x.cx.vars.substitute(v.ID, Float{Bits: x.cfg.FloatBits})
		}
	}
	for _, id := range x.diverge {
		if v, ok := x.cx.shallow(Var{ID: id}).(Var); ok {
			x.cx.vars.substitute(v.ID, Unit{})
		}
	}
	errs = append(errs, checkPending(x)...)

	f := &finalizer{x: x, reported: set.New[VarID](0)}
	for _, p := range fun.Params {
		f.local(p)
	}
	f.expr(fun.Body)
	errs = append(errs, f.errs...)

	for _, lit := range x.ints {
		if err := checkIntBounds(x, lit); err != nil {
			errs = append(errs, *err)
		}
	}
	for _, lit := range x.floats {
		if err := checkFloatBounds(x, lit); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}

type finalizer struct {
	x        *state
	reported *set.Set[VarID]
	errs     []checkError
}

// ty returns the applied type,
// reporting the first unresolved variable it contains.
func (f *finalizer) ty(n ast.Node, t Ty) Ty {
	t = f.x.cx.Apply(t)
	if v, ok := firstVar(t); ok && f.reported.Insert(v.ID) {
		f.errs = append(f.errs, *f.x.err(n, "cannot infer type %s", f.x.ty(t)))
	}
	return t
}

func firstVar(t Ty) (Var, bool) {
	switch t := t.(type) {
	case Var:
		return t, true
	case Adt:
		return firstVarOf(t.Args)
	case Fn:
		return firstVarOf(t.Args)
	case FnRef:
		if v, ok := firstVarOf(t.Params); ok {
			return v, true
		}
		return firstVar(t.Ret)
	case Ref:
		return firstVar(t.Elem)
	case MutRef:
		return firstVar(t.Elem)
	}
	return Var{}, false
}

func firstVarOf(ts []Ty) (Var, bool) {
	for _, t := range ts {
		if v, ok := firstVar(t); ok {
			return v, true
		}
	}
	return Var{}, false
}

func (f *finalizer) local(l *Local) { l.Ty = f.ty(l.Range, l.Ty) }

func (f *finalizer) stmt(s Stmt) {
	switch s := s.(type) {
	case *Let:
		f.expr(s.Expr)
		f.local(s.Local)
	case *Assign:
		f.expr(s.Place)
		f.expr(s.Expr)
	case *While:
		f.expr(s.Cond)
		f.expr(s.Body)
	case *For:
		f.expr(s.From)
		f.expr(s.To)
		f.local(s.Local)
		f.expr(s.Body)
	case *Break, *Continue:
	case *Return:
		if s.Expr != nil {
			f.expr(s.Expr)
		}
	case *ExprStmt:
		f.expr(s.Expr)
	default:
		panic(fmt.Sprintf("impossible type %T", s))
	}
}

func (f *finalizer) expr(e Expr) {
	switch e := e.(type) {
	case *IntLit:
		e.typ = f.ty(e.AST, e.typ)
	case *FloatLit:
		e.typ = f.ty(e.AST, e.typ)
	case *StringLit, *CharLit, *BoolLit, *UnitLit, *Bad:
	case *LocalRef:
	case *FnVal:
		e.typ = f.ty(e.AST, e.typ)
	case *Ctor:
		e.typ = f.ty(e.AST, e.typ)
	case *Unary:
		f.expr(e.Expr)
		e.typ = f.ty(e.AST, e.typ)
	case *Binary:
		f.expr(e.Left)
		f.expr(e.Right)
		e.typ = f.ty(e.AST, e.typ)
	case *If:
		f.expr(e.Cond)
		f.expr(e.Then)
		if e.Else != nil {
			f.expr(e.Else)
		}
		e.typ = f.ty(e.AST, e.typ)
	case *Call:
		f.expr(e.Fn)
		for _, a := range e.Args {
			f.expr(a)
		}
		e.typ = f.ty(e.AST, e.typ)
	case *Field:
		f.expr(e.Expr)
		e.typ = f.ty(e.AST, e.typ)
	case *Cast:
		f.expr(e.Expr)
		e.typ = f.ty(e.AST, e.typ)
	case *Closure:
		for _, p := range e.Params {
			f.local(p)
		}
		f.expr(e.Body)
		e.typ = f.ty(e.AST, e.typ)
	case *Block:
		for _, s := range e.Stmts {
			f.stmt(s)
		}
		if e.Tail != nil {
			f.expr(e.Tail)
		}
		e.typ = f.ty(e.AST, e.typ)
	default:
		panic(fmt.Sprintf("impossible type %T", e))
	}
}

func checkIntBounds(x *state, lit *IntLit) *checkError {
	var min, max *big.Int
	switch t := lit.typ.(type) {
	case Int:
		max = new(big.Int).Lsh(big.NewInt(1), uint(t.Bits-1))
		min = new(big.Int).Neg(max)
		max.Sub(max, big.NewInt(1))
	case UInt:
		min = big.NewInt(0)
		max = new(big.Int).Lsh(big.NewInt(1), uint(t.Bits))
		max.Sub(max, big.NewInt(1))
	default:
		return nil
	}
	if lit.Val.Cmp(min) < 0 {
		return x.err(lit.AST, "%s underflows %s", lit.Val, x.ty(lit.typ))
	}
	if lit.Val.Cmp(max) > 0 {
		return x.err(lit.AST, "%s overflows %s", lit.Val, x.ty(lit.typ))
	}
	return nil
}

func checkFloatBounds(x *state, lit *FloatLit) *checkError {
	t, ok := lit.typ.(Float)
	if !ok || t.Bits != 32 {
		return nil
	}
	if f, _ := lit.Val.Float64(); math.Abs(f) > math.MaxFloat32 {
		return x.err(lit.AST, "%s overflows %s", lit.Val.Text('g', -1), x.ty(lit.typ))
	}
	return nil
}
