// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/bitlang/bit/ast"
)

func checkFnBody(x *state, item fnItem) (_ *Func, errs []checkError) {
	def := x.cx.defs.Fn(item.id)
	defer x.tr("checkFnBody(%s)", def.Name)(&errs)
	x.cx.generics.push(def.Generics)
	defer x.cx.generics.pop()
	x.res.pushScope()
	defer x.res.popScope()
	x.litVars, x.ints, x.floats, x.diverge, x.pending = nil, nil, nil, nil, nil

	fun := &Func{AST: item.ast, ID: item.id}
	for i, p := range def.Params {
		l := &Local{Name: p.Name, Ty: p.Ty, Range: item.ast.Params[i].Name.Range}
		// Duplicate parameters were reported with the signature.
		x.res.defineLocal(l)
		fun.Params = append(fun.Params, l)
	}
	x.frames = append(x.frames, &frame{ret: def.Ret})
	body, es := checkBlock(x, item.ast.Body)
	errs = append(errs, es...)
	x.frames = x.frames[:len(x.frames)-1]
	if err := coerce(x, blockResult(item.ast.Body), body.Type(), def.Ret); err != nil {
		errs = append(errs, *err)
	}
	fun.Body = body
	errs = append(errs, finalize(x, fun)...)
	return fun, errs
}

// blockResult returns the node of a block's result value:
// its tail expression if it has one.
func blockResult(b *ast.Block) ast.Node {
	if b.Tail != nil {
		return b.Tail
	}
	return b
}

// coerce unifies got with want, returning a diagnostic on failure.
func coerce(x *state, n ast.Node, got, want Ty) *checkError {
	terr := x.cx.Unify(want, got)
	if terr == nil {
		return nil
	}
	return typeError(x, n, got, want, terr)
}

func typeError(x *state, n ast.Node, got, want Ty, terr *TypeError) *checkError {
	var err *checkError
	switch terr.Kind {
	case InfiniteType:
		err = x.err(n, "infinite type: %s contains itself", x.ty(got))
	case RigidMismatch:
		err = x.err(n, "type mismatch: expected %s, got %s", x.ty(want), x.ty(got))
		if g, ok := terr.A.(Generic); ok && x.cx.generics.active() && x.cx.generics.isRigid(g.Index) {
			note(err, "%s is a type parameter of this declaration and cannot become %s",
				x.cx.generics.name(g.Index), x.ty(terr.B))
		}
	default:
		err = x.err(n, "type mismatch: expected %s, got %s", x.ty(want), x.ty(got))
		noteLiteral(x, err, got)
		if a, b := x.ty(terr.A), x.ty(terr.B); a != x.ty(want) || b != x.ty(got) {
			note(err, "%s does not match %s", a, b)
		}
	}
	err.terr = terr
	return err
}

// noteLiteral notes on err if t is the still-unresolved type of a literal.
func noteLiteral(x *state, err *checkError, t Ty) {
	v, ok := x.cx.Apply(t).(Var)
	if !ok {
		return
	}
	switch x.cx.vars.get(v.ID).Kind {
	case IntLiteral:
		note(err, "_ is the type of an integer literal")
	case FloatLiteral:
		note(err, "_ is the type of a float literal")
	}
}

func checkExpr(x *state, e ast.Expr) (_ Expr, errs []checkError) {
	defer x.tr("checkExpr(%T)", e)(&errs)
	switch e := e.(type) {
	case *ast.Lit:
		return checkLit(x, e)
	case *ast.UnitLit:
		return &UnitLit{AST: e}, nil
	case *ast.Ident:
		return checkIdent(x, e)
	case *ast.Select:
		return checkSelect(x, e)
	case *ast.Unary:
		return checkUnary(x, e)
	case *ast.Binary:
		return checkBinary(x, e)
	case *ast.If:
		return checkIf(x, e)
	case *ast.Call:
		return checkCall(x, e)
	case *ast.Cast:
		return checkCast(x, e)
	case *ast.Closure:
		return checkClosure(x, e)
	case *ast.Block:
		return checkBlock(x, e)
	default:
		panic(fmt.Sprintf("impossible type %T", e))
	}
}

func checkLit(x *state, e *ast.Lit) (Expr, []checkError) {
	switch e.Kind {
	case ast.IntLit:
		v, ok := new(big.Int).SetString(strings.ReplaceAll(e.Text, "_", ""), 10)
		if !ok {
			return &Bad{AST: e}, []checkError{*x.err(e, "malformed integer %s", e.Text)}
		}
		t := x.cx.freshInt()
		x.litVars = append(x.litVars, t.(Var).ID)
		lit := &IntLit{AST: e, Val: v, typ: t}
		x.ints = append(x.ints, lit)
		return lit, nil
	case ast.FloatLit:
		v, _, err := big.ParseFloat(strings.ReplaceAll(e.Text, "_", ""), 10, 64, big.ToNearestEven)
		if err != nil {
			return &Bad{AST: e}, []checkError{*x.err(e, "malformed float %s", e.Text)}
		}
		t := x.cx.freshFloat()
		x.litVars = append(x.litVars, t.(Var).ID)
		lit := &FloatLit{AST: e, Val: v, typ: t}
		x.floats = append(x.floats, lit)
		return lit, nil
	case ast.StringLit:
		return &StringLit{AST: e, Val: e.Value}, nil
	case ast.CharLit:
		return &CharLit{AST: e, Val: []rune(e.Value)[0]}, nil
	case ast.BoolLit:
		return &BoolLit{AST: e, Val: e.Text == "true"}, nil
	default:
		panic(fmt.Sprintf("impossible literal kind %d", e.Kind))
	}
}

// typeArgs returns the types of explicit type arguments.
func typeArgs(x *state, hints []ast.TypeHint) ([]Ty, []checkError) {
	var errs []checkError
	var ts []Ty
	for _, h := range hints {
		t, es := resolveHint(x, h, true)
		errs = append(errs, es...)
		ts = append(ts, t)
	}
	return ts, errs
}

func checkIdent(x *state, e *ast.Ident) (_ Expr, errs []checkError) {
	defer x.tr("checkIdent(%s)", e.Name)(&errs)
	known, errs := typeArgs(x, e.TypeArgs)
	res, ok := x.res.resolve(e.Name)
	switch {
	case !ok:
		if _, ok := x.res.imports[e.Name]; ok {
			return &Bad{AST: e}, append(errs, *x.err(e, "module %s is not a value", e.Name))
		}
		return &Bad{AST: e}, append(errs, *x.err(e, "%s undefined", e.Name))
	case res.Local != nil:
		if len(e.TypeArgs) > 0 {
			errs = append(errs, *x.err(e, "%s does not take type arguments", e.Name))
		}
		return &LocalRef{AST: e, Local: res.Local}, errs
	default:
		v, es := defValue(x, e, e.Name, res.Def, known)
		return v, append(errs, es...)
	}
}

// defValue returns a use of a module-level definition as a value:
// an instantiated function or a struct constructor.
func defValue(x *state, n ast.Expr, name string, d Def, known []Ty) (Expr, []checkError) {
	switch d := d.(type) {
	case FnID:
		def := x.cx.defs.Fn(d)
		if err := checkArity(x, n, name, def.Generics, known); err != nil {
			return &Bad{AST: n}, []checkError{*err}
		}
		return &FnVal{AST: n, typ: Fn{ID: d, Args: x.cx.instantiate(def.Generics, known)}}, nil
	case AdtID:
		def := x.cx.defs.Adt(d)
		if def.Kind == EnumKind {
			err := x.err(n, "enum %s is not a value", name)
			note(err, "use a variant, %s.<variant>", name)
			return &Bad{AST: n}, []checkError{*err}
		}
		if err := checkArity(x, n, name, def.Generics, known); err != nil {
			return &Bad{AST: n}, []checkError{*err}
		}
		args := x.cx.instantiate(def.Generics, known)
		params := make([]Ty, len(def.Fields))
		for i, f := range def.Fields {
			params[i] = x.cx.subst(f.Ty, args)
		}
		t := FnRef{Params: params, Ret: Adt{ID: d, Args: args}}
		return &Ctor{AST: n, Adt: d, Variant: -1, typ: t}, nil
	default:
		panic(fmt.Sprintf("impossible type %T", d))
	}
}

func checkArity(x *state, n ast.Node, name string, generics []string, known []Ty) *checkError {
	if len(known) > 0 && len(known) != len(generics) {
		return x.err(n, "%s expects %d type arguments, got %d", name, len(generics), len(known))
	}
	return nil
}

// pathMod returns the module named by an expression,
// if it is an identifier naming an imported module.
func pathMod(x *state, e ast.Expr) (*Mod, bool) {
	id, ok := e.(*ast.Ident)
	if !ok || len(id.TypeArgs) > 0 {
		return nil, false
	}
	return x.res.lookupImport(id.Name)
}

// pathDef returns the definition named by an expression,
// if it is an identifier naming a definition
// or a selection of a definition from an imported module.
// The returned hints are the type arguments written on the path.
func pathDef(x *state, e ast.Expr) (Def, string, []ast.TypeHint, bool) {
	switch e := e.(type) {
	case *ast.Ident:
		res, ok := x.res.resolve(e.Name)
		if !ok || res.Def == nil {
			return nil, "", nil, false
		}
		return res.Def, e.Name, e.TypeArgs, true
	case *ast.Select:
		m, ok := pathMod(x, e.Expr)
		if !ok {
			return nil, "", nil, false
		}
		d, ok := m.Exports[e.Name.Name]
		if !ok {
			return nil, "", nil, false
		}
		return d, e.Expr.(*ast.Ident).Name + "." + e.Name.Name, e.Name.TypeArgs, true
	}
	return nil, "", nil, false
}

func checkSelect(x *state, e *ast.Select) (_ Expr, errs []checkError) {
	defer x.tr("checkSelect(%s)", e.Name.Name)(&errs)
	if m, ok := pathMod(x, e.Expr); ok {
		name := e.Expr.(*ast.Ident).Name + "." + e.Name.Name
		d, ok := m.Exports[e.Name.Name]
		if !ok {
			return &Bad{AST: e}, []checkError{*x.err(e, "%s undefined", name)}
		}
		known, errs := typeArgs(x, e.Name.TypeArgs)
		v, es := defValue(x, e, name, d, known)
		return v, append(errs, es...)
	}
	if d, name, hints, ok := pathDef(x, e.Expr); ok {
		return checkVariant(x, e, d, name, hints)
	}

	base, errs := checkExpr(x, e.Expr)
	t, derefs := x.autoDeref(base.Type())
	switch t := t.(type) {
	case Error:
		return &Bad{AST: e}, errs
	case Adt:
		def := x.cx.defs.Adt(t.ID)
		if i := def.Field(e.Name.Name); i >= 0 && def.Kind == StructKind {
			return &Field{
				AST:    e,
				Expr:   base,
				Derefs: derefs,
				Field:  i,
				typ:    x.cx.subst(def.Fields[i].Ty, t.Args),
			}, errs
		}
	case Var:
		err := x.err(e, "cannot select %s from a value of unknown type", e.Name.Name)
		return &Bad{AST: e}, append(errs, *err)
	}
	err := x.err(e, "%s has no field %s", x.ty(t), e.Name.Name)
	return &Bad{AST: e}, append(errs, *err)
}

func checkVariant(x *state, e *ast.Select, d Def, name string, hints []ast.TypeHint) (Expr, []checkError) {
	id, ok := d.(AdtID)
	if !ok || x.cx.defs.Adt(id).Kind != EnumKind {
		return &Bad{AST: e}, []checkError{*x.err(e, "%s has no variant %s", name, e.Name.Name)}
	}
	def := x.cx.defs.Adt(id)
	vi := def.Variant(e.Name.Name)
	if vi < 0 {
		err := x.err(e, "enum %s has no variant %s", name, e.Name.Name)
		note(err, "%s is defined at %s", name, def.Loc)
		return &Bad{AST: e}, []checkError{*err}
	}
	if len(hints) == 0 {
		hints = e.Name.TypeArgs
	}
	known, errs := typeArgs(x, hints)
	if err := checkArity(x, e, name, def.Generics, known); err != nil {
		return &Bad{AST: e}, append(errs, *err)
	}
	args := x.cx.instantiate(def.Generics, known)
	adt := Adt{ID: id, Args: args}
	v := def.Variants[vi]
	if len(v.Params) == 0 {
		return &Ctor{AST: e, Adt: id, Variant: vi, typ: adt}, errs
	}
	params := make([]Ty, len(v.Params))
	for i, p := range v.Params {
		params[i] = x.cx.subst(p, args)
	}
	return &Ctor{AST: e, Adt: id, Variant: vi, typ: FnRef{Params: params, Ret: adt}}, errs
}

// autoDeref returns the applied type after dereferencing all references,
// and the number of references dereferenced.
func (x *state) autoDeref(t Ty) (Ty, int) {
	n := 0
	for {
		switch r := x.cx.shallow(t).(type) {
		case Ref:
			t = r.Elem
		case MutRef:
			t = r.Elem
		default:
			return x.cx.Apply(t), n
		}
		n++
	}
}

// An operandKind is the set of types an operator accepts.
type operandKind int

const (
	// numbers is the integer and float types.
	numbers operandKind = iota
	// integers is the integer types.
	integers
	// signed is the signed integer and float types.
	signed
	// ordered is the numbers and bool.
	ordered
)

// A pendingOperand is an operand whose type was not yet known
// when its operator was checked.
// It is checked again at finalization.
type pendingOperand struct {
	n    ast.Node
	op   string
	ty   Ty
	kind operandKind
}

// numeric returns the type of an operand of an operator accepting kind.
// An operand of unknown type is accepted,
// and checked again once the body is checked.
func numeric(x *state, n ast.Node, op string, t Ty, kind operandKind) (Ty, *checkError) {
	t = x.cx.Apply(t)
	if v, ok := t.(Var); ok {
		switch x.cx.vars.get(v.ID).Kind {
		case Unbound:
			x.pending = append(x.pending, pendingOperand{n: n, op: op, ty: t, kind: kind})
			return t, nil
		case IntLiteral:
			if kind == signed {
				// It may yet become unsigned.
				x.pending = append(x.pending, pendingOperand{n: n, op: op, ty: t, kind: kind})
				return t, nil
			}
		}
	}
	if operandOK(x, t, kind) {
		return t, nil
	}
	return Error{}, operandError(x, n, op, t, kind)
}

func operandOK(x *state, t Ty, kind operandKind) bool {
	switch t := t.(type) {
	case Error, Int:
		return true
	case UInt:
		return kind != signed
	case Float:
		return kind != integers
	case Bool:
		return kind == ordered
	case Var:
		switch x.cx.vars.get(t.ID).Kind {
		case IntLiteral:
			return true
		case FloatLiteral:
			return kind != integers
		}
	}
	return false
}

func operandError(x *state, n ast.Node, op string, t Ty, kind operandKind) *checkError {
	if _, ok := t.(UInt); ok && kind == signed {
		return x.err(n, "cannot negate unsigned type %s", x.ty(t))
	}
	err := x.err(n, "operator %s is not defined on %s", op, x.ty(t))
	noteLiteral(x, err, t)
	return err
}

// checkPending checks the operands that were of unknown type
// when their operators were checked.
// Operands still unknown are left to be reported as not inferred.
func checkPending(x *state) []checkError {
	var errs []checkError
	for _, p := range x.pending {
		t := x.cx.Apply(p.ty)
		if v, ok := t.(Var); ok && x.cx.vars.get(v.ID).Kind == Unbound {
			continue
		}
		if !operandOK(x, t, p.kind) {
			errs = append(errs, *operandError(x, p.n, p.op, t, p.kind))
		}
	}
	return errs
}

func checkUnary(x *state, e *ast.Unary) (_ Expr, errs []checkError) {
	defer x.tr("checkUnary(%s)", e.Op)(&errs)
	if lit, ok := e.Expr.(*ast.Lit); ok && e.Op == ast.Neg {
		// Negative literals are checked as one literal,
		// so that the minimum integer is in bounds.
		switch lit.Kind {
		case ast.IntLit:
			v, errs := checkLit(x, lit)
			if l, ok := v.(*IntLit); ok {
				l.AST = e
				l.Val.Neg(l.Val)
			}
			return v, errs
		case ast.FloatLit:
			v, errs := checkLit(x, lit)
			if l, ok := v.(*FloatLit); ok {
				l.AST = e
				l.Val.Neg(l.Val)
			}
			return v, errs
		}
	}

	sub, errs := checkExpr(x, e.Expr)
	n := &Unary{AST: e, Op: e.Op, Expr: sub}
	switch e.Op {
	case ast.Neg:
		t, err := numeric(x, e, e.Op.String(), sub.Type(), signed)
		if err != nil {
			errs = append(errs, *err)
		}
		n.typ = t
	case ast.Not:
		n.typ = Bool{}
		if err := coerce(x, e.Expr, sub.Type(), Bool{}); err != nil {
			errs = append(errs, *err)
			n.typ = Error{}
		}
	case ast.Deref:
		switch t := x.cx.Apply(sub.Type()).(type) {
		case Ref:
			n.typ = t.Elem
		case MutRef:
			n.typ = t.Elem
		case Error:
			n.typ = t
		case Var:
			elem := x.cx.fresh()
			if err := coerce(x, e.Expr, t, Ref{Elem: elem}); err != nil {
				errs = append(errs, *err)
			}
			n.typ = elem
		default:
			errs = append(errs, *x.err(e, "cannot dereference %s", x.ty(t)))
			n.typ = Error{}
		}
	case ast.Ref:
		n.typ = Ref{Elem: sub.Type()}
	case ast.MutRef:
		if l, ok := sub.(*LocalRef); ok && !l.Local.Mut {
			err := x.err(e, "cannot borrow immutable %s as mutable", l.Local.Name)
			note(err, "%s is defined at %s", l.Local.Name, x.loc(l.Local.Range))
			errs = append(errs, *err)
		}
		n.typ = MutRef{Elem: sub.Type()}
	default:
		panic(fmt.Sprintf("impossible op %d", e.Op))
	}
	return n, errs
}

func checkBinary(x *state, e *ast.Binary) (_ Expr, errs []checkError) {
	defer x.tr("checkBinary(%s)", e.Op)(&errs)
	l, errs := checkExpr(x, e.Left)
	r, es := checkExpr(x, e.Right)
	errs = append(errs, es...)
	t, es := binaryOp(x, e, e.Op, l, r)
	errs = append(errs, es...)
	return &Binary{AST: e, Op: e.Op, Left: l, Right: r, typ: t}, errs
}

// binaryOp returns the result type of a binary operator.
func binaryOp(x *state, n ast.Node, op ast.BinOp, l, r Expr) (Ty, []checkError) {
	var errs []checkError
	switch op {
	case ast.And, ast.Or:
		for _, o := range [...]Expr{l, r} {
			if err := coerce(x, o.ast(), o.Type(), Bool{}); err != nil {
				errs = append(errs, *err)
			}
		}
		return Bool{}, errs
	case ast.Concat:
		for _, o := range [...]Expr{l, r} {
			if err := coerce(x, o.ast(), o.Type(), String{}); err != nil {
				errs = append(errs, *err)
			}
		}
		return String{}, errs
	}

	if terr := x.cx.Unify(l.Type(), r.Type()); terr != nil {
		err := x.err(n, "type mismatch: %s %s %s", x.ty(l.Type()), op, x.ty(r.Type()))
		if terr.Kind == RigidMismatch {
			note(err, "generic type %s is only its own type", x.ty(terr.A))
		}
		noteLiteral(x, err, l.Type())
		err.terr = terr
		return Error{}, []checkError{*err}
	}
	switch op {
	case ast.Eq, ast.Ne:
		return Bool{}, nil
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if _, err := numeric(x, n, op.String(), l.Type(), ordered); err != nil {
			return Error{}, []checkError{*err}
		}
		return Bool{}, nil
	case ast.BitAnd, ast.BitOr, ast.Xor:
		t, err := numeric(x, n, op.String(), l.Type(), integers)
		if err != nil {
			return Error{}, []checkError{*err}
		}
		return t, nil
	default:
		t, err := numeric(x, n, op.String(), l.Type(), numbers)
		if err != nil {
			return Error{}, []checkError{*err}
		}
		return t, nil
	}
}

func checkIf(x *state, e *ast.If) (_ Expr, errs []checkError) {
	defer x.tr("checkIf")(&errs)
	cond, errs := checkExpr(x, e.Cond)
	if err := coerce(x, e.Cond, cond.Type(), Bool{}); err != nil {
		errs = append(errs, *err)
	}
	then, es := checkBlock(x, e.Then)
	errs = append(errs, es...)
	n := &If{AST: e, Cond: cond, Then: then, typ: Unit{}}
	if e.Else == nil {
		return n, errs
	}
	els, es := checkExpr(x, e.Else)
	errs = append(errs, es...)
	n.Else = els
	n.typ = then.Type()
	if terr := x.cx.Unify(then.Type(), els.Type()); terr != nil {
		err := x.err(e, "if branches have different types: %s and %s", x.ty(then.Type()), x.ty(els.Type()))
		errs = append(errs, *err)
		n.typ = Error{}
	}
	return n, errs
}

func checkCall(x *state, e *ast.Call) (_ Expr, errs []checkError) {
	defer x.tr("checkCall")(&errs)
	fn, errs := checkExpr(x, e.Fn)
	n := &Call{AST: e, Fn: fn, typ: Error{}}
	for _, a := range e.Args {
		arg, es := checkExpr(x, a)
		errs = append(errs, es...)
		n.Args = append(n.Args, arg)
	}

	var sig FnRef
	switch t := x.cx.Apply(fn.Type()).(type) {
	case Fn:
		sig = x.cx.fnSig(t)
	case FnRef:
		sig = t
	case Error:
		return n, errs
	case Var:
		if x.cx.vars.get(t.ID).Kind != Unbound {
			return n, append(errs, *x.err(e.Fn, "cannot call %s", x.ty(t)))
		}
		sig.Ret = x.cx.fresh()
		for _, a := range n.Args {
			sig.Params = append(sig.Params, a.Type())
		}
		if err := coerce(x, e.Fn, t, sig); err != nil {
			return n, append(errs, *err)
		}
	default:
		return n, append(errs, *x.err(e.Fn, "cannot call %s", x.ty(t)))
	}
	if len(n.Args) != len(sig.Params) {
		err := x.err(e, "wrong number of arguments: got %d, expected %d", len(n.Args), len(sig.Params))
		note(err, "the function has type %s", x.ty(sig))
		return n, append(errs, *err)
	}
	for i, a := range n.Args {
		if err := coerce(x, e.Args[i], a.Type(), sig.Params[i]); err != nil {
			errs = append(errs, *err)
		}
	}
	n.typ = sig.Ret
	return n, errs
}

func checkCast(x *state, e *ast.Cast) (_ Expr, errs []checkError) {
	defer x.tr("checkCast(%s)", ast.HintString(e.Hint))(&errs)
	sub, errs := checkExpr(x, e.Expr)
	target, es := resolveHint(x, e.Hint, true)
	errs = append(errs, es...)
	n := &Cast{AST: e, Expr: sub, typ: target}
	if isNumeric(x.cx.Apply(target)) && castable(x, sub.Type()) {
		return n, errs
	}
	if terr := x.cx.Unify(target, sub.Type()); terr != nil {
		errs = append(errs, *x.err(e, "cannot convert %s to %s", x.ty(sub.Type()), x.ty(target)))
		n.typ = Error{}
	}
	return n, errs
}

// castable returns whether t can be converted to any numeric type.
func castable(x *state, t Ty) bool {
	switch t := x.cx.Apply(t).(type) {
	case Int, UInt, Float, Error:
		return true
	case Var:
		k := x.cx.vars.get(t.ID).Kind
		return k == IntLiteral || k == FloatLiteral
	}
	return false
}

func checkClosure(x *state, e *ast.Closure) (_ Expr, errs []checkError) {
	defer x.tr("checkClosure")(&errs)
	x.res.pushScope()
	defer x.res.popScope()
	n := &Closure{AST: e}
	var params []Ty
	for _, p := range e.Params {
		t := x.cx.fresh()
		if p.Hint != nil {
			var es []checkError
			t, es = resolveHint(x, p.Hint, true)
			errs = append(errs, es...)
		}
		l := &Local{Name: p.Name.Name, Ty: t, Range: p.Name.Range}
		if _, ok := x.res.defineLocal(l); !ok {
			errs = append(errs, *x.err(p.Name, "parameter %s redefined", p.Name.Name))
		}
		n.Params = append(n.Params, l)
		params = append(params, t)
	}
	fr := &frame{ret: x.cx.fresh()}
	x.frames = append(x.frames, fr)
	body, es := checkExpr(x, e.Body)
	x.frames = x.frames[:len(x.frames)-1]
	errs = append(errs, es...)
	if err := coerce(x, e.Body, body.Type(), fr.ret); err != nil {
		errs = append(errs, *err)
	}
	n.Body = body
	n.typ = FnRef{Params: params, Ret: fr.ret}
	return n, errs
}

func checkBlock(x *state, e *ast.Block) (_ *Block, errs []checkError) {
	defer x.tr("checkBlock")(&errs)
	x.res.pushScope()
	defer x.res.popScope()
	n := &Block{AST: e, typ: Unit{}}
	for _, s := range e.Stmts {
		stmt, es := checkStmt(x, s)
		errs = append(errs, es...)
		n.Stmts = append(n.Stmts, stmt)
	}
	switch {
	case e.Tail != nil:
		tail, es := checkExpr(x, e.Tail)
		errs = append(errs, es...)
		n.Tail = tail
		n.typ = tail.Type()
	case diverges(e):
		v := x.cx.fresh()
		x.diverge = append(x.diverge, v.(Var).ID)
		n.typ = v
	}
	return n, errs
}

// diverges returns whether a block without a tail
// never completes normally.
func diverges(b *ast.Block) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	switch s := b.Stmts[len(b.Stmts)-1].(type) {
	case *ast.Return, *ast.Break, *ast.Continue:
		return true
	case *ast.ExprStmt:
		if blk, ok := s.Expr.(*ast.Block); ok && blk.Tail == nil {
			return diverges(blk)
		}
	}
	return false
}

func checkStmt(x *state, s ast.Stmt) (_ Stmt, errs []checkError) {
	defer x.tr("checkStmt(%T)", s)(&errs)
	switch s := s.(type) {
	case *ast.Let:
		return checkLet(x, s)
	case *ast.Assign:
		return checkAssign(x, s)
	case *ast.While:
		cond, errs := checkExpr(x, s.Cond)
		if err := coerce(x, s.Cond, cond.Type(), Bool{}); err != nil {
			errs = append(errs, *err)
		}
		x.frame().loops++
		body, es := checkBlock(x, s.Body)
		x.frame().loops--
		return &While{AST: s, Cond: cond, Body: body}, append(errs, es...)
	case *ast.For:
		return checkFor(x, s)
	case *ast.Break:
		if x.frame().loops == 0 {
			errs = append(errs, *x.err(s, "break is not in a loop"))
		}
		return &Break{AST: s}, errs
	case *ast.Continue:
		if x.frame().loops == 0 {
			errs = append(errs, *x.err(s, "continue is not in a loop"))
		}
		return &Continue{AST: s}, errs
	case *ast.Return:
		ret := x.frame().ret
		if s.Expr == nil {
			if terr := x.cx.Unify(ret, Unit{}); terr != nil {
				errs = append(errs, *x.err(s, "missing return value of type %s", x.ty(ret)))
			}
			return &Return{AST: s}, errs
		}
		expr, errs := checkExpr(x, s.Expr)
		if err := coerce(x, s.Expr, expr.Type(), ret); err != nil {
			errs = append(errs, *err)
		}
		return &Return{AST: s, Expr: expr}, errs
	case *ast.ExprStmt:
		expr, errs := checkExpr(x, s.Expr)
		return &ExprStmt{Expr: expr}, errs
	default:
		panic(fmt.Sprintf("impossible type %T", s))
	}
}

func checkLet(x *state, s *ast.Let) (_ Stmt, errs []checkError) {
	expr, errs := checkExpr(x, s.Expr)
	t := expr.Type()
	if s.Hint != nil {
		ht, es := resolveHint(x, s.Hint, true)
		errs = append(errs, es...)
		if err := coerce(x, s.Expr, t, ht); err != nil {
			errs = append(errs, *err)
		}
		t = ht
	}
	l := &Local{Name: s.Name.Name, Ty: t, Mut: s.Mut, Range: s.Name.Range}
	if prev, ok := x.res.defineLocal(l); !ok {
		err := x.err(s.Name, "%s redefined", s.Name.Name)
		note(err, "previous definition is at %s", x.loc(prev.Range))
		errs = append(errs, *err)
	}
	return &Let{AST: s, Local: l, Expr: expr}, errs
}

func checkAssign(x *state, s *ast.Assign) (_ Stmt, errs []checkError) {
	place, errs := checkExpr(x, s.Place)
	expr, es := checkExpr(x, s.Expr)
	errs = append(errs, es...)
	if op, ok := s.Op.BinOp(); ok {
		_, es := binaryOp(x, s, op, place, expr)
		errs = append(errs, es...)
	} else if err := coerce(x, s.Expr, expr.Type(), place.Type()); err != nil {
		errs = append(errs, *err)
	}
	errs = append(errs, checkPlace(x, place)...)
	return &Assign{AST: s, Op: s.Op, Place: place, Expr: expr}, errs
}

// checkPlace returns errors if an expression cannot be assigned.
func checkPlace(x *state, e Expr) []checkError {
	switch e := e.(type) {
	case *Bad:
		return nil
	case *LocalRef:
		if !e.Local.Mut {
			err := x.err(e.AST, "cannot assign to immutable %s", e.Local.Name)
			note(err, "%s is defined at %s", e.Local.Name, x.loc(e.Local.Range))
			return []checkError{*err}
		}
		return nil
	case *Field:
		if e.Derefs == 0 {
			return checkPlace(x, e.Expr)
		}
		t := e.Expr.Type()
		for i := 0; i < e.Derefs; i++ {
			switch r := x.cx.shallow(t).(type) {
			case Ref:
				return []checkError{*x.err(e.AST, "cannot assign through %s", x.ty(r))}
			case MutRef:
				t = r.Elem
			}
		}
		return nil
	case *Unary:
		if e.Op != ast.Deref {
			break
		}
		if r, ok := x.cx.Apply(e.Expr.Type()).(Ref); ok {
			return []checkError{*x.err(e.AST, "cannot assign through %s", x.ty(r))}
		}
		return nil
	}
	return []checkError{*x.err(e.ast(), "cannot assign to this expression")}
}

func checkFor(x *state, s *ast.For) (_ Stmt, errs []checkError) {
	from, errs := checkExpr(x, s.From)
	to, es := checkExpr(x, s.To)
	errs = append(errs, es...)
	t := from.Type()
	if terr := x.cx.Unify(from.Type(), to.Type()); terr != nil {
		errs = append(errs, *x.err(s.To, "type mismatch: range from %s to %s", x.ty(from.Type()), x.ty(to.Type())))
		t = Error{}
	} else if it, err := numeric(x, s.From, "..", t, integers); err != nil {
		errs = append(errs, *err)
		t = it
	}
	x.res.pushScope()
	defer x.res.popScope()
	l := &Local{Name: s.Var.Name, Ty: t, Range: s.Var.Range}
	x.res.defineLocal(l)
	x.frame().loops++
	body, es := checkBlock(x, s.Body)
	x.frame().loops--
	errs = append(errs, es...)
	return &For{AST: s, Local: l, From: from, To: to, Body: body}, errs
}
