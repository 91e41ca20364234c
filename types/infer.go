// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

// An InferCx is the inference context of one compilation unit:
// the definition store, the type variables, and the generics stack.
type InferCx struct {
	defs     *Defs
	vars     Vars
	generics genericsCx
}

// NewInferCx returns a new inference context over a definition store.
func NewInferCx(defs *Defs) *InferCx {
	if defs == nil {
		defs = NewDefs()
	}
	return &InferCx{defs: defs}
}

func (cx *InferCx) fresh() Ty      { return Var{ID: cx.vars.fresh()} }
func (cx *InferCx) freshInt() Ty   { return Var{ID: cx.vars.freshInt()} }
func (cx *InferCx) freshFloat() Ty { return Var{ID: cx.vars.freshFloat()} }

// Apply returns t with all bound variables replaced by their types.
// Apply is idempotent.
func (cx *InferCx) Apply(t Ty) Ty {
	switch t := t.(type) {
	case Var:
		v := cx.vars.get(t.ID)
		if v.Kind == Bound {
			return cx.Apply(v.Ty)
		}
		return t
	case Adt:
		return Adt{ID: t.ID, Args: cx.applyAll(t.Args)}
	case Fn:
		return Fn{ID: t.ID, Args: cx.applyAll(t.Args)}
	case FnRef:
		return FnRef{Params: cx.applyAll(t.Params), Ret: cx.Apply(t.Ret)}
	case Ref:
		return Ref{Elem: cx.Apply(t.Elem)}
	case MutRef:
		return MutRef{Elem: cx.Apply(t.Elem)}
	default:
		return t
	}
}

func (cx *InferCx) applyAll(ts []Ty) []Ty {
	if ts == nil {
		return nil
	}
	out := make([]Ty, len(ts))
	for i, t := range ts {
		out[i] = cx.Apply(t)
	}
	return out
}

// shallow resolves bound variables at the top of t only.
func (cx *InferCx) shallow(t Ty) Ty {
	for {
		v, ok := t.(Var)
		if !ok {
			return t
		}
		tv := cx.vars.get(v.ID)
		if tv.Kind != Bound {
			return t
		}
		t = tv.Ty
	}
}

// subst returns t with each Generic(i) replaced by args[i].
func (cx *InferCx) subst(t Ty, args []Ty) Ty {
	switch t := t.(type) {
	case Generic:
		if t.Index >= len(args) {
			bug(t, "generic index beyond instantiation arguments")
		}
		return args[t.Index]
	case Adt:
		return Adt{ID: t.ID, Args: cx.substAll(t.Args, args)}
	case Fn:
		return Fn{ID: t.ID, Args: cx.substAll(t.Args, args)}
	case FnRef:
		return FnRef{Params: cx.substAll(t.Params, args), Ret: cx.subst(t.Ret, args)}
	case Ref:
		return Ref{Elem: cx.subst(t.Elem, args)}
	case MutRef:
		return MutRef{Elem: cx.subst(t.Elem, args)}
	default:
		return t
	}
}

func (cx *InferCx) substAll(ts []Ty, args []Ty) []Ty {
	if ts == nil {
		return nil
	}
	out := make([]Ty, len(ts))
	for i, t := range ts {
		out[i] = cx.subst(t, args)
	}
	return out
}

// instantiate returns the arguments of one use of a declaration
// with the given generic parameters.
// Each parameter gets one variable:
// bound to its element of known if non-nil, or fresh otherwise.
// The returned slice is the mapping for the whole use.
func (cx *InferCx) instantiate(generics []string, known []Ty) []Ty {
	if len(generics) == 0 {
		return nil
	}
	args := make([]Ty, len(generics))
	for i := range generics {
		if i < len(known) && known[i] != nil {
			args[i] = Var{ID: cx.vars.bind(known[i])}
			continue
		}
		args[i] = cx.fresh()
	}
	return args
}

// fnSig returns the parameter and return types of a function instance.
func (cx *InferCx) fnSig(t Fn) FnRef {
	def := cx.defs.Fn(t.ID)
	params := make([]Ty, len(def.Params))
	for i, p := range def.Params {
		params[i] = cx.subst(p.Ty, t.Args)
	}
	ret := def.Ret
	if ret == nil {
		ret = Unit{}
	}
	return FnRef{Params: params, Ret: cx.subst(ret, t.Args)}
}

// TyString returns the string form of a type in the context's current generics scope.
func (cx *InferCx) TyString(t Ty) string {
	var names []string
	if cx.generics.active() {
		names = cx.generics.top()
	}
	return TyString(cx.defs, names, cx.Apply(t))
}
