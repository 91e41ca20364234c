// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import (
	"strings"
	"testing"

	"github.com/eaburns/pretty"
)

func TestUnify(t *testing.T) {
	t.Parallel()
	ds := NewDefs()
	box := ds.newAdt(AdtDef{Name: "Box", Generics: []string{"T"}})
	pair := ds.newAdt(AdtDef{Name: "Pair", Generics: []string{"A", "B"}})
	isZero := ds.newFn(FnDef{
		Name:   "isZero",
		Params: []ParamDef{{Name: "x", Ty: Int{Bits: 32}}},
		Ret:    Bool{},
	})

	tests := []struct {
		name string
		// a and b are built in a fresh context.
		a, b func(cx *InferCx) Ty
		// want is the expected error kind, or -1 for success.
		want TypeErrorKind
	}{
		{
			name: "same primitive",
			a:    ty(Int{Bits: 32}),
			b:    ty(Int{Bits: 32}),
			want: -1,
		},
		{
			name: "different primitive sizes",
			a:    ty(Int{Bits: 32}),
			b:    ty(Int{Bits: 64}),
			want: Mismatch,
		},
		{
			name: "signed and unsigned",
			a:    ty(Int{Bits: 8}),
			b:    ty(UInt{Bits: 8}),
			want: Mismatch,
		},
		{
			name: "error unifies with anything",
			a:    ty(Error{}),
			b:    ty(Adt{ID: box, Args: []Ty{String{}}}),
			want: -1,
		},
		{
			name: "var binds",
			a:    func(cx *InferCx) Ty { return cx.fresh() },
			b:    ty(Char{}),
			want: -1,
		},
		{
			name: "occurs check",
			a: func(cx *InferCx) Ty {
				v := cx.fresh()
				return Adt{ID: box, Args: []Ty{v}}
			},
			b: func(cx *InferCx) Ty {
				// The first variable allocated by a.
				return Var{ID: 0}
			},
			want: InfiniteType,
		},
		{
			name: "same adt args unify",
			a: func(cx *InferCx) Ty {
				return Adt{ID: pair, Args: []Ty{cx.fresh(), Bool{}}}
			},
			b:    ty(Adt{ID: pair, Args: []Ty{Int{Bits: 16}, Bool{}}}),
			want: -1,
		},
		{
			name: "different adts",
			a:    ty(Adt{ID: box, Args: []Ty{Bool{}}}),
			b:    ty(Adt{ID: pair, Args: []Ty{Bool{}, Bool{}}}),
			want: Mismatch,
		},
		{
			name: "adt arg mismatch",
			a:    ty(Adt{ID: box, Args: []Ty{Bool{}}}),
			b:    ty(Adt{ID: box, Args: []Ty{Char{}}}),
			want: Mismatch,
		},
		{
			name: "ref and mut ref",
			a:    ty(Ref{Elem: Bool{}}),
			b:    ty(MutRef{Elem: Bool{}}),
			want: Mismatch,
		},
		{
			name: "fn and matching fn ref",
			a:    ty(Fn{ID: isZero}),
			b: func(cx *InferCx) Ty {
				return FnRef{Params: []Ty{cx.fresh()}, Ret: Bool{}}
			},
			want: -1,
		},
		{
			name: "fn and mismatched fn ref",
			a:    ty(Fn{ID: isZero}),
			b:    ty(FnRef{Params: []Ty{Int{Bits: 32}}, Ret: Unit{}}),
			want: Mismatch,
		},
		{
			name: "fn ref arity",
			a:    ty(FnRef{Params: []Ty{Bool{}}, Ret: Unit{}}),
			b:    ty(FnRef{Ret: Unit{}}),
			want: Mismatch,
		},
		{
			name: "int literal and int",
			a:    func(cx *InferCx) Ty { return cx.freshInt() },
			b:    ty(UInt{Bits: 16}),
			want: -1,
		},
		{
			name: "int literal and float",
			a:    func(cx *InferCx) Ty { return cx.freshInt() },
			b:    ty(Float{Bits: 64}),
			want: Mismatch,
		},
		{
			name: "float literal and float",
			a:    func(cx *InferCx) Ty { return cx.freshFloat() },
			b:    ty(Float{Bits: 32}),
			want: -1,
		},
		{
			name: "float literal and int literal",
			a:    func(cx *InferCx) Ty { return cx.freshFloat() },
			b:    func(cx *InferCx) Ty { return cx.freshInt() },
			want: Mismatch,
		},
		{
			name: "int literal and string",
			a:    func(cx *InferCx) Ty { return cx.freshInt() },
			b:    ty(String{}),
			want: Mismatch,
		},
		{
			name: "int literals",
			a:    func(cx *InferCx) Ty { return cx.freshInt() },
			b:    func(cx *InferCx) Ty { return cx.freshInt() },
			want: -1,
		},
		{
			name: "same generic",
			a:    ty(Generic{Index: 0}),
			b:    ty(Generic{Index: 0}),
			want: -1,
		},
		{
			name: "different generics",
			a:    ty(Generic{Index: 0}),
			b:    ty(Generic{Index: 1}),
			want: RigidMismatch,
		},
		{
			name: "generic and concrete",
			a:    ty(Int{Bits: 32}),
			b:    ty(Generic{Index: 0}),
			want: RigidMismatch,
		},
		{
			name: "generic and int literal",
			a:    ty(Generic{Index: 1}),
			b:    func(cx *InferCx) Ty { return cx.freshInt() },
			want: RigidMismatch,
		},
		{
			name: "var and generic",
			a:    func(cx *InferCx) Ty { return cx.fresh() },
			b:    ty(Generic{Index: 1}),
			want: -1,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cx := NewInferCx(ds)
			cx.generics.push([]string{"T", "U"})
			defer cx.generics.pop()
			a, b := test.a(cx), test.b(cx)
			err := cx.Unify(a, b)
			switch {
			case test.want < 0 && err != nil:
				t.Fatalf("Unify(%s, %s)=%v, want success", cx.TyString(a), cx.TyString(b), err)
			case test.want < 0:
				// Error and function instances unify with other shapes.
				if _, ok := a.(Fn); ok || isError(a) {
					return
				}
				if ap, bp := cx.Apply(a), cx.Apply(b); !Equal(ap, bp) {
					t.Errorf("after Unify, Apply(a)=%s, Apply(b)=%s", pretty.String(ap), pretty.String(bp))
				}
			case err == nil:
				t.Fatalf("Unify(%s, %s) succeeded, want %s", cx.TyString(a), cx.TyString(b), test.want)
			case err.Kind != test.want:
				t.Errorf("Unify(%s, %s)=%v, want %s", cx.TyString(a), cx.TyString(b), err, test.want)
			}
		})
	}
}

func ty(t Ty) func(*InferCx) Ty { return func(*InferCx) Ty { return t } }

func TestUnifyFailureLeavesVarsUnbound(t *testing.T) {
	t.Parallel()
	ds := NewDefs()
	box := ds.newAdt(AdtDef{Name: "Box", Generics: []string{"T"}})
	pair := ds.newAdt(AdtDef{Name: "Pair", Generics: []string{"A", "B"}})

	t.Run("direct occurs check", func(t *testing.T) {
		cx := NewInferCx(ds)
		v := cx.fresh()
		if err := cx.Unify(v, Adt{ID: box, Args: []Ty{v}}); err == nil || err.Kind != InfiniteType {
			t.Fatalf("Unify=%v, want %s", err, InfiniteType)
		}
		if k := cx.vars.get(v.(Var).ID).Kind; k != Unbound {
			t.Errorf("variable is %s, want %s", k, Unbound)
		}
	})

	t.Run("occurs check through a bound variable", func(t *testing.T) {
		cx := NewInferCx(ds)
		v0 := cx.fresh()
		v1 := cx.fresh()
		if err := cx.Unify(v0, Ref{Elem: v1}); err != nil {
			t.Fatalf("Unify(v0, &v1)=%v", err)
		}
		if err := cx.Unify(v1, Adt{ID: box, Args: []Ty{v0}}); err == nil || err.Kind != InfiniteType {
			t.Fatalf("Unify(v1, Box<v0>)=%v, want %s", err, InfiniteType)
		}
		if k := cx.vars.get(v1.(Var).ID).Kind; k != Unbound {
			t.Errorf("v1 is %s, want %s", k, Unbound)
		}
	})

	t.Run("distinct adts do not compare arguments", func(t *testing.T) {
		cx := NewInferCx(ds)
		v := cx.fresh()
		a := Adt{ID: box, Args: []Ty{v}}
		b := Adt{ID: pair, Args: []Ty{Bool{}, Bool{}}}
		if err := cx.Unify(a, b); err == nil || err.Kind != Mismatch {
			t.Fatalf("Unify=%v, want %s", err, Mismatch)
		}
		if k := cx.vars.get(v.(Var).ID).Kind; k != Unbound {
			t.Errorf("argument variable is %s, want %s", k, Unbound)
		}
	})
}

func TestUnifyErrorPoisons(t *testing.T) {
	t.Parallel()
	ds := NewDefs()
	box := ds.newAdt(AdtDef{Name: "Box", Generics: []string{"T"}})
	cx := NewInferCx(ds)
	v := cx.fresh()
	lit := cx.freshInt()
	w := cx.fresh()
	if err := cx.Unify(v, Error{}); err != nil {
		t.Fatalf("Unify(v, Error)=%v", err)
	}
	if err := cx.Unify(Error{}, lit); err != nil {
		t.Fatalf("Unify(Error, lit)=%v", err)
	}
	if err := cx.Unify(FnRef{Params: []Ty{Adt{ID: box, Args: []Ty{w}}}, Ret: Bool{}}, Error{}); err != nil {
		t.Fatalf("Unify(fn(Box<w>) -> bool, Error)=%v", err)
	}
	for _, u := range []Ty{v, lit, w} {
		if got := cx.Apply(u); !isError(got) {
			t.Errorf("Apply(%v)=%s, want <error>", u, pretty.String(got))
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	t.Parallel()
	ds := NewDefs()
	box := ds.newAdt(AdtDef{Name: "Box", Generics: []string{"T"}})
	cx := NewInferCx(ds)
	v0, v1, v2 := cx.fresh(), cx.freshInt(), cx.fresh()
	if err := cx.Unify(v0, Ref{Elem: v1}); err != nil {
		t.Fatalf("Unify failed: %v", err)
	}
	if err := cx.Unify(v2, Adt{ID: box, Args: []Ty{v0}}); err != nil {
		t.Fatalf("Unify failed: %v", err)
	}
	once := cx.Apply(v2)
	want := Adt{ID: box, Args: []Ty{Ref{Elem: v1}}}
	if !Equal(once, want) {
		t.Errorf("Apply=%s, want %s", pretty.String(once), pretty.String(want))
	}
	if twice := cx.Apply(once); !Equal(once, twice) {
		t.Errorf("Apply(Apply(t))=%s, want %s", pretty.String(twice), pretty.String(once))
	}
	if err := cx.Unify(v1, Int{Bits: 8}); err != nil {
		t.Fatalf("Unify failed: %v", err)
	}
	want = Adt{ID: box, Args: []Ty{Ref{Elem: Int{Bits: 8}}}}
	if got := cx.Apply(v2); !Equal(got, want) {
		t.Errorf("Apply=%s, want %s", pretty.String(got), pretty.String(want))
	}
}

func TestInstantiate(t *testing.T) {
	t.Parallel()
	ds := NewDefs()
	id := ds.newFn(FnDef{
		Name:     "pick",
		Generics: []string{"A", "B"},
		Params: []ParamDef{
			{Name: "a", Ty: Generic{Index: 0}},
			{Name: "b", Ty: Generic{Index: 1}},
		},
		Ret: Generic{Index: 0},
	})
	cx := NewInferCx(ds)
	def := ds.Fn(id)
	args := cx.instantiate(def.Generics, []Ty{nil, Bool{}})
	if len(args) != 2 {
		t.Fatalf("len(args)=%d, want 2", len(args))
	}
	if v, ok := args[0].(Var); !ok || cx.vars.get(v.ID).Kind != Unbound {
		t.Errorf("args[0]=%s, want an unbound variable", pretty.String(args[0]))
	}
	if v, ok := args[1].(Var); !ok || cx.vars.get(v.ID).Kind != Bound {
		t.Errorf("args[1]=%s, want a bound variable", pretty.String(args[1]))
	}
	if !Equal(cx.Apply(args[1]), Bool{}) {
		t.Errorf("Apply(args[1])=%s, want bool", pretty.String(cx.Apply(args[1])))
	}
	sig := cx.fnSig(Fn{ID: id, Args: args})
	if !Equal(sig.Params[0], args[0]) || !Equal(sig.Ret, args[0]) {
		t.Errorf("one instantiation mapped A to different types: %s", pretty.String(sig))
	}
	other := cx.instantiate(def.Generics, nil)
	if Equal(other[0], args[0]) {
		t.Errorf("two instantiations share a variable")
	}
	if args := cx.instantiate(nil, nil); args != nil {
		t.Errorf("instantiate(nil)=%v, want nil", args)
	}
}

func TestStaleHandle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		f    func()
	}{
		{name: "adt", f: func() { NewDefs().Adt(3) }},
		{name: "fn", f: func() { NewDefs().Fn(0) }},
		{name: "var", f: func() { NewInferCx(nil).Apply(Var{ID: 7}) }},
		{name: "generics pop", f: func() { new(genericsCx).pop() }},
		{name: "generics rigid", f: func() { new(genericsCx).isRigid(0) }},
		{name: "generics name", f: func() {
			g := genericsCx{scopes: [][]string{{"T"}}}
			g.name(1)
		}},
		{name: "subst", f: func() { NewInferCx(nil).subst(Generic{Index: 2}, []Ty{Bool{}}) }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defer func() {
				r := recover()
				s, ok := r.(string)
				if !ok || !strings.HasPrefix(s, "bug: ") {
					t.Errorf("got panic %v, want a bug", r)
				}
			}()
			test.f()
		})
	}
}

func TestGenericsLookup(t *testing.T) {
	t.Parallel()
	var g genericsCx
	if _, ok := g.lookup("T"); ok {
		t.Errorf("lookup with no scope succeeded")
	}
	g.push([]string{"T", "U"})
	g.push([]string{"V"})
	if _, ok := g.lookup("T"); ok {
		t.Errorf("lookup found T from an outer scope")
	}
	if i, ok := g.lookup("V"); !ok || i != 0 {
		t.Errorf("lookup(V)=%d,%v, want 0,true", i, ok)
	}
	if g.isRigid(1) {
		t.Errorf("isRigid(1) in a one-parameter scope")
	}
	g.pop()
	if i, ok := g.lookup("U"); !ok || i != 1 {
		t.Errorf("lookup(U)=%d,%v, want 1,true", i, ok)
	}
	if !g.isRigid(1) || g.name(1) != "U" {
		t.Errorf("isRigid(1)=%v, name(1)=%q, want true, U", g.isRigid(1), g.name(1))
	}
}

func TestDuplicates(t *testing.T) {
	t.Parallel()
	got := duplicates([]string{"a", "b", "a", "c", "b", "a"})
	want := []int{2, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("duplicates=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("duplicates=%v, want %v", got, want)
		}
	}
}
