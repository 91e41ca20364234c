// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import "testing"

func TestTyString(t *testing.T) {
	t.Parallel()
	ds := NewDefs()
	box := ds.newAdt(AdtDef{Name: "Box", Kind: StructKind, Generics: []string{"T"}})
	id := ds.newFn(FnDef{Name: "id", Generics: []string{"T"}})
	tests := []struct {
		ds       *Defs
		generics []string
		ty       Ty
		want     string
	}{
		{ty: Int{Bits: 32}, want: "i32"},
		{ty: UInt{Bits: 8}, want: "u8"},
		{ty: Float{Bits: 64}, want: "f64"},
		{ty: Unit{}, want: "()"},
		{ty: Error{}, want: "<error>"},
		{ty: Var{ID: 3}, want: "_"},
		{ty: Generic{Index: 1}, want: "$1"},
		{generics: []string{"A", "B"}, ty: Generic{Index: 1}, want: "B"},
		{ty: Ref{Elem: MutRef{Elem: Int{Bits: 64}}}, want: "&&mut i64"},
		{ty: Adt{ID: box, Args: []Ty{Bool{}}}, want: "adt#0<bool>"},
		{ds: ds, ty: Adt{ID: box, Args: []Ty{Adt{ID: box, Args: []Ty{String{}}}}}, want: "Box<Box<string>>"},
		{ds: ds, ty: Fn{ID: id, Args: []Ty{Char{}}}, want: "id<char>"},
		{ty: FnRef{Params: []Ty{Int{Bits: 8}, Bool{}}, Ret: Unit{}}, want: "fn(i8, bool) -> ()"},
		{ty: FnRef{Ret: FnRef{Ret: Unit{}}}, want: "fn() -> fn() -> ()"},
	}
	for _, test := range tests {
		if got := TyString(test.ds, test.generics, test.ty); got != test.want {
			t.Errorf("TyString(%#v)=%q, want %q", test.ty, got, test.want)
		}
	}
}

func TestInferCxTyString(t *testing.T) {
	t.Parallel()
	cx := NewInferCx(nil)
	i := Var{ID: cx.vars.freshInt()}
	f := Var{ID: cx.vars.freshFloat()}
	v := Var{ID: cx.vars.fresh()}
	b := Var{ID: cx.vars.bind(Bool{})}
	tests := []struct {
		ty   Ty
		want string
	}{
		{ty: i, want: "_"},
		{ty: f, want: "_"},
		{ty: v, want: "_"},
		{ty: b, want: "bool"},
		{ty: FnRef{Params: []Ty{b}, Ret: Ref{Elem: Var{ID: cx.vars.bind(b)}}}, want: "fn(bool) -> &bool"},
	}
	for _, test := range tests {
		if got := cx.TyString(test.ty); got != test.want {
			t.Errorf("cx.TyString(%#v)=%q, want %q", test.ty, got, test.want)
		}
	}
	cx.generics.push([]string{"K", "V"})
	if got := cx.TyString(Generic{Index: 1}); got != "V" {
		t.Errorf("cx.TyString(Generic{1})=%q, want V", got)
	}
}

func TestDefStrings(t *testing.T) {
	t.Parallel()
	ds := NewDefs()
	pair := ds.newAdt(AdtDef{
		Name:     "Pair",
		Kind:     StructKind,
		Generics: []string{"A", "B"},
		Fields: []FieldDef{
			{Name: "a", Ty: Generic{Index: 0}},
			{Name: "b", Ty: Generic{Index: 1}},
		},
	})
	opt := ds.newAdt(AdtDef{
		Name:     "Opt",
		Kind:     EnumKind,
		Generics: []string{"T"},
		Variants: []VariantDef{
			{Name: "None"},
			{Name: "Some", Params: []Ty{Generic{Index: 0}}},
		},
	})
	swap := ds.newFn(FnDef{
		Name:     "swap",
		Generics: []string{"A", "B"},
		Params: []ParamDef{
			{Name: "p", Ty: Ref{Elem: Adt{ID: pair, Args: []Ty{Generic{Index: 0}, Generic{Index: 1}}}}},
		},
		Ret: Adt{ID: pair, Args: []Ty{Generic{Index: 1}, Generic{Index: 0}}},
	})
	if got, want := AdtString(ds, pair), "struct Pair<A, B> { a: A, b: B }"; got != want {
		t.Errorf("AdtString(Pair)=%q, want %q", got, want)
	}
	if got, want := AdtString(ds, opt), "enum Opt<T> { None, Some(T) }"; got != want {
		t.Errorf("AdtString(Opt)=%q, want %q", got, want)
	}
	if got, want := FnString(ds, swap), "fn swap<A, B>(p: &Pair<A, B>) -> Pair<B, A>"; got != want {
		t.Errorf("FnString(swap)=%q, want %q", got, want)
	}
}
