// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

// A Ty is a type.
type Ty interface {
	isTy()
}

// Int is a signed integer type of a bit width.
type Int struct{ Bits int }

// UInt is an unsigned integer type of a bit width.
type UInt struct{ Bits int }

// Float is a floating point type of a bit width.
type Float struct{ Bits int }

// Bool is the boolean type.
type Bool struct{}

// Char is the character type.
type Char struct{}

// String is the string type.
type String struct{}

// Unit is the type with one value, ().
type Unit struct{}

// Adt is an instance of a struct or enum definition.
// Args has one element per generic parameter of the definition.
type Adt struct {
	ID   AdtID
	Args []Ty
}

// Fn is an instance of a function definition.
// Args has one element per generic parameter of the definition.
type Fn struct {
	ID   FnID
	Args []Ty
}

// FnRef is an anonymous function type,
// such as that of a closure or a fn(…) -> … hint.
type FnRef struct {
	Params []Ty
	Ret    Ty
}

// Generic is a generic parameter of the declaration being checked.
// Index is its position in the declaration's parameter list.
type Generic struct{ Index int }

// Var is a type variable.
type Var struct{ ID VarID }

// Ref is a reference type.
type Ref struct{ Elem Ty }

// MutRef is a mutable reference type.
type MutRef struct{ Elem Ty }

// Error is the type of an expression that failed to check.
// It unifies with every type so that one mistake is reported once.
type Error struct{}

func (Int) isTy()     {}
func (UInt) isTy()    {}
func (Float) isTy()   {}
func (Bool) isTy()    {}
func (Char) isTy()    {}
func (String) isTy()  {}
func (Unit) isTy()    {}
func (Adt) isTy()     {}
func (Fn) isTy()      {}
func (FnRef) isTy()   {}
func (Generic) isTy() {}
func (Var) isTy()     {}
func (Ref) isTy()     {}
func (MutRef) isTy()  {}
func (Error) isTy()   {}

// Equal returns whether two types are structurally identical.
// Variables are equal only to the same variable;
// Equal does not resolve them.
func Equal(a, b Ty) bool {
	switch a := a.(type) {
	case Adt:
		b, ok := b.(Adt)
		return ok && a.ID == b.ID && equalTys(a.Args, b.Args)
	case Fn:
		b, ok := b.(Fn)
		return ok && a.ID == b.ID && equalTys(a.Args, b.Args)
	case FnRef:
		b, ok := b.(FnRef)
		return ok && equalTys(a.Params, b.Params) && Equal(a.Ret, b.Ret)
	case Ref:
		b, ok := b.(Ref)
		return ok && Equal(a.Elem, b.Elem)
	case MutRef:
		b, ok := b.(MutRef)
		return ok && Equal(a.Elem, b.Elem)
	case nil:
		return b == nil
	default:
		// The remaining variants are comparable.
		return a == b
	}
}

func equalTys(as, bs []Ty) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func isInt(t Ty) bool {
	switch t.(type) {
	case Int, UInt:
		return true
	}
	return false
}

func isFloat(t Ty) bool {
	_, ok := t.(Float)
	return ok
}

func isNumeric(t Ty) bool { return isInt(t) || isFloat(t) }

func isError(t Ty) bool {
	_, ok := t.(Error)
	return ok
}

// primitives are the built-in type names.
var primitives = map[string]Ty{
	"i8":     Int{Bits: 8},
	"i16":    Int{Bits: 16},
	"i32":    Int{Bits: 32},
	"i64":    Int{Bits: 64},
	"u8":     UInt{Bits: 8},
	"u16":    UInt{Bits: 16},
	"u32":    UInt{Bits: 32},
	"u64":    UInt{Bits: 64},
	"f32":    Float{Bits: 32},
	"f64":    Float{Bits: 64},
	"bool":   Bool{},
	"char":   Char{},
	"string": String{},
}
