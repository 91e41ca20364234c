// Copyright © 2026 The Bit Authors under an MIT-style license.

// Package ast is the untyped abstract syntax tree of bit source
// and a parser that builds it.
package ast

import "github.com/bitlang/bit/loc"

// A Mod is a module: the unit of compilation.
type Mod struct {
	// Path is the module path as it appears in a use item.
	Path  string
	Files []File
	// Locs maps the ranges of AST nodes to file locations.
	// Locs may be nil, in which case all nodes have no location.
	Locs *loc.Files
}

// Loc returns the location of a node.
func (m *Mod) Loc(n Node) loc.Loc {
	if m.Locs == nil {
		return loc.Loc{Path: m.Path}
	}
	if l := m.Locs.Loc(n.GetRange()); l != nil {
		return *l
	}
	return loc.Loc{Path: m.Path}
}

// File is a single source code file.
type File struct {
	Path  string
	Items []Item
}

// A Node is a node of the AST with location information.
type Node interface {
	GetRange() loc.Range
}

// An Item is a top-level item: *Struct, *Enum, *Fn, or *Use.
type Item interface {
	Node
	isItem()
}

// An Ident is a name and its location.
// Identifiers used as expressions may carry explicit generic arguments:
// 	id::<i32, _>
type Ident struct {
	loc.Range
	Name     string
	TypeArgs []TypeHint
}

// A Struct is a struct declaration.
type Struct struct {
	loc.Range
	Pub      bool
	Name     Ident
	Generics []Ident
	Fields   []Field
}

// A Field is a struct field declaration.
type Field struct {
	loc.Range
	Name Ident
	Hint TypeHint
}

// An Enum is an enum declaration.
type Enum struct {
	loc.Range
	Pub      bool
	Name     Ident
	Generics []Ident
	Variants []Variant
}

// A Variant is an enum variant declaration.
type Variant struct {
	loc.Range
	Name   Ident
	Params []TypeHint
}

// A Fn is a function declaration.
type Fn struct {
	loc.Range
	Pub      bool
	Name     Ident
	Generics []Ident
	Params   []Param
	// Ret is nil if the return type is not written.
	Ret  TypeHint
	Body *Block
}

// A Param is a function or closure parameter.
type Param struct {
	loc.Range
	Name Ident
	// Hint is nil for closure parameters without a type.
	Hint TypeHint
}

// A Use is a module import.
type Use struct {
	loc.Range
	Pub  bool
	Path string
	// As is the name the module is bound to.
	// It is the last path element unless renamed with as.
	As Ident
	// Names is non-nil for use … for a, b;
	// the named definitions are bound directly.
	Names []Ident
}

func (*Struct) isItem() {}
func (*Enum) isItem()   {}
func (*Fn) isItem()     {}
func (*Use) isItem()    {}

// A TypeHint is the source syntax of a type.
type TypeHint interface {
	Node
	isTypeHint()
}

// A LocalHint names a type in the current module,
// a primitive type, or a generic parameter.
type LocalHint struct {
	loc.Range
	Name string
	Args []TypeHint
}

// A ModuleHint names a type in an imported module.
type ModuleHint struct {
	loc.Range
	Mod  string
	Name string
	Args []TypeHint
}

// A FnHint is a function type.
type FnHint struct {
	loc.Range
	Params []TypeHint
	// Ret is nil if not written; it means the unit type.
	Ret TypeHint
}

// A RefHint is a reference type.
type RefHint struct {
	loc.Range
	Elem TypeHint
}

// A MutRefHint is a mutable reference type.
type MutRefHint struct {
	loc.Range
	Elem TypeHint
}

// A UnitHint is the unit type, ().
type UnitHint struct {
	loc.Range
}

// An InferHint is _, a type left to inference.
type InferHint struct {
	loc.Range
}

func (*LocalHint) isTypeHint()  {}
func (*ModuleHint) isTypeHint() {}
func (*FnHint) isTypeHint()     {}
func (*RefHint) isTypeHint()    {}
func (*MutRefHint) isTypeHint() {}
func (*UnitHint) isTypeHint()   {}
func (*InferHint) isTypeHint()  {}

// A Stmt is a statement.
type Stmt interface {
	Node
	isStmt()
}

// A Let defines a local variable.
type Let struct {
	loc.Range
	Mut  bool
	Name Ident
	// Hint is nil if the type is not written.
	Hint TypeHint
	Expr Expr
}

// An Assign assigns to a place expression.
type Assign struct {
	loc.Range
	Op    AssignOp
	Place Expr
	Expr  Expr
}

// A While is a while loop.
type While struct {
	loc.Range
	Cond Expr
	Body *Block
}

// A For loops over an integer range.
type For struct {
	loc.Range
	Var       Ident
	From, To  Expr
	Inclusive bool
	Body      *Block
}

// A Break is a break statement.
type Break struct {
	loc.Range
}

// A Continue is a continue statement.
type Continue struct {
	loc.Range
}

// A Return is a return statement.
type Return struct {
	loc.Range
	// Expr is nil for a bare return.
	Expr Expr
}

// An ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Expr Expr
}

func (n *ExprStmt) GetRange() loc.Range { return n.Expr.GetRange() }

func (*Let) isStmt()      {}
func (*Assign) isStmt()   {}
func (*While) isStmt()    {}
func (*For) isStmt()      {}
func (*Break) isStmt()    {}
func (*Continue) isStmt() {}
func (*Return) isStmt()   {}
func (*ExprStmt) isStmt() {}

// An Expr is an expression.
type Expr interface {
	Node
	isExpr()
}

// LitKind is the kind of a literal.
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	StringLit
	CharLit
	BoolLit
)

// A Lit is a literal.
type Lit struct {
	loc.Range
	Kind LitKind
	// Text is the literal as written in the source.
	Text string
	// Value is the interpreted value of string and char literals.
	Value string
}

// A UnitLit is ().
type UnitLit struct {
	loc.Range
}

// A Unary is a unary operation.
type Unary struct {
	loc.Range
	Op   UnOp
	Expr Expr
}

// A Binary is a binary operation.
type Binary struct {
	loc.Range
	Op          BinOp
	Left, Right Expr
}

// An If is an if expression.
type If struct {
	loc.Range
	Cond Expr
	Then *Block
	// Else is nil, *Block, or *If.
	Else Expr
}

// A Call is a function call.
type Call struct {
	loc.Range
	Fn   Expr
	Args []Expr
}

// A Select selects a field, an enum variant, or a module member.
type Select struct {
	loc.Range
	Expr Expr
	Name Ident
}

// A Cast converts between numeric types.
type Cast struct {
	loc.Range
	Expr Expr
	Hint TypeHint
}

// A Closure is an anonymous function.
type Closure struct {
	loc.Range
	Params []Param
	Body   Expr
}

// A Block is a sequence of statements
// with an optional trailing expression.
type Block struct {
	loc.Range
	Stmts []Stmt
	// Tail is nil if the block has no trailing expression.
	Tail Expr
}

func (*Lit) isExpr()     {}
func (*UnitLit) isExpr() {}
func (*Ident) isExpr()   {}
func (*Unary) isExpr()   {}
func (*Binary) isExpr()  {}
func (*If) isExpr()      {}
func (*Call) isExpr()    {}
func (*Select) isExpr()  {}
func (*Cast) isExpr()    {}
func (*Closure) isExpr() {}
func (*Block) isExpr()   {}

// UnOp is a unary operator.
type UnOp int

const (
	Neg UnOp = iota
	Not
	Deref
	Ref
	MutRef
)

// BinOp is a binary operator.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
	And
	Or
	BitAnd
	BitOr
	Xor
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Concat
)

// AssignOp is an assignment operator.
type AssignOp int

const (
	AssignEq AssignOp = iota
	AddEq
	SubEq
	MulEq
	DivEq
	RemEq
	AndEq
	OrEq
	XorEq
)

// BinOp returns the binary operator applied by a compound assignment.
// The second result is false for plain assignment.
func (op AssignOp) BinOp() (BinOp, bool) {
	switch op {
	case AddEq:
		return Add, true
	case SubEq:
		return Sub, true
	case MulEq:
		return Mul, true
	case DivEq:
		return Div, true
	case RemEq:
		return Rem, true
	case AndEq:
		return BitAnd, true
	case OrEq:
		return BitOr, true
	case XorEq:
		return Xor, true
	default:
		return 0, false
	}
}
