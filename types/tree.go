// Copyright © 2026 The Bit Authors under an MIT-style license.

// Package types does type inference and checking, and
// builds a typed representation of the source.
package types

import (
	"math/big"

	"github.com/bitlang/bit/ast"
)

// A Mod is a module: the unit of compilation.
type Mod struct {
	AST  *ast.Mod
	Path string
	// Defs is the definition store holding the module's definitions.
	// It is shared with the module's imports.
	Defs *Defs
	// Adts and Fns are the module's definitions in source order.
	Adts []AdtID
	Fns  []*Func
	// Exports is the public definitions by name.
	Exports map[string]Def
}

// A Node is a node of the typed tree.
type Node interface {
	// ast returns the AST node corresponding to the type-checked node.
	ast() ast.Node
}

// A Func is a checked function definition.
type Func struct {
	AST    *ast.Fn
	ID     FnID
	Params []*Local
	Body   *Block
}

func (n *Func) ast() ast.Node { return n.AST }

// A Stmt is a statement.
type Stmt interface {
	Node
}

// A Let defines a local variable.
type Let struct {
	AST   *ast.Let
	Local *Local
	Expr  Expr
}

func (n *Let) ast() ast.Node { return n.AST }

// An Assign assigns to a place.
type Assign struct {
	AST   *ast.Assign
	Op    ast.AssignOp
	Place Expr
	Expr  Expr
}

func (n *Assign) ast() ast.Node { return n.AST }

// A While is a while loop.
type While struct {
	AST  *ast.While
	Cond Expr
	Body *Block
}

func (n *While) ast() ast.Node { return n.AST }

// A For is a loop over an integer range.
type For struct {
	AST      *ast.For
	Local    *Local
	From, To Expr
	Body     *Block
}

func (n *For) ast() ast.Node { return n.AST }

// A Break is a break statement.
type Break struct{ AST *ast.Break }

func (n *Break) ast() ast.Node { return n.AST }

// A Continue is a continue statement.
type Continue struct{ AST *ast.Continue }

func (n *Continue) ast() ast.Node { return n.AST }

// A Return is a return statement.
type Return struct {
	AST *ast.Return
	// Expr is nil for a bare return.
	Expr Expr
}

func (n *Return) ast() ast.Node { return n.AST }

// An ExprStmt is an expression statement.
type ExprStmt struct {
	Expr Expr
}

func (n *ExprStmt) ast() ast.Node { return n.Expr.ast() }

// An Expr is a typed expression.
type Expr interface {
	Node
	// Type returns the type of the expression.
	Type() Ty
}

// An IntLit is an integer literal.
type IntLit struct {
	AST ast.Expr
	Val *big.Int
	typ Ty
}

func (n *IntLit) ast() ast.Node { return n.AST }
func (n *IntLit) Type() Ty      { return n.typ }

// A FloatLit is a floating point literal.
type FloatLit struct {
	AST ast.Expr
	Val *big.Float
	typ Ty
}

func (n *FloatLit) ast() ast.Node { return n.AST }
func (n *FloatLit) Type() Ty      { return n.typ }

// A StringLit is a string literal.
type StringLit struct {
	AST *ast.Lit
	Val string
}

func (n *StringLit) ast() ast.Node { return n.AST }
func (n *StringLit) Type() Ty      { return String{} }

// A CharLit is a character literal.
type CharLit struct {
	AST *ast.Lit
	Val rune
}

func (n *CharLit) ast() ast.Node { return n.AST }
func (n *CharLit) Type() Ty      { return Char{} }

// A BoolLit is true or false.
type BoolLit struct {
	AST *ast.Lit
	Val bool
}

func (n *BoolLit) ast() ast.Node { return n.AST }
func (n *BoolLit) Type() Ty      { return Bool{} }

// A UnitLit is ().
type UnitLit struct {
	AST ast.Node
}

func (n *UnitLit) ast() ast.Node { return n.AST }
func (n *UnitLit) Type() Ty      { return Unit{} }

// A LocalRef is a use of a local variable.
type LocalRef struct {
	AST   *ast.Ident
	Local *Local
}

func (n *LocalRef) ast() ast.Node { return n.AST }
func (n *LocalRef) Type() Ty      { return n.Local.Ty }

// A FnVal is a use of a module-level function.
// Its type is a Fn instantiated for this use.
type FnVal struct {
	AST ast.Expr
	typ Ty
}

func (n *FnVal) ast() ast.Node { return n.AST }
func (n *FnVal) Type() Ty      { return n.typ }

// A Ctor is a struct constructor or enum variant.
// A constructor with parameters has a FnRef type
// returning the ADT; otherwise it has the ADT type.
type Ctor struct {
	AST ast.Expr
	Adt AdtID
	// Variant is the index of the enum variant, or -1 for a struct.
	Variant int
	typ     Ty
}

func (n *Ctor) ast() ast.Node { return n.AST }
func (n *Ctor) Type() Ty      { return n.typ }

// A Unary is a unary operation.
type Unary struct {
	AST  *ast.Unary
	Op   ast.UnOp
	Expr Expr
	typ  Ty
}

func (n *Unary) ast() ast.Node { return n.AST }
func (n *Unary) Type() Ty      { return n.typ }

// A Binary is a binary operation.
type Binary struct {
	AST         *ast.Binary
	Op          ast.BinOp
	Left, Right Expr
	typ         Ty
}

func (n *Binary) ast() ast.Node { return n.AST }
func (n *Binary) Type() Ty      { return n.typ }

// An If is an if expression.
type If struct {
	AST  *ast.If
	Cond Expr
	Then *Block
	// Else is nil, *Block, or *If.
	Else Expr
	typ  Ty
}

func (n *If) ast() ast.Node { return n.AST }
func (n *If) Type() Ty      { return n.typ }

// A Call is a function call.
type Call struct {
	AST  *ast.Call
	Fn   Expr
	Args []Expr
	typ  Ty
}

func (n *Call) ast() ast.Node { return n.AST }
func (n *Call) Type() Ty      { return n.typ }

// A Field is a struct field selection.
type Field struct {
	AST  *ast.Select
	Expr Expr
	// Derefs is the number of references
	// dereferenced to reach the struct.
	Derefs int
	Field  int
	typ    Ty
}

func (n *Field) ast() ast.Node { return n.AST }
func (n *Field) Type() Ty      { return n.typ }

// A Cast is a type conversion.
type Cast struct {
	AST  *ast.Cast
	Expr Expr
	typ  Ty
}

func (n *Cast) ast() ast.Node { return n.AST }
func (n *Cast) Type() Ty      { return n.typ }

// A Closure is an anonymous function.
type Closure struct {
	AST    *ast.Closure
	Params []*Local
	Body   Expr
	typ    Ty
}

func (n *Closure) ast() ast.Node { return n.AST }
func (n *Closure) Type() Ty      { return n.typ }

// A Block is a block expression.
type Block struct {
	AST   *ast.Block
	Stmts []Stmt
	// Tail is nil if the block has no trailing expression.
	Tail Expr
	typ  Ty
}

func (n *Block) ast() ast.Node { return n.AST }
func (n *Block) Type() Ty      { return n.typ }

// A Bad is an expression that failed to check.
type Bad struct {
	AST ast.Node
}

func (n *Bad) ast() ast.Node { return n.AST }
func (n *Bad) Type() Ty      { return Error{} }
