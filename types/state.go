// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/bitlang/bit/ast"
	"github.com/bitlang/bit/loc"
)

// Config are configuration parameters for the type checker.
type Config struct {
	// IntBits is the bit size of integer literals
	// not otherwise constrained.
	// It must be a valid int size: 8, 16, 32, or 64 (default=64).
	IntBits int
	// FloatBits is the bit size of float literals
	// not otherwise constrained.
	// It must be a valid float size: 32 or 64 (default=64).
	FloatBits int
	// Importer is used for importing modules.
	// The default importer reads modules from source
	// relative to the current directory.
	Importer Importer
	// Defs is the definition store shared by a module and its imports.
	// If nil, a new store is used.
	Defs *Defs
	// Trace is whether to enable debug tracing.
	Trace bool
}

type state struct {
	astMod *ast.Mod
	cfg    Config
	cx     *InferCx
	res    *resolver
	mod    *Mod

	// frames is the stack of function and closure bodies being checked.
	frames []*frame

	// The following are reset for each function body.
	// litVars is the literal-flavored variables, defaulted at finalization.
	litVars []VarID
	// ints and floats are the literals, bounds-checked at finalization.
	ints   []*IntLit
	floats []*FloatLit
	// diverge is the variables of blocks that do not complete normally.
	diverge []VarID
	// pending is the operands of unknown type, checked at finalization.
	pending []pendingOperand

	indent string
}

// A frame is a function or closure body.
type frame struct {
	ret   Ty
	loops int
}

func newState(cfg Config, astMod *ast.Mod) *state {
	x := &state{
		astMod: astMod,
		cfg:    cfg,
		res:    newResolver(),
	}
	setConfigDefaults(x)
	x.cx = NewInferCx(x.cfg.Defs)
	return x
}

func setConfigDefaults(x *state) {
	switch x.cfg.IntBits {
	case 0:
		x.cfg.IntBits = 64
	case 8, 16, 32, 64:
		break
	default:
		panic("bad IntBits " + strconv.Itoa(x.cfg.IntBits))
	}
	switch x.cfg.FloatBits {
	case 0:
		x.cfg.FloatBits = 64
	case 32, 64:
		break
	default:
		panic("bad FloatBits " + strconv.Itoa(x.cfg.FloatBits))
	}
	if x.cfg.Defs == nil {
		x.cfg.Defs = NewDefs()
	}
	if x.cfg.Importer == nil {
		x.cfg.Importer = &SourceImporter{}
	}
	if _, ok := x.cfg.Importer.(*importer); !ok {
		x.cfg.Importer = newImporter(x.astMod.Path, x.cfg.Importer)
	}
}

func (x *state) frame() *frame {
	if len(x.frames) == 0 {
		bug(nil, "no function frame")
	}
	return x.frames[len(x.frames)-1]
}

func (x *state) loc(n ast.Node) loc.Loc { return x.astMod.Loc(n) }

func (x *state) err(n ast.Node, f string, vs ...interface{}) *checkError {
	err := &checkError{loc: x.loc(n), msg: fmt.Sprintf(f, vs...)}
	if x.astMod.Locs != nil {
		err.snippet = x.astMod.Locs.Snippet(n.GetRange())
	}
	return err
}

func (x *state) ty(t Ty) string { return x.cx.TyString(t) }

// The argument to the returned function,
// if non-empty, only the first element of vs is used.
// It must be a either pointer to a slice of types convertable to error,
// or a pointer to a type convertable to error.
func (x *state) tr(f string, vs ...interface{}) func(...interface{}) {
	if !x.cfg.Trace {
		return func(...interface{}) {}
	}
	x.log(f, vs...)
	olddent := x.indent
	x.indent += "---"
	return func(errs ...interface{}) {
		defer func() { x.indent = olddent }()
		if len(errs) == 0 {
			return
		}
		v := reflect.ValueOf(errs[0])
		if v.IsNil() || v.Elem().Kind() == reflect.Slice && v.Elem().Len() == 0 {
			return
		}
		x.log("%v", v.Elem().Interface())
	}
}

func (x *state) log(f string, vs ...interface{}) {
	if !x.cfg.Trace {
		return
	}
	fmt.Print(x.indent)
	fmt.Printf(f, vs...)
	fmt.Println("")
}
