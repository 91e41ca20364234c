// Copyright © 2026 The Bit Authors under an MIT-style license.

package ast

import "strings"

func (op UnOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	case Deref:
		return "*"
	case Ref:
		return "&"
	case MutRef:
		return "&mut"
	default:
		return "?"
	}
}

var binOpStrings = [...]string{
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Rem:    "%",
	And:    "&&",
	Or:     "||",
	BitAnd: "&",
	BitOr:  "|",
	Xor:    "^",
	Eq:     "==",
	Ne:     "!=",
	Lt:     "<",
	Le:     "<=",
	Gt:     ">",
	Ge:     ">=",
	Concat: "<>",
}

func (op BinOp) String() string {
	if op < 0 || int(op) >= len(binOpStrings) {
		return "?"
	}
	return binOpStrings[op]
}

var assignOpStrings = [...]string{
	AssignEq: "=",
	AddEq:    "+=",
	SubEq:    "-=",
	MulEq:    "*=",
	DivEq:    "/=",
	RemEq:    "%=",
	AndEq:    "&=",
	OrEq:     "|=",
	XorEq:    "^=",
}

func (op AssignOp) String() string {
	if op < 0 || int(op) >= len(assignOpStrings) {
		return "?"
	}
	return assignOpStrings[op]
}

func (n *LocalHint) String() string {
	var s strings.Builder
	buildHintString(n, &s)
	return s.String()
}

func (n *ModuleHint) String() string {
	var s strings.Builder
	buildHintString(n, &s)
	return s.String()
}

func (n *FnHint) String() string {
	var s strings.Builder
	buildHintString(n, &s)
	return s.String()
}

func (n *RefHint) String() string {
	var s strings.Builder
	buildHintString(n, &s)
	return s.String()
}

func (n *MutRefHint) String() string {
	var s strings.Builder
	buildHintString(n, &s)
	return s.String()
}

func (n *UnitHint) String() string  { return "()" }
func (n *InferHint) String() string { return "_" }

// HintString returns the source form of a type hint.
func HintString(h TypeHint) string {
	var s strings.Builder
	buildHintString(h, &s)
	return s.String()
}

func buildHintString(h TypeHint, s *strings.Builder) {
	switch h := h.(type) {
	case nil:
		s.WriteString("()")
	case *LocalHint:
		s.WriteString(h.Name)
		buildHintArgsString(h.Args, s)
	case *ModuleHint:
		s.WriteString(h.Mod)
		s.WriteRune('.')
		s.WriteString(h.Name)
		buildHintArgsString(h.Args, s)
	case *FnHint:
		s.WriteString("fn(")
		for i, p := range h.Params {
			if i > 0 {
				s.WriteString(", ")
			}
			buildHintString(p, s)
		}
		s.WriteRune(')')
		if h.Ret != nil {
			s.WriteString(" -> ")
			buildHintString(h.Ret, s)
		}
	case *RefHint:
		s.WriteRune('&')
		buildHintString(h.Elem, s)
	case *MutRefHint:
		s.WriteString("&mut ")
		buildHintString(h.Elem, s)
	case *UnitHint:
		s.WriteString("()")
	case *InferHint:
		s.WriteRune('_')
	default:
		panic("impossible")
	}
}

func buildHintArgsString(args []TypeHint, s *strings.Builder) {
	if len(args) == 0 {
		return
	}
	s.WriteRune('<')
	for i, a := range args {
		if i > 0 {
			s.WriteString(", ")
		}
		buildHintString(a, s)
	}
	s.WriteRune('>')
}
