// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import (
	"strconv"
	"strings"
)

// TyString returns the source-like string of a type.
// Generic parameters are named by generics if their index is in range.
// Variables print as _.
// If ds is nil, definitions print by handle.
func TyString(ds *Defs, generics []string, t Ty) string {
	var s strings.Builder
	p := tyPrinter{ds: ds, generics: generics}
	p.build(&s, t)
	return s.String()
}

type tyPrinter struct {
	ds       *Defs
	generics []string
}

func (p tyPrinter) build(s *strings.Builder, t Ty) {
	ds, generics := p.ds, p.generics
	switch t := t.(type) {
	case nil:
		s.WriteString("<nil>")
	case Int:
		s.WriteRune('i')
		s.WriteString(strconv.Itoa(t.Bits))
	case UInt:
		s.WriteRune('u')
		s.WriteString(strconv.Itoa(t.Bits))
	case Float:
		s.WriteRune('f')
		s.WriteString(strconv.Itoa(t.Bits))
	case Bool:
		s.WriteString("bool")
	case Char:
		s.WriteString("char")
	case String:
		s.WriteString("string")
	case Unit:
		s.WriteString("()")
	case Error:
		s.WriteString("<error>")
	case Var:
		s.WriteRune('_')
	case Generic:
		if t.Index < len(generics) {
			s.WriteString(generics[t.Index])
		} else {
			s.WriteRune('$')
			s.WriteString(strconv.Itoa(t.Index))
		}
	case Ref:
		s.WriteRune('&')
		p.build(s, t.Elem)
	case MutRef:
		s.WriteString("&mut ")
		p.build(s, t.Elem)
	case Adt:
		if ds == nil {
			s.WriteString("adt#")
			s.WriteString(strconv.Itoa(int(t.ID)))
		} else {
			s.WriteString(ds.Adt(t.ID).Name)
		}
		p.buildArgs(s, t.Args)
	case Fn:
		if ds == nil {
			s.WriteString("fn#")
			s.WriteString(strconv.Itoa(int(t.ID)))
		} else {
			s.WriteString(ds.Fn(t.ID).Name)
		}
		p.buildArgs(s, t.Args)
	case FnRef:
		s.WriteString("fn(")
		for i, param := range t.Params {
			if i > 0 {
				s.WriteString(", ")
			}
			p.build(s, param)
		}
		s.WriteString(") -> ")
		p.build(s, t.Ret)
	default:
		bug(t, "impossible type")
	}
}

func (p tyPrinter) buildArgs(s *strings.Builder, args []Ty) {
	if len(args) == 0 {
		return
	}
	s.WriteRune('<')
	for i, a := range args {
		if i > 0 {
			s.WriteString(", ")
		}
		p.build(s, a)
	}
	s.WriteRune('>')
}

// FnString returns the signature of a function definition.
func FnString(ds *Defs, id FnID) string {
	def := ds.Fn(id)
	p := tyPrinter{ds: ds, generics: def.Generics}
	var s strings.Builder
	s.WriteString("fn ")
	s.WriteString(def.Name)
	buildGenericsString(&s, def.Generics)
	s.WriteRune('(')
	for i, param := range def.Params {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(param.Name)
		s.WriteString(": ")
		p.build(&s, param.Ty)
	}
	s.WriteString(") -> ")
	p.build(&s, def.Ret)
	return s.String()
}

// AdtString returns the declaration of a struct or enum definition.
func AdtString(ds *Defs, id AdtID) string {
	def := ds.Adt(id)
	p := tyPrinter{ds: ds, generics: def.Generics}
	var s strings.Builder
	if def.Kind == StructKind {
		s.WriteString("struct ")
	} else {
		s.WriteString("enum ")
	}
	s.WriteString(def.Name)
	buildGenericsString(&s, def.Generics)
	s.WriteString(" {")
	for i, f := range def.Fields {
		if i > 0 {
			s.WriteRune(',')
		}
		s.WriteRune(' ')
		s.WriteString(f.Name)
		s.WriteString(": ")
		p.build(&s, f.Ty)
	}
	for i, v := range def.Variants {
		if i > 0 {
			s.WriteRune(',')
		}
		s.WriteRune(' ')
		s.WriteString(v.Name)
		if len(v.Params) > 0 {
			s.WriteRune('(')
			for j, param := range v.Params {
				if j > 0 {
					s.WriteString(", ")
				}
				p.build(&s, param)
			}
			s.WriteRune(')')
		}
	}
	s.WriteString(" }")
	return s.String()
}

func buildGenericsString(s *strings.Builder, generics []string) {
	if len(generics) == 0 {
		return
	}
	s.WriteRune('<')
	s.WriteString(strings.Join(generics, ", "))
	s.WriteRune('>')
}
