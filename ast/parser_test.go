// Copyright © 2026 The Bit Authors under an MIT-style license.

package ast

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/eaburns/peggy/peg"
	"github.com/eaburns/pretty"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/unicode"
)

func TestBinaryPrecedence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src string
		// want is the parenthesized representation of the tail.
		want string
	}{
		{src: "a + b + c", want: "((a + b) + c)"},
		{src: "a + b * c", want: "(a + (b * c))"},
		{src: "a * b - c", want: "((a * b) - c)"},
		{src: "a == b && c < d", want: "((a == b) && (c < d))"},
		{src: "a || b && c", want: "(a || (b && c))"},
		{src: "a | b ^ c & d", want: "(a | (b ^ (c & d)))"},
		{src: `s <> "x" == t`, want: `((s <> "x") == t)`},
		{src: "-a * b", want: "((-a) * b)"},
		{src: "!a && b", want: "((!a) && b)"},
		{src: "a as i32 + b", want: "((a as i32) + b)"},
		{src: "-a as f64", want: "((-a) as f64)"},
		{src: "*p.x", want: "(*(p.x))"},
		{src: "&&x", want: "(&(&x))"},
		{src: "&mut x", want: "(&mut x)"},
		{src: "f(a, b + c).y", want: "(f(a, (b + c)).y)"},
		{src: "(a + b) * c", want: "((a + b) * c)"},
		{src: "id::<i32, _>(x)", want: "id::<i32, _>(x)"},
	}
	for _, test := range tests {
		src := "fn f() { " + test.src + " }"
		p := NewParser("")
		if err := p.Parse("", strings.NewReader(src)); err != nil {
			t.Errorf("failed to parse [%s]: %s", src, err.Error())
			continue
		}
		body := p.Mod().Files[0].Items[0].(*Fn).Body
		if body.Tail == nil {
			t.Errorf("[%s]: no tail expression", src)
			continue
		}
		if got := paren(body.Tail); got != test.want {
			t.Errorf("got:\n	%s\nexpected:\n	%s", got, test.want)
		}
	}
}

func TestItems(t *testing.T) {
	t.Parallel()
	const src = `
		pub struct Pair<A, B> { a: A, b: B }
		enum Opt<T> { None, Some(T), }
		use lib/list as l;
		pub use lib/opt for Opt, none
		fn apply<T, R>(f: fn(T) -> R, t: T) -> R { f(t) }
		fn borrow(x: &&mut i32, y: l.List<&str>) {}
	`
	p := NewParser("test")
	if err := p.Parse("test.bit", strings.NewReader(src)); err != nil {
		t.Fatalf("failed to parse: %s", err)
	}
	items := p.Mod().Files[0].Items
	if len(items) != 6 {
		t.Fatalf("got %d items, expected 6", len(items))
	}

	pair := items[0].(*Struct)
	if !pair.Pub || pair.Name.Name != "Pair" || len(pair.Generics) != 2 || len(pair.Fields) != 2 {
		t.Errorf("bad struct:\n%s", pretty.String(pair))
	}

	opt := items[1].(*Enum)
	var variants []string
	for _, v := range opt.Variants {
		variants = append(variants, fmt.Sprintf("%s/%d", v.Name.Name, len(v.Params)))
	}
	if diff := cmp.Diff([]string{"None/0", "Some/1"}, variants); diff != "" {
		t.Errorf("variants: (-want,+got)\n%s", diff)
	}

	u0 := items[2].(*Use)
	if u0.Path != "lib/list" || u0.As.Name != "l" || u0.Names != nil || u0.Pub {
		t.Errorf("bad use:\n%s", pretty.String(u0))
	}
	u1 := items[3].(*Use)
	var names []string
	for _, n := range u1.Names {
		names = append(names, n.Name)
	}
	if u1.Path != "lib/opt" || u1.As.Name != "opt" || !u1.Pub {
		t.Errorf("bad use:\n%s", pretty.String(u1))
	}
	if diff := cmp.Diff([]string{"Opt", "none"}, names); diff != "" {
		t.Errorf("use names: (-want,+got)\n%s", diff)
	}

	apply := items[4].(*Fn)
	var hints []string
	for _, prm := range apply.Params {
		hints = append(hints, HintString(prm.Hint))
	}
	hints = append(hints, HintString(apply.Ret))
	if diff := cmp.Diff([]string{"fn(T) -> R", "T", "R"}, hints); diff != "" {
		t.Errorf("apply hints: (-want,+got)\n%s", diff)
	}

	borrow := items[5].(*Fn)
	hints = nil
	for _, prm := range borrow.Params {
		hints = append(hints, HintString(prm.Hint))
	}
	if diff := cmp.Diff([]string{"&&mut i32", "l.List<&str>"}, hints); diff != "" {
		t.Errorf("borrow hints: (-want,+got)\n%s", diff)
	}
	if borrow.Ret != nil {
		t.Errorf("borrow.Ret=%v, want nil", borrow.Ret)
	}
}

func TestStatements(t *testing.T) {
	t.Parallel()
	const src = `
		fn f() {
			let mut x: i32 = 1;
			x += 2;
			while x < 10 { x = x + 1; }
			for i in 0..=9 { if i == 3 { continue; } else { break; } }
			if x > 3 { x -= 1; }
			let g = |a, b: i32| a + b;
			let h = || 5;
			return;
		}
	`
	p := NewParser("")
	if err := p.Parse("", strings.NewReader(src)); err != nil {
		t.Fatalf("failed to parse: %s", err)
	}
	body := p.Mod().Files[0].Items[0].(*Fn).Body
	var got []string
	for _, s := range body.Stmts {
		got = append(got, fmt.Sprintf("%T", s))
	}
	want := []string{
		"*ast.Let",
		"*ast.Assign",
		"*ast.While",
		"*ast.For",
		"*ast.ExprStmt",
		"*ast.Let",
		"*ast.Let",
		"*ast.Return",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("statements: (-want,+got)\n%s", diff)
	}
	if body.Tail != nil {
		t.Errorf("tail=%s, want nil", pretty.String(body.Tail))
	}

	let := body.Stmts[0].(*Let)
	if !let.Mut || let.Name.Name != "x" || HintString(let.Hint) != "i32" {
		t.Errorf("bad let:\n%s", pretty.String(let))
	}
	if op := body.Stmts[1].(*Assign).Op; op != AddEq {
		t.Errorf("assign op=%s, want +=", op)
	}
	if loop := body.Stmts[3].(*For); !loop.Inclusive || loop.Var.Name != "i" {
		t.Errorf("bad for:\n%s", pretty.String(loop))
	}
	g := body.Stmts[5].(*Let).Expr.(*Closure)
	if len(g.Params) != 2 || g.Params[0].Hint != nil || HintString(g.Params[1].Hint) != "i32" {
		t.Errorf("bad closure:\n%s", pretty.String(g))
	}
	if h := body.Stmts[6].(*Let).Expr.(*Closure); len(h.Params) != 0 {
		t.Errorf("bad closure:\n%s", pretty.String(h))
	}
	if r := body.Stmts[7].(*Return); r.Expr != nil {
		t.Errorf("bare return has an expression:\n%s", pretty.String(r))
	}
}

func TestLiterals(t *testing.T) {
	t.Parallel()
	const src = `fn f() { g(1_000, 2.5, 1.5e3, "a\tb", '\n', true, ()) }`
	p := NewParser("")
	if err := p.Parse("", strings.NewReader(src)); err != nil {
		t.Fatalf("failed to parse: %s", err)
	}
	call := p.Mod().Files[0].Items[0].(*Fn).Body.Tail.(*Call)
	type lit struct {
		Kind  LitKind
		Text  string
		Value string
	}
	var got []lit
	for _, a := range call.Args[:6] {
		l := a.(*Lit)
		got = append(got, lit{Kind: l.Kind, Text: l.Text, Value: l.Value})
	}
	want := []lit{
		{Kind: IntLit, Text: "1_000"},
		{Kind: FloatLit, Text: "2.5"},
		{Kind: FloatLit, Text: "1.5e3"},
		{Kind: StringLit, Text: `"a\tb"`, Value: "a\tb"},
		{Kind: CharLit, Text: `'\n'`, Value: "\n"},
		{Kind: BoolLit, Text: "true", Value: "true"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("literals: (-want,+got)\n%s", diff)
	}
	if _, ok := call.Args[6].(*UnitLit); !ok {
		t.Errorf("got %T, want *ast.UnitLit", call.Args[6])
	}
}

func TestExponentNeedsFraction(t *testing.T) {
	t.Parallel()
	for _, src := range []string{"fn f() { 2.0e-3 }", "fn f() { 1.5E+10 }"} {
		p := NewParser("")
		if err := p.Parse("", strings.NewReader(src)); err != nil {
			t.Errorf("failed to parse %q: %s", src, err)
			continue
		}
		if l := p.Mod().Files[0].Items[0].(*Fn).Body.Tail.(*Lit); l.Kind != FloatLit {
			t.Errorf("%q: got kind %v, want FloatLit", src, l.Kind)
		}
	}
	// 1e3 is the integer 1 followed by the identifier e3.
	p := NewParser("")
	if err := p.Parse("", strings.NewReader("fn f() { 1e3 }")); err == nil {
		t.Errorf("parsed 1e3, wanted an error")
	}
}

func TestRanges(t *testing.T) {
	t.Parallel()
	p := NewParser("test")
	if err := p.Parse("a.bit", strings.NewReader("fn a() {}\n")); err != nil {
		t.Fatalf("failed to parse: %s", err)
	}
	if err := p.Parse("b.bit", strings.NewReader("fn b() {\n\tx + y\n}\n")); err != nil {
		t.Fatalf("failed to parse: %s", err)
	}
	mod := p.Mod()
	tail := mod.Files[1].Items[0].(*Fn).Body.Tail
	if got := mod.Loc(tail).String(); got != "b.bit:2.2-2.7" {
		t.Errorf("tail loc=%s, want b.bit:2.2-2.7", got)
	}
	if got := mod.Locs.Snippet(tail.GetRange()); !strings.HasPrefix(got, "\tx + y\n") {
		t.Errorf("tail snippet=%q, want prefix %q", got, "\tx + y\n")
	}
	fa := mod.Files[0].Items[0]
	if got := mod.Loc(fa).String(); got != "a.bit:1.1-1.10" {
		t.Errorf("fn a loc=%s, want a.bit:1.1-1.10", got)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []string{
		"fn f() { let = 5; }",
		"fn f( { }",
		"struct S { x }",
		"fn f() { a b }",
		"use 1;",
		"fn f() { 'ab' }",
		`fn f() { "unterminated }`,
		"fn f() { for i in 0 { } }",
		"let x = 5;",
	}
	for _, src := range tests {
		p := NewParser("")
		err := p.Parse("bad.bit", strings.NewReader(src))
		if err == nil {
			t.Errorf("[%s]: parse succeeded, expected an error", src)
			continue
		}
		tr, ok := err.(interface{ Tree() *peg.Fail })
		if !ok || tr.Tree() == nil {
			t.Errorf("[%s]: error has no failure tree: %v", src, err)
		}
		if !strings.Contains(err.Error(), "bad.bit") {
			t.Errorf("[%s]: error %q does not name the file", src, err)
		}
	}
}

func TestParseUTF16(t *testing.T) {
	t.Parallel()
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	src, err := enc.String("fn héllo() -> i32 { 1 }")
	if err != nil {
		t.Fatalf("failed to encode: %s", err)
	}
	p := NewParser("")
	if err := p.Parse("", bytes.NewReader([]byte(src))); err != nil {
		t.Fatalf("failed to parse: %s", err)
	}
	if name := p.Mod().Files[0].Items[0].(*Fn).Name.Name; name != "héllo" {
		t.Errorf("got name %q, want héllo", name)
	}
}

func TestReadImports(t *testing.T) {
	t.Parallel()
	const src = `
		use a;
		use b/c as d;
		fn f() {}
		use a;
		pub use e for x, y;
	`
	got, err := ReadImports("", strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadImports failed: %s", err)
	}
	if diff := cmp.Diff([]string{"a", "b/c", "e"}, got); diff != "" {
		t.Errorf("ReadImports: (-want,+got)\n%s", diff)
	}
	if _, err := ReadImports("", strings.NewReader("use ;")); err == nil {
		t.Errorf("ReadImports succeeded, expected an error")
	}
}

// paren returns a fully-parenthesized string of an expression.
func paren(e Expr) string {
	switch e := e.(type) {
	case *Ident:
		if len(e.TypeArgs) == 0 {
			return e.Name
		}
		var args []string
		for _, a := range e.TypeArgs {
			args = append(args, HintString(a))
		}
		return e.Name + "::<" + strings.Join(args, ", ") + ">"
	case *Lit:
		return e.Text
	case *UnitLit:
		return "()"
	case *Unary:
		if e.Op == MutRef {
			return "(&mut " + paren(e.Expr) + ")"
		}
		return "(" + e.Op.String() + paren(e.Expr) + ")"
	case *Binary:
		return "(" + paren(e.Left) + " " + e.Op.String() + " " + paren(e.Right) + ")"
	case *Cast:
		return "(" + paren(e.Expr) + " as " + HintString(e.Hint) + ")"
	case *Select:
		return "(" + paren(e.Expr) + "." + e.Name.Name + ")"
	case *Call:
		var args []string
		for _, a := range e.Args {
			args = append(args, paren(a))
		}
		return paren(e.Fn) + "(" + strings.Join(args, ", ") + ")"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}
