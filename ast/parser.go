// Copyright © 2026 The Bit Authors under an MIT-style license.

package ast

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bitlang/bit/loc"
	"github.com/eaburns/peggy/peg"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// A Parser parses source code files.
type Parser struct {
	files []File
	mod   string
	locs  *loc.Files
}

// NewParser returns a new parser for the named module.
func NewParser(modPath string) *Parser {
	return &Parser{mod: modPath, locs: new(loc.Files)}
}

// Mod returns the module built from the parsed files.
func (p *Parser) Mod() *Mod {
	return &Mod{Path: p.mod, Files: p.files, Locs: p.locs}
}

// Parse parses a *File from an io.Reader.
// The first argument is the file path or "" if unspecified.
// The source may be UTF-8 or, if it begins with a byte order mark, UTF-16.
func (p *Parser) Parse(path string, r io.Reader) error {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return err
	}
	text := string(data)
	_p := &parser{text: text, offs: p.locs.Len()}
	file, fail := _p.parseFile()
	if fail != nil {
		return parseError{path: path, text: text, fail: fail}
	}
	file.Path = path
	p.files = append(p.files, *file)
	p.locs.Add(path, text)
	return nil
}

// ParseFile parses the source in the file specified by a path.
func (p *Parser) ParseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.Parse(path, f)
}

type parseError struct {
	path string
	text string
	fail *peg.Fail
}

func (err parseError) Tree() *peg.Fail { return err.fail }

func (err parseError) Error() string {
	e := peg.SimpleError(err.text, err.fail)
	e.FilePath = err.path
	return e.Error()
}

type parser struct {
	text string
	offs int
	toks []token
	i    int
	// rules is the stack of rules being parsed,
	// used to build the failure tree.
	rules []*peg.Fail
}

// bailout is panicked to abandon a parse on the first error.
type bailout struct{ fail *peg.Fail }

func (p *parser) parseFile() (file *File, fail *peg.Fail) {
	toks, lerr := lex(p.text)
	if lerr != nil {
		return nil, &peg.Fail{
			Name: "File",
			Kids: []*peg.Fail{{Pos: lerr.pos, Want: lerr.want}},
		}
	}
	p.toks = toks
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			file, fail = nil, b.fail
		}
	}()
	defer p.rule("File")()
	file = &File{}
	for p.peek().kind != tEOF {
		file.Items = append(file.Items, p.item())
	}
	return file, nil
}

// rule pushes a named rule for the failure tree.
// The returned func pops it.
func (p *parser) rule(name string) func() {
	p.rules = append(p.rules, &peg.Fail{Name: name, Pos: p.peek().start})
	return func() { p.rules = p.rules[:len(p.rules)-1] }
}

// fail abandons the parse at the current token.
func (p *parser) fail(wants ...string) {
	pos := p.peek().start
	var leaves []*peg.Fail
	for _, w := range wants {
		leaves = append(leaves, &peg.Fail{Pos: pos, Want: w})
	}
	var root *peg.Fail
	var parent *peg.Fail
	for _, r := range p.rules {
		f := &peg.Fail{Name: r.Name, Pos: r.Pos}
		if parent == nil {
			root = f
		} else {
			parent.Kids = []*peg.Fail{f}
		}
		parent = f
	}
	if parent == nil {
		root = &peg.Fail{Name: "File"}
		parent = root
	}
	parent.Kids = leaves
	panic(bailout{fail: root})
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) peekN(n int) token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tEOF {
		p.i++
	}
	return t
}

// prevEnd returns the end offset of the last consumed token.
func (p *parser) prevEnd() int {
	if p.i == 0 {
		return 0
	}
	return p.toks[p.i-1].end
}

// is returns whether the next token is the given keyword or punctuation.
func (p *parser) is(text string) bool {
	t := p.peek()
	return (t.kind == tKeyword || t.kind == tPunct) && t.text == text
}

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(text string) token {
	if !p.is(text) {
		p.fail(fmt.Sprintf("%q", text))
	}
	return p.next()
}

func (p *parser) ident() Ident {
	t := p.peek()
	if t.kind != tIdent {
		p.fail("identifier")
	}
	p.next()
	return Ident{Range: p.rng(t.start, t.end), Name: t.text}
}

func (p *parser) rng(start, end int) loc.Range {
	return loc.Range{start + p.offs, end + p.offs}
}

// from returns the range from start to the end of the last consumed token.
func (p *parser) from(start int) loc.Range {
	return p.rng(start, p.prevEnd())
}

func (p *parser) item() Item {
	defer p.rule("Item")()
	start := p.peek().start
	pub := p.accept("pub")
	switch {
	case p.is("struct"):
		return p.structItem(start, pub)
	case p.is("enum"):
		return p.enumItem(start, pub)
	case p.is("fn"):
		return p.fnItem(start, pub)
	case p.is("use"):
		return p.useItem(start, pub)
	}
	p.fail(`"struct"`, `"enum"`, `"fn"`, `"use"`)
	panic("impossible")
}

func (p *parser) structItem(start int, pub bool) *Struct {
	defer p.rule("Struct")()
	p.expect("struct")
	n := &Struct{Pub: pub, Name: p.ident()}
	n.Generics = p.genericParams()
	p.expect("{")
	for !p.is("}") {
		fstart := p.peek().start
		name := p.ident()
		p.expect(":")
		hint := p.typeHint()
		n.Fields = append(n.Fields, Field{Range: p.from(fstart), Name: name, Hint: hint})
		if !p.accept(",") {
			break
		}
	}
	p.expect("}")
	n.Range = p.from(start)
	return n
}

func (p *parser) enumItem(start int, pub bool) *Enum {
	defer p.rule("Enum")()
	p.expect("enum")
	n := &Enum{Pub: pub, Name: p.ident()}
	n.Generics = p.genericParams()
	p.expect("{")
	for !p.is("}") {
		vstart := p.peek().start
		v := Variant{Name: p.ident()}
		if p.accept("(") {
			v.Params = p.typeHintList(")")
		}
		v.Range = p.from(vstart)
		n.Variants = append(n.Variants, v)
		if !p.accept(",") {
			break
		}
	}
	p.expect("}")
	n.Range = p.from(start)
	return n
}

func (p *parser) fnItem(start int, pub bool) *Fn {
	defer p.rule("Fn")()
	p.expect("fn")
	n := &Fn{Pub: pub, Name: p.ident()}
	n.Generics = p.genericParams()
	p.expect("(")
	for !p.is(")") {
		pstart := p.peek().start
		name := p.ident()
		p.expect(":")
		hint := p.typeHint()
		n.Params = append(n.Params, Param{Range: p.from(pstart), Name: name, Hint: hint})
		if !p.accept(",") {
			break
		}
	}
	p.expect(")")
	if p.accept("->") {
		n.Ret = p.typeHint()
	}
	n.Body = p.block()
	n.Range = p.from(start)
	return n
}

func (p *parser) useItem(start int, pub bool) *Use {
	defer p.rule("Use")()
	p.expect("use")
	n := &Use{Pub: pub}
	var path strings.Builder
	last := p.ident()
	path.WriteString(last.Name)
	for p.accept("/") {
		last = p.ident()
		path.WriteRune('/')
		path.WriteString(last.Name)
	}
	n.Path = path.String()
	n.As = Ident{Range: last.Range, Name: last.Name}
	switch {
	case p.accept("as"):
		n.As = p.ident()
	case p.accept("for"):
		n.Names = append(n.Names, p.ident())
		for p.accept(",") {
			n.Names = append(n.Names, p.ident())
		}
	}
	p.accept(";")
	n.Range = p.from(start)
	return n
}

func (p *parser) genericParams() []Ident {
	if !p.accept("<") {
		return nil
	}
	var ids []Ident
	for !p.is(">") {
		ids = append(ids, p.ident())
		if !p.accept(",") {
			break
		}
	}
	p.expect(">")
	return ids
}

// typeHintList parses a comma-separated list of hints
// after its opening delimiter, through the closing delimiter.
func (p *parser) typeHintList(close string) []TypeHint {
	var hints []TypeHint
	for !p.is(close) {
		hints = append(hints, p.typeHint())
		if !p.accept(",") {
			break
		}
	}
	p.expect(close)
	return hints
}

func (p *parser) typeHint() TypeHint {
	defer p.rule("TypeHint")()
	start := p.peek().start
	switch {
	case p.accept("_"):
		return &InferHint{Range: p.from(start)}
	case p.accept("("):
		p.expect(")")
		return &UnitHint{Range: p.from(start)}
	case p.accept("&&"):
		mut := p.accept("mut")
		var elem TypeHint = p.typeHint()
		if mut {
			elem = &MutRefHint{Range: p.rng(start+1, p.prevEnd()), Elem: elem}
		} else {
			elem = &RefHint{Range: p.rng(start+1, p.prevEnd()), Elem: elem}
		}
		return &RefHint{Range: p.from(start), Elem: elem}
	case p.accept("&"):
		if p.accept("mut") {
			return &MutRefHint{Elem: p.typeHint(), Range: p.from(start)}
		}
		return &RefHint{Elem: p.typeHint(), Range: p.from(start)}
	case p.accept("fn"):
		p.expect("(")
		n := &FnHint{Params: p.typeHintList(")")}
		if p.accept("->") {
			n.Ret = p.typeHint()
		}
		n.Range = p.from(start)
		return n
	case p.peek().kind == tIdent:
		id := p.next()
		if p.accept(".") {
			name := p.ident()
			n := &ModuleHint{Mod: id.text, Name: name.Name}
			if p.accept("<") {
				n.Args = p.typeHintList(">")
			}
			n.Range = p.from(start)
			return n
		}
		n := &LocalHint{Name: id.text}
		if p.accept("<") {
			n.Args = p.typeHintList(">")
		}
		n.Range = p.from(start)
		return n
	}
	p.fail("type")
	panic("impossible")
}

func (p *parser) block() *Block {
	defer p.rule("Block")()
	start := p.expect("{").start
	n := &Block{}
	for !p.is("}") {
		stmt, tail := p.stmt()
		if tail != nil {
			n.Tail = tail
			break
		}
		n.Stmts = append(n.Stmts, stmt)
	}
	p.expect("}")
	n.Range = p.from(start)
	return n
}

// stmt parses a statement.
// If the statement is an expression that ends the block,
// it is returned as the second result instead.
func (p *parser) stmt() (Stmt, Expr) {
	defer p.rule("Stmt")()
	start := p.peek().start
	switch {
	case p.accept("let"):
		n := &Let{Mut: p.accept("mut"), Name: p.ident()}
		if p.accept(":") {
			n.Hint = p.typeHint()
		}
		p.expect("=")
		n.Expr = p.expr()
		p.expect(";")
		n.Range = p.from(start)
		return n, nil
	case p.accept("while"):
		n := &While{Cond: p.expr(), Body: p.block()}
		n.Range = p.from(start)
		return n, nil
	case p.accept("for"):
		n := &For{Var: p.ident()}
		p.expect("in")
		n.From = p.expr()
		switch {
		case p.accept(".."):
		case p.accept("..="):
			n.Inclusive = true
		default:
			p.fail(`".."`, `"..="`)
		}
		n.To = p.expr()
		n.Body = p.block()
		n.Range = p.from(start)
		return n, nil
	case p.accept("break"):
		p.expect(";")
		return &Break{Range: p.from(start)}, nil
	case p.accept("continue"):
		p.expect(";")
		return &Continue{Range: p.from(start)}, nil
	case p.accept("return"):
		n := &Return{}
		if !p.is(";") && !p.is("}") {
			n.Expr = p.expr()
		}
		p.accept(";")
		n.Range = p.from(start)
		return n, nil
	}
	e := p.expr()
	if op, ok := p.assignOp(); ok {
		n := &Assign{Op: op, Place: e, Expr: p.expr()}
		p.expect(";")
		n.Range = p.from(start)
		return n, nil
	}
	switch {
	case p.accept(";"):
		return &ExprStmt{Expr: e}, nil
	case p.is("}"):
		return nil, e
	case isBlockLike(e):
		return &ExprStmt{Expr: e}, nil
	}
	p.fail(`";"`, `"}"`)
	panic("impossible")
}

func isBlockLike(e Expr) bool {
	switch e.(type) {
	case *If, *Block:
		return true
	}
	return false
}

var assignOps = map[string]AssignOp{
	"=":  AssignEq,
	"+=": AddEq,
	"-=": SubEq,
	"*=": MulEq,
	"/=": DivEq,
	"%=": RemEq,
	"&=": AndEq,
	"|=": OrEq,
	"^=": XorEq,
}

func (p *parser) assignOp() (AssignOp, bool) {
	t := p.peek()
	if t.kind != tPunct {
		return 0, false
	}
	op, ok := assignOps[t.text]
	if ok {
		p.next()
	}
	return op, ok
}

// binOpLevels lists binary operators from lowest to highest precedence.
var binOpLevels = []map[string]BinOp{
	{"||": Or},
	{"&&": And},
	{"|": BitOr},
	{"^": Xor},
	{"&": BitAnd},
	{"==": Eq, "!=": Ne},
	{"<": Lt, "<=": Le, ">": Gt, ">=": Ge},
	{"<>": Concat},
	{"+": Add, "-": Sub},
	{"*": Mul, "/": Div, "%": Rem},
}

func (p *parser) expr() Expr {
	defer p.rule("Expr")()
	return p.binary(0)
}

func (p *parser) binary(level int) Expr {
	if level == len(binOpLevels) {
		return p.cast()
	}
	left := p.binary(level + 1)
	for {
		t := p.peek()
		op, ok := binOpLevels[level][t.text]
		if t.kind != tPunct || !ok {
			return left
		}
		p.next()
		right := p.binary(level + 1)
		left = &Binary{
			Range: left.GetRange().Join(right.GetRange()),
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

func (p *parser) cast() Expr {
	e := p.unary()
	for p.accept("as") {
		hint := p.typeHint()
		e = &Cast{Range: e.GetRange().Join(hint.GetRange()), Expr: e, Hint: hint}
	}
	return e
}

func (p *parser) unary() Expr {
	start := p.peek().start
	var op UnOp
	switch {
	case p.accept("-"):
		op = Neg
	case p.accept("!"):
		op = Not
	case p.accept("*"):
		op = Deref
	case p.accept("&&"):
		// && is two & operators.
		inner := Ref
		if p.accept("mut") {
			inner = MutRef
		}
		e := p.unary()
		e = &Unary{Range: p.rng(start+1, p.prevEnd()), Op: inner, Expr: e}
		return &Unary{Range: p.from(start), Op: Ref, Expr: e}
	case p.accept("&"):
		op = Ref
		if p.accept("mut") {
			op = MutRef
		}
	default:
		return p.postfix()
	}
	e := p.unary()
	return &Unary{Range: p.from(start), Op: op, Expr: e}
}

func (p *parser) postfix() Expr {
	e := p.atom()
	for {
		switch {
		case p.accept("("):
			var args []Expr
			for !p.is(")") {
				args = append(args, p.expr())
				if !p.accept(",") {
					break
				}
			}
			p.expect(")")
			e = &Call{Range: p.rng(e.GetRange()[0]-p.offs, p.prevEnd()), Fn: e, Args: args}
		case p.accept("."):
			name := p.ident()
			p.typeArgs(&name)
			e = &Select{Range: e.GetRange().Join(name.Range), Expr: e, Name: name}
		default:
			return e
		}
	}
}

func (p *parser) atom() Expr {
	defer p.rule("Atom")()
	t := p.peek()
	switch {
	case t.kind == tInt:
		p.next()
		return &Lit{Range: p.rng(t.start, t.end), Kind: IntLit, Text: t.text}
	case t.kind == tFloat:
		p.next()
		return &Lit{Range: p.rng(t.start, t.end), Kind: FloatLit, Text: t.text}
	case t.kind == tString:
		p.next()
		return &Lit{Range: p.rng(t.start, t.end), Kind: StringLit, Text: t.text, Value: t.val}
	case t.kind == tChar:
		p.next()
		return &Lit{Range: p.rng(t.start, t.end), Kind: CharLit, Text: t.text, Value: t.val}
	case p.is("true") || p.is("false"):
		p.next()
		return &Lit{Range: p.rng(t.start, t.end), Kind: BoolLit, Text: t.text, Value: t.text}
	case t.kind == tIdent:
		id := p.ident()
		p.typeArgs(&id)
		return &id
	case p.accept("("):
		if p.accept(")") {
			return &UnitLit{Range: p.from(t.start)}
		}
		e := p.expr()
		p.expect(")")
		return e
	case p.is("if"):
		return p.ifExpr()
	case p.is("{"):
		return p.block()
	case p.is("|") || p.is("||"):
		return p.closure()
	}
	p.fail("expression")
	panic("impossible")
}

// typeArgs parses explicit type arguments, ::<…>, following an identifier.
func (p *parser) typeArgs(id *Ident) {
	if !p.is("::") || p.peekN(1).text != "<" {
		return
	}
	p.next()
	p.next()
	id.TypeArgs = p.typeHintList(">")
	id.Range = loc.Range{id.Range[0], p.from(0)[1]}
}

func (p *parser) ifExpr() *If {
	defer p.rule("If")()
	start := p.expect("if").start
	n := &If{Cond: p.expr(), Then: p.block()}
	if p.accept("else") {
		if p.is("if") {
			n.Else = p.ifExpr()
		} else {
			n.Else = p.block()
		}
	}
	n.Range = p.from(start)
	return n
}

func (p *parser) closure() *Closure {
	defer p.rule("Closure")()
	start := p.peek().start
	n := &Closure{}
	if !p.accept("||") {
		p.expect("|")
		for !p.is("|") {
			pstart := p.peek().start
			prm := Param{Name: p.ident()}
			if p.accept(":") {
				prm.Hint = p.typeHint()
			}
			prm.Range = p.from(pstart)
			n.Params = append(n.Params, prm)
			if !p.accept(",") {
				break
			}
		}
		p.expect("|")
	}
	n.Body = p.expr()
	n.Range = p.from(start)
	return n
}
