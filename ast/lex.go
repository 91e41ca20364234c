// Copyright © 2026 The Bit Authors under an MIT-style license.

package ast

import (
	"strings"
	"unicode"

	"github.com/eaburns/peggy/peg"
)

type tokKind int

const (
	tEOF tokKind = iota
	tIdent
	tKeyword
	tPunct
	tInt
	tFloat
	tString
	tChar
)

type token struct {
	kind       tokKind
	text       string
	start, end int
	// val is the decoded value of string and char tokens.
	val string
}

var keywords = map[string]bool{
	"use":      true,
	"for":      true,
	"while":    true,
	"in":       true,
	"let":      true,
	"struct":   true,
	"enum":     true,
	"if":       true,
	"else":     true,
	"return":   true,
	"continue": true,
	"break":    true,
	"as":       true,
	"fn":       true,
	"mut":      true,
	"pub":      true,
	"true":     true,
	"false":    true,
}

// puncts is ordered longest first, so the first match is the longest.
var puncts = []string{
	"..=", "::",
	"->", "..", "==", "!=", "<=", ">=", "&&", "||", "<>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"(", ")", "{", "}", "[", "]", "<", ">", ",", ".", ":", ";",
	"+", "-", "*", "/", "%", "^", "&", "|", "!", "=", "_",
}

// lexError is a lexical error at a byte offset of the source text.
type lexError struct {
	pos  int
	want string
}

func lex(text string) ([]token, *lexError) {
	var toks []token
	pos := 0
	for {
		pos = skipSpace(text, pos)
		if pos >= len(text) {
			toks = append(toks, token{kind: tEOF, start: pos, end: pos})
			return toks, nil
		}
		tok, err := lex1(text, pos)
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		pos = tok.end
	}
}

func skipSpace(text string, pos int) int {
	for pos < len(text) {
		switch r, w := peg.DecodeRuneInString(text[pos:]); {
		case unicode.IsSpace(r):
			pos += w
		case strings.HasPrefix(text[pos:], "//"):
			nl := strings.IndexByte(text[pos:], '\n')
			if nl < 0 {
				return len(text)
			}
			pos += nl + 1
		case strings.HasPrefix(text[pos:], "/*"):
			end := strings.Index(text[pos+2:], "*/")
			if end < 0 {
				return len(text)
			}
			pos += end + 4
		default:
			return pos
		}
	}
	return pos
}

func lex1(text string, start int) (token, *lexError) {
	r, w := peg.DecodeRuneInString(text[start:])
	switch {
	case r == '_' && !isIdentRune(peekRune(text, start+w)):
		return token{kind: tPunct, text: "_", start: start, end: start + w}, nil
	case unicode.IsLetter(r) || r == '_':
		end := start + w
		for end < len(text) {
			r, w := peg.DecodeRuneInString(text[end:])
			if !isIdentRune(r) {
				break
			}
			end += w
		}
		kind := tIdent
		if keywords[text[start:end]] {
			kind = tKeyword
		}
		return token{kind: kind, text: text[start:end], start: start, end: end}, nil
	case r >= '0' && r <= '9':
		return lexNumber(text, start), nil
	case r == '"':
		return lexQuoted(text, start, '"', tString)
	case r == '\'':
		return lexQuoted(text, start, '\'', tChar)
	}
	for _, p := range puncts {
		if strings.HasPrefix(text[start:], p) {
			return token{kind: tPunct, text: p, start: start, end: start + len(p)}, nil
		}
	}
	return token{}, &lexError{pos: start, want: "token"}
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func peekRune(text string, pos int) rune {
	if pos >= len(text) {
		return -1
	}
	r, _ := peg.DecodeRuneInString(text[pos:])
	return r
}

// lexNumber lexes an integer or a float.
// A float has a '.' followed by a digit;
// so 1..5 is 1, .., 5.
func lexNumber(text string, start int) token {
	end := start
	digits := func() {
		for end < len(text) && (isDigit(text[end]) || text[end] == '_') {
			end++
		}
	}
	digits()
	kind := tInt
	if end+1 < len(text) && text[end] == '.' && isDigit(text[end+1]) {
		kind = tFloat
		end++
		digits()
	}
	// Only a number with a fraction is a float, so an exponent follows one.
	if kind == tFloat && end < len(text) && (text[end] == 'e' || text[end] == 'E') {
		e := end + 1
		if e < len(text) && (text[e] == '+' || text[e] == '-') {
			e++
		}
		if e < len(text) && isDigit(text[e]) {
			kind = tFloat
			end = e
			digits()
		}
	}
	return token{kind: kind, text: text[start:end], start: start, end: end}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lexQuoted(text string, start int, q rune, kind tokKind) (token, *lexError) {
	var val strings.Builder
	pos := start + 1
	for {
		if pos >= len(text) {
			return token{}, &lexError{pos: pos, want: string(q)}
		}
		r, w := peg.DecodeRuneInString(text[pos:])
		switch r {
		case q:
			pos += w
			tok := token{kind: kind, text: text[start:pos], start: start, end: pos, val: val.String()}
			if kind == tChar && len([]rune(tok.val)) != 1 {
				return token{}, &lexError{pos: start, want: "one character"}
			}
			return tok, nil
		case '\n':
			return token{}, &lexError{pos: pos, want: string(q)}
		case '\\':
			pos += w
			if pos >= len(text) {
				return token{}, &lexError{pos: pos, want: "escape"}
			}
			e, ew := peg.DecodeRuneInString(text[pos:])
			c, ok := escapes[e]
			if !ok {
				return token{}, &lexError{pos: pos, want: `one of n t r 0 \ ' "`}
			}
			val.WriteRune(c)
			pos += ew
		default:
			val.WriteRune(r)
			pos += w
		}
	}
}

var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}
