// Copyright © 2026 The Bit Authors under an MIT-style license.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitlang/bit/ast"
	"github.com/bitlang/bit/types"
	"github.com/peterh/liner"
)

const (
	replModPath = "#repl"
	replFile    = "<repl>"
	exprFn      = "__expr"
	historyFile = ".bit_history"
)

// A session is the state of an interactive session:
// the items entered so far.
// Each input is checked along with them into a new definition store,
// so rejected inputs leave nothing behind.
type session struct {
	cfg   config
	items []string
}

func newSession(cfg config) *session {
	return &session{cfg: cfg}
}

// eval checks an item or an expression in the context of the session.
// An item that checks is added to the session,
// and eval returns its signature.
// For an expression, eval returns its type.
func (s *session) eval(input string) (string, error) {
	input = strings.TrimSpace(input)
	if isItem(input) {
		m, err := s.check(append(s.items, input))
		if err != nil {
			return "", err
		}
		s.items = append(s.items, input)
		return lastSignature(m, input), nil
	}
	wrapped := fmt.Sprintf("fn %s() { let it = (%s); }", exprFn, input)
	m, err := s.check(append(s.items[:len(s.items):len(s.items)], wrapped))
	if err != nil {
		return "", err
	}
	for _, f := range m.Fns {
		if m.Defs.Fn(f.ID).Name != exprFn {
			continue
		}
		let, ok := f.Body.Stmts[0].(*types.Let)
		if !ok {
			break
		}
		return types.TyString(m.Defs, nil, let.Local.Ty), nil
	}
	return "", errors.New("expression not found")
}

func (s *session) check(items []string) (*types.Mod, error) {
	p := ast.NewParser(replModPath)
	if err := p.Parse(replFile, strings.NewReader(strings.Join(items, "\n"))); err != nil {
		return nil, err
	}
	m, errs := types.Check(p.Mod(), types.Config{
		IntBits:   s.cfg.IntBits,
		FloatBits: s.cfg.FloatBits,
		Importer:  &types.Cache{Fallback: &types.SourceImporter{Root: s.cfg.Root}},
		Defs:      types.NewDefs(),
		Trace:     s.cfg.Trace,
	})
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

func isItem(input string) bool {
	word := input
	if i := strings.IndexAny(input, " \t\n<({"); i >= 0 {
		word = input[:i]
	}
	switch word {
	case "fn", "struct", "enum", "use", "pub":
		return true
	}
	return false
}

// lastSignature returns the signature of the last definition of m,
// which is the one most recently entered.
func lastSignature(m *types.Mod, input string) string {
	item := strings.TrimPrefix(input, "pub ")
	switch {
	case strings.HasPrefix(item, "fn") && len(m.Fns) > 0:
		return types.FnString(m.Defs, m.Fns[len(m.Fns)-1].ID)
	case (strings.HasPrefix(item, "struct") || strings.HasPrefix(item, "enum")) && len(m.Adts) > 0:
		return types.AdtString(m.Defs, m.Adts[len(m.Adts)-1])
	}
	return ""
}

// balanced returns whether every bracket opened in src is closed.
func balanced(src string) bool {
	depth := 0
	var quote rune
	escaped := false
	for _, r := range src {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '{' || r == '[':
			depth++
		case r == ')' || r == '}' || r == ']':
			depth--
		}
	}
	return depth <= 0
}

func repl(cfg config) int {
	s := newSession(cfg)
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}

	for {
		input, ok := readInput(ln)
		if !ok {
			fmt.Println()
			break
		}
		switch strings.TrimSpace(input) {
		case "":
			continue
		case ":quit", ":q":
			return saveHistory(ln, histPath)
		case ":reset":
			s = newSession(cfg)
			continue
		case ":items":
			for _, item := range s.items {
				fmt.Println(item)
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		out, err := s.eval(input)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
	return saveHistory(ln, histPath)
}

// readInput reads lines until their brackets balance.
func readInput(ln *liner.State) (string, bool) {
	var lines []string
	prompt := "bit> "
	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			if len(lines) > 0 && errors.Is(err, liner.ErrPromptAborted) {
				return "", true
			}
			return "", false
		}
		lines = append(lines, line)
		src := strings.Join(lines, "\n")
		if balanced(src) {
			return src, true
		}
		prompt = "...  "
	}
}

func saveHistory(ln *liner.State, path string) int {
	if path == "" {
		return 0
	}
	f, err := os.Create(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	ln.WriteHistory(f)
	return 0
}
