// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import "github.com/hashicorp/go-set/v3"

// genericsCx is the stack of generic parameter lists
// of the declarations being checked.
type genericsCx struct {
	scopes [][]string
}

func (g *genericsCx) push(names []string) { g.scopes = append(g.scopes, names) }

func (g *genericsCx) pop() {
	if len(g.scopes) == 0 {
		bug(nil, "pop of empty generics stack")
	}
	g.scopes = g.scopes[:len(g.scopes)-1]
}

func (g *genericsCx) top() []string {
	if len(g.scopes) == 0 {
		bug(nil, "no generics scope")
	}
	return g.scopes[len(g.scopes)-1]
}

// active returns whether any generics scope is pushed.
func (g *genericsCx) active() bool { return len(g.scopes) > 0 }

// lookup returns the index of a name in the top scope.
func (g *genericsCx) lookup(name string) (int, bool) {
	if !g.active() {
		return 0, false
	}
	for i, n := range g.top() {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// isRigid returns whether Generic(i) is a parameter of the top scope.
func (g *genericsCx) isRigid(i int) bool { return i >= 0 && i < len(g.top()) }

func (g *genericsCx) name(i int) string {
	if !g.isRigid(i) {
		bug(i, "generic index out of scope")
	}
	return g.top()[i]
}

// duplicates returns the indices of names that repeat an earlier name.
func duplicates(names []string) []int {
	seen := set.New[string](len(names))
	var dups []int
	for i, n := range names {
		if !seen.Insert(n) {
			dups = append(dups, i)
		}
	}
	return dups
}
