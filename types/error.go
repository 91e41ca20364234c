// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/bitlang/bit/loc"
	"github.com/davecgh/go-spew/spew"
)

// A checkError is a diagnostic reported by the checker.
type checkError struct {
	loc   loc.Loc
	msg   string
	notes []string
	// snippet is the source line of the error, underlined.
	snippet string
	// terr is the unification failure that caused the error, if any.
	terr *TypeError
}

func note(err *checkError, f string, vs ...interface{}) {
	err.notes = append(err.notes, fmt.Sprintf(f, vs...))
}

// Error returns the location and message of the error
// followed by its notes and source snippet, each line indented.
func (err *checkError) Error() string {
	var s strings.Builder
	fmt.Fprintf(&s, "%s: %s", err.loc, err.msg)
	for _, n := range err.notes {
		s.WriteString("\n\t")
		s.WriteString(n)
	}
	if err.snippet != "" {
		for _, line := range strings.Split(err.snippet, "\n") {
			s.WriteString("\n\t")
			s.WriteString(line)
		}
	}
	return s.String()
}

// Unwrap returns the *TypeError that caused the error,
// so callers can recover its kind with errors.As.
func (err *checkError) Unwrap() error {
	if err.terr == nil {
		return nil
	}
	return err.terr
}

// convertErrors returns the errors ordered by location,
// dropping repeats of the same message at the same location.
func convertErrors(cerrs []checkError) []error {
	slices.SortStableFunc(cerrs, func(a, b checkError) int {
		return cmp.Or(
			cmp.Compare(a.loc.Path, b.loc.Path),
			cmp.Compare(a.loc.Line[0], b.loc.Line[0]),
			cmp.Compare(a.loc.Col[0], b.loc.Col[0]),
		)
	})
	cerrs = slices.CompactFunc(cerrs, func(a, b checkError) bool {
		return a.loc == b.loc && a.msg == b.msg
	})
	var errs []error
	for i := range cerrs {
		errs = append(errs, &cerrs[i])
	}
	return errs
}

// bug panics on a violated engine invariant.
// These are never user errors.
func bug(v interface{}, msg string) {
	panic(fmt.Sprintf("bug: %s\n%s", msg, spew.Sdump(v)))
}
