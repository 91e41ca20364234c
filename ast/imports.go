// Copyright © 2026 The Bit Authors under an MIT-style license.

package ast

import "io"

// ReadImports returns the paths of all use items
// in the source given by an io.Reader.
func ReadImports(path string, r io.Reader) ([]string, error) {
	p := NewParser("")
	if err := p.Parse(path, r); err != nil {
		return nil, err
	}
	var paths []string
	seen := make(map[string]bool)
	for _, f := range p.Mod().Files {
		for _, item := range f.Items {
			u, ok := item.(*Use)
			if !ok || seen[u.Path] {
				continue
			}
			seen[u.Path] = true
			paths = append(paths, u.Path)
		}
	}
	return paths, nil
}
