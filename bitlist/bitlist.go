// Copyright © 2026 The Bit Authors under an MIT-style license.

// The bitlist command lists the modules of the bit package
// in the given directory in topological order, dependencies first.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bitlang/bit/mod"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if len(flag.Args()) != 1 {
		usage()
		os.Exit(1)
	}
	paths, err := list(flag.Args()[0])
	if err != nil {
		die(err)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
}

// list returns the paths of the modules of the package at root,
// dependencies before their dependants.
func list(root string) ([]string, error) {
	pkg, err := mod.New(root)
	if err != nil {
		return nil, err
	}
	mods, err := pkg.All()
	if err != nil {
		return nil, err
	}
	sorted, err := mod.Order(mods...)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, m := range sorted {
		paths = append(paths, m.Path)
	}
	return paths, nil
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(out, "%s <directory>\n", os.Args[0])
	flag.PrintDefaults()
}

func die(err error) {
	fmt.Fprintln(flag.CommandLine.Output(), err)
	os.Exit(1)
}
