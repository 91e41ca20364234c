// Copyright © 2026 The Bit Authors under an MIT-style license.

// Bitc type checks bit modules.
//
// Given the path of a module in the package at -root,
// it loads the module's dependencies,
// checks them in dependency order, and reports errors.
// Without a module path, it checks the package's main module.
// With -i, it starts an interactive session instead.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bitlang/bit/ast"
	"github.com/bitlang/bit/mod"
	"github.com/bitlang/bit/types"
	"github.com/eaburns/peggy/peg"
	"github.com/eaburns/pretty"
)

var (
	modRoot    = flag.String("root", ".", "root directory of the package")
	configFile = flag.String("config", "bit.yml", "configuration file")
	intBits    = flag.Int("int", 64, "bit size of unconstrained integer literals")
	floatBits  = flag.Int("float", 64, "bit size of unconstrained float literals")
	trace      = flag.Bool("trace", false, "trace the type checker")
	parseOnly  = flag.Bool("parse", false, "print the syntax tree and stop")
	dump       = flag.Bool("dump", false, "print the checked definitions in full")
	verbose    = flag.Bool("v", false, "print the checked signatures")
	interact   = flag.Bool("i", false, "start an interactive session")
)

func main() {
	pretty.Indent = "    "
	flag.Usage = usage
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	fileCfg, err := loadConfig(*configFile, set["config"])
	if err != nil {
		die("failed to read config", err)
	}
	cfg := fileCfg.override(set, *modRoot, *intBits, *floatBits, *trace)

	if *interact {
		os.Exit(repl(cfg))
	}
	modPath := mod.MainPath
	switch len(flag.Args()) {
	case 0:
	case 1:
		modPath = flag.Args()[0]
	default:
		usage()
		os.Exit(1)
	}
	pkg, err := mod.New(cfg.Root)
	if err != nil {
		die("failed to open package", err)
	}
	root, err := pkg.Resolve(modPath)
	if err != nil {
		die("failed to load module", err)
	}
	if *parseOnly {
		printAST(parse(root))
		return
	}
	if err := pkg.Link(root); err != nil {
		die("failed to load dependencies", err)
	}
	mods, err := mod.Order(root)
	if err != nil {
		die("failed to load dependencies", err)
	}

	defs := types.NewDefs()
	cache := &types.Cache{Fallback: &types.SourceImporter{Root: cfg.Root}}
	for _, m := range mods {
		checked := check(parse(m), types.Config{
			IntBits:   cfg.IntBits,
			FloatBits: cfg.FloatBits,
			Importer:  cache,
			Defs:      defs,
			Trace:     cfg.Trace && m == root,
		})
		if cache.Mods == nil {
			cache.Mods = make(map[string]*types.Mod)
		}
		cache.Mods[m.Path] = checked
		if m == root {
			printDefs(checked)
		}
	}
}

func parse(m *mod.Mod) *ast.Mod {
	p := ast.NewParser(m.Path)
	for _, srcFile := range m.Files {
		if err := p.ParseFile(srcFile); err != nil {
			die("", err)
		}
	}
	return p.Mod()
}

func check(astMod *ast.Mod, cfg types.Config) *types.Mod {
	typesMod, errs := types.Check(astMod, cfg)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(flag.CommandLine.Output(), err)
		}
		os.Exit(1)
	}
	return typesMod
}

func printAST(m *ast.Mod) {
	for _, f := range m.Files {
		for _, item := range f.Items {
			fmt.Println(m.Loc(item))
			pretty.Print(item)
			fmt.Println("")
		}
	}
}

func printDefs(m *types.Mod) {
	if !*verbose && !*dump {
		return
	}
	for _, id := range m.Adts {
		fmt.Println(types.AdtString(m.Defs, id))
		if *dump {
			pretty.Print(m.Defs.Adt(id))
			fmt.Println("")
		}
	}
	for _, f := range m.Fns {
		fmt.Println(types.FnString(m.Defs, f.ID))
		if *dump {
			pretty.Print(m.Defs.Fn(f.ID))
			fmt.Println("")
		}
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(out, "%s [flags] [module path]\n", os.Args[0])
	fmt.Fprintf(out, "%s -i [flags]\n", os.Args[0])
	flag.PrintDefaults()
}

func die(s string, err error) {
	out := flag.CommandLine.Output()
	if pe, ok := err.(interface{ Tree() *peg.Fail }); ok && *verbose {
		peg.PrettyWrite(out, pe.Tree())
		fmt.Fprintln(out, "")
	}
	if s == "" {
		fmt.Fprintln(out, err)
	} else {
		fmt.Fprintf(out, "%s: %s\n", s, err)
	}
	os.Exit(1)
}
