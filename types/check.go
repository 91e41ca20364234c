// Copyright © 2026 The Bit Authors under an MIT-style license.

package types

import (
	"fmt"

	"github.com/bitlang/bit/ast"
)

// Check type-checks an AST and returns the type-checked tree or errors.
func Check(astMod *ast.Mod, cfg Config) (*Mod, []error) {
	x := newState(cfg, astMod)
	mod, errs := check(x)
	if len(errs) > 0 {
		return nil, convertErrors(errs)
	}
	return mod, nil
}

type adtItem struct {
	ast ast.Item
	id  AdtID
}

type fnItem struct {
	ast *ast.Fn
	id  FnID
}

func check(x *state) (_ *Mod, errs []checkError) {
	defer x.tr("check(%s)", x.astMod.Path)(&errs)

	x.mod = &Mod{
		AST:     x.astMod,
		Path:    x.astMod.Path,
		Defs:    x.cfg.Defs,
		Exports: make(map[string]Def),
	}
	adts, fns, es := early(x)
	errs = append(errs, es...)
	for _, item := range adts {
		errs = append(errs, lateAdt(x, item)...)
	}
	for _, item := range fns {
		errs = append(errs, lateFnSig(x, item)...)
	}
	for _, item := range fns {
		fun, es := checkFnBody(x, item)
		errs = append(errs, es...)
		x.mod.Fns = append(x.mod.Fns, fun)
	}
	return x.mod, errs
}

// early registers a shell for every item and imports every use,
// before any annotation or body is looked at.
func early(x *state) (adts []adtItem, fns []fnItem, errs []checkError) {
	defer x.tr("early")(&errs)
	for i := range x.astMod.Files {
		for _, item := range x.astMod.Files[i].Items {
			switch item := item.(type) {
			case *ast.Use:
				errs = append(errs, use(x, item)...)
			case *ast.Struct:
				id := x.cx.defs.newAdt(AdtDef{
					Loc:      x.loc(item),
					Mod:      x.mod.Path,
					Name:     item.Name.Name,
					Pub:      item.Pub,
					Kind:     StructKind,
					Generics: identNames(item.Generics),
				})
				if err := defineDef(x, item.Name, id); err != nil {
					errs = append(errs, *err)
					continue
				}
				errs = append(errs, checkGenericDups(x, item.Generics)...)
				adts = append(adts, adtItem{ast: item, id: id})
				x.mod.Adts = append(x.mod.Adts, id)
				if item.Pub {
					x.mod.Exports[item.Name.Name] = id
				}
			case *ast.Enum:
				id := x.cx.defs.newAdt(AdtDef{
					Loc:      x.loc(item),
					Mod:      x.mod.Path,
					Name:     item.Name.Name,
					Pub:      item.Pub,
					Kind:     EnumKind,
					Generics: identNames(item.Generics),
				})
				if err := defineDef(x, item.Name, id); err != nil {
					errs = append(errs, *err)
					continue
				}
				errs = append(errs, checkGenericDups(x, item.Generics)...)
				adts = append(adts, adtItem{ast: item, id: id})
				x.mod.Adts = append(x.mod.Adts, id)
				if item.Pub {
					x.mod.Exports[item.Name.Name] = id
				}
			case *ast.Fn:
				id := x.cx.defs.newFn(FnDef{
					Loc:      x.loc(item),
					Mod:      x.mod.Path,
					Name:     item.Name.Name,
					Pub:      item.Pub,
					Generics: identNames(item.Generics),
					Ret:      Unit{},
				})
				if err := defineDef(x, item.Name, id); err != nil {
					errs = append(errs, *err)
					continue
				}
				errs = append(errs, checkGenericDups(x, item.Generics)...)
				fns = append(fns, fnItem{ast: item, id: id})
				if item.Pub {
					x.mod.Exports[item.Name.Name] = id
				}
			default:
				panic(fmt.Sprintf("impossible type %T", item))
			}
		}
	}
	return adts, fns, errs
}

func identNames(ids []ast.Ident) []string {
	var names []string
	for _, id := range ids {
		names = append(names, id.Name)
	}
	return names
}

func defineDef(x *state, name ast.Ident, d Def) *checkError {
	if x.res.defineDef(name.Name, d) {
		return nil
	}
	err := x.err(name, "%s redefined", name.Name)
	if l, ok := defLoc(x, x.res.defs[name.Name]); ok {
		note(err, "previous definition is at %s", l)
	}
	return err
}

func defLoc(x *state, d Def) (string, bool) {
	switch d := d.(type) {
	case AdtID:
		return x.cx.defs.Adt(d).Loc.String(), true
	case FnID:
		return x.cx.defs.Fn(d).Loc.String(), true
	}
	return "", false
}

// checkGenericDups checks that type parameter names are unique
// and are not built-in type names.
func checkGenericDups(x *state, generics []ast.Ident) []checkError {
	var errs []checkError
	for _, g := range generics {
		if _, ok := primitives[g.Name]; ok {
			errs = append(errs, *x.err(g, "type parameter %s shadows a built-in type", g.Name))
		}
	}
	for _, i := range duplicates(identNames(generics)) {
		errs = append(errs, *x.err(generics[i], "type parameter %s redefined", generics[i].Name))
	}
	return errs
}

func use(x *state, u *ast.Use) (errs []checkError) {
	defer x.tr("use(%s)", u.Path)(&errs)
	m, err := x.cfg.Importer.Import(x.cfg, u.Path)
	if err != nil {
		return []checkError{*x.err(u, "%s", err.Error())}
	}
	if u.Names == nil {
		if !x.res.defineImport(u.As.Name, m) {
			errs = append(errs, *x.err(u.As, "%s redefined", u.As.Name))
		}
		return errs
	}
	for _, name := range u.Names {
		d, ok := m.Exports[name.Name]
		if !ok {
			errs = append(errs, *x.err(name, "%s not exported by %s", name.Name, m.Path))
			continue
		}
		if err := defineDef(x, name, d); err != nil {
			errs = append(errs, *err)
			continue
		}
		if u.Pub {
			x.mod.Exports[name.Name] = d
		}
	}
	return errs
}

// lateAdt resolves the fields or variants of a struct or enum
// and replaces its shell.
func lateAdt(x *state, item adtItem) (errs []checkError) {
	def := *x.cx.defs.Adt(item.id)
	defer x.tr("lateAdt(%s)", def.Name)(&errs)
	x.cx.generics.push(def.Generics)
	defer x.cx.generics.pop()

	switch n := item.ast.(type) {
	case *ast.Struct:
		var names []string
		def.Fields = nil
		for _, f := range n.Fields {
			t, es := resolveHint(x, f.Hint, false)
			errs = append(errs, es...)
			def.Fields = append(def.Fields, FieldDef{Name: f.Name.Name, Ty: t})
			names = append(names, f.Name.Name)
		}
		for _, i := range duplicates(names) {
			errs = append(errs, *x.err(n.Fields[i].Name, "field %s redefined", names[i]))
		}
	case *ast.Enum:
		var names []string
		def.Variants = nil
		for _, v := range n.Variants {
			var params []Ty
			for _, h := range v.Params {
				t, es := resolveHint(x, h, false)
				errs = append(errs, es...)
				params = append(params, t)
			}
			def.Variants = append(def.Variants, VariantDef{Name: v.Name.Name, Params: params})
			names = append(names, v.Name.Name)
		}
		for _, i := range duplicates(names) {
			errs = append(errs, *x.err(n.Variants[i].Name, "variant %s redefined", names[i]))
		}
	default:
		panic(fmt.Sprintf("impossible type %T", item.ast))
	}
	x.cx.defs.setAdt(item.id, def)
	return errs
}

// lateFnSig resolves the parameter and return types of a function
// and replaces its shell.
func lateFnSig(x *state, item fnItem) (errs []checkError) {
	def := *x.cx.defs.Fn(item.id)
	defer x.tr("lateFnSig(%s)", def.Name)(&errs)
	x.cx.generics.push(def.Generics)
	defer x.cx.generics.pop()

	var names []string
	def.Params = nil
	for _, p := range item.ast.Params {
		t, es := resolveHint(x, p.Hint, false)
		errs = append(errs, es...)
		def.Params = append(def.Params, ParamDef{Name: p.Name.Name, Ty: t})
		names = append(names, p.Name.Name)
	}
	for _, i := range duplicates(names) {
		errs = append(errs, *x.err(item.ast.Params[i].Name, "parameter %s redefined", names[i]))
	}
	def.Ret = Unit{}
	if item.ast.Ret != nil {
		t, es := resolveHint(x, item.ast.Ret, false)
		errs = append(errs, es...)
		def.Ret = t
	}
	x.cx.defs.setFn(item.id, def)
	return errs
}

// resolveHint returns the type of a hint.
// If infer is false, _ is an error; otherwise it is a fresh variable.
func resolveHint(x *state, h ast.TypeHint, infer bool) (_ Ty, errs []checkError) {
	defer x.tr("resolveHint(%s)", ast.HintString(h))(&errs)
	switch h := h.(type) {
	case nil:
		bug(h, "nil hint")
		panic("impossible")
	case *ast.InferHint:
		if !infer {
			return Error{}, []checkError{*x.err(h, "_ is not allowed in a declaration")}
		}
		return x.cx.fresh(), nil
	case *ast.UnitHint:
		return Unit{}, nil
	case *ast.RefHint:
		t, es := resolveHint(x, h.Elem, infer)
		return Ref{Elem: t}, es
	case *ast.MutRefHint:
		t, es := resolveHint(x, h.Elem, infer)
		return MutRef{Elem: t}, es
	case *ast.FnHint:
		var params []Ty
		for _, p := range h.Params {
			t, es := resolveHint(x, p, infer)
			errs = append(errs, es...)
			params = append(params, t)
		}
		var ret Ty = Unit{}
		if h.Ret != nil {
			t, es := resolveHint(x, h.Ret, infer)
			errs = append(errs, es...)
			ret = t
		}
		return FnRef{Params: params, Ret: ret}, errs
	case *ast.LocalHint:
		if t, ok := primitives[h.Name]; ok {
			if len(h.Args) > 0 {
				return Error{}, []checkError{*x.err(h, "%s does not take type arguments", h.Name)}
			}
			return t, nil
		}
		if i, ok := x.cx.generics.lookup(h.Name); ok {
			if len(h.Args) > 0 {
				return Error{}, []checkError{*x.err(h, "%s does not take type arguments", h.Name)}
			}
			return Generic{Index: i}, nil
		}
		d, ok := x.res.defs[h.Name]
		if !ok {
			return Error{}, []checkError{*x.err(h, "type %s undefined", h.Name)}
		}
		return resolveAdtHint(x, h, h.Name, d, h.Args, infer)
	case *ast.ModuleHint:
		m, ok := x.res.imports[h.Mod]
		if !ok {
			return Error{}, []checkError{*x.err(h, "module %s undefined", h.Mod)}
		}
		d, ok := m.Exports[h.Name]
		if !ok {
			return Error{}, []checkError{*x.err(h, "type %s.%s undefined", h.Mod, h.Name)}
		}
		return resolveAdtHint(x, h, h.Mod+"."+h.Name, d, h.Args, infer)
	default:
		panic(fmt.Sprintf("impossible type %T", h))
	}
}

func resolveAdtHint(x *state, h ast.TypeHint, name string, d Def, hargs []ast.TypeHint, infer bool) (Ty, []checkError) {
	id, ok := d.(AdtID)
	if !ok {
		return Error{}, []checkError{*x.err(h, "%s is not a type", name)}
	}
	def := x.cx.defs.Adt(id)
	if len(hargs) != len(def.Generics) {
		err := x.err(h, "%s expects %d type arguments, got %d", name, len(def.Generics), len(hargs))
		note(err, "%s is defined at %s", name, def.Loc)
		return Error{}, []checkError{*err}
	}
	var errs []checkError
	var args []Ty
	for _, a := range hargs {
		t, es := resolveHint(x, a, infer)
		errs = append(errs, es...)
		args = append(args, t)
	}
	return Adt{ID: id, Args: args}, errs
}
