package main

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Collector turns Go packages into a declaration stream: structs become
// structs, interfaces become traits, a type's methods become an inherent
// impl block and every satisfied project interface becomes a trait impl.
type Collector struct {
	RootModule string
	Logger     *slog.Logger

	ifaces []goInterface
}

type goInterface struct {
	name string
	typ  *types.Interface
}

// NewCollector creates a Collector scoped to the given root module path.
func NewCollector(rootModule string, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{RootModule: rootModule, Logger: logger}
}

// isProjectPackage reports whether pkgPath belongs to the analysed module.
func (c *Collector) isProjectPackage(pkgPath string) bool {
	return pkgPath == c.RootModule || strings.HasPrefix(pkgPath, c.RootModule+"/")
}

// modulePath renders a package path relative to the root module as a
// `::`-separated tag.
func (c *Collector) modulePath(pkgPath string) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(pkgPath, c.RootModule), "/")
	if rest == "" {
		return filepath.Base(c.RootModule)
	}
	return strings.ReplaceAll(rest, "/", "::")
}

// LoadGoDeclarations loads the module rooted at dir and collects its
// declarations.
func LoadGoDeclarations(ctx context.Context, dir string, logger *slog.Logger) ([]Declaration, error) {
	if logger == nil {
		logger = slog.Default()
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	modulePath, err := detectModulePath(absDir)
	if err != nil {
		return nil, fmt.Errorf("cannot detect Go module: %w", err)
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedImports |
			packages.NeedDeps | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir: absDir,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	// A broken package would yield a partial graph.
	var loadErrs []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			loadErrs = append(loadErrs, e.Error())
		}
	})
	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("%d package errors: %s", len(loadErrs), strings.Join(loadErrs, "; "))
	}
	logger.Info("loaded Go packages", "module", modulePath, "packages", len(pkgs))

	c := NewCollector(modulePath, logger)
	return c.Collect(pkgs), nil
}

// Collect walks the project packages in source order.
func (c *Collector) Collect(pkgs []*packages.Package) []Declaration {
	c.collectInterfaces(pkgs)

	var decls []Declaration
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if !c.isProjectPackage(pkg.PkgPath) {
			return
		}
		module := c.modulePath(pkg.PkgPath)
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				gen, ok := decl.(*ast.GenDecl)
				if !ok || gen.Tok != token.TYPE {
					continue
				}
				for _, spec := range gen.Specs {
					ts := spec.(*ast.TypeSpec)
					tn, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
					if !ok {
						continue
					}
					decls = append(decls, c.typeDeclarations(tn, module)...)
				}
			}
		}
	})
	c.Logger.Info("collected Go declarations", "declarations", len(decls), "interfaces", len(c.ifaces))
	return decls
}

// collectInterfaces records every non-empty project interface.
func (c *Collector) collectInterfaces(pkgs []*packages.Package) {
	c.ifaces = nil
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if !c.isProjectPackage(pkg.PkgPath) {
			return
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok {
				continue
			}
			if t, ok := tn.Type().Underlying().(*types.Interface); ok && t.NumMethods() > 0 {
				c.ifaces = append(c.ifaces, goInterface{name: name, typ: t})
			}
		}
	})
}

// typeDeclarations emits the primary declaration of a named type followed
// by its impl blocks.
func (c *Collector) typeDeclarations(tn *types.TypeName, module string) []Declaration {
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil
	}
	primary := Declaration{Name: tn.Name(), Public: tn.Exported(), Module: module}
	if tp := named.TypeParams(); tp != nil {
		for i := 0; i < tp.Len(); i++ {
			primary.Generics = append(primary.Generics, tp.At(i).Obj().Name())
		}
	}

	switch t := named.Underlying().(type) {
	case *types.Struct:
		primary.Kind = DeclStruct
		primary.Shape = ShapeNamed
		for i := 0; i < t.NumFields(); i++ {
			f := t.Field(i)
			primary.Fields = append(primary.Fields, RawField{
				Name:   f.Name(),
				Public: f.Exported(),
				Type:   c.typeText(f.Type()),
			})
		}
	case *types.Interface:
		primary.Kind = DeclTrait
		for i := 0; i < t.NumExplicitMethods(); i++ {
			m := t.ExplicitMethod(i)
			primary.Methods = append(primary.Methods, c.rawMethod(m, false))
		}
		return []Declaration{primary}
	default:
		primary.Kind = "type"
	}

	decls := []Declaration{primary}
	if named.NumMethods() > 0 {
		impl := Declaration{Kind: DeclImpl, Name: tn.Name(), Module: module}
		for i := 0; i < named.NumMethods(); i++ {
			impl.Methods = append(impl.Methods, c.rawMethod(named.Method(i), true))
		}
		decls = append(decls, impl)
	}
	if primary.Kind == DeclStruct {
		decls = append(decls, c.implementations(named, module)...)
	}
	return decls
}

// implementations emits one trait impl per project interface satisfied by
// T or *T.
func (c *Collector) implementations(named *types.Named, module string) []Declaration {
	var decls []Declaration
	ptr := types.NewPointer(named)
	for _, iface := range c.ifaces {
		if !types.Implements(named, iface.typ) && !types.Implements(ptr, iface.typ) {
			continue
		}
		impl := Declaration{
			Kind:   DeclImpl,
			Name:   named.Obj().Name(),
			Module: module,
			Trait:  []PathSegment{{Name: iface.name}},
		}
		for i := 0; i < iface.typ.NumMethods(); i++ {
			obj, _, _ := types.LookupFieldOrMethod(ptr, true, named.Obj().Pkg(), iface.typ.Method(i).Name())
			if fn, ok := obj.(*types.Func); ok {
				impl.Methods = append(impl.Methods, c.rawMethod(fn, true))
			}
		}
		decls = append(decls, impl)
	}
	return decls
}

// rawMethod converts a method. Receivers become a leading `self` parameter
// when withSelf is set; several results render as a tuple.
func (c *Collector) rawMethod(fn *types.Func, withSelf bool) RawMethod {
	sig := fn.Type().(*types.Signature)
	m := RawMethod{Name: fn.Name(), Public: fn.Exported()}
	if withSelf && sig.Recv() != nil {
		self := RawParam{Name: "self", Type: "Self"}
		if _, ok := sig.Recv().Type().(*types.Pointer); ok {
			self.Type = "&Self"
		}
		m.Params = append(m.Params, self)
	}
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		m.Params = append(m.Params, RawParam{Name: p.Name(), Type: c.typeText(p.Type())})
	}
	results := sig.Results()
	switch results.Len() {
	case 0:
	case 1:
		ret := c.typeText(results.At(0).Type())
		m.Return = &ret
	default:
		parts := make([]string, 0, results.Len())
		for i := 0; i < results.Len(); i++ {
			parts = append(parts, c.typeText(results.At(i).Type()))
		}
		ret := "(" + strings.Join(parts, ", ") + ")"
		m.Return = &ret
	}
	return m
}

// typeText renders a type the way the classifier compares it: project types
// unqualified, other packages by name, pointers as `*mut T`.
func (c *Collector) typeText(t types.Type) string {
	text := types.TypeString(t, func(p *types.Package) string {
		if c.isProjectPackage(p.Path()) {
			return ""
		}
		return p.Name()
	})
	return strings.ReplaceAll(text, "*", ptrMut)
}

// detectModulePath reads the go.mod file in dir and returns the module path.
func detectModulePath(dir string) (string, error) {
	gomod := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(gomod)
	if err != nil {
		return "", fmt.Errorf("cannot read go.mod: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module")), nil
		}
	}
	return "", fmt.Errorf("module directive not found in go.mod")
}
