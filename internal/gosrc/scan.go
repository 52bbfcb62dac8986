package gosrc

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"modelgraph/internal/directive"
)

// scanDirectives collects the //model: comments of every file of pkgs,
// one goroutine per file.
func scanDirectives(ctx context.Context, pkgs []*packages.Package, reg *directive.Registry) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, pkg := range pkgs {
		if pkg.TypesInfo == nil {
			continue
		}
		for _, file := range pkg.Syntax {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				scanFile(pkg, file, reg)
				return nil
			})
		}
	}
	return g.Wait()
}

func scanFile(pkg *packages.Package, file *ast.File, reg *directive.Registry) {
	for _, d := range file.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
			if !ok || obj == nil {
				continue
			}
			target := directive.Target{ID: identityOf(obj)}
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			collect(pkg.Fset, reg, target, doc, ts.Comment)

			st, ok := ts.Type.(*ast.StructType)
			if !ok || st.Fields == nil {
				continue
			}
			for _, f := range st.Fields.List {
				for _, name := range fieldNames(f) {
					collect(pkg.Fset, reg, directive.Target{ID: target.ID, Member: name}, f.Doc, f.Comment)
				}
			}
		}
	}
}

func collect(fset *token.FileSet, reg *directive.Registry, target directive.Target, groups ...*ast.CommentGroup) {
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if d, ok := directive.Parse(c.Text, fset.Position(c.Slash).String()); ok {
				reg.Add(target, d)
			}
		}
	}
}

// fieldNames returns the Go names a field declares; for an embedded field,
// the name of its type.
func fieldNames(f *ast.Field) []string {
	if len(f.Names) > 0 {
		out := make([]string, len(f.Names))
		for i, n := range f.Names {
			out[i] = n.Name
		}
		return out
	}
	t := f.Type
	for {
		switch x := t.(type) {
		case *ast.StarExpr:
			t = x.X
		case *ast.IndexExpr:
			t = x.X
		case *ast.IndexListExpr:
			t = x.X
		case *ast.SelectorExpr:
			return []string{x.Sel.Name}
		case *ast.Ident:
			return []string{x.Name}
		default:
			return nil
		}
	}
}
