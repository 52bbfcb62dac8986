// Package gosrc is the Go-source front-end: it loads packages with
// golang.org/x/tools/go/packages and exposes their named types as a
// decl.Universe.
//
// Types opt into modeling through //model: directives (see package
// directive). Without any //model:root directive every exported type of the
// loaded packages is a root.
package gosrc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/tools/go/packages"

	"modelgraph/internal/decl"
	"modelgraph/internal/directive"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// Options configure a load.
type Options struct {
	// Dir is the directory patterns are resolved from.
	Dir      string
	Patterns []string
	Tests    bool
	Env      []string
	// Skip reports identities that must not be declared, typically known
	// types; they are still referenced by usages.
	Skip func(decl.Identity) bool
}

// Result is what a load produced.
type Result struct {
	Universe   *decl.Universe
	Directives *directive.Registry
	// Packages lists the matched package paths.
	Packages []string
	// Errors are the package errors reported by the loader. Declarations
	// affected by them resolve with decl.ErrIncompleteModel.
	Errors []error
}

// ErrNoPackages is returned when the patterns match nothing.
var ErrNoPackages = errors.New("no packages matched")

// Load type-checks the packages matched by opts.Patterns and builds the
// universe.
func Load(ctx context.Context, opts Options) (*Result, error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     opts.Dir,
		Tests:   opts.Tests,
		Env:     opts.Env,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", strings.Join(patterns, " "), err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPackages, strings.Join(patterns, " "))
	}

	reg := directive.NewRegistry()
	if err := scanDirectives(ctx, pkgs, reg); err != nil {
		return nil, err
	}

	b := newBuilder(pkgs, reg, opts.Skip)
	b.build()

	res := &Result{
		Universe:   b.u,
		Directives: reg,
		Errors:     b.loadErrors(),
	}
	for _, p := range pkgs {
		res.Packages = append(res.Packages, p.PkgPath)
	}
	return res, nil
}
