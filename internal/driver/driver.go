// Package driver wires configuration, the Go front-end and the registry
// into one run.
package driver

import (
	"context"
	"errors"
	"fmt"

	"modelgraph/internal/adapter"
	"modelgraph/internal/config"
	"modelgraph/internal/decl"
	"modelgraph/internal/diag"
	"modelgraph/internal/gosrc"
	"modelgraph/internal/known"
	"modelgraph/internal/model"
	"modelgraph/internal/observ"
	"modelgraph/internal/registry"
	"modelgraph/internal/trace"
)

// DefaultMaxDiagnostics bounds the bag when Options leaves it unset.
const DefaultMaxDiagnostics = 100

// Options configure a run.
type Options struct {
	// Dir is where the config is discovered and packages are resolved.
	Dir string
	// ConfigPath, when set, is loaded instead of discovering modelgraph.toml.
	ConfigPath string
	// Config, when set, is used as is.
	Config *config.Config
	// Patterns override [model].packages.
	Patterns []string
	Tests    bool

	MaxDiagnostics int
	Observer       PhaseObserver
}

// Result is everything a run produced. On a fatal error Frozen is nil but
// Bag and Timer still describe what happened.
type Result struct {
	Config *config.Config
	Load   *gosrc.Result
	Known  *known.Table
	Frozen *registry.Frozen
	Bag    *diag.Bag
	Timer  *observ.Timer
}

// Run loads the configured packages and builds the frozen registry.
func Run(ctx context.Context, opts Options) (*Result, error) {
	res := newResult(ctx, opts)

	idx := res.begin(opts, PhaseConfig)
	cfg, err := resolveConfig(opts)
	res.end(opts, idx, PhaseConfig, "")
	if err != nil {
		return res, res.fatal(err)
	}
	res.Config = cfg
	res.Known = known.New(cfg.KnownOptions())
	source := cfg.Path
	if source == "" {
		source = "defaults"
	}
	trace.Point(trace.FromContext(ctx), trace.ScopePhase, "config", source, trace.ParentSpan(ctx))

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = cfg.Packages
	}
	idx = res.begin(opts, PhaseLoad)
	loaded, err := gosrc.Load(ctx, gosrc.Options{
		Dir:      cfg.Dir,
		Patterns: patterns,
		Tests:    opts.Tests,
		Skip:     res.Known.Has,
	})
	note := ""
	if loaded != nil {
		note = fmt.Sprintf("%d packages, %d declarations", len(loaded.Packages), loaded.Universe.Len())
	}
	res.end(opts, idx, PhaseLoad, note)
	if err != nil {
		return res, res.fatal(err)
	}
	res.Load = loaded
	for _, lerr := range loaded.Errors {
		diag.ReportWarning(diag.BagReporter{Bag: res.Bag}, diag.ModelWarning, "", lerr.Error()).Emit()
	}

	return res, res.analyze(ctx, opts, loaded.Universe)
}

// Analyze runs validation, traversal and freeze over an already built
// front-end. cfg may be nil for the defaults.
func Analyze(ctx context.Context, fe decl.Frontend, cfg *config.Config, opts Options) (*Result, error) {
	res := newResult(ctx, opts)
	if cfg == nil {
		cfg = config.Default(opts.Dir)
	}
	res.Config = cfg
	res.Known = known.New(cfg.KnownOptions())
	return res, res.analyze(ctx, opts, fe)
}

func newResult(ctx context.Context, opts Options) *Result {
	max := opts.MaxDiagnostics
	if max <= 0 {
		max = DefaultMaxDiagnostics
	}
	tr := trace.FromContext(ctx)
	return &Result{
		Bag:   diag.NewBag(max),
		Timer: observ.NewTimer().WithTracer(tr, trace.ParentSpan(ctx)),
	}
}

func (res *Result) analyze(ctx context.Context, opts Options, fe decl.Frontend) error {
	cfg := res.Config
	// a usage the visitor cannot classify may repeat within one member
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	for _, id := range res.Known.Evicted() {
		diag.ReportInfo(reporter, diag.ModelKnownEvicted, id,
			fmt.Sprintf("modeled through mixin %s instead of as a known type", cfg.Mixins[id])).Emit()
	}

	mctx := &model.Context{
		Frontend:          fe,
		Known:             res.Known,
		Adapters:          adapter.NewResolver(fe, res.Known, cfg.Adapters, cfg.Mixins),
		CollapseHierarchy: cfg.CollapseHierarchy,
	}

	idx := res.begin(opts, PhaseValidate)
	err := mctx.Adapters.Validate()
	res.end(opts, idx, PhaseValidate, "")
	if err != nil {
		return res.fatal(err)
	}

	idx = res.begin(opts, PhaseTraverse)
	reg := registry.New(mctx, registry.Options{
		Ignore:   cfg.Filter.Ignored,
		Exclude:  cfg.Filter.Excluded,
		Reporter: reporter,
		Tracer:   trace.FromContext(ctx),
	})
	err = reg.AddRoots(trace.WithParent(ctx, res.Timer.Span(idx)))
	res.end(opts, idx, PhaseTraverse, fmt.Sprintf("%d types", reg.Len()))
	if err != nil {
		return res.fatal(err)
	}

	idx = res.begin(opts, PhaseFreeze)
	frozen, err := reg.Freeze()
	res.end(opts, idx, PhaseFreeze, "")
	if err != nil {
		return res.fatal(err)
	}
	res.Frozen = frozen
	res.Bag.Sort()
	return nil
}

func (res *Result) begin(opts Options, name string) int {
	opts.Observer.notify(name, PhaseStart, 0)
	return res.Timer.Begin(name)
}

func (res *Result) end(opts Options, idx int, name, note string) {
	res.Timer.End(idx, note)
	opts.Observer.notify(name, PhaseEnd, res.Timer.Duration(idx))
}

// fatal records err as an error diagnostic and returns it unchanged.
func (res *Result) fatal(err error) error {
	reporter := diag.BagReporter{Bag: res.Bag}
	for _, e := range flatten(err) {
		var code diag.Code
		var subject decl.Identity
		var chain []decl.Ref
		var cfgErr *decl.ConfigError
		var inc *decl.IncompleteModelError
		switch {
		case errors.As(e, &cfgErr):
			code, subject = diag.ModelConfigError, cfgErr.Subject
		case errors.As(e, &inc):
			code, chain = diag.ModelIncomplete, inc.Chain
			if len(chain) > 0 {
				subject = chain[len(chain)-1].ID
			}
		case errors.Is(e, decl.ErrIncompleteModel):
			code = diag.ModelIncomplete
		default:
			code = diag.UnknownCode
		}
		diag.ReportError(reporter, code, subject, e.Error()).WithChain(chain).Emit()
	}
	res.Bag.Sort()
	return err
}

// flatten splits an errors.Join result into its parts.
func flatten(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

func resolveConfig(opts Options) (*config.Config, error) {
	switch {
	case opts.Config != nil:
		return opts.Config, nil
	case opts.ConfigPath != "":
		return config.Load(opts.ConfigPath)
	default:
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		return config.Discover(dir)
	}
}
