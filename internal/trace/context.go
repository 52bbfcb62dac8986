package trace

import "context"

// scopeKey carries the tracer and the span new spans nest under.
type scopeKey struct{}

type scopeValue struct {
	tracer Tracer
	parent uint64
}

func scopeOf(ctx context.Context) scopeValue {
	if ctx != nil {
		if v, ok := ctx.Value(scopeKey{}).(scopeValue); ok {
			return v
		}
	}
	return scopeValue{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return scopeOf(ctx).tracer
}

// WithTracer attaches t to ctx. The parent span is kept.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	v := scopeOf(ctx)
	if t == nil {
		t = Nop
	}
	v.tracer = t
	return context.WithValue(ctx, scopeKey{}, v)
}

// ParentSpan returns the span recorded by WithParent, or 0.
func ParentSpan(ctx context.Context) uint64 {
	return scopeOf(ctx).parent
}

// WithParent records the span that spans begun further down nest under.
func WithParent(ctx context.Context, id uint64) context.Context {
	v := scopeOf(ctx)
	v.parent = id
	return context.WithValue(ctx, scopeKey{}, v)
}
