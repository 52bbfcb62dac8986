// Package trace records what the registry does while it walks the type graph.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	modelgraph scan --trace=- --trace-level=detail ./...
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events, dumped when a run fails
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a Scope; the Level decides which scopes are written:
//
//   - LevelPhase: ScopeDriver and ScopePhase (load, traverse, freeze)
//   - LevelDetail: plus ScopeRoot (one span per root declaration)
//   - LevelDebug: plus ScopeType (registrations, known-type short circuits)
//
// Registry events are points with an Action and the type identity as
// Subject, emitted with Record.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePhase, "traverse", 0)
//	defer span.End("")
package trace
