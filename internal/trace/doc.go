// Package trace records spans for a render run.
//
// A Tracer travels in the context. Start opens a span under whichever span
// the context already carries and returns a context for nested work:
//
//	ctx = trace.WithTracer(ctx, tr)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "render:Greeter.kt")
//	defer span.End("")
//
// Levels gate scopes: phase shows the run and its stages, detail adds one
// span per file, debug adds per-block events. Tracers either stream events
// as text or NDJSON, keep the most recent events in a ring for dumping after
// a failure, or both.
package trace
