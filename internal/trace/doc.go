// Package trace records what a generation run spends its time on.
//
// Events are grouped by scope: the driver span covers one grammar, pass
// spans cover enum naming and action translation, rule spans cover single
// rules. The level picks how deep events are kept:
//
//	lrgen gen --trace=- --trace-level=phase grammar.toml
//
// Tracers travel through the pipeline in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "actions", parent)
//	defer span.End("")
package trace
