// Package trace is the logging layer of the osta tools.
//
// Events are spans (begin/end pairs) or points. Each carries a Scope which,
// with the tracer's Level, decides whether it is kept:
//
//	--trace-level=command  one span per CLI command
//	--trace-level=file     plus one span per lexed file
//	--trace-level=debug    plus token cache hits, misses and stores
//	--trace-level=error    everything, kept in memory and printed only on failure
//
// The tracer and the current span travel in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "tokenize")
//	defer span.End("")
package trace
