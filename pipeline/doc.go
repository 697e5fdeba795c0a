// Package pipeline provides composable, pull-based streaming operators.
//
// Pipelines are lazy: no work happens until values are pulled via Collect,
// Drain, or ForEach. Each stage pulls from the previous stage on demand,
// so a slow consumer throttles every producer upstream of it.
//
// # Operators
//
// Synchronous (run in the caller's goroutine):
//
//   - Map: transform each value
//   - Filter: keep values matching a predicate
//   - Tap: side-effect without altering the value (logging, metrics)
//
// Concurrent:
//
//   - Buffer: run the upstream pipeline in its own goroutine, handing values
//     over through a channel of fixed capacity. Capacity 0 is a synchronous
//     hand-off: at most one value is in flight across the boundary.
//
// # Errors and teardown
//
// The first error pulled from any stage ends the run. Closing an iterator
// closes everything upstream of it exactly once, after any goroutine reading
// from it has exited. Drain reports a close error only when the run itself
// succeeded; otherwise the close error is handed to OnSuppressed.
//
// # Usage
//
//	src := pipeline.From[string](source)
//	upper := pipeline.Buffer(pipeline.Map(src, toUpper), 0)
//	err := pipeline.Drain(upper, sink.Write).Run(ctx)
package pipeline
