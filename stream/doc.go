// Package stream runs a cypher chain between a text source and a text sink.
//
// An Engine pulls decoded chunks from a Source, passes each through its
// Stages in order and writes the result to a Sink. Every boundary is an
// unbuffered hand-off between goroutines, so at most one chunk waits
// between two neighbours and the Source is not read while downstream is
// busy.
//
// The first error in stream order ends the run. Both endpoints are closed
// exactly once on every path; a close error is reported only when nothing
// failed before it.
//
//	src := stream.NewFileSource("in.txt")
//	dst := stream.NewFileSink("out.txt")
//	eng := stream.NewEngine(src, stream.StagesFromChain(chain), dst)
//	err := eng.Run(ctx)
package stream
