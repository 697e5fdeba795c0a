package stream

import (
	"context"

	"github.com/kbukum/cypherstream/cypher"
)

// Stage transforms one chunk of text. Stages hold no mutable state; the
// engine runs each in its own goroutine.
type Stage struct {
	name      string
	transform func(context.Context, string) (string, error)
}

// NewStage wraps a cypher. The stage is named after the cypher family.
func NewStage(c cypher.Cypher) Stage {
	return Stage{
		name: c.Name(),
		transform: func(_ context.Context, chunk string) (string, error) {
			return c.ApplyTo(chunk), nil
		},
	}
}

// StageFunc wraps an arbitrary transform.
func StageFunc(name string, fn func(context.Context, string) (string, error)) Stage {
	return Stage{name: name, transform: fn}
}

// StagesFromChain returns one stage per cypher of chain, named by the
// spec token that produced it.
func StagesFromChain(chain cypher.Chain) []Stage {
	specs := chain.Specs()
	stages := make([]Stage, 0, chain.Len())
	for i, c := range chain.Cyphers() {
		stages = append(stages, NewStage(c).WithName(specs[i]))
	}
	return stages
}

// Name returns the stage name.
func (s Stage) Name() string { return s.name }

// WithName returns a copy of the stage with a different name.
func (s Stage) WithName(name string) Stage {
	s.name = name
	return s
}

// Apply runs the stage on one chunk.
func (s Stage) Apply(ctx context.Context, chunk string) (string, error) {
	return s.transform(ctx, chunk)
}
