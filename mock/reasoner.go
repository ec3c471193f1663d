package mock

import (
	"context"

	"github.com/fwojciec/mergeguard"
)

// Compile-time interface verification.
var _ mergeguard.Reasoner = (*Reasoner)(nil)

// Reasoner is a mock implementation of mergeguard.Reasoner.
type Reasoner struct {
	AnalyzeFn func(ctx context.Context, bundle mergeguard.ConflictContext) (*mergeguard.Resolution, error)
}

func (r *Reasoner) Analyze(ctx context.Context, bundle mergeguard.ConflictContext) (*mergeguard.Resolution, error) {
	return r.AnalyzeFn(ctx, bundle)
}
