package mock

import (
	"context"

	"github.com/fwojciec/mergeguard"
)

// Compile-time interface verification.
var _ mergeguard.GitRunner = (*GitRunner)(nil)

// GitRunner is a mock implementation of mergeguard.GitRunner.
type GitRunner struct {
	RevParseFn  func(ctx context.Context, repoPath, ref string) (string, error)
	FetchFn     func(ctx context.Context, repoPath, remote, branch string) error
	MergeBaseFn func(ctx context.Context, repoPath, a, b string) (string, error)
	DiffFn      func(ctx context.Context, repoPath, base, head string, renameThreshold float64) (string, error)
}

func (g *GitRunner) RevParse(ctx context.Context, repoPath, ref string) (string, error) {
	return g.RevParseFn(ctx, repoPath, ref)
}

func (g *GitRunner) Fetch(ctx context.Context, repoPath, remote, branch string) error {
	return g.FetchFn(ctx, repoPath, remote, branch)
}

func (g *GitRunner) MergeBase(ctx context.Context, repoPath, a, b string) (string, error) {
	return g.MergeBaseFn(ctx, repoPath, a, b)
}

func (g *GitRunner) Diff(ctx context.Context, repoPath, base, head string, renameThreshold float64) (string, error) {
	return g.DiffFn(ctx, repoPath, base, head, renameThreshold)
}
