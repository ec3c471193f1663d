package mergeguard

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ChangeRef is the ref naming the change branch tip.
const ChangeRef = "HEAD"

// Loader resolves the change tip, the refreshed target tip and their merge base.
type Loader struct {
	Git          GitRunner
	RepoPath     string
	Remote       string
	TargetBranch string
}

// TargetRef returns the remote-tracking ref of the target branch, e.g. "origin/main".
func (l *Loader) TargetRef() string {
	return l.Remote + "/" + l.TargetBranch
}

// Load resolves the repository state. The remote-tracking ref is fetched first.
func (l *Loader) Load(ctx context.Context) (*RepoState, error) {
	head, err := l.Git.RevParse(ctx, l.RepoPath, ChangeRef)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", ErrRepositoryUnavailable, ChangeRef, err)
	}

	if err := l.Git.Fetch(ctx, l.RepoPath, l.Remote, l.TargetBranch); err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrRepositoryUnavailable, l.TargetRef(), err)
	}

	target, err := l.Git.RevParse(ctx, l.RepoPath, l.TargetRef())
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", ErrRepositoryUnavailable, l.TargetRef(), err)
	}

	base, err := l.Git.MergeBase(ctx, l.RepoPath, head, target)
	if err != nil {
		if errors.Is(err, ErrNoCommonAncestor) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: merge-base: %w", ErrRepositoryUnavailable, err)
	}
	if base == "" {
		return nil, fmt.Errorf("%w: %s and %s", ErrNoCommonAncestor, ChangeRef, l.TargetRef())
	}

	log.Debug().
		Str("head", head).
		Str("target", target).
		Str("merge_base", base).
		Msg("resolved repository state")

	return &RepoState{
		Change:    BranchRef{Name: ChangeRef, Hash: head},
		Target:    BranchRef{Name: l.TargetRef(), Hash: target},
		MergeBase: base,
	}, nil
}
