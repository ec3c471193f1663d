// Package git provides access to git operations via shell commands.
package git

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strings"

	"github.com/fwojciec/mergeguard"
	"github.com/rs/zerolog/log"
)

// Compile-time interface verification.
var _ mergeguard.GitRunner = (*Runner)(nil)

// Runner executes git commands via shell.
type Runner struct{}

// NewRunner creates a new git runner.
func NewRunner() *Runner {
	return &Runner{}
}

// RevParse resolves ref to a full commit hash.
func (r *Runner) RevParse(ctx context.Context, repoPath, ref string) (string, error) {
	output, err := r.run(ctx, repoPath, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// Fetch updates refs/remotes/<remote>/<branch> from the remote.
func (r *Runner) Fetch(ctx context.Context, repoPath, remote, branch string) error {
	refspec := fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", branch, remote, branch)
	_, err := r.run(ctx, repoPath, "fetch", "--quiet", "--no-tags", remote, refspec)
	return err
}

// MergeBase returns the nearest common ancestor of a and b. Unrelated
// histories yield an error wrapping mergeguard.ErrNoCommonAncestor.
func (r *Runner) MergeBase(ctx context.Context, repoPath, a, b string) (string, error) {
	output, err := r.run(ctx, repoPath, "merge-base", a, b)
	if err != nil {
		// merge-base exits 1 without output when there is no common ancestor.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && output == "" {
			return "", fmt.Errorf("%w: %s and %s", mergeguard.ErrNoCommonAncestor, a, b)
		}
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// Diff returns the unified diff from base to head. Renames are detected at
// renameThreshold similarity; copies are never detected.
func (r *Runner) Diff(ctx context.Context, repoPath, base, head string, renameThreshold float64) (string, error) {
	return r.run(ctx, repoPath,
		"diff",
		"--no-color",
		"--no-ext-diff",
		"--no-textconv",
		"--src-prefix=a/",
		"--dst-prefix=b/",
		FindRenamesFlag(renameThreshold),
		base,
		head,
	)
}

// FindRenamesFlag formats a 0..1 similarity threshold as git's --find-renames
// option, rounded to the nearest whole percent.
func FindRenamesFlag(threshold float64) string {
	percent := int(math.Round(threshold * 100))
	percent = min(max(percent, 1), 100)
	return fmt.Sprintf("--find-renames=%d%%", percent)
}

// run executes git in repoPath and returns stdout. Failures carry git's stderr
// and keep the *exec.ExitError in the chain.
func (r *Runner) run(ctx context.Context, repoPath string, args ...string) (string, error) {
	args = append([]string{"-C", repoPath}, args...)
	log.Debug().Strs("args", args).Msg("git")

	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(output), fmt.Errorf("git %s failed: %s: %w", args[2], strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return "", fmt.Errorf("git %s failed: %w", args[2], err)
	}
	return string(output), nil
}
