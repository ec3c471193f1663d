package mergeguard

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultRenameThreshold is the minimum content similarity for a path change
// to count as a move.
const DefaultRenameThreshold = 0.5

// MoveDetector extracts moves made on the change branch since the merge base.
type MoveDetector struct {
	Git       GitRunner
	Parser    Parser
	RepoPath  string
	Threshold float64
}

// Detect returns the moves between the merge base and the change tip, in diff order.
func (d *MoveDetector) Detect(ctx context.Context, state *RepoState) ([]MoveRecord, error) {
	diff, err := treeDiff(ctx, d.Git, d.Parser, d.RepoPath, state.MergeBase, state.Change.Hash, d.Threshold)
	if err != nil {
		return nil, err
	}
	moves := ExtractMoves(diff, d.Threshold)
	log.Debug().Int("moves", len(moves)).Str("branch", state.Change.Name).Msg("detected moves")
	return moves, nil
}

// ModificationDetector extracts in-place edits made on the target branch since the merge base.
type ModificationDetector struct {
	Git       GitRunner
	Parser    Parser
	RepoPath  string
	Threshold float64
}

// Detect returns the modifications between the merge base and the target tip, in diff order.
func (d *ModificationDetector) Detect(ctx context.Context, state *RepoState) ([]ModificationRecord, error) {
	diff, err := treeDiff(ctx, d.Git, d.Parser, d.RepoPath, state.MergeBase, state.Target.Hash, d.Threshold)
	if err != nil {
		return nil, err
	}
	mods := ExtractModifications(diff)
	log.Debug().Int("modifications", len(mods)).Str("branch", state.Target.Name).Msg("detected modifications")
	return mods, nil
}

func treeDiff(ctx context.Context, git GitRunner, parser Parser, repoPath, base, head string, threshold float64) (*Diff, error) {
	text, err := git.Diff(ctx, repoPath, base, head, threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: diff %s..%s: %w", ErrRepositoryUnavailable, base, head, err)
	}
	diff, err := parser.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: parse diff %s..%s: %w", ErrRepositoryUnavailable, base, head, err)
	}
	return diff, nil
}

// ExtractMoves returns one MoveRecord per renamed file whose similarity is at
// least threshold. Copies are not moves.
func ExtractMoves(diff *Diff, threshold float64) []MoveRecord {
	var moves []MoveRecord
	for _, f := range diff.Files {
		if f.Operation != FileRenamed {
			continue
		}
		oldPath, newPath := NormalizePath(f.OldPath), NormalizePath(f.NewPath)
		if oldPath == "" || newPath == "" || oldPath == newPath {
			continue
		}
		if f.Similarity < threshold {
			continue
		}
		added, deleted := f.Stats()
		moves = append(moves, MoveRecord{
			OldPath:    oldPath,
			NewPath:    newPath,
			Similarity: f.Similarity,
			Added:      added,
			Deleted:    deleted,
			OldMode:    f.OldMode,
			NewMode:    f.NewMode,
			Hunks:      f.Hunks,
		})
	}
	return moves
}

// ExtractModifications returns one ModificationRecord per file whose content
// changed at an unchanged path. Mode-only changes carry no content change.
func ExtractModifications(diff *Diff) []ModificationRecord {
	var mods []ModificationRecord
	for _, f := range diff.Files {
		if f.Operation != FileModified {
			continue
		}
		p := NormalizePath(f.NewPath)
		if p == "" || p != NormalizePath(f.OldPath) {
			continue
		}
		if len(f.Hunks) == 0 && !f.IsBinary {
			continue
		}
		added, deleted := f.Stats()
		mods = append(mods, ModificationRecord{
			Path:     p,
			IsBinary: f.IsBinary,
			Added:    added,
			Deleted:  deleted,
			OldMode:  f.OldMode,
			NewMode:  f.NewMode,
			Hunks:    f.Hunks,
		})
	}
	return mods
}

// NormalizePath returns the slash-separated, cleaned repository-relative form of p.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "./")
	if p == "." {
		return ""
	}
	return p
}
