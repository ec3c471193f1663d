package mergeguard_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/fwojciec/mergeguard"
	"github.com/fwojciec/mergeguard/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMoves(t *testing.T) {
	t.Parallel()

	diff := &mergeguard.Diff{
		Files: []mergeguard.FileDiff{
			{OldPath: "a.txt", NewPath: "b.txt", Operation: mergeguard.FileRenamed, Similarity: 0.9},
			{OldPath: "c.txt", NewPath: "d.txt", Operation: mergeguard.FileCopied, Similarity: 1.0},
			{OldPath: "e.txt", NewPath: "e.txt", Operation: mergeguard.FileModified},
			{NewPath: "new.txt", Operation: mergeguard.FileAdded},
			{OldPath: "gone.txt", Operation: mergeguard.FileDeleted},
			{OldPath: "low.txt", NewPath: "lower.txt", Operation: mergeguard.FileRenamed, Similarity: 0.3},
			{OldPath: "edge.txt", NewPath: "dir/edge.txt", Operation: mergeguard.FileRenamed, Similarity: 0.5},
		},
	}

	moves := mergeguard.ExtractMoves(diff, 0.5)

	require.Len(t, moves, 2)
	assert.Equal(t, mergeguard.MoveRecord{OldPath: "a.txt", NewPath: "b.txt", Similarity: 0.9}, moves[0])
	assert.Equal(t, "edge.txt", moves[1].OldPath, "similarity at the threshold still counts as a move")
	assert.Equal(t, "dir/edge.txt", moves[1].NewPath)
}

func TestExtractMoves_AppliesExactThresholdToGitScore(t *testing.T) {
	t.Parallel()

	// --find-renames=75% is what git receives for 0.745; its integer scores
	// are still checked against the exact threshold.
	diff := &mergeguard.Diff{
		Files: []mergeguard.FileDiff{
			{OldPath: "below.txt", NewPath: "x/below.txt", Operation: mergeguard.FileRenamed, Similarity: 0.74},
			{OldPath: "above.txt", NewPath: "x/above.txt", Operation: mergeguard.FileRenamed, Similarity: 0.75},
		},
	}

	moves := mergeguard.ExtractMoves(diff, 0.745)

	require.Len(t, moves, 1)
	assert.Equal(t, "above.txt", moves[0].OldPath)
}

func TestExtractModifications(t *testing.T) {
	t.Parallel()

	hunks := []mergeguard.Hunk{{OldStart: 1, OldCount: 1, NewStart: 1, NewCount: 1}}
	diff := &mergeguard.Diff{
		Files: []mergeguard.FileDiff{
			{OldPath: "a.txt", NewPath: "a.txt", Operation: mergeguard.FileModified, Hunks: hunks},
			{OldPath: "script.sh", NewPath: "script.sh", Operation: mergeguard.FileModified, OldMode: 0o644, NewMode: 0o755},
			{OldPath: "logo.png", NewPath: "logo.png", Operation: mergeguard.FileModified, IsBinary: true},
			{OldPath: "x.txt", NewPath: "y.txt", Operation: mergeguard.FileRenamed, Similarity: 1, Hunks: hunks},
			{NewPath: "new.txt", Operation: mergeguard.FileAdded, Hunks: hunks},
			{OldPath: "gone.txt", Operation: mergeguard.FileDeleted, Hunks: hunks},
		},
	}

	mods := mergeguard.ExtractModifications(diff)

	require.Len(t, mods, 2)
	assert.Equal(t, "a.txt", mods[0].Path)
	assert.Equal(t, hunks, mods[0].Hunks)
	assert.Equal(t, "logo.png", mods[1].Path)
	assert.True(t, mods[1].IsBinary)
}

func TestExtractModifications_CarriesStatsAndModes(t *testing.T) {
	t.Parallel()

	diff := &mergeguard.Diff{
		Files: []mergeguard.FileDiff{{
			OldPath:   "run.sh",
			NewPath:   "run.sh",
			Operation: mergeguard.FileModified,
			OldMode:   0o100644,
			NewMode:   0o100755,
			Hunks: []mergeguard.Hunk{{Lines: []mergeguard.Line{
				{Type: mergeguard.LineContext, Content: "#!/bin/sh\n"},
				{Type: mergeguard.LineDeleted, Content: "echo old\n"},
				{Type: mergeguard.LineAdded, Content: "echo new\n"},
				{Type: mergeguard.LineAdded, Content: "exit 0\n"},
			}}},
		}},
	}

	mods := mergeguard.ExtractModifications(diff)

	require.Len(t, mods, 1)
	assert.Equal(t, 2, mods[0].Added)
	assert.Equal(t, 1, mods[0].Deleted)
	assert.Equal(t, fs.FileMode(0o100644), mods[0].OldMode)
	assert.Equal(t, fs.FileMode(0o100755), mods[0].NewMode)
}

func TestExtractMoves_CarriesStats(t *testing.T) {
	t.Parallel()

	diff := &mergeguard.Diff{
		Files: []mergeguard.FileDiff{{
			OldPath:    "a.txt",
			NewPath:    "b.txt",
			Operation:  mergeguard.FileRenamed,
			Similarity: 0.8,
			Hunks: []mergeguard.Hunk{{Lines: []mergeguard.Line{
				{Type: mergeguard.LineDeleted, Content: "one\n"},
				{Type: mergeguard.LineAdded, Content: "uno\n"},
			}}},
		}},
	}

	moves := mergeguard.ExtractMoves(diff, 0.5)

	require.Len(t, moves, 1)
	assert.Equal(t, 1, moves[0].Added)
	assert.Equal(t, 1, moves[0].Deleted)
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a/b.txt", mergeguard.NormalizePath("./a/b.txt"))
	assert.Equal(t, "a/b.txt", mergeguard.NormalizePath("a//c/../b.txt"))
	assert.Empty(t, mergeguard.NormalizePath(""))
	assert.Empty(t, mergeguard.NormalizePath("."))
}

func TestMoveDetector_Detect(t *testing.T) {
	t.Parallel()

	state := &mergeguard.RepoState{
		Change:    mergeguard.BranchRef{Name: "HEAD", Hash: "head123"},
		Target:    mergeguard.BranchRef{Name: "origin/main", Hash: "main456"},
		MergeBase: "base789",
	}

	t.Run("diffs merge base against change tip", func(t *testing.T) {
		t.Parallel()

		var gotBase, gotHead string
		var gotThreshold float64
		detector := &mergeguard.MoveDetector{
			Git: &mock.GitRunner{
				DiffFn: func(_ context.Context, _, base, head string, threshold float64) (string, error) {
					gotBase, gotHead, gotThreshold = base, head, threshold
					return "diff text", nil
				},
			},
			Parser: &mock.Parser{
				ParseFn: func(r io.Reader) (*mergeguard.Diff, error) {
					data, _ := io.ReadAll(r)
					assert.Equal(t, "diff text", string(data))
					return &mergeguard.Diff{Files: []mergeguard.FileDiff{
						{OldPath: "a.txt", NewPath: "b.txt", Operation: mergeguard.FileRenamed, Similarity: 0.9},
					}}, nil
				},
			},
			Threshold: 0.5,
		}

		moves, err := detector.Detect(context.Background(), state)

		require.NoError(t, err)
		require.Len(t, moves, 1)
		assert.Equal(t, "base789", gotBase)
		assert.Equal(t, "head123", gotHead)
		assert.InDelta(t, 0.5, gotThreshold, 0.001)
	})

	t.Run("git failure is repository unavailable", func(t *testing.T) {
		t.Parallel()

		detector := &mergeguard.MoveDetector{
			Git: &mock.GitRunner{
				DiffFn: func(context.Context, string, string, string, float64) (string, error) {
					return "", errors.New("bad object")
				},
			},
			Parser: &mock.Parser{},
		}

		_, err := detector.Detect(context.Background(), state)

		require.ErrorIs(t, err, mergeguard.ErrRepositoryUnavailable)
	})
}

func TestModificationDetector_Detect(t *testing.T) {
	t.Parallel()

	state := &mergeguard.RepoState{
		Change:    mergeguard.BranchRef{Name: "HEAD", Hash: "head123"},
		Target:    mergeguard.BranchRef{Name: "origin/main", Hash: "main456"},
		MergeBase: "base789",
	}

	t.Run("diffs merge base against target tip", func(t *testing.T) {
		t.Parallel()

		var gotHead string
		detector := &mergeguard.ModificationDetector{
			Git: &mock.GitRunner{
				DiffFn: func(_ context.Context, _, _, head string, _ float64) (string, error) {
					gotHead = head
					return "", nil
				},
			},
			Parser: &mock.Parser{
				ParseFn: func(io.Reader) (*mergeguard.Diff, error) {
					return &mergeguard.Diff{Files: []mergeguard.FileDiff{
						{OldPath: "a.txt", NewPath: "a.txt", Operation: mergeguard.FileModified, Hunks: make([]mergeguard.Hunk, 1)},
					}}, nil
				},
			},
		}

		mods, err := detector.Detect(context.Background(), state)

		require.NoError(t, err)
		require.Len(t, mods, 1)
		assert.Equal(t, "a.txt", mods[0].Path)
		assert.Equal(t, "main456", gotHead)
	})

	t.Run("parse failure is repository unavailable", func(t *testing.T) {
		t.Parallel()

		detector := &mergeguard.ModificationDetector{
			Git: &mock.GitRunner{
				DiffFn: func(context.Context, string, string, string, float64) (string, error) {
					return "garbage", nil
				},
			},
			Parser: &mock.Parser{
				ParseFn: func(io.Reader) (*mergeguard.Diff, error) {
					return nil, errors.New("invalid diff")
				},
			},
		}

		_, err := detector.Detect(context.Background(), state)

		require.ErrorIs(t, err, mergeguard.ErrRepositoryUnavailable)
	})
}
