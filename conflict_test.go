package mergeguard_test

import (
	"testing"

	"github.com/fwojciec/mergeguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConflicts(t *testing.T) {
	t.Parallel()

	t.Run("pairs a move with a modification at its old path", func(t *testing.T) {
		t.Parallel()

		moves := []mergeguard.MoveRecord{{OldPath: "a.txt", NewPath: "b.txt", Similarity: 0.9}}
		mods := []mergeguard.ModificationRecord{{Path: "a.txt"}}

		conflicts := mergeguard.BuildConflicts(moves, mods)

		require.Len(t, conflicts, 1)
		assert.Equal(t, "a.txt", conflicts[0].OldPath)
		assert.Equal(t, "b.txt", conflicts[0].NewPath)
		assert.Equal(t, moves[0], conflicts[0].Move)
		assert.Equal(t, mods[0], conflicts[0].Modification)
	})

	t.Run("empty inputs yield no conflicts", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, mergeguard.BuildConflicts(nil, nil))
	})

	t.Run("move without matching modification is not a conflict", func(t *testing.T) {
		t.Parallel()

		moves := []mergeguard.MoveRecord{{OldPath: "a.txt", NewPath: "b.txt"}}
		mods := []mergeguard.ModificationRecord{{Path: "other.txt"}}

		assert.Empty(t, mergeguard.BuildConflicts(moves, mods))
	})

	t.Run("modification matching a new path is not a conflict", func(t *testing.T) {
		t.Parallel()

		moves := []mergeguard.MoveRecord{{OldPath: "a.txt", NewPath: "b.txt"}}
		mods := []mergeguard.ModificationRecord{{Path: "b.txt"}}

		assert.Empty(t, mergeguard.BuildConflicts(moves, mods))
	})

	t.Run("emits every pairing for a shared old path", func(t *testing.T) {
		t.Parallel()

		moves := []mergeguard.MoveRecord{
			{OldPath: "a.txt", NewPath: "z.txt"},
			{OldPath: "a.txt", NewPath: "b.txt"},
		}
		mods := []mergeguard.ModificationRecord{{Path: "a.txt"}}

		conflicts := mergeguard.BuildConflicts(moves, mods)

		require.Len(t, conflicts, 2)
		assert.Equal(t, "b.txt", conflicts[0].NewPath)
		assert.Equal(t, "z.txt", conflicts[1].NewPath)
	})

	t.Run("does not follow chained renames", func(t *testing.T) {
		t.Parallel()

		moves := []mergeguard.MoveRecord{
			{OldPath: "a.txt", NewPath: "b.txt"},
			{OldPath: "b.txt", NewPath: "c.txt"},
		}
		mods := []mergeguard.ModificationRecord{{Path: "a.txt"}}

		conflicts := mergeguard.BuildConflicts(moves, mods)

		require.Len(t, conflicts, 1)
		assert.Equal(t, "b.txt", conflicts[0].NewPath)
	})

	t.Run("orders by old path then new path", func(t *testing.T) {
		t.Parallel()

		moves := []mergeguard.MoveRecord{
			{OldPath: "src/z.go", NewPath: "pkg/z.go"},
			{OldPath: "src/a.go", NewPath: "pkg/a.go"},
			{OldPath: "docs/readme.md", NewPath: "README.md"},
		}
		mods := []mergeguard.ModificationRecord{
			{Path: "src/a.go"},
			{Path: "docs/readme.md"},
			{Path: "src/z.go"},
		}

		conflicts := mergeguard.BuildConflicts(moves, mods)

		require.Len(t, conflicts, 3)
		assert.Equal(t, "docs/readme.md", conflicts[0].OldPath)
		assert.Equal(t, "src/a.go", conflicts[1].OldPath)
		assert.Equal(t, "src/z.go", conflicts[2].OldPath)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		moves := []mergeguard.MoveRecord{
			{OldPath: "b.txt", NewPath: "x/b.txt"},
			{OldPath: "a.txt", NewPath: "x/a.txt"},
		}
		mods := []mergeguard.ModificationRecord{{Path: "a.txt"}, {Path: "b.txt"}}

		first := mergeguard.BuildConflicts(moves, mods)
		second := mergeguard.BuildConflicts(moves, mods)

		assert.Equal(t, first, second)
	})
}
