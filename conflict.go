package mergeguard

import (
	"cmp"
	"slices"
)

// BuildConflicts pairs every modification with every move whose original path
// equals the modified path. Matching is exact; renames are not followed
// transitively. The result is ordered by old path, then new path, with ties
// kept in move order.
func BuildConflicts(moves []MoveRecord, mods []ModificationRecord) []ConflictRecord {
	byPath := make(map[string][]ModificationRecord, len(mods))
	for _, m := range mods {
		byPath[m.Path] = append(byPath[m.Path], m)
	}

	var conflicts []ConflictRecord
	for _, mv := range moves {
		for _, mod := range byPath[mv.OldPath] {
			conflicts = append(conflicts, ConflictRecord{
				OldPath:      mv.OldPath,
				NewPath:      mv.NewPath,
				Move:         mv,
				Modification: mod,
			})
		}
	}

	slices.SortStableFunc(conflicts, func(a, b ConflictRecord) int {
		return cmp.Or(
			cmp.Compare(a.OldPath, b.OldPath),
			cmp.Compare(a.NewPath, b.NewPath),
		)
	})
	return conflicts
}
