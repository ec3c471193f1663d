package mergeguard

import "io/fs"

// BranchRef is a named pointer to a commit, resolved once per run.
type BranchRef struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

// RepoState is the three-way relationship the pipeline operates on.
type RepoState struct {
	Change    BranchRef `json:"change"`
	Target    BranchRef `json:"target"`
	MergeBase string    `json:"merge_base"`
}

// MoveRecord is a file moved on the change branch since the merge base.
type MoveRecord struct {
	OldPath    string  `json:"old_path"`
	NewPath    string  `json:"new_path"`
	Similarity float64     `json:"similarity"`
	Added      int         `json:"added"`
	Deleted    int         `json:"deleted"`
	OldMode    fs.FileMode `json:"-"` // 0 if unchanged
	NewMode    fs.FileMode `json:"-"`
	Hunks      []Hunk      `json:"-"` // content changes made alongside the move
}

// ModificationRecord is a file edited in place on the target branch since the merge base.
type ModificationRecord struct {
	Path     string      `json:"path"`
	IsBinary bool        `json:"is_binary,omitempty"`
	Added    int         `json:"added"`
	Deleted  int         `json:"deleted"`
	OldMode  fs.FileMode `json:"-"` // 0 if unchanged
	NewMode  fs.FileMode `json:"-"`
	Hunks    []Hunk      `json:"-"`
}

// ConflictRecord pairs a move with a modification at the move's original path.
type ConflictRecord struct {
	OldPath      string             `json:"old_path"`
	NewPath      string             `json:"new_path"`
	Move         MoveRecord         `json:"move"`
	Modification ModificationRecord `json:"modification"`
}

// Resolution is what the reasoning service returns for one conflict.
type Resolution struct {
	Explanation string   `json:"explanation"`
	Commands    []string `json:"commands"`
}

// AnalysisResult is the explained conflict.
type AnalysisResult struct {
	Conflict    ConflictRecord `json:"conflict"`
	Explanation string         `json:"explanation"`
	Commands    []string       `json:"commands"`
}

// Verdict is the overall outcome of a run.
type Verdict string

// Verdicts.
const (
	VerdictClean          Verdict = "clean"
	VerdictConflictsFound Verdict = "conflicts_found"
)

// Report is the ordered set of results of a run.
type Report struct {
	State   RepoState
	Results []AnalysisResult
	Verdict Verdict
}

// NewReport builds a report whose verdict follows from the results.
func NewReport(state RepoState, results []AnalysisResult) *Report {
	verdict := VerdictClean
	if len(results) > 0 {
		verdict = VerdictConflictsFound
	}
	return &Report{State: state, Results: results, Verdict: verdict}
}
