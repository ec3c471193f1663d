package jsonl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/mergeguard"
)

// Compile-time interface verification.
var _ mergeguard.ResultSaver = (*Saver)(nil)

// Record is one analyzed conflict as written to the results file.
type Record struct {
	Change      mergeguard.BranchRef `json:"change"`
	Target      mergeguard.BranchRef `json:"target"`
	MergeBase   string               `json:"merge_base"`
	OldPath     string               `json:"old_path"`
	NewPath     string               `json:"new_path"`
	Similarity  float64              `json:"similarity"`
	Explanation string               `json:"explanation"`
	Commands    []string             `json:"commands"`
}

// NewRecords flattens a report into one Record per analysis result.
func NewRecords(report *mergeguard.Report) []Record {
	records := make([]Record, 0, len(report.Results))
	for _, r := range report.Results {
		records = append(records, Record{
			Change:      report.State.Change,
			Target:      report.State.Target,
			MergeBase:   report.State.MergeBase,
			OldPath:     r.Conflict.OldPath,
			NewPath:     r.Conflict.NewPath,
			Similarity:  r.Conflict.Move.Similarity,
			Explanation: r.Explanation,
			Commands:    r.Commands,
		})
	}
	return records
}

// Saver writes analysis results to a JSONL file, one conflict per line.
type Saver struct {
	path string
}

// NewSaver creates a new Saver writing to path.
func NewSaver(path string) *Saver {
	return &Saver{path: path}
}

// Save replaces the file with the report's results, creating parent
// directories if needed. A clean report leaves an empty file.
func (s *Saver) Save(report *mergeguard.Report) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for i, rec := range NewRecords(report) {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}

	return f.Close()
}
