// Package mergeguard detects files moved on a change branch while the same file
// was modified in place on the target branch, and explains how to resolve them.
package mergeguard

import (
	"context"
	"io"
	"io/fs"
)

// Diff represents a complete tree diff containing one or more file changes.
type Diff struct {
	Files []FileDiff
}

// FileDiff represents changes to a single file.
type FileDiff struct {
	OldPath    string      // repository-relative, empty for new files
	NewPath    string      // repository-relative, empty for deleted files
	Operation  FileOp      // Added, Deleted, Modified, Renamed, Copied
	Similarity float64     // 0..1, set for renames and copies
	IsBinary   bool        // Binary files have no hunks
	OldMode    fs.FileMode // 0 if unchanged
	NewMode    fs.FileMode // For permission changes
	Hunks      []Hunk
}

// Stats returns the number of added and deleted lines in the file.
func (f FileDiff) Stats() (added, deleted int) {
	for _, hunk := range f.Hunks {
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineAdded:
				added++
			case LineDeleted:
				deleted++
			}
		}
	}
	return added, deleted
}

// FileOp represents the type of operation performed on a file.
type FileOp int

// File operation types.
const (
	FileModified FileOp = iota
	FileAdded
	FileDeleted
	FileRenamed
	FileCopied
)

// String returns the lowercase operation name.
func (op FileOp) String() string {
	switch op {
	case FileAdded:
		return "added"
	case FileDeleted:
		return "deleted"
	case FileRenamed:
		return "renamed"
	case FileCopied:
		return "copied"
	default:
		return "modified"
	}
}

// Hunk represents a contiguous block of changes within a file.
type Hunk struct {
	OldStart int    // From @@ -X,...
	OldCount int    // From @@ -X,Y ...
	NewStart int    // From @@ ...,+X
	NewCount int    // From @@ ...,+X,Y
	Section  string // Optional function name after @@ ... @@
	Lines    []Line
}

// Line represents a single line within a hunk.
type Line struct {
	Type      LineType
	Content   string
	NoNewline bool // "\ No newline at end of file" marker
}

// LineType represents the type of a diff line.
type LineType int

// Line types.
const (
	LineContext LineType = iota
	LineAdded
	LineDeleted
)

// Parser parses unified diff content.
type Parser interface {
	Parse(r io.Reader) (*Diff, error)
}

// GitRunner provides the repository operations the pipeline needs.
type GitRunner interface {
	// RevParse resolves ref to a full commit hash.
	RevParse(ctx context.Context, repoPath, ref string) (string, error)
	// Fetch refreshes the remote-tracking ref for branch from remote.
	Fetch(ctx context.Context, repoPath, remote, branch string) error
	// MergeBase returns the nearest common ancestor of a and b.
	MergeBase(ctx context.Context, repoPath, a, b string) (string, error)
	// Diff returns the unified tree diff from base to head with rename
	// detection at the given similarity threshold (0..1).
	Diff(ctx context.Context, repoPath, base, head string, renameThreshold float64) (string, error)
}

// Reasoner turns a conflict context into an explanation and resolution steps.
type Reasoner interface {
	Analyze(ctx context.Context, bundle ConflictContext) (*Resolution, error)
}

// ReportWriter persists the rendered text report.
type ReportWriter interface {
	WriteReport(content string) error
}

// ResultSaver persists the analysis results in a machine-readable form.
type ResultSaver interface {
	Save(report *Report) error
}

// StatusPrinter presents the outcome of a run on the console.
type StatusPrinter interface {
	PrintReport(report *Report)
	PrintFailure(err error)
}

// TokenKind classifies a run of source text for highlighting.
type TokenKind int

// Token kinds.
const (
	TokenPlain TokenKind = iota
	TokenKeyword
	TokenBuiltin
	TokenString
	TokenComment
	TokenNumber
	TokenOperator
	TokenVariable
)

// Token is a classified run of source text.
type Token struct {
	Text string
	Kind TokenKind
}

// Tokenizer splits source code into classified tokens. It returns nil when
// the language is not supported.
type Tokenizer interface {
	Tokenize(language, source string) []Token
}
