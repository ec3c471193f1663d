// Package gitdiff implements diff parsing using bluekeyes/go-gitdiff.
package gitdiff

import (
	"fmt"
	"io"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/mergeguard"
)

// Compile-time interface verification.
var _ mergeguard.Parser = (*Parser)(nil)

// Parser parses git tree diffs using go-gitdiff.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads git diff output and returns one FileDiff per file header.
// Paths have their a/ and b/ prefixes removed.
func (p *Parser) Parse(r io.Reader) (*mergeguard.Diff, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	result := &mergeguard.Diff{
		Files: make([]mergeguard.FileDiff, 0, len(files)),
	}
	for _, f := range files {
		result.Files = append(result.Files, convertFile(f))
	}
	return result, nil
}

func convertFile(f *gitdiff.File) mergeguard.FileDiff {
	fd := mergeguard.FileDiff{
		OldPath:   f.OldName,
		NewPath:   f.NewName,
		Operation: operation(f),
		IsBinary:  f.IsBinary,
		OldMode:   f.OldMode,
		NewMode:   f.NewMode,
	}
	if f.IsRename || f.IsCopy {
		fd.Similarity = float64(f.Score) / 100
	}

	fd.Hunks = make([]mergeguard.Hunk, 0, len(f.TextFragments))
	for _, frag := range f.TextFragments {
		fd.Hunks = append(fd.Hunks, convertFragment(frag))
	}
	return fd
}

// operation maps go-gitdiff's header flags to a FileOp.
func operation(f *gitdiff.File) mergeguard.FileOp {
	switch {
	case f.IsNew:
		return mergeguard.FileAdded
	case f.IsDelete:
		return mergeguard.FileDeleted
	case f.IsRename:
		return mergeguard.FileRenamed
	case f.IsCopy:
		return mergeguard.FileCopied
	default:
		return mergeguard.FileModified
	}
}

func convertFragment(frag *gitdiff.TextFragment) mergeguard.Hunk {
	hunk := mergeguard.Hunk{
		OldStart: int(frag.OldPosition),
		OldCount: int(frag.OldLines),
		NewStart: int(frag.NewPosition),
		NewCount: int(frag.NewLines),
		Section:  frag.Comment,
		Lines:    make([]mergeguard.Line, 0, len(frag.Lines)),
	}

	for _, l := range frag.Lines {
		line := mergeguard.Line{Content: l.Line, NoNewline: l.NoEOL()}
		switch l.Op {
		case gitdiff.OpAdd:
			line.Type = mergeguard.LineAdded
		case gitdiff.OpDelete:
			line.Type = mergeguard.LineDeleted
		default:
			line.Type = mergeguard.LineContext
		}
		hunk.Lines = append(hunk.Lines, line)
	}
	return hunk
}
