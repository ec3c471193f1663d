package mergeguard

import (
	"fmt"
	"io/fs"
	"strings"
)

// ConflictContext is everything the reasoning service is told about one conflict.
type ConflictContext struct {
	OldPath      string
	NewPath      string
	Similarity   float64
	ChangeBranch string
	TargetBranch string
	ChangeDiff   string // rename diff on the change branch
	TargetDiff   string // in-place edit on the target branch
	Description  string
}

// NewConflictContext builds the context bundle for c.
func NewConflictContext(c ConflictRecord, state RepoState) ConflictContext {
	return ConflictContext{
		OldPath:      c.OldPath,
		NewPath:      c.NewPath,
		Similarity:   c.Move.Similarity,
		ChangeBranch: state.Change.Name,
		TargetBranch: state.Target.Name,
		ChangeDiff:   FormatMoveDiff(c.Move),
		TargetDiff:   FormatModificationDiff(c.Modification),
		Description: fmt.Sprintf(
			"%s was moved to %s on %s (%.0f%% similar), while %s modified %s in place. "+
				"A text merge sees no conflict, so the edits on %s would not reach %s.",
			c.OldPath, c.NewPath, state.Change.Name, c.Move.Similarity*100,
			state.Target.Name, c.OldPath, state.Target.Name, c.NewPath),
	}
}

// Format renders the bundle as structured text for an LLM prompt.
func (c ConflictContext) Format() string {
	var sb strings.Builder

	sb.WriteString("<conflict>\n")
	fmt.Fprintf(&sb, "Original path: %s\n", c.OldPath)
	fmt.Fprintf(&sb, "Moved to: %s\n", c.NewPath)
	fmt.Fprintf(&sb, "Similarity: %.0f%%\n", c.Similarity*100)
	if c.ChangeBranch != "" {
		fmt.Fprintf(&sb, "Change branch: %s\n", c.ChangeBranch)
	}
	if c.TargetBranch != "" {
		fmt.Fprintf(&sb, "Target branch: %s\n", c.TargetBranch)
	}
	fmt.Fprintf(&sb, "\n%s\n", c.Description)
	sb.WriteString("</conflict>\n\n")

	sb.WriteString("<change-branch-diff>\n")
	sb.WriteString(c.ChangeDiff)
	sb.WriteString("</change-branch-diff>\n\n")

	sb.WriteString("<target-branch-diff>\n")
	sb.WriteString(c.TargetDiff)
	sb.WriteString("</target-branch-diff>")
	return sb.String()
}

// FormatMoveDiff renders the change-branch side of a move.
func FormatMoveDiff(m MoveRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== FILE: %s -> %s (renamed, %.0f%% similar, +%d -%d) ===\n",
		m.OldPath, m.NewPath, m.Similarity*100, m.Added, m.Deleted)
	formatModes(&sb, m.OldMode, m.NewMode)
	sb.WriteString("\n")
	if len(m.Hunks) == 0 {
		sb.WriteString("(content unchanged)\n")
		return sb.String()
	}
	formatHunks(&sb, m.Hunks)
	return sb.String()
}

// FormatModificationDiff renders the target-branch side of a modification.
func FormatModificationDiff(m ModificationRecord) string {
	var sb strings.Builder
	if m.IsBinary {
		fmt.Fprintf(&sb, "=== FILE: %s (modified) ===\n", m.Path)
	} else {
		fmt.Fprintf(&sb, "=== FILE: %s (modified, +%d -%d) ===\n", m.Path, m.Added, m.Deleted)
	}
	formatModes(&sb, m.OldMode, m.NewMode)
	sb.WriteString("\n")
	if m.IsBinary {
		sb.WriteString("(binary content changed)\n")
		return sb.String()
	}
	formatHunks(&sb, m.Hunks)
	return sb.String()
}

func formatModes(sb *strings.Builder, oldMode, newMode fs.FileMode) {
	if oldMode == 0 || newMode == 0 || oldMode == newMode {
		return
	}
	fmt.Fprintf(sb, "old mode %o\nnew mode %o\n", uint32(oldMode), uint32(newMode))
}

func formatHunks(sb *strings.Builder, hunks []Hunk) {
	for i, hunk := range hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		if hunk.Section != "" {
			header += " " + hunk.Section
		}
		fmt.Fprintf(sb, "--- HUNK H%d (%s) ---\n", i+1, header)
		for _, line := range hunk.Lines {
			sb.WriteString(linePrefix(line.Type))
			sb.WriteString(line.Content)
			if !strings.HasSuffix(line.Content, "\n") {
				sb.WriteString("\n")
			}
			if line.NoNewline {
				sb.WriteString("\\ No newline at end of file\n")
			}
		}
		sb.WriteString("\n")
	}
}

func linePrefix(lt LineType) string {
	switch lt {
	case LineAdded:
		return "+"
	case LineDeleted:
		return "-"
	default:
		return " "
	}
}
