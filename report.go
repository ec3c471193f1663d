package mergeguard

import (
	"fmt"
	"strings"
)

// DefaultReportFile is the artifact name written to the working directory root.
const DefaultReportFile = "comment.txt"

const reportFooter = "> **Merge Guard** - file moves on one branch must not swallow edits made on another.\n"

func writeReportHeader(sb *strings.Builder) {
	sb.WriteString("# Merge Guard - Analysis Report\n\n")
	sb.WriteString("**Automated move-vs-modify conflict detection**\n\n")
	sb.WriteString("---\n\n")
}

// RenderReport renders the report as markdown.
func RenderReport(r *Report) string {
	var sb strings.Builder
	writeReportHeader(&sb)

	if r.Verdict == VerdictClean {
		sb.WriteString("## Status: ALL CHECKS PASSED\n\n")
		sb.WriteString("### Summary\n")
		sb.WriteString("No file moved on this branch was also modified on the target branch.\n\n")
		sb.WriteString("### What was checked\n")
		fmt.Fprintf(&sb, "- Files moved or renamed on `%s` since `%s`\n", r.State.Change.Name, shortHash(r.State.MergeBase))
		fmt.Fprintf(&sb, "- Files modified in place on `%s` since `%s`\n", r.State.Target.Name, shortHash(r.State.MergeBase))
		sb.WriteString("- Moves whose original path was modified on the other side\n\n")
		sb.WriteString("---\n\n")
		sb.WriteString(reportFooter)
		return sb.String()
	}

	sb.WriteString("## Status: RISKY MERGE DETECTED\n\n")
	sb.WriteString("### Summary\n")
	fmt.Fprintf(&sb, "Detected **%d move-vs-modify conflict(s)**. The files below were moved on `%s` "+
		"but modified at their original path on `%s`.\n\n", len(r.Results), r.State.Change.Name, r.State.Target.Name)

	sb.WriteString("### Detected Conflicts\n")
	for _, res := range r.Results {
		fmt.Fprintf(&sb, "- `%s` → `%s`\n", res.Conflict.OldPath, res.Conflict.NewPath)
	}
	sb.WriteString("\n### Why This Matters\n")
	sb.WriteString("Git merges the two branches without reporting a conflict, but the edits made at the old path ")
	sb.WriteString("do not follow the file to its new location. They are lost or left in an orphaned file.\n\n")
	sb.WriteString("---\n\n")

	for i, res := range r.Results {
		fmt.Fprintf(&sb, "## Conflict %d: `%s` → `%s`\n\n", i+1, res.Conflict.OldPath, res.Conflict.NewPath)
		sb.WriteString(res.Explanation)
		sb.WriteString("\n\n### Resolution\n\n```sh\n")
		for _, cmd := range res.Commands {
			sb.WriteString(cmd)
			sb.WriteString("\n")
		}
		sb.WriteString("```\n\n")
	}

	sb.WriteString("---\n\n")
	sb.WriteString("### Recommended Actions\n")
	sb.WriteString("1. Review the conflicts listed above\n")
	sb.WriteString("2. Apply the resolution commands\n")
	sb.WriteString("3. Test thoroughly after resolving\n")
	sb.WriteString("4. Re-run the checks\n\n")
	sb.WriteString(reportFooter)
	return sb.String()
}

// RenderFailureReport renders a terminal failure as markdown.
func RenderFailureReport(err error) string {
	var sb strings.Builder
	writeReportHeader(&sb)

	sb.WriteString("## Status: ANALYSIS ERROR\n\n")
	fmt.Fprintf(&sb, "### %s\n\n", KindOf(err))
	sb.WriteString("```\n")
	sb.WriteString(err.Error())
	sb.WriteString("\n```\n\n")

	sb.WriteString("### Possible Causes\n")
	for _, cause := range failureCauses(KindOf(err)) {
		fmt.Fprintf(&sb, "- %s\n", cause)
	}
	sb.WriteString("\n---\n\n")
	sb.WriteString(reportFooter)
	return sb.String()
}

func failureCauses(kind ErrorKind) []string {
	switch kind {
	case KindCredentialMissing:
		return []string{"The `GEMINI_API_KEY` secret is not configured for this job"}
	case KindRepositoryUnavailable:
		return []string{
			"The working directory is not a git checkout",
			"The remote or target branch does not exist",
			"Network connectivity problems while fetching",
		}
	case KindNoCommonAncestor:
		return []string{
			"The branches share no history",
			"The checkout is shallow; fetch with full history",
		}
	case KindAIServiceUnavailable:
		return []string{
			"Invalid API key or exhausted quota",
			"Network connectivity problems or a timeout",
		}
	case KindAIServiceMalformedResponse:
		return []string{"The model answered without an explanation or resolution commands"}
	case KindInvalidConfiguration:
		return []string{"A setting in `.mergeguard.yaml`, the environment or the command line is out of range"}
	default:
		return []string{"Unexpected internal error"}
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
