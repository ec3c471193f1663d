package lipgloss

import (
	"fmt"
	"io"
	"strings"

	lg "github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/mergeguard"
	"github.com/muesli/termenv"
)

// Compile-time interface verification.
var _ mergeguard.StatusPrinter = (*Printer)(nil)

// commandLanguage is the lexer used for suggested resolution commands.
const commandLanguage = "bash"

// Printer writes styled run summaries to a terminal.
type Printer struct {
	w         io.Writer
	tokenizer mergeguard.Tokenizer

	panel    lg.Style
	muted    lg.Style
	success  lg.Style
	warning  lg.Style
	danger   lg.Style
	analysis lg.Style
	title    lg.Style
	prompt   lg.Style
	command  lg.Style
	syntax   map[mergeguard.TokenKind]lg.Style
}

// NewPrinter creates a printer writing to w. Suggested commands are
// highlighted with tokenizer, or printed plain when it is nil. The color
// profile is detected from w unless overridden with termenv.WithProfile.
func NewPrinter(w io.Writer, theme *Theme, tokenizer mergeguard.Tokenizer, opts ...termenv.OutputOption) *Printer {
	if theme == nil {
		theme = DefaultTheme()
	}
	r := lg.NewRenderer(w, opts...)
	r.SetColorProfile(r.Output().Profile)
	p := theme.Palette()
	code := r.NewStyle().Background(lg.Color(p.Surface))

	return &Printer{
		w:         w,
		tokenizer: tokenizer,
		panel: r.NewStyle().
			Border(lg.RoundedBorder()).
			BorderForeground(lg.Color(p.Success)).
			Foreground(lg.Color(p.Success)).
			Padding(0, 1),
		muted:   r.NewStyle().Foreground(lg.Color(p.Muted)),
		success: r.NewStyle().Foreground(lg.Color(p.Success)).Bold(true),
		warning: r.NewStyle().Foreground(lg.Color(p.Warning)).Bold(true),
		danger:  r.NewStyle().Foreground(lg.Color(p.Danger)),
		analysis: r.NewStyle().
			Border(lg.RoundedBorder()).
			BorderForeground(lg.Color(p.Accent)).
			Foreground(lg.Color(p.Foreground)).
			Padding(0, 1),
		title:   r.NewStyle().Foreground(lg.Color(p.Accent)).Bold(true),
		prompt:  code.Foreground(lg.Color(p.Muted)),
		command: code.Foreground(lg.Color(p.Command)),
		syntax: map[mergeguard.TokenKind]lg.Style{
			mergeguard.TokenKeyword:  code.Foreground(lg.Color(p.Keyword)).Bold(true),
			mergeguard.TokenBuiltin:  code.Foreground(lg.Color(p.Keyword)),
			mergeguard.TokenString:   code.Foreground(lg.Color(p.String)),
			mergeguard.TokenComment:  code.Foreground(lg.Color(p.Comment)).Italic(true),
			mergeguard.TokenNumber:   code.Foreground(lg.Color(p.Number)),
			mergeguard.TokenOperator: code.Foreground(lg.Color(p.Operator)),
			mergeguard.TokenVariable: code.Foreground(lg.Color(p.Variable)),
		},
	}
}

// PrintReport prints the status panel followed by either the clean message or
// one analysis panel per conflict.
func (p *Printer) PrintReport(report *mergeguard.Report) {
	fmt.Fprintln(p.w, p.panel.Render("System Status: mergeguard live"))
	fmt.Fprintln(p.w, p.muted.Render(fmt.Sprintf("%s (%s) vs %s (%s), merge base %s",
		report.State.Change.Name, short(report.State.Change.Hash),
		report.State.Target.Name, short(report.State.Target.Hash),
		short(report.State.MergeBase))))

	if report.Verdict == mergeguard.VerdictClean {
		fmt.Fprintln(p.w, p.success.Render("✅ No risky semantic merge conflicts detected."))
		return
	}

	fmt.Fprintln(p.w, p.warning.Render("High Risk: Semantic Merge Conflicts Detected!"))
	fmt.Fprintln(p.w)
	for _, r := range report.Results {
		fmt.Fprintln(p.w, p.danger.Render(fmt.Sprintf("- %s → %s", r.Conflict.OldPath, r.Conflict.NewPath)))
	}
	for _, r := range report.Results {
		fmt.Fprintln(p.w, p.renderAnalysis(r))
	}
}

func (p *Printer) renderAnalysis(r mergeguard.AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString(p.title.Render(fmt.Sprintf("Analysis: %s → %s", r.Conflict.OldPath, r.Conflict.NewPath)))
	sb.WriteString("\n\n")
	sb.WriteString(r.Explanation)
	if len(r.Commands) > 0 {
		sb.WriteString("\n")
	}
	for _, cmd := range r.Commands {
		sb.WriteString("\n")
		sb.WriteString(p.renderCommand(cmd))
	}
	return p.analysis.Render(sb.String())
}

func (p *Printer) renderCommand(cmd string) string {
	var tokens []mergeguard.Token
	if p.tokenizer != nil {
		tokens = p.tokenizer.Tokenize(commandLanguage, cmd)
	}

	var sb strings.Builder
	sb.WriteString(p.prompt.Render("$ "))
	if tokens == nil {
		sb.WriteString(p.command.Render(cmd))
		return sb.String()
	}
	for _, tok := range tokens {
		style, ok := p.syntax[tok.Kind]
		if !ok {
			style = p.command
		}
		sb.WriteString(style.Render(tok.Text))
	}
	return sb.String()
}

// PrintFailure prints the failure kind and message.
func (p *Printer) PrintFailure(err error) {
	fmt.Fprintln(p.w, p.danger.Bold(true).Render(fmt.Sprintf("Error (%s): %v", mergeguard.KindOf(err), err)))
}

func short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
