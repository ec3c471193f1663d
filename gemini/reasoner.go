package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/mergeguard"
	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog/log"
)

// Compile-time interface verification.
var _ mergeguard.Reasoner = (*Reasoner)(nil)

// DefaultTimeout bounds a single resolution request.
const DefaultTimeout = 60 * time.Second

// Reasoner implements mergeguard.Reasoner using Google Gemini.
type Reasoner struct {
	client  GenerativeClient
	model   string
	timeout time.Duration
}

// ReasonerOption configures a Reasoner.
type ReasonerOption func(*Reasoner)

// WithTimeout sets the timeout for API calls.
func WithTimeout(d time.Duration) ReasonerOption {
	return func(r *Reasoner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewReasoner creates a new Reasoner.
func NewReasoner(client GenerativeClient, model string, opts ...ReasonerOption) *Reasoner {
	if model == "" {
		model = DefaultModel
	}
	r := &Reasoner{
		client:  client,
		model:   model,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Analyze asks Gemini to explain one conflict and propose resolution commands.
// Transport failures wrap mergeguard.ErrAIServiceUnavailable; unparseable
// output wraps mergeguard.ErrAIServiceMalformedResponse.
func (r *Reasoner) Analyze(ctx context.Context, bundle mergeguard.ConflictContext) (*mergeguard.Resolution, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	contents := []*Content{{
		Parts: []*Part{{Text: BuildResolutionPrompt(bundle)}},
	}}

	start := time.Now()
	resp, err := r.client.GenerateContent(ctx, r.model, contents, BuildResolutionConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mergeguard.ErrAIServiceUnavailable, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: gemini: returned nil response", mergeguard.ErrAIServiceMalformedResponse)
	}
	log.Debug().
		Str("model", r.model).
		Str("path", bundle.OldPath).
		Dur("elapsed", time.Since(start)).
		Int("response_bytes", len(resp.Text)).
		Msg("gemini response")

	resolution, err := ParseResolution(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mergeguard.ErrAIServiceMalformedResponse, err)
	}
	return resolution, nil
}

// ParseResolution decodes a model response into a Resolution. Markdown code
// fences are stripped first; output that is still not valid JSON gets one
// repair attempt before it is rejected.
func ParseResolution(text string) (*mergeguard.Resolution, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, fmt.Errorf("gemini: empty response")
	}

	var resolution mergeguard.Resolution
	err := json.Unmarshal([]byte(text), &resolution)
	if err == nil {
		return &resolution, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(text)
	if repairErr != nil {
		return nil, fmt.Errorf("gemini: failed to parse response: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &resolution); err != nil {
		return nil, fmt.Errorf("gemini: failed to parse response: %w", err)
	}
	log.Debug().Msg("gemini response needed JSON repair")
	return &resolution, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	// Drop the opening fence line, including any language tag.
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// BuildResolutionPrompt creates the user prompt for one conflict.
func BuildResolutionPrompt(bundle mergeguard.ConflictContext) string {
	return fmt.Sprintf(`A risky merge has been detected. A file was moved on the change branch while someone else edited it at its original path on the target branch. Git will merge both sides without reporting a conflict, and the edits made on the target branch will not reach the moved file.

%s
## Task

1. Explain the conflict clearly: what was moved, what was changed on the target branch, and what would be lost by merging as-is.
2. Provide the exact git commands, in order, that carry the target branch's edits into the file at its new location (for example: git checkout %s -- <file>, git show %s:<old path> > <new path>, git add, git commit).

Respond with JSON matching this schema:
{
  "explanation": "Plain-language description of the conflict",
  "commands": ["git ...", "git ..."]
}

Rules:
- commands must be runnable shell commands, one per array element
- use the real paths and branch names from the conflict above
- do not wrap the JSON in markdown`, bundle.Format(), targetOrDefault(bundle), targetOrDefault(bundle))
}

func targetOrDefault(bundle mergeguard.ConflictContext) string {
	if bundle.TargetBranch != "" {
		return bundle.TargetBranch
	}
	return "origin/main"
}

// BuildResolutionConfig returns config for resolution calls.
func BuildResolutionConfig() *GenerateContentConfig {
	temp := float32(0.2)
	return &GenerateContentConfig{
		SystemInstruction: &Content{
			Parts: []*Part{{
				Text: `You are a Senior DevOps Architect helping a developer land a pull request safely.

Your role is to:
1. Explain move-versus-modify merge hazards in terms a reviewer understands
2. Give exact, copy-pasteable git commands that preserve everyone's work

Be precise. Never invent files or branches that are not in the conflict description.`,
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResolutionSchema(),
	}
}

// ResolutionSchema describes the JSON object the model must return.
func ResolutionSchema() *Schema {
	return &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"explanation": {
				Type:        "STRING",
				Description: "Why the move and the in-place edit conflict",
			},
			"commands": {
				Type:        "ARRAY",
				Description: "Git commands that resolve the conflict, in order",
				Items:       &Schema{Type: "STRING"},
			},
		},
		Required:         []string{"explanation", "commands"},
		PropertyOrdering: []string{"explanation", "commands"},
	}
}
