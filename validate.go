package mergeguard

import (
	"fmt"
	"strings"
)

// ValidationReason identifies why a Resolution is unusable.
type ValidationReason string

// Validation reasons.
const (
	ReasonMissingExplanation ValidationReason = "missing_explanation"
	ReasonMissingCommands    ValidationReason = "missing_commands"
)

// ValidationError describes a Resolution that lacks the expected structure.
type ValidationError struct {
	Reason ValidationReason
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingExplanation:
		return "resolution has no explanation"
	case ReasonMissingCommands:
		return "resolution has no resolution commands"
	default:
		return fmt.Sprintf("resolution is invalid: %s", e.Reason)
	}
}

// Unwrap classifies every validation failure as a malformed response.
func (e ValidationError) Unwrap() error {
	return ErrAIServiceMalformedResponse
}

// Normalize trims the explanation and drops blank commands, preserving order.
func (r Resolution) Normalize() Resolution {
	out := Resolution{Explanation: strings.TrimSpace(r.Explanation)}
	for _, cmd := range r.Commands {
		if cmd = strings.TrimSpace(cmd); cmd != "" {
			out.Commands = append(out.Commands, cmd)
		}
	}
	return out
}

// ValidateResolution returns a ValidationError if r lacks an explanation or commands.
func ValidateResolution(r Resolution) error {
	r = r.Normalize()
	if r.Explanation == "" {
		return ValidationError{Reason: ReasonMissingExplanation}
	}
	if len(r.Commands) == 0 {
		return ValidationError{Reason: ReasonMissingCommands}
	}
	return nil
}
