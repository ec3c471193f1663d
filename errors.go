package mergeguard

import "errors"

// Terminal failure kinds. Wrap them with fmt.Errorf("%w: %w", ErrX, cause).
var (
	ErrCredentialMissing          = errors.New("credential missing")
	ErrRepositoryUnavailable      = errors.New("repository unavailable")
	ErrNoCommonAncestor           = errors.New("no common ancestor")
	ErrAIServiceUnavailable       = errors.New("AI service unavailable")
	ErrAIServiceMalformedResponse = errors.New("AI service returned a malformed response")
)

// ErrorKind names a failure class for reporting.
type ErrorKind string

// Error kinds.
const (
	KindCredentialMissing          ErrorKind = "CredentialMissing"
	KindRepositoryUnavailable      ErrorKind = "RepositoryUnavailable"
	KindNoCommonAncestor           ErrorKind = "NoCommonAncestor"
	KindAIServiceUnavailable       ErrorKind = "AIServiceUnavailable"
	KindAIServiceMalformedResponse ErrorKind = "AIServiceMalformedResponse"
	KindInvalidConfiguration       ErrorKind = "InvalidConfiguration"
	KindInternal                   ErrorKind = "Internal"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrCredentialMissing, KindCredentialMissing},
	{ErrRepositoryUnavailable, KindRepositoryUnavailable},
	{ErrNoCommonAncestor, KindNoCommonAncestor},
	{ErrAIServiceMalformedResponse, KindAIServiceMalformedResponse},
	{ErrAIServiceUnavailable, KindAIServiceUnavailable},
	{ErrPrecondition, KindInvalidConfiguration},
}

// KindOf returns the failure kind of err, or KindInternal if err carries none.
func KindOf(err error) ErrorKind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// Process exit statuses.
const (
	ExitClean        = 0
	ExitConflicts    = 1
	ExitFailure      = 2
	ExitPrecondition = 3
)

// IsPermanent reports whether err carries a cause that declares a retry futile,
// such as an authentication failure.
func IsPermanent(err error) bool {
	var r interface{ Retryable() bool }
	return errors.As(err, &r) && !r.Retryable()
}

// ErrPrecondition marks configuration problems detected before any work starts.
var ErrPrecondition = errors.New("precondition failed")

// ExitCode maps the outcome of a run to a process exit status.
func ExitCode(report *Report, err error) int {
	if err != nil {
		if errors.Is(err, ErrCredentialMissing) || errors.Is(err, ErrPrecondition) {
			return ExitPrecondition
		}
		return ExitFailure
	}
	if report != nil && report.Verdict == VerdictConflictsFound {
		return ExitConflicts
	}
	return ExitClean
}
