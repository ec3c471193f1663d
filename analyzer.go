package mergeguard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Analyzer obtains an explanation and resolution for every conflict.
type Analyzer struct {
	Reasoner Reasoner
	// Workers sets the number of parallel reasoning calls. If <= 1, runs sequentially.
	Workers int
	// MaxAttempts bounds the calls per conflict. If <= 1, there are no retries.
	MaxAttempts int
	// BackoffFn returns the wait before attempt+1 (attempt is 1-indexed).
	// If nil, uses exponential backoff (1s, 2s, 4s...).
	BackoffFn func(attempt int) time.Duration
}

// Analyze explains each conflict and builds the report. Results keep the
// order of conflicts regardless of completion order. Any failure is terminal.
func (a *Analyzer) Analyze(ctx context.Context, state RepoState, conflicts []ConflictRecord) (*Report, error) {
	if len(conflicts) == 0 {
		return NewReport(state, nil), nil
	}

	var (
		results []AnalysisResult
		err     error
	)
	if a.Workers > 1 {
		results, err = a.analyzeParallel(ctx, state, conflicts)
	} else {
		results, err = a.analyzeSequential(ctx, state, conflicts)
	}
	if err != nil {
		return nil, err
	}
	return NewReport(state, results), nil
}

func (a *Analyzer) analyzeSequential(ctx context.Context, state RepoState, conflicts []ConflictRecord) ([]AnalysisResult, error) {
	results := make([]AnalysisResult, 0, len(conflicts))
	for _, c := range conflicts {
		result, err := a.analyzeOne(ctx, state, c)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}

func (a *Analyzer) analyzeParallel(ctx context.Context, state RepoState, conflicts []ConflictRecord) ([]AnalysisResult, error) {
	results := make([]AnalysisResult, len(conflicts))
	errs := make([]error, len(conflicts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Workers)

	for i := range conflicts {
		c := conflicts[i]
		g.Go(func() error {
			result, err := a.analyzeOne(gctx, state, c)
			if err != nil {
				errs[i] = err
				return err
			}
			results[i] = *result
			return nil
		})
	}

	waitErr := g.Wait()
	if waitErr == nil {
		return results, nil
	}
	// Report the failure of the earliest conflict rather than the fastest one,
	// skipping siblings that only saw the group cancellation.
	for i, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Debug().Int("index", i).Err(err).Msg("analysis failed")
			return nil, err
		}
	}
	return nil, waitErr
}

func (a *Analyzer) analyzeOne(ctx context.Context, state RepoState, c ConflictRecord) (*AnalysisResult, error) {
	bundle := NewConflictContext(c, state)
	res, err := a.resolveWithRetry(ctx, bundle)
	if err != nil {
		return nil, fmt.Errorf("analyze %s -> %s: %w", c.OldPath, c.NewPath, err)
	}
	log.Info().Str("old_path", c.OldPath).Str("new_path", c.NewPath).Int("commands", len(res.Commands)).Msg("conflict analyzed")
	return &AnalysisResult{
		Conflict:    c,
		Explanation: res.Explanation,
		Commands:    res.Commands,
	}, nil
}

// MaxBackoff bounds a single wait between attempts.
const MaxBackoff = 5 * time.Minute

// ExponentialBackoff returns a BackoffFn that waits base, 2*base, 4*base...
// up to MaxBackoff.
func ExponentialBackoff(base time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		d := base
		for i := 1; i < attempt && d < MaxBackoff; i++ {
			d *= 2
		}
		return min(d, MaxBackoff)
	}
}

// resolveWithRetry calls the reasoner with exponential backoff. The error of
// the last attempt keeps its classification.
func (a *Analyzer) resolveWithRetry(ctx context.Context, bundle ConflictContext) (*Resolution, error) {
	maxAttempts := max(a.MaxAttempts, 1)
	backoffFn := a.BackoffFn
	if backoffFn == nil {
		backoffFn = ExponentialBackoff(time.Second)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrAIServiceUnavailable, ctx.Err())
		default:
		}

		res, err := a.resolve(ctx, bundle)
		if err == nil {
			return res, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Str("path", bundle.OldPath).Msg("reasoning call failed")
		if IsPermanent(err) {
			return nil, err
		}

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrAIServiceUnavailable, ctx.Err())
			case <-time.After(backoffFn(attempt)):
			}
		}
	}
	return nil, lastErr
}

func (a *Analyzer) resolve(ctx context.Context, bundle ConflictContext) (*Resolution, error) {
	res, err := a.Reasoner.Analyze(ctx, bundle)
	if err != nil {
		if errors.Is(err, ErrAIServiceMalformedResponse) || errors.Is(err, ErrAIServiceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrAIServiceUnavailable, err)
	}
	if res == nil {
		return nil, fmt.Errorf("%w: empty resolution", ErrAIServiceMalformedResponse)
	}
	if err := ValidateResolution(*res); err != nil {
		return nil, err
	}
	normalized := res.Normalize()
	return &normalized, nil
}
