package flow

import (
	"errors"
	"strings"
	"time"
)

// BackoffStrategy names the function mapping a retry attempt number to the
// delay before the next attempt.
type BackoffStrategy string

const (
	// BackoffFixed waits BaseDelay between every attempt.
	BackoffFixed BackoffStrategy = "fixed"

	// BackoffLinear waits BaseDelay * attempt.
	BackoffLinear BackoffStrategy = "linear"

	// BackoffExponential waits BaseDelay * 2^(attempt-1).
	BackoffExponential BackoffStrategy = "exponential"
)

// ErrInvalidRetryPolicy is returned by RetryPolicy.Validate for
// misconfigured policies.
var ErrInvalidRetryPolicy = errors.New("invalid retry policy")

// RetryPolicy defines how transient node failures are retried.
//
// Classification works on error message substrings: NonRetryablePatterns are
// checked first and a match forbids any retry; otherwise a RetryablePatterns
// match (or both lists empty/unmatched) permits another attempt while
// attempts remain. Delays follow the configured backoff strategy, capped at
// MaxDelay.
type RetryPolicy struct {
	// MaxAttempts is the total number of execution attempts, including the
	// first. Must be >= 1; a value of 1 disables retries.
	MaxAttempts int `json:"max_attempts"`

	// Backoff selects the delay function. Defaults to exponential.
	Backoff BackoffStrategy `json:"backoff"`

	// BaseDelay is the base delay fed into the backoff function.
	BaseDelay time.Duration `json:"base_delay"`

	// MaxDelay caps the computed delay. Zero means no cap.
	MaxDelay time.Duration `json:"max_delay"`

	// RetryablePatterns lists error-message substrings that mark an error
	// as transient.
	RetryablePatterns []string `json:"retryable_patterns,omitempty"`

	// NonRetryablePatterns lists error-message substrings that forbid
	// retry. Checked before RetryablePatterns: a match here wins even if a
	// retryable pattern also matches.
	NonRetryablePatterns []string `json:"non_retryable_patterns,omitempty"`
}

// DefaultRetryPolicy returns the engine-wide default: three attempts with
// exponential backoff from one second, capped at thirty seconds, retrying
// common transient failures and refusing auth/validation failures.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:          3,
		Backoff:              BackoffExponential,
		BaseDelay:            time.Second,
		MaxDelay:             30 * time.Second,
		RetryablePatterns:    []string{"timeout", "connection", "unavailable", "rate limit", "429", "503"},
		NonRetryablePatterns: []string{"authentication", "unauthorized", "forbidden", "invalid", "not found"},
	}
}

// Retryable classifies an execution error.
//
// An executor-not-found error is never retryable. Otherwise the
// non-retryable patterns are consulted first, then the retryable ones; an
// error matching neither list defaults to retryable.
func (p RetryPolicy) Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrExecutorNotFound) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, pat := range p.NonRetryablePatterns {
		if strings.Contains(msg, strings.ToLower(pat)) {
			return false
		}
	}
	for _, pat := range p.RetryablePatterns {
		if strings.Contains(msg, strings.ToLower(pat)) {
			return true
		}
	}
	// Neither list matched: default to retryable.
	return true
}

// Delay computes the wait before the next attempt, where attempt is the
// 1-based number of the attempt that just failed.
//
//	fixed       -> BaseDelay
//	linear      -> BaseDelay * attempt
//	exponential -> BaseDelay * 2^(attempt-1)
//
// The result is capped at MaxDelay when MaxDelay > 0.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	var d time.Duration
	switch p.Backoff {
	case BackoffFixed:
		d = p.BaseDelay
	case BackoffLinear:
		d = p.BaseDelay * time.Duration(attempt)
	default: // exponential
		// Guard the shift against overflow on deep retry chains.
		shift := attempt - 1
		if shift > 30 {
			shift = 30
		}
		d = p.BaseDelay * time.Duration(1<<uint(shift))
	}

	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Validate checks the policy's constraints: MaxAttempts >= 1 and, when both
// delays are set, MaxDelay >= BaseDelay.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return ErrInvalidRetryPolicy
	}
	if p.MaxDelay > 0 && p.BaseDelay > 0 && p.MaxDelay < p.BaseDelay {
		return ErrInvalidRetryPolicy
	}
	switch p.Backoff {
	case "", BackoffFixed, BackoffLinear, BackoffExponential:
		return nil
	default:
		return ErrInvalidRetryPolicy
	}
}
