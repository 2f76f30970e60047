package github

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidURL marks a string that is not a GitHub repository URL.
	ErrInvalidURL = errors.New("invalid GitHub URL")

	// ErrNotFound covers 404s and 451 legal takedowns. GitHub returns 404
	// (not 403) for private repos hit without a token, so "not found" and
	// "private, unauthenticated" are indistinguishable here.
	ErrNotFound = errors.New("repository or resource not found")

	// ErrForbidden covers 401s and non-rate-limit 403s: bad token, private
	// repo, or missing scopes.
	ErrForbidden = errors.New("access denied")

	// ErrRateLimited matches any *RateLimitError via errors.Is.
	ErrRateLimited = errors.New("GitHub API rate limit exceeded")

	// ErrNotText marks a contents response that is not a base64 text blob
	// (symlink, submodule, or empty file). Callers skip these.
	ErrNotText = errors.New("content is not a text blob")
)

// RateLimitError carries the reset time parsed from X-RateLimit-Reset and
// any secondary-limit Retry-After hint.
type RateLimitError struct {
	ResetAt    time.Time
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	msg := "GitHub API rate limit exceeded"
	if !e.ResetAt.IsZero() {
		msg = fmt.Sprintf("%s, resets at %s", msg, e.ResetAt.UTC().Format(time.RFC3339))
	}
	if e.RetryAfter > 0 {
		msg = fmt.Sprintf("%s, retry after %s", msg, e.RetryAfter)
	}
	return msg
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
