package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated: missing or rejected model credential. Never
	// retried; when the key is absent no call is made at all.
	ErrUnauthenticated = errors.New("llm: missing or invalid API credential")

	// ErrUpstream marks transient transport failures (network errors,
	// timeouts, 429s, 5xx) that are worth retrying with backoff.
	ErrUpstream = errors.New("llm: upstream failure")
)

// ContractViolationError reports a model reply that failed schema
// validation. It is a content failure, not a transport one: the invoker
// allows a single repair re-prompt before giving up.
type ContractViolationError struct {
	Reason string
	Raw    string
}

func (e *ContractViolationError) Error() string {
	raw := e.Raw
	if len(raw) > 500 {
		raw = raw[:500] + "…"
	}
	return fmt.Sprintf("llm: reply violates response contract: %s (raw: %s)", e.Reason, raw)
}
