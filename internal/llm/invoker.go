package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kevinmichaelchen/repo-lens/internal/models"
)

const systemPrompt = `You are a senior software engineer. Your task is to analyse a GitHub repository and return a structured JSON summary.

You MUST respond with ONLY a valid JSON object. No markdown, no code fences, no prose, no extra keys, no explanation.

The JSON object must conform EXACTLY to this schema:

{
  "summary":      string,   // one concise paragraph: what the project does, who it is for, notable features
  "technologies": string[], // every meaningful language, framework, library, tool identified in the files
  "structure":    string    // one paragraph: directory layout and how the code is divided
}

Constraints:
- Output ONLY the JSON object. No text before '{' or after '}'.
- "summary" is plain text, at most 200 words.
- "technologies" is an array of short name strings (e.g. "Python", "FastAPI", "PostgreSQL"). No duplicates.
- "structure" is plain text, at most 150 words.
- Do NOT add any key other than the three above.
- Do NOT wrap the JSON in a code block or backticks.`

const userPromptTemplate = `Analyse the repository context below and return the JSON summary.

Remember: respond with ONLY the JSON object, nothing else.

%s

JSON response:`

const repairPromptTemplate = `Your previous reply did not conform to the required JSON schema: %s

Previous reply:
%s

Return the corrected JSON object now. Respond with ONLY the JSON object, matching the schema exactly: {"summary": string, "technologies": string[], "structure": string}. No markdown, no code fences, no extra keys.`

// state of one Invoke call. Attempt counters live alongside as plain
// data so the retry policy is testable without a network.
type state int

const (
	stateSending state = iota
	stateRetryPending
	stateSucceeded
	stateFailedFinal
)

// Options fix the retry policy at construction.
type Options struct {
	// APIKey is only inspected for presence: an empty key fails before
	// any model call is made.
	APIKey string

	// MaxAttempts bounds calls consumed by transient failures.
	MaxAttempts int

	// BackoffBase doubles per retry: base, 2*base, 4*base…
	BackoffBase time.Duration

	// Timeout bounds each individual call.
	Timeout time.Duration
}

// Invocation carries the validated summary plus how much it cost to get.
type Invocation struct {
	Summary  models.SummaryResult
	Attempts int
	Repaired bool
}

// Invoker drives the model call through an explicit state machine:
// Sending → {Succeeded, RetryPending, FailedFinal}. Transient upstream
// failures retry with exponential backoff up to MaxAttempts. A contract
// violation earns exactly one repair re-prompt; a second violation is
// final. Calls are strictly sequential, never concurrent.
type Invoker struct {
	transport Transport
	opts      Options
	sleep     func(time.Duration)
}

func NewInvoker(t Transport, opts Options) *Invoker {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 2 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Invoker{transport: t, opts: opts, sleep: time.Sleep}
}

// machine is the mutable per-call data the states operate on.
type machine struct {
	user             string
	attempts         int
	upstreamFailures int
	repaired         bool
	result           models.SummaryResult
	err              error
}

// Invoke sends the assembled repository context and returns the
// validated summary. Failure kinds: ErrUnauthenticated (immediate, no
// calls made when the key is missing), ErrUpstream after MaxAttempts
// transient failures, *ContractViolationError after a failed repair.
func (inv *Invoker) Invoke(ctx context.Context, repoContext string) (*Invocation, error) {
	if strings.TrimSpace(inv.opts.APIKey) == "" {
		return nil, fmt.Errorf("%w: set LLM_API_KEY", ErrUnauthenticated)
	}

	m := &machine{user: fmt.Sprintf(userPromptTemplate, repoContext)}

	st := stateSending
	for {
		switch st {
		case stateSending:
			st = inv.stepSend(ctx, m)
		case stateRetryPending:
			inv.sleep(inv.opts.BackoffBase << (m.upstreamFailures - 1))
			st = stateSending
		case stateSucceeded:
			return &Invocation{Summary: m.result, Attempts: m.attempts, Repaired: m.repaired}, nil
		case stateFailedFinal:
			return nil, m.err
		}
	}
}

// stepSend makes one model call and decides the next state.
func (inv *Invoker) stepSend(ctx context.Context, m *machine) state {
	m.attempts++

	raw, err := inv.send(ctx, m.user)
	if err != nil {
		if !errors.Is(err, ErrUpstream) {
			// credential rejection or non-retryable refusal
			m.err = err
			return stateFailedFinal
		}
		if ctx.Err() != nil {
			// the request-level deadline is gone; every further
			// attempt would inherit the same dead context
			m.err = err
			return stateFailedFinal
		}
		m.upstreamFailures++
		if m.upstreamFailures >= inv.opts.MaxAttempts {
			m.err = fmt.Errorf("model call failed after %d attempt(s): %w", m.attempts, err)
			return stateFailedFinal
		}
		return stateRetryPending
	}

	result, verr := Validate(raw)
	if verr == nil {
		m.result = result
		return stateSucceeded
	}

	// Contract violation: one repair re-prompt, then give up.
	if m.repaired {
		m.err = verr
		return stateFailedFinal
	}
	m.repaired = true
	reason := verr.Error()
	var cv *ContractViolationError
	if errors.As(verr, &cv) {
		reason = cv.Reason
	}
	m.user = fmt.Sprintf(repairPromptTemplate, reason, clip(raw, 2000))
	return stateSending
}

func (inv *Invoker) send(ctx context.Context, user string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, inv.opts.Timeout)
	defer cancel()
	return inv.transport.Send(callCtx, systemPrompt, user)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
