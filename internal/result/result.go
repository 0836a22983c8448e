// Package result tracks the outcome of a single test: the assertion tally,
// recorded failures, and the final status.
package result

import (
	"errors"
	"fmt"
	"time"
)

// Status is the outcome of a test.
type Status string

const (
	StatusPassed     Status = "passed"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
	StatusIncomplete Status = "incomplete"
	StatusError      Status = "error"
)

// Failure is one recorded assertion failure.
type Failure struct {
	Step    string    `json:"step"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Result is the tally for one test. It is owned by the goroutine running the
// test and is not safe for concurrent use.
type Result struct {
	assertions int
	failures   []Failure
	status     Status
	message    string
}

// New returns an empty Result.
func New() *Result {
	return &Result{failures: []Failure{}}
}

// AddAssertion counts one expectation check.
func (r *Result) AddAssertion() { r.assertions++ }

// AddFailure records a failed assertion attributed to stepName.
func (r *Result) AddFailure(stepName string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	r.failures = append(r.failures, Failure{Step: stepName, Message: msg, At: time.Now()})
}

// Assertions returns the number of expectation checks performed.
func (r *Result) Assertions() int { return r.assertions }

// Failures returns a copy of the recorded failures.
func (r *Result) Failures() []Failure {
	out := make([]Failure, len(r.failures))
	copy(out, r.failures)
	return out
}

// MarkSkipped records a skipped outcome.
func (r *Result) MarkSkipped(msg string) { r.status, r.message = StatusSkipped, msg }

// MarkIncomplete records an incomplete outcome.
func (r *Result) MarkIncomplete(msg string) { r.status, r.message = StatusIncomplete, msg }

// MarkError records that the test aborted on a hard failure.
func (r *Result) MarkError(err error) {
	r.status = StatusError
	if err != nil {
		r.message = err.Error()
	}
}

// Status returns the outcome. An explicit skip, incomplete or error mark takes
// precedence; otherwise the test failed when any failure was recorded.
func (r *Result) Status() Status {
	if r.status != "" {
		return r.status
	}
	if len(r.failures) > 0 {
		return StatusFailed
	}
	return StatusPassed
}

// Message returns the message attached to an explicit outcome mark.
func (r *Result) Message() string { return r.message }

// Halt is returned to stop a test with a non-error outcome such as skipped or
// incomplete. The runner inspects it with OutcomeOf.
type Halt struct {
	Status  Status
	Message string
}

func (h *Halt) Error() string {
	if h.Message == "" {
		return string(h.Status)
	}
	return fmt.Sprintf("%s: %s", h.Status, h.Message)
}

// Skip returns a Halt marking the test skipped.
func Skip(msg string) *Halt { return &Halt{Status: StatusSkipped, Message: msg} }

// Incomplete returns a Halt marking the test incomplete.
func Incomplete(msg string) *Halt { return &Halt{Status: StatusIncomplete, Message: msg} }

// OutcomeOf classifies err: nil is passed, a Halt anywhere in the chain yields
// its status, and anything else is an error.
func OutcomeOf(err error) (Status, string) {
	if err == nil {
		return StatusPassed, ""
	}
	var h *Halt
	if errors.As(err, &h) {
		return h.Status, h.Message
	}
	return StatusError, err.Error()
}
