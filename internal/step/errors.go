package step

import "fmt"

// AssertionError is returned by an action whose expectation did not hold.
// Outside a conditional step it is a hard failure.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	if e.Message == "" {
		return "assertion failed"
	}
	return "assertion failed: " + e.Message
}

// ConditionalAssertionFailed is the soft failure signal raised by a
// conditional step. The scenario records it and carries on.
type ConditionalAssertionFailed struct {
	Step string
	Err  error
}

func (e *ConditionalAssertionFailed) Error() string {
	return fmt.Sprintf("conditional assertion %q failed: %v", e.Step, e.Err)
}

func (e *ConditionalAssertionFailed) Unwrap() error { return e.Err }
