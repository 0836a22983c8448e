// Package event publishes scenario lifecycle notifications to subscribers.
//
// Publishing is synchronous: every subscriber runs to completion, in
// subscription order, before Publish returns.
package event

import (
	"github.com/AbdelazizMoustafa10m/verity/internal/result"
	"github.com/AbdelazizMoustafa10m/verity/internal/step"
)

// Event names. String values are used so they read well in structured logs.
const (
	// EventStepBefore is published before a step runs.
	EventStepBefore = "step.before"

	// EventStepAfter is published after a step runs, on success, on a soft
	// failure, and on a hard failure alike.
	EventStepAfter = "step.after"

	// EventTestStart is published by the runner before the first step.
	EventTestStart = "test.start"

	// EventTestEnd is published by the runner after the outcome is known.
	EventTestEnd = "test.end"
)

// StepEvent is the payload of EventStepBefore and EventStepAfter.
type StepEvent struct {
	// TestID identifies the test the step belongs to.
	TestID string

	// Step is the step being run. Subscribers must treat it as read-only.
	Step *step.Step
}

// TestEvent is the payload of EventTestStart and EventTestEnd. Status is
// empty for EventTestStart.
type TestEvent struct {
	TestID  string
	Feature string
	Status  result.Status
}
