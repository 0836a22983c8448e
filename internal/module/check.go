package module

import (
	"fmt"
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/AbdelazizMoustafa10m/verity/internal/step"
)

// Counter receives one call per expectation check. *result.Result satisfies
// it.
type Counter interface {
	AddAssertion()
}

// collector is the assert.TestingT handed to testify. It keeps the failure
// output instead of failing a real test.
type collector struct {
	out []string
}

func (c *collector) Errorf(format string, args ...any) {
	c.out = append(c.out, fmt.Sprintf(format, args...))
}

// Check counts one expectation on counter and runs it against a fresh
// collector. A failed check returns a *step.AssertionError holding the
// testify message, prefixed with message when it is set. A nil counter
// disables counting.
func Check(counter Counter, message string, run func(t assert.TestingT) bool) error {
	if counter != nil {
		counter.AddAssertion()
	}
	c := &collector{}
	if run(c) {
		return nil
	}
	summary := Summarize(strings.Join(c.out, "\n"))
	if message != "" {
		summary = message + ": " + summary
	}
	return &step.AssertionError{Message: summary}
}

// Summarize keeps the "Error:" section of testify's labelled failure output
// and drops the caller trace.
func Summarize(raw string) string {
	i := strings.Index(raw, "Error:")
	if i < 0 {
		return strings.TrimSpace(raw)
	}
	body := raw[i+len("Error:"):]
	for _, label := range []string{"\n\tTest:", "\n\tMessages:"} {
		if j := strings.Index(body, label); j >= 0 {
			body = body[:j]
		}
	}
	var lines []string
	for _, l := range strings.Split(body, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}
