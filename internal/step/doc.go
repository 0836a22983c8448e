// Package step defines the recorded unit of a scenario: one human-readable
// action together with its arguments, its call-site trace, and its display
// forms.
//
// A Step is a passive data and execution unit. It knows how to invoke its
// action against an Invoker and how to render itself, but it never decides
// whether it may run; the scenario package owns that policy.
package step
