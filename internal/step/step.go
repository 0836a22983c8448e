package step

import (
	"context"
	"errors"
	"runtime"
	"strings"
)

// Kind classifies a Step.
type Kind string

const (
	// KindAction is a plain action performed against the module registry.
	KindAction Kind = "action"

	// KindComment is a narrative-only entry. Running it has no side effect.
	KindComment Kind = "comment"

	// KindMeta is a grouping label that nested steps attribute themselves to.
	KindMeta Kind = "meta"

	// KindConditional is an assertion whose failure is recorded but does not
	// abort the scenario.
	KindConditional Kind = "conditional"
)

// Invoker executes a named action with its arguments. The module registry is
// the production implementation.
type Invoker interface {
	Invoke(ctx context.Context, action string, args []any) (any, error)
}

// Trace records where a step was created.
type Trace struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// IsZero reports whether no trace has been captured.
func (t Trace) IsZero() bool { return t.File == "" && t.Line == 0 }

// Step is one recorded action. Name, arguments and trace are fixed at
// construction; the executed flag only ever moves from false to true.
type Step struct {
	kind    Kind
	name    string
	args    []any
	keyword string
	trace   Trace
	metaID  int

	executed bool

	humanized     string
	humanizedDone bool
}

// New creates a plain action step and captures the caller as its trace.
func New(name string, args ...any) *Step {
	s := newStep(KindAction, name, args)
	s.trace = captureTrace(2)
	return s
}

// NewMeta creates a meta step used to group the steps run beneath it.
func NewMeta(name string, args ...any) *Step {
	s := newStep(KindMeta, name, args)
	s.trace = captureTrace(2)
	return s
}

// NewConditional creates a soft assertion step. The name is expected to start
// with "can" or "cant"; the action actually invoked drops that prefix, so
// "canSeeEquals" runs "seeEquals" and "cantSeeEquals" runs "dontSeeEquals".
func NewConditional(name string, args ...any) *Step {
	s := newStep(KindConditional, name, args)
	s.trace = captureTrace(2)
	return s
}

// NewComment creates a narrative entry. Comments carry no trace.
func NewComment(text string) *Step {
	return newStep(KindComment, "comment", []any{text})
}

func newStep(kind Kind, name string, args []any) *Step {
	copied := make([]any, len(args))
	copy(copied, args)
	return &Step{kind: kind, name: name, args: copied}
}

// WithKeyword sets the Given/When/Then style keyword used as the text prefix
// and returns the step for chaining. It must be called before the step is
// recorded.
func (s *Step) WithKeyword(keyword string) *Step {
	s.keyword = strings.TrimSpace(keyword)
	return s
}

// Kind returns the step variant.
func (s *Step) Kind() Kind { return s.kind }

// Name returns the action name as recorded.
func (s *Step) Name() string { return s.name }

// Keyword returns the Given/When/Then keyword, or "" when none was set.
func (s *Step) Keyword() string { return s.keyword }

// Action returns the name of the action the step invokes.
func (s *Step) Action() string {
	if s.kind != KindConditional {
		return s.name
	}
	switch {
	case strings.HasPrefix(s.name, "cant"):
		return "dont" + s.name[len("cant"):]
	case strings.HasPrefix(s.name, "can"):
		rest := s.name[len("can"):]
		if rest == "" {
			return s.name
		}
		return strings.ToLower(rest[:1]) + rest[1:]
	default:
		return s.name
	}
}

// Arguments returns a copy of the step arguments.
func (s *Step) Arguments() []any {
	out := make([]any, len(s.args))
	copy(out, s.args)
	return out
}

// Trace returns the captured call-site trace. It is the zero value for
// comments.
func (s *Step) Trace() Trace { return s.trace }

// SaveTrace captures the caller of the method that invoked SaveTrace as the
// step trace. It does nothing when a trace is already present or when the
// step is a comment.
func (s *Step) SaveTrace() {
	if s.kind == KindComment || !s.trace.IsZero() {
		return
	}
	s.trace = captureTrace(3)
}

// Executed reports whether the step completed.
func (s *Step) Executed() bool { return s.executed }

// MarkExecuted records that the step completed. It is idempotent.
func (s *Step) MarkExecuted() { s.executed = true }

// MetaID returns the identifier of the meta step that was active when this
// step was recorded, or 0 when there was none.
func (s *Step) MetaID() int { return s.metaID }

// SetMetaID attributes the step to the meta step with the given identifier.
func (s *Step) SetMetaID(id int) { s.metaID = id }

// Run invokes the step's action. Comments return immediately. A conditional
// step converts an *AssertionError from the action into a
// *ConditionalAssertionFailed; every other error is returned unchanged.
func (s *Step) Run(ctx context.Context, inv Invoker) (any, error) {
	if s.kind == KindComment {
		return nil, nil
	}
	res, err := inv.Invoke(ctx, s.Action(), s.Arguments())
	if err == nil {
		return res, nil
	}
	if s.kind == KindConditional {
		var ae *AssertionError
		if errors.As(err, &ae) {
			return nil, &ConditionalAssertionFailed{Step: s.name, Err: err}
		}
	}
	return res, err
}

func captureTrace(skip int) Trace {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Trace{}
	}
	t := Trace{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		t.Function = fn.Name()
	}
	return t
}
