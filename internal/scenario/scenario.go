// Package scenario is the step execution engine. A Scenario records the steps
// a test performs, runs each one between a BEFORE and an AFTER event,
// classifies failures as soft or hard, tracks meta-step grouping, and renders
// the recorded log as narrative text or markup.
//
// A Scenario belongs to exactly one test and is driven by the goroutine
// running that test; it performs no locking.
package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/AbdelazizMoustafa10m/verity/internal/event"
	"github.com/AbdelazizMoustafa10m/verity/internal/metadata"
	"github.com/AbdelazizMoustafa10m/verity/internal/notification"
	"github.com/AbdelazizMoustafa10m/verity/internal/result"
	"github.com/AbdelazizMoustafa10m/verity/internal/step"
)

// ErrStepAlreadyRun is returned by RunStep when a step instance is passed a
// second time.
var ErrStepAlreadyRun = errors.New("step already run")

// Test is the enclosing test as seen by the engine.
type Test interface {
	// ID identifies the test in published events.
	ID() string

	// Metadata returns the borrowed test metadata.
	Metadata() *metadata.Metadata

	// Result returns the tally soft failures are recorded against.
	Result() *result.Result
}

// Dispatcher publishes an event synchronously. *event.Dispatcher satisfies it.
type Dispatcher interface {
	Publish(name string, payload any)
}

// Scenario owns the ordered step log of one test.
type Scenario struct {
	test       Test
	dispatcher Dispatcher
	modules    step.Invoker
	logger     *log.Logger
	notifier   *notification.Notifier

	steps     []*step.Step
	attempted map[*step.Step]struct{}

	metas    map[int]*step.Step
	metaIDs  map[*step.Step]int
	activeID int
}

// Option configures a Scenario.
type Option func(*Scenario)

// WithLogger attaches a logger. When none is set the scenario logs nothing.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scenario) { s.logger = logger }
}

// WithNotifier sets the notifier that receives deprecation notices. By
// default the scenario keeps its own.
func WithNotifier(n *notification.Notifier) Option {
	return func(s *Scenario) { s.notifier = n }
}

// New creates a Scenario for test that publishes through dispatcher and runs
// actions through modules. None of the arguments may be nil.
func New(test Test, dispatcher Dispatcher, modules step.Invoker, opts ...Option) *Scenario {
	s := &Scenario{
		test:       test,
		dispatcher: dispatcher,
		modules:    modules,
		attempted:  make(map[*step.Step]struct{}),
		metas:      make(map[int]*step.Step),
		metaIDs:    make(map[*step.Step]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notification.New(s.logger)
	}
	return s
}

// RunStep records st and runs it.
//
// The step is appended to the log before it runs so a failing step still
// shows up in reports at its position. A soft failure
// (*step.ConditionalAssertionFailed) is recorded against the test result and
// swallowed; RunStep then returns (nil, nil). A *result.Halt from the action
// marks the test skipped or incomplete and is returned. Any error is returned
// after the AFTER event has been published, so every attempted step yields
// exactly one BEFORE and one AFTER event.
func (s *Scenario) RunStep(ctx context.Context, st *step.Step) (any, error) {
	if _, seen := s.attempted[st]; seen || st.Executed() {
		return nil, fmt.Errorf("scenario: step %q: %w", st.Name(), ErrStepAlreadyRun)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scenario: context cancelled before step %q: %w", st.Name(), err)
	}

	st.SaveTrace()
	if s.activeID != 0 {
		st.SetMetaID(s.activeID)
	}
	s.attempted[st] = struct{}{}
	s.steps = append(s.steps, st)

	ev := event.StepEvent{TestID: s.test.ID(), Step: st}
	s.dispatcher.Publish(event.EventStepBefore, ev)

	res, err := st.Run(ctx, s.modules)
	if err != nil {
		var soft *step.ConditionalAssertionFailed
		if !errors.As(err, &soft) {
			s.markHalt(err)
			s.dispatcher.Publish(event.EventStepAfter, ev)
			s.debug("step failed", "step", st.Name(), "error", err)
			return nil, err
		}
		s.test.Result().AddFailure(st.Name(), soft)
		s.debug("soft assertion failed", "step", st.Name(), "error", soft.Err)
		res = nil
	}

	s.dispatcher.Publish(event.EventStepAfter, ev)
	st.MarkExecuted()
	s.debug("step executed", "step", st.Name())
	return res, nil
}

// markHalt records a skip or incomplete halt returned by a step action on the
// test result. The halt is still returned to the caller.
func (s *Scenario) markHalt(err error) {
	var halt *result.Halt
	if !errors.As(err, &halt) {
		return
	}
	switch halt.Status {
	case result.StatusSkipped:
		s.test.Result().MarkSkipped(halt.Message)
	case result.StatusIncomplete:
		s.test.Result().MarkIncomplete(halt.Message)
	}
}

// AddStep appends st to the log without running it. A step added this way
// counts as attempted, so RunStep rejects it.
func (s *Scenario) AddStep(st *step.Step) {
	s.attempted[st] = struct{}{}
	s.steps = append(s.steps, st)
}

// Comment runs a comment step through RunStep so it lands in the log in
// order with real actions.
func (s *Scenario) Comment(ctx context.Context, text string) error {
	_, err := s.RunStep(ctx, step.NewComment(text))
	return err
}

// Steps returns a copy of the step log in execution order.
func (s *Scenario) Steps() []*step.Step {
	out := make([]*step.Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// SetMetaStep makes meta the active grouping for subsequently run steps. A
// nil meta clears the grouping.
func (s *Scenario) SetMetaStep(meta *step.Step) {
	if meta == nil {
		s.activeID = 0
		return
	}
	id, ok := s.metaIDs[meta]
	if !ok {
		id = len(s.metas) + 1
		s.metas[id] = meta
		s.metaIDs[meta] = id
	}
	s.activeID = id
}

// ClearMetaStep removes the active grouping.
func (s *Scenario) ClearMetaStep() { s.activeID = 0 }

// MetaStep returns the active meta step, or nil.
func (s *Scenario) MetaStep() *step.Step {
	return s.metas[s.activeID]
}

// MetaOf returns the meta step st was attributed to.
func (s *Scenario) MetaOf(st *step.Step) (*step.Step, bool) {
	m, ok := s.metas[st.MetaID()]
	return m, ok
}

// RunMeta runs fn with meta as the active grouping and restores the previous
// grouping afterwards, also when fn fails or panics.
func (s *Scenario) RunMeta(ctx context.Context, meta *step.Step, fn func(ctx context.Context) error) error {
	prev := s.activeID
	s.SetMetaStep(meta)
	defer func() { s.activeID = prev }()
	return fn(ctx)
}

// SetFeature sets the feature title on the test metadata.
func (s *Scenario) SetFeature(feature string) { s.test.Metadata().SetFeature(feature) }

// Feature returns the feature title.
func (s *Scenario) Feature() string { return s.test.Metadata().Feature() }

// Current returns the fixture value stored under key.
func (s *Scenario) Current(key string) (any, bool) { return s.test.Metadata().Current(key) }

// Skip marks the test skipped and returns the halt the caller should return.
func (s *Scenario) Skip(msg string) error {
	s.test.Result().MarkSkipped(msg)
	return result.Skip(msg)
}

// Incomplete marks the test incomplete and returns the halt the caller should
// return.
func (s *Scenario) Incomplete(msg string) error {
	s.test.Result().MarkIncomplete(msg)
	return result.Incomplete(msg)
}

// Notices returns the notices raised through this scenario's notifier.
func (s *Scenario) Notices() []notification.Notice { return s.notifier.All() }

func (s *Scenario) debug(msg string, kvs ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg, append([]any{"test", s.test.ID()}, kvs...)...)
}
