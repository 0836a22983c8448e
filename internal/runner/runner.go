// Package runner executes loaded scenario files against a fresh module
// registry and collects one Report per file.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/AbdelazizMoustafa10m/verity/internal/event"
	"github.com/AbdelazizMoustafa10m/verity/internal/loader"
	"github.com/AbdelazizMoustafa10m/verity/internal/metadata"
	"github.com/AbdelazizMoustafa10m/verity/internal/module"
	"github.com/AbdelazizMoustafa10m/verity/internal/module/asserts"
	"github.com/AbdelazizMoustafa10m/verity/internal/module/fixtures"
	"github.com/AbdelazizMoustafa10m/verity/internal/notification"
	"github.com/AbdelazizMoustafa10m/verity/internal/result"
	"github.com/AbdelazizMoustafa10m/verity/internal/scenario"
	"github.com/AbdelazizMoustafa10m/verity/internal/step"
)

// Report is the outcome of one scenario file.
type Report struct {
	Path       string
	ID         string
	Feature    string
	Status     result.Status
	Message    string
	Assertions int
	Failures   []result.Failure
	Notices    []notification.Notice
	Text       string
	HTML       string
	Duration   time.Duration
}

// Runner executes scenario files.
type Runner struct {
	modules     []string
	concurrency int
	failFast    bool
	logger      *log.Logger
	subscribers []event.Subscriber
	factories   map[string]ModuleFactory
}

// ModuleFactory builds a module for one scenario run. meta carries the
// test's fixture values and, once the scenario is wired, the
// metadata.ServiceDispatcher and metadata.ServiceModules handles.
type ModuleFactory func(meta *metadata.Metadata, res *result.Result) module.Module

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger passed to dispatchers, scenarios and notifiers.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithModules selects the modules registered for every scenario, by name.
func WithModules(names ...string) Option {
	return func(r *Runner) { r.modules = append([]string(nil), names...) }
}

// WithModule makes a custom module available under name and enables it. A
// later WithModules call replaces the enabled set and may leave it out.
func WithModule(name string, fn ModuleFactory) Option {
	return func(r *Runner) {
		if r.factories == nil {
			r.factories = map[string]ModuleFactory{}
		}
		r.factories[name] = fn
		r.modules = append(r.modules, name)
	}
}

// WithConcurrency sets how many scenario files RunAll executes at once.
// Values below 1 are clamped to 1.
func WithConcurrency(n int) Option {
	return func(r *Runner) { r.concurrency = n }
}

// WithFailFast makes RunAll stop scheduling files after the first failed or
// errored report.
func WithFailFast(on bool) Option {
	return func(r *Runner) { r.failFast = on }
}

// WithSubscriber adds a subscriber to every scenario's dispatcher. With a
// concurrency above 1 it is called from several goroutines.
func WithSubscriber(fn event.Subscriber) Option {
	return func(r *Runner) { r.subscribers = append(r.subscribers, fn) }
}

// New creates a Runner. By default every known module is enabled and files
// run one at a time.
func New(opts ...Option) *Runner {
	r := &Runner{
		modules:     []string{asserts.ModuleName, fixtures.ModuleName},
		concurrency: 1,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency < 1 {
		r.concurrency = 1
	}
	return r
}

// RunFile loads path and runs it. A file that cannot be loaded yields an
// error-status report rather than an error.
func (r *Runner) RunFile(ctx context.Context, path string) *Report {
	f, err := loader.Load(path)
	if err != nil {
		r.logger.Error("loading scenario", "path", path, "error", err)
		return &Report{Path: path, Status: result.StatusError, Message: err.Error()}
	}
	return r.Run(ctx, f)
}

// Run executes the steps of f in order and reports the outcome.
func (r *Runner) Run(ctx context.Context, f *loader.File) *Report {
	start := time.Now()

	res := result.New()
	meta := metadata.New(f.Current)
	test := scenario.NewTestCase(f.ID, meta, res)

	reg, err := r.registry(meta, res, f.Pages)
	if err != nil {
		res.MarkError(err)
		return r.report(f, res, nil, start)
	}

	disp := event.NewDispatcher(event.WithLogger(r.logger))
	disp.SubscribeAll(event.LogSubscriber(r.logger))
	for _, fn := range r.subscribers {
		disp.SubscribeAll(fn)
	}
	meta.SetService(metadata.ServiceDispatcher, disp)
	meta.SetService(metadata.ServiceModules, reg)

	sc := scenario.New(test, disp, reg,
		scenario.WithLogger(r.logger),
		scenario.WithNotifier(notification.New(r.logger)),
	)
	sc.SetFeature(f.Feature)

	disp.Publish(event.EventTestStart, event.TestEvent{TestID: f.ID, Feature: f.Feature})
	r.classify(res, r.execute(ctx, sc, f))
	disp.Publish(event.EventTestEnd, event.TestEvent{TestID: f.ID, Feature: f.Feature, Status: res.Status()})

	return r.report(f, res, sc, start)
}

func (r *Runner) registry(meta *metadata.Metadata, res *result.Result, pages map[string]fixtures.Page) (*module.Registry, error) {
	reg := module.NewRegistry()
	for _, name := range r.modules {
		if _, ok := reg.Module(name); ok {
			continue
		}
		switch name {
		case asserts.ModuleName:
			reg.Register(asserts.New(res))
		case fixtures.ModuleName:
			reg.Register(fixtures.New(meta, res, pages))
		default:
			fn, ok := r.factories[name]
			if !ok {
				return nil, fmt.Errorf("runner: unknown module %q", name)
			}
			m := fn(meta, res)
			if m.Name() != name {
				return nil, fmt.Errorf("runner: module %q registered as %q", m.Name(), name)
			}
			reg.Register(m)
		}
	}
	return reg, nil
}

func (r *Runner) execute(ctx context.Context, sc *scenario.Scenario, f *loader.File) error {
	for _, g := range f.Groups() {
		if g.Label == "" {
			if err := runSpecs(ctx, sc, g.Steps); err != nil {
				return err
			}
			continue
		}
		err := sc.RunMeta(ctx, step.NewMeta(g.Label), func(ctx context.Context) error {
			return runSpecs(ctx, sc, g.Steps)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// stepFailure ties a hard failure to the step that raised it.
type stepFailure struct {
	step string
	err  error
}

func (e *stepFailure) Error() string { return e.err.Error() }
func (e *stepFailure) Unwrap() error { return e.err }

func runSpecs(ctx context.Context, sc *scenario.Scenario, specs []loader.StepSpec) error {
	for _, spec := range specs {
		if spec.IsHalt() {
			if spec.EffectiveKind() == loader.KindSkip {
				return sc.Skip(spec.Text)
			}
			return sc.Incomplete(spec.Text)
		}
		if spec.EffectiveKind() == loader.KindAction && scenario.IsRetired(spec.Action) {
			sc.Call(spec.Action, spec.Args...)
			continue
		}
		st, err := spec.Build()
		if err != nil {
			return err
		}
		if _, err := sc.RunStep(ctx, st); err != nil {
			return &stepFailure{step: st.Name(), err: err}
		}
	}
	return nil
}

// classify records err on res. A failed assertion of a plain step fails the
// test. A skip or incomplete halt marks the matching status, whether the
// scenario raised it or a step action returned it. Any other error aborts the
// test with an error status.
func (r *Runner) classify(res *result.Result, err error) {
	if err == nil {
		return
	}
	var assertion *step.AssertionError
	var sf *stepFailure
	if errors.As(err, &assertion) && errors.As(err, &sf) {
		res.AddFailure(sf.step, assertion)
		return
	}
	switch status, msg := result.OutcomeOf(err); status {
	case result.StatusSkipped:
		res.MarkSkipped(msg)
		return
	case result.StatusIncomplete:
		res.MarkIncomplete(msg)
		return
	}
	res.MarkError(err)
}

func (r *Runner) report(f *loader.File, res *result.Result, sc *scenario.Scenario, start time.Time) *Report {
	rep := &Report{
		Path:       f.Path,
		ID:         f.ID,
		Feature:    f.Feature,
		Status:     res.Status(),
		Message:    res.Message(),
		Assertions: res.Assertions(),
		Failures:   res.Failures(),
		Duration:   time.Since(start),
	}
	if sc != nil {
		rep.Notices = sc.Notices()
		rep.Text = sc.Text()
		rep.HTML = sc.HTML()
	}
	r.logger.Info("scenario finished",
		"path", rep.Path,
		"status", rep.Status,
		"assertions", rep.Assertions,
		"failures", len(rep.Failures),
		"duration", rep.Duration,
	)
	return rep
}
