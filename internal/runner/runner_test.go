package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/verity/internal/event"
	"github.com/AbdelazizMoustafa10m/verity/internal/loader"
	"github.com/AbdelazizMoustafa10m/verity/internal/metadata"
	"github.com/AbdelazizMoustafa10m/verity/internal/module"
	"github.com/AbdelazizMoustafa10m/verity/internal/module/asserts"
	"github.com/AbdelazizMoustafa10m/verity/internal/module/fixtures"
	"github.com/AbdelazizMoustafa10m/verity/internal/notification"
	"github.com/AbdelazizMoustafa10m/verity/internal/result"
)

func site() map[string]fixtures.Page {
	return map[string]fixtures.Page{
		"/login":     {Body: "Please sign in", Links: map[string]string{"submit": "/dashboard"}},
		"/dashboard": {Body: "Welcome to the dashboard"},
	}
}

func file(steps ...loader.StepSpec) *loader.File {
	return &loader.File{
		Path:    "login.scenario.toml",
		ID:      "0123456789abcdef",
		Feature: "login",
		Current: map[string]any{"user": "alice"},
		Pages:   site(),
		Steps:   steps,
	}
}

func act(action string, args ...any) loader.StepSpec {
	return loader.StepSpec{Action: action, Args: args}
}

// browser is a custom module whose actions halt the test or reach the other
// modules through the metadata services.
type browser struct {
	meta *metadata.Metadata
}

func (b *browser) Name() string { return "browser" }

func (b *browser) Actions() map[string]module.Action {
	return map[string]module.Action{
		"needsBrowser": func(context.Context, []any) (any, error) {
			return nil, result.Skip("no browser")
		},
		"pendingUpload": func(context.Context, []any) (any, error) {
			return nil, result.Incomplete("upload not written")
		},
		"seeAll": func(ctx context.Context, args []any) (any, error) {
			svc, ok := b.meta.Service(metadata.ServiceModules)
			if !ok {
				return nil, errors.New("browser: no modules service")
			}
			mods := svc.(*module.Registry)
			for _, a := range args {
				if _, err := mods.Invoke(ctx, "see", []any{a}); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
		"announce": func(_ context.Context, args []any) (any, error) {
			svc, ok := b.meta.Service(metadata.ServiceDispatcher)
			if !ok {
				return nil, errors.New("browser: no dispatcher service")
			}
			svc.(*event.Dispatcher).Publish("browser.ready", event.TestEvent{TestID: "browser"})
			return nil, nil
		},
	}
}

func withBrowser() Option {
	return WithModule("browser", func(meta *metadata.Metadata, _ *result.Result) module.Module {
		return &browser{meta: meta}
	})
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func TestRun_Passes(t *testing.T) {
	t.Parallel()

	rep := New().Run(context.Background(), file(
		act("amOnPage", "/login"),
		act("click", "submit"),
		act("see", "dashboard"),
		act("assertEquals", "alice", "alice"),
	))

	assert.Equal(t, result.StatusPassed, rep.Status)
	assert.Equal(t, 2, rep.Assertions)
	assert.Empty(t, rep.Failures)
	assert.Equal(t, "login", rep.Feature)
	assert.True(t, strings.HasPrefix(rep.Text, "I WANT TO LOGIN\r\n\r\n"))
	assert.Contains(t, rep.Text, "I click \"submit\" \r\n")
	assert.True(t, strings.HasPrefix(rep.HTML, "<h3>I WANT TO LOGIN</h3>"))
}

func TestRun_ConditionalFailureContinues(t *testing.T) {
	t.Parallel()

	rep := New().Run(context.Background(), file(
		act("amOnPage", "/login"),
		loader.StepSpec{Kind: loader.KindConditional, Action: "canSee", Args: []any{"dashboard"}},
		act("see", "sign in"),
	))

	assert.Equal(t, result.StatusFailed, rep.Status)
	assert.Equal(t, 2, rep.Assertions)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "canSee", rep.Failures[0].Step)
	assert.Contains(t, rep.Text, `I see "sign in"`)
}

func TestRun_HardAssertionStops(t *testing.T) {
	t.Parallel()

	rep := New().Run(context.Background(), file(
		act("amOnPage", "/login"),
		act("see", "dashboard"),
		act("see", "sign in"),
	))

	assert.Equal(t, result.StatusFailed, rep.Status)
	assert.Equal(t, 1, rep.Assertions)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "see", rep.Failures[0].Step)
	assert.Contains(t, rep.Failures[0].Message, "dashboard")
	assert.NotContains(t, rep.Text, "sign in")
}

func TestRun_HardErrorMarksError(t *testing.T) {
	t.Parallel()

	rep := New().Run(context.Background(), file(
		act("amOnPage", "/missing"),
		act("see", "x"),
	))

	assert.Equal(t, result.StatusError, rep.Status)
	assert.Contains(t, rep.Message, `page "/missing" does not exist`)
	assert.Empty(t, rep.Failures)
	assert.Contains(t, rep.Text, `I am on page "/missing"`)
}

func TestRun_UnknownAction(t *testing.T) {
	t.Parallel()

	rep := New().Run(context.Background(), file(act("teleport")))
	assert.Equal(t, result.StatusError, rep.Status)
	assert.Contains(t, rep.Message, "teleport")
}

func TestRun_SkipAndIncomplete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want result.Status
	}{
		{kind: loader.KindSkip, want: result.StatusSkipped},
		{kind: loader.KindIncomplete, want: result.StatusIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			t.Parallel()

			rep := New().Run(context.Background(), file(
				act("assertTrue", true),
				loader.StepSpec{Kind: tt.kind, Text: "not ready"},
				act("assertTrue", true),
			))
			assert.Equal(t, tt.want, rep.Status)
			assert.Equal(t, "not ready", rep.Message)
			assert.Equal(t, 1, rep.Assertions)
		})
	}
}

func TestRun_HaltFromAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action, msg string
		want        result.Status
	}{
		{action: "needsBrowser", msg: "no browser", want: result.StatusSkipped},
		{action: "pendingUpload", msg: "upload not written", want: result.StatusIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			t.Parallel()

			rep := New(withBrowser()).Run(context.Background(), file(
				act("assertTrue", true),
				act(tt.action),
				act("assertTrue", true),
			))
			assert.Equal(t, tt.want, rep.Status)
			assert.Equal(t, tt.msg, rep.Message)
			assert.Equal(t, 1, rep.Assertions)
			assert.Empty(t, rep.Failures)
		})
	}
}

func TestClassify_HaltMarksResult(t *testing.T) {
	t.Parallel()

	r := New()

	res := result.New()
	r.classify(res, &stepFailure{step: "needsBrowser", err: result.Skip("no browser")})
	assert.Equal(t, result.StatusSkipped, res.Status())
	assert.Equal(t, "no browser", res.Message())

	res = result.New()
	r.classify(res, &stepFailure{step: "upload", err: result.Incomplete("later")})
	assert.Equal(t, result.StatusIncomplete, res.Status())
	assert.Equal(t, "later", res.Message())

	res = result.New()
	r.classify(res, nil)
	assert.Equal(t, result.StatusPassed, res.Status())
}

func TestRun_CustomModuleUsesServices(t *testing.T) {
	t.Parallel()

	rec := &event.Recorder{}
	rep := New(withBrowser(), WithSubscriber(rec.Subscriber())).Run(context.Background(), file(
		act("amOnPage", "/login"),
		act("seeAll", "Please", "sign in"),
		act("announce"),
	))

	assert.Equal(t, result.StatusPassed, rep.Status, rep.Message)
	assert.Equal(t, 2, rep.Assertions)

	var names []string
	for _, r := range rec.Records() {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "browser.ready")
}

func TestRun_CustomModuleNameMismatch(t *testing.T) {
	t.Parallel()

	rep := New(WithModule("webdriver", func(meta *metadata.Metadata, _ *result.Result) module.Module {
		return &browser{meta: meta}
	})).Run(context.Background(), file(act("assertTrue", true)))

	assert.Equal(t, result.StatusError, rep.Status)
	assert.Contains(t, rep.Message, `module "browser" registered as "webdriver"`)
}

func TestRun_MetaGroups(t *testing.T) {
	t.Parallel()

	given := act("amOnPage", "/login")
	given.Meta = "am logged in"
	rep := New().Run(context.Background(), file(
		given,
		act("see", "sign in"),
	))

	require.Equal(t, result.StatusPassed, rep.Status)
	assert.Equal(t,
		"I WANT TO LOGIN\r\n\r\nI am logged in \r\n  I am on page \"/login\" \r\nI see \"sign in\"\r\n\r\n",
		rep.Text)
	assert.Contains(t, rep.HTML, `<div class="meta-step">I am logged in<br/>`)
}

func TestRun_GrabFixture(t *testing.T) {
	t.Parallel()

	rep := New().Run(context.Background(), file(act("grabFixture", "user")))
	assert.Equal(t, result.StatusPassed, rep.Status)

	rep = New().Run(context.Background(), file(act("grabFixture", "missing")))
	assert.Equal(t, result.StatusError, rep.Status)
}

func TestRun_Events(t *testing.T) {
	t.Parallel()

	rec := &event.Recorder{}
	New(WithSubscriber(rec.Subscriber())).Run(context.Background(), file(
		act("assertTrue", true),
		loader.StepSpec{Kind: loader.KindComment, Text: "done"},
	))

	names := make([]string, 0)
	for _, r := range rec.Records() {
		names = append(names, r.Name)
		assert.Equal(t, "0123456789abcdef", r.TestID)
	}
	assert.Equal(t, []string{
		event.EventTestStart,
		event.EventStepBefore, event.EventStepAfter,
		event.EventStepBefore, event.EventStepAfter,
		event.EventTestEnd,
	}, names)
}

func TestRun_RetiredScenarioMethod(t *testing.T) {
	t.Parallel()

	rep := New().Run(context.Background(), file(
		act("group", "smoke"),
		act("assertTrue", true),
	))

	assert.Equal(t, result.StatusPassed, rep.Status)
	require.Len(t, rep.Notices, 1)
	assert.Equal(t, notification.KindDeprecation, rep.Notices[0].Kind)
	assert.Contains(t, rep.Notices[0].Message, "scenario.group() was deprecated and removed")
	assert.NotContains(t, rep.Text, "group")
}

func TestRun_ModuleSelection(t *testing.T) {
	t.Parallel()

	rep := New(WithModules(asserts.ModuleName)).Run(context.Background(), file(act("amOnPage", "/login")))
	assert.Equal(t, result.StatusError, rep.Status)

	rep = New(WithModules(asserts.ModuleName, asserts.ModuleName)).Run(context.Background(), file(act("assertTrue", true)))
	assert.Equal(t, result.StatusPassed, rep.Status, "a module listed twice is registered once")

	rep = New(WithModules("webdriver")).Run(context.Background(), file(act("assertTrue", true)))
	assert.Equal(t, result.StatusError, rep.Status)
	assert.Contains(t, rep.Message, `unknown module "webdriver"`)
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := New().Run(ctx, file(act("assertTrue", true)))
	assert.Equal(t, result.StatusError, rep.Status)
	assert.Equal(t, 0, rep.Assertions)
}

// ---------------------------------------------------------------------------
// RunAll
// ---------------------------------------------------------------------------

const passingTOML = `
feature = "arithmetic"

[[steps]]
action = "assertEquals"
args = [4, 4]
`

const failingTOML = `
feature = "broken"

[[steps]]
action = "assertEquals"
args = [4, 5]
`

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunAll_KeepsOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeScenario(t, dir, "a.scenario.toml", passingTOML),
		writeScenario(t, dir, "b.scenario.toml", failingTOML),
		writeScenario(t, dir, "c.scenario.toml", passingTOML),
		writeScenario(t, dir, "d.scenario.toml", "feature = "),
	}

	sum, err := New(WithConcurrency(3)).RunAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, sum.Reports, 4)

	for i, rep := range sum.Reports {
		assert.Equal(t, paths[i], rep.Path)
	}
	assert.Equal(t, result.StatusPassed, sum.Reports[0].Status)
	assert.Equal(t, result.StatusFailed, sum.Reports[1].Status)
	assert.Equal(t, result.StatusError, sum.Reports[3].Status)
	assert.False(t, sum.Stopped)
	assert.True(t, sum.Failed())
	assert.Equal(t, 3, sum.Assertions())

	counts := sum.Counts()
	assert.Equal(t, 2, counts[result.StatusPassed])
	assert.Equal(t, 1, counts[result.StatusFailed])
	assert.Equal(t, 1, counts[result.StatusError])
}

func TestRunAll_FailFast(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeScenario(t, dir, "a.scenario.toml", failingTOML),
		writeScenario(t, dir, "b.scenario.toml", passingTOML),
		writeScenario(t, dir, "c.scenario.toml", passingTOML),
	}

	sum, err := New(WithFailFast(true), WithConcurrency(1)).RunAll(context.Background(), paths)
	require.NoError(t, err)
	assert.True(t, sum.Stopped)
	require.Len(t, sum.Reports, 1)
	assert.Equal(t, result.StatusFailed, sum.Reports[0].Status)
}

func TestRunAll_AllPass(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeScenario(t, dir, "a.scenario.toml", passingTOML),
		writeScenario(t, dir, "b.scenario.toml", passingTOML),
	}

	sum, err := New(WithFailFast(true), WithConcurrency(0)).RunAll(context.Background(), paths)
	require.NoError(t, err)
	assert.False(t, sum.Failed())
	assert.False(t, sum.Stopped)
	assert.Len(t, sum.Reports, 2)
}

func TestRunAll_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().RunAll(ctx, []string{"x.scenario.toml"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// ---------------------------------------------------------------------------
// WriteReports
// ---------------------------------------------------------------------------

func TestWriteReports(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "reports")
	reports := []*Report{
		{Path: "features/login.scenario.toml", ID: "0123456789abcdef", Text: "T", HTML: "<h3>H</h3>"},
		{Path: "broken.scenario.toml", ID: "ffff", Status: result.StatusError},
	}

	written, err := WriteReports(dir, "html", reports)
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, filepath.Join(dir, "login-01234567.html"), written[0])

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Equal(t, "<h3>H</h3>", string(data))

	written, err = WriteReports(dir, "text", reports)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "login-01234567.txt")}, written)
}
