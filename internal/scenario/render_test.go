package scenario

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/verity/internal/step"
)

func loginScenario(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, nil)
	f.sc.SetFeature("login")
	ctx := context.Background()
	require.NoError(t, f.sc.Comment(ctx, "given a user"))
	require.NoError(t, runAll(ctx, f.sc, step.New("click", "submit"), step.New("see", "dashboard")))
	return f
}

func TestText_LoginScenario(t *testing.T) {
	t.Parallel()

	f := loginScenario(t)
	text := f.sc.Text()

	assert.Equal(t,
		"I WANT TO LOGIN\r\n\r\ngiven a user \r\nI click \"submit\" \r\nI see \"dashboard\"\r\n\r\n",
		text,
	)

	require.True(t, strings.HasPrefix(text, "I WANT TO LOGIN"))
	var lines []string
	for _, l := range strings.Split(text, "\r\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	assert.Equal(t, []string{"I WANT TO LOGIN", "given a user", `I click "submit"`, `I see "dashboard"`}, lines)
}

func TestHTML_LoginScenario(t *testing.T) {
	t.Parallel()

	f := loginScenario(t)

	assert.Equal(t,
		`<h3>I WANT TO LOGIN</h3>given a user<br/>`+
			`I click <span class="step-arguments">"submit"</span><br/>`+
			`I see <span class="step-arguments">"dashboard"</span><br/>`,
		f.sc.HTML(),
	)
}

func TestHTML_CommentHasNoActionForm(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	require.NoError(t, f.sc.Comment(context.Background(), "only narrative"))

	html := f.sc.HTML()
	assert.Contains(t, html, "only narrative<br/>")
	assert.NotContains(t, html, "comment")
	assert.NotContains(t, html, "step-arguments")
	assert.NotContains(t, html, `"only narrative"`)
}

func TestRender_IsIdempotent(t *testing.T) {
	t.Parallel()

	f := loginScenario(t)
	stepsBefore := f.sc.Steps()

	assert.Equal(t, f.sc.Text(), f.sc.Text())
	assert.Equal(t, f.sc.HTML(), f.sc.HTML())
	assert.Equal(t, stepsBefore, f.sc.Steps())
	assert.Len(t, f.recorder.Records(), 6, "rendering publishes nothing")
}

func TestRender_MidScenario(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.sc.SetFeature("checkout")
	ctx := context.Background()
	_, err := f.sc.RunStep(ctx, step.New("click", "cart"))
	require.NoError(t, err)

	partial := f.sc.Text()
	_, err = f.sc.RunStep(ctx, step.New("click", "pay"))
	require.NoError(t, err)

	assert.Equal(t, "I WANT TO CHECKOUT\r\n\r\nI click \"cart\"\r\n\r\n", partial)
	assert.Contains(t, f.sc.Text(), `I click "pay"`)
}

func TestRender_IncludesFailedAndAddedSteps(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]error{"click": assertErr("x")})
	f.sc.SetFeature("report")
	f.sc.AddStep(step.NewComment("declared only"))
	_, err := f.sc.RunStep(context.Background(), step.New("click", "broken"))
	require.Error(t, err)

	text := f.sc.Text()
	assert.Contains(t, text, "declared only")
	assert.Contains(t, text, `I click "broken"`)
}

func TestRender_QuoteNormalization(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.sc.SetFeature("quotes")
	_, err := f.sc.RunStep(context.Background(), step.New("see", "'hello'"))
	require.NoError(t, err)

	assert.Contains(t, f.sc.Text(), "I see 'hello'")
	assert.Contains(t, f.sc.HTML(), `<span class="step-arguments">'hello'</span>`)
}

func TestRender_MetaGrouping(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.sc.SetFeature("login")
	ctx := context.Background()

	_, err := f.sc.RunStep(ctx, step.New("amOnPage", "/"))
	require.NoError(t, err)
	require.NoError(t, f.sc.RunMeta(ctx, step.NewMeta("logInAs", "alice"), func(ctx context.Context) error {
		return runAll(ctx, f.sc, step.New("fillField", "user", "alice"), step.New("click", "submit"))
	}))
	_, err = f.sc.RunStep(ctx, step.New("see", "dashboard"))
	require.NoError(t, err)

	assert.Equal(t,
		"I WANT TO LOGIN\r\n\r\n"+
			"I am on page \"/\" \r\n"+
			"I log in as \"alice\" \r\n"+
			"  I fill field \"user\",\"alice\" \r\n"+
			"  I click \"submit\" \r\n"+
			"I see \"dashboard\"\r\n\r\n",
		f.sc.Text(),
	)

	assert.Equal(t,
		`<h3>I WANT TO LOGIN</h3>`+
			`I am on page <span class="step-arguments">"/"</span><br/>`+
			`<div class="meta-step">I log in as <span class="step-arguments">"alice"</span><br/>`+
			`I fill field <span class="step-arguments">"user","alice"</span><br/>`+
			`I click <span class="step-arguments">"submit"</span><br/></div>`+
			`I see <span class="step-arguments">"dashboard"</span><br/>`,
		f.sc.HTML(),
	)
}

func TestText_KeywordPrefix(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.sc.SetFeature("search")
	ctx := context.Background()
	require.NoError(t, runAll(ctx, f.sc,
		step.New("amOnPage", "/").WithKeyword("Given"),
		step.New("search", "go").WithKeyword("When"),
		step.New("see", "results").WithKeyword("Then"),
	))

	assert.Equal(t,
		"I WANT TO SEARCH\r\n\r\nGiven am on page \"/\" \r\nWhen search \"go\" \r\nThen see \"results\"\r\n\r\n",
		f.sc.Text(),
	)
}

func TestText_EmptyLog(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.sc.SetFeature("nothing")
	assert.Equal(t, "I WANT TO NOTHING\r\n\r\n\r\n\r\n", f.sc.Text())
	assert.Equal(t, "<h3>I WANT TO NOTHING</h3>", f.sc.HTML())
}

func TestText_TypedNilArguments(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.sc.SetFeature("check")
	require.NoError(t, runAll(context.Background(), f.sc,
		step.New("see", (*time.Time)(nil)),
		step.New("seeFile", (*fs.PathError)(nil)),
	))

	var text, html string
	require.NotPanics(t, func() {
		text = f.sc.Text()
		html = f.sc.HTML()
	})
	assert.Equal(t, "I WANT TO CHECK\r\n\r\nI see null \r\nI see file null\r\n\r\n", text)
	assert.Contains(t, html, `I see <span class="step-arguments">null</span><br/>`)
}

func assertErr(msg string) error { return &step.AssertionError{Message: msg} }
