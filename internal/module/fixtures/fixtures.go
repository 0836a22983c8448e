// Package fixtures provides an in-memory page model that file-driven
// scenarios can act against without a real browser, plus access to the
// test's current fixture values.
package fixtures

import (
	"context"
	"errors"
	"fmt"

	"github.com/stretchr/testify/assert"

	"github.com/AbdelazizMoustafa10m/verity/internal/metadata"
	"github.com/AbdelazizMoustafa10m/verity/internal/module"
)

// ModuleName is the registry name of the fixtures module.
const ModuleName = "fixtures"

// Page is one page of the in-memory site.
type Page struct {
	// Body is the visible text of the page.
	Body string `toml:"body" yaml:"body"`

	// Links maps a link or button label to the URL it navigates to.
	Links map[string]string `toml:"links" yaml:"links"`
}

// Counter receives one call per expectation check.
type Counter = module.Counter

// Fixtures is the module state: the site, the current URL and the values
// typed into fields.
type Fixtures struct {
	meta    *metadata.Metadata
	counter Counter
	pages   map[string]Page
	url     string
	fields  map[string]string
}

// New creates the module. meta may be nil when no fixture values are needed.
func New(meta *metadata.Metadata, counter Counter, pages map[string]Page) *Fixtures {
	p := make(map[string]Page, len(pages))
	for url, page := range pages {
		p[url] = page
	}
	return &Fixtures{
		meta:    meta,
		counter: counter,
		pages:   p,
		fields:  map[string]string{},
	}
}

// Name implements module.Module.
func (f *Fixtures) Name() string { return ModuleName }

// Actions implements module.Module.
func (f *Fixtures) Actions() map[string]module.Action {
	return map[string]module.Action{
		"amOnPage":                f.withString(f.AmOnPage),
		"click":                   f.withString(f.Click),
		"fillField":               f.withTwoStrings(f.FillField),
		"see":                     f.withString(f.See),
		"dontSee":                 f.withString(f.DontSee),
		"seeInField":              f.withTwoStrings(f.SeeInField),
		"dontSeeInField":          f.withTwoStrings(f.DontSeeInField),
		"seeCurrentUrlEquals":     f.withString(f.SeeCurrentURLEquals),
		"dontSeeCurrentUrlEquals": f.withString(f.DontSeeCurrentURLEquals),
		"grabFromField": func(_ context.Context, args []any) (any, error) {
			name, err := module.String(args, 0)
			if err != nil {
				return nil, err
			}
			return f.fields[name], nil
		},
		"grabFixture": func(_ context.Context, args []any) (any, error) {
			key, err := module.String(args, 0)
			if err != nil {
				return nil, err
			}
			return f.GrabFixture(key)
		},
	}
}

// URL returns the current page URL.
func (f *Fixtures) URL() string { return f.url }

// AmOnPage navigates to url. The page must exist.
func (f *Fixtures) AmOnPage(url string) error {
	if _, ok := f.pages[url]; !ok {
		return fmt.Errorf("fixtures: page %q does not exist", url)
	}
	f.url = url
	f.fields = map[string]string{}
	return nil
}

// Click follows the link labelled label on the current page.
func (f *Fixtures) Click(label string) error {
	page, err := f.current()
	if err != nil {
		return err
	}
	target, ok := page.Links[label]
	if !ok {
		return fmt.Errorf("fixtures: no link or button %q on %q", label, f.url)
	}
	return f.AmOnPage(target)
}

// FillField types value into the named field of the current page.
func (f *Fixtures) FillField(field, value string) error {
	if _, err := f.current(); err != nil {
		return err
	}
	f.fields[field] = value
	return nil
}

// See checks that the current page shows text.
func (f *Fixtures) See(text string) error {
	page, err := f.current()
	if err != nil {
		return err
	}
	return f.expect(f.onPage(), func(t assert.TestingT) bool { return assert.Contains(t, page.Body, text) })
}

// DontSee checks that the current page does not show text.
func (f *Fixtures) DontSee(text string) error {
	page, err := f.current()
	if err != nil {
		return err
	}
	return f.expect(f.onPage(), func(t assert.TestingT) bool { return assert.NotContains(t, page.Body, text) })
}

// SeeInField checks the value typed into field.
func (f *Fixtures) SeeInField(field, value string) error {
	got := f.fields[field]
	return f.expect(fmt.Sprintf("field %q", field), func(t assert.TestingT) bool { return assert.Equal(t, value, got) })
}

// DontSeeInField checks that field does not hold value.
func (f *Fixtures) DontSeeInField(field, value string) error {
	got := f.fields[field]
	return f.expect(fmt.Sprintf("field %q", field), func(t assert.TestingT) bool { return assert.NotEqual(t, value, got) })
}

// SeeCurrentURLEquals checks the current URL.
func (f *Fixtures) SeeCurrentURLEquals(url string) error {
	return f.expect("current url", func(t assert.TestingT) bool { return assert.Equal(t, url, f.url) })
}

// DontSeeCurrentURLEquals checks that the current URL is not url.
func (f *Fixtures) DontSeeCurrentURLEquals(url string) error {
	return f.expect("current url", func(t assert.TestingT) bool { return assert.NotEqual(t, url, f.url) })
}

// GrabFixture returns the current fixture value stored under key.
func (f *Fixtures) GrabFixture(key string) (any, error) {
	if f.meta == nil {
		return nil, errors.New("fixtures: no metadata attached")
	}
	v, ok := f.meta.Current(key)
	if !ok {
		return nil, fmt.Errorf("fixtures: no current value %q", key)
	}
	return v, nil
}

func (f *Fixtures) current() (Page, error) {
	if f.url == "" {
		return Page{}, errors.New("fixtures: no page opened, call amOnPage first")
	}
	return f.pages[f.url], nil
}

func (f *Fixtures) onPage() string { return fmt.Sprintf("on %q", f.url) }

// expect counts one check and runs it through module.Check, so page checks
// fail with the same testify messages as the asserts module.
func (f *Fixtures) expect(label string, run func(t assert.TestingT) bool) error {
	return module.Check(f.counter, label, run)
}

func (f *Fixtures) withString(fn func(string) error) module.Action {
	return func(_ context.Context, args []any) (any, error) {
		s, err := module.String(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, fn(s)
	}
}

func (f *Fixtures) withTwoStrings(fn func(a, b string) error) module.Action {
	return func(_ context.Context, args []any) (any, error) {
		a, err := module.String(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := module.String(args, 1)
		if err != nil {
			return nil, err
		}
		return nil, fn(a, b)
	}
}
