package asserts

import (
	"context"
	"fmt"

	"github.com/AbdelazizMoustafa10m/verity/internal/module"
)

// Actions implements module.Module. The see/dontSee aliases exist so the
// checks can be run as conditional steps, e.g. canSeeEquals.
func (a *Asserts) Actions() map[string]module.Action {
	actions := map[string]module.Action{
		"assertEquals":             a.pair(a.AssertEquals),
		"assertNotEquals":          a.pair(a.AssertNotEquals),
		"assertSame":               a.pair(a.AssertSame),
		"assertNotSame":            a.pair(a.AssertNotSame),
		"assertGreaterThan":        a.numeric(a.AssertGreaterThan),
		"assertGreaterThanOrEqual": a.numeric(a.AssertGreaterThanOrEqual),
		"assertLessThan":           a.numeric(a.AssertLessThan),
		"assertLessThanOrEqual":    a.numeric(a.AssertLessThanOrEqual),
		"assertContains":           a.pair(a.AssertContains),
		"assertNotContains":        a.pair(a.AssertNotContains),
		"assertRegExp":             a.stringPair(a.AssertRegExp),
		"assertNotRegExp":          a.stringPair(a.AssertNotRegExp),
		"assertEmpty":              a.single(a.AssertEmpty),
		"assertNotEmpty":           a.single(a.AssertNotEmpty),
		"assertNull":               a.single(a.AssertNull),
		"assertNotNull":            a.single(a.AssertNotNull),
		"assertTrue":               a.boolean(a.AssertTrue),
		"assertFalse":              a.boolean(a.AssertFalse),
		"assertFileExists":         a.path(a.AssertFileExists),
		"assertFileNotExists":      a.path(a.AssertFileNotExists),
		"assertArrayHasKey":        a.pair(a.AssertArrayHasKey),
		"assertArrayNotHasKey":     a.pair(a.AssertArrayNotHasKey),
		"assertInstanceOf":         a.pair(a.AssertInstanceOf),
		"assertNotInstanceOf":      a.pair(a.AssertNotInstanceOf),
		"assertInternalType": func(_ context.Context, args []any) (any, error) {
			typ, err := module.String(args, 0)
			if err != nil {
				return nil, err
			}
			v, err := module.Arg(args, 1)
			if err != nil {
				return nil, err
			}
			return nil, a.AssertInternalType(typ, v, module.OptionalString(args, 2))
		},
		"fail": func(_ context.Context, args []any) (any, error) {
			return nil, a.Fail(module.OptionalString(args, 0))
		},
	}
	actions["assertGreaterOrEquals"] = actions["assertGreaterThanOrEqual"]
	actions["assertLessOrEquals"] = actions["assertLessThanOrEqual"]
	actions["assertIsEmpty"] = actions["assertEmpty"]
	actions["seeEquals"] = actions["assertEquals"]
	actions["dontSeeEquals"] = actions["assertNotEquals"]
	actions["seeContains"] = actions["assertContains"]
	actions["dontSeeContains"] = actions["assertNotContains"]
	return actions
}

func (a *Asserts) pair(fn func(x, y any, msg string) error) module.Action {
	return func(_ context.Context, args []any) (any, error) {
		x, err := module.Arg(args, 0)
		if err != nil {
			return nil, err
		}
		y, err := module.Arg(args, 1)
		if err != nil {
			return nil, err
		}
		return nil, fn(x, y, module.OptionalString(args, 2))
	}
}

func (a *Asserts) single(fn func(x any, msg string) error) module.Action {
	return func(_ context.Context, args []any) (any, error) {
		x, err := module.Arg(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, fn(x, module.OptionalString(args, 1))
	}
}

func (a *Asserts) numeric(fn func(x, y float64, msg string) error) module.Action {
	return func(_ context.Context, args []any) (any, error) {
		x, err := module.Float(args, 0)
		if err != nil {
			return nil, err
		}
		y, err := module.Float(args, 1)
		if err != nil {
			return nil, err
		}
		return nil, fn(x, y, module.OptionalString(args, 2))
	}
}

func (a *Asserts) stringPair(fn func(x, y, msg string) error) module.Action {
	return func(_ context.Context, args []any) (any, error) {
		x, err := module.String(args, 0)
		if err != nil {
			return nil, err
		}
		y, err := module.String(args, 1)
		if err != nil {
			return nil, err
		}
		return nil, fn(x, y, module.OptionalString(args, 2))
	}
}

func (a *Asserts) path(fn func(p, msg string) error) module.Action {
	return func(_ context.Context, args []any) (any, error) {
		p, err := module.String(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, fn(p, module.OptionalString(args, 1))
	}
}

func (a *Asserts) boolean(fn func(b bool, msg string) error) module.Action {
	return func(_ context.Context, args []any) (any, error) {
		v, err := module.Arg(args, 0)
		if err != nil {
			return nil, err
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("asserts: %w", &module.ArgError{Index: 0, Want: "bool", Got: v})
		}
		return nil, fn(b, module.OptionalString(args, 1))
	}
}
