// Package asserts is the module that exposes expectation checks as scenario
// actions. Checks delegate to testify's assert package; a failed check is
// returned as a *step.AssertionError so that a conditional step can turn it
// into a soft failure.
package asserts

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/AbdelazizMoustafa10m/verity/internal/module"
)

// ModuleName is the registry name of the asserts module.
const ModuleName = "asserts"

// Counter receives one call per expectation check. *result.Result satisfies
// it.
type Counter = module.Counter

// Asserts performs expectation checks and counts them.
type Asserts struct {
	counter Counter
}

// New returns an Asserts module that reports each check to counter. A nil
// counter disables counting.
func New(counter Counter) *Asserts {
	return &Asserts{counter: counter}
}

// Name implements module.Module.
func (a *Asserts) Name() string { return ModuleName }

// check counts one expectation and runs it through module.Check.
func (a *Asserts) check(message string, run func(t assert.TestingT) bool) error {
	return module.Check(a.counter, message, run)
}

// AssertEquals checks that expected and actual are equal after type
// conversion, so 1 and int64(1) are equal.
func (a *Asserts) AssertEquals(expected, actual any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.EqualValues(t, expected, actual) })
}

// AssertNotEquals checks that expected and actual differ after type
// conversion.
func (a *Asserts) AssertNotEquals(expected, actual any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.NotEqualValues(t, expected, actual) })
}

// AssertSame checks that expected and actual have the same type and value.
func (a *Asserts) AssertSame(expected, actual any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.Exactly(t, expected, actual) })
}

// AssertNotSame checks that expected and actual differ in type or value.
func (a *Asserts) AssertNotSame(expected, actual any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.NotEqual(t, expected, actual) })
}

// AssertGreaterThan checks that actual > expected.
func (a *Asserts) AssertGreaterThan(expected, actual float64, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.Greater(t, actual, expected) })
}

// AssertGreaterThanOrEqual checks that actual >= expected.
func (a *Asserts) AssertGreaterThanOrEqual(expected, actual float64, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.GreaterOrEqual(t, actual, expected) })
}

// AssertLessThan checks that actual < expected.
func (a *Asserts) AssertLessThan(expected, actual float64, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.Less(t, actual, expected) })
}

// AssertLessThanOrEqual checks that actual <= expected.
func (a *Asserts) AssertLessThanOrEqual(expected, actual float64, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.LessOrEqual(t, actual, expected) })
}

// AssertContains checks that haystack (string, slice, array or map keys)
// contains needle.
func (a *Asserts) AssertContains(needle, haystack any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.Contains(t, haystack, needle) })
}

// AssertNotContains checks that haystack does not contain needle.
func (a *Asserts) AssertNotContains(needle, haystack any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.NotContains(t, haystack, needle) })
}

// AssertRegExp checks that s matches pattern. Enclosing "/" delimiters are
// stripped.
func (a *Asserts) AssertRegExp(pattern, s, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.Regexp(t, stripDelimiters(pattern), s) })
}

// AssertNotRegExp checks that s does not match pattern.
func (a *Asserts) AssertNotRegExp(pattern, s, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.NotRegexp(t, stripDelimiters(pattern), s) })
}

// AssertEmpty checks that actual is the zero value or an empty collection.
func (a *Asserts) AssertEmpty(actual any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.Empty(t, actual) })
}

// AssertNotEmpty checks that actual is not empty.
func (a *Asserts) AssertNotEmpty(actual any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.NotEmpty(t, actual) })
}

// AssertNull checks that actual is nil.
func (a *Asserts) AssertNull(actual any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.Nil(t, actual) })
}

// AssertNotNull checks that actual is not nil.
func (a *Asserts) AssertNotNull(actual any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.NotNil(t, actual) })
}

// AssertTrue checks that condition is true.
func (a *Asserts) AssertTrue(condition bool, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.True(t, condition) })
}

// AssertFalse checks that condition is false.
func (a *Asserts) AssertFalse(condition bool, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.False(t, condition) })
}

// AssertFileExists checks that path exists and is not a directory.
func (a *Asserts) AssertFileExists(path, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.FileExists(t, path) })
}

// AssertFileNotExists checks that no file exists at path.
func (a *Asserts) AssertFileNotExists(path, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.NoFileExists(t, path) })
}

// AssertArrayHasKey checks that the map m has key.
func (a *Asserts) AssertArrayHasKey(key, m any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.Contains(t, m, key) })
}

// AssertArrayNotHasKey checks that the map m does not have key.
func (a *Asserts) AssertArrayNotHasKey(key, m any, message string) error {
	return a.check(message, func(t assert.TestingT) bool { return assert.NotContains(t, m, key) })
}

// AssertInstanceOf checks the dynamic type of actual. expected is either a
// type name such as "time.Time", "*fs.PathError" or "PathError", or a value
// whose type actual must share.
func (a *Asserts) AssertInstanceOf(expected, actual any, message string) error {
	name, ok := expected.(string)
	if !ok {
		return a.check(message, func(t assert.TestingT) bool { return assert.IsType(t, expected, actual) })
	}
	return a.check(message, func(t assert.TestingT) bool {
		if hasTypeName(actual, name) {
			return true
		}
		return assert.Fail(t, fmt.Sprintf("Object expected to be of type %s, but was %T", name, actual))
	})
}

// AssertNotInstanceOf checks that actual is not of the type named or held by
// expected.
func (a *Asserts) AssertNotInstanceOf(expected, actual any, message string) error {
	return a.check(message, func(t assert.TestingT) bool {
		var same bool
		if name, ok := expected.(string); ok {
			same = hasTypeName(actual, name)
		} else {
			same = reflect.TypeOf(expected) == reflect.TypeOf(actual)
		}
		if !same {
			return true
		}
		return assert.Fail(t, fmt.Sprintf("Object expected not to be of type %T", actual))
	})
}

// AssertInternalType checks that actual belongs to the named value family:
// array, bool, float, int, numeric, null, object, string, scalar or callable.
// Unknown names are an error and are not counted.
func (a *Asserts) AssertInternalType(typ string, actual any, message string) error {
	match, ok := internalTypes[strings.ToLower(typ)]
	if !ok {
		return fmt.Errorf("asserts: unknown internal type %q", typ)
	}
	return a.check(message, func(t assert.TestingT) bool {
		if match(actual) {
			return true
		}
		return assert.Fail(t, fmt.Sprintf("%#v is not of type %q", actual, typ))
	})
}

// Fail fails unconditionally with message.
func (a *Asserts) Fail(message string) error {
	return a.check("", func(t assert.TestingT) bool { return assert.Fail(t, message) })
}

// ExpectError runs fn and checks that it returns an error matching target,
// either through errors.Is or by an identical message. It counts as one
// check whether or not it passes.
func (a *Asserts) ExpectError(target error, fn func() error) error {
	err := fn()
	switch {
	case err == nil:
		return a.Fail("expected an error to be returned, but nothing was returned")
	case target == nil:
		return a.AssertTrue(true, "")
	case errors.Is(err, target) || err.Error() == target.Error():
		return a.AssertTrue(true, "")
	default:
		return a.Fail(fmt.Sprintf("expected error %q, but got %q", target.Error(), err.Error()))
	}
}

func stripDelimiters(pattern string) string {
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		return pattern[1 : len(pattern)-1]
	}
	return pattern
}

// hasTypeName matches name against the full and short names of v's type and,
// for pointers, of the pointed-to type.
func hasTypeName(v any, name string) bool {
	t := reflect.TypeOf(v)
	if t == nil {
		return false
	}
	candidates := []string{t.String(), t.Name()}
	if t.Kind() == reflect.Ptr {
		candidates = append(candidates, "*"+t.Elem().Name(), t.Elem().String(), t.Elem().Name())
	}
	for _, c := range candidates {
		if c != "" && c == name {
			return true
		}
	}
	return false
}

func kindOf(v any) reflect.Kind {
	if v == nil {
		return reflect.Invalid
	}
	return reflect.TypeOf(v).Kind()
}

func isKind(kinds ...reflect.Kind) func(any) bool {
	return func(v any) bool {
		k := kindOf(v)
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}

var (
	isInt = isKind(reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64)
	isFloat  = isKind(reflect.Float32, reflect.Float64)
	isBool   = isKind(reflect.Bool)
	isString = isKind(reflect.String)
	isArray  = isKind(reflect.Slice, reflect.Array, reflect.Map)
)

func isNumeric(v any) bool {
	if isInt(v) || isFloat(v) {
		return true
	}
	if s, ok := v.(string); ok {
		_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return err == nil
	}
	return false
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func isObject(v any) bool {
	t := reflect.TypeOf(v)
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

var internalTypes = map[string]func(any) bool{
	"array":    isArray,
	"iterable": isArray,
	"bool":     isBool,
	"boolean":  isBool,
	"float":    isFloat,
	"double":   isFloat,
	"real":     isFloat,
	"int":      isInt,
	"integer":  isInt,
	"numeric":  isNumeric,
	"null":     isNull,
	"object":   isObject,
	"string":   isString,
	"scalar": func(v any) bool {
		return isBool(v) || isInt(v) || isFloat(v) || isString(v)
	},
	"callable": isKind(reflect.Func),
}
