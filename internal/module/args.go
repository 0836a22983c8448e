package module

import (
	"fmt"
)

// ArgError reports a bad step argument.
type ArgError struct {
	Index int
	Want  string
	Got   any
}

func (e *ArgError) Error() string {
	if e.Got == nil && e.Want == "" {
		return fmt.Sprintf("module: missing argument %d", e.Index)
	}
	return fmt.Sprintf("module: argument %d: want %s, got %T", e.Index, e.Want, e.Got)
}

// Arg returns args[i], or an *ArgError when it is missing.
func Arg(args []any, i int) (any, error) {
	if i >= len(args) {
		return nil, &ArgError{Index: i}
	}
	return args[i], nil
}

// OptionalString returns args[i] as a string, or "" when absent. A present
// non-string value is formatted with %v.
func OptionalString(args []any, i int) string {
	if i >= len(args) || args[i] == nil {
		return ""
	}
	if s, ok := args[i].(string); ok {
		return s
	}
	return fmt.Sprint(args[i])
}

// String returns args[i] as a string.
func String(args []any, i int) (string, error) {
	v, err := Arg(args, i)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &ArgError{Index: i, Want: "string", Got: v}
	}
	return s, nil
}

// Float returns args[i] as a float64, accepting any Go numeric type.
func Float(args []any, i int) (float64, error) {
	v, err := Arg(args, i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, &ArgError{Index: i, Want: "number", Got: v}
	}
}
