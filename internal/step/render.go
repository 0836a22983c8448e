package step

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// HumanizedAction turns the action name into lower-case words:
// "seeInCurrentUrl" becomes "see in current url".
func (s *Step) HumanizedAction() string {
	return humanize(s.name)
}

// HumanizedArguments returns the display form of the arguments, computed on
// first use and cached afterwards. Strings are double-quoted, composite values
// are JSON encoded and values are joined with ",".
func (s *Step) HumanizedArguments() string {
	if s.humanizedDone {
		return s.humanized
	}
	parts := make([]string, 0, len(s.args))
	for _, a := range s.args {
		parts = append(parts, humanizeArgument(a))
	}
	s.humanized = strings.Join(parts, ",")
	s.humanizedDone = true
	return s.humanized
}

// Prefix returns the text-report prefix: "" for comments, the keyword when one
// was set, "I " otherwise.
func (s *Step) Prefix() string {
	if s.kind == KindComment {
		return ""
	}
	if s.keyword != "" {
		return s.keyword + " "
	}
	return "I "
}

// String returns the display form of the step.
func (s *Step) String() string {
	if s.kind == KindComment {
		return s.commentText()
	}
	args := s.HumanizedArguments()
	if args == "" {
		return s.HumanizedAction()
	}
	return s.HumanizedAction() + " " + args
}

// HTML returns the markup display form of the step.
func (s *Step) HTML() string {
	if s.kind == KindComment {
		return "<strong>" + htmlEscaper.Replace(s.commentText()) + "</strong>"
	}
	head := htmlEscaper.Replace(strings.TrimSpace(s.Prefix() + s.HumanizedAction()))
	args := s.HumanizedArguments()
	if args == "" {
		return head
	}
	return fmt.Sprintf(`%s <span class="step-arguments">%s</span>`, head, htmlEscaper.Replace(args))
}

func (s *Step) commentText() string {
	if len(s.args) == 0 {
		return ""
	}
	if text, ok := s.args[0].(string); ok {
		return text
	}
	return fmt.Sprint(s.args[0])
}

func humanize(name string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			b.WriteRune(' ')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteRune(' ')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func humanizeArgument(a any) string {
	if isNil(a) {
		return "null"
	}
	switch v := a.(type) {
	case nil:
		return "null"
	case string:
		return encodeJSON(v)
	case error:
		return encodeJSON(v.Error())
	case fmt.Stringer:
		return encodeJSON(v.String())
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(v)
	}
	if reflect.TypeOf(a).Kind() == reflect.Func {
		return "func"
	}
	return encodeJSON(a)
}

// isNil reports a nil interface or a typed nil, such as a nil *time.Time,
// whose methods must not be called.
func isNil(a any) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// encodeJSON encodes v without escaping HTML characters, falling back to %v
// for values encoding/json rejects.
func encodeJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(buf.String(), "\n")
}
