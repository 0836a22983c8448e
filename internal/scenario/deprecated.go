package scenario

import "fmt"

// retiredMethods lists scenario methods that were removed, with the
// replacement to point callers at.
var retiredMethods = map[string]string{
	"group":           "declare groups in the scenario file",
	"groups":          "declare groups in the scenario file",
	"env":             "declare environments in the scenario file",
	"preload":         "",
	"running":         "",
	"isBlocking":      "",
	"prepare":         "",
	"getScenarioText": "use Text or HTML",
}

// Call tolerates calls to the retired scenario API. It never fails: every
// name, known or not, only produces a deprecation notice.
func (s *Scenario) Call(method string, args ...any) {
	msg := fmt.Sprintf("scenario.%s() was deprecated and removed, don't use it", method)
	if hint := retiredMethods[method]; hint != "" {
		msg += " (" + hint + ")"
	}
	s.notifier.Deprecate(msg)
}

// IsRetired reports whether method belongs to the retired scenario API.
func IsRetired(method string) bool {
	_, ok := retiredMethods[method]
	return ok
}

// Group was removed; it only emits a deprecation notice.
//
// Deprecated: declare groups in the scenario file.
func (s *Scenario) Group(names ...string) { s.Call("group", stringsToAny(names)...) }

// Env was removed; it only emits a deprecation notice.
//
// Deprecated: declare environments in the scenario file.
func (s *Scenario) Env(names ...string) { s.Call("env", stringsToAny(names)...) }

// Preload was removed; it emits a deprecation notice and reports false.
//
// Deprecated: scenarios are never preloaded.
func (s *Scenario) Preload() bool {
	s.Call("preload")
	return false
}

// Running was removed; it emits a deprecation notice and reports true.
//
// Deprecated: scenarios are always running while their steps execute.
func (s *Scenario) Running() bool {
	s.Call("running")
	return true
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
