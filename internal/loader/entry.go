package loader

import (
	"errors"
	"fmt"

	"github.com/AbdelazizMoustafa10m/verity/internal/step"
)

// Step kinds accepted in scenario files. An empty kind means KindAction.
const (
	KindAction      = "action"
	KindConditional = "conditional"
	KindComment     = "comment"
	KindSkip        = "skip"
	KindIncomplete  = "incomplete"
)

// StepSpec is one entry of a file's step list.
type StepSpec struct {
	Kind    string `toml:"kind" yaml:"kind"`
	Action  string `toml:"action" yaml:"action"`
	Args    []any  `toml:"args" yaml:"args"`
	Keyword string `toml:"keyword" yaml:"keyword"`

	// Text is the comment body, or the reason for skip and incomplete.
	Text string `toml:"text" yaml:"text"`

	// Meta groups consecutive entries with the same label under one meta
	// step.
	Meta string `toml:"meta" yaml:"meta"`
}

// EffectiveKind returns Kind, defaulting to KindAction.
func (s StepSpec) EffectiveKind() string {
	if s.Kind == "" {
		return KindAction
	}
	return s.Kind
}

// IsHalt reports whether the entry stops the scenario instead of running a
// step.
func (s StepSpec) IsHalt() bool {
	k := s.EffectiveKind()
	return k == KindSkip || k == KindIncomplete
}

// Build converts the entry into an engine step. It must not be called for
// halt entries.
func (s StepSpec) Build() (*step.Step, error) {
	var st *step.Step
	switch s.EffectiveKind() {
	case KindAction:
		st = step.New(s.Action, s.Args...)
	case KindConditional:
		st = step.NewConditional(s.Action, s.Args...)
	case KindComment:
		st = step.NewComment(s.Text)
	default:
		return nil, fmt.Errorf("kind %q does not build a step", s.Kind)
	}
	if s.Keyword != "" {
		st.WithKeyword(s.Keyword)
	}
	return st, nil
}

func (s StepSpec) validate() error {
	switch s.EffectiveKind() {
	case KindAction, KindConditional:
		if s.Action == "" {
			return errors.New("action is required")
		}
	case KindComment:
		if s.Text == "" {
			return errors.New("comment text is required")
		}
	case KindSkip, KindIncomplete:
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	return nil
}

// Group is a run of consecutive entries sharing a meta label. Label is empty
// for entries outside any group.
type Group struct {
	Label string
	Steps []StepSpec
}

// Groups splits the step list into consecutive runs by meta label.
func (f *File) Groups() []Group {
	var groups []Group
	for _, s := range f.Steps {
		if n := len(groups); n > 0 && groups[n-1].Label == s.Meta {
			groups[n-1].Steps = append(groups[n-1].Steps, s)
			continue
		}
		groups = append(groups, Group{Label: s.Meta, Steps: []StepSpec{s}})
	}
	return groups
}
