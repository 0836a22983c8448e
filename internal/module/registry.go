// Package module holds the registry of interaction modules. Each module
// contributes named actions; a scenario step invokes an action by name and the
// registry routes the call to the module that provides it.
package module

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrActionNotFound is returned by Registry.Invoke when no registered module
// provides the requested action.
var ErrActionNotFound = errors.New("action not found")

// Action performs one named operation. args are the step arguments in order.
type Action func(ctx context.Context, args []any) (any, error)

// Module is a named set of actions.
type Module interface {
	// Name returns the unique module name.
	Name() string

	// Actions returns the actions the module provides, keyed by action name.
	Actions() map[string]Action
}

// Registry maps action names to the module that provides them. Modules are
// registered during scenario setup, before any step runs, so no mutex is
// needed.
type Registry struct {
	modules []Module
	byName  map[string]Module
	actions map[string]binding
}

type binding struct {
	module string
	action Action
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Module),
		actions: make(map[string]binding),
	}
}

// Register adds m to the registry. It panics if m is nil, has an empty name,
// is already registered, or provides an action another module already
// provides. These are programming errors that should surface at setup.
func (r *Registry) Register(m Module) {
	if m == nil {
		panic("module: Register called with nil module")
	}
	name := m.Name()
	if name == "" {
		panic("module: Register called with module that returns empty name")
	}
	if _, exists := r.byName[name]; exists {
		panic(fmt.Sprintf("module: module %q is already registered", name))
	}

	actions := m.Actions()
	for action, fn := range actions {
		if fn == nil {
			panic(fmt.Sprintf("module: module %q has nil action %q", name, action))
		}
		if prev, taken := r.actions[action]; taken {
			panic(fmt.Sprintf("module: action %q of module %q conflicts with module %q", action, name, prev.module))
		}
	}
	for action, fn := range actions {
		r.actions[action] = binding{module: name, action: fn}
	}
	r.byName[name] = m
	r.modules = append(r.modules, m)
}

// Invoke runs the named action. It returns ErrActionNotFound, wrapped with
// the action name, when no module provides it.
func (r *Registry) Invoke(ctx context.Context, action string, args []any) (any, error) {
	b, ok := r.actions[action]
	if !ok {
		return nil, fmt.Errorf("module: action %q: %w", action, ErrActionNotFound)
	}
	return b.action(ctx, args)
}

// Has reports whether any module provides action.
func (r *Registry) Has(action string) bool {
	_, ok := r.actions[action]
	return ok
}

// ModuleFor returns the name of the module providing action.
func (r *Registry) ModuleFor(action string) (string, bool) {
	b, ok := r.actions[action]
	return b.module, ok
}

// Module returns the module registered under name.
func (r *Registry) Module(name string) (Module, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Modules returns module names in registration order.
func (r *Registry) Modules() []string {
	names := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		names = append(names, m.Name())
	}
	return names
}

// Actions returns every registered action name in alphabetical order.
func (r *Registry) Actions() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
