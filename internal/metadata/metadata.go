// Package metadata holds the per-test state the scenario engine reads: the
// feature title, the current fixture values, and named services.
package metadata

// Well-known service names.
const (
	ServiceDispatcher = "dispatcher"
	ServiceModules    = "modules"
)

// Metadata is a read-mostly facade over the state of the enclosing test. It is
// borrowed by a Scenario, never owned by it.
type Metadata struct {
	feature  string
	current  map[string]any
	services map[string]any
}

// New creates Metadata seeded with the given current fixture values. The map
// is copied.
func New(current map[string]any) *Metadata {
	c := make(map[string]any, len(current))
	for k, v := range current {
		c[k] = v
	}
	return &Metadata{
		current:  c,
		services: map[string]any{},
	}
}

// SetFeature sets the feature title. The last call wins.
func (m *Metadata) SetFeature(feature string) { m.feature = feature }

// Feature returns the feature title.
func (m *Metadata) Feature() string { return m.feature }

// Current returns the fixture value stored under key.
func (m *Metadata) Current(key string) (any, bool) {
	v, ok := m.current[key]
	return v, ok
}

// CurrentLen returns the number of fixture values.
func (m *Metadata) CurrentLen() int { return len(m.current) }

// SetService registers svc under name, replacing any previous handle.
func (m *Metadata) SetService(name string, svc any) { m.services[name] = svc }

// Service returns the service registered under name.
func (m *Metadata) Service(name string) (any, bool) {
	svc, ok := m.services[name]
	return svc, ok
}
