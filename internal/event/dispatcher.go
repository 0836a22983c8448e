package event

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Subscriber receives a published event.
type Subscriber func(name string, payload any)

// Dispatcher fans events out to subscribers synchronously. Subscriptions are
// expected to happen before the first Publish, from the goroutine that owns
// the dispatcher, so no mutex is needed.
type Dispatcher struct {
	subs   map[string][]Subscriber
	all    []Subscriber
	logger *log.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger attaches a logger used to report recovered subscriber panics.
func WithLogger(logger *log.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// NewDispatcher returns a Dispatcher with no subscribers.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{subs: make(map[string][]Subscriber)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscribe registers fn for the named event. It panics on a nil fn.
func (d *Dispatcher) Subscribe(name string, fn Subscriber) {
	if fn == nil {
		panic("event: Subscribe called with nil subscriber")
	}
	d.subs[name] = append(d.subs[name], fn)
}

// SubscribeAll registers fn for every event.
func (d *Dispatcher) SubscribeAll(fn Subscriber) {
	if fn == nil {
		panic("event: SubscribeAll called with nil subscriber")
	}
	d.all = append(d.all, fn)
}

// Publish delivers payload to the subscribers of name, then to the catch-all
// subscribers. A panicking subscriber is recovered and logged so the others
// still receive the event.
func (d *Dispatcher) Publish(name string, payload any) {
	for _, fn := range d.subs[name] {
		d.deliver(fn, name, payload)
	}
	for _, fn := range d.all {
		d.deliver(fn, name, payload)
	}
}

func (d *Dispatcher) deliver(fn Subscriber, name string, payload any) {
	defer func() {
		if r := recover(); r != nil && d.logger != nil {
			d.logger.Error("subscriber panicked", "event", name, "panic", fmt.Sprint(r))
		}
	}()
	fn(name, payload)
}
