// Package notification collects non-fatal notices raised during a run, such
// as calls to retired scenario methods.
package notification

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Kind classifies a notice.
type Kind string

const (
	KindDeprecation Kind = "deprecation"
	KindWarning     Kind = "warning"
)

// Notice is one collected message.
type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Notifier records notices and logs them at warn level. It is safe for
// concurrent use so one Notifier can be shared by scenarios running in
// parallel.
type Notifier struct {
	mu      sync.Mutex
	notices []Notice
	logger  *log.Logger
}

// New creates a Notifier. A nil logger disables logging; notices are still
// collected.
func New(logger *log.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Deprecate records a deprecation notice.
func (n *Notifier) Deprecate(msg string) { n.add(KindDeprecation, msg) }

// Warn records a warning notice.
func (n *Notifier) Warn(msg string) { n.add(KindWarning, msg) }

// All returns the notices collected so far, in order.
func (n *Notifier) All() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notice, len(n.notices))
	copy(out, n.notices)
	return out
}

func (n *Notifier) add(kind Kind, msg string) {
	n.mu.Lock()
	n.notices = append(n.notices, Notice{Kind: kind, Message: msg})
	n.mu.Unlock()

	if n.logger != nil {
		n.logger.Warn(msg, "kind", string(kind))
	}
}
