package event

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Record is one event seen by a Recorder.
type Record struct {
	Name   string
	TestID string
	Step   string
}

// Recorder keeps the events it receives, in order. It is safe for use by
// dispatchers on different goroutines.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// Subscriber returns the function to register with SubscribeAll.
func (r *Recorder) Subscriber() Subscriber {
	return func(name string, payload any) {
		rec := Record{Name: name}
		switch p := payload.(type) {
		case StepEvent:
			rec.TestID = p.TestID
			if p.Step != nil {
				rec.Step = p.Step.Name()
			}
		case TestEvent:
			rec.TestID = p.TestID
		}
		r.mu.Lock()
		r.records = append(r.records, rec)
		r.mu.Unlock()
	}
}

// Records returns a copy of the recorded events.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// LogSubscriber returns a subscriber that writes step and test events to
// logger. Step events go out at debug level, test outcomes at info.
func LogSubscriber(logger *log.Logger) Subscriber {
	return func(name string, payload any) {
		switch p := payload.(type) {
		case StepEvent:
			if p.Step == nil {
				return
			}
			logger.Debug(name,
				"test", p.TestID,
				"step", p.Step.Prefix()+p.Step.String(),
				"executed", p.Step.Executed(),
			)
		case TestEvent:
			if p.Status == "" {
				logger.Info("scenario started", "test", p.TestID, "feature", p.Feature)
				return
			}
			logger.Info("scenario finished", "test", p.TestID, "feature", p.Feature, "status", string(p.Status))
		}
	}
}
