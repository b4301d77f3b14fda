package noise

import "sync"

// Reporter receives progress milestones from a generation. Report is called
// synchronously on the generating goroutine, in order; implementations must
// return promptly.
type Reporter interface {
	Report(done bool, message string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(done bool, message string)

func (f ReporterFunc) Report(done bool, message string) { f(done, message) }

// Tee returns a Reporter forwarding every report to each non-nil r, in
// argument order. It returns nil when none is left.
func Tee(rs ...Reporter) Reporter {
	var targets []Reporter
	for _, r := range rs {
		if r != nil {
			targets = append(targets, r)
		}
	}
	switch len(targets) {
	case 0:
		return nil
	case 1:
		return targets[0]
	}
	return ReporterFunc(func(done bool, message string) {
		for _, r := range targets {
			r.Report(done, message)
		}
	})
}

// Event is one recorded progress report.
type Event struct {
	Message string
	Done    bool
}

// EventLog records every report it receives, in order. Callers use it to
// tell which stage a failed generation reached.
type EventLog struct {
	events []Event
	mu     sync.Mutex
}

// Report records an event.
func (l *EventLog) Report(done bool, message string) {
	l.mu.Lock()
	l.events = append(l.events, Event{Done: done, Message: message})
	l.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Last returns the most recent event, if any.
func (l *EventLog) Last() (Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return Event{}, false
	}
	return l.events[len(l.events)-1], true
}

func report(r Reporter, done bool, message string) {
	if r != nil {
		r.Report(done, message)
	}
}
