package analytics

import (
	"context"
	"sync"
)

// RecordingSink keeps every emitted event in memory; used in tests.
type RecordingSink struct {
	mu     sync.Mutex
	events []Event
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

func (s *RecordingSink) Emit(_ context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *RecordingSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *RecordingSink) Kinds() []Kind {
	var kinds []Kind
	for _, e := range s.Events() {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
