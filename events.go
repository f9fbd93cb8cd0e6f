package ssd

import "time"

// Event is an exogenous state injection: at the given date/time the named
// particle's state is overwritten with the event state. Events re-seat
// spacecraft at known instants and are also used to re-seat small bodies
// during flybys to increase accuracy.
type Event struct {
	DateTime time.Time
	BodyName string
	Position Vector3D
	Velocity Vector3D
}

// EventSchedule is a list of events kept in non-decreasing date/time order.
type EventSchedule struct {
	events []Event
}

// Add inserts an event, retaining chronological order.
func (s *EventSchedule) Add(ev Event) {
	for i := range s.events {
		if ev.DateTime.Before(s.events[i].DateTime) {
			s.events = append(s.events, Event{})
			copy(s.events[i+1:], s.events[i:])
			s.events[i] = ev
			return
		}
	}
	s.events = append(s.events, ev)
}

// Len returns the number of scheduled events.
func (s *EventSchedule) Len() int { return len(s.events) }

// Events returns a copy of the schedule in order.
func (s *EventSchedule) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// NextAfter returns the index of the first event strictly after dt, or -1
// when there is none.
func (s *EventSchedule) NextAfter(dt time.Time) int {
	for i, ev := range s.events {
		if ev.DateTime.After(dt) {
			return i
		}
	}
	return -1
}

// At returns the event at the given index.
func (s *EventSchedule) At(i int) Event { return s.events[i] }

// RemoveBody drops all events of the named body, returning how many were
// removed.
func (s *EventSchedule) RemoveBody(name string) int {
	kept := s.events[:0]
	removed := 0
	for _, ev := range s.events {
		if ev.BodyName == name {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	s.events = kept
	return removed
}
