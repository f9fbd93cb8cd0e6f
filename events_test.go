package ssd

import (
	"testing"
	"time"
)

func TestEventScheduleKeepsOrder(t *testing.T) {
	var s EventSchedule
	t1 := utc(2020, time.January, 1, 0, 0)
	t2 := utc(2020, time.February, 1, 0, 0)
	t3 := utc(2020, time.March, 1, 0, 0)
	s.Add(Event{DateTime: t2, BodyName: "b"})
	s.Add(Event{DateTime: t3, BodyName: "c"})
	s.Add(Event{DateTime: t1, BodyName: "a"})

	events := s.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].DateTime.Before(events[i-1].DateTime) {
			t.Fatalf("schedule out of order at %d: %+v", i, events)
		}
	}
	if events[0].BodyName != "a" || events[2].BodyName != "c" {
		t.Fatalf("wrong order: %+v", events)
	}
}

func TestEventScheduleNextAfter(t *testing.T) {
	var s EventSchedule
	t1 := utc(2020, time.January, 1, 0, 0)
	t2 := utc(2020, time.February, 1, 0, 0)
	s.Add(Event{DateTime: t1, BodyName: "a"})
	s.Add(Event{DateTime: t2, BodyName: "b"})

	if i := s.NextAfter(utc(2019, time.June, 1, 0, 0)); i != 0 {
		t.Fatalf("expected index 0, got %d", i)
	}
	// An event exactly at the cursor time is not "after" it.
	if i := s.NextAfter(t1); i != 1 {
		t.Fatalf("expected index 1, got %d", i)
	}
	if i := s.NextAfter(t2); i != -1 {
		t.Fatalf("expected -1, got %d", i)
	}
}

func TestEventScheduleRemoveBody(t *testing.T) {
	var s EventSchedule
	s.Add(Event{DateTime: utc(2020, time.January, 1, 0, 0), BodyName: "probe"})
	s.Add(Event{DateTime: utc(2020, time.February, 1, 0, 0), BodyName: "other"})
	s.Add(Event{DateTime: utc(2020, time.March, 1, 0, 0), BodyName: "probe"})

	if removed := s.RemoveBody("probe"); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if s.Len() != 1 || s.At(0).BodyName != "other" {
		t.Fatalf("wrong remainder: %+v", s.Events())
	}
}
