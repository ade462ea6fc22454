package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestEventLog(t *testing.T) (EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log, path
}

func TestEventLog_WriteAndRead(t *testing.T) {
	log, _ := newTestEventLog(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	events := []Event{
		{
			Time:    now,
			Level:   LevelInfo,
			Type:    EventTaskAdded,
			Message: "task added",
			Data:    map[string]any{"subject": "Math", "priority": "Critical"},
		},
		{
			Time:    now.Add(time.Second),
			Level:   LevelWarn,
			Type:    EventInvalidChoice,
			Message: "invalid menu choice",
		},
	}

	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("expected 2 events, got %d", len(result))
	}
	if result[0].Type != EventTaskAdded {
		t.Errorf("expected type %s, got %s", EventTaskAdded, result[0].Type)
	}
	if result[0].Data["subject"] != "Math" {
		t.Errorf("expected subject Math, got %v", result[0].Data["subject"])
	}
	if result[1].Level != LevelWarn {
		t.Errorf("expected level WARN, got %s", result[1].Level)
	}
}

func TestEventLog_WriteFillsDefaults(t *testing.T) {
	log, _ := newTestEventLog(t)

	before := time.Now().UTC().Add(-time.Second)
	if err := log.Write(Event{Type: EventViewOpened}); err != nil {
		t.Fatalf("writing event: %v", err)
	}

	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 event, got %d", len(result))
	}
	if result[0].Level != LevelInfo {
		t.Errorf("expected default level INFO, got %q", result[0].Level)
	}
	if result[0].Time.Before(before) {
		t.Errorf("expected time to be stamped, got %v", result[0].Time)
	}
}

func TestEventLog_FilterByTypeAndTime(t *testing.T) {
	log, _ := newTestEventLog(t)

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{Time: base, Level: LevelInfo, Type: EventTaskAdded, Message: "added"},
		{Time: base.Add(time.Hour), Level: LevelInfo, Type: EventViewOpened, Message: "opened"},
		{Time: base.Add(2 * time.Hour), Level: LevelInfo, Type: EventTaskAdded, Message: "added again"},
	}
	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	added, err := log.Read(EventFilter{Type: EventTaskAdded})
	if err != nil {
		t.Fatal(err)
	}
	if len(added) != 2 {
		t.Fatalf("expected 2 task.added events, got %d", len(added))
	}

	since := base.Add(30 * time.Minute)
	recent, err := log.Read(EventFilter{Since: &since})
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Type != EventViewOpened {
		t.Fatalf("unexpected events since %v: %+v", since, recent)
	}
}

func TestEventLog_SkipsMalformedLines(t *testing.T) {
	log, path := newTestEventLog(t)

	if err := log.Write(Event{Type: EventTaskAdded, Message: "ok"}); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("not json\n\n"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 event, got %d", len(result))
	}
}

func TestEmit_NilLog(t *testing.T) {
	if err := Emit(nil, Event{Type: EventTaskAdded}); err != nil {
		t.Fatalf("Emit(nil) should be a no-op, got %v", err)
	}
}

func writeEvents(t *testing.T, log EventLog, events ...Event) {
	t.Helper()
	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}
}

func TestEventLog_FilterByFamilyLevelAndLimit(t *testing.T) {
	log, _ := newTestEventLog(t)

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	writeEvents(t, log,
		Event{Time: base, Type: EventViewOpened, Message: "opened"},
		Event{Time: base.Add(time.Minute), Level: LevelWarn, Type: EventInvalidChoice, Message: "bad input"},
		Event{Time: base.Add(2 * time.Minute), Type: EventViewClosed, Message: "closed"},
		Event{Time: base.Add(3 * time.Minute), Level: LevelWarn, Type: EventInvalidChoice, Message: "bad input again"},
		Event{Time: base.Add(4 * time.Minute), Type: EventTaskAdded, Message: "added"},
	)

	tests := []struct {
		name   string
		filter EventFilter
		want   []string
	}{
		{"family prefix", EventFilter{Type: "view"}, []string{"opened", "closed"}},
		{"exact type", EventFilter{Type: EventViewClosed}, []string{"closed"}},
		{"partial family name", EventFilter{Type: "vie"}, nil},
		{"level is case-insensitive", EventFilter{Level: "warn"}, []string{"bad input", "bad input again"}},
		{"limit keeps newest", EventFilter{Limit: 2}, []string{"bad input again", "added"}},
		{"limit after filtering", EventFilter{Level: LevelInfo, Limit: 1}, []string{"added"}},
		{"limit larger than matches", EventFilter{Type: "task", Limit: 10}, []string{"added"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := log.Read(tt.filter)
			if err != nil {
				t.Fatalf("reading events: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, e := range got {
				if e.Message != tt.want[i] {
					t.Errorf("event %d message = %q, want %q", i, e.Message, tt.want[i])
				}
			}
		})
	}
}

func TestEventLog_ReadsLongLines(t *testing.T) {
	log, _ := newTestEventLog(t)

	long := strings.Repeat("x", 200*1024)
	writeEvents(t, log, Event{Type: EventTaskAdded, Data: map[string]any{"description": long}})

	got, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(got) != 1 || got[0].Data["description"] != long {
		t.Fatalf("long event did not round trip")
	}
}
