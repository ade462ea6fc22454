package observability

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Event types written by the tracker. The part before the dot names the
// event family, so a filter on "view" matches both view events.
const (
	EventTaskAdded     = "task.added"
	EventViewOpened    = "view.opened"
	EventViewClosed    = "view.closed"
	EventInvalidChoice = "menu.invalid_choice"
)

// Event levels. Rejected user input is a warning; everything else is info.
const (
	LevelInfo = "INFO"
	LevelWarn = "WARN"
)

// maxEventLine bounds a single JSON line; task descriptions can be long.
const maxEventLine = 1 << 20

// Event is one line of the event log.
type Event struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Type    string         `json:"type"`
	Message string         `json:"msg"`
	Data    map[string]any `json:"data,omitempty"`
}

// EventFilter narrows what Read returns. Zero fields match everything.
// Limit keeps only the newest matches.
type EventFilter struct {
	Since *time.Time
	Type  string
	Level string
	Limit int
}

func (f EventFilter) matches(e Event) bool {
	if f.Since != nil && e.Time.Before(*f.Since) {
		return false
	}
	if f.Type != "" && e.Type != f.Type && !strings.HasPrefix(e.Type, f.Type+".") {
		return false
	}
	if f.Level != "" && !strings.EqualFold(e.Level, f.Level) {
		return false
	}
	return true
}

// EventLog appends tracker events and reads them back in write order.
type EventLog interface {
	Write(event Event) error
	Read(filter EventFilter) ([]Event, error)
	Close() error
}

type jsonlEventLog struct {
	mu   sync.Mutex
	path string
	file *os.File
	enc  *json.Encoder
}

// NewJSONLEventLog opens path for appending, creating it when missing.
func NewJSONLEventLog(path string) (EventLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &jsonlEventLog{path: path, file: f, enc: json.NewEncoder(f)}, nil
}

// Write stamps a missing time and level, then appends the event as one line.
func (l *jsonlEventLog) Write(event Event) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	if event.Level == "" {
		event.Level = LevelInfo
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(event); err != nil {
		return fmt.Errorf("writing %s event: %w", event.Type, err)
	}
	return nil
}

// Read returns the events matching filter. Lines that are not valid events
// are skipped.
func (l *jsonlEventLog) Read(filter EventFilter) ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("opening event log for reading: %w", err)
	}
	defer f.Close()

	var events []Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	for sc.Scan() {
		var e Event
		if json.Unmarshal(sc.Bytes(), &e) != nil || e.Type == "" {
			continue
		}
		if filter.matches(e) {
			events = append(events, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading event log: %w", err)
	}

	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[len(events)-filter.Limit:]
	}
	return events, nil
}

func (l *jsonlEventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// Emit writes event to log. A nil log discards it.
func Emit(log EventLog, event Event) error {
	if log == nil {
		return nil
	}
	return log.Write(event)
}
