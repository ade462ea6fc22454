package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/homework-tracker/internal/logging"
	"github.com/valter-silva-au/homework-tracker/pkg/models"
	"go.uber.org/zap"
)

// Header is the first line of every task file, in storage field order.
var Header = []string{"subject", "description", "due date", "priority", "date_of_log"}

// ErrStorageMissing reports that the task file does not exist yet. ReadAll
// recovers from it by returning no tasks; it is exported so callers can
// recognise it in logs.
var ErrStorageMissing = errors.New("storage file not found")

// MalformedRecordError is returned by ParseRecord when a row does not carry
// exactly one value per header column.
type MalformedRecordError struct {
	Line   int
	Fields int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record on line %d: expected %d fields, got %d", e.Line, len(Header), e.Fields)
}

// ParseRecord builds a Task from one decoded row. line is only used for
// error reporting.
func ParseRecord(line int, record []string) (models.Task, error) {
	if len(record) != len(Header) {
		return models.Task{}, &MalformedRecordError{Line: line, Fields: len(record)}
	}
	return models.Task{
		Subject:     record[0],
		Description: record[1],
		DueDate:     record[2],
		Priority:    models.Priority(record[3]),
		LoggedAt:    record[4],
	}, nil
}

// TaskStore defines the interface for the append-only task file.
type TaskStore interface {
	// ReadAll returns every task in file order. A missing file yields an
	// empty slice and no error.
	ReadAll() ([]models.Task, error)
	// Append writes one task to the end of the file, creating it (with the
	// header) if needed.
	Append(task models.Task) error
	Path() string
}

type csvTaskStore struct {
	path   string
	logger *zap.Logger
}

// NewTaskStore creates a TaskStore backed by the delimited text file at path.
// Nothing is cached between calls; every ReadAll re-reads the file.
func NewTaskStore(path string, logger *zap.Logger) TaskStore {
	return &csvTaskStore{
		path:   path,
		logger: logging.OrNop(logger).With(zap.String("path", path)),
	}
}

func (s *csvTaskStore) Path() string {
	return s.path
}

func (s *csvTaskStore) ReadAll() ([]models.Task, error) {
	tasks := []models.Task{}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("task file not found, starting with no tasks", zap.Error(ErrStorageMissing))
			return tasks, nil
		}
		return nil, fmt.Errorf("opening task file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := newRecordDecoder(f)

	headerSeen := false
	for {
		record, line, err := dec.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A syntax error leaves the decoder at an unknown offset, so
			// nothing after it can be trusted.
			return nil, fmt.Errorf("reading task file %s: %w", s.path, err)
		}

		if !headerSeen {
			headerSeen = true
			if !isHeader(record) {
				s.logger.Warn("unexpected header in task file", zap.Strings("header", record))
			}
			continue
		}

		task, err := ParseRecord(line, record)
		if err != nil {
			s.logger.Warn("skipping malformed record", zap.Int("line", line), zap.Error(err))
			continue
		}
		tasks = append(tasks, task)
	}

	s.logger.Debug("loaded tasks", zap.Int("count", len(tasks)))
	return tasks, nil
}

func (s *csvTaskStore) Append(task models.Task) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("appending task: creating directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("appending task: opening file: %w", err)
	}

	// Another process may be appending to the same file; the size check and
	// the write happen under one lock so the header is written exactly once.
	unlock, err := lockFile(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("appending task: %w", err)
	}
	writeErr := writeRecord(f, task)
	_ = unlock()
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("appending task: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("appending task: closing file: %w", closeErr)
	}

	s.logger.Debug("appended task", zap.String("subject", task.Subject))
	return nil
}

// writeRecord writes task to f, preceded by the header when f is empty.
func writeRecord(f *os.File, task models.Task) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := w.Write(task.Fields()); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	return nil
}

func isHeader(record []string) bool {
	if len(record) != len(Header) {
		return false
	}
	for i, name := range Header {
		if record[i] != name {
			return false
		}
	}
	return true
}
