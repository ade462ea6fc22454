package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/valter-silva-au/homework-tracker/internal/logging"
	"github.com/valter-silva-au/homework-tracker/internal/observability"
	"github.com/valter-silva-au/homework-tracker/internal/storage"
	"github.com/valter-silva-au/homework-tracker/pkg/models"
	"go.uber.org/zap"
)

// ShellState is a state of the interactive menu loop.
type ShellState int

const (
	StateMenuPrompt ShellState = iota
	StateViewing
	StateAdding
	StateTerminated
)

func (s ShellState) String() string {
	switch s {
	case StateMenuPrompt:
		return "menu"
	case StateViewing:
		return "viewing"
	case StateAdding:
		return "adding"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("ShellState(%d)", int(s))
	}
}

// ErrInvalidMenuChoice is returned by parseMenuChoice for anything other
// than "1", "2" or "3". The shell recovers from it by prompting again.
var ErrInvalidMenuChoice = errors.New("invalid menu choice")

type menuChoice int

const (
	choiceView menuChoice = iota + 1
	choiceAdd
	choiceExit
)

func parseMenuChoice(input string) (menuChoice, error) {
	switch strings.TrimSpace(input) {
	case "1":
		return choiceView, nil
	case "2":
		return choiceAdd, nil
	case "3":
		return choiceExit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMenuChoice, strings.TrimSpace(input))
	}
}

// TaskViewer shows a snapshot of tasks and blocks until the user closes it.
type TaskViewer interface {
	View(ctx context.Context, tasks []models.Task) error
}

// Shell is the interactive terminal menu. Prompts and the card view never
// run at the same time: input is only read again after View returns.
type Shell struct {
	store  storage.TaskStore
	viewer TaskViewer
	in     *bufio.Reader
	out    io.Writer
	now    func() time.Time
	events observability.EventLog
	logger *zap.Logger
	state  ShellState
}

// ShellOption configures optional Shell collaborators.
type ShellOption func(*Shell)

// WithClock overrides the clock used to stamp new tasks.
func WithClock(now func() time.Time) ShellOption {
	return func(s *Shell) { s.now = now }
}

// WithEventLog records shell activity to log.
func WithEventLog(log observability.EventLog) ShellOption {
	return func(s *Shell) { s.events = log }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) ShellOption {
	return func(s *Shell) { s.logger = l }
}

// NewShell creates a Shell reading answers from in and writing prompts to out.
func NewShell(store storage.TaskStore, viewer TaskViewer, in io.Reader, out io.Writer, opts ...ShellOption) *Shell {
	s := &Shell{
		store:  store,
		viewer: viewer,
		in:     bufio.NewReader(in),
		out:    out,
		now:    time.Now,
		state:  StateMenuPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// State returns the current state.
func (s *Shell) State() ShellState {
	return s.state
}

// Run loops over the menu until the user exits or input ends. Errors other
// than an invalid menu choice stop the loop and are returned.
func (s *Shell) Run(ctx context.Context) error {
	for s.state != StateTerminated {
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step shows the menu once and handles a single choice. A cancelled ctx
// stops the shell before the menu is shown.
func (s *Shell) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = StateMenuPrompt
	fmt.Fprintln(s.out, "\nWelcome to the Homework Tracker!")
	fmt.Fprintln(s.out, "1. View Homework Tasks (card view)")
	fmt.Fprintln(s.out, "2. Add New Task (terminal)")
	fmt.Fprintln(s.out, "3. Exit")

	input, err := s.prompt("Please select an option (1/2/3): ")
	if errors.Is(err, io.EOF) {
		return s.exit()
	}
	if err != nil {
		return err
	}

	choice, err := parseMenuChoice(input)
	if err != nil {
		s.logger.Debug("invalid menu choice", zap.String("input", input))
		s.emit(observability.Event{
			Level:   observability.LevelWarn,
			Type:    observability.EventInvalidChoice,
			Message: "invalid menu choice",
			Data:    map[string]any{"input": strings.TrimSpace(input)},
		})
		fmt.Fprintln(s.out, "Invalid option. Please try again.")
		return nil
	}

	switch choice {
	case choiceView:
		return s.view(ctx)
	case choiceAdd:
		return s.add()
	default:
		return s.exit()
	}
}

func (s *Shell) view(ctx context.Context) error {
	s.state = StateViewing
	tasks, err := s.store.ReadAll()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	s.emit(observability.Event{
		Type:    observability.EventViewOpened,
		Message: "card view opened",
		Data:    map[string]any{"tasks": len(tasks)},
	})
	if err := s.viewer.View(ctx, tasks); err != nil {
		return fmt.Errorf("showing tasks: %w", err)
	}
	s.emit(observability.Event{Type: observability.EventViewClosed, Message: "card view closed"})

	s.state = StateMenuPrompt
	return nil
}

func (s *Shell) add() error {
	s.state = StateAdding

	labels := make([]string, len(models.KnownPriorities))
	for i, p := range models.KnownPriorities {
		labels[i] = string(p)
	}

	questions := []string{
		"Enter the subject: ",
		"Enter the description: ",
		fmt.Sprintf("Enter the due date (%s): ", models.DueDateLayout),
		fmt.Sprintf("Enter the priority (%s): ", strings.Join(labels, ", ")),
	}
	answers := make([]string, len(questions))
	for i, q := range questions {
		answer, err := s.prompt(q)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return fmt.Errorf("reading task details: %w", err)
		}
		answers[i] = answer
	}

	task := models.NewTask(answers[0], answers[1], answers[2], models.Priority(answers[3]), s.now())
	if err := s.store.Append(task); err != nil {
		return fmt.Errorf("saving task: %w", err)
	}
	s.emit(observability.Event{
		Type:    observability.EventTaskAdded,
		Message: "task added",
		Data:    map[string]any{"subject": task.Subject, "priority": string(task.Priority)},
	})

	fmt.Fprintln(s.out, "\nTask added successfully!")
	s.state = StateMenuPrompt
	return nil
}

func (s *Shell) exit() error {
	fmt.Fprintln(s.out, "Exiting Homework Tracker. Goodbye!")
	s.state = StateTerminated
	return nil
}

// prompt writes question and reads one line, without its line ending. A
// final line with no newline is still returned; io.EOF means no input at all.
func (s *Shell) prompt(question string) (string, error) {
	fmt.Fprint(s.out, question)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) emit(event observability.Event) {
	if err := observability.Emit(s.events, event); err != nil {
		s.logger.Warn("recording event", zap.String("type", event.Type), zap.Error(err))
	}
}
