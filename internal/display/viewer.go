package display

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/valter-silva-au/homework-tracker/internal/logging"
	"github.com/valter-silva-au/homework-tracker/internal/presenter"
	"github.com/valter-silva-au/homework-tracker/pkg/models"
	"go.uber.org/zap"
)

// frameMsg is delivered once per frame interval.
type frameMsg time.Time

type viewModel struct {
	surface *Surface
	header  presenter.DrawInstruction
	cards   []presenter.CardPlacement

	keys keyMap
	help help.Model

	frames int
	closed bool
}

// newViewModel lays out the snapshot once; it is not refreshed while the
// view is open.
func newViewModel(surface *Surface, tasks []models.Task) viewModel {
	return viewModel{
		surface: surface,
		header:  presenter.Header(surface.Width),
		cards:   presenter.Layout(tasks, surface.Width),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

func (m viewModel) tick() tea.Cmd {
	return tea.Tick(m.surface.FrameInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m viewModel) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(WindowTitle), m.tick())
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.closed = true
			return m, tea.Quit
		}

	case frameMsg:
		if m.closed {
			return m, nil
		}
		m.frames++
		return m, m.tick()

	case tea.WindowSizeMsg:
		// The canvas has a fixed size.
		return m, nil
	}

	return m, nil
}

func (m viewModel) View() string {
	if m.closed {
		return ""
	}
	return m.surface.RenderFrame(m.header, m.cards) + "\n" + m.help.View(m.keys)
}

// Viewer runs the card view until the close signal arrives.
type Viewer struct {
	surface *Surface
	logger  *zap.Logger
	opts    []tea.ProgramOption
}

// NewViewer creates a Viewer drawing on surface. Extra program options are
// appended to the defaults (alternate screen, surface frame rate).
func NewViewer(surface *Surface, logger *zap.Logger, opts ...tea.ProgramOption) *Viewer {
	return &Viewer{
		surface: surface,
		logger:  logging.OrNop(logger),
		opts:    opts,
	}
}

// View blocks until the user closes the card view or ctx is cancelled while
// it is open. A ctx that is already done is an error: the view never ran.
func (v *Viewer) View(ctx context.Context, tasks []models.Task) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("opening card view: %w", err)
	}

	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithFPS(v.surface.FPS),
	}, v.opts...)

	p := tea.NewProgram(newViewModel(v.surface, tasks), opts...)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running card view: %w", err)
	}

	if m, ok := final.(viewModel); ok {
		v.logger.Debug("card view closed", zap.Int("tasks", len(tasks)), zap.Int("frames", m.frames))
	}
	return nil
}
