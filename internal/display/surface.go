// Package display is the card view's display surface: a fixed-size logical
// canvas mapped onto terminal cells, and the fixed-rate render loop that
// redraws it.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/valter-silva-au/homework-tracker/internal/presenter"
	"github.com/valter-silva-au/homework-tracker/pkg/models"
)

// WindowTitle is set on the terminal window while the card view is open.
const WindowTitle = "Homework Tracker"

// Logical units covered by one terminal cell.
const (
	UnitsPerCol = 10
	UnitsPerRow = 20
)

// Surface holds the canvas geometry and the styles used to paint it. It is
// built once at startup and passed to every render call.
type Surface struct {
	Width  int
	Height int
	FPS    int

	renderer   *lipgloss.Renderer
	background lipgloss.Style
}

// NewSurface creates a Surface for a canvas of the configured size whose
// styles are rendered for out's color profile.
func NewSurface(cfg models.DisplayConfig, out io.Writer) (*Surface, error) {
	if cfg.Width < UnitsPerCol || cfg.Height < UnitsPerRow {
		return nil, fmt.Errorf("display surface %dx%d is smaller than one cell", cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("display fps must be positive, got %d", cfg.FPS)
	}

	r := lipgloss.NewRenderer(out)
	return &Surface{
		Width:      cfg.Width,
		Height:     cfg.Height,
		FPS:        cfg.FPS,
		renderer:   r,
		background: r.NewStyle().Background(hexColor(presenter.Background)),
	}, nil
}

// Cols returns the canvas width in terminal columns.
func (s *Surface) Cols() int { return s.Width / UnitsPerCol }

// Rows returns the canvas height in terminal rows.
func (s *Surface) Rows() int { return s.Height / UnitsPerRow }

// FrameInterval is the time between redraws.
func (s *Surface) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// RenderFrame paints the background, the header and every card onto a fresh
// frame. Anything below the last row is clipped.
func (s *Surface) RenderFrame(header presenter.DrawInstruction, cards []presenter.CardPlacement) string {
	rows := make([]string, s.Rows())
	for i := range rows {
		rows[i] = s.fill(s.Cols())
	}

	s.place(rows, header.Bounds, s.renderHeader(header))
	for _, card := range cards {
		if card.Bounds.Y/UnitsPerRow >= len(rows) {
			break
		}
		s.place(rows, card.Bounds, s.renderCard(card))
	}

	return strings.Join(rows, "\n")
}

func (s *Surface) renderHeader(h presenter.DrawInstruction) string {
	return s.renderer.NewStyle().
		Background(hexColor(h.Fill)).
		Foreground(hexColor(h.TitleColor)).
		Bold(true).
		Width(cells(h.Bounds.W, UnitsPerCol)).
		Height(cells(h.Bounds.H, UnitsPerRow)).
		PaddingLeft(h.TitleAt.X / UnitsPerCol).
		PaddingTop(h.TitleAt.Y / UnitsPerRow).
		Render(h.Title)
}

func (s *Surface) renderCard(c presenter.CardPlacement) string {
	// Border takes one cell on each side.
	innerW := cells(c.Bounds.W, UnitsPerCol) - 2
	innerH := cells(c.Bounds.H, UnitsPerRow) - 2
	if innerW < 1 || innerH < 1 {
		return ""
	}

	body := make([]string, 0, len(c.Lines))
	for _, line := range c.Lines {
		if len(body) == innerH {
			break
		}
		pad := line.Offset.X / UnitsPerCol
		text := strings.ReplaceAll(line.Text, "\n", " ")
		body = append(body, strings.Repeat(" ", pad)+
			s.renderer.NewStyle().Inline(true).MaxWidth(max(innerW-pad, 0)).Render(text))
	}

	return s.renderer.NewStyle().
		Background(hexColor(c.Color)).
		Foreground(hexColor(c.TextColor)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(hexColor(c.Outline)).
		BorderBackground(hexColor(c.Color)).
		Width(innerW).
		Height(innerH).
		Render(strings.Join(body, "\n"))
}

// place copies block onto rows at the cell position of bounds.
func (s *Surface) place(rows []string, bounds presenter.Rect, block string) {
	if block == "" {
		return
	}
	col := bounds.X / UnitsPerCol
	row := bounds.Y / UnitsPerRow
	for i, line := range strings.Split(block, "\n") {
		r := row + i
		if r < 0 || r >= len(rows) {
			continue
		}
		right := s.Cols() - col - lipgloss.Width(line)
		rows[r] = s.fill(col) + line + s.fill(right)
	}
}

func (s *Surface) fill(n int) string {
	if n <= 0 {
		return ""
	}
	return s.background.Render(strings.Repeat(" ", n))
}

func cells(units, per int) int {
	return units / per
}

func hexColor(c presenter.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
