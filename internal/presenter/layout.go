package presenter

import "github.com/valter-silva-au/homework-tracker/pkg/models"

// Layout constants, in logical canvas units.
const (
	HeaderHeight = 60
	CardTop      = 80
	CardSpacing  = 160
	CardHeight   = 140
	CardInset    = 40
	TextMargin   = 10
	LineSpacing  = 25
)

// Title is the banner text drawn in the header.
const Title = "Homework Tracker Dashboard"

// Point is a position on the canvas.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle on the canvas.
type Rect struct {
	X, Y, W, H int
}

// Bottom returns the first row below the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// TextLine is one line of text positioned relative to its card's origin.
type TextLine struct {
	Offset Point
	Text   string
}

// CardPlacement is one task's computed position, size, color, and text.
// Color is derived from the task's priority and is used for the card body
// and border; Outline is the thin frame drawn around it.
type CardPlacement struct {
	Bounds    Rect
	Color     Color
	Outline   Color
	TextColor Color
	Lines     []TextLine
}

// DrawInstruction is a filled banner with a title.
type DrawInstruction struct {
	Bounds     Rect
	Fill       Color
	Title      string
	TitleAt    Point
	TitleColor Color
}

// Header returns the banner drawn across the top of the canvas.
func Header(canvasWidth int) DrawInstruction {
	return DrawInstruction{
		Bounds:     Rect{X: 0, Y: 0, W: canvasWidth, H: HeaderHeight},
		Fill:       Accent,
		Title:      Title,
		TitleAt:    Point{X: 20, Y: 15},
		TitleColor: White,
	}
}

// Layout places tasks top to bottom in input order. Cards past the bottom of
// the canvas are still placed; the caller decides what is visible.
func Layout(tasks []models.Task, canvasWidth int) []CardPlacement {
	placements := make([]CardPlacement, len(tasks))
	for i, task := range tasks {
		placements[i] = CardPlacement{
			Bounds: Rect{
				X: CardInset,
				Y: CardTop + i*CardSpacing,
				W: canvasWidth - 2*CardInset,
				H: CardHeight,
			},
			Color:     PriorityColor(task.Priority),
			Outline:   Black,
			TextColor: White,
			Lines:     cardLines(task),
		}
	}
	return placements
}

func cardLines(task models.Task) []TextLine {
	texts := []string{
		"Subject: " + task.Subject,
		"Description: " + task.Description,
		"Due Date: " + task.DueDate,
		"Priority: " + string(task.Priority),
		"Logged: " + task.LoggedAt,
	}
	lines := make([]TextLine, len(texts))
	for i, text := range texts {
		lines[i] = TextLine{
			Offset: Point{X: TextMargin, Y: TextMargin + i*LineSpacing},
			Text:   text,
		}
	}
	return lines
}
