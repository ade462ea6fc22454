// Package presenter turns tasks into draw instructions for the card view.
// It performs no I/O: every function is a pure mapping from its inputs.
package presenter

import (
	"fmt"

	"github.com/valter-silva-au/homework-tracker/pkg/models"
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette.
var (
	White      = Color{255, 255, 255}
	Black      = Color{0, 0, 0}
	Background = Color{245, 245, 250}
	Accent     = Color{100, 149, 237}

	Red    = Color{220, 20, 60}
	Orange = Color{255, 165, 0}
	Green  = Color{34, 139, 34}
	Purple = Color{148, 0, 211}
	Blue   = Color{30, 144, 255}
	Gray   = Color{200, 200, 200}
)

// PriorityColor returns the card color for p. Unrecognised labels, including
// the empty string, get Gray.
func PriorityColor(p models.Priority) Color {
	switch p {
	case models.PriorityCritical:
		return Red
	case models.PriorityThisWeek:
		return Orange
	case models.PriorityLongTerm:
		return Green
	case models.PriorityExtraCredit:
		return Purple
	case models.PriorityFunProject:
		return Blue
	default:
		return Gray
	}
}
