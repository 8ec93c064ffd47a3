// Package inspector computes where the read-only event popover goes
// and which palette category an event renders with. Pure layout math,
// re-run on every open.
package inspector

import "github.com/md-rashed-zaman/opscal/internal/model"

type Point struct {
	X int
	Y int
}

type Size struct {
	W int
	H int
}

// Place anchors the popover near the click point, flipping to the left
// of the click when it would overflow the right edge and clamping
// vertically into [padding, viewport.H - popover.H - padding].
func Place(click Point, viewport, popover Size, padding int) Point {
	x := click.X
	if x+popover.W > viewport.W-padding {
		x = click.X - popover.W
	}
	// The flip alone is not enough near the right edge when the padding
	// exceeds the click's distance to it.
	if x > viewport.W-popover.W-padding {
		x = viewport.W - popover.W - padding
	}
	if x < padding {
		x = padding
	}

	y := click.Y
	maxY := viewport.H - popover.H - padding
	if y > maxY {
		y = maxY
	}
	if y < padding {
		y = padding
	}

	return Point{X: x, Y: y}
}

// Category drives the popover and grid palette. The distinction it
// encodes is the domain one: open capacity versus an owned booking,
// and for bookings, whose side of the business the owner sits on.
type Category int

const (
	CategoryAvailable Category = iota
	CategoryEmployee
	CategoryCustomer
)

func Categorize(e model.Event) Category {
	if e.Available {
		return CategoryAvailable
	}
	if e.PersonEntityType == model.PersonCustomer {
		return CategoryCustomer
	}
	return CategoryEmployee
}
