package tui

import (
	"github.com/md-rashed-zaman/opscal/internal/dragstate"
	"github.com/md-rashed-zaman/opscal/internal/timegrid"
)

const (
	sidebarWidth = 26
	gutterWidth  = 7 // "09:15 " slot labels
	headerRows   = 2 // title bar + day headers
	footerRows   = 1 // help bar
)

// layout maps screen coordinates to grid cells and back. The grid
// shows a window of slot rows starting at slotOffset; one terminal row
// per 15-minute slot.
type layout struct {
	width      int
	height     int
	gridX      int
	gridY      int
	colWidth   int
	rows       int // visible slot rows
	slotOffset int
}

func computeLayout(width, height, slotOffset int) layout {
	l := layout{
		width:      width,
		height:     height,
		gridX:      sidebarWidth + gutterWidth,
		gridY:      headerRows,
		slotOffset: slotOffset,
	}
	gridWidth := width - l.gridX
	if gridWidth < timegrid.WorkDays {
		gridWidth = timegrid.WorkDays
	}
	l.colWidth = gridWidth / timegrid.WorkDays
	l.rows = height - headerRows - footerRows
	if l.rows < 1 {
		l.rows = 1
	}
	if max := len(timegrid.Slots()); l.rows > max {
		l.rows = max
	}
	return l
}

// maxSlotOffset is the largest offset that still fills the window.
func (l layout) maxSlotOffset() int {
	max := len(timegrid.Slots()) - l.rows
	if max < 0 {
		max = 0
	}
	return max
}

// cellAt maps a mouse position to a grid cell.
func (l layout) cellAt(x, y int) (dragstate.Cell, bool) {
	if x < l.gridX || y < l.gridY || y >= l.gridY+l.rows {
		return dragstate.Cell{}, false
	}
	day := (x - l.gridX) / l.colWidth
	if day >= timegrid.WorkDays {
		return dragstate.Cell{}, false
	}
	slot := l.slotOffset + (y - l.gridY)
	if slot >= len(timegrid.Slots()) {
		return dragstate.Cell{}, false
	}
	return dragstate.Cell{Day: day, Slot: slot}, true
}

// cellOrigin is the inverse of cellAt: the top-left screen position of
// a cell, and whether it is currently scrolled into view.
func (l layout) cellOrigin(cell dragstate.Cell) (x, y int, visible bool) {
	row := cell.Slot - l.slotOffset
	if row < 0 || row >= l.rows {
		return 0, 0, false
	}
	return l.gridX + cell.Day*l.colWidth, l.gridY + row, true
}

// sidebarRowAt maps a mouse position to a sidebar entry index, counted
// from the first sidebar line.
func (l layout) sidebarRowAt(x, y int) (int, bool) {
	if x < 0 || x >= sidebarWidth || y < l.gridY {
		return 0, false
	}
	return y - l.gridY, true
}
