package tui

import (
	"testing"

	"github.com/md-rashed-zaman/opscal/internal/dragstate"
	"github.com/md-rashed-zaman/opscal/internal/timegrid"
)

func TestCellAtMapsGridPositions(t *testing.T) {
	l := computeLayout(120, 30, 0)

	// Top-left grid cell.
	cell, ok := l.cellAt(l.gridX, l.gridY)
	if !ok || cell != (dragstate.Cell{Day: 0, Slot: 0}) {
		t.Fatalf("top-left = %+v ok=%v", cell, ok)
	}

	// One column to the right, three rows down.
	cell, ok = l.cellAt(l.gridX+l.colWidth, l.gridY+3)
	if !ok || cell != (dragstate.Cell{Day: 1, Slot: 3}) {
		t.Fatalf("cell = %+v ok=%v", cell, ok)
	}

	// Sidebar and gutter are not grid.
	if _, ok := l.cellAt(0, l.gridY); ok {
		t.Fatal("sidebar mapped to a cell")
	}
	if _, ok := l.cellAt(l.gridX-1, l.gridY); ok {
		t.Fatal("gutter mapped to a cell")
	}

	// Above and below the grid window.
	if _, ok := l.cellAt(l.gridX, l.gridY-1); ok {
		t.Fatal("header row mapped to a cell")
	}
	if _, ok := l.cellAt(l.gridX, l.gridY+l.rows); ok {
		t.Fatal("footer row mapped to a cell")
	}

	// Right of the last day column.
	if _, ok := l.cellAt(l.gridX+timegrid.WorkDays*l.colWidth, l.gridY); ok {
		t.Fatal("past Friday mapped to a cell")
	}
}

func TestCellAtHonorsScrollOffset(t *testing.T) {
	l := computeLayout(120, 30, 10)
	cell, ok := l.cellAt(l.gridX, l.gridY)
	if !ok || cell.Slot != 10 {
		t.Fatalf("scrolled top row = %+v ok=%v", cell, ok)
	}
}

func TestCellOriginRoundTrips(t *testing.T) {
	l := computeLayout(120, 30, 5)
	want := dragstate.Cell{Day: 3, Slot: 12}
	x, y, visible := l.cellOrigin(want)
	if !visible {
		t.Fatal("cell not visible")
	}
	got, ok := l.cellAt(x, y)
	if !ok || got != want {
		t.Fatalf("round trip = %+v ok=%v", got, ok)
	}

	// A slot scrolled above the window is not visible.
	if _, _, visible := l.cellOrigin(dragstate.Cell{Day: 0, Slot: 2}); visible {
		t.Fatal("slot above the window reported visible")
	}
}

func TestMaxSlotOffset(t *testing.T) {
	// A tall window shows every slot: nothing to scroll.
	tall := computeLayout(120, len(timegrid.Slots())+headerRows+footerRows, 0)
	if got := tall.maxSlotOffset(); got != 0 {
		t.Fatalf("tall window max offset = %d", got)
	}

	short := computeLayout(120, 20, 0)
	want := len(timegrid.Slots()) - short.rows
	if got := short.maxSlotOffset(); got != want {
		t.Fatalf("short window max offset = %d, want %d", got, want)
	}
}

func TestCellInRange(t *testing.T) {
	from := dragstate.Cell{Day: 1, Slot: 4}
	to := dragstate.Cell{Day: 1, Slot: 8}

	for slot := 4; slot <= 8; slot++ {
		if !cellInRange(dragstate.Cell{Day: 1, Slot: slot}, from, to) {
			t.Fatalf("slot %d not in range", slot)
		}
	}
	if cellInRange(dragstate.Cell{Day: 1, Slot: 3}, from, to) {
		t.Fatal("slot before range matched")
	}
	if cellInRange(dragstate.Cell{Day: 0, Slot: 6}, from, to) {
		t.Fatal("earlier day matched")
	}
}
