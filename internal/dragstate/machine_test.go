package dragstate

import (
	"testing"

	"github.com/md-rashed-zaman/opscal/internal/model"
)

var owner = model.Person{ID: "emp-1", Name: "Dana", Type: model.PersonEmployee}

func TestCreateDragForward(t *testing.T) {
	var m Machine
	m.StartCreate(Cell{Day: 1, Slot: 4}, owner)
	m.Enter(Cell{Day: 1, Slot: 6})
	res := m.Release()

	if res.Kind != ResultCreate {
		t.Fatalf("expected ResultCreate, got %v", res.Kind)
	}
	if res.From != (Cell{Day: 1, Slot: 4}) || res.To != (Cell{Day: 1, Slot: 6}) {
		t.Fatalf("unexpected range: %+v", res)
	}
	if res.Owner.ID != "emp-1" {
		t.Fatalf("owner not carried: %+v", res.Owner)
	}
	if m.Active() {
		t.Fatal("machine should be Idle after release")
	}
}

func TestCreateDragBackwardsNormalizes(t *testing.T) {
	var m Machine
	m.StartCreate(Cell{Day: 2, Slot: 10}, owner)
	m.Enter(Cell{Day: 2, Slot: 7})
	back := m.Release()

	m.StartCreate(Cell{Day: 2, Slot: 7}, owner)
	m.Enter(Cell{Day: 2, Slot: 10})
	forward := m.Release()

	if back.From != forward.From || back.To != forward.To {
		t.Fatalf("backwards drag %+v != forwards drag %+v", back, forward)
	}
}

func TestCreateClickSingleCell(t *testing.T) {
	var m Machine
	m.StartCreate(Cell{Day: 0, Slot: 0}, owner)
	res := m.Release()
	if res.Kind != ResultCreate || res.From != res.To {
		t.Fatalf("single-cell press should create a one-slot range, got %+v", res)
	}
}

func TestMoveDrag(t *testing.T) {
	var m Machine
	m.StartMove(Cell{Day: 0, Slot: 3}, "ev-9")
	if !m.Active() || m.State() != Moving {
		t.Fatal("expected Moving state")
	}
	m.Enter(Cell{Day: 3, Slot: 12})
	res := m.Release()

	if res.Kind != ResultMove {
		t.Fatalf("expected ResultMove, got %v", res.Kind)
	}
	if res.EventID != "ev-9" || res.Dest != (Cell{Day: 3, Slot: 12}) {
		t.Fatalf("unexpected move: %+v", res)
	}
}

func TestMoveWithoutMotionInspects(t *testing.T) {
	var m Machine
	m.StartMove(Cell{Day: 0, Slot: 3}, "ev-9")
	res := m.Release()
	if res.Kind != ResultInspect || res.EventID != "ev-9" {
		t.Fatalf("press+release on a booked cell should inspect, got %+v", res)
	}
}

func TestMoveBackToOriginInspects(t *testing.T) {
	var m Machine
	m.StartMove(Cell{Day: 0, Slot: 3}, "ev-9")
	m.Enter(Cell{Day: 0, Slot: 5})
	m.Enter(Cell{Day: 0, Slot: 3})
	res := m.Release()
	if res.Kind != ResultInspect {
		t.Fatalf("returning to the origin cell should not issue a move, got %+v", res)
	}
}

func TestAbandonIsSilent(t *testing.T) {
	var m Machine
	m.StartCreate(Cell{Day: 1, Slot: 1}, owner)
	m.Enter(Cell{Day: 1, Slot: 5})
	m.Abandon()
	if m.Active() {
		t.Fatal("abandon should reset to Idle")
	}
	if res := m.Release(); res.Kind != ResultNone {
		t.Fatalf("release after abandon should be a no-op, got %+v", res)
	}
}

func TestEnterIgnoredWhileIdle(t *testing.T) {
	var m Machine
	m.Enter(Cell{Day: 4, Slot: 40})
	if m.Active() {
		t.Fatal("Enter must not start a gesture")
	}
}

func TestSelectionPreviewNormalized(t *testing.T) {
	var m Machine
	m.StartCreate(Cell{Day: 1, Slot: 8}, owner)
	m.Enter(Cell{Day: 1, Slot: 2})
	from, to, ok := m.Selection()
	if !ok || from != (Cell{Day: 1, Slot: 2}) || to != (Cell{Day: 1, Slot: 8}) {
		t.Fatalf("unexpected selection preview: %v %v %v", from, to, ok)
	}
}

func TestMovePreview(t *testing.T) {
	var m Machine
	m.StartMove(Cell{Day: 2, Slot: 2}, "ev-1")
	if _, ok := m.MovePreview(); ok {
		t.Fatal("no preview before motion")
	}
	m.Enter(Cell{Day: 2, Slot: 9})
	dest, ok := m.MovePreview()
	if !ok || dest != (Cell{Day: 2, Slot: 9}) {
		t.Fatalf("unexpected move preview: %v %v", dest, ok)
	}
}
