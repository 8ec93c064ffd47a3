// Package dragstate interprets a pointer press/motion/release sequence
// over grid cells as one of the calendar gestures: create-by-drag,
// move-by-drag, or click-to-inspect. The machine is pure: it never
// touches the network and never resolves timestamps; the view turns
// its results into API calls.
package dragstate

import "github.com/md-rashed-zaman/opscal/internal/model"

// Cell addresses one grid cell: day column 0..4, slot row 0..40.
type Cell struct {
	Day  int
	Slot int
}

// before orders cells by day, then slot.
func (c Cell) before(other Cell) bool {
	if c.Day != other.Day {
		return c.Day < other.Day
	}
	return c.Slot < other.Slot
}

type State int

const (
	Idle State = iota
	Creating
	Moving
)

type ResultKind int

const (
	// ResultNone: the gesture was abandoned. Silently discarded.
	ResultNone ResultKind = iota
	// ResultCreate: open the editor pre-filled for [From, To]
	// (inclusive cells; the end timestamp is To's slot + 15 minutes).
	// Nothing is persisted by the gesture itself.
	ResultCreate
	// ResultMove: reschedule EventID so it starts at Dest, keeping
	// its original duration.
	ResultMove
	// ResultInspect: a press and release on the same booked cell with
	// no motion; open the popover for EventID.
	ResultInspect
)

type Result struct {
	Kind      ResultKind
	From, To  Cell // Create: normalized so From <= To
	Owner     model.Person
	EventID   string // Move, Inspect
	Dest      Cell   // Move
	MovedFrom Cell   // Move: the cell the press started on
}

// Machine tracks one in-flight pointer gesture. Zero value is Idle.
type Machine struct {
	state   State
	start   Cell
	end     Cell
	over    Cell
	hasOver bool
	owner   model.Person
	eventID string
}

func (m *Machine) State() State { return m.state }

// Active reports whether a gesture is in flight. Click-to-inspect
// popovers are suppressed while this is true.
func (m *Machine) Active() bool { return m.state != Idle }

// StartCreate begins a create-by-drag from a press on an empty cell.
// owner is the candidate owning person: the first selected person, or
// the first person in the directory when the selection is empty.
func (m *Machine) StartCreate(cell Cell, owner model.Person) {
	m.reset()
	m.state = Creating
	m.start = cell
	m.end = cell
	m.owner = owner
}

// StartMove begins a move-by-drag from a press on a booked cell.
func (m *Machine) StartMove(cell Cell, eventID string) {
	m.reset()
	m.state = Moving
	m.start = cell
	m.eventID = eventID
}

// Enter records pointer motion into a cell. In Creating it reassigns
// the selection end (one contiguous range, not multi-region); in
// Moving it updates the destination preview.
func (m *Machine) Enter(cell Cell) {
	switch m.state {
	case Creating:
		m.end = cell
	case Moving:
		m.over = cell
		m.hasOver = true
	}
}

// Release resolves the gesture and returns the machine to Idle.
func (m *Machine) Release() Result {
	defer m.reset()

	switch m.state {
	case Creating:
		from, to := m.start, m.end
		// Backwards drags are valid: normalize to a forward range.
		if to.before(from) {
			from, to = to, from
		}
		return Result{Kind: ResultCreate, From: from, To: to, Owner: m.owner}

	case Moving:
		if !m.hasOver || m.over == m.start {
			return Result{Kind: ResultInspect, EventID: m.eventID}
		}
		return Result{Kind: ResultMove, EventID: m.eventID, Dest: m.over, MovedFrom: m.start}
	}
	return Result{Kind: ResultNone}
}

// Abandon discards the gesture without resolving it (release outside
// any valid drop target).
func (m *Machine) Abandon() {
	m.reset()
}

// Selection returns the normalized Creating range for rendering the
// drag preview.
func (m *Machine) Selection() (from, to Cell, ok bool) {
	if m.state != Creating {
		return Cell{}, Cell{}, false
	}
	from, to = m.start, m.end
	if to.before(from) {
		from, to = to, from
	}
	return from, to, true
}

// MovePreview returns the destination cell of an in-flight move.
func (m *Machine) MovePreview() (dest Cell, ok bool) {
	if m.state != Moving || !m.hasOver {
		return Cell{}, false
	}
	return m.over, true
}

// MovingEventID returns the event being dragged, if any.
func (m *Machine) MovingEventID() (string, bool) {
	if m.state != Moving {
		return "", false
	}
	return m.eventID, true
}

func (m *Machine) reset() {
	*m = Machine{}
}
