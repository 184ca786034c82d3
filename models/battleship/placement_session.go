package battleship

type PlacementState uint8

const (
	PlacementAwaitingInput PlacementState = iota
	PlacementValidating
	PlacementCommitted
	PlacementRetryAwaitingInput
	PlacementComplete
	PlacementAborted
)

func (s PlacementState) String() string {
	switch s {
	case PlacementAwaitingInput:
		return "awaiting input"
	case PlacementValidating:
		return "validating"
	case PlacementCommitted:
		return "committed"
	case PlacementRetryAwaitingInput:
		return "retry awaiting input"
	case PlacementComplete:
		return "complete"
	case PlacementAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// PlacementSession drives the setup of a fleet one slot at a time, in
// FleetComposition order. A rejected ship keeps the current slot so the
// player retries the same length.
type PlacementSession struct {
	board *Board
	slot  int
	state PlacementState
}

func NewPlacementSession(board *Board) *PlacementSession {
	return &PlacementSession{
		board: board,
		slot:  board.fleet.Len(),
		state: PlacementAwaitingInput,
	}
}

func (ps *PlacementSession) State() PlacementState {
	return ps.state
}

func (ps *PlacementSession) Done() bool {
	return ps.state == PlacementComplete || ps.state == PlacementAborted
}

// NextLength is the length of the ship the current slot expects.
func (ps *PlacementSession) NextLength() (uint8, bool) {
	if ps.slot >= FleetSize {
		return 0, false
	}
	return FleetComposition[ps.slot], true
}

// Toggle flips the mark of one scratch cell and returns its new value.
func (ps *PlacementSession) Toggle(at Block) bool {
	if ps.Done() {
		return false
	}
	scratch := ps.board.Scratch()
	marked := !scratch.Get(at)
	scratch.Set(at, marked)
	ps.state = PlacementAwaitingInput
	return marked
}

// Confirm validates the marked cells against the current slot. It returns
// true when the ship was committed.
func (ps *PlacementSession) Confirm() bool {
	length, ok := ps.NextLength()
	if !ok || ps.Done() {
		return false
	}

	ps.state = PlacementValidating
	if !ps.board.ValidateAndCommit(ps.board.Scratch(), length) {
		ps.state = PlacementRetryAwaitingInput
		return false
	}

	ps.slot++
	ps.state = PlacementCommitted
	if ps.slot == FleetSize {
		ps.state = PlacementComplete
	}
	return true
}

// Submit replaces the scratch mask with cells and confirms it in one step.
func (ps *PlacementSession) Submit(cells []Block) bool {
	if ps.Done() {
		return false
	}
	scratch := ps.board.Scratch()
	scratch.Reset()
	for _, at := range cells {
		scratch.Set(at, true)
	}
	return ps.Confirm()
}

// Abort stops the setup. Ships already committed stay on the board.
func (ps *PlacementSession) Abort() {
	if ps.state == PlacementComplete {
		return
	}
	ps.board.Scratch().Reset()
	ps.state = PlacementAborted
}
