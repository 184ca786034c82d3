package battleship

import "github.com/dolthub/swiss"

// Fleet owns the placed ships. Ships are addressed by index and every
// mutation goes through the fleet, so no caller holds a pointer into it.
type Fleet struct {
	ships []Ship
	cells *swiss.Map[Block, int]
}

func NewFleet() *Fleet {
	return &Fleet{
		ships: make([]Ship, 0, FleetSize),
		cells: swiss.NewMap[Block, int](uint32(GridSize * GridSize)),
	}
}

func (f *Fleet) Add(ship Ship) int {
	idx := len(f.ships)
	f.ships = append(f.ships, ship)
	for _, b := range ship.Blocks() {
		f.cells.Put(b, idx)
	}
	return idx
}

func (f *Fleet) Len() int {
	return len(f.ships)
}

func (f *Fleet) IsComplete() bool {
	return len(f.ships) == FleetSize
}

// ShipAt returns the index of the ship covering b.
func (f *Fleet) ShipAt(b Block) (int, bool) {
	return f.cells.Get(b)
}

// Hit registers one hit on the ship at idx and returns the updated ship.
func (f *Fleet) Hit(idx int) Ship {
	f.ships[idx].GotHit()
	return f.ships[idx]
}

// Ships returns a copy of the fleet in placement order.
func (f *Fleet) Ships() []Ship {
	ships := make([]Ship, len(f.ships))
	copy(ships, f.ships)
	return ships
}

func (f *Fleet) AllSunk() bool {
	for _, ship := range f.ships {
		if !ship.IsSunk() {
			return false
		}
	}
	return true
}

// placed counts the ships of the given length, sunk or not.
func (f *Fleet) placed(length uint8) uint8 {
	var n uint8
	for _, ship := range f.ships {
		if ship.Size == length {
			n++
		}
	}
	return n
}

// Afloat counts the ships that are not sunk yet, per length.
func (f *Fleet) Afloat() ShipCounts {
	var counts ShipCounts
	for _, ship := range f.ships {
		if !ship.IsSunk() && isValidLength(ship.Size) {
			counts[ship.Size-MinShipLength]++
		}
	}
	return counts
}
