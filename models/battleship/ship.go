package battleship

const (
	MinShipLength uint8 = 2
	MaxShipLength uint8 = 5
)

// FleetComposition is the placement order of every fleet.
var FleetComposition = [...]uint8{5, 4, 3, 3, 2}

const FleetSize = len(FleetComposition)

// ShipCounts holds one counter per ship length, index 0 being length 2.
type ShipCounts [MaxShipLength - MinShipLength + 1]uint8

func NewFleetCounts() ShipCounts {
	var counts ShipCounts
	for _, length := range FleetComposition {
		counts[length-MinShipLength]++
	}
	return counts
}

func isValidLength(length uint8) bool {
	return length >= MinShipLength && length <= MaxShipLength
}

func (c ShipCounts) Of(length uint8) uint8 {
	if !isValidLength(length) {
		return 0
	}
	return c[length-MinShipLength]
}

func (c ShipCounts) Total() int {
	total := 0
	for _, n := range c {
		total += int(n)
	}
	return total
}

func (c *ShipCounts) take(length uint8) bool {
	if c.Of(length) == 0 {
		return false
	}
	c[length-MinShipLength]--
	return true
}

type Ship struct {
	Size     uint8 `json:"size"`
	Start    Block `json:"start"`
	Vertical bool  `json:"vertical"`
	hits     uint8
}

func NewShip(size uint8, start Block, vertical bool) Ship {
	return Ship{
		Size:     size,
		Start:    start,
		Vertical: vertical,
	}
}

// GotHit never lets the hit counter pass the ship size.
func (sh *Ship) GotHit() {
	if sh.hits < sh.Size {
		sh.hits++
	}
}

func (sh Ship) Hits() uint8 {
	return sh.hits
}

func (sh Ship) IsSunk() bool {
	return sh.hits == sh.Size
}

func (sh Ship) Blocks() []Block {
	blocks := make([]Block, 0, sh.Size)
	for i := uint8(0); i < sh.Size; i++ {
		if sh.Vertical {
			blocks = append(blocks, Block{X: sh.Start.X, Y: sh.Start.Y + i})
		} else {
			blocks = append(blocks, Block{X: sh.Start.X + i, Y: sh.Start.Y})
		}
	}
	return blocks
}
