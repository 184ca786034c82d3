package battleship

// Board is one player's view of a match: the own fleet and what is known
// about the enemy's. It is not safe for concurrent use.
type Board struct {
	fleet *Fleet

	shotsReceived Grid[bool]
	scratch       Grid[bool]
	occupancy     Grid[bool]

	enemyHits      Grid[bool]
	enemyShotsSent Grid[bool]
	remainingEnemy ShipCounts
}

func NewBoard() *Board {
	return &Board{
		fleet:          NewFleet(),
		remainingEnemy: NewFleetCounts(),
	}
}

// Scratch is the mask the player marks cells on before confirming a ship.
func (b *Board) Scratch() *Grid[bool] {
	return &b.scratch
}

func (b *Board) Ships() []Ship {
	return b.fleet.Ships()
}

func (b *Board) IsFleetComplete() bool {
	return b.fleet.IsComplete()
}

func (b *Board) IsOccupied(at Block) bool {
	return b.occupancy.Get(at)
}

func (b *Board) IsShotAt(at Block) bool {
	return b.shotsReceived.Get(at)
}

// HasFiredAt reports whether an outgoing shot was already sent to at.
func (b *Board) HasFiredAt(at Block) bool {
	return b.enemyShotsSent.Get(at)
}

func (b *Board) IsEnemyHit(at Block) bool {
	return b.enemyHits.Get(at)
}

// CheckWin reports whether every ship of this board has been sunk, i.e. the
// opponent won.
func (b *Board) CheckWin() bool {
	return b.fleet.Len() > 0 && b.fleet.AllSunk()
}

// RemainingOwnShips returns the own ships still afloat per length.
func (b *Board) RemainingOwnShips() ShipCounts {
	return b.fleet.Afloat()
}

// RemainingEnemyShips returns the enemy ships not yet known to be sunk.
func (b *Board) RemainingEnemyShips() ShipCounts {
	return b.remainingEnemy
}

func (b *Board) String() string {
	var view Grid[string]
	b.occupancy.Each(func(at Block, occupied bool) {
		switch {
		case occupied && b.shotsReceived.Get(at):
			view.Set(at, "!")
		case occupied:
			view.Set(at, "S")
		case b.shotsReceived.Get(at):
			view.Set(at, "O")
		default:
			view.Set(at, "~")
		}
	})
	return view.Render(func(s string) string { return s })
}
