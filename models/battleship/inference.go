package battleship

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRecordedHit is returned when inference is asked about a block
	// that holds no recorded enemy hit.
	ErrNotRecordedHit = errors.New("no enemy hit recorded at block")
	// ErrIndeterminateGeometry is returned when the recorded hits around a
	// block do not describe a ship of the known fleet.
	ErrIndeterminateGeometry = errors.New("enemy ship geometry is indeterminate")
)

// EnemyShip is an opponent ship reconstructed from recorded hits.
type EnemyShip struct {
	Start    Block `json:"start"`
	Vertical bool  `json:"vertical"`
	Length   uint8 `json:"length"`
}

func errLengthMismatch(inferred, reported uint8) error {
	return fmt.Errorf("%w: inferred length %d, reported %d", ErrIndeterminateGeometry, inferred, reported)
}

// InferSunkShip reconstructs the enemy ship that the shot at at just sank
// and removes it from the remaining enemy fleet. It must be called once, with
// the block of the shot that sank the ship.
func (b *Board) InferSunkShip(at Block) (EnemyShip, error) {
	ship, err := b.inferGeometry(at)
	if err != nil {
		return EnemyShip{}, err
	}
	if err := b.takeEnemyShip(ship.Length); err != nil {
		return EnemyShip{}, err
	}
	return ship, nil
}

func (b *Board) takeEnemyShip(length uint8) error {
	if !b.remainingEnemy.take(length) {
		return fmt.Errorf("%w: no enemy ship of length %d left", ErrIndeterminateGeometry, length)
	}
	return nil
}

func (b *Board) enemyHitAt(x, y int) bool {
	hit, _ := b.enemyHits.Lookup(x, y)
	return hit
}

// inferGeometry looks west and north first. A block with neither neighbour
// hit is the start of the ship, which then runs east or, failing that,
// south. Otherwise the block sits inside a run that is measured in both
// directions along the axis of the hit neighbour.
func (b *Board) inferGeometry(at Block) (EnemyShip, error) {
	if !b.enemyHits.Get(at) {
		return EnemyShip{}, fmt.Errorf("%w: x: %d\ty: %d", ErrNotRecordedHit, at.X, at.Y)
	}
	x, y := int(at.X), int(at.Y)

	switch {
	case !b.enemyHitAt(x-1, y) && !b.enemyHitAt(x, y-1):
		if b.enemyHitAt(x+1, y) {
			return b.shipFromRun(at, x, y, false, 1, b.runLength(x, y, 1, 0))
		}
		if b.enemyHitAt(x, y+1) {
			return b.shipFromRun(at, x, y, true, 1, b.runLength(x, y, 0, 1))
		}
		return EnemyShip{}, fmt.Errorf("%w: isolated hit at x: %d\ty: %d", ErrIndeterminateGeometry, x, y)

	case b.enemyHitAt(x-1, y):
		return b.shipFromRun(at, x, y, false, b.runLength(x, y, -1, 0), b.runLength(x, y, 1, 0))

	default:
		return b.shipFromRun(at, x, y, true, b.runLength(x, y, 0, -1), b.runLength(x, y, 0, 1))
	}
}

// runLength counts the consecutive hits starting at x,y (included) in the
// direction dx,dy. Runs longer than the largest ship return 0.
func (b *Board) runLength(x, y, dx, dy int) int {
	for k := 1; k <= int(MaxShipLength); k++ {
		if !b.enemyHitAt(x+k*dx, y+k*dy) {
			return k
		}
	}
	return 0
}

func (b *Board) shipFromRun(at Block, x, y int, vertical bool, before, after int) (EnemyShip, error) {
	if before == 0 || after == 0 {
		return EnemyShip{}, fmt.Errorf("%w: run through x: %d\ty: %d is too long", ErrIndeterminateGeometry, x, y)
	}

	length := before + after - 1
	if length < int(MinShipLength) || length > int(MaxShipLength) {
		return EnemyShip{}, fmt.Errorf("%w: run of length %d", ErrIndeterminateGeometry, length)
	}

	start := at
	if vertical {
		start.Y = uint8(y - before + 1)
	} else {
		start.X = uint8(x - before + 1)
	}

	return EnemyShip{
		Start:    start,
		Vertical: vertical,
		Length:   uint8(length),
	}, nil
}
