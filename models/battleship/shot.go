package battleship

// Feedback is what the defender reports back for a shot.
type Feedback struct {
	Hit      bool  `json:"hit"`
	SunkSize uint8 `json:"sunk_size"`
	Win      bool  `json:"win"`
}

// ResolveShot marks at as shot and reports whether a ship was hit. sunkSize
// is the ship size when this shot sank it and 0 otherwise. Shooting a block
// twice has no effect and reports a miss.
func (b *Board) ResolveShot(at Block) (hit bool, sunkSize uint8) {
	if b.shotsReceived.Get(at) {
		return false, 0
	}
	b.shotsReceived.Set(at, true)

	idx, ok := b.fleet.ShipAt(at)
	if !ok {
		return false, 0
	}

	ship := b.fleet.Hit(idx)
	if ship.IsSunk() {
		return true, ship.Size
	}
	return true, 0
}

// ReceiveShot resolves an incoming shot and packages the outcome for the
// shooter.
func (b *Board) ReceiveShot(at Block) Feedback {
	hit, sunkSize := b.ResolveShot(at)
	return Feedback{
		Hit:      hit,
		SunkSize: sunkSize,
		Win:      b.CheckWin(),
	}
}

// RecordShotFeedback stores the defender's answer to a shot fired at at.
// When the shot sank a ship, the ship is reconstructed from the recorded
// hits and returned with sunk set to true.
func (b *Board) RecordShotFeedback(at Block, fb Feedback) (ship EnemyShip, sunk bool, err error) {
	b.enemyShotsSent.Set(at, true)
	if !fb.Hit {
		return EnemyShip{}, false, nil
	}

	b.enemyHits.Set(at, true)
	if fb.SunkSize == 0 {
		return EnemyShip{}, false, nil
	}

	ship, err = b.inferGeometry(at)
	if err != nil {
		return EnemyShip{}, false, err
	}
	if ship.Length != fb.SunkSize {
		return EnemyShip{}, false, errLengthMismatch(ship.Length, fb.SunkSize)
	}
	if err := b.takeEnemyShip(ship.Length); err != nil {
		return EnemyShip{}, false, err
	}
	return ship, true, nil
}
