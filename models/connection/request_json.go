package connection

import (
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
)

type ReqJoinMatch struct {
	MatchUuid string `json:"match_uuid"`
}

// Cells are the blocks the player marked for the next ship slot.
type ReqPlaceShip struct {
	Cells []mb.Block `json:"cells"`
}

type ReqAttack struct {
	X uint8 `json:"x"`
	Y uint8 `json:"y"`
}
