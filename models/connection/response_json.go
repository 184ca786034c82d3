package connection

import (
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateMatch struct {
	MatchUuid string `json:"match_uuid"`
	HostUuid  string `json:"host_uuid"`
}

type RespJoinMatch struct {
	MatchUuid  string `json:"match_uuid"`
	PlayerUuid string `json:"player_uuid"`
}

type RespPlaceShip struct {
	Accepted   bool     `json:"accepted"`
	Ship       *mb.Ship `json:"ship,omitempty"`
	NextLength uint8    `json:"next_length"`
	Ready      bool     `json:"ready"`
}

type RespAttack struct {
	X        uint8 `json:"x"`
	Y        uint8 `json:"y"`
	Hit      bool  `json:"hit"`
	SunkSize uint8 `json:"sunk_size"`
	Win      bool  `json:"win"`
	IsTurn   bool  `json:"is_turn"`
}

func NewRespAttack(target mb.Block, fb mb.Feedback, isTurn bool) RespAttack {
	return RespAttack{
		X:        target.X,
		Y:        target.Y,
		Hit:      fb.Hit,
		SunkSize: fb.SunkSize,
		Win:      fb.Win,
		IsTurn:   isTurn,
	}
}

// Remaining counters are indexed by ship length, starting at length 2.
type RespEnemyShipSunk struct {
	Ship      mb.EnemyShip  `json:"ship"`
	Remaining mb.ShipCounts `json:"remaining"`
}

type RespFleetStatus struct {
	Own   mb.ShipCounts `json:"own"`
	Enemy mb.ShipCounts `json:"enemy"`
}

type RespEndMatch struct {
	PlayerMatchStatus int `json:"player_match_status"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
