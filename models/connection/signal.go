package connection

const (
	CodeSessionID uint8 = iota
	CodeCreateMatch
	CodeJoinMatch

	// Both players are in the match and can start placing ships
	CodeSelectGrid
	CodePlaceShip
	CodeReady
	CodeStartMatch

	CodeAttack

	// Sent to the defender with the shot it just received
	CodeIncomingShot

	// Sent to the attacker when its shot sank a ship
	CodeEnemyShipSunk
	CodeFleetStatus
	CodeEndMatch
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	CodeOtherPlayerDisconnected
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
