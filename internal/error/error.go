package error

import "fmt"

const (
	ConstErrAttackFailed    = "attack operation failed"
	ConstErrPlacementFailed = "ship placement failed"
)

func ErrMatchNotExists(matchUuid string) error {
	return fmt.Errorf("match with this uuid does not exist, uuid: %s", matchUuid)
}

func ErrMatchIsFull(matchUuid string) error {
	return fmt.Errorf("match already has two players, uuid: %s", matchUuid)
}

func ErrMatchNotStarted(matchUuid string) error {
	return fmt.Errorf("match has not started yet, uuid: %s", matchUuid)
}

func ErrMatchIsOver(matchUuid string) error {
	return fmt.Errorf("match is already over, uuid: %s", matchUuid)
}

func ErrPlayerNotExist(playerUuid string) error {
	return fmt.Errorf("player with this uuid does not exist, uuid: %s", playerUuid)
}

func ErrNoMatchForSession(sessionId string) error {
	return fmt.Errorf("session is not part of any match, session id: %s", sessionId)
}

func ErrNotPlayerTurn(playerUuid string) error {
	return fmt.Errorf("it is not this player's turn, uuid: %s", playerUuid)
}

func ErrFleetAlreadyPlaced(playerUuid string) error {
	return fmt.Errorf("all ships are already placed for player, uuid: %s", playerUuid)
}

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("incoming x or y is out of game grid bound\tx: %d\ty: %d", x, y)
}

func ErrAttackPositionAlreadyFilled(x, y int) error {
	return fmt.Errorf("current position in grid already taken\tx: %d\ty: %d", x, y)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session is nil, id: %s", sessionId)
}

func ErrMissingEnv(key string) error {
	return fmt.Errorf("environment variable is not set: %s", key)
}

func ErrInvalidStage(stage string) error {
	return fmt.Errorf("stage must be either dev or prod, got: %s", stage)
}
