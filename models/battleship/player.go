package battleship

import (
	"github.com/google/uuid"
)

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

type Player struct {
	uuid        string
	sessionId   string
	isHost      bool
	isTurn      bool
	matchStatus int
	board       *Board
	placement   *PlacementSession
}

func NewPlayer(isHost, isTurn bool, sessionId string) *Player {
	board := NewBoard()
	return &Player{
		uuid:        uuid.NewString()[:10],
		sessionId:   sessionId,
		isHost:      isHost,
		isTurn:      isTurn,
		matchStatus: PlayerMatchStatusUndefined,
		board:       board,
		placement:   NewPlacementSession(board),
	}
}

func (p *Player) Uuid() string {
	return p.uuid
}

func (p *Player) SessionId() string {
	return p.sessionId
}

func (p *Player) IsHost() bool {
	return p.isHost
}

func (p *Player) IsTurn() bool {
	return p.isTurn
}

func (p *Player) MatchStatus() int {
	return p.matchStatus
}

// IsReady is true once the whole fleet is placed.
func (p *Player) IsReady() bool {
	return p.board.IsFleetComplete()
}

func (p *Player) Board() *Board {
	return p.board
}

func (p *Player) Placement() *PlacementSession {
	return p.placement
}
