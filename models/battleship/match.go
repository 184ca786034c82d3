package battleship

import (
	"sync"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

// PlacementResult describes the outcome of one ship placement request.
type PlacementResult struct {
	Accepted   bool
	Ship       Ship
	NextLength uint8
	Ready      bool

	// MatchReady is set only by the placement that completed the second
	// fleet, so the match start is announced once.
	MatchReady bool
}

// AttackResult is the outcome of a shot seen from both sides.
type AttackResult struct {
	Target    Block
	Feedback  Feedback
	Sunk      bool
	EnemyShip EnemyShip
}

// Match holds the two boards of one game. Boards are single threaded, so
// every operation that touches them holds mu.
type Match struct {
	uuid       string
	isFinished bool
	hostPlayer *Player
	joinPlayer *Player
	players    map[string]*Player
	mu         sync.Mutex
}

func NewMatch() *Match {
	return &Match{
		uuid:    uuid.NewString()[:6],
		players: make(map[string]*Player, 2),
	}
}

func (m *Match) Uuid() string {
	return m.uuid
}

func (m *Match) IsFinished() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isFinished
}

func (m *Match) CreateHostPlayer(sessionId string) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()

	hostPlayer := NewPlayer(true, true, sessionId)
	m.hostPlayer = hostPlayer
	m.players[hostPlayer.uuid] = hostPlayer
	return hostPlayer
}

func (m *Match) CreateJoinPlayer(sessionId string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.joinPlayer != nil {
		return nil, cerr.ErrMatchIsFull(m.uuid)
	}

	joinPlayer := NewPlayer(false, false, sessionId)
	m.joinPlayer = joinPlayer
	m.players[joinPlayer.uuid] = joinPlayer
	return joinPlayer, nil
}

func (m *Match) FindPlayer(playerUuid string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	player, prs := m.players[playerUuid]
	if !prs {
		return nil, cerr.ErrPlayerNotExist(playerUuid)
	}
	return player, nil
}

// GetOtherPlayer returns the opponent of p, nil while nobody joined.
func (m *Match) GetOtherPlayer(p *Player) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.otherPlayer(p)
}

func (m *Match) otherPlayer(p *Player) *Player {
	if p.isHost {
		return m.joinPlayer
	}
	return m.hostPlayer
}

func (m *Match) IsReadyToStart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isReadyToStart()
}

func (m *Match) isReadyToStart() bool {
	return m.hostPlayer != nil && m.joinPlayer != nil && m.hostPlayer.IsReady() && m.joinPlayer.IsReady()
}

// PlaceShip submits cells for the next ship slot of p. A rejected placement
// is not an error: the slot stays open and the player retries.
func (m *Match) PlaceShip(p *Player, cells []Block) (PlacementResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isFinished {
		return PlacementResult{}, cerr.ErrMatchIsOver(m.uuid)
	}
	if _, ok := p.placement.NextLength(); !ok {
		return PlacementResult{}, cerr.ErrFleetAlreadyPlaced(p.uuid)
	}
	for _, at := range cells {
		if !at.InBounds() {
			return PlacementResult{}, cerr.ErrXorYOutOfGridBound(int(at.X), int(at.Y))
		}
	}

	result := PlacementResult{Accepted: p.placement.Submit(cells)}
	if result.Accepted {
		ships := p.board.Ships()
		result.Ship = ships[len(ships)-1]
	}
	if next, ok := p.placement.NextLength(); ok {
		result.NextLength = next
	}
	result.Ready = p.IsReady()
	result.MatchReady = result.Accepted && result.Ready && m.isReadyToStart()
	return result, nil
}

// Attack fires the attacker's shot at the opponent's board, hands the
// feedback back to the attacker's board and passes the turn. An error from
// reconstructing a sunk ship is returned along with a result that is
// otherwise complete.
func (m *Match) Attack(attacker *Player, target Block) (AttackResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isFinished {
		return AttackResult{}, cerr.ErrMatchIsOver(m.uuid)
	}
	if !m.isReadyToStart() {
		return AttackResult{}, cerr.ErrMatchNotStarted(m.uuid)
	}
	if !attacker.isTurn {
		return AttackResult{}, cerr.ErrNotPlayerTurn(attacker.uuid)
	}
	if !target.InBounds() {
		return AttackResult{}, cerr.ErrXorYOutOfGridBound(int(target.X), int(target.Y))
	}
	if attacker.board.HasFiredAt(target) {
		return AttackResult{}, cerr.ErrAttackPositionAlreadyFilled(int(target.X), int(target.Y))
	}

	defender := m.otherPlayer(attacker)
	result := AttackResult{
		Target:   target,
		Feedback: defender.board.ReceiveShot(target),
	}

	attacker.isTurn = false
	defender.isTurn = true
	if result.Feedback.Win {
		attacker.matchStatus = PlayerMatchStatusWon
		defender.matchStatus = PlayerMatchStatusLost
		m.isFinished = true
	}

	ship, sunk, err := attacker.board.RecordShotFeedback(target, result.Feedback)
	result.Sunk = sunk
	result.EnemyShip = ship
	return result, err
}

func (m *Match) Finish() {
	m.mu.Lock()
	m.isFinished = true
	m.mu.Unlock()
}

// FleetStatus returns the own ships still afloat and the enemy ships not yet
// sunk, as known by p.
func (m *Match) FleetStatus(p *Player) (own ShipCounts, enemy ShipCounts) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return p.board.RemainingOwnShips(), p.board.RemainingEnemyShips()
}
