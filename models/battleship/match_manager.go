package battleship

import (
	"sync"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

type MatchManager interface {
	CreateMatch(sessionId string) (*Match, *Player)
	JoinMatch(matchUuid, sessionId string) (*Match, *Player, error)
	GetMatch(matchUuid string) (*Match, error)
	TerminateMatch(matchUuid string)
	CountMatches() int
}

type BattleshipMatchManager struct {
	matches map[string]*Match
	mu      sync.RWMutex
}

var _ MatchManager = (*BattleshipMatchManager)(nil)

func NewBattleshipMatchManager() *BattleshipMatchManager {
	return &BattleshipMatchManager{
		matches: make(map[string]*Match, 10),
	}
}

func (bmm *BattleshipMatchManager) CreateMatch(sessionId string) (*Match, *Player) {
	match := NewMatch()
	hostPlayer := match.CreateHostPlayer(sessionId)

	bmm.mu.Lock()
	bmm.matches[match.uuid] = match
	bmm.mu.Unlock()

	return match, hostPlayer
}

func (bmm *BattleshipMatchManager) JoinMatch(matchUuid, sessionId string) (*Match, *Player, error) {
	match, err := bmm.GetMatch(matchUuid)
	if err != nil {
		return nil, nil, err
	}

	joinPlayer, err := match.CreateJoinPlayer(sessionId)
	if err != nil {
		return nil, nil, err
	}
	return match, joinPlayer, nil
}

func (bmm *BattleshipMatchManager) GetMatch(matchUuid string) (*Match, error) {
	bmm.mu.RLock()
	match, prs := bmm.matches[matchUuid]
	bmm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrMatchNotExists(matchUuid)
	}

	return match, nil
}

func (bmm *BattleshipMatchManager) TerminateMatch(matchUuid string) {
	bmm.mu.Lock()
	if match, prs := bmm.matches[matchUuid]; prs {
		match.Finish()
		delete(bmm.matches, matchUuid)
	}
	bmm.mu.Unlock()
}

func (bmm *BattleshipMatchManager) CountMatches() int {
	bmm.mu.RLock()
	defer bmm.mu.RUnlock()
	return len(bmm.matches)
}
