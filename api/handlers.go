package api

import (
	"errors"
	"log"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

type RequestHandler interface {
	HandleCreateMatch(mm mb.MatchManager, session *mc.Session) mc.Message[mc.RespCreateMatch]
	HandleJoinMatch(mm mb.MatchManager, session *mc.Session) mc.Message[mc.RespJoinMatch]
	HandlePlaceShip(session *mc.Session) (mc.Message[mc.RespPlaceShip], mb.PlacementResult)
	HandleAttack(session *mc.Session) (mc.Message[mc.RespAttack], mb.AttackResult)
	HandleFleetStatus(session *mc.Session) mc.Message[mc.RespFleetStatus]
}

// Every incoming valid request will have this structure
// The request then is handled in line with RequestHandler interface
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

func (r Request) HandleCreateMatch(mm mb.MatchManager, session *mc.Session) mc.Message[mc.RespCreateMatch] {
	resp := mc.NewMessage[mc.RespCreateMatch](mc.CodeCreateMatch)
	if session.Match() != nil {
		resp.AddError("session is already part of a match", "")
		return resp
	}

	match, hostPlayer := mm.CreateMatch(session.Id())
	session.SetMatch(match, hostPlayer)
	log.Printf("match created: %s\thost: %s", match.Uuid(), hostPlayer.Uuid())

	resp.AddPayload(mc.RespCreateMatch{MatchUuid: match.Uuid(), HostUuid: hostPlayer.Uuid()})
	return resp
}

// Join user sends the match uuid and if this match exists,
// a new join player is created and added to it
func (r Request) HandleJoinMatch(mm mb.MatchManager, session *mc.Session) mc.Message[mc.RespJoinMatch] {
	resp := mc.NewMessage[mc.RespJoinMatch](mc.CodeJoinMatch)
	if session.Match() != nil {
		resp.AddError("session is already part of a match", "")
		return resp
	}

	req, err := mc.DecodeMessage[mc.ReqJoinMatch](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "invalid join match payload")
		return resp
	}

	match, joinPlayer, err := mm.JoinMatch(req.Payload.MatchUuid, session.Id())
	if err != nil {
		resp.AddError(err.Error(), "")
		return resp
	}
	session.SetMatch(match, joinPlayer)
	log.Printf("player joined match: %s\tplayer: %s", match.Uuid(), joinPlayer.Uuid())

	resp.AddPayload(mc.RespJoinMatch{MatchUuid: match.Uuid(), PlayerUuid: joinPlayer.Uuid()})
	return resp
}

// User marks the cells of the next ship slot on the defence grid. A rejected
// ship is reported with the length to retry, not as an error.
func (r Request) HandlePlaceShip(session *mc.Session) (mc.Message[mc.RespPlaceShip], mb.PlacementResult) {
	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)
	if session.Match() == nil {
		resp.AddError(cerr.ErrNoMatchForSession(session.Id()).Error(), cerr.ConstErrPlacementFailed)
		return resp, mb.PlacementResult{}
	}

	req, err := mc.DecodeMessage[mc.ReqPlaceShip](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "invalid place ship payload")
		return resp, mb.PlacementResult{}
	}

	result, err := session.Match().PlaceShip(session.Player(), req.Payload.Cells)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlacementFailed)
		return resp, mb.PlacementResult{}
	}

	respPayload := mc.RespPlaceShip{
		Accepted:   result.Accepted,
		NextLength: result.NextLength,
		Ready:      result.Ready,
	}
	if result.Accepted {
		ship := result.Ship
		respPayload.Ship = &ship
	}
	resp.AddPayload(respPayload)
	return resp, result
}

// The response carries the attacker view, is_turn being false for the
// attacker after every valid shot.
func (r Request) HandleAttack(session *mc.Session) (mc.Message[mc.RespAttack], mb.AttackResult) {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)
	if session.Match() == nil {
		resp.AddError(cerr.ErrNoMatchForSession(session.Id()).Error(), cerr.ConstErrAttackFailed)
		return resp, mb.AttackResult{}
	}

	req, err := mc.DecodeMessage[mc.ReqAttack](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "invalid attack payload")
		return resp, mb.AttackResult{}
	}

	target := mb.NewBlock(req.Payload.X, req.Payload.Y)
	result, err := session.Match().Attack(session.Player(), target)
	switch {
	case err == nil:
	case errors.Is(err, mb.ErrIndeterminateGeometry), errors.Is(err, mb.ErrNotRecordedHit):
		// the shot went through, only the sunk ship could not be rebuilt
		log.Printf("match %s: failed to infer sunk ship at %+v: %s", session.Match().Uuid(), target, err)
	default:
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp, mb.AttackResult{}
	}

	resp.AddPayload(mc.NewRespAttack(result.Target, result.Feedback, false))
	return resp, result
}

func (r Request) HandleFleetStatus(session *mc.Session) mc.Message[mc.RespFleetStatus] {
	resp := mc.NewMessage[mc.RespFleetStatus](mc.CodeFleetStatus)
	if session.Match() == nil {
		resp.AddError(cerr.ErrNoMatchForSession(session.Id()).Error(), "")
		return resp
	}

	own, enemy := session.Match().FleetStatus(session.Player())
	resp.AddPayload(mc.RespFleetStatus{Own: own, Enemy: enemy})
	return resp
}
