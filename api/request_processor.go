package api

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-engine/db/sqlc"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
	"github.com/sqlc-dev/pqtype"
)

var upgrader = websocket.Upgrader{
	// good average time since this is not a high-latency operation such as video streaming
	HandshakeTimeout: time.Second * 5,

	// probably more that enough but this is a good average size
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type RequestProcessor struct {
	sessionManager mc.SessionManager
	matchManager   mb.MatchManager
	dbManager      sqlc.DbManager
	ipnet          net.IPNet
}

// NewRequestProcessor wires the managers together. q may be nil, in which
// case no analytics are recorded.
func NewRequestProcessor(
	sessionManager mc.SessionManager,
	matchManager mb.MatchManager,
	q sqlc.Querier,
) RequestProcessor {
	return RequestProcessor{
		sessionManager: sessionManager,
		matchManager:   matchManager,
		dbManager:      sqlc.NewDbManager(q),
		ipnet:          getServerIpNet(),
	}
}

// getServerIpNet picks the first non loopback IPv4 address of the host,
// falling back to loopback on hosts without one.
func getServerIpNet() net.IPNet {
	fallback := net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(8, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Println("failed to list interfaces:", err)
		return fallback
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if ok && ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
				return *ipnet
			}
		}
	}

	return fallback
}

// Expose this method to use it in testing
func (rp RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		http.Error(w, "could not open websocket connection", http.StatusBadRequest)
		return
	}

	log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
	rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))
}

// Analytics failures never interrupt a match.
func (rp RequestProcessor) recordAnalytics(record func(ctx context.Context, serverIpNet pqtype.Inet) error) {
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	if err := record(ctx, pqtype.Inet{IPNet: rp.ipnet, Valid: true}); err != nil {
		log.Println(err)
	}
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()

	defer func() {
		rp.leaveMatch(session)
		_ = session.Conn().Close()
		rp.sessionManager.TerminateSession(sessionId)
		log.Println("session terminated:", sessionId)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err = rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch code {

		// In this branch we initialize the match and hence create a host player
		case mc.CodeCreateMatch:
			respMsg := NewRequest(payload).HandleCreateMatch(rp.matchManager, session)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if respMsg.Error == nil && rp.dbManager.Analytics != nil {
				rp.recordAnalytics(rp.dbManager.Analytics.IncrementMatchesCreatedCount)
			}

		// Once the second player is in, both are asked to place their fleets
		case mc.CodeJoinMatch:
			respMsg := NewRequest(payload).HandleJoinMatch(rp.matchManager, session)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			selectGridMsg := mc.NewMessage[mc.NoPayload](mc.CodeSelectGrid)
			if err := rp.sessionManager.WriteToSessionConn(session, selectGridMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if err := rp.notifyOpponent(session, selectGridMsg); err != nil {
				break sessionLoop
			}

		// One ship per request, in fleet order. The opponent is told when a
		// fleet is complete and the second complete fleet starts the match.
		case mc.CodePlaceShip:
			respMsg, result := NewRequest(payload).HandlePlaceShip(session)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if result.Accepted && result.Ready && !result.MatchReady {
				if err := rp.notifyOpponent(session, mc.NewMessage[mc.NoPayload](mc.CodeReady)); err != nil {
					break sessionLoop
				}
			}
			if !result.MatchReady {
				continue sessionLoop
			}

			startMsg := mc.NewMessage[mc.NoPayload](mc.CodeStartMatch)
			if err := rp.sessionManager.WriteToSessionConn(session, startMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if err := rp.notifyOpponent(session, startMsg); err != nil {
				break sessionLoop
			}

		// The defender's board resolves the shot and the attacker's board
		// records the feedback. A sunk ship is reported to the attacker with
		// its reconstructed geometry, a win ends the match for both.
		case mc.CodeAttack:
			respMsg, result := NewRequest(payload).HandleAttack(session)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}
			if rp.dbManager.Analytics != nil {
				rp.recordAnalytics(rp.dbManager.Analytics.IncrementShotsFiredCount)
			}

			incomingMsg := mc.NewMessage[mc.RespAttack](mc.CodeIncomingShot)
			incomingMsg.AddPayload(mc.NewRespAttack(result.Target, result.Feedback, true))
			if err := rp.notifyOpponent(session, incomingMsg); err != nil {
				break sessionLoop
			}

			if result.Sunk {
				_, enemy := session.Match().FleetStatus(session.Player())
				sunkMsg := mc.NewMessage[mc.RespEnemyShipSunk](mc.CodeEnemyShipSunk)
				sunkMsg.AddPayload(mc.RespEnemyShipSunk{Ship: result.EnemyShip, Remaining: enemy})
				if err := rp.sessionManager.WriteToSessionConn(session, sunkMsg, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
			}

			if result.Feedback.Win {
				if rp.dbManager.Analytics != nil {
					rp.recordAnalytics(rp.dbManager.Analytics.IncrementMatchesFinishedCount)
				}

				respAttacker := mc.NewMessage[mc.RespEndMatch](mc.CodeEndMatch)
				respAttacker.AddPayload(mc.RespEndMatch{PlayerMatchStatus: mb.PlayerMatchStatusWon})
				if err := rp.sessionManager.WriteToSessionConn(session, respAttacker, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}

				respDefender := mc.NewMessage[mc.RespEndMatch](mc.CodeEndMatch)
				respDefender.AddPayload(mc.RespEndMatch{PlayerMatchStatus: mb.PlayerMatchStatusLost})
				if err := rp.notifyOpponent(session, respDefender); err != nil {
					break sessionLoop
				}
			}

		case mc.CodeFleetStatus:
			respMsg := NewRequest(payload).HandleFleetStatus(session)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
		}
	}
}

func (rp RequestProcessor) notifyOpponent(session *mc.Session, msg interface{}) error {
	otherPlayer := session.Match().GetOtherPlayer(session.Player())
	if otherPlayer == nil {
		return nil
	}
	return rp.sessionManager.Communicate(otherPlayer.SessionId(), msg, mc.MessageTypeJSON)
}

// leaveMatch ends the match of a closing session. An opponent still
// playing is told that the other player is gone.
func (rp RequestProcessor) leaveMatch(session *mc.Session) {
	match := session.Match()
	if match == nil {
		return
	}

	if !match.IsFinished() {
		msg := mc.NewMessage[mc.NoPayload](mc.CodeOtherPlayerDisconnected)
		if err := rp.notifyOpponent(session, msg); err != nil {
			log.Println(err)
		}
	}
	rp.matchManager.TerminateMatch(match.Uuid())
	log.Println("match terminated:", match.Uuid())
}
