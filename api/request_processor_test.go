package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-engine/db/sqlc"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
	"github.com/sqlc-dev/pqtype"
)

type Test[T, K any] struct {
	name string

	expectedCode uint8
	expectErr    bool

	reqPayload  T
	respPayload K

	conn *websocket.Conn
}

// Every fleet in these tests uses the same layout, one free row between
// ships, all of them horizontal and starting on column 0.
var testFleet = []mb.Ship{
	mb.NewShip(5, mb.NewBlock(0, 0), false),
	mb.NewShip(4, mb.NewBlock(0, 2), false),
	mb.NewShip(3, mb.NewBlock(0, 4), false),
	mb.NewShip(3, mb.NewBlock(0, 6), false),
	mb.NewShip(2, mb.NewBlock(0, 8), false),
}

var dialer = websocket.Dialer{
	HandshakeTimeout: 10 * time.Second,
}

type testServer struct {
	rp             RequestProcessor
	matchManager   *mb.BattleshipMatchManager
	sessionManager *mc.BattleshipSessionManager
	url            string
}

func newTestServer(t *testing.T, q sqlc.Querier) testServer {
	t.Helper()

	bsm := mc.NewBattleshipSessionManager()
	bmm := mb.NewBattleshipMatchManager()
	rp := NewRequestProcessor(bsm, bmm, q)

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return testServer{
		rp:             rp,
		matchManager:   bmm,
		sessionManager: bsm,
		url:            "ws" + strings.TrimPrefix(server.URL, "http") + "/battleship",
	}
}

// dial connects a client and consumes the session id greeting.
func (ts testServer) dial(t *testing.T) (*websocket.Conn, string) {
	t.Helper()

	conn, _, err := dialer.Dial(ts.url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	respSessionId := readMessage[mc.RespSessionId](t, conn, mc.CodeSessionID)
	if respSessionId.Payload.SessionID == "" {
		t.Fatal("expected a session id")
	}
	return conn, respSessionId.Payload.SessionID
}

func send(t *testing.T, conn *websocket.Conn, msg interface{}) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}
}

func readMessage[T any](t *testing.T, conn *websocket.Conn, expectedCode uint8) mc.Message[T] {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(time.Second * 5)); err != nil {
		t.Fatal(err)
	}
	var msg mc.Message[T]
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Code != expectedCode {
		t.Fatalf("expected code: %d\tgot: %d (error: %+v)", expectedCode, msg.Code, msg.Error)
	}
	return msg
}

// startMatch creates a match with host, joins it with join and answers the
// select grid signal on both sides.
func startMatch(t *testing.T, host, join *websocket.Conn) string {
	t.Helper()

	send(t, host, mc.NewSignal(mc.CodeCreateMatch))
	respCreate := readMessage[mc.RespCreateMatch](t, host, mc.CodeCreateMatch)
	if respCreate.Error != nil {
		t.Fatalf("error: %s", respCreate.Error.ErrorDetails)
	}
	matchUuid := respCreate.Payload.MatchUuid

	send(t, join, mc.Message[mc.ReqJoinMatch]{Code: mc.CodeJoinMatch, Payload: mc.ReqJoinMatch{MatchUuid: matchUuid}})
	respJoin := readMessage[mc.RespJoinMatch](t, join, mc.CodeJoinMatch)
	if respJoin.Error != nil {
		t.Fatalf("error: %s", respJoin.Error.ErrorDetails)
	}
	if respJoin.Payload.MatchUuid != matchUuid {
		t.Fatalf("expected match uuid: %s\tgot: %s", matchUuid, respJoin.Payload.MatchUuid)
	}

	readMessage[mc.NoPayload](t, join, mc.CodeSelectGrid)
	readMessage[mc.NoPayload](t, host, mc.CodeSelectGrid)
	return matchUuid
}

func placeFleet(t *testing.T, conn *websocket.Conn, lastOfMatch bool) {
	t.Helper()

	for i, ship := range testFleet {
		send(t, conn, mc.Message[mc.ReqPlaceShip]{Code: mc.CodePlaceShip, Payload: mc.ReqPlaceShip{Cells: ship.Blocks()}})
		resp := readMessage[mc.RespPlaceShip](t, conn, mc.CodePlaceShip)
		if resp.Error != nil {
			t.Fatalf("error: %s", resp.Error.ErrorDetails)
		}
		if !resp.Payload.Accepted || resp.Payload.Ship == nil || *resp.Payload.Ship != ship {
			t.Fatalf("expected ship %d to be accepted as %+v, got %+v", i, ship, resp.Payload)
		}
	}

	if lastOfMatch {
		readMessage[mc.NoPayload](t, conn, mc.CodeStartMatch)
	}
}

func attack(at mb.Block) mc.Message[mc.ReqAttack] {
	return mc.Message[mc.ReqAttack]{Code: mc.CodeAttack, Payload: mc.ReqAttack{X: at.X, Y: at.Y}}
}

func TestInvalidCode(t *testing.T) {
	ts := newTestServer(t, nil)
	hostConn, _ := ts.dial(t)
	joinConn, _ := ts.dial(t)

	tests := []Test[mc.Message[mc.NoPayload], mc.Message[mc.NoPayload]]{
		{
			name:         "random invalid code host",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](255),
			conn:         hostConn,
		},
		{
			name:         "random invalid code join",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](200),
			conn:         joinConn,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			send(t, test.conn, test.reqPayload)
			test.respPayload = readMessage[mc.NoPayload](t, test.conn, test.expectedCode)
			if test.respPayload.Error == nil {
				t.Fatal("expected an error in the response")
			}
		})
	}

	t.Run("missing code", func(t *testing.T) {
		if err := hostConn.WriteMessage(websocket.TextMessage, []byte(`{"payload":{"x":1}}`)); err != nil {
			t.Fatal(err)
		}
		readMessage[mc.NoPayload](t, hostConn, mc.CodeSignalAbsent)
	})
}

func TestRequestsWithoutMatch(t *testing.T) {
	ts := newTestServer(t, nil)
	conn, _ := ts.dial(t)

	tests := []Test[interface{}, mc.Message[json.RawMessage]]{
		{
			name:         "attack without match",
			expectedCode: mc.CodeAttack,
			reqPayload:   attack(mb.NewBlock(1, 1)),
			expectErr:    true,
			conn:         conn,
		},
		{
			name:         "place ship without match",
			expectedCode: mc.CodePlaceShip,
			reqPayload:   mc.Message[mc.ReqPlaceShip]{Code: mc.CodePlaceShip, Payload: mc.ReqPlaceShip{Cells: testFleet[0].Blocks()}},
			expectErr:    true,
			conn:         conn,
		},
		{
			name:         "fleet status without match",
			expectedCode: mc.CodeFleetStatus,
			reqPayload:   mc.NewSignal(mc.CodeFleetStatus),
			expectErr:    true,
			conn:         conn,
		},
		{
			name:         "join unknown match",
			expectedCode: mc.CodeJoinMatch,
			reqPayload:   mc.Message[mc.ReqJoinMatch]{Code: mc.CodeJoinMatch, Payload: mc.ReqJoinMatch{MatchUuid: "nope"}},
			expectErr:    true,
			conn:         conn,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			send(t, test.conn, test.reqPayload)
			test.respPayload = readMessage[json.RawMessage](t, test.conn, test.expectedCode)
			if (test.respPayload.Error != nil) != test.expectErr {
				t.Fatalf("expected error: %t\tgot: %+v", test.expectErr, test.respPayload.Error)
			}
		})
	}
}

func TestFullMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	ts := newTestServer(t, sqlc.New(db))
	serverIp := pqtype.Inet{IPNet: ts.rp.GetIpNet(), Valid: true}

	shipCells := 0
	for _, ship := range testFleet {
		shipCells += int(ship.Size)
	}
	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, matches_created\)`).
		WithArgs(serverIp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// the host wins with its last shot, so the join player fires one less
	for i := 0; i < 2*shipCells-1; i++ {
		mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, shots_fired\)`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, matches_finished\)`).
		WithArgs(serverIp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	hostConn, _ := ts.dial(t)
	joinConn, _ := ts.dial(t)
	matchUuid := startMatch(t, hostConn, joinConn)

	t.Run("attack before start", func(t *testing.T) {
		send(t, hostConn, attack(mb.NewBlock(0, 0)))
		resp := readMessage[mc.RespAttack](t, hostConn, mc.CodeAttack)
		if resp.Error == nil {
			t.Fatal("expected attack before both fleets are placed to fail")
		}
	})

	t.Run("rejected placement", func(t *testing.T) {
		send(t, hostConn, mc.Message[mc.ReqPlaceShip]{Code: mc.CodePlaceShip, Payload: mc.ReqPlaceShip{Cells: testFleet[1].Blocks()}})
		resp := readMessage[mc.RespPlaceShip](t, hostConn, mc.CodePlaceShip)
		if resp.Error != nil || resp.Payload.Accepted || resp.Payload.NextLength != 5 {
			t.Fatalf("expected rejection with retry length 5, got %+v", resp)
		}
	})

	placeFleet(t, hostConn, false)
	readMessage[mc.NoPayload](t, joinConn, mc.CodeReady)
	placeFleet(t, joinConn, true)
	readMessage[mc.NoPayload](t, hostConn, mc.CodeStartMatch)

	t.Run("join out of turn", func(t *testing.T) {
		send(t, joinConn, attack(mb.NewBlock(0, 0)))
		resp := readMessage[mc.RespAttack](t, joinConn, mc.CodeAttack)
		if resp.Error == nil {
			t.Fatal("expected attack out of turn to fail")
		}
	})

	water := mb.NewBlock(9, 0)
	sunk := 0
	won := false
	for _, ship := range testFleet {
		for _, at := range ship.Blocks() {
			send(t, hostConn, attack(at))
			resp := readMessage[mc.RespAttack](t, hostConn, mc.CodeAttack)
			if resp.Error != nil {
				t.Fatalf("error: %s", resp.Error.ErrorDetails)
			}
			if !resp.Payload.Hit || resp.Payload.IsTurn {
				t.Fatalf("expected hit without turn at %+v, got %+v", at, resp.Payload)
			}

			incoming := readMessage[mc.RespAttack](t, joinConn, mc.CodeIncomingShot)
			if incoming.Payload != (mc.RespAttack{X: at.X, Y: at.Y, Hit: true, SunkSize: resp.Payload.SunkSize, Win: resp.Payload.Win, IsTurn: true}) {
				t.Fatalf("expected defender view of %+v, got %+v", resp.Payload, incoming.Payload)
			}

			if resp.Payload.SunkSize != 0 {
				sunk++
				respSunk := readMessage[mc.RespEnemyShipSunk](t, hostConn, mc.CodeEnemyShipSunk)
				expected := mb.EnemyShip{Start: ship.Start, Vertical: ship.Vertical, Length: ship.Size}
				if respSunk.Payload.Ship != expected {
					t.Fatalf("expected sunk ship: %+v\tgot: %+v", expected, respSunk.Payload.Ship)
				}
				if respSunk.Payload.Remaining.Total() != len(testFleet)-sunk {
					t.Fatalf("expected remaining: %d\tgot: %d", len(testFleet)-sunk, respSunk.Payload.Remaining.Total())
				}
			}

			if resp.Payload.Win {
				won = true
				break
			}

			send(t, joinConn, attack(water))
			respJoin := readMessage[mc.RespAttack](t, joinConn, mc.CodeAttack)
			if respJoin.Error != nil || respJoin.Payload.Hit {
				t.Fatalf("expected miss at %+v, got %+v", water, respJoin)
			}
			readMessage[mc.RespAttack](t, hostConn, mc.CodeIncomingShot)

			if water.Y++; water.Y == mb.GridSize {
				water = mb.NewBlock(water.X-1, 0)
			}
		}
	}

	if !won || sunk != len(testFleet) {
		t.Fatalf("expected win after sinking %d ships, sunk: %d", len(testFleet), sunk)
	}

	endHost := readMessage[mc.RespEndMatch](t, hostConn, mc.CodeEndMatch)
	if endHost.Payload.PlayerMatchStatus != mb.PlayerMatchStatusWon {
		t.Fatalf("expected host status: %d\tgot: %d", mb.PlayerMatchStatusWon, endHost.Payload.PlayerMatchStatus)
	}
	endJoin := readMessage[mc.RespEndMatch](t, joinConn, mc.CodeEndMatch)
	if endJoin.Payload.PlayerMatchStatus != mb.PlayerMatchStatusLost {
		t.Fatalf("expected join status: %d\tgot: %d", mb.PlayerMatchStatusLost, endJoin.Payload.PlayerMatchStatus)
	}

	send(t, joinConn, mc.NewSignal(mc.CodeFleetStatus))
	status := readMessage[mc.RespFleetStatus](t, joinConn, mc.CodeFleetStatus)
	if status.Payload.Own.Total() != 0 || status.Payload.Enemy != mb.NewFleetCounts() {
		t.Fatalf("expected join with no ships and a full enemy fleet, got %+v", status.Payload)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %s", err)
	}

	match, err := ts.matchManager.GetMatch(matchUuid)
	if err != nil {
		t.Fatal(err)
	}
	if !match.IsFinished() {
		t.Fatal("expected match to be finished")
	}
}

func TestOpponentDisconnect(t *testing.T) {
	ts := newTestServer(t, nil)
	hostConn, _ := ts.dial(t)
	joinConn, _ := ts.dial(t)
	startMatch(t, hostConn, joinConn)

	if err := hostConn.Close(); err != nil {
		t.Fatal(err)
	}
	readMessage[mc.NoPayload](t, joinConn, mc.CodeOtherPlayerDisconnected)

	deadline := time.Now().Add(time.Second * 5)
	for ts.matchManager.CountMatches() != 0 || ts.sessionManager.CountSessions() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected match to be terminated, matches: %d\tsessions: %d",
				ts.matchManager.CountMatches(), ts.sessionManager.CountSessions())
		}
		time.Sleep(time.Millisecond * 20)
	}
}
