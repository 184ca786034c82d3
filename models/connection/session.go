package connection

import (
	"log"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
)

const (
	MessageTypeBytes uint8 = iota
	MessageTypeJSON
)

const writeTimeout time.Duration = time.Second * 5

type ConnectionHandler interface {
	writeToConn(msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// Session is one websocket client. Writes may come from the session's own
// read loop and from the opponent's loop, so they are serialized by writeMu.
type Session struct {
	id        string
	conn      *websocket.Conn
	createdAt time.Time
	writeMu   sync.Mutex

	match  *mb.Match
	player *mb.Player
}

var _ ConnectionHandler = (*Session)(nil)

func NewSession(id string, conn *websocket.Conn) *Session {
	return &Session{
		id:        id,
		conn:      conn,
		createdAt: time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	return s.conn
}

func (s *Session) Match() *mb.Match {
	return s.match
}

func (s *Session) Player() *mb.Player {
	return s.player
}

func (s *Session) SetMatch(match *mb.Match, player *mb.Player) {
	s.match = match
	s.player = player
}

func (s *Session) onConnErr(err error) uint8 {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		log.Println("timeout error:", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
		log.Println("close error:", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		log.Println("critical error:", err)
		return ConnLoopBreak
	}

	/*
		Binary frames or invalid UTF-8 mean the client is not ours.
		Breaking not to overwhelm the server with invalid payloads.
	*/
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		log.Println("non-critical error:", err)
		return ConnLoopBreak
	}

	log.Println("unexpected error:", err)
	return ConnLoopBreak
}

func (s *Session) writeToConn(msg interface{}, msgType uint8) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return NewConnErr(ConnLoopBreak).AddDesc(err.Error())
	}

	var err error
	switch msgType {
	case MessageTypeJSON:
		err = s.conn.WriteJSON(msg)

	case MessageTypeBytes:
		respBytes, ok := msg.([]byte)
		if !ok {
			return NewConnErr(ConnInvalidMsgType).AddDesc("msg type expected: []byte got invalid")
		}
		err = s.conn.WriteMessage(websocket.TextMessage, respBytes)

	default:
		return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write")
	}

	if err != nil {
		return NewConnErr(s.onConnErr(err)).AddDesc("writing to ws failed: " + err.Error())
	}
	return nil
}
