package netplay

import (
	"fmt"

	"go.uber.org/zap"

	"othello-client/logging"
	"othello-client/protocol"
	"othello-client/types"
)

// Reason says why a proposed move was not sent.
type Reason int

const (
	ReasonNotPlaying Reason = iota + 1
	ReasonSpectator
	ReasonNotYourTurn
	ReasonOutOfBounds
)

func (r Reason) String() string {
	switch r {
	case ReasonNotPlaying:
		return "game not in progress"
	case ReasonSpectator:
		return "spectators cannot move"
	case ReasonNotYourTurn:
		return "not your turn"
	case ReasonOutOfBounds:
		return "out of bounds"
	}
	return "unknown"
}

// IllegalMoveError is a local rejection. Nothing is sent to the server.
type IllegalMoveError struct {
	Row, Col int
	Reason   Reason
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("cannot play (%d,%d): %s", e.Row, e.Col, e.Reason)
}

// Sender writes encoded records to the server.
type Sender interface {
	Send(p []byte) error
}

// Gate decides whether a proposed move may be sent. It checks role, turn,
// status and bounds only; flip legality is the server's call.
type Gate struct {
	sync  *Synchronizer
	codec protocol.Codec
	out   Sender
	log   *zap.Logger
}

// NewGate returns a gate reading state from s and sending through out.
func NewGate(s *Synchronizer, codec protocol.Codec, out Sender, log *zap.Logger) *Gate {
	return &Gate{sync: s, codec: codec, out: out, log: logging.OrNop(log)}
}

// Check returns nil if session allows the local player to play (row, col).
func Check(session types.Session, row, col int) error {
	var reason Reason
	player, isPlayer := session.Role.Player()
	switch {
	case session.Status != types.Playing:
		reason = ReasonNotPlaying
	case !isPlayer:
		reason = ReasonSpectator
	case session.CurrentTurn != player:
		reason = ReasonNotYourTurn
	case !types.InBounds(row, col):
		reason = ReasonOutOfBounds
	default:
		return nil
	}
	return &IllegalMoveError{Row: row, Col: col, Reason: reason}
}

// ProposeMove sends a move request for (row, col) if Check allows it.
func (g *Gate) ProposeMove(row, col int) error {
	session := g.sync.State().Session
	if err := Check(session, row, col); err != nil {
		g.log.Debug("move rejected",
			zap.Int("row", row),
			zap.Int("col", col),
			zap.String("reason", err.(*IllegalMoveError).Reason.String()))
		return err
	}

	player, _ := session.Role.Player()
	data, err := g.codec.EncodeMove(protocol.Move{Row: row, Col: col, Player: player})
	if err != nil {
		return fmt.Errorf("failed to encode move: %w", err)
	}
	if err := g.out.Send(data); err != nil {
		return err
	}
	g.log.Debug("move sent", zap.String("square", PosToDisplay(row, col)))

	if !g.codec.EchoesMoves() {
		g.sync.Apply(protocol.StonePlaced{Player: player, Row: row, Col: col})
	}
	return nil
}
