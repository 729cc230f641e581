// Package protocol frames and decodes the server byte stream and encodes
// outbound move requests for both wire profiles.
package protocol

import "othello-client/types"

// Message is one decoded server record.
type Message interface{ isMessage() }

// RoleAssigned tells the client which color it plays.
type RoleAssigned struct {
	Role types.Role
}

// SpectatorAssigned tells the client it only watches.
type SpectatorAssigned struct{}

// GameStart marks the beginning of a game.
type GameStart struct{}

// GameOver announces the outcome. Scores are zero when the server omits them.
type GameOver struct {
	Winner     types.Winner
	BlackScore int
	WhiteScore int
}

// BoardUpdate is an authoritative replacement of the board.
type BoardUpdate struct {
	Board       types.Board
	CurrentTurn types.Player
	Winner      types.Winner
}

// ErrorNotice carries a server-side rejection or warning.
type ErrorNotice struct {
	Text string
}

// Matched is the binary profile's connect response: the opponent's name and
// the color assigned to this client.
type Matched struct {
	Opponent string
	Role     types.Role
}

// StonePlaced is a single placement relayed by the binary profile server.
type StonePlaced struct {
	Player   types.Player
	Row, Col int
}

// Unknown is a well-formed record with no recognized shape.
type Unknown struct {
	Raw []byte
}

func (RoleAssigned) isMessage()      {}
func (SpectatorAssigned) isMessage() {}
func (GameStart) isMessage()         {}
func (GameOver) isMessage()          {}
func (BoardUpdate) isMessage()       {}
func (ErrorNotice) isMessage()       {}
func (Matched) isMessage()           {}
func (StonePlaced) isMessage()       {}
func (Unknown) isMessage()           {}

// Move is an outbound stone placement request.
type Move struct {
	Row    int
	Col    int
	Player types.Player
}
