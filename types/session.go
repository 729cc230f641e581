package types

// Role is how this client takes part in the game.
type Role int

const (
	Spectator Role = iota
	RoleBlack
	RoleWhite
)

// RoleOf returns the playing role for color p.
func RoleOf(p Player) Role {
	if p == Black {
		return RoleBlack
	}
	return RoleWhite
}

// Player returns the color played by r. ok is false for spectators.
func (r Role) Player() (p Player, ok bool) {
	switch r {
	case RoleBlack:
		return Black, true
	case RoleWhite:
		return White, true
	}
	return Black, false
}

func (r Role) String() string {
	switch r {
	case RoleBlack:
		return "Black"
	case RoleWhite:
		return "White"
	}
	return "Spectator"
}

// Status is the lifecycle phase of the session.
type Status int

const (
	NotStarted Status = iota
	Waiting
	Playing
	Ended
)

func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Playing:
		return "playing"
	case Ended:
		return "ended"
	}
	return "not started"
}

// Winner is the outcome of a game.
type Winner int

const (
	NoWinner Winner = iota
	WinnerBlack
	WinnerWhite
	Draw
)

// WinnerOf returns the winner value for color p.
func WinnerOf(p Player) Winner {
	if p == Black {
		return WinnerBlack
	}
	return WinnerWhite
}

func (w Winner) String() string {
	switch w {
	case WinnerBlack:
		return "Black wins"
	case WinnerWhite:
		return "White wins"
	case Draw:
		return "Draw"
	}
	return "undecided"
}

// NoticeTicks is how long a notice stays up: about six seconds at 30 Hz.
const NoticeTicks = 180

// Notice is a banner that disappears after a number of render ticks.
type Notice struct {
	Text  string
	Ticks int
}

// Set shows text for NoticeTicks ticks.
func (n *Notice) Set(text string) {
	n.Text = text
	n.Ticks = NoticeTicks
}

// Tick counts down one render tick.
func (n *Notice) Tick() {
	if n.Ticks > 0 {
		n.Ticks--
	}
}

// Visible reports whether the notice should still be drawn.
func (n Notice) Visible() bool {
	return n.Text != "" && n.Ticks > 0
}

// Session is the client's cached view of the server's game state.
type Session struct {
	Role        Role
	CurrentTurn Player
	Status      Status
	Winner      Winner
	Connected   bool
	Opponent    string // binary profile only
	BlackScore  int
	WhiteScore  int
}

// NewSession returns the session a client starts with.
func NewSession() Session {
	return Session{
		Role:        Spectator,
		CurrentTurn: Black,
		Status:      NotStarted,
		Winner:      NoWinner,
	}
}

// ResetGame clears per-game fields for the next game while keeping the
// role and connection.
func (s *Session) ResetGame() {
	s.CurrentTurn = Black
	s.Winner = NoWinner
	s.BlackScore = 0
	s.WhiteScore = 0
}

// IsMyTurn reports whether the local player may move now.
func (s *Session) IsMyTurn() bool {
	p, ok := s.Role.Player()
	return ok && s.Status == Playing && s.CurrentTurn == p
}

// State is a point-in-time copy of everything the UI renders.
type State struct {
	Session Session
	Board   Board
	Message Notice
	Error   Notice
}
