package netplay

import (
	"sync"

	"go.uber.org/zap"

	"othello-client/logging"
	"othello-client/protocol"
	"othello-client/types"
)

// Synchronizer owns the cached session, board and notices. The receive
// goroutine is the only writer of session and board; readers get copies.
type Synchronizer struct {
	mu      sync.Mutex
	session types.Session
	board   types.Board
	message types.Notice
	errNote types.Notice

	updateCallback func(state types.State)
	endCallback    func(state types.State)

	log *zap.Logger
}

// NewSynchronizer returns a synchronizer holding a fresh session and the
// starting board.
func NewSynchronizer(log *zap.Logger) *Synchronizer {
	return &Synchronizer{
		session: types.NewSession(),
		board:   types.NewBoard(),
		log:     logging.OrNop(log),
	}
}

// OnUpdate registers a callback run after every applied message.
func (s *Synchronizer) OnUpdate(callback func(state types.State)) {
	s.mu.Lock()
	s.updateCallback = callback
	s.mu.Unlock()
}

// OnGameEnd registers a callback run once per game, on the first transition
// into Ended. A winning board update followed by game_over counts as one
// end. The state passed still has Status == Ended even if the session moves
// on to Waiting in the same step.
func (s *Synchronizer) OnGameEnd(callback func(state types.State)) {
	s.mu.Lock()
	s.endCallback = callback
	s.mu.Unlock()
}

// Apply updates the session and board from one server message.
func (s *Synchronizer) Apply(msg protocol.Message) {
	s.mu.Lock()

	var ended *types.State
	switch m := msg.(type) {
	case protocol.RoleAssigned:
		s.session.Role = m.Role
		s.session.Status = types.Waiting
		if m.Role == types.RoleBlack {
			s.message.Set("You are Black (first)")
		} else {
			s.message.Set("You are White (second)")
		}
		s.log.Info("role assigned", zap.Stringer("role", m.Role))

	case protocol.SpectatorAssigned:
		s.session.Role = types.Spectator
		s.session.Status = types.Waiting
		s.message.Set("You are a spectator")
		s.log.Info("spectator assigned")

	case protocol.GameStart:
		if s.session.Winner != types.NoWinner || s.session.Status == types.Ended {
			s.session.ResetGame()
		}
		s.session.Status = types.Playing
		s.message.Set("Game started")
		s.log.Info("game started")

	case protocol.BoardUpdate:
		s.board = m.Board
		s.session.CurrentTurn = m.CurrentTurn
		if m.Winner != types.NoWinner {
			first := s.session.Status != types.Ended
			s.session.Winner = m.Winner
			s.session.Status = types.Ended
			if first {
				st := s.copyState()
				ended = &st
			}
		}
		s.log.Debug("board updated",
			zap.Stringer("turn", m.CurrentTurn),
			zap.Stringer("winner", m.Winner))

	case protocol.GameOver:
		first := s.session.Status != types.Ended
		s.session.Winner = m.Winner
		s.session.BlackScore = m.BlackScore
		s.session.WhiteScore = m.WhiteScore
		s.session.Status = types.Ended
		if first {
			st := s.copyState()
			ended = &st
		}
		// The server follows up with the next game's start, so the
		// session goes straight back to waiting.
		s.session.Status = types.Waiting
		s.message.Set(m.Winner.String())
		s.log.Info("game over",
			zap.Stringer("winner", m.Winner),
			zap.Int("black", m.BlackScore),
			zap.Int("white", m.WhiteScore))

	case protocol.ErrorNotice:
		s.errNote.Set(m.Text)
		s.log.Info("server error", zap.String("text", m.Text))

	case protocol.Matched:
		s.session.Role = m.Role
		s.session.Opponent = m.Opponent
		s.session.ResetGame()
		s.session.Status = types.Playing
		s.board.Reset()
		s.message.Set("Matched against " + m.Opponent)
		s.log.Info("matched",
			zap.String("opponent", m.Opponent),
			zap.Stringer("role", m.Role))

	case protocol.StonePlaced:
		flipped := s.board.Place(m.Player, m.Row, m.Col)
		s.session.CurrentTurn = m.Player.Opponent()
		s.log.Debug("stone placed",
			zap.Stringer("player", m.Player),
			zap.String("square", PosToDisplay(m.Row, m.Col)),
			zap.Int("flipped", flipped))

	case protocol.Unknown:
		s.log.Debug("unknown message", zap.ByteString("raw", m.Raw))
	}

	state := s.copyState()
	updateCallback, endCallback := s.updateCallback, s.endCallback
	s.mu.Unlock()

	// Notify outside the lock so callbacks may read state.
	if ended != nil && endCallback != nil {
		endCallback(*ended)
	}
	if updateCallback != nil {
		updateCallback(state)
	}
}

// State returns a copy of the current state.
func (s *Synchronizer) State() types.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState()
}

// Tick counts both notices down by one render tick.
func (s *Synchronizer) Tick() {
	s.mu.Lock()
	s.message.Tick()
	s.errNote.Tick()
	s.mu.Unlock()
}

// SetMessage shows an informational notice.
func (s *Synchronizer) SetMessage(text string) {
	s.mu.Lock()
	s.message.Set(text)
	s.mu.Unlock()
}

// SetError shows an error notice.
func (s *Synchronizer) SetError(text string) {
	s.mu.Lock()
	s.errNote.Set(text)
	s.mu.Unlock()
}

// markConnected starts a fresh session for a new connection.
func (s *Synchronizer) markConnected() {
	s.mu.Lock()
	s.session = types.NewSession()
	s.session.Connected = true
	s.board.Reset()
	s.message.Set("Connected to server")
	s.mu.Unlock()
}

// markConnectFailed returns to a fresh NotStarted session after a failed
// dial and raises the error notice.
func (s *Synchronizer) markConnectFailed(text string) {
	s.mu.Lock()
	s.session = types.NewSession()
	s.board.Reset()
	s.errNote.Set(text)
	s.mu.Unlock()
}

// markDisconnected flips the connected flag off and raises the error
// notice. It reports false, changing nothing, if already disconnected.
func (s *Synchronizer) markDisconnected(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.session.Connected {
		return false
	}
	s.session.Connected = false
	s.errNote.Set(text)
	return true
}

// copyState must be called while holding the lock.
func (s *Synchronizer) copyState() types.State {
	return types.State{
		Session: s.session,
		Board:   s.board,
		Message: s.message,
		Error:   s.errNote,
	}
}
