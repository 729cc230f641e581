// Package engine defines the interface between the UI and a game session.
package engine

import (
	"context"
	"time"

	"othello-client/protocol"
	"othello-client/types"
)

// DefaultPort is the port the game server listens on.
const DefaultPort = 10000

// GameEngine defines the interface for playing Othello against a remote server.
type GameEngine interface {
	// Connect opens the session and starts receiving server messages.
	// It may be called again after a disconnect.
	Connect(ctx context.Context) error

	// State returns a snapshot of the session, board and notices.
	State() types.State

	// PlayMove proposes a stone at (row, col).
	// Returns an error if the move may not be sent.
	PlayMove(row, col int) error

	// IsMyTurn returns true if the local player may move now.
	IsMyTurn() bool

	// Connected returns true while the connection is up.
	Connected() bool

	// Tick advances notice countdowns by one render tick.
	Tick()

	// OnUpdate registers a callback for every applied server message.
	// state is passed directly to avoid lock contention.
	OnUpdate(func(state types.State))

	// OnGameEnd registers a callback for when a game finishes. It fires
	// once per game even when the server reports the end twice.
	OnGameEnd(func(state types.State))

	// OnDisconnect registers a callback for when the connection drops.
	OnDisconnect(func(err error))

	// Close shuts down the connection.
	Close()
}

// GameConfig holds configuration for connecting to a server.
type GameConfig struct {
	Host        string
	Port        int
	Profile     protocol.Profile
	Name        string        // display name, binary profile only
	DialTimeout time.Duration // 0 waits for the OS
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Host:        "127.0.0.1",
		Port:        DefaultPort,
		Profile:     protocol.ProfileJSON,
		DialTimeout: 5 * time.Second,
	}
}
