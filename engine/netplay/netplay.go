package netplay

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"othello-client/engine"
	"othello-client/logging"
	"othello-client/protocol"
	"othello-client/types"
)

var _ engine.GameEngine = (*NetEngine)(nil)

// NetEngine implements the GameEngine interface over a TCP connection to
// an authoritative server.
type NetEngine struct {
	config engine.GameConfig
	codec  protocol.Codec
	sync   *Synchronizer
	conn   *Conn
	gate   *Gate
	log    *zap.Logger
}

// NewNetEngine creates an engine for the given configuration. Nothing is
// dialed until Connect.
func NewNetEngine(cfg engine.GameConfig, log *zap.Logger) (*NetEngine, error) {
	log = logging.OrNop(log)
	if cfg.Port == 0 {
		cfg.Port = engine.DefaultPort
	}
	if cfg.Profile == "" {
		cfg.Profile = protocol.ProfileJSON
	}
	codec, err := protocol.NewCodec(cfg.Profile, cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create codec: %w", err)
	}

	s := NewSynchronizer(log)
	conn := NewConn(codec, s, log)
	return &NetEngine{
		config: cfg,
		codec:  codec,
		sync:   s,
		conn:   conn,
		gate:   NewGate(s, codec, conn, log),
		log:    log,
	}, nil
}

// Connect dials the configured server.
func (e *NetEngine) Connect(ctx context.Context) error {
	e.log.Info("connecting",
		zap.String("host", e.config.Host),
		zap.Int("port", e.config.Port),
		zap.String("profile", string(e.config.Profile)))
	return e.conn.Connect(ctx, e.config.Host, e.config.Port, e.config.DialTimeout)
}

// State returns a snapshot of the current state.
func (e *NetEngine) State() types.State {
	return e.sync.State()
}

// PlayMove proposes a move through the gate.
func (e *NetEngine) PlayMove(row, col int) error {
	return e.gate.ProposeMove(row, col)
}

// IsMyTurn returns true if the local player may move now.
func (e *NetEngine) IsMyTurn() bool {
	s := e.sync.State().Session
	return s.Connected && s.IsMyTurn()
}

// Connected returns true while the connection is up.
func (e *NetEngine) Connected() bool {
	return e.conn.Connected()
}

// Tick advances notice countdowns.
func (e *NetEngine) Tick() {
	e.sync.Tick()
}

// OnUpdate registers a callback for every applied server message.
func (e *NetEngine) OnUpdate(callback func(state types.State)) {
	e.sync.OnUpdate(callback)
}

// OnGameEnd registers a callback for when a game finishes.
func (e *NetEngine) OnGameEnd(callback func(state types.State)) {
	e.sync.OnGameEnd(callback)
}

// OnDisconnect registers a callback for when the connection drops.
func (e *NetEngine) OnDisconnect(callback func(err error)) {
	e.conn.OnDisconnect(callback)
}

// Close shuts down the connection.
func (e *NetEngine) Close() {
	e.conn.Close()
}

// Config returns the configuration the engine was created with.
func (e *NetEngine) Config() engine.GameConfig {
	return e.config
}
