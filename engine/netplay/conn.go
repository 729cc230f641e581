package netplay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"othello-client/logging"
	"othello-client/protocol"
)

const readBufferSize = 4096

var (
	// ErrSend is returned when a record cannot be written.
	ErrSend = errors.New("send failed")

	// ErrReceive is passed to the disconnect callback when reading stops.
	ErrReceive = errors.New("receive failed")

	// ErrAlreadyConnected is returned by Connect on a live connection.
	ErrAlreadyConnected = errors.New("already connected")
)

// ConnectError is returned when the server cannot be reached.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Conn owns the socket: it dials, runs the receive goroutine, sends
// records and turns any I/O failure into a single disconnect. It never
// reconnects on its own.
type Conn struct {
	codec protocol.Codec
	sync  *Synchronizer
	log   *zap.Logger

	mu         sync.Mutex
	conn       net.Conn
	id         string
	connecting bool

	writeMu sync.Mutex

	disconnectCallback func(err error)
}

// NewConn returns an unconnected connection manager.
func NewConn(codec protocol.Codec, s *Synchronizer, log *zap.Logger) *Conn {
	return &Conn{codec: codec, sync: s, log: logging.OrNop(log)}
}

// OnDisconnect registers a callback run once per lost connection.
func (c *Conn) OnDisconnect(callback func(err error)) {
	c.mu.Lock()
	c.disconnectCallback = callback
	c.mu.Unlock()
}

// Connect dials host:port and starts receiving. A zero timeout leaves the
// dial to the operating system. Only one dial may be in flight; a second
// caller gets ErrAlreadyConnected. Failures are returned as *ConnectError
// and shown as an error notice; the session is reset to NotStarted.
func (c *Conn) Connect(ctx context.Context, host string, port int, timeout time.Duration) error {
	c.mu.Lock()
	if c.connecting || c.Connected() {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.connecting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.connecting = false
		c.mu.Unlock()
	}()

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.sync.markConnectFailed(fmt.Sprintf("Connection error: %v", err))
		c.log.Warn("connect failed", zap.String("addr", addr), zap.Error(err))
		return &ConnectError{Addr: addr, Err: err}
	}
	return c.attach(conn)
}

// attach adopts an established connection, closing any previous one.
func (c *Conn) attach(conn net.Conn) error {
	id := uuid.NewString()
	log := c.log.With(zap.String("conn", id))

	c.mu.Lock()
	prev := c.conn
	c.conn = conn
	c.id = id
	c.mu.Unlock()
	if prev != nil && prev != conn {
		prev.Close()
	}

	c.sync.markConnected()
	log.Info("connected", zap.String("remote", conn.RemoteAddr().String()))

	stream := protocol.NewStream(c.codec)
	go c.receive(conn, stream, log)

	hello, err := c.codec.Hello("")
	if err != nil {
		c.handleDisconnect(conn, err)
		return err
	}
	if hello != nil {
		if err := c.Send(hello); err != nil {
			return err
		}
	}
	return nil
}

// Connected reports whether the current connection is up.
func (c *Conn) Connected() bool {
	return c.sync.State().Session.Connected
}

// Send writes p in full. Any failure drops the connection.
func (c *Conn) Send(p []byte) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil || !c.Connected() {
		c.sync.SetError("Not connected to server")
		return fmt.Errorf("%w: not connected", ErrSend)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	written := 0
	for written < len(p) {
		n, err := conn.Write(p[written:])
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrSend, err)
			c.handleDisconnect(conn, err)
			return err
		}
		written += n
	}
	return nil
}

// receive reads until the connection fails, applying each decoded message
// in order.
func (c *Conn) receive(conn net.Conn, stream *protocol.Stream, log *zap.Logger) {
	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			log.Debug("received", zap.Int("bytes", n))
			stream.Feed(buf[:n])
			for {
				msg, ok, derr := stream.Next()
				if derr != nil {
					log.Warn("malformed stream", zap.Error(derr))
					c.handleDisconnect(conn, fmt.Errorf("%w: %w", ErrReceive, derr))
					return
				}
				if !ok {
					break
				}
				if !c.isCurrent(conn) {
					log.Debug("dropping message from replaced connection")
					return
				}
				c.sync.Apply(msg)
			}
		}
		if err != nil {
			c.handleDisconnect(conn, fmt.Errorf("%w: %w", ErrReceive, err))
			return
		}
	}
}

func (c *Conn) isCurrent(conn net.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return conn == c.conn
}

// handleDisconnect runs the disconnect transition for conn at most once.
// Calls for a connection that has already been replaced are ignored.
func (c *Conn) handleDisconnect(conn net.Conn, err error) {
	c.mu.Lock()
	current := conn == c.conn
	id := c.id
	callback := c.disconnectCallback
	c.mu.Unlock()
	if !current {
		return
	}

	if !c.sync.markDisconnected("Disconnected from server") {
		return
	}
	conn.Close()
	c.log.Warn("disconnected", zap.String("conn", id), zap.Error(err))
	if callback != nil {
		callback(err)
	}
}

// Close closes the socket. The receive goroutine then observes the closed
// connection and performs the disconnect transition.
func (c *Conn) Close() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}
