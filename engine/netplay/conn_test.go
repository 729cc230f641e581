package netplay

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"othello-client/engine"
	"othello-client/protocol"
	"othello-client/types"
)

const waitFor = 2 * time.Second
const pollEvery = 5 * time.Millisecond

func listen(t *testing.T) (net.Listener, int) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l, l.Addr().(*net.TCPAddr).Port
}

func accept(t *testing.T, l net.Listener) net.Conn {
	t.Helper()
	c, err := l.Accept()
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func newTestEngine(t *testing.T, profile protocol.Profile, port int) *NetEngine {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Port = port
	cfg.Profile = profile
	cfg.Name = "alice"
	e, err := NewNetEngine(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func serverWrite(t *testing.T, c net.Conn, s string) {
	t.Helper()
	_, err := c.Write([]byte(s))
	require.NoError(t, err)
}

func serverRead(t *testing.T, c net.Conn, n int) []byte {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(waitFor)))
	buf := make([]byte, n)
	_, err := io.ReadFull(c, buf)
	require.NoError(t, err)
	return buf
}

func TestScenarioJoinPlayAndFinish(t *testing.T) {
	l, port := listen(t)
	e := newTestEngine(t, protocol.ProfileJSON, port)

	var ended atomic.Int32
	e.OnGameEnd(func(st types.State) {
		if st.Session.Status == types.Ended {
			ended.Add(1)
		}
	})

	require.NoError(t, e.Connect(context.Background()))
	srv := accept(t, l)
	assert.True(t, e.Connected())

	serverWrite(t, srv, `{"type":"player_assigned","player_number":0}`)
	require.Eventually(t, func() bool {
		s := e.State().Session
		return s.Role == types.RoleBlack && s.Status == types.Waiting
	}, waitFor, pollEvery)

	serverWrite(t, srv, `{"type":"game_start"}`)
	require.Eventually(t, func() bool {
		return e.State().Session.Status == types.Playing
	}, waitFor, pollEvery)
	require.True(t, e.IsMyTurn())

	require.NoError(t, e.PlayMove(2, 3))
	assert.Equal(t, `{"row":2,"col":3}`, string(serverRead(t, srv, len(`{"row":2,"col":3}`))))

	board := `{"board":[[0,0,0,0,0,0,0,0],[0,0,0,0,0,0,0,0],[0,0,0,1,0,0,0,0],` +
		`[0,0,0,1,1,0,0,0],[0,0,0,1,2,0,0,0],[0,0,0,0,0,0,0,0],[0,0,0,0,0,0,0,0],` +
		`[0,0,0,0,0,0,0,0]],"current_turn":1,"winner":1}`
	serverWrite(t, srv, board)
	require.Eventually(t, func() bool {
		return e.State().Session.Status == types.Ended
	}, waitFor, pollEvery)
	st := e.State()
	assert.Equal(t, types.WinnerWhite, st.Session.Winner)
	assert.Equal(t, types.BlackStone, st.Board[2][3])

	serverWrite(t, srv, `{"type":"game_over","winner":1,"black_score":4,"white_score":1}`)
	require.Eventually(t, func() bool {
		return e.State().Session.Status == types.Waiting
	}, waitFor, pollEvery)
	assert.Equal(t, types.WinnerWhite, e.State().Session.Winner)
	assert.Equal(t, int32(1), ended.Load())
}

func TestConcatenatedAndSplitWrites(t *testing.T) {
	l, port := listen(t)
	e := newTestEngine(t, protocol.ProfileJSON, port)
	require.NoError(t, e.Connect(context.Background()))
	srv := accept(t, l)

	serverWrite(t, srv, `{"type":"player_assigned","player_number":1}{"type":"game_st`)
	require.Eventually(t, func() bool {
		return e.State().Session.Role == types.RoleWhite
	}, waitFor, pollEvery)
	assert.Equal(t, types.Waiting, e.State().Session.Status)

	serverWrite(t, srv, `art"}`)
	require.Eventually(t, func() bool {
		return e.State().Session.Status == types.Playing
	}, waitFor, pollEvery)
}

func TestConnectFailure(t *testing.T) {
	l, port := listen(t)
	l.Close()

	e := newTestEngine(t, protocol.ProfileJSON, port)
	err := e.Connect(context.Background())
	require.Error(t, err)

	var connectErr *ConnectError
	require.True(t, errors.As(err, &connectErr))
	assert.Contains(t, connectErr.Addr, "127.0.0.1")

	st := e.State()
	assert.False(t, st.Session.Connected)
	assert.Equal(t, types.NotStarted, st.Session.Status)
	assert.True(t, st.Error.Visible())
}

func TestSendWhileDisconnected(t *testing.T) {
	s := NewSynchronizer(nil)
	c := NewConn(protocol.JSONCodec{}, s, nil)
	err := c.Send([]byte(`{"row":0,"col":0}`))
	assert.ErrorIs(t, err, ErrSend)
	assert.True(t, s.State().Error.Visible())
}

func TestDisconnectIsIdempotent(t *testing.T) {
	s := NewSynchronizer(nil)
	c := NewConn(protocol.JSONCodec{}, s, nil)

	var calls atomic.Int32
	c.OnDisconnect(func(error) { calls.Add(1) })

	client, server := net.Pipe()
	defer server.Close()
	require.NoError(t, c.attach(client))
	require.True(t, c.Connected())

	c.handleDisconnect(client, errors.New("peer closed"))
	first := s.State()
	assert.False(t, first.Session.Connected)
	assert.Equal(t, types.NoticeTicks, first.Error.Ticks)

	s.Tick()
	c.handleDisconnect(client, errors.New("peer closed again"))
	second := s.State()
	assert.False(t, second.Session.Connected)
	assert.Equal(t, types.NoticeTicks-1, second.Error.Ticks)

	// Let the receive goroutine notice the closed pipe too.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPeerCloseDisconnects(t *testing.T) {
	l, port := listen(t)
	e := newTestEngine(t, protocol.ProfileJSON, port)

	errs := make(chan error, 4)
	e.OnDisconnect(func(err error) { errs <- err })

	require.NoError(t, e.Connect(context.Background()))
	srv := accept(t, l)
	srv.Close()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrReceive)
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for disconnect")
	}
	assert.False(t, e.Connected())
	assert.Equal(t, "Disconnected from server", e.State().Error.Text)

	err := e.PlayMove(0, 0)
	require.Error(t, err)
}

func TestMalformedStreamDisconnects(t *testing.T) {
	l, port := listen(t)
	e := newTestEngine(t, protocol.ProfileJSON, port)

	errs := make(chan error, 4)
	e.OnDisconnect(func(err error) { errs <- err })

	require.NoError(t, e.Connect(context.Background()))
	srv := accept(t, l)
	serverWrite(t, srv, `{"type":"game_start"}<html>`)

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrReceive)
		assert.ErrorIs(t, err, protocol.ErrMalformedStream)
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for disconnect")
	}
	assert.Equal(t, types.Playing, e.State().Session.Status)

	// The client closed its end.
	require.NoError(t, srv.SetReadDeadline(time.Now().Add(waitFor)))
	_, err := srv.Read(make([]byte, 1))
	assert.Error(t, err)
}

func TestReconnectStartsFreshSession(t *testing.T) {
	l, port := listen(t)
	e := newTestEngine(t, protocol.ProfileJSON, port)

	require.NoError(t, e.Connect(context.Background()))
	srv := accept(t, l)
	assert.ErrorIs(t, e.Connect(context.Background()), ErrAlreadyConnected)

	// Leave a partial record behind, then drop the connection.
	serverWrite(t, srv, `{"type":"player_assigned","player_number":0}{"type":"game_`)
	require.Eventually(t, func() bool {
		return e.State().Session.Role == types.RoleBlack
	}, waitFor, pollEvery)
	srv.Close()
	require.Eventually(t, func() bool { return !e.Connected() }, waitFor, pollEvery)

	require.NoError(t, e.Connect(context.Background()))
	srv2 := accept(t, l)
	st := e.State()
	assert.True(t, st.Session.Connected)
	assert.Equal(t, types.Spectator, st.Session.Role)
	assert.Equal(t, types.NotStarted, st.Session.Status)

	serverWrite(t, srv2, `{"type":"spectator_assigned"}`)
	require.Eventually(t, func() bool {
		return e.State().Session.Status == types.Waiting
	}, waitFor, pollEvery)
}

func TestBinaryProfileSession(t *testing.T) {
	l, port := listen(t)
	e := newTestEngine(t, protocol.ProfileBinary, port)

	require.NoError(t, e.Connect(context.Background()))
	srv := accept(t, l)

	hello := serverRead(t, srv, protocol.RecordLength)
	assert.Equal(t, protocol.ConnReq, hello[0])
	assert.Equal(t, "alice", string(hello[1:6]))

	res := make([]byte, protocol.RecordLength)
	res[0] = protocol.ConnRes
	copy(res[1:], "bob")
	res[21] = 'B'
	_, err := srv.Write(res)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return e.State().Session.Status == types.Playing
	}, waitFor, pollEvery)
	assert.Equal(t, "bob", e.State().Session.Opponent)
	assert.Equal(t, types.RoleBlack, e.State().Session.Role)

	require.NoError(t, e.PlayMove(2, 3))
	move := serverRead(t, srv, protocol.RecordLength)
	assert.Equal(t, protocol.PutMyStone, move[0])
	assert.Equal(t, byte('B'), move[21])
	assert.Equal(t, []byte{2, 3}, move[23:25])
	assert.False(t, e.IsMyTurn())

	opp := make([]byte, protocol.RecordLength)
	opp[0] = protocol.PutOppStone
	copy(opp[1:], "bob")
	opp[21] = 'W'
	opp[23], opp[24] = 2, 2
	_, err = srv.Write(opp)
	require.NoError(t, err)

	require.Eventually(t, e.IsMyTurn, waitFor, pollEvery)
	st := e.State()
	assert.Equal(t, types.WhiteStone, st.Board[2][2])
	assert.Equal(t, types.WhiteStone, st.Board[3][3])
	black, white, empty := st.Board.Count()
	assert.Equal(t, 3, black)
	assert.Equal(t, 3, white)
	assert.Equal(t, 58, empty)
}

func TestConcurrentConnectKeepsOneConnection(t *testing.T) {
	l, port := listen(t)
	e := newTestEngine(t, protocol.ProfileJSON, port)

	accepted := make(chan net.Conn, 4)
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			accepted <- c
		}
	}()

	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = e.Connect(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyConnected)
		}
	}
	assert.Equal(t, 1, succeeded)

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, accepted, 1)
	for len(accepted) > 0 {
		(<-accepted).Close()
	}
}

func TestAttachClosesPreviousConnection(t *testing.T) {
	s := NewSynchronizer(nil)
	c := NewConn(protocol.JSONCodec{}, s, nil)

	defer c.Close()

	var calls atomic.Int32
	c.OnDisconnect(func(error) { calls.Add(1) })

	first, firstServer := net.Pipe()
	defer firstServer.Close()
	require.NoError(t, c.attach(first))

	second, secondServer := net.Pipe()
	defer secondServer.Close()
	require.NoError(t, c.attach(second))

	// The replaced connection is closed, so the server side sees EOF.
	require.NoError(t, firstServer.SetReadDeadline(time.Now().Add(waitFor)))
	_, err := firstServer.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)

	// Its receive goroutine exits without tearing down the live connection.
	time.Sleep(20 * time.Millisecond)
	assert.True(t, c.Connected())
	assert.Equal(t, int32(0), calls.Load())

	go secondServer.Write([]byte(`{"type":"game_start"}`))
	require.Eventually(t, func() bool {
		return s.State().Session.Status == types.Playing
	}, waitFor, pollEvery)
}

func TestFailedReconnectResetsSession(t *testing.T) {
	l, port := listen(t)
	e := newTestEngine(t, protocol.ProfileJSON, port)

	require.NoError(t, e.Connect(context.Background()))
	srv := accept(t, l)
	serverWrite(t, srv, `{"type":"player_assigned","player_number":0}{"type":"game_start"}`)
	require.Eventually(t, func() bool {
		return e.State().Session.Status == types.Playing
	}, waitFor, pollEvery)

	srv.Close()
	require.Eventually(t, func() bool { return !e.Connected() }, waitFor, pollEvery)
	require.NoError(t, l.Close())

	var connectErr *ConnectError
	require.True(t, errors.As(e.Connect(context.Background()), &connectErr))

	st := e.State()
	assert.False(t, st.Session.Connected)
	assert.Equal(t, types.NotStarted, st.Session.Status)
	assert.Equal(t, types.Spectator, st.Session.Role)
	assert.Contains(t, st.Error.Text, "Connection error")
}
