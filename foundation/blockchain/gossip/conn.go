package gossip

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// errConnClosed is returned when writing to a connection that has closed.
var errConnClosed = errors.New("connection closed")

// wsConn adapts a websocket connection to the peer.Conn interface. The
// websocket package supports a single concurrent writer so writes are
// serialized here.
type wsConn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
	once         sync.Once
	closed       atomic.Bool
}

func newWSConn(ws *websocket.Conn, writeTimeout time.Duration) *wsConn {

	// A connection hijacked from an http server keeps the server's deadlines.
	ws.SetReadDeadline(time.Time{})

	return &wsConn{
		ws:           ws,
		writeTimeout: writeTimeout,
	}
}

// Send writes the data as a single text frame.
func (c *wsConn) Send(data []byte) error {
	if c.closed.Load() {
		return errConnClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}

	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		c.closed.Store(true)
		return err
	}

	return nil
}

// IsOpen reports whether the connection is still usable.
func (c *wsConn) IsOpen() bool {
	return !c.closed.Load()
}

// Close marks the connection closed and releases the socket. Calling Close
// more than once is safe.
func (c *wsConn) Close() error {
	c.closed.Store(true)

	var err error
	c.once.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = c.ws.Close()
	})

	return err
}

// read blocks until the next message arrives.
func (c *wsConn) read() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		c.closed.Store(true)
		return nil, err
	}

	return data, nil
}
