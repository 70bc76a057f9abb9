package broker

import (
	"io"
	"net"
	"sync/atomic"

	"github.com/exonlabs/serialbrokerd/pkg/logging"
)

// maxLineLen is the maximum accepted command line length, including
// the trailing newline. A client that sends a line reaching this
// length without a newline has committed a protocol violation and its
// connection is closed.
const maxLineLen = 64

// Connection wraps one accepted client socket. It owns a small pending
// buffer used to assemble a single newline-terminated command line at
// a time, and is otherwise a thin, GC-safe back-reference held by
// queued and in-flight commands: once closed is set, writes become
// silent no-ops instead of racing a freed peer.
type Connection struct {
	broker *Broker
	conn   net.Conn
	log    *logging.Logger

	closed  atomic.Bool
	pending []byte
}

func newConnection(b *Broker, c net.Conn, log *logging.Logger) *Connection {
	return &Connection{
		broker:  b,
		conn:    c,
		log:     log,
		pending: make([]byte, 0, maxLineLen),
	}
}

// writeResponse pipelines response bytes to the client. A write to an
// already-closed connection is a safe no-op, never a panic or crash.
func (c *Connection) writeResponse(data []byte) {
	if c.closed.Load() {
		return
	}
	if _, err := c.conn.Write(data); err != nil {
		c.log.Debug("SEND_ERROR -- %v", err)
	}
}

func (c *Connection) close() {
	if c.closed.Swap(true) {
		return
	}
	c.conn.Close()
	c.broker.onConnClosed(c)
}

// serve reads newline-framed command lines from the client and submits
// each complete line to the broker. It runs in its own goroutine for
// the lifetime of the connection.
func (c *Connection) serve() {
	defer c.close()

	buf := make([]byte, maxLineLen)
	for {
		n, err := c.conn.Read(buf[:maxLineLen-len(c.pending)])
		if err != nil {
			if err != io.EOF && !isClosedError(err) {
				c.log.Debug("RECV_ERROR -- %v", err)
			}
			return
		}
		if n == 0 {
			continue
		}

		c.pending = append(c.pending, buf[:n]...)

		if c.pending[len(c.pending)-1] == '\n' {
			line := make([]byte, len(c.pending))
			copy(line, c.pending)
			c.pending = c.pending[:0]
			c.broker.submit(c, line)
		} else if len(c.pending) >= maxLineLen {
			c.log.Warn("PROTOCOL_ERROR -- %v", ErrLineTooLong)
			return
		}
	}
}
