package broker

import (
	"errors"
	"net"
	"os"

	"github.com/exonlabs/serialbrokerd/pkg/logging"
)

// Listener accepts client connections on a Unix domain socket and hands
// each one to the broker as an independent, concurrently-served
// Connection. Unlike the device side, any number of clients may be
// connected at once; only command dispatch to the device is serialized.
type Listener struct {
	path string
	ln   net.Listener

	broker *Broker
	log    *logging.Logger
}

// NewListener creates a listener bound to a Unix domain socket at path.
func NewListener(path string, b *Broker, log *logging.Logger) *Listener {
	return &Listener{path: path, broker: b, log: log}
}

// Start removes any stale socket file left over from an unclean
// shutdown, binds the socket and starts accepting connections.
func (l *Listener) Start() error {
	os.Remove(l.path)

	ln, err := net.Listen("unix", l.path)
	if err != nil {
		return err
	}
	l.ln = ln

	go l.acceptLoop()
	return nil
}

func (l *Listener) acceptLoop() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			l.log.Warn("ACCEPT_ERROR -- %v", err)
			continue
		}

		c := newConnection(l.broker, conn, l.log.SubLogger("conn"))
		l.log.Debug("CONNECTED -- %s", conn.RemoteAddr())
		l.broker.connAccepted()
		go c.serve()
	}
}

// Stop closes the listening socket, unblocking acceptLoop. The socket
// file itself is left on disk; Start() unlinks it on the next bind.
func (l *Listener) Stop() {
	if l.ln != nil {
		l.ln.Close()
	}
}
