package broker

import (
	"errors"
	"io"
	"strings"
)

var (
	// ErrNotOpen is returned by SerialChannel.Write when the device is
	// currently closed (mid port-reset, or reopen failed and no retry
	// has succeeded yet).
	ErrNotOpen = errors.New("serial channel not open")

	// ErrLineTooLong is logged by a connection's reader, which then closes
	// the connection, when a client's pending line reaches maxLineLen
	// bytes without a terminating newline.
	ErrLineTooLong = errors.New("command line exceeds maximum length")
)

// isClosedError reports whether err is the kind of I/O error expected
// when a peer or device goes away: EOF, a reset pipe, or an already
// closed file descriptor.
func isClosedError(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, io.EOF):
		return true
	case strings.Contains(err.Error(), "closed network"),
		strings.Contains(err.Error(), "broken pipe"),
		strings.Contains(err.Error(), "reset by peer"),
		strings.Contains(err.Error(), "bad file descriptor"),
		strings.Contains(err.Error(), "has been closed"),
		strings.Contains(err.Error(), "use of closed file"),
		strings.Contains(err.Error(), "input/output error"):
		return true
	default:
		return false
	}
}
