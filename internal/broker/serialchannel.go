package broker

import (
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"

	"github.com/exonlabs/serialbrokerd/pkg/logging"
)

// readChunkSize is the size of the scratch buffer used by the serial
// reader goroutine for each underlying Read call.
const readChunkSize = 128

// openSerialPort is a seam over serial.Open so tests can substitute a
// fake Port without a real device attached.
var openSerialPort = serial.Open

// SerialChannel owns the single serial port the broker arbitrates
// access to. At most one open serial.Port exists at a time; Open and
// Close are always called from the broker's actor goroutine, so the
// mutex here only guards visibility for the background reader
// goroutine, never arbitrates concurrent opens.
type SerialChannel struct {
	log *logging.Logger

	mu   sync.Mutex
	port serial.Port
	gen  int64 // bumped on every Open/Close to invalidate stale readers

	chunkCh chan<- []byte
	errCh   chan<- error
}

// NewSerialChannel creates a channel that streams incoming device bytes
// on chunkCh and read errors (including EOF on device removal) on errCh.
// Both channels are owned by the caller and read from the actor loop.
func NewSerialChannel(log *logging.Logger, chunkCh chan<- []byte, errCh chan<- error) *SerialChannel {
	return &SerialChannel{
		log:     log,
		chunkCh: chunkCh,
		errCh:   errCh,
	}
}

// IsOpen reports whether the device is currently open.
func (s *SerialChannel) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port != nil
}

// Open opens the device at path with the given mode and starts the
// background reader goroutine. If a port is already open it is closed
// first.
func (s *SerialChannel) Open(path string, mode serial.Mode) error {
	s.Close()

	port, err := openSerialPort(path, &mode)
	if err != nil {
		return err
	}
	port.ResetInputBuffer()
	port.ResetOutputBuffer()

	s.mu.Lock()
	s.port = port
	gen := atomic.AddInt64(&s.gen, 1)
	s.mu.Unlock()

	go s.readLoop(gen, port)
	return nil
}

// Close closes the device, if open. Any reader goroutine in flight
// observes the generation bump and exits without reporting an error.
func (s *SerialChannel) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&s.gen, 1)
	if s.port != nil {
		s.port.Close()
		s.port = nil
	}
}

// Write sends data to the device. Returns ErrNotOpen if the device is
// currently closed.
func (s *SerialChannel) Write(data []byte) error {
	s.mu.Lock()
	port := s.port
	s.mu.Unlock()

	if port == nil {
		return ErrNotOpen
	}

	n, err := port.Write(data)
	if err != nil {
		return err
	}
	if err := port.Drain(); err != nil {
		return err
	}
	if n != len(data) {
		return ErrNotOpen
	}
	return nil
}

// readLoop streams bytes from the device as they arrive. It exits
// silently, without touching errCh, once its generation is superseded
// by a Close/Open from the actor goroutine - this is the expected path
// whenever a reset closes the port out from under an in-flight read.
func (s *SerialChannel) readLoop(gen int64, port serial.Port) {
	buf := make([]byte, readChunkSize)
	for {
		n, err := port.Read(buf)

		if atomic.LoadInt64(&s.gen) != gen {
			return
		}

		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.chunkCh <- chunk
		}
		if err != nil {
			s.errCh <- err
			return
		}
		if n == 0 {
			// go.bug.st/serial returns (0, nil) on read-timeout platforms;
			// treat as idle and keep polling.
			continue
		}
	}
}

var responseTimeout = time.Second
