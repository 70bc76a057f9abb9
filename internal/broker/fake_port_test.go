package broker

import (
	"io"
	"sync"
	"testing"
	"time"

	"go.bug.st/serial"
)

// fakePort is a minimal in-memory stand-in for go.bug.st/serial.Port,
// covering the method set SerialChannel actually exercises
// (Read/Write/Close/Drain/ResetInputBuffer/ResetOutputBuffer). The
// remaining methods of the real interface (SetMode/SetReadTimeout/
// SetDTR/SetRTS/GetModemStatusBits/Break) are never called by
// SerialChannel and are stubbed to satisfy the interface only.
type fakePort struct {
	mu sync.Mutex

	toDevice   [][]byte // successive Write payloads observed
	fromDevice chan []byte
	readErr    error // returned once fromDevice is drained, if set

	closed    bool
	closeErr  error
	writeErr  error
	drainErr  error
	openCount int
}

func newFakePort() *fakePort {
	return &fakePort{fromDevice: make(chan []byte, 16)}
}

// pushRead queues a chunk of bytes for a future Read call to return.
func (p *fakePort) pushRead(b []byte) {
	p.fromDevice <- b
}

// pushReadErr arranges for the next Read, once the queued chunks are
// drained, to return err.
func (p *fakePort) pushReadErr(err error) {
	p.mu.Lock()
	p.readErr = err
	p.mu.Unlock()
	close(p.fromDevice)
}

func (p *fakePort) writes() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.toDevice))
	copy(out, p.toDevice)
	return out
}

func (p *fakePort) Read(b []byte) (int, error) {
	chunk, ok := <-p.fromDevice
	if !ok {
		p.mu.Lock()
		err := p.readErr
		p.mu.Unlock()
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	n := copy(b, chunk)
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	p.toDevice = append(p.toDevice, cp)
	return len(b), nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return p.closeErr
}

func (p *fakePort) SetMode(mode *serial.Mode) error           { return nil }
func (p *fakePort) ResetInputBuffer() error                   { return nil }
func (p *fakePort) ResetOutputBuffer() error                  { return nil }
func (p *fakePort) SetReadTimeout(t time.Duration) error      { return nil }
func (p *fakePort) Drain() error                              { return p.drainErr }
func (p *fakePort) SetDTR(dtr bool) error                     { return nil }
func (p *fakePort) SetRTS(rts bool) error                     { return nil }
func (p *fakePort) Break(d time.Duration) error               { return nil }
func (p *fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	return &serial.ModemStatusBits{}, nil
}

// withFakeOpen substitutes openSerialPort for the duration of a test,
// returning the fakePort handed back by every call and a restore func.
func withFakeOpen(t *testing.T) (*fakePort, func()) {
	t.Helper()
	fp := newFakePort()
	orig := openSerialPort
	openSerialPort = func(path string, mode *serial.Mode) (serial.Port, error) {
		fp.openCount++
		return fp, nil
	}
	return fp, func() { openSerialPort = orig }
}

// openResult is either a *fakePort to hand back successfully, or an
// error to fail the Open call with.
type openResult struct {
	port *fakePort
	err  error
}

// withFakeOpenResults substitutes openSerialPort to consume results in
// order on successive Open calls; the last entry repeats once the list
// is exhausted. Used to exercise sequences that mix a successful
// initial open with later reopen failures and eventual recovery.
func withFakeOpenResults(t *testing.T, results ...openResult) func() {
	t.Helper()
	idx := 0
	orig := openSerialPort
	openSerialPort = func(path string, mode *serial.Mode) (serial.Port, error) {
		r := results[idx]
		if idx < len(results)-1 {
			idx++
		}
		if r.err != nil {
			return nil, r.err
		}
		return r.port, nil
	}
	return func() { openSerialPort = orig }
}

// withFakeOpenSeq substitutes openSerialPort so each successive Open
// call returns the next port in ports, in order. Used by reset-cycle
// tests where the device is closed and reopened more than once.
func withFakeOpenSeq(t *testing.T, ports ...*fakePort) func() {
	t.Helper()
	next := 0
	orig := openSerialPort
	openSerialPort = func(path string, mode *serial.Mode) (serial.Port, error) {
		p := ports[next]
		if next < len(ports)-1 {
			next++
		}
		return p, nil
	}
	return func() { openSerialPort = orig }
}
