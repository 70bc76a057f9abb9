// Package broker implements the serial device broker: it owns the one
// serial-attached optical alignment device exclusively, serializes
// concurrent client requests arriving over a Unix domain socket into a
// FIFO queue, and recovers the device link by resetting the port (and
// optionally running an external hook) whenever a response times out
// or the device drops the connection.
package broker

import (
	"os/exec"
	"time"

	"go.bug.st/serial"

	"github.com/exonlabs/serialbrokerd/pkg/events"
	"github.com/exonlabs/serialbrokerd/pkg/logging"
)

// stopTerminator marks the end of a device response.
var stopTerminator = []byte("\r\n#STOP\r\n")

// errorResponse is synthesized and pipelined to the active connection
// whenever the broker cannot complete a command because the device
// channel could not be recovered.
var errorResponse = []byte("#ERROR\r\n#STOP\r\n")

// Config carries everything the broker needs to own the device and
// accept clients. It is built by the internal/config package from the
// on-disk configuration file.
type Config struct {
	SocketPath      string
	DevicePath      string
	Mode            serial.Mode
	ResetHookPath   string
	ResponseTimeout time.Duration
}

// Metrics is the subset of observability hooks the broker calls into.
// A nil Metrics is valid and simply means nothing is recorded.
type Metrics interface {
	SetQueueDepth(n int)
	SetActiveConnections(n int)
	IncConnections()
	IncCommands()
	IncResets()
	IncSerialErrors()
}

type submitMsg struct {
	conn *Connection
	line []byte
}

type connClosedMsg struct {
	conn *Connection
}

// Broker is the single arbiter of the serial device. All of its state
// below is owned exclusively by the actor goroutine running Execute;
// nothing here needs a mutex because nothing else ever touches it.
type Broker struct {
	cfg     Config
	log     *logging.Logger
	metrics Metrics

	listener *Listener
	serial   *SerialChannel

	queue  *commandQueue
	active *Connection

	response     []byte
	timerArmed   bool
	timeoutTimer *time.Timer

	connCount int

	submitCh     chan submitMsg
	connOpenedCh chan struct{}
	connClosedCh chan connClosedMsg
	chunkCh      chan []byte
	serialErrCh  chan error

	shutdown *events.Event
}

// New creates a Broker ready to be driven by a [proc.TaskletHandler] or
// [proc.Process] through its Initialize/Execute/Terminate methods.
func New(cfg Config, log *logging.Logger, metrics Metrics) *Broker {
	b := &Broker{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		queue:   newCommandQueue(),

		submitCh:     make(chan submitMsg, 32),
		connOpenedCh: make(chan struct{}, 32),
		connClosedCh: make(chan connClosedMsg, 32),
		chunkCh:      make(chan []byte, 32),
		serialErrCh:  make(chan error, 4),

		shutdown: events.New(),
	}
	b.serial = NewSerialChannel(log.SubLogger("serial"), b.chunkCh, b.serialErrCh)
	b.listener = NewListener(cfg.SocketPath, b, log.SubLogger("listener"))

	timeout := cfg.ResponseTimeout
	if timeout <= 0 {
		timeout = responseTimeout
	}
	b.timeoutTimer = time.NewTimer(timeout)
	if !b.timeoutTimer.Stop() {
		<-b.timeoutTimer.C
	}
	return b
}

// Initialize opens the device and starts accepting client connections.
// It satisfies [proc.Tasklet].
func (b *Broker) Initialize() error {
	if err := b.serial.Open(b.cfg.DevicePath, b.cfg.Mode); err != nil {
		b.log.Error("OPEN_FAIL -- %v", err)
		return err
	}
	b.log.Info("DEVICE_OPEN -- %s", b.cfg.DevicePath)

	if err := b.listener.Start(); err != nil {
		b.serial.Close()
		return err
	}
	b.log.Info("LISTENING -- %s", b.cfg.SocketPath)
	return nil
}

// Execute runs one iteration of the broker's event loop, blocking
// until a client submission, a device chunk or error, the response
// timer, or a shutdown request needs handling. It satisfies
// [proc.Tasklet]; the caller repeats it until [Broker.Stop] fires the
// shutdown event.
func (b *Broker) Execute() error {
	select {
	case m := <-b.submitCh:
		b.onSubmit(m.conn, m.line)

	case <-b.connOpenedCh:
		b.connCount++
		if b.metrics != nil {
			b.metrics.SetActiveConnections(b.connCount)
		}

	case m := <-b.connClosedCh:
		b.onConnClosedInternal(m.conn)

	case data := <-b.chunkCh:
		b.onChunk(data)

	case err := <-b.serialErrCh:
		b.onSerialError(err)

	case <-b.timeoutTimer.C:
		if b.timerArmed {
			b.timerArmed = false
			b.onResponseTimeout()
		}

	case <-b.shutdown.Chan():
		// nothing to do; the TaskletHandler's TermEvent governs loop exit
	}
	return nil
}

// Terminate closes the device and stops accepting new connections. It
// satisfies [proc.Tasklet].
func (b *Broker) Terminate() error {
	b.listener.Stop()
	b.serial.Close()
	b.log.Info("STOPPED")
	return nil
}

// Stop requests a graceful shutdown of the broker's event loop.
func (b *Broker) Stop() {
	b.shutdown.Set()
}

// submit is called from any Connection's reader goroutine to hand off
// a freshly-read command line. It never blocks the caller for long: the
// channel is buffered and only the actor goroutine drains it.
func (b *Broker) submit(c *Connection, line []byte) {
	b.submitCh <- submitMsg{conn: c, line: line}
}

// onConnClosed is called from Connection.close(), from any goroutine.
func (b *Broker) onConnClosed(c *Connection) {
	b.connClosedCh <- connClosedMsg{conn: c}
}

// connAccepted is called from the listener's accept loop goroutine for
// every newly accepted client; the count update itself happens on the
// actor goroutine via connOpenedCh.
func (b *Broker) connAccepted() {
	if b.metrics != nil {
		b.metrics.IncConnections()
	}
	b.connOpenedCh <- struct{}{}
}

func (b *Broker) onSubmit(conn *Connection, line []byte) {
	if b.active == nil {
		b.active = conn
		b.sendCommand(line)
		return
	}
	b.queue.push(&QueuedCommand{conn: conn, line: line})
	b.reportQueueDepth()
}

// onConnClosedInternal clears active_connection if it belonged to the
// closing connection. Per the broker's recovery contract, any response
// already in flight keeps draining until #STOP is observed even though
// there is no longer anyone to deliver it to - see onChunk.
func (b *Broker) onConnClosedInternal(conn *Connection) {
	b.connCount--
	if b.metrics != nil {
		b.metrics.SetActiveConnections(b.connCount)
	}
	if b.active == conn {
		b.active = nil
	}
}

// sendCommand arms the response timer, reopens the device if it is
// currently closed, and writes the command bytes. A write failure
// triggers a port reset exactly as a device read error would; a failed
// reopen replies #ERROR to the active connection and leaves the timer
// armed, so its expiry retries the reset.
func (b *Broker) sendCommand(line []byte) {
	if b.metrics != nil {
		b.metrics.IncCommands()
	}
	b.armTimeout()

	if !b.serial.IsOpen() {
		if !b.resetPort(false) {
			b.replyErrorToActive()
			return
		}
	}

	if err := b.serial.Write(line); err != nil {
		b.log.Warn("WRITE_ERROR -- %v", err)
		b.resetPort(true)
	}
}

// onChunk handles a slice of bytes read from the device. Bytes
// arriving while the response timer is not armed are unsolicited
// device output and are logged and dropped rather than appended to any
// response buffer.
func (b *Broker) onChunk(data []byte) {
	if !b.timerArmed {
		b.log.Warn("UNSOLICITED_DATA -- %d bytes", len(data))
		return
	}

	if b.active != nil {
		b.active.writeResponse(data)
	}

	b.response = append(b.response, data...)
	if len(b.response) >= len(stopTerminator) &&
		string(b.response[len(b.response)-len(stopTerminator):]) == string(stopTerminator) {
		b.commandDone()
	}
}

func (b *Broker) onSerialError(err error) {
	b.log.Warn("SERIAL_ERROR -- %v", err)
	if b.metrics != nil {
		b.metrics.IncSerialErrors()
	}
	b.resetPort(true)
}

func (b *Broker) onResponseTimeout() {
	b.log.Warn("RESPONSE_TIMEOUT")
	b.resetPort(true)
}

// commandDone is called once a complete response has been observed. It
// cancels the timeout timer and, if another command is queued,
// dispatches it immediately; otherwise the channel goes idle.
func (b *Broker) commandDone() {
	b.response = b.response[:0]
	b.cancelTimeout()

	if qc := b.queue.pop(); qc != nil {
		b.active = qc.conn
		b.reportQueueDepth()
		b.sendCommand(qc.line)
		return
	}
	b.active = nil
}

// resetPort recovers the device link: it optionally replies #ERROR to
// the active connection, closes the port, runs the external reset hook
// if configured, and reopens the device. If failActive is true and the
// reopen succeeds, the in-flight command is considered lost and the
// queue is advanced via commandDone; if failActive is true and the
// reopen fails, the timer is left armed so a retry is attempted on its
// next expiry, matching the device protocol's unbounded-retry design.
func (b *Broker) resetPort(failActive bool) bool {
	if b.metrics != nil {
		b.metrics.IncResets()
	}

	if failActive && b.active != nil {
		b.active.writeResponse(errorResponse)
	}

	b.serial.Close()
	b.runResetHook()

	if err := b.serial.Open(b.cfg.DevicePath, b.cfg.Mode); err != nil {
		b.log.Error("REOPEN_FAIL -- %v", err)
		b.armTimeout()
		return false
	}
	b.log.Info("DEVICE_REOPENED -- %s", b.cfg.DevicePath)

	if failActive {
		b.commandDone()
	}
	return true
}

// replyErrorToActive synthesizes an immediate #ERROR response when a
// command cannot even be attempted because the channel is absent and
// could not be recovered. The active slot and the re-armed timer are
// kept, so the queue advances only after a later reset succeeds.
func (b *Broker) replyErrorToActive() {
	if b.active != nil {
		b.active.writeResponse(errorResponse)
	}
}

func (b *Broker) runResetHook() {
	if b.cfg.ResetHookPath == "" {
		return
	}
	cmd := exec.Command(b.cfg.ResetHookPath)
	if err := cmd.Run(); err != nil {
		b.log.Warn("HOOK_EXIT -- %v", err)
	} else {
		b.log.Debug("HOOK_OK -- %s", b.cfg.ResetHookPath)
	}
}

func (b *Broker) armTimeout() {
	b.stopTimer()
	b.timeoutTimer.Reset(b.timeout())
	b.timerArmed = true
}

func (b *Broker) cancelTimeout() {
	b.stopTimer()
	b.timerArmed = false
}

func (b *Broker) stopTimer() {
	if !b.timeoutTimer.Stop() {
		select {
		case <-b.timeoutTimer.C:
		default:
		}
	}
}

func (b *Broker) timeout() time.Duration {
	if b.cfg.ResponseTimeout > 0 {
		return b.cfg.ResponseTimeout
	}
	return responseTimeout
}

func (b *Broker) reportQueueDepth() {
	if b.metrics != nil {
		b.metrics.SetQueueDepth(b.queue.length())
	}
}
