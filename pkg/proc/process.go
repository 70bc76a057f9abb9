// Copyright (c) 2024 ExonLabs, All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

package proc

import (
	"bytes"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/exonlabs/serialbrokerd/pkg/logging"
)

// Process manages OS signal handling in addition to Tasklet management.
type Process struct {
	*TaskletHandler

	// Map of signal handlers.
	sigHandlers map[os.Signal]func()
}

// NewProcessHandler creates a new ProcessHandler with signal handlers
// for common signals like SIGINT and SIGTERM.
func NewProcessHandler(log *logging.Logger, tsk Tasklet) *Process {
	h := &Process{
		TaskletHandler: NewTaskletHandler(log, tsk),
	}
	h.sigHandlers = map[os.Signal]func(){
		syscall.SIGINT:  h.Stop, // Handle interruption signals (Ctrl+C).
		syscall.SIGTERM: h.Stop, // Handle termination signals.
		syscall.SIGKILL: h.Stop, // Handle kill signals.
		syscall.SIGQUIT: h.Stop, // Handle quit signals.
		syscall.SIGHUP:  h.Stop, // Handle hangup signals.
	}
	return h
}

// SetSignalHandler allows the user to define custom handlers for specific signals.
func (h *Process) SetSignalHandler(sig os.Signal, fn func()) {
	if sig != nil && fn != nil {
		h.sigHandlers[sig] = fn
	}
}

// handleSignal processes incoming signals and triggers the corresponding handler.
func (h *Process) handleSignal(sig os.Signal) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			indx := bytes.Index(stack, []byte("panic({"))
			h.Log.Error("%s", r)
			h.Log.Trace("\n----------\n%s----------", stack[indx:])
		}
	}()

	// Log the received signal and execute the associated handler.
	h.Log.Debug("<received signal: %v>", sig)
	if handler, exists := h.sigHandlers[sig]; exists {
		handler()
	} else {
		h.Log.Warn("no handler registered for signal: %v", sig)
	}
}

// Start begins the process and sets up signal handling.
func (h *Process) Start() {
	// Create a buffered channel to receive multiple signals without blocking.
	sigCh := make(chan os.Signal, 2)
	for sig := range h.sigHandlers {
		// Register for signals defined in sigHandlers.
		signal.Notify(sigCh, sig)
	}

	// Start a goroutine to listen for OS signals and handle them.
	go func() {
		for sig := range sigCh {
			h.handleSignal(sig)
		}
	}()

	// Start the tasklet lifecycle.
	h.TaskletHandler.Enable()
	h.TaskletHandler.Start()
}

// Stop stop the process.
func (h *Process) Stop() {
	h.TaskletHandler.Disable()
	h.TaskletHandler.Stop()
}
