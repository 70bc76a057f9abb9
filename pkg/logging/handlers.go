// Copyright (c) 2024 ExonLabs, All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

package logging

import (
	"os"
	"sync"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Handler interface for processing log messages.
type Handler interface {
	// HandleMessage process a log message.
	HandleMessage(msg string) error
}

// StdoutHandler writes log messages to standard output.
type StdoutHandler struct {
	mu sync.Mutex
}

// NewStdoutHandler creates a new instance of StdoutHandler.
func NewStdoutHandler() *StdoutHandler {
	return &StdoutHandler{}
}

// HandleMessage writes a log message to standard output.
func (h *StdoutHandler) HandleMessage(msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := os.Stdout.Write([]byte(msg + "\n"))
	return err
}

// FileHandler writes log messages to a specified file.
type FileHandler struct {
	FilePath string // Path to the log file
	mu       sync.Mutex
}

// NewFileHandler creates a new FileHandler for the specified path.
func NewFileHandler(path string) *FileHandler {
	return &FileHandler{
		FilePath: path,
	}
}

// HandleMessage writes the log message to the specified file.
func (h *FileHandler) HandleMessage(msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	fh, err := os.OpenFile(
		h.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o664)
	if err != nil {
		return err
	}
	defer fh.Close()

	_, err = fh.Write([]byte(msg + "\n"))
	if err == nil {
		// Ensure the output is flushed
		err = fh.Sync()
	}
	return err
}

// levelColors maps the level tag a [Formatter] writes into a display
// color. A line is colored when it starts with a known tag or contains
// one surrounded by spaces (as after a timestamp); other lines print
// uncolored.
var levelColors = map[string]*color.Color{
	"TRACE": color.New(color.FgHiBlack),
	"DEBUG": color.New(color.FgCyan),
	"INFO":  color.New(color.FgGreen),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed),
	"FATAL": color.New(color.FgHiRed),
	"PANIC": color.New(color.FgHiRed, color.Bold),
}

// ColorStdoutHandler writes log messages to standard output, colorizing
// the line by the level tag produced by the standard formatter.
type ColorStdoutHandler struct {
	mu sync.Mutex
}

// NewColorStdoutHandler creates a new instance of ColorStdoutHandler.
func NewColorStdoutHandler() *ColorStdoutHandler {
	return &ColorStdoutHandler{}
}

// HandleMessage writes a colorized log message to standard output.
func (h *ColorStdoutHandler) HandleMessage(msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := colorForMessage(msg)
	if c == nil {
		_, err := os.Stdout.Write([]byte(msg + "\n"))
		return err
	}
	_, err := c.Fprintln(os.Stdout, msg)
	return err
}

func colorForMessage(msg string) *color.Color {
	for lvl, c := range levelColors {
		if len(msg) >= len(lvl) && msg[:len(lvl)] == lvl {
			return c
		}
		// allow for a leading timestamp followed by the level tag
		if idx := indexOf(msg, " "+lvl+" "); idx >= 0 {
			return c
		}
	}
	return nil
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// RotatingFileHandler writes log messages to a size/age rotated file
// using lumberjack, instead of re-opening the path on every call like
// [FileHandler] does.
type RotatingFileHandler struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
}

// NewRotatingFileHandler creates a RotatingFileHandler writing to path,
// rotating at maxSizeMB megabytes and keeping maxBackups old files for
// maxAgeDays days.
func NewRotatingFileHandler(path string, maxSizeMB, maxBackups, maxAgeDays int) *RotatingFileHandler {
	return &RotatingFileHandler{
		logger: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		},
	}
}

// HandleMessage writes the log message to the rotating file.
func (h *RotatingFileHandler) HandleMessage(msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.logger.Write([]byte(msg + "\n"))
	return err
}

// Close closes the underlying rotating file.
func (h *RotatingFileHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.logger.Close()
}
