// Copyright (c) 2024 ExonLabs, All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

package logging

import (
	"fmt"
	"strings"
	"time"
)

// Formatter renders a single log record into its final line of text.
type Formatter func(t time.Time, level int, name, msg string) string

// StdFormatter renders timestamp, level, source name and message.
func StdFormatter(t time.Time, level int, name, msg string) string {
	return fmt.Sprintf("%s %s [%s] %s",
		t.Format("2006-01-02 15:04:05.000000"), LEVEL(level), name, msg)
}

// SimpleFormatter renders timestamp, level and message, without source name.
func SimpleFormatter(t time.Time, level int, name, msg string) string {
	return fmt.Sprintf("%s %s %s",
		t.Format("2006-01-02 15:04:05.000000"), LEVEL(level), msg)
}

// BasicFormatter renders just the timestamp and message.
func BasicFormatter(t time.Time, level int, name, msg string) string {
	return fmt.Sprintf("%s %s", t.Format("2006-01-02 15:04:05.000000"), msg)
}

// RawFormatter renders just the message.
func RawFormatter(t time.Time, level int, name, msg string) string {
	return msg
}

// JsonFormatter renders the record as a single line of JSON.
func JsonFormatter(t time.Time, level int, name, msg string) string {
	msg = strings.ReplaceAll(msg, `\`, `\\`)
	msg = strings.ReplaceAll(msg, `"`, `\"`)
	return fmt.Sprintf(`{"ts":"%s","lvl":"%s","src":"%s","msg":"%s"}`,
		t.Format("2006-01-02 15:04:05.000000"), LEVEL(level), name, msg)
}
