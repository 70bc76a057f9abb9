// Package config loads the broker's on-disk JSON configuration using
// the jconfig/dictx layering this module depends on: defaults merged
// under the loaded file, with an automatic `.backup` copy for
// resiliency against a corrupted primary file.
package config

import (
	"errors"
	"fmt"

	"go.bug.st/serial"

	"github.com/exonlabs/serialbrokerd/pkg/abc/dictx"
	"github.com/exonlabs/serialbrokerd/pkg/abc/gx"
	"github.com/exonlabs/serialbrokerd/pkg/jconfig"
)

// ErrUnknownBaudRate is returned when the configured baud rate is not
// in the device protocol's supported fixed set.
var ErrUnknownBaudRate = errors.New("unsupported baud rate")

// Defaults holds the configuration values assumed when a key is absent
// from the loaded file.
var Defaults = dictx.Dict{
	"socket":           "/run/serialbrokerd.sock",
	"baudrate":         9600,
	"databits":         8,
	"parity":           "N",
	"stopbits":         1,
	"response_timeout": 1.0,
	"hooks": dictx.Dict{
		"reset": "",
	},
	"logging": dictx.Dict{
		"level": "INFO",
		"file":  "",
		"color": true,
	},
	"metrics": dictx.Dict{
		"listen": "",
	},
}

// Config is the broker's resolved, validated settings.
type Config struct {
	Device          string
	Socket          string
	Mode            serial.Mode
	ResetHookPath   string
	ResponseTimeout float64

	LogLevel string
	LogFile  string
	LogColor bool

	MetricsListen string
}

// Load reads path (falling back to its `.backup` copy on failure, per
// [jconfig.Config.Load]), merges it over Defaults, validates it, and
// returns the resolved Config.
func Load(path string) (*Config, error) {
	defaults, err := dictx.Clone(Defaults)
	if err != nil {
		return nil, err
	}
	jc, err := jconfig.New(path, defaults)
	if err != nil {
		return nil, err
	}
	jc.EnableBackup()
	if err := jc.Load(); err != nil {
		return nil, err
	}
	return fromBuffer(jc.Buffer)
}

func fromBuffer(d dictx.Dict) (*Config, error) {
	device := dictx.GetString(d, "device", "")
	if device == "" {
		return nil, fmt.Errorf("config: 'device' is required")
	}

	baud := dictx.GetInt(d, "baudrate", 9600)
	if !validBaudRate(baud) {
		return nil, fmt.Errorf("config: %w: %d", ErrUnknownBaudRate, baud)
	}

	parity, err := parseParity(dictx.GetString(d, "parity", "N"))
	if err != nil {
		return nil, err
	}
	stopBits, err := parseStopBits(dictx.GetInt(d, "stopbits", 1))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Device: device,
		Socket: dictx.GetString(d, "socket", "/run/serialbrokerd.sock"),
		Mode: serial.Mode{
			BaudRate: baud,
			DataBits: dictx.GetInt(d, "databits", 8),
			Parity:   parity,
			StopBits: stopBits,
		},
		ResetHookPath:   dictx.GetString(d, "hooks.reset", ""),
		ResponseTimeout: clampResponseTimeout(dictx.GetFloat(d, "response_timeout", 1.0)),

		LogLevel: dictx.GetString(d, "logging.level", "INFO"),
		LogFile:  dictx.GetString(d, "logging.file", ""),
		LogColor: dictx.Fetch(d, "logging.color", true),

		MetricsListen: dictx.GetString(d, "metrics.listen", ""),
	}
	return cfg, nil
}

// baudRates is the fixed set of baud rates the device protocol
// accepts. Kept alongside the device-protocol constants documented in
// the original koruza server's baud-rate switch statement.
var baudRates = map[int]bool{
	50: true, 75: true, 110: true, 134: true, 150: true, 200: true,
	300: true, 600: true, 1200: true, 1800: true, 2400: true, 4800: true,
	9600: true, 19200: true, 38400: true, 57600: true, 115200: true,
	230400: true,
}

func validBaudRate(rate int) bool {
	return baudRates[rate]
}

// minResponseTimeout and maxResponseTimeout bound the configurable
// response_timeout against operator typos (e.g. a stray "0" or a
// value meant in milliseconds rather than seconds).
const (
	minResponseTimeout = 0.1
	maxResponseTimeout = 300.0
)

func clampResponseTimeout(seconds float64) float64 {
	return gx.Min(gx.Max(seconds, minResponseTimeout), maxResponseTimeout)
}

func parseParity(s string) (serial.Parity, error) {
	switch s {
	case "N":
		return serial.NoParity, nil
	case "O":
		return serial.OddParity, nil
	case "E":
		return serial.EvenParity, nil
	case "M":
		return serial.MarkParity, nil
	case "S":
		return serial.SpaceParity, nil
	default:
		return 0, fmt.Errorf("config: invalid parity %q", s)
	}
}

func parseStopBits(n int) (serial.StopBits, error) {
	switch n {
	case 1:
		return serial.OneStopBit, nil
	case 2:
		return serial.TwoStopBits, nil
	default:
		return 0, fmt.Errorf("config: invalid stopbits %d", n)
	}
}
