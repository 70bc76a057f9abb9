// Command brokerd runs the serial device broker daemon: it opens the
// configured serial device, listens on a Unix domain socket, and
// serializes client commands to the device until stopped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exonlabs/serialbrokerd/internal/broker"
	"github.com/exonlabs/serialbrokerd/internal/config"
	"github.com/exonlabs/serialbrokerd/internal/metrics"
	"github.com/exonlabs/serialbrokerd/pkg/logging"
	"github.com/exonlabs/serialbrokerd/pkg/proc"
)

func main() {
	cfgPath := flag.String("config", "/etc/serialbrokerd/config.json", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "brokerd: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)

	// A dropped client socket must never take down the daemon.
	signal.Ignore(syscall.SIGPIPE)

	mtr := metrics.New()
	if cfg.MetricsListen != "" {
		srv := metrics.NewServer(cfg.MetricsListen, log.SubLogger("metrics"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		srv.Start(ctx)
		log.Info("METRICS_LISTENING -- %s", cfg.MetricsListen)
	}

	b := broker.New(broker.Config{
		SocketPath:      cfg.Socket,
		DevicePath:      cfg.Device,
		Mode:            cfg.Mode,
		ResetHookPath:   cfg.ResetHookPath,
		ResponseTimeout: time.Duration(cfg.ResponseTimeout * float64(time.Second)),
	}, log, mtr)

	ph := proc.NewProcessHandler(log, b)
	stop := func() {
		b.Stop()
		ph.Stop()
	}
	ph.SetSignalHandler(syscall.SIGINT, stop)
	ph.SetSignalHandler(syscall.SIGTERM, stop)
	ph.SetSignalHandler(syscall.SIGQUIT, stop)
	ph.SetSignalHandler(syscall.SIGHUP, stop)

	log.Info("STARTING -- device=%s socket=%s baud=%d",
		cfg.Device, cfg.Socket, cfg.Mode.BaudRate)
	ph.Start()
}

func newLogger(cfg *config.Config) *logging.Logger {
	log := logging.NewStdoutLogger("brokerd")
	log.Level = levelFromString(cfg.LogLevel)

	if cfg.LogColor {
		log.SetHandler(logging.NewColorStdoutHandler())
	} else {
		log.SetHandler(logging.NewStdoutHandler())
	}

	if cfg.LogFile != "" {
		log.AddHandler(logging.NewRotatingFileHandler(cfg.LogFile, 10, 5, 30))
	}
	return log
}

func levelFromString(s string) int {
	switch s {
	case "TRACE":
		return logging.TRACE
	case "DEBUG":
		return logging.DEBUG
	case "WARN":
		return logging.WARN
	case "ERROR":
		return logging.ERROR
	case "FATAL":
		return logging.FATAL
	case "PANIC":
		return logging.PANIC
	default:
		return logging.INFO
	}
}
