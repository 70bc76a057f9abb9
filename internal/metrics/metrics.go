// Package metrics exposes the broker's operational counters as
// Prometheus metrics, served over HTTP when a listen address is
// configured, using prometheus/client_golang's promauto registration.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/exonlabs/serialbrokerd/pkg/logging"
)

// Metrics holds the broker's Prometheus instruments. It satisfies
// broker.Metrics.
type Metrics struct {
	queueDepth        prometheus.Gauge
	activeConnections prometheus.Gauge
	connectionsTotal  prometheus.Counter
	commandsTotal     prometheus.Counter
	resetsTotal       prometheus.Counter
	serialErrorsTotal prometheus.Counter
}

// New registers the broker's metrics on the default Prometheus registry
// (the one the /metrics handler serves) and returns a handle to update
// them.
func New() *Metrics {
	return &Metrics{
		queueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "serialbrokerd",
			Name:      "queue_depth",
			Help:      "Number of commands currently waiting in the FIFO queue.",
		}),
		activeConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "serialbrokerd",
			Name:      "active_connections",
			Help:      "Number of client connections currently open.",
		}),
		connectionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "serialbrokerd",
			Name:      "connections_total",
			Help:      "Total number of client connections accepted.",
		}),
		commandsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "serialbrokerd",
			Name:      "commands_total",
			Help:      "Total number of commands sent to the device.",
		}),
		resetsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "serialbrokerd",
			Name:      "port_resets_total",
			Help:      "Total number of device port resets performed.",
		}),
		serialErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "serialbrokerd",
			Name:      "serial_errors_total",
			Help:      "Total number of serial read/write errors observed.",
		}),
	}
}

func (m *Metrics) SetQueueDepth(n int)        { m.queueDepth.Set(float64(n)) }
func (m *Metrics) SetActiveConnections(n int) { m.activeConnections.Set(float64(n)) }
func (m *Metrics) IncConnections()            { m.connectionsTotal.Inc() }
func (m *Metrics) IncCommands()               { m.commandsTotal.Inc() }
func (m *Metrics) IncResets()                 { m.resetsTotal.Inc() }
func (m *Metrics) IncSerialErrors()           { m.serialErrorsTotal.Inc() }

// Server serves the registered metrics over HTTP at /metrics until the
// given context is canceled.
type Server struct {
	srv *http.Server
	log *logging.Logger
}

// NewServer creates a metrics HTTP server bound to addr. Call Start to
// begin serving.
func NewServer(addr string, log *logging.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		srv: &http.Server{Addr: addr, Handler: mux},
		log: log,
	}
}

// Start serves metrics in the background until ctx is canceled.
func (s *Server) Start(ctx context.Context) {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("METRICS_SERVER_ERROR -- %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		s.srv.Close()
	}()
}
