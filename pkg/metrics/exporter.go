package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chronolabs/chrono/pkg/engine"
)

// Exporter exposes timer metrics in Prometheus format. Gauges are read from
// the engine at scrape time; command counts are pushed by the API handler.
type Exporter struct {
	registry  *prometheus.Registry
	startTime time.Time
	commands  *prometheus.CounterVec
}

// NewExporter creates an exporter over the given engine
func NewExporter(e *engine.Engine) *Exporter {
	x := &Exporter{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chrono_commands_total",
			Help: "Total timer commands received, by command and result (applied or noop)",
		}, []string{"command", "result"}),
	}

	x.registry.MustRegister(x.commands)

	x.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chrono_timer_running",
		Help: "Whether the timer is currently accumulating (1) or stopped (0)",
	}, func() float64 {
		if e.IsRunning() {
			return 1
		}
		return 0
	}))

	x.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chrono_timer_elapsed_seconds",
		Help: "Elapsed time tracked by the timer in seconds",
	}, e.ElapsedSeconds))

	x.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chrono_uptime_seconds",
		Help: "Time since the exporter started",
	}, func() float64 {
		return time.Since(x.startTime).Seconds()
	}))

	return x
}

// RecordCommand increments the command counter. Satisfies api.MetricsRecorder.
func (x *Exporter) RecordCommand(command string, applied bool) {
	result := "applied"
	if !applied {
		result = "noop"
	}
	x.commands.WithLabelValues(command, result).Inc()
}

// Handler returns the /metrics HTTP handler for this exporter's registry
func (x *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(x.registry, promhttp.HandlerOpts{})
}
