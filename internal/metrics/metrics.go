// Package metrics records what the task runner and live-reload hub are doing,
// exposed by the dev server for scraping.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Recorder holds every siteflow metric. A nil *Recorder records nothing.
type Recorder struct {
	reg          *prom.Registry
	taskDuration *prom.HistogramVec
	taskResults  *prom.CounterVec
	reloadEvents *prom.CounterVec
	reloadConns  prom.Gauge
	watchEvents  prom.Counter
}

// New creates a Recorder with its own registry
func New() *Recorder {
	r := &Recorder{
		reg: prom.NewRegistry(),
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "siteflow",
			Name:      "task_duration_seconds",
			Help:      "Duration of task runs",
			Buckets:   prom.DefBuckets,
		}, []string{"task"}),
		taskResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteflow",
			Name:      "task_results_total",
			Help:      "Task runs by outcome",
		}, []string{"task", "result"}),
		reloadEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteflow",
			Name:      "livereload_events_total",
			Help:      "Live reload events broadcast, by kind",
		}, []string{"kind"}),
		reloadConns: prom.NewGauge(prom.GaugeOpts{
			Namespace: "siteflow",
			Name:      "livereload_clients",
			Help:      "Browsers currently connected for live reload",
		}),
		watchEvents: prom.NewCounter(prom.CounterOpts{
			Namespace: "siteflow",
			Name:      "watch_batches_total",
			Help:      "Coalesced batches of filesystem events handled",
		}),
	}

	r.reg.MustRegister(
		r.taskDuration,
		r.taskResults,
		r.reloadEvents,
		r.reloadConns,
		r.watchEvents)

	return r
}

// ObserveTask records a finished task run
func (r *Recorder) ObserveTask(task string, d time.Duration, err error) {
	if r == nil {
		return
	}

	res := ResultOK
	if err != nil {
		res = ResultFailed
	}

	r.taskDuration.WithLabelValues(task).Observe(d.Seconds())
	r.taskResults.WithLabelValues(task, res).Inc()
}

// IncReloadEvent counts a broadcast live reload event
func (r *Recorder) IncReloadEvent(kind string) {
	if r == nil {
		return
	}

	r.reloadEvents.WithLabelValues(kind).Inc()
}

// SetClients sets the number of connected live reload clients
func (r *Recorder) SetClients(n int) {
	if r == nil {
		return
	}

	r.reloadConns.Set(float64(n))
}

// IncWatchBatch counts a batch of filesystem events
func (r *Recorder) IncWatchBatch() {
	if r == nil {
		return
	}

	r.watchEvents.Inc()
}

// Handler serves the metrics in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}

	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
