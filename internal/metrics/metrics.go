package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "daybook"

// Metrics groups the counters of the poller, presenter and day pipeline. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	Ticks         prometheus.Counter
	TickErrors    *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	Snoozes       *prometheus.CounterVec
	DayLoads      *prometheus.CounterVec
	StaleResults  *prometheus.CounterVec
	Autosaves     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_ticks_total",
			Help:      "Reminder poll ticks started.",
		}),
		TickErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_tick_errors_total",
			Help:      "Reminder poll ticks that ended with an error.",
		}, []string{"stage"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications shown per sink.",
		}, []string{"sink", "result"}),
		Snoozes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snoozes_total",
			Help:      "Snooze reschedules by result.",
		}, []string{"result"}),
		DayLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "day_loads_total",
			Help:      "Day aggregations by result.",
		}, []string{"result"}),
		StaleResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_total",
			Help:      "Responses discarded because a newer day was opened.",
		}, []string{"kind"}),
		Autosaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autosaves_total",
			Help:      "Diary autosave flushes by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.Ticks, m.TickErrors, m.Notifications, m.Snoozes, m.DayLoads, m.StaleResults, m.Autosaves)
	return m
}

func (m *Metrics) Tick() {
	if m == nil {
		return
	}
	m.Ticks.Inc()
}

func (m *Metrics) TickError(stage string) {
	if m == nil {
		return
	}
	m.TickErrors.WithLabelValues(stage).Inc()
}

func (m *Metrics) Notification(sink string, err error) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(sink, result(err)).Inc()
}

func (m *Metrics) Snooze(err error) {
	if m == nil {
		return
	}
	m.Snoozes.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) DayLoad(err error) {
	if m == nil {
		return
	}
	m.DayLoads.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) Stale(kind string) {
	if m == nil {
		return
	}
	m.StaleResults.WithLabelValues(kind).Inc()
}

func (m *Metrics) Autosave(err error) {
	if m == nil {
		return
	}
	m.Autosaves.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
