package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Tick()
	m.TickError("fetch")
	m.Notification("desktop", nil)
	m.Snooze(errors.New("x"))
	m.DayLoad(nil)
	m.Stale("day")
	m.Autosave(nil)
}

func TestCountersByResult(t *testing.T) {
	m := New()
	m.Tick()
	m.Tick()
	m.Snooze(nil)
	m.Snooze(errors.New("offline"))
	m.Snooze(errors.New("offline"))

	if got := testutil.ToFloat64(m.Ticks); got != 2 {
		t.Fatalf("expected 2 ticks, got %v", got)
	}
	if got := testutil.ToFloat64(m.Snoozes.WithLabelValues("error")); got != 2 {
		t.Fatalf("expected 2 failed snoozes, got %v", got)
	}
	if got := testutil.ToFloat64(m.Snoozes.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 ok snooze, got %v", got)
	}
}

func TestHandlerExposesNamespace(t *testing.T) {
	m := New()
	m.Autosave(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Result().Body)
	if !strings.Contains(string(body), `daybook_autosaves_total{result="ok"} 1`) {
		t.Fatalf("expected autosave counter in output, got:\n%s", body)
	}
}
