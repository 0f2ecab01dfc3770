package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/tasklist/tasklist/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns per-resource counters in Prometheus exposition format.
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()
	resources := make([]string, 0, len(snap))
	for name := range snap {
		resources = append(resources, name)
	}
	sort.Strings(resources)

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	series := []struct {
		name  string
		value func(metrics.Counters) uint64
	}{
		{"tasklist_resources_created_total", func(c metrics.Counters) uint64 { return c.Created }},
		{"tasklist_resources_updated_total", func(c metrics.Counters) uint64 { return c.Updated }},
		{"tasklist_resources_deleted_total", func(c metrics.Counters) uint64 { return c.Deleted }},
		{"tasklist_requests_rejected_total", func(c metrics.Counters) uint64 { return c.Rejected }},
		{"tasklist_requests_failed_total", func(c metrics.Counters) uint64 { return c.Failed }},
	}

	for _, s := range series {
		writeMetric(w, "# TYPE %s counter\n", s.name)
		for _, name := range resources {
			writeMetric(w, "%s{resource=%q} %d\n", s.name, name, s.value(snap[name]))
		}
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
