package handler

import (
	"fmt"
	"net/http"

	"github.com/userdesk/userdesk/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
	store       RecordCounter
}

// NewMetricsHandler creates a new MetricsHandler. store may be nil.
func NewMetricsHandler(snapshotter metrics.Snapshotter, store RecordCounter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter, store: store}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "userdesk_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "userdesk_users_updated_total %d\n", snap.UsersUpdated)
	writeMetric(w, "userdesk_users_deleted_total %d\n", snap.UsersDeleted)
	writeMetric(w, "userdesk_user_lookups_missed_total %d\n", snap.UserLookupsMissed)
	writeMetric(w, "userdesk_validation_failed_total %d\n", snap.ValidationFailed)

	writeMetric(w, "userdesk_rate_limited_total %d\n", snap.RateLimited)
	writeMetric(w, "userdesk_auth_failed_total %d\n", snap.AuthFailed)

	if h.store != nil {
		writeMetric(w, "userdesk_users %d\n", h.store.Count())
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
