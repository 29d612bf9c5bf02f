package handler

import (
	"fmt"
	"net/http"

	"github.com/enrolld/enrolld/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "enrolld_signups_total{status=\"created\"} %d\n", snap.SignupsCreated)
	writeMetric(w, "enrolld_signups_total{status=\"validation_error\"} %d\n", snap.SignupValidationErrors)
	writeMetric(w, "enrolld_signups_total{status=\"conflict\"} %d\n", snap.SignupConflicts)
	writeMetric(w, "enrolld_signups_total{status=\"infra_error\"} %d\n", snap.SignupInfraErrors)

	writeMetric(w, "enrolld_verifications_total{status=\"verified\"} %d\n", snap.VerificationsVerified)
	writeMetric(w, "enrolld_verifications_total{status=\"invalid\"} %d\n", snap.VerificationsInvalid)
	writeMetric(w, "enrolld_verifications_total{status=\"used\"} %d\n", snap.VerificationsUsed)
	writeMetric(w, "enrolld_verifications_total{status=\"expired\"} %d\n", snap.VerificationsExpired)
	writeMetric(w, "enrolld_verifications_total{status=\"infra_error\"} %d\n", snap.VerificationInfraErrors)

	writeMetric(w, "enrolld_mail_dispatch_total{status=\"sent\"} %d\n", snap.MailDispatchSent)
	writeMetric(w, "enrolld_mail_dispatch_total{status=\"dropped\"} %d\n", snap.MailDispatchDropped)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
