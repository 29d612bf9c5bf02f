// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// IncSignup counts registration attempts by outcome:
	// "created", "validation_error", "conflict", "infra_error".
	IncSignup(status string)

	// IncVerification counts verification attempts by outcome:
	// "verified", "invalid", "used", "expired", "infra_error".
	IncVerification(status string)

	// IncMailDispatch counts verification mail handoffs by outcome:
	// "sent" or "dropped".
	IncMailDispatch(status string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
