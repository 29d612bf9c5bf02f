package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup(status string) {}

// IncVerification is a no-op.
func (n *NoopRecorder) IncVerification(status string) {}

// IncMailDispatch is a no-op.
func (n *NoopRecorder) IncMailDispatch(status string) {}
