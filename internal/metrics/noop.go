package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCreated is a no-op.
func (n *NoopRecorder) IncCreated(resource string) {}

// IncUpdated is a no-op.
func (n *NoopRecorder) IncUpdated(resource string) {}

// IncDeleted is a no-op.
func (n *NoopRecorder) IncDeleted(resource string) {}

// IncRejected is a no-op.
func (n *NoopRecorder) IncRejected(resource string) {}

// IncFailed is a no-op.
func (n *NoopRecorder) IncFailed(resource string) {}
