// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Resource names passed to Recorder methods.
const (
	ResourceUser = "user"
	ResourceList = "list"
	ResourceTask = "task"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	IncCreated(resource string)
	IncUpdated(resource string)
	IncDeleted(resource string)
	// IncRejected counts requests refused with a client error before any write.
	IncRejected(resource string)
	// IncFailed counts requests that ended in an internal error.
	IncFailed(resource string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
