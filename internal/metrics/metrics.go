// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User registry metrics
	IncUserCreated()
	IncUserUpdated()
	IncUserDeleted()
	IncUserNotFound()
	IncValidationFailed()

	// Edge metrics
	IncRateLimited()
	IncAuthFailed()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
