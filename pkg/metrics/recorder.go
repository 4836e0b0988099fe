// Package metrics provides metrics recording for pipeline operations.
package metrics

import (
	"time"
)

// Recorder defines the interface for recording pipeline metrics.
type Recorder interface {
	// ObserveModelCall records a completed model invocation for a role.
	ObserveModelCall(role, model string, success bool, errorType string, duration time.Duration)

	// IncParseStrategy increments the hit counter for a code-block parse strategy.
	IncParseStrategy(strategy string)

	// IncReviewRejection increments the rejection counter for a review stage.
	IncReviewRejection(stage string)

	// ObserveRun records a completed pipeline run and its terminal outcome.
	ObserveRun(outcome string, iterations int, duration time.Duration)
}

// NoopRecorder implements Recorder with no-op behavior for when metrics are disabled.
type NoopRecorder struct{}

// Nop returns a no-op metrics recorder that discards all metrics.
func Nop() Recorder {
	return &NoopRecorder{}
}

// ObserveModelCall does nothing in the no-op recorder.
func (n *NoopRecorder) ObserveModelCall(_, _ string, _ bool, _ string, _ time.Duration) {
	// No-op
}

// IncParseStrategy does nothing in the no-op recorder.
func (n *NoopRecorder) IncParseStrategy(_ string) {
	// No-op
}

// IncReviewRejection does nothing in the no-op recorder.
func (n *NoopRecorder) IncReviewRejection(_ string) {
	// No-op
}

// ObserveRun does nothing in the no-op recorder.
func (n *NoopRecorder) ObserveRun(_ string, _ int, _ time.Duration) {
	// No-op
}
