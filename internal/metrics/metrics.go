package metrics

import "time"

// Recorder defines the metric hooks the generator reports to.
type Recorder interface {
	ObserveGeneration(provider string, status string, duration time.Duration)
	ObserveParseStage(provider string, stage string)
	ObserveFallback(primary string, reason string)
	ObserveCircuitOpen(provider string)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveGeneration(string, string, time.Duration) {}
func (NoopRecorder) ObserveParseStage(string, string)                {}
func (NoopRecorder) ObserveFallback(string, string)                  {}
func (NoopRecorder) ObserveCircuitOpen(string)                       {}
