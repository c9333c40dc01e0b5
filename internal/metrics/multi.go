package metrics

import "time"

// MultiRecorder fans out metrics to multiple recorders.
type MultiRecorder struct {
	recorders []Recorder
}

func NewMultiRecorder(recorders ...Recorder) *MultiRecorder {
	nonNil := make([]Recorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			nonNil = append(nonNil, r)
		}
	}
	return &MultiRecorder{recorders: nonNil}
}

func (m *MultiRecorder) ObserveGeneration(provider string, status string, duration time.Duration) {
	for _, r := range m.recorders {
		r.ObserveGeneration(provider, status, duration)
	}
}

func (m *MultiRecorder) ObserveParseStage(provider string, stage string) {
	for _, r := range m.recorders {
		r.ObserveParseStage(provider, stage)
	}
}

func (m *MultiRecorder) ObserveFallback(primary string, reason string) {
	for _, r := range m.recorders {
		r.ObserveFallback(primary, reason)
	}
}

func (m *MultiRecorder) ObserveCircuitOpen(provider string) {
	for _, r := range m.recorders {
		r.ObserveCircuitOpen(provider)
	}
}
