package retry

import (
	"sync"
	"time"
)

// Policy configures failure threshold and reset behavior. A zero
// FailureThreshold disables the breaker.
type Policy struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}

// CircuitBreaker maintains per-provider breaker state.
type CircuitBreaker struct {
	mu     sync.Mutex
	policy Policy
	states map[string]circuitState
}

type circuitState struct {
	consecutiveFailures int
	openUntil           time.Time
	// trial is set while the single half-open call is in flight.
	trial bool
}

func NewCircuitBreaker(policy Policy) *CircuitBreaker {
	if policy.ResetTimeout <= 0 {
		policy.ResetTimeout = 60 * time.Second
	}
	return &CircuitBreaker{policy: policy, states: make(map[string]circuitState)}
}

// Allow reports whether provider may be called at now.
func (cb *CircuitBreaker) Allow(provider string, now time.Time) bool {
	if cb == nil {
		return true
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.policy.FailureThreshold <= 0 {
		return true
	}

	s := cb.states[provider]
	if s.openUntil.IsZero() {
		return true
	}
	if now.Before(s.openUntil) {
		return false
	}

	// Half-open: one trial call at a time; its outcome closes or reopens.
	if s.trial {
		return false
	}
	s.trial = true
	cb.states[provider] = s
	return true
}

func (cb *CircuitBreaker) RecordSuccess(provider string) {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.states[provider] = circuitState{}
}

// RecordFailure counts a failure and reports whether the breaker opened.
func (cb *CircuitBreaker) RecordFailure(provider string, now time.Time) bool {
	if cb == nil {
		return false
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.policy.FailureThreshold <= 0 {
		return false
	}

	s := cb.states[provider]
	if s.trial {
		cb.states[provider] = circuitState{openUntil: now.Add(cb.policy.ResetTimeout)}
		return true
	}
	s.consecutiveFailures++
	opened := false
	if s.consecutiveFailures >= cb.policy.FailureThreshold {
		s.openUntil = now.Add(cb.policy.ResetTimeout)
		s.consecutiveFailures = 0
		opened = true
	}
	cb.states[provider] = s
	return opened
}
