package retry

import (
	"testing"
	"time"
)

func TestCircuitBreakerOpensAndResets(t *testing.T) {
	cb := NewCircuitBreaker(Policy{FailureThreshold: 2, ResetTimeout: 50 * time.Millisecond})
	now := time.Now()

	if !cb.Allow("cloudflare", now) {
		t.Fatal("breaker should allow initial call")
	}
	if cb.RecordFailure("cloudflare", now) {
		t.Fatal("breaker should not open below threshold")
	}
	if !cb.RecordFailure("cloudflare", now) {
		t.Fatal("breaker should open at threshold")
	}
	if cb.Allow("cloudflare", now.Add(10*time.Millisecond)) {
		t.Fatal("breaker should be open after threshold reached")
	}
	if !cb.Allow("gemini", now.Add(10*time.Millisecond)) {
		t.Fatal("state is per provider")
	}
	if !cb.Allow("cloudflare", now.Add(60*time.Millisecond)) {
		t.Fatal("breaker should half-open after timeout")
	}
}

func TestCircuitBreakerHalfOpenAllowsOneTrial(t *testing.T) {
	cb := NewCircuitBreaker(Policy{FailureThreshold: 1, ResetTimeout: time.Minute})
	now := time.Now()
	cb.RecordFailure("cloudflare", now)

	later := now.Add(2 * time.Minute)
	if !cb.Allow("cloudflare", later) {
		t.Fatal("first caller after reset should get the trial")
	}
	if cb.Allow("cloudflare", later) {
		t.Fatal("concurrent callers must wait for the trial outcome")
	}

	if !cb.RecordFailure("cloudflare", later) {
		t.Fatal("a failed trial should reopen the breaker")
	}
	if cb.Allow("cloudflare", later.Add(time.Second)) {
		t.Fatal("breaker should be open again after a failed trial")
	}

	again := later.Add(2 * time.Minute)
	if !cb.Allow("cloudflare", again) {
		t.Fatal("next reset should grant a new trial")
	}
	cb.RecordSuccess("cloudflare")
	for i := 0; i < 3; i++ {
		if !cb.Allow("cloudflare", again) {
			t.Fatal("a successful trial should close the breaker")
		}
	}
}

func TestCircuitBreakerSuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(Policy{FailureThreshold: 2})
	now := time.Now()
	cb.RecordFailure("p", now)
	cb.RecordSuccess("p")
	if cb.RecordFailure("p", now) {
		t.Fatal("success should reset consecutive failures")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cb := NewCircuitBreaker(Policy{})
	now := time.Now()
	for i := 0; i < 10; i++ {
		cb.RecordFailure("p", now)
	}
	if !cb.Allow("p", now) {
		t.Fatal("zero threshold disables the breaker")
	}

	var nilBreaker *CircuitBreaker
	if !nilBreaker.Allow("p", now) || nilBreaker.RecordFailure("p", now) {
		t.Fatal("nil breaker should be a no-op")
	}
}
