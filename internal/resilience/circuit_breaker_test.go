package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)
	fail := func() error { return errors.New("fail") }

	for i := 0; i < 3; i++ {
		if err := cb.Call(fail); err == nil {
			t.Fatal("expected failure")
		}
	}

	if cb.GetState() != StateOpen {
		t.Errorf("state = %v, want open", cb.GetState())
	}

	// Subsequent calls fail fast without invoking fn.
	called := false
	err := cb.Call(func() error { called = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
	if called {
		t.Error("fn should not run while circuit is open")
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	cb.Call(func() error { return errors.New("fail") })
	cb.Call(func() error { return errors.New("fail") })
	cb.Call(func() error { return nil })
	cb.Call(func() error { return errors.New("fail") })
	cb.Call(func() error { return errors.New("fail") })

	if cb.GetState() != StateClosed {
		t.Errorf("state = %v, want closed after interleaved success", cb.GetState())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)

	cb.Call(func() error { return errors.New("fail") })
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %v, want open", cb.GetState())
	}

	time.Sleep(15 * time.Millisecond)

	// Three successes in half-open close the circuit.
	for i := 0; i < 3; i++ {
		if err := cb.Call(func() error { return nil }); err != nil {
			t.Fatalf("half-open call %d: %v", i, err)
		}
	}

	if cb.GetState() != StateClosed {
		t.Errorf("state = %v, want closed after recovery", cb.GetState())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)

	cb.Call(func() error { return errors.New("fail") })
	time.Sleep(15 * time.Millisecond)

	cb.Call(func() error { return errors.New("still failing") })

	if cb.GetState() != StateOpen {
		t.Errorf("state = %v, want open after half-open failure", cb.GetState())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, time.Minute)
	cb.Call(func() error { return errors.New("fail") })
	cb.Reset()

	if cb.GetState() != StateClosed {
		t.Errorf("state = %v, want closed after Reset", cb.GetState())
	}
	if err := cb.Call(func() error { return nil }); err != nil {
		t.Errorf("call after Reset: %v", err)
	}
}

func TestCircuitBreaker_Stats(t *testing.T) {
	cb := NewCircuitBreaker("test", 5, time.Minute)
	cb.Call(func() error { return nil })
	cb.Call(func() error { return errors.New("fail") })

	_, requests, failures, rate := cb.GetStats()
	if requests != 2 || failures != 1 {
		t.Errorf("requests=%d failures=%d, want 2/1", requests, failures)
	}
	if rate != 50.0 {
		t.Errorf("failure rate = %v, want 50", rate)
	}
}
