package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_Wait(t *testing.T) {
	l := NewLimiter(1000, 1)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "https://example.com/path"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
}

func TestLimiter_PerHostIsolation(t *testing.T) {
	l := NewLimiter(1000, 1)
	// Exhausting one host's burst must not block another host
	l.SetHostRate("slow.example.com", 0.001, 1)

	ctx := context.Background()
	if err := l.Wait(ctx, "https://slow.example.com/a"); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- l.Wait(ctx, "https://fast.example.com/b")
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait on other host: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Fast host blocked by slow host's limit")
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	ctx := context.Background()
	// Drain the burst token
	if err := l.Wait(ctx, "https://example.com"); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(cancelled, "https://example.com"); err == nil {
		t.Error("Expected error from cancelled context")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(1000, 1)

	start := time.Now()
	if err := l.WaitWithDelay(context.Background(), "https://example.com", 20*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Delay not applied: %v", elapsed)
	}
}
