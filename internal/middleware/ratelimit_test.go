package middleware

import (
	"testing"
	"time"
)

func TestLimiterStore_AllowAndCleanup(t *testing.T) {
	// allow 5 events immediately then the 6th should be rejected
	s := NewLimiterStore(5, 5, time.Hour)
	defer s.Stop()

	key := "10.0.0.1"
	for i := 0; i < 5; i++ {
		if !s.Allow(key) {
			t.Fatalf("expected allow at iteration %d", i)
		}
	}

	if s.Allow(key) {
		t.Fatalf("expected limiter to block after burst consumed")
	}

	s.evictIdle(time.Now().Add(time.Second))
	s.mu.Lock()
	_, ok := s.clients[key]
	s.mu.Unlock()
	if ok {
		t.Fatal("expected idle entry to be evicted")
	}

	if !s.Allow(key) {
		t.Error("expected a fresh limiter after eviction")
	}
}

func TestLimiterStore_StopTwice(t *testing.T) {
	s := NewLimiterStore(60, 1, time.Hour)
	s.Stop()
	s.Stop()
}

func TestRetryAfter(t *testing.T) {
	s := NewLimiterStore(1, 1, time.Hour)
	defer s.Stop()
	if got := s.retryAfter(); got != 60 {
		t.Errorf("expected 60 seconds at one event per minute, got %d", got)
	}
}
