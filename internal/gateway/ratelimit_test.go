package gateway

import (
	"testing"
	"time"
)

func TestSlidingWindowCapsAtLimit(t *testing.T) {
	w := newSlidingWindow(3, time.Minute)

	for i := range 3 {
		if !w.Allow() {
			t.Fatalf("query %d should be allowed", i+1)
		}
	}
	if w.Allow() {
		t.Fatal("fourth query within the window should be rejected")
	}
}

func TestSlidingWindowExpiresOldEntries(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w := newSlidingWindow(2, time.Minute)
	w.now = func() time.Time { return clock }

	if !w.Allow() || !w.Allow() {
		t.Fatal("first two queries should be allowed")
	}
	if w.Allow() {
		t.Fatal("window full, expected rejection")
	}

	// Advance past the window; the old stamps must fall out.
	clock = clock.Add(61 * time.Second)
	if !w.Allow() {
		t.Fatal("query after the window slid should be allowed")
	}
}

func TestSlidingWindowConcurrent(t *testing.T) {
	w := newSlidingWindow(50, time.Minute)

	done := make(chan int)
	for range 10 {
		go func() {
			allowed := 0
			for range 10 {
				if w.Allow() {
					allowed++
				}
			}
			done <- allowed
		}()
	}

	total := 0
	for range 10 {
		total += <-done
	}
	if total != 50 {
		t.Fatalf("allowed %d queries, want exactly 50", total)
	}
}
