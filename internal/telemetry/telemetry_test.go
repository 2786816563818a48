package telemetry

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSnapshotShape(t *testing.T) {
	var hash, accepted, rejected uint64
	c := New(&hash, &accepted, &rejected)

	atomic.AddUint64(&accepted, 3)
	atomic.AddUint64(&rejected, 1)

	s := c.Snapshot()
	if s.Accepted != 3 || s.Rejected != 1 {
		t.Fatalf("Snapshot() = %+v, want accepted=3 rejected=1", s)
	}
	if s.Version == "" {
		t.Fatalf("Snapshot().Version is empty")
	}
	if s.Uptime < 0 {
		t.Fatalf("Snapshot().Uptime = %d, want >= 0", s.Uptime)
	}
}

func TestSampleComputesDelta(t *testing.T) {
	var hash, accepted, rejected uint64
	c := New(&hash, &accepted, &rejected)

	atomic.AddUint64(&hash, 100)
	c.sample()
	atomic.AddUint64(&hash, 50)
	c.sample()

	if got := c.AverageHashrate(); got != 75 {
		t.Fatalf("AverageHashrate() = %v, want 75 (mean of 100, 50)", got)
	}
}

func TestWindowEvictsBeyondCapacity(t *testing.T) {
	var hash, accepted, rejected uint64
	c := New(&hash, &accepted, &rejected)

	for i := 0; i < windowCapacity+5; i++ {
		atomic.AddUint64(&hash, 1)
		c.sample()
	}

	c.mu.Lock()
	n := len(c.window)
	c.mu.Unlock()
	if n != windowCapacity {
		t.Fatalf("window length = %d, want %d", n, windowCapacity)
	}
}

func TestRunSamplerStopsCleanly(t *testing.T) {
	var hash, accepted, rejected uint64
	c := New(&hash, &accepted, &rejected)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		c.RunSampler(stop)
		close(done)
	}()
	close(stop)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("RunSampler did not stop after stop was closed")
	}
}
