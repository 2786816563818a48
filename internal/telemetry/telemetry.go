// Package telemetry tracks the three atomic counters and the sliding-window
// hashrate samplers that feed the read-only HTTP endpoint and the periodic
// stderr log line.
package telemetry

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
)

// windowCapacity is the number of per-second hash deltas retained.
const windowCapacity = 10

// Version is the miner version string reported by the telemetry endpoint.
const Version = "shaiminer/0.1.0"

// Counters exposes the shared atomics updated by the worker pool and pool
// client; Stats derives a point-in-time snapshot from them.
type Counters struct {
	HashCount      *uint64
	AcceptedShares *uint64
	RejectedShares *uint64

	startedAt time.Time

	mu       sync.Mutex
	window   []uint64
	lastSeen uint64
}

// New builds a Counters view over the given shared counters. hashCount,
// accepted, and rejected are typically fields owned by the worker pool and
// pool client, updated with atomic operations elsewhere.
func New(hashCount, accepted, rejected *uint64) *Counters {
	return &Counters{
		HashCount:      hashCount,
		AcceptedShares: accepted,
		RejectedShares: rejected,
		startedAt:      time.Now(),
	}
}

// RunSampler runs the once-per-second window sampler until stop is closed:
// read current hash_count, compute the delta vs the prior sample, append to
// the window, and evict the oldest entry beyond capacity.
func (c *Counters) RunSampler(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.sample()
		}
	}
}

func (c *Counters) sample() {
	current := atomic.LoadUint64(c.HashCount)

	c.mu.Lock()
	delta := current - c.lastSeen
	c.lastSeen = current
	c.window = append(c.window, delta)
	if len(c.window) > windowCapacity {
		c.window = c.window[len(c.window)-windowCapacity:]
	}
	c.mu.Unlock()
}

// AverageHashrate returns the mean of the retained per-second deltas.
func (c *Counters) AverageHashrate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.window) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range c.window {
		sum += v
	}
	return float64(sum) / float64(len(c.window))
}

// RunLogger logs a 5-second averaged hashrate to stderr until stop closes.
func (c *Counters) RunLogger(stop <-chan struct{}) {
	const interval = 5 * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := atomic.LoadUint64(c.HashCount)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			current := atomic.LoadUint64(c.HashCount)
			rate := float64(current-last) / interval.Seconds()
			last = current
			label := color.New(color.FgCyan).Sprint("Hash rate")
			fmt.Fprintf(os.Stderr, "%s: %.2f hashes/second, accepted: %d, rejected: %d\n",
				label,
				rate,
				atomic.LoadUint64(c.AcceptedShares),
				atomic.LoadUint64(c.RejectedShares))
		}
	}
}

// Stats is the JSON shape returned by the HTTP telemetry endpoint.
type Stats struct {
	Hashrate float64 `json:"hashrate"`
	Accepted uint64  `json:"accepted"`
	Rejected uint64  `json:"rejected"`
	Version  string  `json:"version"`
	Uptime   int64   `json:"uptime"`
}

// Snapshot builds the current Stats value.
func (c *Counters) Snapshot() Stats {
	return Stats{
		Hashrate: c.AverageHashrate(),
		Accepted: atomic.LoadUint64(c.AcceptedShares),
		Rejected: atomic.LoadUint64(c.RejectedShares),
		Version:  Version,
		Uptime:   int64(time.Since(c.startedAt).Seconds()),
	}
}
