// Package job holds the single-slot "current job" register shared between
// the pool client and the worker pool. The pool client publishes and clears
// jobs; workers snapshot the slot between attempts and react to it changing
// out from under them, and a worker that solved a job clears it with
// ClearIfMatches.
package job

import "sync"

// Job is an immutable record describing one unit of mining work. Once
// constructed a Job is never mutated; replacing the current job means
// storing a new Job, not editing fields in place.
type Job struct {
	ID     string
	Data   string
	Target string
}

// Submission is a solved nonce ready to hand to the pool client. Workers
// produce these; the pool client's outbound queue consumes them.
type Submission struct {
	JobID string
	Nonce string
	Path  string
}

// Current is the shared single-cell register. The zero value holds no job.
type Current struct {
	mu  sync.RWMutex
	job *Job
}

// Set publishes a new job, replacing whatever was previously advertised.
func (c *Current) Set(j *Job) {
	c.mu.Lock()
	c.job = j
	c.mu.Unlock()
}

// Clear empties the slot, signalling workers to stop mining the stale job.
func (c *Current) Clear() {
	c.mu.Lock()
	c.job = nil
	c.mu.Unlock()
}

// ClearIfMatches empties the slot only if it still holds the job with the
// given ID. A worker that just submitted a solution uses this instead of
// Clear so that a new job the pool already published is never discarded
// out from under it. This is the compare-and-swap half of the race between
// solution submission and the next job arriving.
func (c *Current) ClearIfMatches(id string) {
	c.mu.Lock()
	if c.job != nil && c.job.ID == id {
		c.job = nil
	}
	c.mu.Unlock()
}

// Snapshot returns the current job, or nil if the slot is empty. The
// returned pointer is safe to hold onto: Job is never mutated after
// construction, only replaced.
func (c *Current) Snapshot() *Job {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.job
}
