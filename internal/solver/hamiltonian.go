// Package solver finds Hamiltonian cycles in the graphs produced by
// internal/graph, under a wall-clock bailout. This is the per-nonce puzzle
// gate: a nonce only counts as a valid attempt once the solver has run to
// completion or to bailout.
package solver

import (
	"time"

	"github.com/shaicoin/shaiminer/internal/graph"
)

// Unvisited is the sentinel used for unfilled path slots, matching the
// wire-level padding value used by the hash pipeline.
const Unvisited = 0xFFFF

// DefaultBailout is the default wall-clock budget for one solve attempt.
const DefaultBailout = 1000 * time.Millisecond

// Solver owns the scratch path/visited buffers for one worker and is reused
// across attempts to avoid per-nonce allocation.
type Solver struct {
	bailout time.Duration

	path    []uint16
	visited []bool
}

// New creates a solver with the given bailout. A zero bailout means
// DefaultBailout.
func New(bailout time.Duration) *Solver {
	if bailout <= 0 {
		bailout = DefaultBailout
	}
	return &Solver{bailout: bailout}
}

// FindCycle searches g for a Hamiltonian cycle starting and ending at vertex
// 0. On success it returns a path of length g.N with path[0] == 0; all
// vertices distinct; every consecutive edge, and the closing edge, present
// in g. On failure (graph exhausted or bailout), it returns nil.
//
// Candidates are tried in ascending numeric order, required for
// reproducible efficacy measurements across implementations, not for
// correctness.
func (s *Solver) FindCycle(g *graph.Graph) []uint16 {
	n := g.N
	if cap(s.path) < n {
		s.path = make([]uint16, n)
		s.visited = make([]bool, n)
	}
	path := s.path[:n]
	visited := s.visited[:n]
	for i := range path {
		path[i] = Unvisited
		visited[i] = false
	}
	path[0] = 0
	visited[0] = true

	deadline := time.Now().Add(s.bailout)
	if !hamiltonianCycle(g, path, visited, 1, deadline) {
		return nil
	}

	out := make([]uint16, n)
	copy(out, path)
	return out
}

func hamiltonianCycle(g *graph.Graph, path []uint16, visited []bool, pos int, deadline time.Time) bool {
	if time.Now().After(deadline) {
		return false
	}

	n := g.N
	if pos == n {
		return g.Has(int(path[n-1]), int(path[0]))
	}

	prev := int(path[pos-1])
	for v := 1; v < n; v++ {
		if visited[v] || !g.Has(prev, v) {
			continue
		}
		path[pos] = uint16(v)
		visited[v] = true

		if hamiltonianCycle(g, path, visited, pos+1, deadline) {
			return true
		}

		path[pos] = Unvisited
		visited[v] = false
	}
	return false
}
