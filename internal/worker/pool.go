// Package worker runs the CPU-bound mining loop: a fixed set of workers, one
// per OS thread, each repeatedly drawing a nonce and running the hash
// pipeline against whatever job is currently advertised.
package worker

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/holiman/uint256"

	"github.com/shaicoin/shaiminer/internal/hashpipeline"
	"github.com/shaicoin/shaiminer/internal/job"
	"github.com/shaicoin/shaiminer/internal/solver"
)

// NumWorkers resolves the requested worker count against the detected CPU
// count: the lesser of the two, or the CPU count if requested is <= 0.
func NumWorkers(requested int) int {
	cpus := runtime.NumCPU()
	if requested <= 0 || requested > cpus {
		return cpus
	}
	return requested
}

// Pool owns a fixed set of worker goroutines sharing one CurrentJob slot.
// Solved nonces are sent to Submissions; HashCount is updated with relaxed
// ordering on every attempt, successful or not.
type Pool struct {
	Current     *job.Current
	Submissions chan job.Submission
	HashCount   uint64

	bailout time.Duration
	n       int

	wg sync.WaitGroup
}

// New builds a worker pool of n workers (see NumWorkers), each running its
// own Hamiltonian solver with the given bailout.
func New(n int, bailout time.Duration, cur *job.Current) *Pool {
	return &Pool{
		Current:     cur,
		Submissions: make(chan job.Submission, 64),
		bailout:     bailout,
		n:           n,
	}
}

// Start launches the worker goroutines. It returns immediately; call Wait to
// block until all workers exit (they only exit when stop is closed).
func (p *Pool) Start(stop <-chan struct{}) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go p.run(i, stop)
	}
}

// Wait blocks until every worker goroutine has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(id int, stop <-chan struct{}) {
	defer p.wg.Done()

	// Each worker keeps its own OS thread for its whole lifetime.
	runtime.LockOSThread()

	s := solver.New(p.bailout)

	for {
		select {
		case <-stop:
			return
		default:
		}

		current := p.Current.Snapshot()
		if current == nil {
			// No job advertised yet; avoid a hot spin.
			time.Sleep(50 * time.Millisecond)
			continue
		}

		target, err := parseTarget(current.Target)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			continue
		}

		p.mineJob(current, target, s, stop)
	}
}

// mineJob runs the inner loop against a single job snapshot: draw a nonce,
// run the pipeline, submit on success, and keep going until the job changes
// or is cleared. The solver's scratch buffers are reused across jobs.
func (p *Pool) mineJob(snapshot *job.Job, target *uint256.Int, s *solver.Solver, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		nonce := randomNonceHex()
		res, ok := hashpipeline.Attempt(snapshot.Data, nonce, s, target)
		if ok {
			atomic.AddUint64(&p.HashCount, 1)
		}

		if ok && res.Hit {
			p.Submissions <- job.Submission{
				JobID: snapshot.ID,
				Nonce: res.Nonce,
				Path:  res.Path,
			}
			p.Current.ClearIfMatches(snapshot.ID)
			return
		}

		latest := p.Current.Snapshot()
		if latest == nil || latest.ID != snapshot.ID {
			return
		}
	}
}

// parseTarget decodes a job's target field, a bare (non "0x"-prefixed)
// big-endian hex string, into a 256-bit unsigned integer.
func parseTarget(hexTarget string) (*uint256.Int, error) {
	raw, err := hex.DecodeString(hexTarget)
	if err != nil {
		return nil, err
	}
	t := new(uint256.Int)
	t.SetBytes(raw)
	return t, nil
}

// randomNonceHex draws a uniform 32-bit nonce and renders it as 8 lowercase
// hex characters.
func randomNonceHex() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failure is effectively unrecoverable on any real
		// platform; fall back to a time-derived value rather than hang.
		binary.BigEndian.PutUint32(b[:], uint32(time.Now().UnixNano()))
	}
	return hex.EncodeToString(b[:])
}
