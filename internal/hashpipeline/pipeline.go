// Package hashpipeline implements the two-stage SHA-256 digest that gates
// every mining attempt: stage 1 derives the graph seed from the job data and
// a candidate nonce, stage 2 finalises the hash once a Hamiltonian cycle has
// been found. Every byte and every endianness choice here is consensus-
// critical and must match bit-exactly across implementations.
package hashpipeline

import (
	"encoding/hex"
	"fmt"
	"sync"

	sha256simd "github.com/minio/sha256-simd"

	"github.com/holiman/uint256"
	"github.com/shaicoin/shaiminer/internal/graph"
	"github.com/shaicoin/shaiminer/internal/solver"
)

// preimagePool reduces per-attempt allocation: the worker loop calls Attempt
// once per nonce, and every preimage is built, hashed, and discarded. Each
// buffer holds the GRAPH_SIZE*4-char cycle section plus 512 chars of data and
// nonce, so such preimages are built without growing the pooled buffer.
var preimagePool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 512+graph.Size*4)
	},
}

// sentinelCycleHex is the fixed big-endian rendering of GRAPH_SIZE sentinel
// elements, precomputed once since it never changes between attempts.
var sentinelCycleHex = buildSentinelCycleHex()

func buildSentinelCycleHex() string {
	buf := make([]byte, 0, graph.Size*4)
	for i := 0; i < graph.Size; i++ {
		buf = appendHex16BE(buf, solver.Unvisited)
	}
	return string(buf)
}

func appendHex16BE(buf []byte, v uint16) []byte {
	const hexDigits = "0123456789abcdef"
	return append(buf,
		hexDigits[(v>>12)&0xF],
		hexDigits[(v>>8)&0xF],
		hexDigits[(v>>4)&0xF],
		hexDigits[v&0xF],
	)
}

func appendHex16LE(buf []byte, v uint16) []byte {
	const hexDigits = "0123456789abcdef"
	lo := byte(v)
	hi := byte(v >> 8)
	return append(buf,
		hexDigits[lo>>4], hexDigits[lo&0xF],
		hexDigits[hi>>4], hexDigits[hi&0xF],
	)
}

// reverse returns a new slice with b's bytes in reverse order.
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// Result is the outcome of one full pipeline attempt.
type Result struct {
	Hit   bool   // true if H2 < target
	Nonce string // the 8-hex-char nonce that was tried
	Path  string // stage-2 serialised path hex, valid only if Hit
	Hash  string // H2, hex-encoded, valid only if Hit
}

// Attempt runs both stages of the pipeline for one (data, nonce) pair against
// the given Hamiltonian solver and target. It returns ok == true for every
// attempt that counts toward hash_count: when the solver finds no cycle
// within its bailout (Result.Hit is false, Path and Hash are empty), and when
// a cycle is found, whether or not H2 beats target (Result.Hit says which).
// It returns ok == false only when data or nonce is not valid hex.
func Attempt(data, nonce string, s *solver.Solver, target *uint256.Int) (Result, bool) {
	seed, err := stage1(data, nonce)
	if err != nil {
		return Result{}, false
	}

	n := graph.GridSize(seed)
	g := graph.Generate(seed, n)

	path := s.FindCycle(g)
	if path == nil {
		return Result{Nonce: nonce}, true
	}

	pathHex := serializePathLE(path)
	h2, err := stage2(data, nonce, pathHex)
	if err != nil {
		return Result{}, false
	}

	meets := h2.Lt(target)
	return Result{
		Hit:   meets,
		Nonce: nonce,
		Path:  pathHex,
		Hash:  h2.Hex(),
	}, true
}

// stage1 forms preimage1 = data || nonce || sentinel_cycle, hashes it, and
// returns the byte-reversed digest interpreted as a big-endian 256-bit seed.
func stage1(data, nonce string) (*uint256.Int, error) {
	buf := preimagePool.Get().([]byte)[:0]
	defer preimagePool.Put(buf)

	buf = append(buf, data...)
	buf = append(buf, nonce...)
	buf = append(buf, sentinelCycleHex...)

	raw := make([]byte, hex.DecodedLen(len(buf)))
	if _, err := hex.Decode(raw, buf); err != nil {
		return nil, fmt.Errorf("hashpipeline: stage1 hex decode: %w", err)
	}

	digest := sha256simd.Sum256(raw)
	rev := reverse(digest[:])

	seed := new(uint256.Int)
	seed.SetBytes(rev)
	return seed, nil
}

// serializePathLE pads path to graph.Size with the sentinel and serialises
// it as little-endian 16-bit hex elements, per the stage-2 wire rule.
func serializePathLE(path []uint16) string {
	buf := make([]byte, 0, graph.Size*4)
	for _, v := range path {
		buf = appendHex16LE(buf, v)
	}
	for i := len(path); i < graph.Size; i++ {
		buf = appendHex16LE(buf, solver.Unvisited)
	}
	return string(buf)
}

// stage2 forms preimage2 = data || nonce || serialised_path, hashes it, and
// returns the byte-reversed digest as a big-endian 256-bit integer, H2.
func stage2(data, nonce, pathHex string) (*uint256.Int, error) {
	buf := preimagePool.Get().([]byte)[:0]
	defer preimagePool.Put(buf)

	buf = append(buf, data...)
	buf = append(buf, nonce...)
	buf = append(buf, pathHex...)

	raw := make([]byte, hex.DecodedLen(len(buf)))
	if _, err := hex.Decode(raw, buf); err != nil {
		return nil, fmt.Errorf("hashpipeline: stage2 hex decode: %w", err)
	}

	digest := sha256simd.Sum256(raw)
	rev := reverse(digest[:])

	h2 := new(uint256.Int)
	h2.SetBytes(rev)
	return h2, nil
}
