package graph

import (
	"encoding/binary"
	"strconv"

	"github.com/holiman/uint256"
)

// Size is the fixed envelope a solved (or unsolved) path is padded to on the
// wire. The actual graph order n is always in [minOrder, maxOrder).
const (
	Size     = 2008
	minOrder = 2000
	maxOrder = 2008
)

// Graph is a dense, symmetric adjacency matrix of order N. Diagonal entries
// are always false. Stored as a flat byte slice (row-major) so the solver's
// inner loop gets cache-dense row access.
type Graph struct {
	N   int
	adj []byte
}

func newGraph(n int) *Graph {
	return &Graph{N: n, adj: make([]byte, n*n)}
}

// Has reports whether edge (i, j) exists. i and j must be in [0, N).
func (g *Graph) Has(i, j int) bool {
	return g.adj[i*g.N+j] != 0
}

func (g *Graph) set(i, j int, v bool) {
	var b byte
	if v {
		b = 1
	}
	g.adj[i*g.N+j] = b
	g.adj[j*g.N+i] = b
}

// seedBytesLE renders the 256-bit seed as a 32-byte little-endian buffer,
// matching the consensus rule's explicit endianness.
func seedBytesLE(seed *uint256.Int) [32]byte {
	be := seed.Bytes32()
	var le [32]byte
	for i := 0; i < 32; i++ {
		le[i] = be[31-i]
	}
	return le
}

// GridSize derives the order n of the graph from the seed hash: n is in
// [2000, 2008), taken from the first 8 hex characters of the seed rendered
// as 64 lowercase hex digits, most-significant nibble first.
func GridSize(seed *uint256.Int) int {
	be := seed.Bytes32()
	segment := make([]byte, 8)
	const hexDigits = "0123456789abcdef"
	for i := 0; i < 4; i++ {
		segment[2*i] = hexDigits[be[i]>>4]
		segment[2*i+1] = hexDigits[be[i]&0xF]
	}
	x, err := strconv.ParseUint(string(segment), 16, 64)
	if err != nil {
		panic("graph: failed to parse grid-size segment: " + err.Error())
	}
	return minOrder + int(x%(maxOrder-minOrder))
}

// prngSeed extracts the 64-bit MT19937-64 seed from the 256-bit graph seed:
// the first 8 bytes of the seed's little-endian 32-byte representation,
// read back as a little-endian u64.
func prngSeed(seed *uint256.Int) uint64 {
	le := seedBytesLE(seed)
	return binary.LittleEndian.Uint64(le[:8])
}

// Generate builds the deterministic adjacency matrix for the given 256-bit
// seed hash and order n. Pure function of (seed, n): identical seed and n
// always produce a bit-identical graph, on any platform.
//
// The bit stream is one least-significant-bit per 64-bit MT19937-64 draw,
// the canonical rule (see DESIGN.md's Open Question resolution). An
// alternate 32-bit-chunk, MSB-first variant exists in the original source
// but is dead code there and is not implemented here.
func Generate(seed *uint256.Int, n int) *Graph {
	g := newGraph(n)
	numEdges := n * (n - 1) / 2

	prng := newMT19937_64(prngSeed(seed))

	// One LSB per 64-bit draw: the rest of each word is discarded. This is
	// the canonical bit-stream rule (see Generate's doc comment above).
	nextBit := func() bool {
		return prng.next64()&1 == 1
	}

	consumed := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.set(i, j, nextBit())
			consumed++
		}
	}
	if consumed != numEdges {
		panic("graph: edge count mismatch")
	}
	return g
}
