package ipc

import "unsafe"

// Wire-format constants. Every attached process maps the same bytes, so
// these are a cross-process ABI, never configuration.
const (
	// Capacity is the number of candidate slots in the ring.
	Capacity = 200
	// MaxPairs is the largest conflict set a slot can carry.
	MaxPairs = 8

	headerSize = 12
	slotSize   = 4 + MaxPairs*8
	regionSize = headerSize + Capacity*slotSize
)

// Pair is one conflict edge as a pair of vertex keys.
type Pair [2]int32

// Candidate is a proposed obstruction set. An empty candidate reports a
// valid 3-coloring.
type Candidate []Pair

type slot struct {
	length uint32
	pairs  [MaxPairs]Pair
}

type header struct {
	terminate uint32
	rd        uint32
	wr        uint32
	slots     [Capacity]slot
}

// Compile-time guard: the Go struct layout must match the wire format.
var _ = [1]struct{}{}[unsafe.Sizeof(header{})-regionSize]
