// Package graph models the undirected input graph and the randomized
// coloring attempts performed on it.
package graph

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// NumColors is the size of the palette.
const NumColors = 3

var (
	// ErrNoEdges is returned when an edge list is empty.
	ErrNoEdges = errors.New("graph: no edges supplied")
	// ErrBadToken is returned for edge tokens not of the form <key>-<key>.
	ErrBadToken = errors.New("graph: malformed edge token")
)

// Vertex is a node with a mutable color assignment.
type Vertex struct {
	Key   int
	Color int
}

// Edge joins two vertices in the orientation it was first seen.
type Edge struct {
	U, V *Vertex
}

// Conflict reports whether both endpoints carry the same color.
func (e Edge) Conflict() bool {
	return e.U.Color == e.V.Color
}

// String renders the edge in input notation.
func (e Edge) String() string {
	return fmt.Sprintf("%d-%d", e.U.Key, e.V.Key)
}

// Graph is an undirected graph. Vertices and edges are deduplicated at
// construction; edges share vertex records, so recoloring a vertex is
// visible through every edge touching it.
type Graph struct {
	vertices []*Vertex
	edges    []Edge
	index    map[int]*Vertex
	seen     map[[2]int]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[int]*Vertex),
		seen:  make(map[[2]int]struct{}),
	}
}

// Parse builds a graph from <key>-<key> tokens. Keys are integers that
// must fit the wire format's int32. Duplicate vertices and duplicate
// edges, regardless of orientation, coalesce into one record.
func Parse(tokens []string) (*Graph, error) {
	g := New()
	for _, tok := range tokens {
		u, v, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		g.AddEdge(u, v)
	}
	if len(g.edges) == 0 {
		return nil, ErrNoEdges
	}
	return g, nil
}

func parseToken(tok string) (int, int, error) {
	parts := strings.Split(tok, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadToken, tok)
	}
	u, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadToken, tok)
	}
	v, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadToken, tok)
	}
	return int(u), int(v), nil
}

// AddEdge inserts the edge u-v, reusing known vertices and dropping
// order-independent duplicates.
func (g *Graph) AddEdge(u, v int) {
	key := [2]int{u, v}
	if v < u {
		key = [2]int{v, u}
	}
	if _, dup := g.seen[key]; dup {
		return
	}
	g.seen[key] = struct{}{}
	g.edges = append(g.edges, Edge{U: g.vertex(u), V: g.vertex(v)})
}

func (g *Graph) vertex(key int) *Vertex {
	if vx, ok := g.index[key]; ok {
		return vx
	}
	vx := &Vertex{Key: key}
	g.index[key] = vx
	g.vertices = append(g.vertices, vx)
	return vx
}

// VertexCount returns the number of distinct vertices.
func (g *Graph) VertexCount() int {
	return len(g.vertices)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Randomize assigns every vertex an independent uniform color.
func (g *Graph) Randomize(rng *rand.Rand) {
	for _, vx := range g.vertices {
		vx.Color = rng.Intn(NumColors)
	}
}

// Conflicts returns the monochromatic edges in insertion order.
func (g *Graph) Conflicts() []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Conflict() {
			out = append(out, e)
		}
	}
	return out
}
