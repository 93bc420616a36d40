package roadmap

import (
	"go.viam.com/manipplan/constraintgraph"
	"go.viam.com/manipplan/jointspace"
	"go.viam.com/manipplan/trajectory"
)

// Node owns one configuration, belongs to exactly one connected component and
// to the constraint graph state its configuration was assigned at insertion.
type Node struct {
	index int
	q     jointspace.Configuration
	state *constraintgraph.State
	cc    *ConnectedComponent
	out   map[*Node]*Edge
	in    map[*Node]*Edge
}

// Configuration returns the node's configuration.
func (n *Node) Configuration() jointspace.Configuration { return n.q }

// GraphState returns the constraint graph state the node belongs to.
func (n *Node) GraphState() *constraintgraph.State { return n.state }

// ConnectedComponent returns the node's current component.
func (n *Node) ConnectedComponent() *ConnectedComponent { return n.cc }

// IsOutNeighbor reports whether a directed edge n -> other exists.
func (n *Node) IsOutNeighbor(other *Node) bool {
	_, ok := n.out[other]
	return ok
}

// IsInNeighbor reports whether a directed edge other -> n exists.
func (n *Node) IsInNeighbor(other *Node) bool {
	_, ok := n.in[other]
	return ok
}

// OutEdges returns the outgoing edges.
func (n *Node) OutEdges() []*Edge {
	out := make([]*Edge, 0, len(n.out))
	for _, e := range n.out {
		out = append(out, e)
	}
	return out
}

// Edge is a directed roadmap edge carrying its validated path. The reverse
// direction, when present, is a distinct edge carrying the time-reversed
// path.
type Edge struct {
	from, to *Node
	path     trajectory.Path
}

// From returns the source node.
func (e *Edge) From() *Node { return e.from }

// To returns the destination node.
func (e *Edge) To() *Node { return e.to }

// Path returns the validated path from source to destination.
func (e *Edge) Path() trajectory.Path { return e.path }
