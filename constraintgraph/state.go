package constraintgraph

import "go.viam.com/manipplan/jointspace"

// State is a node of the constraint graph: a manipulation mode characterized
// by a conjunction of constraints. A configuration may belong to zero, one or
// several states.
type State struct {
	id          int
	name        string
	constraints *jointspace.ConstraintSet
	neighbors   []neighbor
}

type neighbor struct {
	edge   Edge
	weight float64
}

// ID returns the state's dense identifier.
func (s *State) ID() int { return s.id }

// Name returns the state's name.
func (s *State) Name() string { return s.name }

// Constraints returns the conjunction characterizing the mode.
func (s *State) Constraints() *jointspace.ConstraintSet { return s.constraints }

// Contains reports whether q satisfies the state's constraints.
func (s *State) Contains(q jointspace.Configuration) bool {
	return s.constraints.IsSatisfied(q)
}

// Neighbors returns the outgoing transitions in insertion order.
func (s *State) Neighbors() []Edge {
	out := make([]Edge, 0, len(s.neighbors))
	for _, n := range s.neighbors {
		out = append(out, n.edge)
	}
	return out
}
