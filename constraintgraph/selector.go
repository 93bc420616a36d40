package constraintgraph

import (
	"math/rand"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/manipplan/jointspace"
)

// StateSelector implements the graph's lookup and edge-sampling policies. It
// is internal to the graph module; the planner consumes it through the graph.
type StateSelector struct {
	graph *Graph
	rnd   *rand.Rand
}

// StatesContaining returns the states containing q, in graph construction
// order. Returns ErrStateNotFound when there is none.
func (sel *StateSelector) StatesContaining(q jointspace.Configuration) ([]*State, error) {
	states := lo.Filter(sel.graph.states, func(s *State, _ int) bool {
		return s.Contains(q)
	})
	if len(states) == 0 {
		return nil, errors.Wrapf(ErrStateNotFound, "graph %q", sel.graph.name)
	}
	return states, nil
}

// ChooseEdge samples an outgoing transition of the given state, weighted by
// the transitions' weights. Returns nil when the state has no outgoing
// transition with positive weight. Over repeated calls every such transition
// is eventually selected.
func (sel *StateSelector) ChooseEdge(s *State) Edge {
	total := 0.0
	for _, n := range s.neighbors {
		if n.weight > 0 {
			total += n.weight
		}
	}
	if total == 0 {
		return nil
	}
	r := sel.rnd.Float64() * total
	for _, n := range s.neighbors {
		if n.weight <= 0 {
			continue
		}
		r -= n.weight
		if r <= 0 {
			return n.edge
		}
	}
	return s.neighbors[len(s.neighbors)-1].edge
}
