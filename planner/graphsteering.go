package planner

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/manipplan/constraintgraph"
	"go.viam.com/manipplan/jointspace"
	"go.viam.com/manipplan/trajectory"
)

// GraphSteeringMethod is the problem's default steering method: it resolves
// the states of both configurations, enumerates the candidate transitions
// between them and delegates to the transition's own steering, trying
// candidates in reverse order.
type GraphSteeringMethod struct {
	graph *constraintgraph.Graph
}

// NewGraphSteeringMethod creates a steering method over the graph.
func NewGraphSteeringMethod(graph *constraintgraph.Graph) *GraphSteeringMethod {
	return &GraphSteeringMethod{graph: graph}
}

// Steer builds a path from one configuration to the other along the first
// transition able to produce one.
func (sm *GraphSteeringMethod) Steer(from, to jointspace.Configuration) (trajectory.Path, error) {
	orig, err := sm.graph.StatesContaining(from)
	if err != nil {
		return nil, err
	}
	dest, err := sm.graph.StatesContaining(to)
	if err != nil {
		return nil, err
	}
	candidates := sm.graph.EdgeCandidates(orig, dest)
	var errs error
	for i := len(candidates) - 1; i >= 0; i-- {
		edge := candidates[i][0]
		p, err := edge.Build(from, to)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		return p, nil
	}
	if errs != nil {
		return nil, errors.Wrap(errs, "no transition could steer between the configurations")
	}
	return nil, errors.New("no transition connects the states of the two configurations")
}

var _ trajectory.SteeringMethod = (*GraphSteeringMethod)(nil)
