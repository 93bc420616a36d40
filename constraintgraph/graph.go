// Package constraintgraph models the discrete transition system over
// manipulation modes: states are constraint conjunctions, edges are feasible
// transitions carrying their own steering and constraints.
package constraintgraph

import (
	"math/rand"

	"github.com/edaniels/golog"

	"go.viam.com/manipplan/jointspace"
	"go.viam.com/manipplan/trajectory"
)

// Graph owns its states and edges and answers the queries the planner and the
// path validator need. States and edges carry dense integer identifiers in
// construction order.
type Graph struct {
	name            string
	robot           jointspace.Robot
	logger          golog.Logger
	states          []*State
	edges           []Edge
	selector        *StateSelector
	defaultSteering trajectory.SteeringMethod
}

// New creates an empty graph for the given robot with a deterministic edge
// sampling seed.
func New(name string, robot jointspace.Robot, logger golog.Logger) *Graph {
	//nolint:gosec
	return NewWithSeed(name, robot, rand.New(rand.NewSource(1)), logger)
}

// NewWithSeed creates an empty graph with a caller-owned random source for
// the edge sampling policy.
func NewWithSeed(name string, robot jointspace.Robot, rnd *rand.Rand, logger golog.Logger) *Graph {
	g := &Graph{
		name:            name,
		robot:           robot,
		logger:          logger,
		defaultSteering: trajectory.NewStraightLine(jointspace.WeightedMetric(robot.DistanceWeights())),
	}
	g.selector = &StateSelector{graph: g, rnd: rnd}
	return g
}

// Name returns the graph's name.
func (g *Graph) Name() string { return g.name }

// Robot returns the robot the graph was built for.
func (g *Graph) Robot() jointspace.Robot { return g.robot }

// States returns the states in construction order.
func (g *Graph) States() []*State { return g.states }

// Edges returns the edges in construction order.
func (g *Graph) Edges() []Edge { return g.edges }

// AddState registers a new mode characterized by the given constraints. A nil
// set characterizes a state containing every configuration.
func (g *Graph) AddState(name string, constraints *jointspace.ConstraintSet) *State {
	s := &State{id: len(g.states), name: name, constraints: constraints}
	g.states = append(g.states, s)
	return s
}

// TransitionSpec parametrizes AddTransition. Zero values select free motion
// with the graph's default steering, unit weight and empty leaf constraints.
type TransitionSpec struct {
	Kind     TransitionKind
	Weight   float64
	Leaf     *jointspace.ConstraintSet
	Steering trajectory.SteeringMethod
	Gripper  string
	Handle   string
}

// AddTransition registers a transition from one state to another.
func (g *Graph) AddTransition(name string, from, to *State, spec TransitionSpec) Edge {
	if spec.Weight == 0 {
		spec.Weight = 1
	}
	if spec.Leaf == nil {
		spec.Leaf = jointspace.NewConstraintSet(name + "/leaf")
	}
	if spec.Steering == nil {
		spec.Steering = g.defaultSteering
	}
	config := jointspace.NewConstraintSet(name + "/config")
	for _, c := range spec.Leaf.Constraints() {
		config.Add(c)
	}
	if to.constraints != nil {
		for _, c := range to.constraints.Constraints() {
			config.Add(c)
		}
	}
	t := &Transition{
		id:       len(g.edges),
		name:     name,
		kind:     spec.Kind,
		from:     from,
		to:       to,
		leaf:     spec.Leaf,
		config:   config,
		steering: spec.Steering,
		gripper:  spec.Gripper,
		handle:   spec.Handle,
	}
	g.edges = append(g.edges, t)
	from.neighbors = append(from.neighbors, neighbor{edge: t, weight: spec.Weight})
	return t
}

// StatesContaining returns the ordered set of states containing q, or
// ErrStateNotFound.
func (g *Graph) StatesContaining(q jointspace.Configuration) ([]*State, error) {
	return g.selector.StatesContaining(q)
}

// GetEdges returns the transitions from one state to another, in construction
// order.
func (g *Graph) GetEdges(from, to *State) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.From() == from && e.To() == to {
			out = append(out, e)
		}
	}
	return out
}

// EdgeCandidates returns every transition sequence that could produce a path
// from any state in orig to any state in dest. Sequences currently have
// length one; callers consume them in reverse order, ties broken by graph
// construction order.
func (g *Graph) EdgeCandidates(orig, dest []*State) [][]Edge {
	var out [][]Edge
	for _, e := range g.edges {
		if containsState(orig, e.From()) && containsState(dest, e.To()) {
			out = append(out, []Edge{e})
		}
	}
	return out
}

func containsState(states []*State, s *State) bool {
	for _, c := range states {
		if c == s {
			return true
		}
	}
	return false
}

// ChooseEdge samples an outgoing transition of the state, by the selector's
// policy. Returns nil when there is none.
func (g *Graph) ChooseEdge(s *State) Edge {
	return g.selector.ChooseEdge(s)
}

// PathConstraint aggregates the leaf constraints along an edge sequence.
func (g *Graph) PathConstraint(seq []Edge) *jointspace.ConstraintSet {
	name := g.name + "/path"
	out := jointspace.NewConstraintSet(name)
	for _, e := range seq {
		for _, c := range e.PathConstraint().Constraints() {
			out.Add(c)
		}
	}
	return out
}
