// Package planner contains the sampling-based manipulation planner: a PRM
// variant that grows a roadmap along constraint graph transitions, the
// graph-aware path validation, and the per-edge success statistics.
package planner

import (
	"github.com/edaniels/golog"

	"go.viam.com/manipplan/constraintgraph"
	"go.viam.com/manipplan/jointspace"
	"go.viam.com/manipplan/roadmap"
	"go.viam.com/manipplan/trajectory"
)

// Problem is the capability bundle any path planning problem provides.
type Problem interface {
	Robot() jointspace.Robot
	SteeringMethod() trajectory.SteeringMethod
	PathValidation() trajectory.PathValidation
	// PathProjector may return nil when the problem carries none.
	PathProjector() trajectory.PathProjector
}

// ManipulationProblem is the specialization the manipulation planner
// consumes. Constructed externally; read-only to the planner.
type ManipulationProblem interface {
	Problem
	ConfigurationShooter() jointspace.ConfigurationShooter
	ConstraintGraph() *constraintgraph.Graph
}

// Roadmap is the loose roadmap handle accepted by New; the planner requires
// the manipulation specialization (*roadmap.Roadmap) behind it.
type Roadmap interface {
	ConnectedComponents() []*roadmap.ConnectedComponent
}

// BasicProblem aggregates the capabilities of a manipulation problem. The
// zero defaults mirror the problem construction of the original planner: the
// steering method routes through the constraint graph and the path validation
// wraps the collision validator with graph consistency.
type BasicProblem struct {
	robot      jointspace.Robot
	graph      *constraintgraph.Graph
	shooter    jointspace.ConfigurationShooter
	steering   trajectory.SteeringMethod
	projector  trajectory.PathProjector
	validation trajectory.PathValidation
}

// ProblemOption configures a BasicProblem.
type ProblemOption func(*BasicProblem)

// WithSteeringMethod overrides the default graph steering method.
func WithSteeringMethod(sm trajectory.SteeringMethod) ProblemOption {
	return func(p *BasicProblem) { p.steering = sm }
}

// WithPathProjector sets the optional path projector.
func WithPathProjector(pp trajectory.PathProjector) ProblemOption {
	return func(p *BasicProblem) { p.projector = pp }
}

// NewProblem creates a manipulation problem over the given graph. The
// collision validator is wrapped in a GraphPathValidation.
func NewProblem(
	robot jointspace.Robot,
	graph *constraintgraph.Graph,
	shooter jointspace.ConfigurationShooter,
	collisionValidation trajectory.PathValidation,
	logger golog.Logger,
	opts ...ProblemOption,
) *BasicProblem {
	p := &BasicProblem{
		robot:      robot,
		graph:      graph,
		shooter:    shooter,
		steering:   NewGraphSteeringMethod(graph),
		validation: NewGraphPathValidation(collisionValidation, graph, logger),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Robot returns the robot capability.
func (p *BasicProblem) Robot() jointspace.Robot { return p.robot }

// SteeringMethod returns the problem-wide steering method.
func (p *BasicProblem) SteeringMethod() trajectory.SteeringMethod { return p.steering }

// PathValidation returns the graph-aware path validation.
func (p *BasicProblem) PathValidation() trajectory.PathValidation { return p.validation }

// PathProjector returns the optional path projector, possibly nil.
func (p *BasicProblem) PathProjector() trajectory.PathProjector { return p.projector }

// ConfigurationShooter returns the configuration sampler.
func (p *BasicProblem) ConfigurationShooter() jointspace.ConfigurationShooter { return p.shooter }

// ConstraintGraph returns the constraint graph.
func (p *BasicProblem) ConstraintGraph() *constraintgraph.Graph { return p.graph }
