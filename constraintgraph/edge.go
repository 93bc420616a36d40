package constraintgraph

import (
	"github.com/pkg/errors"

	"go.viam.com/manipplan/jointspace"
	"go.viam.com/manipplan/trajectory"
)

// TransitionKind discriminates the manipulation semantics of a transition.
type TransitionKind int

// The supported transition kinds.
const (
	FreeMotion TransitionKind = iota
	GraspAcquisition
	GraspRelease
	Regrasp
)

func (k TransitionKind) String() string {
	switch k {
	case FreeMotion:
		return "free motion"
	case GraspAcquisition:
		return "grasp"
	case GraspRelease:
		return "release"
	case Regrasp:
		return "regrasp"
	}
	return "unknown"
}

// Edge is a feasible mode transition. All kinds share the same capability
// set: constraint application, path construction, and the leaf constraint
// that must hold along the transition's continuous path.
type Edge interface {
	ID() int
	Name() string
	From() *State
	To() *State
	Kind() TransitionKind
	// ApplyConstraints projects q in place onto the transition's constraints,
	// with right-hand sides anchored at qNear. Returns false when the
	// projection does not converge.
	ApplyConstraints(qNear, q jointspace.Configuration) bool
	// Build invokes the transition's steering method.
	Build(from, to jointspace.Configuration) (trajectory.Path, error)
	// PathConstraint returns the leaf constraint set holding along the path.
	PathConstraint() *jointspace.ConstraintSet
}

// Transition is the concrete edge used by all kinds. Grasp-family transitions
// additionally name the gripper and handle involved.
type Transition struct {
	id       int
	name     string
	kind     TransitionKind
	from, to *State
	leaf     *jointspace.ConstraintSet
	config   *jointspace.ConstraintSet
	steering trajectory.SteeringMethod
	gripper  string
	handle   string
}

// ID returns the edge's dense identifier.
func (t *Transition) ID() int { return t.id }

// Name returns the edge's name.
func (t *Transition) Name() string { return t.name }

// From returns the origin state.
func (t *Transition) From() *State { return t.from }

// To returns the destination state.
func (t *Transition) To() *State { return t.to }

// Kind returns the transition kind.
func (t *Transition) Kind() TransitionKind { return t.kind }

// Gripper returns the gripper name for grasp-family transitions.
func (t *Transition) Gripper() string { return t.gripper }

// Handle returns the handle name for grasp-family transitions.
func (t *Transition) Handle() string { return t.handle }

// ApplyConstraints projects q onto the transition's target leaf, offset
// through qNear.
func (t *Transition) ApplyConstraints(qNear, q jointspace.Configuration) bool {
	t.config.OffsetFromConfig(qNear)
	return t.config.Project(q)
}

// Build steers from one configuration to the other and attaches the leaf
// constraint, offset at the path start.
func (t *Transition) Build(from, to jointspace.Configuration) (trajectory.Path, error) {
	p, err := t.steering.Steer(from, to)
	if err != nil {
		return nil, errors.Wrapf(err, "building transition %q", t.name)
	}
	t.leaf.OffsetFromConfig(from)
	p.SetConstraints(t.leaf)
	return p, nil
}

// PathConstraint returns the leaf constraint set.
func (t *Transition) PathConstraint() *jointspace.ConstraintSet { return t.leaf }
