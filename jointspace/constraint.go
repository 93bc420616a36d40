package jointspace

// Constraint is one numerical constraint over configurations. Project writes
// in place and reports whether the projection converged. OffsetFromConfig
// re-anchors the constraint's right-hand side on the leaf through the given
// configuration.
type Constraint interface {
	Name() string
	IsSatisfied(q Configuration) bool
	Project(q Configuration) bool
	OffsetFromConfig(q Configuration)
}

// ConstraintSet is an ordered conjunction of constraints.
type ConstraintSet struct {
	name        string
	constraints []Constraint
}

// NewConstraintSet creates a named, possibly empty, conjunction.
func NewConstraintSet(name string, constraints ...Constraint) *ConstraintSet {
	return &ConstraintSet{name: name, constraints: constraints}
}

// Name returns the set's name.
func (cs *ConstraintSet) Name() string { return cs.name }

// Add appends a constraint.
func (cs *ConstraintSet) Add(c Constraint) { cs.constraints = append(cs.constraints, c) }

// Constraints returns the underlying constraints in order.
func (cs *ConstraintSet) Constraints() []Constraint { return cs.constraints }

// IsSatisfied reports whether every constraint holds at q. An empty set is
// always satisfied.
func (cs *ConstraintSet) IsSatisfied(q Configuration) bool {
	if cs == nil {
		return true
	}
	for _, c := range cs.constraints {
		if !c.IsSatisfied(q) {
			return false
		}
	}
	return true
}

// Project projects q onto the set's leaf in place, constraint by constraint.
// Returns false as soon as one projection fails to converge.
func (cs *ConstraintSet) Project(q Configuration) bool {
	if cs == nil {
		return true
	}
	for _, c := range cs.constraints {
		if !c.Project(q) {
			return false
		}
	}
	return cs.IsSatisfied(q)
}

// OffsetFromConfig re-anchors every constraint's right-hand side at q.
func (cs *ConstraintSet) OffsetFromConfig(q Configuration) {
	if cs == nil {
		return
	}
	for _, c := range cs.constraints {
		c.OffsetFromConfig(q)
	}
}

// NumericalConstraint adapts plain functions into a Constraint. Zero-valued
// callbacks behave as no-ops (always satisfied, identity projection).
type NumericalConstraint struct {
	ConstraintName string
	Satisfied      func(q Configuration) bool
	Projector      func(q Configuration) bool
	Offset         func(q Configuration)
}

// Name returns the constraint's name.
func (n *NumericalConstraint) Name() string { return n.ConstraintName }

// IsSatisfied evaluates the satisfaction callback.
func (n *NumericalConstraint) IsSatisfied(q Configuration) bool {
	if n.Satisfied == nil {
		return true
	}
	return n.Satisfied(q)
}

// Project evaluates the projection callback in place.
func (n *NumericalConstraint) Project(q Configuration) bool {
	if n.Projector == nil {
		return true
	}
	return n.Projector(q)
}

// OffsetFromConfig evaluates the offset callback.
func (n *NumericalConstraint) OffsetFromConfig(q Configuration) {
	if n.Offset != nil {
		n.Offset(q)
	}
}
