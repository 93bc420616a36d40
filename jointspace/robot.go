package jointspace

import "github.com/pkg/errors"

// Robot is the kinematic capability the planner consumes. URDF loading and
// concrete forward kinematics live outside this module.
type Robot interface {
	Name() string
	ConfigSize() int
	// DistanceWeights returns one positive weight per joint coordinate for the
	// problem metric.
	DistanceWeights() []float64
	Catalogs() *Catalogs
}

// Handle is a named grasp point on a manipulated object.
type Handle struct {
	Name     string
	Object   string
	Position Configuration
}

// Gripper is a named end effector able to acquire handles.
type Gripper struct {
	Name      string
	Clearance float64
}

// ContactShape is a named support surface usable for placement.
type ContactShape struct {
	Name     string
	Joint    string
	Vertices []Configuration
}

// Catalogs gathers the manipulation-specific inventories of a robot, one map
// per kind, keyed by name.
type Catalogs struct {
	Handles       map[string]*Handle
	Grippers      map[string]*Gripper
	ContactShapes map[string]*ContactShape
	JointGroups   map[string][]string
}

// NewCatalogs returns empty catalogs.
func NewCatalogs() *Catalogs {
	return &Catalogs{
		Handles:       map[string]*Handle{},
		Grippers:      map[string]*Gripper{},
		ContactShapes: map[string]*ContactShape{},
		JointGroups:   map[string][]string{},
	}
}

// Handle looks up a handle by name.
func (c *Catalogs) Handle(name string) (*Handle, error) {
	h, ok := c.Handles[name]
	if !ok {
		return nil, errors.Errorf("no handle named %q", name)
	}
	return h, nil
}

// Gripper looks up a gripper by name.
func (c *Catalogs) Gripper(name string) (*Gripper, error) {
	g, ok := c.Grippers[name]
	if !ok {
		return nil, errors.Errorf("no gripper named %q", name)
	}
	return g, nil
}

// BasicRobot is a minimal Robot implementation for problems whose kinematics
// are handled entirely by the supplied constraints and steering methods.
type BasicRobot struct {
	name     string
	size     int
	weights  []float64
	catalogs *Catalogs
}

// NewBasicRobot creates a robot of the given configuration size with unit
// distance weights.
func NewBasicRobot(name string, configSize int) *BasicRobot {
	weights := make([]float64, configSize)
	for i := range weights {
		weights[i] = 1
	}
	return &BasicRobot{name: name, size: configSize, weights: weights, catalogs: NewCatalogs()}
}

// Name returns the robot name.
func (r *BasicRobot) Name() string { return r.name }

// ConfigSize returns the number of joint coordinates.
func (r *BasicRobot) ConfigSize() int { return r.size }

// DistanceWeights returns the per-joint metric weights.
func (r *BasicRobot) DistanceWeights() []float64 { return r.weights }

// SetDistanceWeights replaces the per-joint metric weights.
func (r *BasicRobot) SetDistanceWeights(weights []float64) error {
	if len(weights) != r.size {
		return errors.Errorf("expected %d weights, got %d", r.size, len(weights))
	}
	r.weights = weights
	return nil
}

// Catalogs returns the robot's manipulation inventories.
func (r *BasicRobot) Catalogs() *Catalogs { return r.catalogs }
