package planner

import (
	"context"
	"testing"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/manipplan/constraintgraph"
	"go.viam.com/manipplan/jointspace"
	"go.viam.com/manipplan/roadmap"
	"go.viam.com/manipplan/trajectory"
)

// modeSet characterizes the mode where the first joint lies in [lo, hi];
// projection clamps into the range.
func modeSet(name string, lo, hi float64) *jointspace.ConstraintSet {
	return jointspace.NewConstraintSet(name, &jointspace.NumericalConstraint{
		ConstraintName: name,
		Satisfied:      func(q jointspace.Configuration) bool { return q[0] >= lo && q[0] <= hi },
		Projector: func(q jointspace.Configuration) bool {
			if q[0] < lo {
				q[0] = lo
			}
			if q[0] > hi {
				q[0] = hi
			}
			return true
		},
	})
}

// okValidator treats every path as collision-free.
type okValidator struct{}

func (okValidator) Validate(p trajectory.Path, reverse bool) (trajectory.Path, bool, error) {
	return p, true, nil
}

// ceilingValidator invalidates configurations whose first joint exceeds a
// limit. Paths are assumed monotone in that joint, which straight test paths
// are; the crossing time is solved exactly.
type ceilingValidator struct {
	limit float64
}

func (v ceilingValidator) Validate(p trajectory.Path, reverse bool) (trajectory.Path, bool, error) {
	tr := p.TimeRange()
	qa, _ := p.Eval(tr.L)
	qb, _ := p.Eval(tr.U)
	a, b := qa[0], qb[0]
	if a <= v.limit && b <= v.limit {
		return p, true, nil
	}
	if !reverse {
		if a > v.limit {
			zero, err := p.Extract(trajectory.Interval{L: tr.L, U: tr.L})
			return zero, false, err
		}
		tCross := tr.L + (v.limit-a)/(b-a)*(tr.U-tr.L)
		prefix, err := p.Extract(trajectory.Interval{L: tr.L, U: tCross})
		return prefix, false, err
	}
	if b > v.limit {
		zero, err := p.Extract(trajectory.Interval{L: tr.U, U: tr.U})
		return zero, false, err
	}
	tCross := tr.L + (v.limit-a)/(b-a)*(tr.U-tr.L)
	suffix, err := p.Extract(trajectory.Interval{L: tCross, U: tr.U})
	return suffix, false, err
}

// scriptedShooter replays a fixed sequence, repeating the last sample.
type scriptedShooter struct {
	queue []jointspace.Configuration
	at    int
}

func (s *scriptedShooter) Shoot() jointspace.Configuration {
	q := s.queue[s.at]
	if s.at < len(s.queue)-1 {
		s.at++
	}
	return q.Copy()
}

// failSteering never produces a path.
type failSteering struct{}

func (failSteering) Steer(from, to jointspace.Configuration) (trajectory.Path, error) {
	return nil, errors.New("no path")
}

// freeProblem builds a single-mode problem with one self transition and
// returns the problem, the roadmap, the transition and the shooter.
func freeProblem(t *testing.T, spec constraintgraph.TransitionSpec) (*BasicProblem, *roadmap.Roadmap, constraintgraph.Edge, *scriptedShooter) {
	t.Helper()
	logger := golog.NewTestLogger(t)
	robot := jointspace.NewBasicRobot("arm", 1)
	g := constraintgraph.New("free", robot, logger)
	free := g.AddState("free", nil)
	move := g.AddTransition("move", free, free, spec)
	shooter := &scriptedShooter{queue: []jointspace.Configuration{{0}}}
	problem := NewProblem(robot, g, shooter, okValidator{}, logger)
	return problem, roadmap.New(g, nil), move, shooter
}

func TestOneStepMergesComponents(t *testing.T) {
	problem, rm, move, shooter := freeProblem(t, constraintgraph.TransitionSpec{})
	shooter.queue = []jointspace.Configuration{{1.5}}
	_, err := rm.AddNode(jointspace.Configuration{0})
	test.That(t, err, test.ShouldBeNil)
	_, err = rm.AddNode(jointspace.Configuration{3})
	test.That(t, err, test.ShouldBeNil)

	m, err := New(problem, rm, golog.NewTestLogger(t), DefaultOptions())
	test.That(t, err, test.ShouldBeNil)
	m.OneStep()

	// Both components extended toward the sample; the equal endpoint went
	// through the delayed-edge phase as a fresh node, and the fallback
	// connection merged everything.
	test.That(t, len(rm.Nodes()), test.ShouldEqual, 4)
	test.That(t, len(rm.ConnectedComponents()), test.ShouldEqual, 1)
	test.That(t, m.GetEdgeStat(move), test.ShouldResemble, []int{2, 0, 0, 0, 0, 0, 0})
	test.That(t, m.PartlyExtended(move), test.ShouldEqual, 0)
}

func TestGraspStateEventuallyReached(t *testing.T) {
	logger := golog.NewTestLogger(t)
	robot := jointspace.NewBasicRobot("arm", 1)
	g := constraintgraph.New("pick", robot, logger)
	free := g.AddState("free", modeSet("free", 0, 7))
	grasp := g.AddState("grasp", modeSet("grasp", 8, 10))
	g.AddTransition("move", free, free, constraintgraph.TransitionSpec{})
	g.AddTransition("pick", free, grasp, constraintgraph.TransitionSpec{Kind: constraintgraph.GraspAcquisition})

	shooter := &scriptedShooter{queue: []jointspace.Configuration{{5}}}
	problem := NewProblem(robot, g, shooter, okValidator{}, logger)
	rm := roadmap.New(g, nil)
	_, err := rm.AddNode(jointspace.Configuration{2})
	test.That(t, err, test.ShouldBeNil)

	m, err := New(problem, rm, logger, DefaultOptions())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.PlanFor(context.Background(), 30), test.ShouldBeNil)

	reached := false
	for _, n := range rm.Nodes() {
		if n.GraphState() == grasp {
			reached = true
			break
		}
	}
	test.That(t, reached, test.ShouldBeTrue)
}

func TestExtendStepTruncatesValidPath(t *testing.T) {
	problem, rm, move, shooter := freeProblem(t, constraintgraph.TransitionSpec{})
	shooter.queue = []jointspace.Configuration{{2}}
	_, err := rm.AddNode(jointspace.Configuration{0})
	test.That(t, err, test.ShouldBeNil)

	opts := DefaultOptions()
	opts.ExtendStep = 0.5
	m, err := New(problem, rm, golog.NewTestLogger(t), opts)
	test.That(t, err, test.ShouldBeNil)
	m.OneStep()

	test.That(t, len(rm.Nodes()), test.ShouldEqual, 2)
	var added *roadmap.Node
	for _, n := range rm.Nodes() {
		if n.Configuration()[0] != 0 {
			added = n
		}
	}
	test.That(t, added, test.ShouldNotBeNil)
	// The steered path had duration 2; the cautious extension kept half.
	test.That(t, added.Configuration()[0], test.ShouldAlmostEqual, 1)
	test.That(t, m.PartlyExtended(move), test.ShouldEqual, 1)
	test.That(t, m.GetEdgeStat(move), test.ShouldResemble, []int{0, 0, 0, 0, 0, 0, 0})
}

func TestSteeringFailureStatistics(t *testing.T) {
	problem, rm, move, shooter := freeProblem(t, constraintgraph.TransitionSpec{Steering: failSteering{}})
	shooter.queue = []jointspace.Configuration{{2}}
	_, err := rm.AddNode(jointspace.Configuration{0})
	test.That(t, err, test.ShouldBeNil)

	m, err := New(problem, rm, golog.NewTestLogger(t), DefaultOptions())
	test.That(t, err, test.ShouldBeNil)
	for i := 0; i < 3; i++ {
		m.OneStep()
	}

	test.That(t, len(rm.Nodes()), test.ShouldEqual, 1)
	test.That(t, m.GetEdgeStat(move), test.ShouldResemble, []int{0, 0, 3, 0, 0, 0, 0})
}

func TestProjectionFailureStatistics(t *testing.T) {
	never := jointspace.NewConstraintSet("never", &jointspace.NumericalConstraint{
		ConstraintName: "never",
		Satisfied:      func(jointspace.Configuration) bool { return false },
		Projector:      func(jointspace.Configuration) bool { return false },
	})
	problem, rm, move, shooter := freeProblem(t, constraintgraph.TransitionSpec{Leaf: never})
	shooter.queue = []jointspace.Configuration{{2}}
	_, err := rm.AddNode(jointspace.Configuration{0})
	test.That(t, err, test.ShouldBeNil)

	m, err := New(problem, rm, golog.NewTestLogger(t), DefaultOptions())
	test.That(t, err, test.ShouldBeNil)
	for i := 0; i < 3; i++ {
		m.OneStep()
	}

	test.That(t, len(rm.Nodes()), test.ShouldEqual, 1)
	test.That(t, m.GetEdgeStat(move), test.ShouldResemble, []int{0, 3, 0, 0, 0, 0, 0})
}

// nonManipProblem implements only the base problem capabilities.
type nonManipProblem struct{}

func (nonManipProblem) Robot() jointspace.Robot                   { return nil }
func (nonManipProblem) SteeringMethod() trajectory.SteeringMethod { return nil }
func (nonManipProblem) PathValidation() trajectory.PathValidation { return nil }
func (nonManipProblem) PathProjector() trajectory.PathProjector   { return nil }

// nonManipRoadmap satisfies the loose roadmap handle only.
type nonManipRoadmap struct{}

func (nonManipRoadmap) ConnectedComponents() []*roadmap.ConnectedComponent { return nil }

func TestNewTypeChecks(t *testing.T) {
	problem, rm, _, _ := freeProblem(t, constraintgraph.TransitionSpec{})
	logger := golog.NewTestLogger(t)

	_, err := New(nonManipProblem{}, rm, logger, DefaultOptions())
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "Problem")

	_, err = New(problem, nonManipRoadmap{}, logger, DefaultOptions())
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "Roadmap")

	m, err := New(problem, rm, logger, DefaultOptions())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m, test.ShouldNotBeNil)
}

func TestPlanForHonorsStop(t *testing.T) {
	problem, rm, _, _ := freeProblem(t, constraintgraph.TransitionSpec{})
	_, err := rm.AddNode(jointspace.Configuration{0})
	test.That(t, err, test.ShouldBeNil)

	m, err := New(problem, rm, golog.NewTestLogger(t), DefaultOptions())
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	test.That(t, m.PlanFor(ctx, 10), test.ShouldNotBeNil)

	m.RequestStop()
	// The stop flag is reset at entry and honored between steps.
	test.That(t, m.PlanFor(context.Background(), 1), test.ShouldBeNil)
}
