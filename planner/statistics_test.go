package planner

import (
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"go.viam.com/manipplan/constraintgraph"
	"go.viam.com/manipplan/jointspace"
)

func TestErrorList(t *testing.T) {
	test.That(t, ErrorList(), test.ShouldResemble, []string{
		"Success",
		"[Fail] Projection",
		"[Fail] SteeringMethod",
		"[Fail] Path validation returned length 0",
		"[Fail] Path could not be projected",
		"[Info] Path could not be fully projected",
		"[Info] Path could not be fully validated",
	})
}

func TestGetEdgeStatUnobserved(t *testing.T) {
	problem, rm, move, _ := freeProblem(t, constraintgraph.TransitionSpec{})
	m, err := New(problem, rm, golog.NewTestLogger(t), DefaultOptions())
	test.That(t, err, test.ShouldBeNil)

	test.That(t, m.GetEdgeStat(move), test.ShouldResemble, []int{0, 0, 0, 0, 0, 0, 0})
	test.That(t, m.PartlyExtended(move), test.ShouldEqual, 0)
}

func TestStatisticsSlotsGrowOnDemand(t *testing.T) {
	robot := jointspace.NewBasicRobot("arm", 1)
	g := constraintgraph.New("g", robot, golog.NewTestLogger(t))
	free := g.AddState("free", nil)
	first := g.AddTransition("first", free, free, constraintgraph.TransitionSpec{})
	second := g.AddTransition("second", free, free, constraintgraph.TransitionSpec{})

	var es edgeStatistics
	test.That(t, es.lookup(second), test.ShouldBeNil)

	// Observing the higher id first still yields one slot per edge.
	es.statFor(second).AddFailure(ReasonSteeringMethod)
	es.statFor(first).AddSuccess()
	es.statFor(second).AddFailure(ReasonSteeringMethod)

	test.That(t, es.lookup(first).NumSuccess(), test.ShouldEqual, 1)
	test.That(t, es.lookup(second).NumFailure(ReasonSteeringMethod), test.ShouldEqual, 2)
	test.That(t, es.lookup(first).NumFailure(ReasonSteeringMethod), test.ShouldEqual, 0)
}
