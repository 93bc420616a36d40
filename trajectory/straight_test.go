package trajectory

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/manipplan/jointspace"
)

func TestStraightEval(t *testing.T) {
	p := NewStraight(jointspace.Configuration{0}, jointspace.Configuration{2}, 2)
	test.That(t, p.Length(), test.ShouldEqual, 2)
	test.That(t, p.TimeRange(), test.ShouldResemble, Interval{0, 2})
	test.That(t, p.OutputSize(), test.ShouldEqual, 1)

	q, ok := p.Eval(1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, q[0], test.ShouldAlmostEqual, 1)

	q, ok = p.Eval(0)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, q[0], test.ShouldEqual, 0)
}

func TestStraightZeroLength(t *testing.T) {
	p := NewStraight(jointspace.Configuration{1.5}, jointspace.Configuration{1.5}, 0)
	q, ok := p.Eval(0)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, q[0], test.ShouldEqual, 1.5)
}

func TestStraightExtract(t *testing.T) {
	p := NewStraight(jointspace.Configuration{0}, jointspace.Configuration{2}, 2)

	sub, err := p.Extract(Interval{0.5, 1.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sub.Length(), test.ShouldAlmostEqual, 1)
	q, _ := sub.Eval(0)
	test.That(t, q[0], test.ShouldAlmostEqual, 0.5)
	q, _ = sub.Eval(sub.Length())
	test.That(t, q[0], test.ShouldAlmostEqual, 1.5)

	_, err = p.Extract(Interval{0, 3})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestStraightReversal(t *testing.T) {
	p := NewStraight(jointspace.Configuration{0}, jointspace.Configuration{2}, 2)

	rev, err := p.Extract(Interval{2, 0})
	test.That(t, err, test.ShouldBeNil)
	q, _ := rev.Eval(0)
	test.That(t, q[0], test.ShouldEqual, 2)
	q, _ = rev.Eval(2)
	test.That(t, q[0], test.ShouldEqual, 0)

	// Reversing twice is pointwise the original.
	back, err := rev.Extract(Interval{2, 0})
	test.That(t, err, test.ShouldBeNil)
	for _, tt := range []float64{0, 0.5, 1, 1.7, 2} {
		want, _ := p.Eval(tt)
		got, _ := back.Eval(tt)
		test.That(t, got.ApproxEqual(want), test.ShouldBeTrue)
	}
}

func TestStraightConstraints(t *testing.T) {
	clamp := &jointspace.NumericalConstraint{
		ConstraintName: "floor",
		Satisfied:      func(q jointspace.Configuration) bool { return q[0] >= 0.5 },
		Projector: func(q jointspace.Configuration) bool {
			if q[0] < 0.5 {
				q[0] = 0.5
			}
			return true
		},
	}
	p := NewStraight(jointspace.Configuration{0}, jointspace.Configuration{2}, 2)
	p.SetConstraints(jointspace.NewConstraintSet("floor", clamp))

	q, ok := p.Eval(0)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, q[0], test.ShouldEqual, 0.5)

	failing := &jointspace.NumericalConstraint{
		ConstraintName: "never",
		Satisfied:      func(jointspace.Configuration) bool { return false },
		Projector:      func(jointspace.Configuration) bool { return false },
	}
	p.SetConstraints(jointspace.NewConstraintSet("never", failing))
	_, ok = p.Eval(1)
	test.That(t, ok, test.ShouldBeFalse)
	_, err := p.Extract(Interval{0, 1})
	test.That(t, errors.Is(err, ErrProjection), test.ShouldBeTrue)
}

func TestStraightLineSteering(t *testing.T) {
	sm := NewStraightLine(nil)
	p, err := sm.Steer(jointspace.Configuration{0}, jointspace.Configuration{3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Length(), test.ShouldAlmostEqual, 3)

	_, err = sm.Steer(jointspace.Configuration{0}, jointspace.Configuration{0, 1})
	test.That(t, err, test.ShouldNotBeNil)
}
