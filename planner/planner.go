package planner

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"go.viam.com/manipplan/jointspace"
	"go.viam.com/manipplan/roadmap"
	"go.viam.com/manipplan/trajectory"
)

// Options tune the planner.
type Options struct {
	// ExtendStep in (0, 1] is the cautious-extension fraction; extensions
	// shorter than the steered path count as partly extended.
	ExtendStep float64
	// ConnectionK is how many nearest nodes per foreign component the
	// roadmap connection fallback considers.
	ConnectionK int
	// Clock drives the informational phase timers.
	Clock clock.Clock
}

// DefaultOptions returns the planner defaults.
func DefaultOptions() Options {
	return Options{ExtendStep: 1, ConnectionK: 7}
}

// ManipulationPlanner grows a roadmap by extending each connected component
// along randomly chosen constraint graph transitions, one step at a time.
// Single-threaded: one OneStep call runs to completion before the next.
type ManipulationPlanner struct {
	problem ManipulationProblem
	roadmap *roadmap.Roadmap
	logger  golog.Logger
	opts    Options
	stats   edgeStatistics
	timer   *stepTimer
	stop    atomic.Bool
}

// New type-checks that problem and rm are the manipulation specializations
// and creates a planner over them.
func New(problem Problem, rm Roadmap, logger golog.Logger, opts Options) (*ManipulationPlanner, error) {
	mp, ok := problem.(ManipulationProblem)
	if !ok {
		return nil, NewInvalidProblemTypeError()
	}
	mrm, ok := rm.(*roadmap.Roadmap)
	if !ok {
		return nil, NewInvalidRoadmapTypeError()
	}
	if opts.ExtendStep <= 0 || opts.ExtendStep > 1 {
		opts.ExtendStep = 1
	}
	if opts.ConnectionK <= 0 {
		opts.ConnectionK = 7
	}
	return &ManipulationPlanner{
		problem: mp,
		roadmap: mrm,
		logger:  logger,
		opts:    opts,
		timer:   newStepTimer(opts.Clock),
	}, nil
}

// Roadmap returns the roadmap the planner grows.
func (m *ManipulationPlanner) Roadmap() *roadmap.Roadmap { return m.roadmap }

// pendingEdge buffers an insertion until the extension loop completes, so
// every (component, state) pair observes the start-of-step roadmap.
type pendingEdge struct {
	near *roadmap.Node
	qNew jointspace.Configuration
	path trajectory.Path
}

// OneStep advances one PRM iteration: sample, extend every (component, graph
// state) pair toward the sample, insert the buffered results, then try to
// connect the new nodes together and, failing that, to the rest of the
// roadmap.
func (m *ManipulationPlanner) OneStep() {
	defer m.timer.phase("oneStep")()

	qRand := m.problem.ConfigurationShooter().Shoot()
	states := m.problem.ConstraintGraph().States()

	var direct, delayed []pendingEdge
	for _, cc := range m.roadmap.ConnectedComponents() {
		for _, gn := range states {
			stopNN := m.timer.phase("nearestNeighbor")
			near, _ := m.roadmap.NearestNode(qRand, cc, gn)
			stopNN()
			if near == nil {
				continue
			}
			stopExtend := m.timer.phase("extend")
			validPath, extended := m.extend(near, qRand)
			stopExtend()
			if !extended || validPath == nil {
				continue
			}
			tr := validPath.TimeRange()
			if tr.U == tr.L {
				continue
			}
			qNew, ok := validPath.Eval(tr.U)
			if !ok {
				m.logger.Debugw("extension endpoint unprojectable, dropping", "near", near.Configuration())
				continue
			}
			if pendingIndex(direct, qNew) < 0 {
				direct = append(direct, pendingEdge{near: near, qNew: qNew, path: validPath})
			} else {
				delayed = append(delayed, pendingEdge{near: near, qNew: qNew, path: validPath})
			}
		}
	}

	newNodes := make([]*roadmap.Node, 0, len(direct))
	for _, pe := range direct {
		n, err := m.roadmap.AddNodeAndEdges(pe.near, pe.qNew, pe.path)
		if err != nil {
			m.logger.Debugw("dropping extension", "error", err)
			continue
		}
		newNodes = append(newNodes, n)
	}

	stopDelayed := m.timer.phase("delayedEdges")
	// Each delayed tuple materializes a fresh node, even when an equal
	// configuration was inserted above.
	for _, pe := range delayed {
		n, err := m.roadmap.AddNode(pe.qNew)
		if err != nil {
			m.logger.Debugw("dropping delayed edge", "error", err)
			continue
		}
		m.roadmap.AddEdge(pe.near, n, pe.path)
		tr := pe.path.TimeRange()
		reversed, err := pe.path.Extract(trajectory.Interval{L: tr.U, U: tr.L})
		if err != nil {
			m.logger.Debugw("dropping reverse delayed edge", "error", err)
			continue
		}
		m.roadmap.AddEdge(n, pe.near, reversed)
	}
	stopDelayed()

	stopConnect := m.timer.phase("tryConnectNewNodes")
	connections := m.tryConnectNewNodes(newNodes)
	stopConnect()
	if connections == 0 {
		stopFallback := m.timer.phase("tryConnectToRoadmap")
		m.tryConnectToRoadmap(newNodes)
		stopFallback()
	}
	m.timer.log(m.logger)
}

func pendingIndex(pending []pendingEdge, q jointspace.Configuration) int {
	for i, pe := range pending {
		if pe.qNew.Equal(q) {
			return i
		}
	}
	return -1
}

// extend computes an extension from n_near toward qRand along one sampled
// transition, recording the outcome in the edge's statistics. It returns the
// valid path; the caller inserts it into the roadmap.
func (m *ManipulationPlanner) extend(near *roadmap.Node, qRand jointspace.Configuration) (trajectory.Path, bool) {
	graph := m.problem.ConstraintGraph()
	edge := graph.ChooseEdge(near.GraphState())
	if edge == nil {
		return nil, false
	}
	es := m.stats.statFor(edge)

	qProj := qRand.Copy()
	if !edge.ApplyConstraints(near.Configuration(), qProj) {
		es.AddFailure(ReasonProjection)
		return nil, false
	}
	path, err := edge.Build(near.Configuration(), qProj)
	if err != nil || path == nil {
		es.AddFailure(ReasonSteeringMethod)
		return nil, false
	}

	projPath := path
	projShorter := false
	if pp := m.problem.PathProjector(); pp != nil {
		projected, full := pp.Apply(path)
		projShorter = !full
		if projShorter {
			if projected == nil || projected.Length() == 0 {
				es.AddFailure(ReasonPathProjectionZero)
				return nil, false
			}
			es.AddFailure(ReasonPathProjectionShorter)
		}
		projPath = projected
	}

	fullValidPath, fullyValid, err := m.problem.PathValidation().Validate(projPath, false)
	if err != nil {
		m.logger.Debugw("path validation errored", "error", err)
		es.AddFailure(ReasonPathValidationZero)
		return nil, false
	}
	if fullValidPath == nil || fullValidPath.Length() == 0 {
		es.AddFailure(ReasonPathValidationZero)
		return fullValidPath, false
	}
	if !fullyValid {
		es.AddFailure(ReasonPathValidationShorter)
	}

	validPath := fullValidPath
	truncated := false
	if m.opts.ExtendStep < 1 {
		tInit := fullValidPath.TimeRange().L
		shortened, err := fullValidPath.Extract(trajectory.Interval{
			L: tInit,
			U: tInit + fullValidPath.Length()*m.opts.ExtendStep,
		})
		if err != nil {
			m.logger.Debugw("cautious extraction failed", "error", err)
			es.AddFailure(ReasonPathProjectionShorter)
			return nil, false
		}
		validPath = shortened
		truncated = true
	}

	if projShorter || !fullyValid || truncated {
		es.AddFailure(ReasonPartlyExtended)
	} else {
		es.AddSuccess()
	}
	return validPath, true
}

// connect steers, projects and validates a candidate connection, then adds
// whichever directions are missing. Returns whether a connection was made.
func (m *ManipulationPlanner) connect(n1, n2 *roadmap.Node) (bool, error) {
	has1to2 := n1.IsOutNeighbor(n2)
	has2to1 := n1.IsInNeighbor(n2)
	if has1to2 && has2to1 {
		return false, nil
	}
	path, err := m.problem.SteeringMethod().Steer(n1.Configuration(), n2.Configuration())
	if err != nil {
		return false, err
	}
	projPath := path
	if pp := m.problem.PathProjector(); pp != nil {
		projected, full := pp.Apply(path)
		if !full {
			return false, nil
		}
		projPath = projected
	}
	_, valid, err := m.problem.PathValidation().Validate(projPath, false)
	if err != nil || !valid {
		return false, err
	}
	if !has1to2 {
		m.roadmap.AddEdge(n1, n2, projPath)
	}
	if !has2to1 {
		tr := projPath.TimeRange()
		reversed, err := projPath.Extract(trajectory.Interval{L: tr.U, U: tr.L})
		if err != nil {
			return true, err
		}
		m.roadmap.AddEdge(n2, n1, reversed)
	}
	return true, nil
}

// tryConnectNewNodes links this step's new nodes across components.
func (m *ManipulationPlanner) tryConnectNewNodes(nodes []*roadmap.Node) int {
	connections := 0
	var errs error
	for i, n1 := range nodes {
		for _, n2 := range nodes[i+1:] {
			if n1.ConnectedComponent() == n2.ConnectedComponent() {
				continue
			}
			made, err := m.connect(n1, n2)
			if err != nil {
				errs = multierr.Append(errs, err)
			}
			if made {
				connections++
			}
		}
	}
	if errs != nil {
		m.logger.Debugw("new-node connection attempts failed", "error", errs)
	}
	return connections
}

// tryConnectToRoadmap links each new node to the nearest nodes of every other
// component, stopping at the first success per node.
func (m *ManipulationPlanner) tryConnectToRoadmap(nodes []*roadmap.Node) int {
	connections := 0
	var errs error
	for _, n1 := range nodes {
		connected := false
		for _, cc := range m.roadmap.ConnectedComponents() {
			if cc == n1.ConnectedComponent() {
				continue
			}
			knearest, _ := m.roadmap.KNearestSearch(n1.Configuration(), cc, m.opts.ConnectionK)
			for _, n2 := range knearest {
				made, err := m.connect(n1, n2)
				if err != nil {
					errs = multierr.Append(errs, err)
				}
				if made {
					connections++
					connected = true
					break
				}
			}
			if connected {
				break
			}
		}
	}
	if errs != nil {
		m.logger.Debugw("roadmap connection attempts failed", "error", errs)
	}
	return connections
}

// RequestStop makes PlanFor return at the next step boundary.
func (m *ManipulationPlanner) RequestStop() { m.stop.Store(true) }

// PlanFor runs up to maxIterations steps, honoring the context and the stop
// flag between steps only.
func (m *ManipulationPlanner) PlanFor(ctx context.Context, maxIterations int) error {
	m.stop.Store(false)
	for i := 0; i < maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.stop.Load() {
			return nil
		}
		m.OneStep()
	}
	return nil
}
