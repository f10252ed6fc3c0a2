package planner

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

const (
	stepGeocode          = "geocode"
	stepTransportMode    = "transportMode"
	stepPointsOfInterest = "pointsOfInterest"
	stepRoutes           = "routes"
	stepAccommodation    = "accommodation"
)

// node is one step of the planning graph. when is evaluated against the merged
// state once every dependency has settled; a false result skips the node.
type node struct {
	name string
	deps []string
	when func(*plan_models.PlanningState) bool
	run  stepFunc
}

type nodeResult struct {
	name  string
	patch plan_models.StatePatch
}

type graph struct {
	nodes  []node
	logger *zap.Logger
	m      *Metrics
}

// run launches every node whose dependencies have settled and merges results
// as they arrive. Only this goroutine touches state. It returns when all nodes
// have settled or ctx is done, whichever comes first.
func (g *graph) run(ctx context.Context, state *plan_models.PlanningState) error {
	pending := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]node, len(g.nodes))
	for _, n := range g.nodes {
		pending[n.name] = len(n.deps)
		for _, d := range n.deps {
			dependents[d] = append(dependents[d], n)
		}
	}

	// Buffered so a node finishing after the run was abandoned never blocks.
	results := make(chan nodeResult, len(g.nodes))
	settled := 0
	inFlight := 0

	var ready []node
	for _, n := range g.nodes {
		if pending[n.name] == 0 {
			ready = append(ready, n)
		}
	}

	// launch starts ready nodes; skipped nodes settle immediately and may
	// release their own dependents.
	launch := func() {
		for len(ready) > 0 {
			n := ready[0]
			ready = ready[1:]

			if n.when != nil && !n.when(state) {
				g.logger.Debug("step skipped", zap.String("step", n.name))
				settled++
				for _, dep := range dependents[n.name] {
					if pending[dep.name]--; pending[dep.name] == 0 {
						ready = append(ready, dep)
					}
				}
				continue
			}

			inFlight++
			go g.runNode(ctx, n, state.Clone(), results)
		}
	}

	launch()
	for settled < len(g.nodes) {
		if inFlight == 0 {
			return fmt.Errorf("planning graph stalled with %d of %d steps settled", settled, len(g.nodes))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-results:
			inFlight--
			settled++
			state.Apply(res.patch)
			for _, dep := range dependents[res.name] {
				if pending[dep.name]--; pending[dep.name] == 0 {
					ready = append(ready, dep)
				}
			}
			launch()
		}
	}
	return nil
}

// runNode is the failure boundary of a step: a panic becomes a recorded error
// and the node still settles.
func (g *graph) runNode(ctx context.Context, n node, snapshot *plan_models.PlanningState, out chan<- nodeResult) {
	start := time.Now()
	var patch plan_models.StatePatch

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("step panicked",
				zap.String("step", n.name),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			patch = plan_models.StatePatch{
				Errors: []string{fmt.Sprintf("Step %s failed unexpectedly: %v", n.name, r)},
			}
		}
		g.m.observeStep(n.name, time.Since(start), len(patch.Errors) > 0)
		out <- nodeResult{name: n.name, patch: patch}
	}()

	patch = n.run(ctx, snapshot)
}
