package services

import (
	"charging-route-service/internal/domain"
	"charging-route-service/internal/platform/obs"
	"charging-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"
)

// ErrInvalidRequest is returned for route requests that cannot be searched.
var ErrInvalidRequest = errors.New("invalid route request")

// SearchParams bounds the route search.
type SearchParams struct {
	// GoalWeight scales the estimated remaining drive of unfinished routes.
	GoalWeight float64
	// GoalWeightStep is added to GoalWeight on every restart.
	GoalWeightStep float64
	// MaxQueueSize is the number of pending candidates that triggers a restart.
	MaxQueueSize int
	// CandidateTarget is the number of finished routes compared before returning.
	CandidateTarget int
	// MaxRestarts ends the search when reached, by a restart or by a
	// finished route popped after that many restarts.
	MaxRestarts int
	// MaxIterations caps the number of loop iterations; 0 means unlimited.
	// Hitting it returns the best finished route so far, if any.
	MaxIterations int
	// KeepBestOnExhaustion returns the best finished route when the queue
	// empties before CandidateTarget routes were compared. Off by default,
	// which yields an empty result in that case.
	KeepBestOnExhaustion bool
}

func DefaultSearchParams() SearchParams {
	return SearchParams{
		GoalWeight:      1.0,
		GoalWeightStep:  0.2,
		MaxQueueSize:    10000,
		CandidateTarget: 20,
		MaxRestarts:     20,
	}
}

func (p SearchParams) Validate() error {
	if p.GoalWeightStep <= 0 {
		return fmt.Errorf("search params: goal weight step must be positive, got %v", p.GoalWeightStep)
	}
	if p.MaxQueueSize < 1 {
		return fmt.Errorf("search params: max queue size must be at least 1, got %d", p.MaxQueueSize)
	}
	if p.CandidateTarget < 1 {
		return fmt.Errorf("search params: candidate target must be at least 1, got %d", p.CandidateTarget)
	}
	if p.MaxRestarts < 0 || p.MaxIterations < 0 {
		return errors.New("search params: limits must not be negative")
	}
	return nil
}

// SearchResult is the outcome of one Solve call. Plan is nil and Route is
// empty when no route was found.
type SearchResult struct {
	Plan       *domain.RoutePlan
	Route      string
	Restarts   int
	Completed  int
	Expansions int
	GoalWeight float64
	Duration   time.Duration
}

func (r *SearchResult) Found() bool { return r != nil && r.Plan != nil }

type Option func(*RouteSearch)

// WithMetrics records every search in m.
func WithMetrics(m *obs.SearchMetrics) Option {
	return func(s *RouteSearch) { s.metrics = m }
}

// RouteSearch plans charging routes with a best-first search over partial
// routes, ranked by RoutePlan.HeuristicCost.
//
// Each expansion copies the parent route once per reachable, unvisited
// neighbor. When the queue grows past MaxQueueSize the search restarts from
// the start station with a larger goal weight, which makes it greedier, and
// after MaxRestarts restarts it stops. The best of the first CandidateTarget
// finished routes is returned; a direct start to goal route is returned as
// soon as it is popped. A queue that empties before then yields no route.
//
// The result is a heuristic: neither the route nor its charge allocation is
// guaranteed optimal. A RouteSearch holds no per-search state and may be used
// concurrently.
type RouteSearch struct {
	directory ports.StationDirectory
	metric    ports.DistanceMetric
	vehicle   domain.Vehicle
	params    SearchParams
	metrics   *obs.SearchMetrics
}

func NewRouteSearch(
	directory ports.StationDirectory,
	metric ports.DistanceMetric,
	vehicle domain.Vehicle,
	params SearchParams,
	opts ...Option,
) (*RouteSearch, error) {
	if directory == nil || metric == nil {
		return nil, errors.New("new route search: directory and metric must be non-nil")
	}

	if err := vehicle.Validate(); err != nil {
		return nil, fmt.Errorf("new route search: %w", err)
	}

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("new route search: %w", err)
	}

	s := &RouteSearch{
		directory: directory,
		metric:    metric,
		vehicle:   vehicle,
		params:    params,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *RouteSearch) Vehicle() domain.Vehicle { return s.vehicle }

func (s *RouteSearch) Params() SearchParams { return s.params }

// searchState is owned by a single Solve call.
type searchState struct {
	start, goal domain.Waypoint

	queue      candidateQueue
	seq        uint64
	goalWeight float64

	best     *domain.RoutePlan
	bestCost float64

	completed  int
	restarts   int
	expansions int
	iterations int
}

// Solve searches a route from startID to goalID.
//
// Unknown stations abort the search with an error wrapping
// domain.ErrStationNotFound. Exhausting the search space without a finished
// route is not an error: the result then has an empty Route.
func (s *RouteSearch) Solve(ctx context.Context, startID, goalID string) (_ *SearchResult, err error) {
	started := time.Now()
	outcome := obs.OutcomeError
	var res *SearchResult

	defer func() {
		dur := time.Since(started)
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			outcome = obs.OutcomeCancelled
		}
		s.metrics.ObserveSearch(outcome, dur)

		if res == nil {
			log.Printf("req_id=%s op=route.solve start=%s goal=%s dur=%dms err=%v",
				obs.RequestID(ctx), startID, goalID, dur.Milliseconds(), err)
			return
		}
		log.Printf("req_id=%s op=route.solve start=%s goal=%s found=%t restarts=%d candidates=%d expansions=%d dur=%dms",
			obs.RequestID(ctx), startID, goalID, res.Found(), res.Restarts, res.Completed, res.Expansions, dur.Milliseconds())
	}()

	startID = strings.TrimSpace(startID)
	goalID = strings.TrimSpace(goalID)
	if startID == "" || goalID == "" {
		return nil, fmt.Errorf("solve: start and goal must be non-empty: %w", ErrInvalidRequest)
	}
	if startID == goalID {
		return nil, fmt.Errorf("solve: start and goal are both %q: %w", startID, ErrInvalidRequest)
	}

	start, err := s.directory.Station(startID)
	if err != nil {
		return nil, fmt.Errorf("solve: start: %w", err)
	}
	goal, err := s.directory.Station(goalID)
	if err != nil {
		return nil, fmt.Errorf("solve: goal: %w", err)
	}

	st := &searchState{
		start:      start,
		goal:       goal,
		goalWeight: s.params.GoalWeight,
		bestCost:   math.Inf(1),
	}
	s.reset(st)

	plan, outcome, err := s.run(ctx, st)
	if err != nil {
		outcome = obs.OutcomeError
		return nil, fmt.Errorf("solve %q -> %q: %w", startID, goalID, err)
	}

	res = &SearchResult{
		Plan:       plan,
		Restarts:   st.restarts,
		Completed:  st.completed,
		Expansions: st.expansions,
		GoalWeight: st.goalWeight,
		Duration:   time.Since(started),
	}
	if plan != nil {
		res.Route = plan.String()
	}

	return res, nil
}

// run drives the search loop and returns the chosen plan, or nil.
func (s *RouteSearch) run(ctx context.Context, st *searchState) (*domain.RoutePlan, string, error) {
	for st.queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, obs.OutcomeCancelled, err
		}

		if s.params.MaxIterations > 0 && st.iterations >= s.params.MaxIterations {
			return st.bestSoFar()
		}
		st.iterations++

		// Too many open candidates: start over with a greedier heuristic.
		if st.queue.Len() > s.params.MaxQueueSize {
			s.restart(st)
			// Early exit at the restart cap, ahead of the next finished
			// route. best may still be nil.
			if st.restarts >= s.params.MaxRestarts {
				return st.bestSoFar()
			}
		}

		plan := st.queue.pop().plan

		if plan.ReachedGoal() {
			// A direct route wins without comparing it to other candidates.
			if plan.Len() == 2 {
				return plan, obs.OutcomeDirect, nil
			}

			if cost := plan.HeuristicCost(st.goalWeight); cost < st.bestCost {
				st.best = plan
				st.bestCost = cost
			}

			st.completed++
			if st.completed >= s.params.CandidateTarget || st.restarts >= s.params.MaxRestarts {
				return st.best, obs.OutcomeFound, nil
			}
			continue
		}

		if err := s.expand(ctx, st, plan); err != nil {
			return nil, obs.OutcomeError, err
		}
	}

	// The queue ran dry before either stopping rule fired.
	if s.params.KeepBestOnExhaustion {
		return st.bestSoFar()
	}
	return nil, obs.OutcomeNoRoute, nil
}

func (st *searchState) bestSoFar() (*domain.RoutePlan, string, error) {
	if st.best == nil {
		return nil, obs.OutcomeNoRoute, nil
	}
	return st.best, obs.OutcomeFound, nil
}

// expand queues one child plan per reachable, unvisited neighbor of plan.
func (s *RouteSearch) expand(ctx context.Context, st *searchState, plan *domain.RoutePlan) error {
	current := plan.Current()

	neighbors, err := s.directory.Neighbors(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("expand %q: %w", current.ID, err)
	}

	st.expansions++
	s.metrics.AddExpansion()

	for _, id := range neighbors {
		if plan.Visited(id) {
			continue
		}

		next, err := s.directory.Station(id)
		if err != nil {
			return fmt.Errorf("expand %q: neighbor: %w", current.ID, err)
		}

		child, err := plan.Extend(next)
		if err != nil {
			// Only this extension is dropped; its siblings are still queued.
			switch {
			case errors.Is(err, domain.ErrOutOfRange):
				s.metrics.AddSkipped("out_of_range")
			case errors.Is(err, domain.ErrAlreadyVisited):
				s.metrics.AddSkipped("already_visited")
			default:
				s.metrics.AddSkipped("other")
			}
			continue
		}

		st.push(child, child.HeuristicCost(st.goalWeight))
	}

	return nil
}

func (st *searchState) push(plan *domain.RoutePlan, cost float64) {
	st.queue.push(&candidate{plan: plan, cost: cost, seq: st.seq})
	st.seq++
}

// reset drops every pending candidate and queues a fresh start plan keyed
// at the current goal weight.
func (s *RouteSearch) reset(st *searchState) {
	st.queue = candidateQueue{}
	plan := domain.NewRoutePlan(st.start, st.goal, s.vehicle, s.metric.Distance)
	st.push(plan, plan.HeuristicCost(st.goalWeight))
}

func (s *RouteSearch) restart(st *searchState) {
	st.goalWeight += s.params.GoalWeightStep
	s.reset(st)
	st.restarts++
	s.metrics.AddRestart()
}
