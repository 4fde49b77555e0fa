package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RouteStop is a read-only view of one stop in a RoutePlan.
type RouteStop struct {
	Waypoint    Waypoint
	ChargeKm    float64 // range added at this stop
	ChargeHours float64 // time spent charging at this stop
	LegKm       float64 // distance to the next stop, 0 for the last stop
}

// Represents a loop-free sequence of charging stations from a start station
// towards a goal, with the distance of every leg and the charge planned at
// every stop.
//
// A RoutePlan is a value: Extend returns an independent copy so that sibling
// branches of a search never share stops, legs or charges. Charge amounts are
// computed lazily by a greedy forward pass and cached until the next Append.
type RoutePlan struct {
	vehicle  Vehicle
	distance DistanceFunc
	goal     Waypoint

	stops   []Waypoint
	visited map[string]struct{}
	legs    []float64
	charges []float64

	reachedGoal bool
	optimized   bool
}

// NewRoutePlan creates a plan that has only visited the start station.
func NewRoutePlan(start, goal Waypoint, vehicle Vehicle, distance DistanceFunc) *RoutePlan {
	return &RoutePlan{
		vehicle:  vehicle,
		distance: distance,
		goal:     goal,
		stops:    []Waypoint{start},
		visited:  map[string]struct{}{start.ID: {}},
		legs:     []float64{},
		charges:  []float64{0},
	}
}

// Clone returns a deep copy that shares no mutable state with p.
func (p *RoutePlan) Clone() *RoutePlan {
	visited := make(map[string]struct{}, len(p.visited)+1)
	for id := range p.visited {
		visited[id] = struct{}{}
	}

	return &RoutePlan{
		vehicle:     p.vehicle,
		distance:    p.distance,
		goal:        p.goal,
		stops:       append(make([]Waypoint, 0, len(p.stops)+1), p.stops...),
		visited:     visited,
		legs:        append(make([]float64, 0, len(p.legs)+1), p.legs...),
		charges:     append(make([]float64, 0, len(p.charges)+1), p.charges...),
		reachedGoal: p.reachedGoal,
		optimized:   p.optimized,
	}
}

// Append adds next to the end of the plan.
//
// It fails with ErrOutOfRange when next cannot be reached on a full charge and
// with ErrAlreadyVisited when next is already part of the plan. The plan is
// left untouched on failure.
func (p *RoutePlan) Append(next Waypoint) error {
	current := p.Current()
	dist := p.distance(current, next)

	if dist > p.vehicle.MaxRange {
		return fmt.Errorf("append %q after %q: %.3f km > %.3f km: %w",
			next.ID, current.ID, dist, p.vehicle.MaxRange, ErrOutOfRange)
	}

	if p.Visited(next.ID) {
		return fmt.Errorf("append %q: %w", next.ID, ErrAlreadyVisited)
	}

	p.stops = append(p.stops, next)
	p.visited[next.ID] = struct{}{}
	p.legs = append(p.legs, dist)
	p.charges = append(p.charges, 0)
	p.optimized = false

	// A finished plan is costed with its final allocation, not placeholders.
	if next.ID == p.goal.ID {
		p.reachedGoal = true
		p.optimize()
	}

	return nil
}

// Extend returns a copy of p with next appended. p is never modified.
func (p *RoutePlan) Extend(next Waypoint) (*RoutePlan, error) {
	child := p.Clone()
	if err := child.Append(next); err != nil {
		return nil, err
	}
	return child, nil
}

// Visited reports whether the station is already part of the plan.
func (p *RoutePlan) Visited(id string) bool {
	_, ok := p.visited[id]
	return ok
}

// Current returns the last station of the plan.
func (p *RoutePlan) Current() Waypoint { return p.stops[len(p.stops)-1] }

// Start returns the first station of the plan.
func (p *RoutePlan) Start() Waypoint { return p.stops[0] }

// Goal returns the station the plan is heading for.
func (p *RoutePlan) Goal() Waypoint { return p.goal }

// Len returns the number of visited stations, start included.
func (p *RoutePlan) Len() int { return len(p.stops) }

// ReachedGoal reports whether the last appended station is the goal.
func (p *RoutePlan) ReachedGoal() bool { return p.reachedGoal }

// Vehicle returns the parameters the plan is costed with.
func (p *RoutePlan) Vehicle() Vehicle { return p.vehicle }

// Distance returns the total driven distance in km.
func (p *RoutePlan) Distance() float64 {
	total := 0.0
	for _, d := range p.legs {
		total += d
	}
	return total
}

// TimeCost returns the total driving plus charging time in hours.
func (p *RoutePlan) TimeCost() float64 {
	p.optimize()

	total := 0.0
	for i := 0; i < len(p.stops)-1; i++ {
		total += p.charges[i] / p.stops[i].ChargeRate
		total += p.legs[i] / p.vehicle.Speed
	}

	return total
}

// HeuristicCost estimates the total time of the route once it reaches the goal.
//
// For a finished plan this is exactly TimeCost. Otherwise the time spent so far
// is increased by the straight-line drive to the goal, scaled by goalWeight,
// and by the time needed to charge for that distance at the average rate.
// The estimate is not a lower bound; larger weights make the search greedier.
func (p *RoutePlan) HeuristicCost(goalWeight float64) float64 {
	if p.reachedGoal {
		return p.TimeCost()
	}

	toGoal := p.distance(p.Current(), p.goal)

	return p.TimeCost() +
		goalWeight*toGoal/p.vehicle.Speed +
		toGoal/p.vehicle.AverageChargeRate
}

// Stops returns a snapshot of the plan with its optimized charges.
func (p *RoutePlan) Stops() []RouteStop {
	p.optimize()

	out := make([]RouteStop, 0, len(p.stops))
	for i, w := range p.stops {
		stop := RouteStop{Waypoint: w, ChargeKm: p.charges[i]}
		if w.ChargeRate > 0 {
			stop.ChargeHours = p.charges[i] / w.ChargeRate
		}
		if i < len(p.legs) {
			stop.LegKm = p.legs[i]
		}
		out = append(out, stop)
	}
	return out
}

// BatteryLevels returns the range left on arrival at each stop after the start.
func (p *RoutePlan) BatteryLevels() []float64 {
	p.optimize()

	levels := make([]float64, 0, len(p.legs))
	level := p.vehicle.InitialCharge
	for i, d := range p.legs {
		level += p.charges[i] - d
		levels = append(levels, level)
	}
	return levels
}

// String renders the plan as "Start, Stop, 1.18647, Goal": every station id,
// each intermediate station followed by its charging time in hours rounded up
// to five decimals.
func (p *RoutePlan) String() string {
	p.optimize()

	parts := make([]string, 0, 2*len(p.stops))
	last := len(p.stops) - 1
	for i, w := range p.stops {
		parts = append(parts, w.ID)
		if i == 0 || (i == last && p.reachedGoal) {
			continue
		}
		parts = append(parts, formatHours(p.charges[i]/w.ChargeRate))
	}
	return strings.Join(parts, ", ")
}

// optimize distributes charge over the stops in one greedy forward pass.
//
// At every stop the charge is either the least that still reaches the next
// stop or the most the battery can hold. The least is used when the next
// station charges faster or is the last one, so that charging is deferred to
// it; otherwise the current station fills up. Plans without an intermediate
// stop keep zero charges.
func (p *RoutePlan) optimize() {
	if p.optimized {
		return
	}
	p.optimized = true

	if len(p.stops) < 3 {
		return
	}

	full := p.vehicle.MaxRange
	initial := p.vehicle.InitialCharge
	distSoFar := 0.0
	chargeSoFar := 0.0

	for i := 0; i < len(p.stops)-1; i++ {
		maxAmount := full - (initial + chargeSoFar - distSoFar)

		distSoFar += p.legs[i]
		minAmount := math.Max(0, distSoFar-initial-chargeSoFar)

		deferCharge := p.stops[i].ChargeRate < p.stops[i+1].ChargeRate ||
			i+1 == len(p.stops)-1

		if deferCharge {
			p.charges[i] = minAmount
		} else {
			p.charges[i] = maxAmount
		}
		chargeSoFar += p.charges[i]
	}
}

func formatHours(h float64) string {
	return strconv.FormatFloat(math.Ceil(h*1e5)/1e5, 'f', 5, 64)
}
