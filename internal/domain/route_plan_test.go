package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
)

const epsilon = 1e-3

var testStations = map[string]Waypoint{
	"Albany_NY":         {ID: "Albany_NY", ChargeRate: 131},
	"Edison_NJ":         {ID: "Edison_NJ", ChargeRate: 159},
	"Council_Bluffs_IA": {ID: "Council_Bluffs_IA", ChargeRate: 120},
	"Worthington_MN":    {ID: "Worthington_MN", ChargeRate: 108},
	"Albert_Lea_MN":     {ID: "Albert_Lea_MN", ChargeRate: 92},
	"Onalaska_WI":       {ID: "Onalaska_WI", ChargeRate: 130},
	"Mauston_WI":        {ID: "Mauston_WI", ChargeRate: 138},
	"Sheboygan_WI":      {ID: "Sheboygan_WI", ChargeRate: 116},
	"Cadillac_MI":       {ID: "Cadillac_MI", ChargeRate: 120},
}

// Road distances between the stations above, in km.
var testLegs = []struct {
	a, b string
	km   float64
}{
	{"Albany_NY", "Edison_NJ", 244.047},
	{"Council_Bluffs_IA", "Worthington_MN", 268.425},
	{"Council_Bluffs_IA", "Albert_Lea_MN", 360.0},
	{"Worthington_MN", "Albert_Lea_MN", 179.713},
	{"Albert_Lea_MN", "Onalaska_WI", 175.07},
	{"Onalaska_WI", "Mauston_WI", 90.828},
	{"Onalaska_WI", "Sheboygan_WI", 275.8665},
	{"Mauston_WI", "Sheboygan_WI", 185.317},
	{"Sheboygan_WI", "Cadillac_MI", 196.123},
}

func testDistance(from, to Waypoint) float64 {
	if from.ID == to.ID {
		return 0
	}
	for _, l := range testLegs {
		if (l.a == from.ID && l.b == to.ID) || (l.a == to.ID && l.b == from.ID) {
			return l.km
		}
	}
	return 10000
}

func newTestPlan(t *testing.T, start, goal string) *RoutePlan {
	t.Helper()
	return NewRoutePlan(testStations[start], testStations[goal], DefaultVehicle(), testDistance)
}

func mustAppend(t *testing.T, p *RoutePlan, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := p.Append(testStations[id]); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %.6f, want %.6f", name, got, want)
	}
}

func TestRoutePlanInitialize(t *testing.T) {
	p := newTestPlan(t, "Albany_NY", "Edison_NJ")

	if cost := p.TimeCost(); cost != 0 {
		t.Fatalf("TimeCost = %v, want 0", cost)
	}
	if p.ReachedGoal() {
		t.Fatal("single-stop plan should not have reached the goal")
	}
	if got := p.String(); got != "Albany_NY" {
		t.Fatalf("String = %q, want %q", got, "Albany_NY")
	}
}

func TestRoutePlanDirectToGoal(t *testing.T) {
	p := newTestPlan(t, "Albany_NY", "Edison_NJ")
	mustAppend(t, p, "Edison_NJ")

	if !p.ReachedGoal() {
		t.Fatal("expected plan to reach the goal")
	}
	assertNear(t, "TimeCost", p.TimeCost(), 244.047/DefaultSpeed)
	assertNear(t, "TimeCost", p.TimeCost(), 2.324)

	if got := p.String(); got != "Albany_NY, Edison_NJ" {
		t.Fatalf("String = %q", got)
	}
}

func TestRoutePlanOneIntermediateStop(t *testing.T) {
	p := newTestPlan(t, "Council_Bluffs_IA", "Albert_Lea_MN")
	mustAppend(t, p, "Worthington_MN")

	if p.ReachedGoal() {
		t.Fatal("plan should not have reached the goal yet")
	}
	if !p.Visited("Worthington_MN") || p.Visited("Albert_Lea_MN") {
		t.Fatal("visited set does not match appended stops")
	}
	if p.Current().ID != "Worthington_MN" {
		t.Fatalf("Current = %q", p.Current().ID)
	}

	heuristic := 268.425/DefaultSpeed +
		1.0*179.713/DefaultSpeed +
		179.713/DefaultAverageChargeRate
	assertNear(t, "HeuristicCost", p.HeuristicCost(1.0), heuristic)
	assertNear(t, "TimeCost", p.TimeCost(), 268.425/DefaultSpeed)

	if got := p.String(); got != "Council_Bluffs_IA, Worthington_MN, 0.00000" {
		t.Fatalf("String = %q", got)
	}

	mustAppend(t, p, "Albert_Lea_MN")
	if !p.ReachedGoal() {
		t.Fatal("expected plan to reach the goal")
	}

	assertNear(t, "TimeCost", p.TimeCost(), 128.138/108+268.425/DefaultSpeed+179.713/DefaultSpeed)

	if got := p.String(); got != "Council_Bluffs_IA, Worthington_MN, 1.18647, Albert_Lea_MN" {
		t.Fatalf("String = %q", got)
	}
}

func TestRoutePlanTwoIntermediateStops(t *testing.T) {
	p := newTestPlan(t, "Council_Bluffs_IA", "Onalaska_WI")
	mustAppend(t, p, "Worthington_MN", "Albert_Lea_MN")

	heuristic := 128.138/108 +
		(268.425+179.713)/DefaultSpeed +
		175.07/DefaultSpeed +
		175.07/DefaultAverageChargeRate
	assertNear(t, "HeuristicCost", p.HeuristicCost(1.0), heuristic)
	assertNear(t, "TimeCost", p.TimeCost(), 128.138/108+(268.425+179.713)/DefaultSpeed)

	fields := strings.Split(p.String(), ", ")
	if len(fields) != 5 || fields[0] != "Council_Bluffs_IA" || fields[1] != "Worthington_MN" || fields[3] != "Albert_Lea_MN" {
		t.Fatalf("unexpected fields %q", fields)
	}
	hours, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		t.Fatalf("parse charge time: %v", err)
	}
	assertNear(t, "charge hours", hours, 128.138/108)

	mustAppend(t, p, "Onalaska_WI")
	assertNear(t, "TimeCost", p.TimeCost(),
		268.425/108+34.783/92+(268.425+179.713+175.07)/DefaultSpeed)
}

func TestRoutePlanFiveIntermediateStops(t *testing.T) {
	p := newTestPlan(t, "Council_Bluffs_IA", "Cadillac_MI")
	mustAppend(t, p, "Worthington_MN", "Albert_Lea_MN", "Onalaska_WI", "Mauston_WI", "Sheboygan_WI")

	assertNear(t, "TimeCost", p.TimeCost(),
		268.425/108+34.783/92+90.828/130+185.317/138+
			(268.425+179.713+175.07+90.828+185.317)/DefaultSpeed)

	fields := strings.Split(p.String(), ", ")
	wantHours := map[int]float64{
		2: 268.425 / 108,
		4: 34.783 / 92,
		6: 90.828 / 130,
		8: 185.317 / 138,
	}
	for idx, want := range wantHours {
		got, err := strconv.ParseFloat(fields[idx], 64)
		if err != nil {
			t.Fatalf("field %d: %v", idx, err)
		}
		assertNear(t, "charge hours", got, want)
	}

	mustAppend(t, p, "Cadillac_MI")
	assertNear(t, "TimeCost", p.TimeCost(),
		268.425/108+34.783/92+90.828/130+320.0/138+61.4396/116+
			(268.425+179.713+175.07+90.828+185.317+196.123)/DefaultSpeed)
}

func TestRoutePlanHeuristic(t *testing.T) {
	t.Run("start is goal distance away", func(t *testing.T) {
		p := newTestPlan(t, "Council_Bluffs_IA", "Worthington_MN")
		want := 268.425/DefaultSpeed + 268.425/DefaultAverageChargeRate
		assertNear(t, "HeuristicCost", p.HeuristicCost(1.0), want)
	})

	t.Run("one stop towards goal", func(t *testing.T) {
		p := newTestPlan(t, "Onalaska_WI", "Sheboygan_WI")
		want := 275.8665/DefaultSpeed + 275.8665/DefaultAverageChargeRate
		assertNear(t, "HeuristicCost", p.HeuristicCost(1.0), want)

		mustAppend(t, p, "Mauston_WI")
		want = 90.828/DefaultSpeed + 185.317/DefaultSpeed + 185.317/DefaultAverageChargeRate
		assertNear(t, "HeuristicCost", p.HeuristicCost(1.0), want)
	})

	t.Run("weight scales the remaining drive", func(t *testing.T) {
		p := newTestPlan(t, "Onalaska_WI", "Sheboygan_WI")
		low, high := p.HeuristicCost(1.0), p.HeuristicCost(1.4)
		assertNear(t, "weight delta", high-low, 0.4*275.8665/DefaultSpeed)
	})

	t.Run("finished plan ignores weight", func(t *testing.T) {
		p := newTestPlan(t, "Council_Bluffs_IA", "Albert_Lea_MN")
		mustAppend(t, p, "Worthington_MN", "Albert_Lea_MN")
		for _, w := range []float64{0, 1, 2.6, 100} {
			if got, want := p.HeuristicCost(w), p.TimeCost(); got != want {
				t.Fatalf("HeuristicCost(%v) = %v, want %v", w, got, want)
			}
		}
	})
}

func TestRoutePlanAppendErrors(t *testing.T) {
	testCases := map[string]struct {
		start, goal string
		prefix      []string
		next        string
		wantErr     error
	}{
		"revisit start": {
			start: "Council_Bluffs_IA", goal: "Albert_Lea_MN",
			prefix:  []string{"Worthington_MN"},
			next:    "Council_Bluffs_IA",
			wantErr: ErrAlreadyVisited,
		},
		"append same station twice": {
			start: "Onalaska_WI", goal: "Sheboygan_WI",
			prefix:  []string{"Mauston_WI"},
			next:    "Mauston_WI",
			wantErr: ErrAlreadyVisited,
		},
		"leg longer than max range": {
			start: "Council_Bluffs_IA", goal: "Albert_Lea_MN",
			next:    "Albert_Lea_MN",
			wantErr: ErrOutOfRange,
		},
		"unknown pair is far away": {
			start: "Albany_NY", goal: "Edison_NJ",
			next:    "Cadillac_MI",
			wantErr: ErrOutOfRange,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			p := newTestPlan(t, tc.start, tc.goal)
			mustAppend(t, p, tc.prefix...)
			before := p.Len()

			err := p.Append(testStations[tc.next])
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Append error = %v, want %v", err, tc.wantErr)
			}
			if p.Len() != before {
				t.Fatalf("failed append changed plan length from %d to %d", before, p.Len())
			}
		})
	}
}

func TestRoutePlanExtendDoesNotAliasParent(t *testing.T) {
	parent := newTestPlan(t, "Council_Bluffs_IA", "Onalaska_WI")
	mustAppend(t, parent, "Worthington_MN")
	parentCost := parent.TimeCost()

	left, err := parent.Extend(testStations["Albert_Lea_MN"])
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	right := parent.Clone()

	if parent.Len() != 2 || parent.Visited("Albert_Lea_MN") {
		t.Fatal("Extend mutated the parent plan")
	}
	if right.Visited("Albert_Lea_MN") {
		t.Fatal("sibling observed the other branch's stop")
	}

	mustAppend(t, left, "Onalaska_WI")
	if parent.TimeCost() != parentCost {
		t.Fatalf("parent cost changed from %v to %v", parentCost, parent.TimeCost())
	}
	if left.TimeCost() <= parentCost {
		t.Fatal("longer branch should cost more than its parent")
	}
}

func TestRoutePlanBatteryStaysWithinRange(t *testing.T) {
	routes := [][]string{
		{"Council_Bluffs_IA", "Worthington_MN", "Albert_Lea_MN"},
		{"Council_Bluffs_IA", "Worthington_MN", "Albert_Lea_MN", "Onalaska_WI"},
		{"Council_Bluffs_IA", "Worthington_MN", "Albert_Lea_MN", "Onalaska_WI", "Mauston_WI", "Sheboygan_WI", "Cadillac_MI"},
		{"Onalaska_WI", "Mauston_WI", "Sheboygan_WI"},
	}

	for _, route := range routes {
		t.Run(strings.Join(route, ">"), func(t *testing.T) {
			p := newTestPlan(t, route[0], route[len(route)-1])
			mustAppend(t, p, route[1:]...)

			v := p.Vehicle()
			for i, level := range p.BatteryLevels() {
				if level < -1e-9 || level > v.MaxRange+1e-9 {
					t.Fatalf("battery level at stop %d = %v, outside [0, %v]", i+1, level, v.MaxRange)
				}
			}
			arrivals := append([]float64{v.InitialCharge}, p.BatteryLevels()...)
			for i, s := range p.Stops() {
				if s.ChargeKm < -1e-9 {
					t.Fatalf("negative charge %v at stop %d", s.ChargeKm, i)
				}
				if departure := arrivals[i] + s.ChargeKm; departure > v.MaxRange+1e-9 {
					t.Fatalf("battery after charging at stop %d = %v, above %v", i, departure, v.MaxRange)
				}
			}
			if last := p.Stops()[p.Len()-1]; last.ChargeKm != 0 {
				t.Fatalf("goal charge = %v, want 0", last.ChargeKm)
			}
		})
	}
}

func TestVehicleValidate(t *testing.T) {
	if err := DefaultVehicle().Validate(); err != nil {
		t.Fatalf("default vehicle invalid: %v", err)
	}

	bad := DefaultVehicle()
	bad.InitialCharge = bad.MaxRange + 1
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for initial charge above max range")
	}
}
