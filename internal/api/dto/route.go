package dto

type RouteRequest struct {
	Start string `json:"start"`
	Goal  string `json:"goal"`
}

type RouteStopResponse struct {
	ID          string  `json:"id"`
	ChargeKm    float64 `json:"charge_km"`
	ChargeHours float64 `json:"charge_hours"`
	LegKm       float64 `json:"leg_km"`
}

// RouteResponse carries an empty Route and no stops when no route exists.
type RouteResponse struct {
	Route         string              `json:"route"`
	Stops         []RouteStopResponse `json:"stops"`
	TimeCostHours float64             `json:"time_cost_hours"`
	DistanceKm    float64             `json:"distance_km"`
	Restarts      int                 `json:"restarts"`
	Candidates    int                 `json:"candidates"`
	Expansions    int                 `json:"expansions"`
}
