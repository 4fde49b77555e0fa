package dto

type StationResponse struct {
	ID         string  `json:"id"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	ChargeRate float64 `json:"charge_rate"`
}

type ListStationsResponse struct {
	Stations []StationResponse `json:"stations"`
}

type NeighborsResponse struct {
	ID        string   `json:"id"`
	Neighbors []string `json:"neighbors"`
}
