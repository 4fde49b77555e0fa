package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status   string `json:"status"`
	Stations int    `json:"stations"`
}

// Health is a liveness check that also reports the loaded network size.
func (h *StationHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:   "ok",
		Stations: len(h.Stations.Stations()),
	})
}
