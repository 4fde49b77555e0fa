package handlers

import (
	"charging-route-service/internal/api/dto"
	"charging-route-service/internal/domain"
	"charging-route-service/internal/ports"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// StationCatalog is a station directory that can also list its stations.
type StationCatalog interface {
	ports.StationDirectory
	Stations() []domain.Waypoint
}

// StationHandler exposes read-only station endpoints.
type StationHandler struct {
	Stations StationCatalog
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	stations := h.Stations.Stations()

	res := dto.ListStationsResponse{
		Stations: make([]dto.StationResponse, 0, len(stations)),
	}
	for _, s := range stations {
		res.Stations = append(res.Stations, dto.StationResponse{
			ID:         s.ID,
			Lat:        s.Coordinates.Lat,
			Lon:        s.Coordinates.Lon,
			ChargeRate: s.ChargeRate,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Neighbors lists the stations reachable from {id} on a full battery.
func (h *StationHandler) Neighbors(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	neighbors, err := h.Stations.Neighbors(r.Context(), id)
	if errors.Is(err, domain.ErrStationNotFound) {
		writeError(w, r, http.StatusNotFound, "station not found")
		return
	}
	if err != nil {
		log.Printf("list neighbors failed: station=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NeighborsResponse{ID: id, Neighbors: neighbors})
}
