package handlers

import (
	"charging-route-service/internal/api/dto"
	"charging-route-service/internal/domain"
	"charging-route-service/internal/services"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
)

type RouteHandler struct {
	Search *services.RouteSearch
}

// Plan searches a charging route between two stations.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	start := strings.TrimSpace(req.Start)
	goal := strings.TrimSpace(req.Goal)
	if start == "" || goal == "" {
		writeError(w, r, http.StatusBadRequest, "start and goal are required")
		return
	}

	res, err := h.Search.Solve(r.Context(), start, goal)
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		writeError(w, r, http.StatusBadRequest, "start and goal must be different stations")
		return
	case errors.Is(err, domain.ErrStationNotFound):
		writeError(w, r, http.StatusNotFound, "station not found")
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusServiceUnavailable, "route search cancelled")
		return
	case err != nil:
		log.Printf("plan route failed: start=%s goal=%s err=%v", start, goal, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := dto.RouteResponse{
		Route:      res.Route,
		Stops:      make([]dto.RouteStopResponse, 0),
		Restarts:   res.Restarts,
		Candidates: res.Completed,
		Expansions: res.Expansions,
	}

	if res.Found() {
		for _, s := range res.Plan.Stops() {
			resp.Stops = append(resp.Stops, dto.RouteStopResponse{
				ID:          s.Waypoint.ID,
				ChargeKm:    s.ChargeKm,
				ChargeHours: s.ChargeHours,
				LegKm:       s.LegKm,
			})
		}
		resp.TimeCostHours = res.Plan.TimeCost()
		resp.DistanceKm = res.Plan.Distance()
	}

	writeJSON(w, r, http.StatusOK, resp)
}
