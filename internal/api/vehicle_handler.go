package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"rentfleet/internal/db"
	"rentfleet/internal/entities"
	"rentfleet/internal/service"

	"github.com/gorilla/mux"
)

type VehicleHandler struct {
	vehicles *service.VehicleService
}

func NewVehicleHandler(vehicles *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// List serves the full catalog.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicles.List()
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleResponses(vehicles))
}

// Search filters by type and price band, and by date availability when a
// startAt/endAt window is supplied.
func (h *VehicleHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minPrice, err := parseOptionalInt(q.Get("minPrice"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "minPrice must be an integer")
		return
	}
	maxPrice, err := parseOptionalInt(q.Get("maxPrice"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "maxPrice must be an integer")
		return
	}
	startAt, err := parseOptionalTime(q.Get("startAt"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "startAt must be RFC3339")
		return
	}
	endAt, err := parseOptionalTime(q.Get("endAt"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "endAt must be RFC3339")
		return
	}
	if (startAt == nil) != (endAt == nil) {
		writeError(w, http.StatusBadRequest, "startAt and endAt must be supplied together")
		return
	}

	vehicles, err := h.vehicles.Search(q.Get("type"), minPrice, maxPrice, startAt, endAt)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleResponses(vehicles))
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	vehicle, err := h.vehicles.Get(id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.VehicleFromModel(vehicle))
}

// Quote prices a rental window without creating anything.
func (h *VehicleHandler) Quote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	startAt, err := time.Parse(time.RFC3339, r.URL.Query().Get("startAt"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "startAt must be RFC3339")
		return
	}
	endAt, err := time.Parse(time.RFC3339, r.URL.Query().Get("endAt"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "endAt must be RFC3339")
		return
	}
	quote, err := h.vehicles.Quote(id, startAt, endAt)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entities.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vehicle, err := h.vehicles.Create(req)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entities.VehicleFromModel(vehicle))
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req entities.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vehicle, err := h.vehicles.Update(id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.VehicleFromModel(vehicle))
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.vehicles.Delete(id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func vehicleResponses(vehicles []*db.Vehicle) []entities.VehicleResponse {
	out := make([]entities.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, entities.VehicleFromModel(v))
	}
	return out
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func parseOptionalInt(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
