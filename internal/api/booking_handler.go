package api

import (
	"encoding/json"
	"net/http"

	"rentfleet/internal/auth"
	"rentfleet/internal/db"
	"rentfleet/internal/entities"
	"rentfleet/internal/service"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	var req entities.BookingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, checkoutURL, err := h.bookings.Create(user, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	resp := entities.BookingFromModel(b, db.IsOperator(user.Role))
	resp.CheckoutURL = checkoutURL
	writeJSON(w, http.StatusCreated, resp)
}

// List serves all bookings to operators and the caller's own to renters.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	bookings, err := h.bookings.ListFor(user)
	if err != nil {
		respondErr(w, err)
		return
	}
	operator := db.IsOperator(user.Role)
	out := make([]entities.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, entities.BookingFromModel(b, operator))
	}
	writeJSON(w, http.StatusOK, out)
}

// ListMine serves the caller's own bookings, operator or not.
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	bookings, err := h.bookings.ListOwn(user)
	if err != nil {
		respondErr(w, err)
		return
	}
	operator := db.IsOperator(user.Role)
	out := make([]entities.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, entities.BookingFromModel(b, operator))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := h.bookings.Get(user, id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.BookingFromModel(b, db.IsOperator(user.Role)))
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.Confirm)
}

func (h *BookingHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.Activate)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.Complete)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.Cancel)
}

func (h *BookingHandler) Refund(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.Refund)
}

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, apply func(*db.User, int64) (*db.Booking, error)) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := apply(user, id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.BookingFromModel(b, db.IsOperator(user.Role)))
}
