package entities

import (
	"time"

	"rentfleet/internal/booking"
	"rentfleet/internal/db"
)

type BookingCreateRequest struct {
	VehicleID int64     `json:"vehicleId"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Notes     string    `json:"notes"`
}

type BookingResponse struct {
	ID                 int64     `json:"id"`
	VehicleID          int64     `json:"vehicleId"`
	VehicleTitle       string    `json:"vehicleTitle"`
	VehicleType        string    `json:"vehicleType"`
	RenterID           int64     `json:"renterId"`
	Status             string    `json:"status"`
	StartAt            time.Time `json:"startAt"`
	EndAt              time.Time `json:"endAt"`
	DailyPriceSnapshot int64     `json:"dailyPriceSnapshot"`
	TotalAmount        int64     `json:"totalAmount"`
	Currency           string    `json:"currency"`
	Notes              string    `json:"notes,omitempty"`
	// Actions lists the status transitions the requesting user may attempt.
	Actions []string `json:"actions"`
	// CheckoutURL is only set on creation when payments are configured.
	CheckoutURL string `json:"checkoutUrl,omitempty"`
}

// BookingFromModel shapes a booking for the wire, with the action set
// offered to the requesting role.
func BookingFromModel(b *db.Booking, operator bool) BookingResponse {
	allowed := booking.Allowed(booking.Status(b.Status), operator)
	actions := make([]string, 0, len(allowed))
	for _, a := range allowed {
		actions = append(actions, string(a))
	}
	return BookingResponse{
		ID:                 b.ID,
		VehicleID:          b.VehicleID,
		VehicleTitle:       b.VehicleTitle,
		VehicleType:        b.VehicleType,
		RenterID:           b.RenterID,
		Status:             b.Status,
		StartAt:            b.StartAt,
		EndAt:              b.EndAt,
		DailyPriceSnapshot: b.DailyPriceSnapshot,
		TotalAmount:        b.TotalAmount,
		Currency:           b.Currency,
		Notes:              b.Notes,
		Actions:            actions,
	}
}
