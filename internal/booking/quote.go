package booking

import (
	"errors"
	"time"
)

// RentalDay is the billing unit: any started day bills in full.
const RentalDay = 24 * time.Hour

var ErrInvalidRange = errors.New("endAt must be after startAt")

// Quote is the price estimate for renting a vehicle over [startAt, endAt).
// The same arithmetic produces the authoritative snapshot at creation time.
type Quote struct {
	Days        int64  `json:"days"`
	DailyPrice  int64  `json:"dailyPrice"`
	TotalAmount int64  `json:"totalAmount"`
	Currency    string `json:"currency"`
}

// NewQuote computes rental duration and total price. Duration is the number
// of started 24h periods between startAt and endAt, never less than one day.
// Amounts are in minor currency units; total = days * dailyPrice, exact.
func NewQuote(dailyPrice int64, currency string, startAt, endAt time.Time) (Quote, error) {
	if !endAt.After(startAt) {
		return Quote{}, ErrInvalidRange
	}
	diff := endAt.Sub(startAt)
	days := int64((diff + RentalDay - 1) / RentalDay)
	if days < 1 {
		days = 1
	}
	return Quote{
		Days:        days,
		DailyPrice:  dailyPrice,
		TotalAmount: days * dailyPrice,
		Currency:    currency,
	}, nil
}
