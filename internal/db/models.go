package db

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	FullName     string
	Phone        string
	Role         string
	CreatedAt    time.Time
}

type Vehicle struct {
	ID           int64
	Title        string
	VehicleType  string
	LicensePlate string
	DailyPrice   int64
	Currency     string
	Status       string
	Description  string
	Photos       []VehiclePhoto
	CreatedAt    time.Time
}

type VehiclePhoto struct {
	ID        int64
	VehicleID int64
	URL       string
	IsPrimary bool
	CreatedAt time.Time
}

type Booking struct {
	ID                 int64
	VehicleID          int64
	VehicleTitle       string
	VehicleType        string
	RenterID           int64
	Status             string
	StartAt            time.Time
	EndAt              time.Time
	DailyPriceSnapshot int64
	TotalAmount        int64
	Currency           string
	Notes              string
	StripeSessionID    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
