package service

import (
	"time"

	"rentfleet/internal/db"
)

// Store interfaces mirror the repository layer so services can be tested
// without a database.

type UserStore interface {
	Create(user *db.User) error
	GetByUsername(username string) (*db.User, error)
	GetByID(id int64) (*db.User, error)
	ExistsByUsername(username string) (bool, error)
	UpdateProfile(id int64, fullName, phone string) error
	UpdatePassword(id int64, passwordHash string) error
}

type VehicleStore interface {
	Create(vehicle *db.Vehicle, photoURLs []string) error
	Update(vehicle *db.Vehicle, photoURLs []string) error
	Delete(id int64) error
	GetByID(id int64) (*db.Vehicle, error)
	List() ([]*db.Vehicle, error)
	Search(vehicleType string, minPrice, maxPrice *int64) ([]*db.Vehicle, error)
	UpdateStatus(id int64, status string) error
}

type BookingStore interface {
	Create(booking *db.Booking) error
	GetByID(id int64) (*db.Booking, error)
	ListByRenter(renterID int64) ([]*db.Booking, error)
	ListAll() ([]*db.Booking, error)
	CountOverlapping(vehicleID int64, startAt, endAt time.Time) (int, error)
	VehicleIDsWithOverlap(startAt, endAt time.Time) ([]int64, error)
	UpdateStatusIf(id int64, status string, from []string) (bool, error)
	SetStripeSession(id int64, sessionID string) error
}

// Notifier tells the renter about booking status changes. Implementations
// must never fail the transition that triggered them.
type Notifier interface {
	BookingStatusChanged(renterID int64, booking *db.Booking)
}

// Payments abstracts the checkout/refund provider.
type Payments interface {
	CreateCheckoutSession(amount int64, currency, description string) (url, sessionID string, err error)
	RefundBySession(sessionID string) error
}
