package service

import (
	"time"

	"rentfleet/internal/db"

	"github.com/stretchr/testify/mock"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(user *db.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserStore) GetByUsername(username string) (*db.User, error) {
	args := m.Called(username)
	user, _ := args.Get(0).(*db.User)
	return user, args.Error(1)
}

func (m *mockUserStore) GetByID(id int64) (*db.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*db.User)
	return user, args.Error(1)
}

func (m *mockUserStore) ExistsByUsername(username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) UpdateProfile(id int64, fullName, phone string) error {
	return m.Called(id, fullName, phone).Error(0)
}

func (m *mockUserStore) UpdatePassword(id int64, passwordHash string) error {
	return m.Called(id, passwordHash).Error(0)
}

type mockVehicleStore struct {
	mock.Mock
}

func (m *mockVehicleStore) Create(vehicle *db.Vehicle, photoURLs []string) error {
	return m.Called(vehicle, photoURLs).Error(0)
}

func (m *mockVehicleStore) Update(vehicle *db.Vehicle, photoURLs []string) error {
	return m.Called(vehicle, photoURLs).Error(0)
}

func (m *mockVehicleStore) Delete(id int64) error {
	return m.Called(id).Error(0)
}

func (m *mockVehicleStore) GetByID(id int64) (*db.Vehicle, error) {
	args := m.Called(id)
	vehicle, _ := args.Get(0).(*db.Vehicle)
	return vehicle, args.Error(1)
}

func (m *mockVehicleStore) List() ([]*db.Vehicle, error) {
	args := m.Called()
	vehicles, _ := args.Get(0).([]*db.Vehicle)
	return vehicles, args.Error(1)
}

func (m *mockVehicleStore) Search(vehicleType string, minPrice, maxPrice *int64) ([]*db.Vehicle, error) {
	args := m.Called(vehicleType, minPrice, maxPrice)
	vehicles, _ := args.Get(0).([]*db.Vehicle)
	return vehicles, args.Error(1)
}

func (m *mockVehicleStore) UpdateStatus(id int64, status string) error {
	return m.Called(id, status).Error(0)
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) Create(booking *db.Booking) error {
	return m.Called(booking).Error(0)
}

func (m *mockBookingStore) GetByID(id int64) (*db.Booking, error) {
	args := m.Called(id)
	booking, _ := args.Get(0).(*db.Booking)
	return booking, args.Error(1)
}

func (m *mockBookingStore) ListByRenter(renterID int64) ([]*db.Booking, error) {
	args := m.Called(renterID)
	bookings, _ := args.Get(0).([]*db.Booking)
	return bookings, args.Error(1)
}

func (m *mockBookingStore) ListAll() ([]*db.Booking, error) {
	args := m.Called()
	bookings, _ := args.Get(0).([]*db.Booking)
	return bookings, args.Error(1)
}

func (m *mockBookingStore) CountOverlapping(vehicleID int64, startAt, endAt time.Time) (int, error) {
	args := m.Called(vehicleID, startAt, endAt)
	return args.Int(0), args.Error(1)
}

func (m *mockBookingStore) VehicleIDsWithOverlap(startAt, endAt time.Time) ([]int64, error) {
	args := m.Called(startAt, endAt)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *mockBookingStore) UpdateStatusIf(id int64, status string, from []string) (bool, error) {
	args := m.Called(id, status, from)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingStore) SetStripeSession(id int64, sessionID string) error {
	return m.Called(id, sessionID).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) BookingStatusChanged(renterID int64, booking *db.Booking) {
	m.Called(renterID, booking)
}

type mockPayments struct {
	mock.Mock
}

func (m *mockPayments) CreateCheckoutSession(amount int64, currency, description string) (string, string, error) {
	args := m.Called(amount, currency, description)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockPayments) RefundBySession(sessionID string) error {
	return m.Called(sessionID).Error(0)
}
