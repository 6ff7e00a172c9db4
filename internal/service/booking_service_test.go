package service

import (
	"database/sql"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"rentfleet/internal/db"
	"rentfleet/internal/entities"
	"rentfleet/internal/errors"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testRenter   = &db.User{ID: 7, Username: "renter", Role: db.RoleCustomer}
	testOperator = &db.User{ID: 1, Username: "admin", Role: db.RoleAdmin}
)

func newBookingService(repo *mockBookingStore, vehicles *mockVehicleStore, notifier Notifier, payments Payments) *BookingService {
	svc := NewBookingService(repo, vehicles, notifier, payments, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func availableVehicle() *db.Vehicle {
	return &db.Vehicle{
		ID:          3,
		Title:       "Honda Wave",
		VehicleType: "MOTORCYCLE",
		DailyPrice:  500000,
		Currency:    "VND",
		Status:      db.VehicleAvailable,
	}
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var httpErr *errors.HTTPError
	require.True(t, stderrors.As(err, &httpErr), "expected HTTPError, got %v", err)
	return httpErr.Code
}

func TestCreateBooking(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(36 * time.Hour)

	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	vehicles.On("GetByID", int64(3)).Return(availableVehicle(), nil)
	repo.On("CountOverlapping", int64(3), start, end).Return(0, nil)
	repo.On("Create", mock.AnythingOfType("*db.Booking")).Run(func(args mock.Arguments) {
		b := args.Get(0).(*db.Booking)
		b.ID = 42
	}).Return(nil)
	repo.On("GetByID", int64(42)).Return(&db.Booking{
		ID:          42,
		VehicleID:   3,
		RenterID:    testRenter.ID,
		Status:      "PENDING",
		TotalAmount: 1000000,
		Currency:    "VND",
	}, nil)

	svc := newBookingService(repo, vehicles, nil, nil)
	created, checkoutURL, err := svc.Create(testRenter, entities.BookingCreateRequest{
		VehicleID: 3, StartAt: start, EndAt: end,
	})
	require.NoError(t, err)
	assert.Empty(t, checkoutURL)
	assert.Equal(t, "PENDING", created.Status)
	// 36 hours rounds up to 2 rental days.
	assert.Equal(t, int64(1000000), created.TotalAmount)
	repo.AssertExpectations(t)
}

func TestCreateBookingWithCheckout(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	payments := new(mockPayments)
	vehicles.On("GetByID", int64(3)).Return(availableVehicle(), nil)
	repo.On("CountOverlapping", int64(3), start, end).Return(0, nil)
	repo.On("Create", mock.AnythingOfType("*db.Booking")).Run(func(args mock.Arguments) {
		args.Get(0).(*db.Booking).ID = 42
	}).Return(nil)
	payments.On("CreateCheckoutSession", int64(500000), "VND", "Booking #42").
		Return("https://pay.example/cs_123", "cs_123", nil)
	repo.On("SetStripeSession", int64(42), "cs_123").Return(nil)
	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, Status: "PENDING"}, nil)

	svc := newBookingService(repo, vehicles, nil, payments)
	_, checkoutURL, err := svc.Create(testRenter, entities.BookingCreateRequest{
		VehicleID: 3, StartAt: start, EndAt: end,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_123", checkoutURL)
	payments.AssertExpectations(t)
}

func TestCreateBookingRejections(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	t.Run("vehicle not found", func(t *testing.T) {
		repo := new(mockBookingStore)
		vehicles := new(mockVehicleStore)
		vehicles.On("GetByID", int64(99)).Return(nil, sql.ErrNoRows)

		svc := newBookingService(repo, vehicles, nil, nil)
		_, _, err := svc.Create(testRenter, entities.BookingCreateRequest{VehicleID: 99, StartAt: start, EndAt: end})
		assert.Equal(t, http.StatusNotFound, httpCode(t, err))
	})

	t.Run("end before start", func(t *testing.T) {
		repo := new(mockBookingStore)
		vehicles := new(mockVehicleStore)
		vehicles.On("GetByID", int64(3)).Return(availableVehicle(), nil)

		svc := newBookingService(repo, vehicles, nil, nil)
		_, _, err := svc.Create(testRenter, entities.BookingCreateRequest{VehicleID: 3, StartAt: end, EndAt: start})
		assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
	})

	t.Run("start in the past", func(t *testing.T) {
		repo := new(mockBookingStore)
		vehicles := new(mockVehicleStore)
		vehicles.On("GetByID", int64(3)).Return(availableVehicle(), nil)

		svc := newBookingService(repo, vehicles, nil, nil)
		past := time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC)
		_, _, err := svc.Create(testRenter, entities.BookingCreateRequest{VehicleID: 3, StartAt: past, EndAt: past.Add(24 * time.Hour)})
		assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
	})

	t.Run("vehicle in maintenance", func(t *testing.T) {
		repo := new(mockBookingStore)
		vehicles := new(mockVehicleStore)
		v := availableVehicle()
		v.Status = db.VehicleMaintenance
		vehicles.On("GetByID", int64(3)).Return(v, nil)

		svc := newBookingService(repo, vehicles, nil, nil)
		_, _, err := svc.Create(testRenter, entities.BookingCreateRequest{VehicleID: 3, StartAt: start, EndAt: end})
		assert.Equal(t, http.StatusConflict, httpCode(t, err))
	})

	t.Run("overlapping booking", func(t *testing.T) {
		repo := new(mockBookingStore)
		vehicles := new(mockVehicleStore)
		vehicles.On("GetByID", int64(3)).Return(availableVehicle(), nil)
		repo.On("CountOverlapping", int64(3), start, end).Return(1, nil)

		svc := newBookingService(repo, vehicles, nil, nil)
		_, _, err := svc.Create(testRenter, entities.BookingCreateRequest{VehicleID: 3, StartAt: start, EndAt: end})
		assert.Equal(t, http.StatusConflict, httpCode(t, err))
	})
}

func TestConfirmBooking(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	notifier := new(mockNotifier)

	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, VehicleID: 3, RenterID: 7, Status: "PENDING"}, nil).Once()
	repo.On("UpdateStatusIf", int64(42), "CONFIRMED", []string{"PENDING"}).Return(true, nil)
	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, VehicleID: 3, RenterID: 7, Status: "CONFIRMED"}, nil).Once()
	notifier.On("BookingStatusChanged", int64(7), mock.AnythingOfType("*db.Booking")).Return()

	svc := newBookingService(repo, vehicles, notifier, nil)
	b, err := svc.Confirm(testOperator, 42)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", b.Status)
	notifier.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestConfirmBookingRenterForbidden(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, RenterID: 7, Status: "PENDING"}, nil)

	svc := newBookingService(repo, vehicles, nil, nil)
	_, err := svc.Confirm(testRenter, 42)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))
}

func TestActivateBooking(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)

	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, VehicleID: 3, RenterID: 7, Status: "CONFIRMED"}, nil).Once()
	vehicles.On("GetByID", int64(3)).Return(availableVehicle(), nil)
	repo.On("UpdateStatusIf", int64(42), "ACTIVE", []string{"CONFIRMED"}).Return(true, nil)
	vehicles.On("UpdateStatus", int64(3), db.VehicleRented).Return(nil)
	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, VehicleID: 3, RenterID: 7, Status: "ACTIVE"}, nil).Once()

	svc := newBookingService(repo, vehicles, nil, nil)
	b, err := svc.Activate(testOperator, 42)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", b.Status)
	vehicles.AssertExpectations(t)
}

func TestActivateBookingVehicleUnavailable(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, VehicleID: 3, Status: "CONFIRMED"}, nil)
	v := availableVehicle()
	v.Status = db.VehicleRented
	vehicles.On("GetByID", int64(3)).Return(v, nil)

	svc := newBookingService(repo, vehicles, nil, nil)
	_, err := svc.Activate(testOperator, 42)
	assert.Equal(t, http.StatusConflict, httpCode(t, err))
	repo.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBookingByRenterReleasesVehicle(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)

	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, VehicleID: 3, RenterID: 7, Status: "CONFIRMED"}, nil).Once()
	repo.On("UpdateStatusIf", int64(42), "CANCELLED", []string{"PENDING", "CONFIRMED"}).Return(true, nil)
	vehicles.On("UpdateStatus", int64(3), db.VehicleAvailable).Return(nil)
	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, VehicleID: 3, RenterID: 7, Status: "CANCELLED"}, nil).Once()

	svc := newBookingService(repo, vehicles, nil, nil)
	b, err := svc.Cancel(testRenter, 42)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", b.Status)
	vehicles.AssertExpectations(t)
}

func TestCancelSomeoneElsesBooking(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, RenterID: 99, Status: "PENDING"}, nil)

	svc := newBookingService(repo, vehicles, nil, nil)
	_, err := svc.Cancel(testRenter, 42)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))
}

func TestTransitionFromTerminalStatus(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, RenterID: 7, Status: "COMPLETED"}, nil)

	svc := newBookingService(repo, vehicles, nil, nil)
	_, err := svc.Cancel(testOperator, 42)
	assert.Equal(t, http.StatusConflict, httpCode(t, err))
}

func TestTransitionLostRace(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, VehicleID: 3, RenterID: 7, Status: "PENDING"}, nil)
	repo.On("UpdateStatusIf", int64(42), "CONFIRMED", []string{"PENDING"}).Return(false, nil)

	svc := newBookingService(repo, vehicles, nil, nil)
	_, err := svc.Confirm(testOperator, 42)
	assert.Equal(t, http.StatusConflict, httpCode(t, err))
}

func TestRefundBooking(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	payments := new(mockPayments)

	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, VehicleID: 3, RenterID: 7, Status: "CANCELLED", StripeSessionID: "cs_123"}, nil).Once()
	payments.On("RefundBySession", "cs_123").Return(nil)
	repo.On("UpdateStatusIf", int64(42), "REFUNDED", []string{"CANCELLED", "COMPLETED"}).Return(true, nil)
	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, VehicleID: 3, RenterID: 7, Status: "REFUNDED"}, nil).Once()

	svc := newBookingService(repo, vehicles, nil, payments)
	b, err := svc.Refund(testOperator, 42)
	require.NoError(t, err)
	assert.Equal(t, "REFUNDED", b.Status)
	payments.AssertExpectations(t)
}

func TestRefundBookingPaymentFailure(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	payments := new(mockPayments)

	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, Status: "CANCELLED", StripeSessionID: "cs_123"}, nil)
	payments.On("RefundBySession", "cs_123").Return(stderrors.New("stripe down"))

	svc := newBookingService(repo, vehicles, nil, payments)
	_, err := svc.Refund(testOperator, 42)
	require.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetBookingVisibility(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	repo.On("GetByID", int64(42)).Return(&db.Booking{ID: 42, RenterID: 7, Status: "PENDING"}, nil)

	svc := newBookingService(repo, vehicles, nil, nil)

	b, err := svc.Get(testRenter, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), b.ID)

	_, err = svc.Get(&db.User{ID: 8, Role: db.RoleCustomer}, 42)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))

	_, err = svc.Get(testOperator, 42)
	assert.NoError(t, err)
}

func TestListForRole(t *testing.T) {
	repo := new(mockBookingStore)
	vehicles := new(mockVehicleStore)
	repo.On("ListAll").Return([]*db.Booking{{ID: 1}, {ID: 2}}, nil)
	repo.On("ListByRenter", int64(7)).Return([]*db.Booking{{ID: 1}}, nil)

	svc := newBookingService(repo, vehicles, nil, nil)

	all, err := svc.ListFor(testOperator)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.ListFor(testRenter)
	require.NoError(t, err)
	assert.Len(t, own, 1)
}
