package service

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"rentfleet/internal/booking"
	"rentfleet/internal/db"
	"rentfleet/internal/entities"
	"rentfleet/internal/errors"
	"rentfleet/internal/metrics"

	"github.com/rs/zerolog"
)

// startSkew tolerates client clocks slightly behind the server when
// checking that a booking does not start in the past.
const startSkew = 5 * time.Minute

type BookingService struct {
	repo     BookingStore
	vehicles VehicleStore
	notifier Notifier
	payments Payments
	log      zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo BookingStore, vehicles VehicleStore, notifier Notifier, payments Payments, log zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		vehicles: vehicles,
		notifier: notifier,
		payments: payments,
		log:      log,
		now:      time.Now,
	}
}

// Create validates the request, snapshots the vehicle's price and books it
// PENDING. The returned URL is the checkout session link when payments are
// configured, otherwise empty.
func (s *BookingService) Create(renter *db.User, req entities.BookingCreateRequest) (*db.Booking, string, error) {
	quote, err := s.validateCreate(req)
	if err != nil {
		return nil, "", err
	}

	b := &db.Booking{
		VehicleID:          req.VehicleID,
		RenterID:           renter.ID,
		Status:             string(booking.StatusPending),
		StartAt:            req.StartAt,
		EndAt:              req.EndAt,
		DailyPriceSnapshot: quote.DailyPrice,
		TotalAmount:        quote.TotalAmount,
		Currency:           quote.Currency,
		Notes:              req.Notes,
	}
	if err := s.repo.Create(b); err != nil {
		return nil, "", fmt.Errorf("creating booking: %w", err)
	}

	var checkoutURL string
	if s.payments != nil {
		description := fmt.Sprintf("Booking #%d", b.ID)
		url, sessionID, err := s.payments.CreateCheckoutSession(b.TotalAmount, b.Currency, description)
		if err != nil {
			s.log.Error().Err(err).Int64("booking_id", b.ID).Msg("checkout session failed")
		} else {
			if err := s.repo.SetStripeSession(b.ID, sessionID); err != nil {
				s.log.Error().Err(err).Int64("booking_id", b.ID).Msg("storing stripe session failed")
			} else {
				b.StripeSessionID = sessionID
				checkoutURL = url
			}
		}
	}

	// Re-read for the denormalized vehicle fields.
	created, err := s.repo.GetByID(b.ID)
	if err != nil {
		return nil, "", fmt.Errorf("reloading booking: %w", err)
	}
	return created, checkoutURL, nil
}

func (s *BookingService) validateCreate(req entities.BookingCreateRequest) (booking.Quote, error) {
	vehicle, err := s.vehicles.GetByID(req.VehicleID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return booking.Quote{}, errors.NotFound("vehicle not found")
		}
		return booking.Quote{}, fmt.Errorf("loading vehicle: %w", err)
	}

	quote, err := booking.NewQuote(vehicle.DailyPrice, vehicle.Currency, req.StartAt, req.EndAt)
	if err != nil {
		return booking.Quote{}, errors.BadRequest(err.Error())
	}
	if req.StartAt.Before(s.now().Add(-startSkew)) {
		return booking.Quote{}, errors.BadRequest("startAt must not be in the past")
	}
	if vehicle.Status != db.VehicleAvailable {
		return booking.Quote{}, errors.Conflict("vehicle is not available: " + vehicle.Status)
	}

	overlaps, err := s.repo.CountOverlapping(req.VehicleID, req.StartAt, req.EndAt)
	if err != nil {
		return booking.Quote{}, fmt.Errorf("checking overlaps: %w", err)
	}
	if overlaps > 0 {
		return booking.Quote{}, errors.Conflict("vehicle is already booked for this window")
	}
	return quote, nil
}

// Get returns the booking to its renter or to an operator.
func (s *BookingService) Get(actor *db.User, id int64) (*db.Booking, error) {
	b, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !db.IsOperator(actor.Role) && b.RenterID != actor.ID {
		return nil, errors.Forbidden("not your booking")
	}
	return b, nil
}

// ListFor returns all bookings for operators, own bookings for renters.
func (s *BookingService) ListFor(actor *db.User) ([]*db.Booking, error) {
	if db.IsOperator(actor.Role) {
		return s.repo.ListAll()
	}
	return s.repo.ListByRenter(actor.ID)
}

// ListOwn returns the caller's own bookings regardless of role.
func (s *BookingService) ListOwn(actor *db.User) ([]*db.Booking, error) {
	return s.repo.ListByRenter(actor.ID)
}

func (s *BookingService) Confirm(actor *db.User, id int64) (*db.Booking, error) {
	return s.transition(actor, id, booking.ActionConfirm)
}

func (s *BookingService) Activate(actor *db.User, id int64) (*db.Booking, error) {
	return s.transition(actor, id, booking.ActionActivate)
}

func (s *BookingService) Complete(actor *db.User, id int64) (*db.Booking, error) {
	return s.transition(actor, id, booking.ActionComplete)
}

func (s *BookingService) Cancel(actor *db.User, id int64) (*db.Booking, error) {
	return s.transition(actor, id, booking.ActionCancel)
}

func (s *BookingService) Refund(actor *db.User, id int64) (*db.Booking, error) {
	return s.transition(actor, id, booking.ActionRefund)
}

// transition applies a single status change. The UPDATE is conditional on
// the source status, so concurrent conflicting transitions lose cleanly.
func (s *BookingService) transition(actor *db.User, id int64, action booking.Action) (*db.Booking, error) {
	b, err := s.load(id)
	if err != nil {
		return nil, err
	}

	operator := db.IsOperator(actor.Role)
	if action == booking.ActionCancel && !operator && b.RenterID != actor.ID {
		return nil, errors.Forbidden("not your booking")
	}

	target, err := booking.Apply(booking.Status(b.Status), action, operator)
	if err != nil {
		switch {
		case stderrors.Is(err, booking.ErrOperatorOnly):
			return nil, errors.Forbidden(err.Error())
		case stderrors.Is(err, booking.ErrTransitionNotAllowed):
			return nil, errors.Conflict(err.Error())
		default:
			return nil, errors.BadRequest(err.Error())
		}
	}

	if action == booking.ActionActivate {
		if err := s.requireVehicleAvailable(b.VehicleID); err != nil {
			return nil, err
		}
	}
	if action == booking.ActionRefund && b.StripeSessionID != "" && s.payments != nil {
		if err := s.payments.RefundBySession(b.StripeSessionID); err != nil {
			return nil, fmt.Errorf("refunding payment: %w", err)
		}
	}

	from := make([]string, 0, 2)
	for _, st := range booking.SourceStatuses(action) {
		from = append(from, string(st))
	}
	applied, err := s.repo.UpdateStatusIf(id, string(target), from)
	if err != nil {
		return nil, fmt.Errorf("applying transition: %w", err)
	}
	if !applied {
		return nil, errors.Conflict("booking status changed concurrently")
	}
	metrics.IncTransition(string(action))

	s.applyVehicleSideEffect(b.VehicleID, action)

	updated, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifyRenter(updated)
	}
	return updated, nil
}

// applyVehicleSideEffect syncs the vehicle status with the booking
// lifecycle: activation rents the vehicle, completion and cancellation
// release it. Cancellation releases defensively even when the vehicle was
// never marked RENTED.
func (s *BookingService) applyVehicleSideEffect(vehicleID int64, action booking.Action) {
	var status string
	switch action {
	case booking.ActionActivate:
		status = db.VehicleRented
	case booking.ActionComplete, booking.ActionCancel:
		status = db.VehicleAvailable
	default:
		return
	}
	if err := s.vehicles.UpdateStatus(vehicleID, status); err != nil {
		s.log.Error().Err(err).Int64("vehicle_id", vehicleID).Str("status", status).
			Msg("vehicle status sync failed")
	}
}

func (s *BookingService) requireVehicleAvailable(vehicleID int64) error {
	vehicle, err := s.vehicles.GetByID(vehicleID)
	if err != nil {
		return fmt.Errorf("loading vehicle: %w", err)
	}
	if vehicle.Status != db.VehicleAvailable {
		return errors.Conflict("vehicle is not available: " + vehicle.Status)
	}
	return nil
}

func (s *BookingService) notifyRenter(b *db.Booking) {
	// Best effort: the notifier logs its own failures.
	s.notifier.BookingStatusChanged(b.RenterID, b)
}

func (s *BookingService) load(id int64) (*db.Booking, error) {
	b, err := s.repo.GetByID(id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("booking not found")
		}
		return nil, fmt.Errorf("loading booking: %w", err)
	}
	return b, nil
}
