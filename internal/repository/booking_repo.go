package repository

import (
	"database/sql"
	"fmt"
	"time"

	"rentfleet/internal/db"

	"github.com/lib/pq"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

const bookingColumns = `b.id, b.vehicle_id, v.title, v.vehicle_type, b.renter_id, b.status,
	b.start_at, b.end_at, b.daily_price_snapshot, b.total_amount, b.currency,
	COALESCE(b.notes, ''), COALESCE(b.stripe_session_id, ''), b.created_at, b.updated_at`

const bookingJoin = `FROM bookings b JOIN vehicles v ON v.id = b.vehicle_id`

func (r *BookingRepository) Create(booking *db.Booking) error {
	query := `INSERT INTO bookings (vehicle_id, renter_id, status, start_at, end_at,
			daily_price_snapshot, total_amount, currency, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query, booking.VehicleID, booking.RenterID, booking.Status,
		booking.StartAt, booking.EndAt, booking.DailyPriceSnapshot, booking.TotalAmount,
		booking.Currency, booking.Notes).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(id int64) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` ` + bookingJoin + ` WHERE b.id = $1`
	return r.scanBooking(r.DB.QueryRow(query, id))
}

func (r *BookingRepository) ListByRenter(renterID int64) ([]*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` ` + bookingJoin + `
		WHERE b.renter_id = $1 ORDER BY b.created_at DESC`
	return r.queryBookings(query, renterID)
}

func (r *BookingRepository) ListAll() ([]*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` ` + bookingJoin + ` ORDER BY b.created_at DESC`
	return r.queryBookings(query)
}

// CountOverlapping counts bookings for the vehicle whose window intersects
// [startAt, endAt) and whose status still blocks the vehicle.
func (r *BookingRepository) CountOverlapping(vehicleID int64, startAt, endAt time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM bookings
		WHERE vehicle_id = $1
		  AND status IN ('PENDING', 'CONFIRMED', 'ACTIVE')
		  AND start_at < $3 AND end_at > $2`
	var count int
	if err := r.DB.QueryRow(query, vehicleID, startAt, endAt).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting overlapping bookings: %w", err)
	}
	return count, nil
}

// VehicleIDsWithOverlap returns ids of vehicles that have a blocking booking
// intersecting [startAt, endAt). Used by date-availability search.
func (r *BookingRepository) VehicleIDsWithOverlap(startAt, endAt time.Time) ([]int64, error) {
	query := `SELECT DISTINCT vehicle_id FROM bookings
		WHERE status IN ('PENDING', 'CONFIRMED', 'ACTIVE')
		  AND start_at < $2 AND end_at > $1`
	rows, err := r.DB.Query(query, startAt, endAt)
	if err != nil {
		return nil, fmt.Errorf("error querying overlapping vehicles: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning vehicle id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateStatusIf moves the booking to status only when its current status is
// one of from. Returns false when another writer got there first; the caller
// treats that as a lost race, not an error.
func (r *BookingRepository) UpdateStatusIf(id int64, status string, from []string) (bool, error) {
	query := `UPDATE bookings SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = ANY($3)`
	result, err := r.DB.Exec(query, status, id, pq.Array(from))
	if err != nil {
		return false, fmt.Errorf("error updating booking status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *BookingRepository) SetStripeSession(id int64, sessionID string) error {
	result, err := r.DB.Exec(`UPDATE bookings SET stripe_session_id = $1, updated_at = NOW() WHERE id = $2`,
		sessionID, id)
	if err != nil {
		return fmt.Errorf("error setting stripe session: %w", err)
	}
	return requireRow(result)
}

func (r *BookingRepository) scanBooking(row *sql.Row) (*db.Booking, error) {
	var b db.Booking
	err := row.Scan(&b.ID, &b.VehicleID, &b.VehicleTitle, &b.VehicleType, &b.RenterID, &b.Status,
		&b.StartAt, &b.EndAt, &b.DailyPriceSnapshot, &b.TotalAmount, &b.Currency,
		&b.Notes, &b.StripeSessionID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) queryBookings(query string, args ...interface{}) ([]*db.Booking, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*db.Booking
	for rows.Next() {
		var b db.Booking
		if err := rows.Scan(&b.ID, &b.VehicleID, &b.VehicleTitle, &b.VehicleType, &b.RenterID, &b.Status,
			&b.StartAt, &b.EndAt, &b.DailyPriceSnapshot, &b.TotalAmount, &b.Currency,
			&b.Notes, &b.StripeSessionID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return bookings, nil
}
