package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetActiveBookingIDsPastEnd finds ACTIVE bookings whose window has ended.
func (r *JobRepository) GetActiveBookingIDsPastEnd() ([]int64, error) {
	query := `SELECT id FROM bookings WHERE status = 'ACTIVE' AND end_at < NOW()`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying active bookings past end time: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CompleteBookings marks the bookings COMPLETED and releases their vehicles.
func (r *JobRepository) CompleteBookings(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE bookings SET status = 'COMPLETED', updated_at = NOW() WHERE id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error completing bookings: %w", err)
	}
	_, err = tx.Exec(`UPDATE vehicles SET status = 'AVAILABLE'
		WHERE status = 'RENTED' AND id IN (SELECT vehicle_id FROM bookings WHERE id = ANY($1))`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error releasing vehicles: %w", err)
	}
	return tx.Commit()
}

// CancelStalePending cancels PENDING bookings created before the given time.
func (r *JobRepository) CancelStalePending(before time.Time) (int64, error) {
	result, err := r.DB.Exec(
		`UPDATE bookings SET status = 'CANCELLED', updated_at = NOW()
		WHERE status = 'PENDING' AND created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("error cancelling stale pending bookings: %w", err)
	}
	return result.RowsAffected()
}
