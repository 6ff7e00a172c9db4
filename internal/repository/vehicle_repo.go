package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"rentfleet/internal/db"

	"github.com/lib/pq"
)

type VehicleRepository struct {
	DB *sql.DB
}

func NewVehicleRepository(database *sql.DB) *VehicleRepository {
	return &VehicleRepository{DB: database}
}

const vehicleColumns = `id, title, vehicle_type, license_plate, daily_price, currency, status, COALESCE(description, ''), created_at`

func (r *VehicleRepository) Create(vehicle *db.Vehicle, photoURLs []string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO vehicles (title, vehicle_type, license_plate, daily_price, currency, status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err = tx.QueryRow(query, vehicle.Title, vehicle.VehicleType, vehicle.LicensePlate,
		vehicle.DailyPrice, vehicle.Currency, vehicle.Status, vehicle.Description).
		Scan(&vehicle.ID, &vehicle.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting vehicle: %w", err)
	}

	if err := insertPhotos(tx, vehicle.ID, photoURLs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing vehicle insert: %w", err)
	}
	return nil
}

func (r *VehicleRepository) Update(vehicle *db.Vehicle, photoURLs []string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE vehicles
		SET title = $1, vehicle_type = $2, license_plate = $3, daily_price = $4, currency = $5, description = $6
		WHERE id = $7`
	result, err := tx.Exec(query, vehicle.Title, vehicle.VehicleType, vehicle.LicensePlate,
		vehicle.DailyPrice, vehicle.Currency, vehicle.Description, vehicle.ID)
	if err != nil {
		return fmt.Errorf("error updating vehicle: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}

	if photoURLs != nil {
		if _, err := tx.Exec(`DELETE FROM vehicle_photos WHERE vehicle_id = $1`, vehicle.ID); err != nil {
			return fmt.Errorf("error clearing vehicle photos: %w", err)
		}
		if err := insertPhotos(tx, vehicle.ID, photoURLs); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing vehicle update: %w", err)
	}
	return nil
}

func (r *VehicleRepository) Delete(id int64) error {
	result, err := r.DB.Exec(`DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting vehicle: %w", err)
	}
	return requireRow(result)
}

func (r *VehicleRepository) GetByID(id int64) (*db.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	var v db.Vehicle
	err := r.DB.QueryRow(query, id).Scan(&v.ID, &v.Title, &v.VehicleType, &v.LicensePlate,
		&v.DailyPrice, &v.Currency, &v.Status, &v.Description, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := r.attachPhotos([]*db.Vehicle{&v}); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) List() ([]*db.Vehicle, error) {
	return r.Search("", nil, nil)
}

// Search filters by vehicle type and daily price band. Nil bounds are not
// applied; an empty type matches all types.
func (r *VehicleRepository) Search(vehicleType string, minPrice, maxPrice *int64) ([]*db.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	var conditions []string
	var args []interface{}

	if vehicleType != "" {
		args = append(args, vehicleType)
		conditions = append(conditions, fmt.Sprintf("vehicle_type = $%d", len(args)))
	}
	if minPrice != nil {
		args = append(args, *minPrice)
		conditions = append(conditions, fmt.Sprintf("daily_price >= $%d", len(args)))
	}
	if maxPrice != nil {
		args = append(args, *maxPrice)
		conditions = append(conditions, fmt.Sprintf("daily_price <= $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*db.Vehicle
	for rows.Next() {
		var v db.Vehicle
		if err := rows.Scan(&v.ID, &v.Title, &v.VehicleType, &v.LicensePlate,
			&v.DailyPrice, &v.Currency, &v.Status, &v.Description, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating vehicles: %w", err)
	}
	if err := r.attachPhotos(vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) UpdateStatus(id int64, status string) error {
	result, err := r.DB.Exec(`UPDATE vehicles SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating vehicle status: %w", err)
	}
	return requireRow(result)
}

func (r *VehicleRepository) attachPhotos(vehicles []*db.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(vehicles))
	byID := make(map[int64]*db.Vehicle, len(vehicles))
	for _, v := range vehicles {
		ids = append(ids, v.ID)
		byID[v.ID] = v
		v.Photos = []db.VehiclePhoto{}
	}

	query := `SELECT id, vehicle_id, url, is_primary, created_at
		FROM vehicle_photos WHERE vehicle_id = ANY($1)
		ORDER BY is_primary DESC, id`
	rows, err := r.DB.Query(query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error querying vehicle photos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p db.VehiclePhoto
		if err := rows.Scan(&p.ID, &p.VehicleID, &p.URL, &p.IsPrimary, &p.CreatedAt); err != nil {
			return fmt.Errorf("error scanning vehicle photo: %w", err)
		}
		if v, ok := byID[p.VehicleID]; ok {
			v.Photos = append(v.Photos, p)
		}
	}
	return rows.Err()
}

func insertPhotos(tx *sql.Tx, vehicleID int64, urls []string) error {
	for i, url := range urls {
		_, err := tx.Exec(`INSERT INTO vehicle_photos (vehicle_id, url, is_primary) VALUES ($1, $2, $3)`,
			vehicleID, url, i == 0)
		if err != nil {
			return fmt.Errorf("error inserting vehicle photo: %w", err)
		}
	}
	return nil
}
