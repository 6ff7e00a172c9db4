package service

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"rentfleet/internal/booking"
	"rentfleet/internal/cache"
	"rentfleet/internal/db"
	"rentfleet/internal/entities"
	"rentfleet/internal/errors"
)

type VehicleService struct {
	repo     VehicleStore
	bookings BookingStore
	cache    *cache.VehicleCache
}

func NewVehicleService(repo VehicleStore, bookings BookingStore, vehicleCache *cache.VehicleCache) *VehicleService {
	return &VehicleService{repo: repo, bookings: bookings, cache: vehicleCache}
}

func (s *VehicleService) List() ([]*db.Vehicle, error) {
	if vehicles, ok := s.cache.Get(); ok {
		return vehicles, nil
	}
	vehicles, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	s.cache.Set(vehicles)
	return vehicles, nil
}

func (s *VehicleService) Get(id int64) (*db.Vehicle, error) {
	vehicle, err := s.repo.GetByID(id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("vehicle not found")
		}
		return nil, fmt.Errorf("loading vehicle: %w", err)
	}
	return vehicle, nil
}

// Search filters by type and price band; when a time window is supplied it
// also drops vehicles with a blocking booking in that window.
func (s *VehicleService) Search(vehicleType string, minPrice, maxPrice *int64, startAt, endAt *time.Time) ([]*db.Vehicle, error) {
	if vehicleType != "" && !db.ValidVehicleType(vehicleType) {
		return nil, errors.BadRequest("unknown vehicle type: " + vehicleType)
	}
	vehicles, err := s.repo.Search(vehicleType, minPrice, maxPrice)
	if err != nil {
		return nil, fmt.Errorf("searching vehicles: %w", err)
	}

	if startAt != nil && endAt != nil {
		if !endAt.After(*startAt) {
			return nil, errors.BadRequest("endAt must be after startAt")
		}
		busy, err := s.bookings.VehicleIDsWithOverlap(*startAt, *endAt)
		if err != nil {
			return nil, fmt.Errorf("checking availability: %w", err)
		}
		busySet := make(map[int64]struct{}, len(busy))
		for _, id := range busy {
			busySet[id] = struct{}{}
		}
		filtered := vehicles[:0]
		for _, v := range vehicles {
			if _, taken := busySet[v.ID]; !taken {
				filtered = append(filtered, v)
			}
		}
		vehicles = filtered
	}
	return vehicles, nil
}

// Quote returns the advisory price estimate for renting the vehicle over
// [startAt, endAt). The booking create path runs the same arithmetic.
func (s *VehicleService) Quote(id int64, startAt, endAt time.Time) (booking.Quote, error) {
	vehicle, err := s.Get(id)
	if err != nil {
		return booking.Quote{}, err
	}
	q, err := booking.NewQuote(vehicle.DailyPrice, vehicle.Currency, startAt, endAt)
	if err != nil {
		return booking.Quote{}, errors.BadRequest(err.Error())
	}
	return q, nil
}

func (s *VehicleService) Create(req entities.VehicleRequest) (*db.Vehicle, error) {
	if err := validateVehicleRequest(req); err != nil {
		return nil, err
	}
	vehicle := &db.Vehicle{
		Title:        req.Title,
		VehicleType:  req.VehicleType,
		LicensePlate: req.LicensePlate,
		DailyPrice:   req.DailyPrice,
		Currency:     strings.ToUpper(req.Currency),
		Status:       db.VehicleAvailable,
		Description:  req.Description,
	}
	if err := s.repo.Create(vehicle, req.Photos); err != nil {
		return nil, fmt.Errorf("creating vehicle: %w", err)
	}
	s.cache.Invalidate()
	return s.Get(vehicle.ID)
}

func (s *VehicleService) Update(id int64, req entities.VehicleRequest) (*db.Vehicle, error) {
	if err := validateVehicleRequest(req); err != nil {
		return nil, err
	}
	vehicle, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	vehicle.Title = req.Title
	vehicle.VehicleType = req.VehicleType
	vehicle.LicensePlate = req.LicensePlate
	vehicle.DailyPrice = req.DailyPrice
	vehicle.Currency = strings.ToUpper(req.Currency)
	vehicle.Description = req.Description

	if err := s.repo.Update(vehicle, req.Photos); err != nil {
		return nil, fmt.Errorf("updating vehicle: %w", err)
	}
	s.cache.Invalidate()
	return s.Get(id)
}

func (s *VehicleService) Delete(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFound("vehicle not found")
		}
		return fmt.Errorf("deleting vehicle: %w", err)
	}
	s.cache.Invalidate()
	return nil
}

func validateVehicleRequest(req entities.VehicleRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return errors.BadRequest("title is required")
	}
	if !db.ValidVehicleType(req.VehicleType) {
		return errors.BadRequest("unknown vehicle type: " + req.VehicleType)
	}
	if strings.TrimSpace(req.LicensePlate) == "" {
		return errors.BadRequest("licensePlate is required")
	}
	if req.DailyPrice < 0 {
		return errors.BadRequest("dailyPrice must not be negative")
	}
	if len(req.Currency) != 3 {
		return errors.BadRequest("currency must be a 3-letter code")
	}
	return nil
}
