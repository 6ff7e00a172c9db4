package entities

import (
	"time"

	"rentfleet/internal/db"
)

type VehicleRequest struct {
	Title        string   `json:"title"`
	VehicleType  string   `json:"vehicleType"`
	LicensePlate string   `json:"licensePlate"`
	DailyPrice   int64    `json:"dailyPrice"`
	Currency     string   `json:"currency"`
	Description  string   `json:"description"`
	Photos       []string `json:"photos"`
}

type VehiclePhotoResponse struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
}

type VehicleResponse struct {
	ID           int64                  `json:"id"`
	Title        string                 `json:"title"`
	VehicleType  string                 `json:"vehicleType"`
	LicensePlate string                 `json:"licensePlate"`
	DailyPrice   int64                  `json:"dailyPrice"`
	Currency     string                 `json:"currency"`
	Status       string                 `json:"status"`
	Description  string                 `json:"description,omitempty"`
	Photos       []VehiclePhotoResponse `json:"photos"`
	CreatedAt    time.Time              `json:"createdAt"`
}

func VehicleFromModel(v *db.Vehicle) VehicleResponse {
	photos := make([]VehiclePhotoResponse, 0, len(v.Photos))
	for _, p := range v.Photos {
		photos = append(photos, VehiclePhotoResponse{ID: p.ID, URL: p.URL, IsPrimary: p.IsPrimary})
	}
	return VehicleResponse{
		ID:           v.ID,
		Title:        v.Title,
		VehicleType:  v.VehicleType,
		LicensePlate: v.LicensePlate,
		DailyPrice:   v.DailyPrice,
		Currency:     v.Currency,
		Status:       v.Status,
		Description:  v.Description,
		Photos:       photos,
		CreatedAt:    v.CreatedAt,
	}
}
