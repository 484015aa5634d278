package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rental-analytics/internal/analytics"
	"rental-analytics/internal/models"
)

// FactReader loads the joined rental snapshot the reports run on.
type FactReader struct {
	db *gorm.DB
}

func NewFactReader(db *gorm.DB) *FactReader {
	return &FactReader{db: db}
}

// Facts runs one inner join of rentals against vehicles and locations.
func (r *FactReader) Facts(ctx context.Context) ([]analytics.Fact, error) {
	var facts []analytics.Fact

	err := r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Select(`rentals.id AS rental_id,
			rentals.owner_id,
			rentals.vehicle_id,
			vehicles.make,
			vehicles.model,
			vehicles.type,
			vehicles.year,
			vehicles.fuel_type,
			vehicles.estimated_price,
			rentals.location_id,
			locations.city,
			locations.country,
			rentals.daily_rate,
			rentals.rating,
			rentals.renter_trips_taken AS trips_taken,
			rentals.review_count`).
		Joins("JOIN vehicles ON vehicles.id = rentals.vehicle_id").
		Joins("JOIN locations ON locations.id = rentals.location_id").
		Order("rentals.id").
		Scan(&facts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rental facts: %w", err)
	}

	return facts, nil
}
