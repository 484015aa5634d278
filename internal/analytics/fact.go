package analytics

import "context"

// Fact is one rental joined with its vehicle and location. Reports only
// ever read facts; a slice of them is the snapshot every report runs on.
type Fact struct {
	RentalID       uint     `gorm:"column:rental_id"`
	OwnerID        int64    `gorm:"column:owner_id"`
	VehicleID      uint     `gorm:"column:vehicle_id"`
	Make           string   `gorm:"column:make"`
	Model          string   `gorm:"column:model"`
	Type           string   `gorm:"column:type"`
	Year           int      `gorm:"column:year"`
	FuelType       *string  `gorm:"column:fuel_type"`
	EstimatedPrice *float64 `gorm:"column:estimated_price"`
	LocationID     uint     `gorm:"column:location_id"`
	City           string   `gorm:"column:city"`
	Country        string   `gorm:"column:country"`
	DailyRate      *float64 `gorm:"column:daily_rate"`
	Rating         *float64 `gorm:"column:rating"`
	TripsTaken     *int64   `gorm:"column:trips_taken"`
	ReviewCount    *int64   `gorm:"column:review_count"`
}

// FactSource loads the joined snapshot.
type FactSource interface {
	Facts(ctx context.Context) ([]Fact, error)
}

type modelKey struct {
	make  string
	model string
}

func (k modelKey) less(o modelKey) bool {
	if k.make != o.make {
		return k.make < o.make
	}
	return k.model < o.model
}
