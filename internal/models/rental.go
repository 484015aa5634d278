package models

// Rental is the rental-performance record of one vehicle at one location.
// A row may aggregate several underlying trips.
type Rental struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement:false"`
	OwnerID          int64     `gorm:"column:owner_id;not null;index"`
	VehicleID        uint      `gorm:"column:vehicle_id;not null;index"`
	Vehicle          *Vehicle  `gorm:"foreignKey:VehicleID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	LocationID       uint      `gorm:"column:location_id;not null;index"`
	Location         *Location `gorm:"foreignKey:LocationID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	DailyRate        *float64  `gorm:"column:daily_rate;type:numeric(10,2)"`
	Rating           *float64  `gorm:"column:rating;type:numeric(3,2);check:chk_rentals_rating,rating >= 0 AND rating <= 5"`
	RenterTripsTaken *int64    `gorm:"column:renter_trips_taken"`
	ReviewCount      *int64    `gorm:"column:review_count"`
}

func (Rental) TableName() string {
	return "rentals"
}
