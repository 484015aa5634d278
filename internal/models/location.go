package models

// Location represents a distinct (city, country) rental location
type Location struct {
	ID          uint     `gorm:"column:id;primaryKey;autoIncrement:false"`
	City        string   `gorm:"column:city;type:varchar(100);not null;uniqueIndex:idx_locations_city_country"`
	Country     string   `gorm:"column:country;type:char(2);not null;uniqueIndex:idx_locations_city_country"`
	Latitude    *float64 `gorm:"column:latitude;type:numeric(9,6)"`
	Longitude   *float64 `gorm:"column:longitude;type:numeric(9,6)"`
	AirportCity *string  `gorm:"column:airport_city;type:varchar(100)"`
}

func (Location) TableName() string {
	return "locations"
}
