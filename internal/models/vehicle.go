package models

// Vehicle represents one physical car offered for rent
type Vehicle struct {
	ID             uint     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Make           string   `gorm:"column:make;type:varchar(64);not null;index"`
	Model          string   `gorm:"column:model;type:varchar(64);not null"`
	Type           string   `gorm:"column:type;type:varchar(32);not null;index"`
	Year           int      `gorm:"column:year"`
	FuelType       *string  `gorm:"column:fuel_type;type:varchar(32)"`
	EstimatedPrice *float64 `gorm:"column:estimated_price;type:numeric(12,2)"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
