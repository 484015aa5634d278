package importer

import "strings"

// Canonical column names of the cleaned dataset.
const (
	colRentalID       = "rental_id"
	colOwnerID        = "owner_id"
	colVehicleID      = "vehicle_id"
	colMake           = "make"
	colModel          = "model"
	colType           = "type"
	colYear           = "year"
	colFuelType       = "fuel_type"
	colEstimatedPrice = "estimated_price"
	colCity           = "city"
	colCountry        = "country"
	colLatitude       = "latitude"
	colLongitude      = "longitude"
	colAirportCity    = "airport_city"
	colDailyRate      = "daily_rate"
	colRating         = "rating"
	colTripsTaken     = "renter_trips_taken"
	colReviewCount    = "review_count"
)

// columnAliases accepts both snake_case headers and the dotted headers of
// the original flat export.
var columnAliases = map[string][]string{
	colRentalID:       {"rental_id", "rental.id"},
	colOwnerID:        {"owner_id", "owner.id", "ownerid"},
	colVehicleID:      {"vehicle_id", "vehicle.id", "vehicleid"},
	colMake:           {"make", "vehicle.make"},
	colModel:          {"model", "vehicle.model"},
	colType:           {"type", "vehicle.type"},
	colYear:           {"year", "vehicle.year"},
	colFuelType:       {"fuel_type", "fueltype"},
	colEstimatedPrice: {"estimated_price", "price", "vehicle.price", "estimatedprice"},
	colCity:           {"city", "location.city"},
	colCountry:        {"country", "location.country"},
	colLatitude:       {"latitude", "location.latitude"},
	colLongitude:      {"longitude", "location.longitude"},
	colAirportCity:    {"airport_city", "airportcity"},
	colDailyRate:      {"daily_rate", "rate.daily"},
	colRating:         {"rating"},
	colTripsTaken:     {"renter_trips_taken", "rentertripstaken", "trips_taken"},
	colReviewCount:    {"review_count", "reviewcount"},
}

var requiredColumns = []string{colOwnerID, colVehicleID, colMake, colModel, colType, colCity, colCountry}

var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"null": true,
	"none": true,
}

// headerIndex maps canonical column names to their position in a header row.
type headerIndex map[string]int

func newHeaderIndex(header []string) (headerIndex, error) {
	lookup := make(map[string]string)
	for canonical, aliases := range columnAliases {
		for _, alias := range aliases {
			lookup[alias] = canonical
		}
	}

	idx := make(headerIndex)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if canonical, ok := lookup[key]; ok {
			if _, dup := idx[canonical]; dup {
				return nil, &RowError{Line: 1, Column: name, Err: ErrDuplicateColumn}
			}
			idx[canonical] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, &RowError{Line: 1, Column: col, Err: ErrMissingColumn}
		}
	}
	return idx, nil
}

// value returns the trimmed cell, or "" when the column is absent.
func (h headerIndex) value(record []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
