package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"rental-analytics/internal/models"
)

// Dataset is the normalized form of a flat file: each entity once, rentals
// referencing them by id.
type Dataset struct {
	Vehicles  []models.Vehicle
	Locations []models.Location
	Rentals   []models.Rental
}

type locationKey struct {
	city    string
	country string
}

// Parse splits the denormalized CSV into the three entities. Locations are
// deduplicated on (city, country) and numbered in first-seen order.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &RowError{Line: 1, Column: "header", Err: ErrMissingColumn}
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx, err := newHeaderIndex(header)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	vehicles := make(map[uint]int)
	locations := make(map[locationKey]uint)
	rentals := make(map[uint]bool)

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		p := rowParser{idx: idx, record: record, line: line}

		vehicle := p.vehicle()
		location := p.location()
		rental := p.rental()
		if p.err != nil {
			return nil, p.err
		}

		if pos, seen := vehicles[vehicle.ID]; seen {
			if !sameVehicle(ds.Vehicles[pos], vehicle) {
				return nil, &RowError{Line: line, Column: colVehicleID, Err: fmt.Errorf("%w: %d", ErrVehicleConflict, vehicle.ID)}
			}
		} else {
			vehicles[vehicle.ID] = len(ds.Vehicles)
			ds.Vehicles = append(ds.Vehicles, vehicle)
		}

		key := locationKey{location.City, location.Country}
		locationID, seen := locations[key]
		if !seen {
			locationID = uint(len(ds.Locations) + 1)
			location.ID = locationID
			locations[key] = locationID
			ds.Locations = append(ds.Locations, location)
		}

		if rental.ID == 0 {
			rental.ID = uint(len(ds.Rentals) + 1)
		}
		if rentals[rental.ID] {
			return nil, &RowError{Line: line, Column: colRentalID, Err: fmt.Errorf("%w: %d", ErrDuplicateRental, rental.ID)}
		}
		rentals[rental.ID] = true

		rental.VehicleID = vehicle.ID
		rental.LocationID = locationID
		ds.Rentals = append(ds.Rentals, rental)
	}

	return ds, nil
}

// rowParser converts one record, keeping the first error it meets.
type rowParser struct {
	idx    headerIndex
	record []string
	line   int
	err    error
}

func (p *rowParser) fail(column string, err error) {
	if p.err == nil {
		p.err = &RowError{Line: p.line, Column: column, Err: err}
	}
}

func (p *rowParser) raw(column string) (string, bool) {
	v := p.idx.value(p.record, column)
	if nullTokens[strings.ToLower(v)] {
		return "", false
	}
	return v, true
}

func (p *rowParser) required(column string) string {
	v, ok := p.raw(column)
	if !ok {
		p.fail(column, fmt.Errorf("%w: empty", ErrInvalidValue))
	}
	return v
}

func (p *rowParser) optionalString(column string, normalize func(string) string) *string {
	v, ok := p.raw(column)
	if !ok {
		return nil
	}
	v = normalize(v)
	return &v
}

func (p *rowParser) optionalFloat(column string, min, max float64) *float64 {
	v, ok := p.raw(column)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.fail(column, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v))
		return nil
	}
	if f < min || f > max {
		p.fail(column, fmt.Errorf("%w: %v outside [%v, %v]", ErrInvalidValue, f, min, max))
		return nil
	}
	return &f
}

// optionalCount accepts integral floats ("12.0") as written by imputation tools.
func (p *rowParser) optionalCount(column string) *int64 {
	v, ok := p.raw(column)
	if !ok {
		return nil
	}
	n, err := parseInteger(v)
	if err != nil {
		p.fail(column, err)
		return nil
	}
	if n < 0 {
		p.fail(column, fmt.Errorf("%w: %d is negative", ErrInvalidValue, n))
		return nil
	}
	return &n
}

func (p *rowParser) id(column string, required bool) uint64 {
	v, ok := p.raw(column)
	if !ok {
		if required {
			p.fail(column, fmt.Errorf("%w: empty", ErrInvalidValue))
		}
		return 0
	}
	n, err := parseInteger(v)
	if err != nil {
		p.fail(column, err)
		return 0
	}
	if n <= 0 {
		p.fail(column, fmt.Errorf("%w: id must be positive, got %d", ErrInvalidValue, n))
		return 0
	}
	return uint64(n)
}

func (p *rowParser) vehicle() models.Vehicle {
	v := models.Vehicle{
		ID:             uint(p.id(colVehicleID, true)),
		Make:           p.required(colMake),
		Model:          p.required(colModel),
		Type:           strings.ToLower(p.required(colType)),
		FuelType:       p.optionalString(colFuelType, strings.ToLower),
		EstimatedPrice: p.optionalFloat(colEstimatedPrice, 0, math.MaxFloat64),
	}
	if year := p.optionalCount(colYear); year != nil {
		v.Year = int(*year)
	}
	return v
}

func (p *rowParser) location() models.Location {
	country := strings.ToUpper(p.required(colCountry))
	if country != "" && !isCountryCode(country) {
		p.fail(colCountry, fmt.Errorf("%w: %q is not a two-letter country code", ErrInvalidValue, country))
	}
	return models.Location{
		City:        p.required(colCity),
		Country:     country,
		Latitude:    p.optionalFloat(colLatitude, -90, 90),
		Longitude:   p.optionalFloat(colLongitude, -180, 180),
		AirportCity: p.optionalString(colAirportCity, strings.TrimSpace),
	}
}

func (p *rowParser) rental() models.Rental {
	return models.Rental{
		ID:               uint(p.id(colRentalID, false)),
		OwnerID:          int64(p.id(colOwnerID, true)),
		DailyRate:        p.optionalFloat(colDailyRate, 0, math.MaxFloat64),
		Rating:           p.optionalFloat(colRating, 0, 5),
		RenterTripsTaken: p.optionalCount(colTripsTaken),
		ReviewCount:      p.optionalCount(colReviewCount),
	}
}

func parseInteger(v string) (int64, error) {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, v)
	}
	return int64(f), nil
}

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func sameVehicle(a, b models.Vehicle) bool {
	return a.Make == b.Make &&
		a.Model == b.Model &&
		a.Type == b.Type &&
		a.Year == b.Year &&
		equalPtr(a.FuelType, b.FuelType) &&
		equalPtr(a.EstimatedPrice, b.EstimatedPrice)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
