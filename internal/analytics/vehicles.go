package analytics

import "sort"

// VehicleTrips is the trip total of one individual vehicle.
type VehicleTrips struct {
	VehicleID  uint
	Make       string
	Model      string
	Type       string
	Year       int
	TotalTrips *int64
}

// MostRentedVehicles is keyed by vehicle identifier rather than by class:
// it answers which specific car is rented most.
func MostRentedVehicles(facts []Fact) []VehicleTrips {
	type acc struct {
		vehicle VehicleTrips
		trips   total
	}

	groups := make(map[uint]*acc)
	for _, f := range facts {
		g, ok := groups[f.VehicleID]
		if !ok {
			g = &acc{vehicle: VehicleTrips{
				VehicleID: f.VehicleID,
				Make:      f.Make,
				Model:     f.Model,
				Type:      f.Type,
				Year:      f.Year,
			}}
			groups[f.VehicleID] = g
		}
		g.trips.add(f.TripsTaken)
	}

	result := make([]VehicleTrips, 0, len(groups))
	for _, g := range groups {
		v := g.vehicle
		v.TotalTrips = g.trips.value()
		result = append(result, v)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if c := compareDesc(intPtrToFloat(a.TotalTrips), intPtrToFloat(b.TotalTrips)); c != 0 {
			return c < 0
		}
		return a.VehicleID < b.VehicleID
	})
	return result
}
