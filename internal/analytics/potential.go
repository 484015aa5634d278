package analytics

import "sort"

const (
	RateRankWeight  = 0.4
	TripsRankWeight = 0.6
)

// TypePotential combines the rate rank and trips rank of a vehicle type.
// Lower scores mean better rental potential.
type TypePotential struct {
	Type          string
	AvgDailyRate  *float64
	AvgTrips      *float64
	RateRank      int
	TripsRank     int
	WeightedScore float64
}

func TypePotentialRanking(facts []Fact) []TypePotential {
	type acc struct {
		rate  mean
		trips mean
	}

	groups := make(map[string]*acc)
	var order []string
	for _, f := range facts {
		g, ok := groups[f.Type]
		if !ok {
			g = &acc{}
			groups[f.Type] = g
			order = append(order, f.Type)
		}
		g.rate.add(f.DailyRate)
		g.trips.addInt(f.TripsTaken)
	}
	sort.Strings(order)

	result := make([]TypePotential, len(order))
	rates := make([]*float64, len(order))
	trips := make([]*float64, len(order))
	for i, vehicleType := range order {
		g := groups[vehicleType]
		rates[i] = g.rate.value()
		trips[i] = g.trips.value()
		result[i] = TypePotential{
			Type:         vehicleType,
			AvgDailyRate: rates[i],
			AvgTrips:     trips[i],
		}
	}

	rateRanks := CompetitionRank(rates)
	tripsRanks := CompetitionRank(trips)
	for i := range result {
		result[i].RateRank = rateRanks[i]
		result[i].TripsRank = tripsRanks[i]
		result[i].WeightedScore = RateRankWeight*float64(rateRanks[i]) + TripsRankWeight*float64(tripsRanks[i])
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].WeightedScore < result[j].WeightedScore
	})
	return result
}
