package analytics

import "sort"

// DefaultMinCityVehicles is the reliability threshold of the location
// ranking: cities with fewer distinct vehicles are left out entirely.
const DefaultMinCityVehicles = 30

// LocationQuality is the review-weighted rating of one city.
type LocationQuality struct {
	City             string
	DistinctVehicles int
	TotalReviews     int64
	WeightedRating   *float64
}

// LocationQualityRanking weights every rating by its review count:
// sum(rating * reviews) / sum(reviews). A city whose review counts are all
// zero gets a null rating rather than a division error.
func LocationQualityRanking(facts []Fact, minVehicles int) []LocationQuality {
	if minVehicles <= 0 {
		minVehicles = DefaultMinCityVehicles
	}

	type acc struct {
		vehicles map[uint]struct{}
		weighted float64
		reviews  int64
	}

	groups := make(map[string]*acc)
	for _, f := range facts {
		if f.Rating == nil || f.ReviewCount == nil {
			continue
		}
		g, ok := groups[f.City]
		if !ok {
			g = &acc{vehicles: make(map[uint]struct{})}
			groups[f.City] = g
		}
		g.vehicles[f.VehicleID] = struct{}{}
		g.weighted += *f.Rating * float64(*f.ReviewCount)
		g.reviews += *f.ReviewCount
	}

	result := make([]LocationQuality, 0, len(groups))
	for city, g := range groups {
		if len(g.vehicles) < minVehicles {
			continue
		}
		result = append(result, LocationQuality{
			City:             city,
			DistinctVehicles: len(g.vehicles),
			TotalReviews:     g.reviews,
			WeightedRating:   ratio(floatPtr(g.weighted), floatPtr(float64(g.reviews))),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if c := compareDesc(result[i].WeightedRating, result[j].WeightedRating); c != 0 {
			return c < 0
		}
		return result[i].City < result[j].City
	})
	return result
}
