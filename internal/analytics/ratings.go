package analytics

import "sort"

// Weights of the rating ranking. The two terms live on different scales
// (ratings are bounded to 0..5, trip totals are not), so the score orders
// groups almost entirely by trip volume. Kept as is; see DESIGN.md.
const (
	RatingWeight = 0.5
	TripsWeight  = 0.5
)

// WeightedRating scores one make and model by rating and trip volume.
type WeightedRating struct {
	Make          string
	Model         string
	RatedRentals  int
	AvgRating     float64
	TotalTrips    *int64
	WeightedScore *float64
}

// WeightedRatingRanking drops unrated rows before grouping, so a group
// whose ratings are all null never appears.
func WeightedRatingRanking(facts []Fact) []WeightedRating {
	type acc struct {
		rating mean
		trips  total
	}

	groups := make(map[modelKey]*acc)
	for _, f := range facts {
		if f.Rating == nil {
			continue
		}
		k := modelKey{f.Make, f.Model}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.rating.add(f.Rating)
		g.trips.add(f.TripsTaken)
	}

	result := make([]WeightedRating, 0, len(groups))
	for k, g := range groups {
		avg := *g.rating.value()
		trips := g.trips.value()

		var score *float64
		if trips != nil {
			score = floatPtr(RatingWeight*avg + TripsWeight*float64(*trips))
		}
		result = append(result, WeightedRating{
			Make:          k.make,
			Model:         k.model,
			RatedRentals:  g.rating.n,
			AvgRating:     avg,
			TotalTrips:    trips,
			WeightedScore: score,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if c := compareDesc(a.WeightedScore, b.WeightedScore); c != 0 {
			return c < 0
		}
		return modelKey{a.Make, a.Model}.less(modelKey{b.Make, b.Model})
	})
	return result
}

// ReviewPopularity is the review volume of one make and model.
type ReviewPopularity struct {
	Make         string
	Model        string
	TotalReviews *int64
	AvgRating    *float64
}

func ReviewPopularityRanking(facts []Fact) []ReviewPopularity {
	type acc struct {
		reviews total
		rating  mean
	}

	groups := make(map[modelKey]*acc)
	for _, f := range facts {
		k := modelKey{f.Make, f.Model}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.reviews.add(f.ReviewCount)
		g.rating.add(f.Rating)
	}

	result := make([]ReviewPopularity, 0, len(groups))
	for k, g := range groups {
		result = append(result, ReviewPopularity{
			Make:         k.make,
			Model:        k.model,
			TotalReviews: g.reviews.value(),
			AvgRating:    g.rating.value(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if c := compareDesc(intPtrToFloat(a.TotalReviews), intPtrToFloat(b.TotalReviews)); c != 0 {
			return c < 0
		}
		return modelKey{a.Make, a.Model}.less(modelKey{b.Make, b.Model})
	})
	return result
}
