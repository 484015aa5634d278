package analytics

import "sort"

// ModelEngagement summarizes renter engagement for one make and model.
type ModelEngagement struct {
	Make           string
	Model          string
	Rentals        int
	AvgRating      *float64
	AvgTrips       *float64
	AvgReviewCount *float64
}

// ModelEngagementSummary groups facts by (make, model). AvgTrips is the
// trip total divided by the number of rows in the group, so rows without a
// trip count still weigh in the denominator.
func ModelEngagementSummary(facts []Fact) []ModelEngagement {
	type acc struct {
		rows    int
		rating  mean
		trips   total
		reviews mean
	}

	groups := make(map[modelKey]*acc)
	for _, f := range facts {
		k := modelKey{f.Make, f.Model}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.rows++
		g.rating.add(f.Rating)
		g.trips.add(f.TripsTaken)
		g.reviews.addInt(f.ReviewCount)
	}

	result := make([]ModelEngagement, 0, len(groups))
	for k, g := range groups {
		var avgTrips *float64
		if sum := g.trips.value(); sum != nil {
			avgTrips = floatPtr(float64(*sum) / float64(g.rows))
		}
		result = append(result, ModelEngagement{
			Make:           k.make,
			Model:          k.model,
			Rentals:        g.rows,
			AvgRating:      g.rating.value(),
			AvgTrips:       avgTrips,
			AvgReviewCount: g.reviews.value(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if c := compareDesc(a.AvgTrips, b.AvgTrips); c != 0 {
			return c < 0
		}
		if c := compareDesc(a.AvgRating, b.AvgRating); c != 0 {
			return c < 0
		}
		if c := compareDesc(a.AvgReviewCount, b.AvgReviewCount); c != 0 {
			return c < 0
		}
		return modelKey{a.Make, a.Model}.less(modelKey{b.Make, b.Model})
	})
	return result
}
