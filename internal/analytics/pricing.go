package analytics

import "sort"

// TypePricing is the median rate-to-price relation of a vehicle type.
type TypePricing struct {
	Type            string
	Rentals         int
	MedianDailyRate float64
	MedianPrice     float64
	RateToPrice     *float64
	DaysToRecoup    *float64
}

// TypePricingMedians only considers rows where trips, daily rate and
// estimated price are all present. Medians are used because the price
// distribution carries extreme outliers that would dominate a mean.
func TypePricingMedians(facts []Fact) []TypePricing {
	type acc struct {
		rates  sample
		prices sample
	}

	groups := make(map[string]*acc)
	for _, f := range facts {
		if f.TripsTaken == nil || f.DailyRate == nil || f.EstimatedPrice == nil {
			continue
		}
		g, ok := groups[f.Type]
		if !ok {
			g = &acc{}
			groups[f.Type] = g
		}
		g.rates.add(f.DailyRate)
		g.prices.add(f.EstimatedPrice)
	}

	result := make([]TypePricing, 0, len(groups))
	for vehicleType, g := range groups {
		rate := Median(g.rates)
		price := Median(g.prices)
		result = append(result, TypePricing{
			Type:            vehicleType,
			Rentals:         len(g.rates),
			MedianDailyRate: *rate,
			MedianPrice:     *price,
			RateToPrice:     ratio(rate, price),
			DaysToRecoup:    ratio(price, rate),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].MedianDailyRate != result[j].MedianDailyRate {
			return result[i].MedianDailyRate > result[j].MedianDailyRate
		}
		return result[i].Type < result[j].Type
	})
	return result
}

// MakeProfitability is the median rate-to-price relation of a make.
type MakeProfitability struct {
	Make            string
	MedianDailyRate *float64
	MedianPrice     *float64
	RateToPrice     *float64
	DaysToRecoup    *float64
}

// MakeProfitabilityMedians takes each median over the non-null values of
// its own column, the way percentile_cont skips nulls.
func MakeProfitabilityMedians(facts []Fact) []MakeProfitability {
	type acc struct {
		rates  sample
		prices sample
	}

	groups := make(map[string]*acc)
	for _, f := range facts {
		g, ok := groups[f.Make]
		if !ok {
			g = &acc{}
			groups[f.Make] = g
		}
		g.rates.add(f.DailyRate)
		g.prices.add(f.EstimatedPrice)
	}

	result := make([]MakeProfitability, 0, len(groups))
	for vehicleMake, g := range groups {
		rate := Median(g.rates)
		price := Median(g.prices)
		result = append(result, MakeProfitability{
			Make:            vehicleMake,
			MedianDailyRate: rate,
			MedianPrice:     price,
			RateToPrice:     ratio(rate, price),
			DaysToRecoup:    ratio(price, rate),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if c := compareDesc(result[i].RateToPrice, result[j].RateToPrice); c != 0 {
			return c < 0
		}
		return result[i].Make < result[j].Make
	})
	return result
}
