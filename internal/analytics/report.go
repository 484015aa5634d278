package analytics

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownReport = errors.New("unknown report")

// Table is a report result with stable column names. A nil cell is a
// SQL null.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// Options carries the only tunable input of the reports.
type Options struct {
	MinCityVehicles int
}

// Report is one read-only computation over the fact snapshot.
type Report struct {
	Name        string
	Description string
	Columns     []string
	build       func(facts []Fact, opts Options) [][]interface{}
}

// Run computes the report over facts.
func (r Report) Run(facts []Fact, opts Options) *Table {
	rows := r.build(facts, opts)
	if rows == nil {
		rows = [][]interface{}{}
	}
	return &Table{Name: r.Name, Columns: r.Columns, Rows: rows}
}

var reports = []Report{
	{
		Name:        "model-engagement",
		Description: "Average rating, trips and reviews per make and model",
		Columns:     []string{"make", "model", "rentals", "avg_rating", "avg_trips", "avg_review_count"},
		build: func(facts []Fact, _ Options) [][]interface{} {
			var rows [][]interface{}
			for _, r := range ModelEngagementSummary(facts) {
				rows = append(rows, []interface{}{r.Make, r.Model, r.Rentals, cell(r.AvgRating), cell(r.AvgTrips), cell(r.AvgReviewCount)})
			}
			return rows
		},
	},
	{
		Name:        "type-pricing",
		Description: "Median daily rate against median price per vehicle type",
		Columns:     []string{"type", "rentals", "median_daily_rate", "median_price", "rate_to_price", "days_to_recoup"},
		build: func(facts []Fact, _ Options) [][]interface{} {
			var rows [][]interface{}
			for _, r := range TypePricingMedians(facts) {
				rows = append(rows, []interface{}{r.Type, r.Rentals, r.MedianDailyRate, r.MedianPrice, cell(r.RateToPrice), cell(r.DaysToRecoup)})
			}
			return rows
		},
	},
	{
		Name:        "weighted-rating",
		Description: "Make and model ranked by 0.5 x rating + 0.5 x total trips",
		Columns:     []string{"make", "model", "rated_rentals", "avg_rating", "total_trips", "weighted_score"},
		build: func(facts []Fact, _ Options) [][]interface{} {
			var rows [][]interface{}
			for _, r := range WeightedRatingRanking(facts) {
				rows = append(rows, []interface{}{r.Make, r.Model, r.RatedRentals, r.AvgRating, intCell(r.TotalTrips), cell(r.WeightedScore)})
			}
			return rows
		},
	},
	{
		Name:        "review-popularity",
		Description: "Make and model ranked by total review count",
		Columns:     []string{"make", "model", "total_reviews", "avg_rating"},
		build: func(facts []Fact, _ Options) [][]interface{} {
			var rows [][]interface{}
			for _, r := range ReviewPopularityRanking(facts) {
				rows = append(rows, []interface{}{r.Make, r.Model, intCell(r.TotalReviews), cell(r.AvgRating)})
			}
			return rows
		},
	},
	{
		Name:        "make-profitability",
		Description: "Median daily rate against median price per make",
		Columns:     []string{"make", "median_daily_rate", "median_price", "rate_to_price", "days_to_recoup"},
		build: func(facts []Fact, _ Options) [][]interface{} {
			var rows [][]interface{}
			for _, r := range MakeProfitabilityMedians(facts) {
				rows = append(rows, []interface{}{r.Make, cell(r.MedianDailyRate), cell(r.MedianPrice), cell(r.RateToPrice), cell(r.DaysToRecoup)})
			}
			return rows
		},
	},
	{
		Name:        "type-potential",
		Description: "Vehicle types ranked by 0.4 x rate rank + 0.6 x trips rank",
		Columns:     []string{"type", "avg_daily_rate", "avg_trips", "rate_rank", "trips_rank", "weighted_score"},
		build: func(facts []Fact, _ Options) [][]interface{} {
			var rows [][]interface{}
			for _, r := range TypePotentialRanking(facts) {
				rows = append(rows, []interface{}{r.Type, cell(r.AvgDailyRate), cell(r.AvgTrips), r.RateRank, r.TripsRank, r.WeightedScore})
			}
			return rows
		},
	},
	{
		Name:        "location-quality",
		Description: "Cities ranked by review-weighted rating",
		Columns:     []string{"city", "distinct_vehicles", "total_reviews", "weighted_rating"},
		build: func(facts []Fact, opts Options) [][]interface{} {
			var rows [][]interface{}
			for _, r := range LocationQualityRanking(facts, opts.MinCityVehicles) {
				rows = append(rows, []interface{}{r.City, r.DistinctVehicles, r.TotalReviews, cell(r.WeightedRating)})
			}
			return rows
		},
	},
	{
		Name:        "top-vehicles",
		Description: "Individual vehicles ranked by total trips",
		Columns:     []string{"vehicle_id", "make", "model", "type", "year", "total_trips"},
		build: func(facts []Fact, _ Options) [][]interface{} {
			var rows [][]interface{}
			for _, r := range MostRentedVehicles(facts) {
				rows = append(rows, []interface{}{r.VehicleID, r.Make, r.Model, r.Type, r.Year, intCell(r.TotalTrips)})
			}
			return rows
		},
	},
}

// Reports returns every report in presentation order.
func Reports() []Report {
	out := make([]Report, len(reports))
	copy(out, reports)
	return out
}

func Lookup(name string) (Report, error) {
	for _, r := range reports {
		if r.Name == name {
			return r, nil
		}
	}
	return Report{}, fmt.Errorf("%w: %q", ErrUnknownReport, name)
}

// Run loads a snapshot from src and computes the named report.
func Run(ctx context.Context, src FactSource, name string, opts Options) (*Table, error) {
	report, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	facts, err := src.Facts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load facts: %w", err)
	}
	return report.Run(facts, opts), nil
}

// RunAll computes every report over a single snapshot.
func RunAll(ctx context.Context, src FactSource, opts Options) ([]*Table, error) {
	facts, err := src.Facts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load facts: %w", err)
	}
	tables := make([]*Table, 0, len(reports))
	for _, r := range reports {
		tables = append(tables, r.Run(facts, opts))
	}
	return tables, nil
}

func cell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func intCell(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
