package migration

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rental-analytics/internal/analytics"
)

// reportView is the SQL rendition of one analytics report, exposed as a
// view so the dashboard can read it directly. Column names match the
// report's Columns.
type reportView struct {
	report string
	query  string
}

// ViewName maps a report name to its view, e.g. type-pricing -> rpt_type_pricing.
func ViewName(report string) string {
	return "rpt_" + strings.ReplaceAll(report, "-", "_")
}

var reportViews = []reportView{
	{"model-engagement", `
SELECT v.make, v.model,
	COUNT(*) AS rentals,
	AVG(r.rating) AS avg_rating,
	SUM(r.renter_trips_taken)::numeric / COUNT(*) AS avg_trips,
	AVG(r.review_count) AS avg_review_count
FROM rentals r
JOIN vehicles v ON v.id = r.vehicle_id
GROUP BY v.make, v.model
ORDER BY avg_trips DESC NULLS LAST, avg_rating DESC NULLS LAST, avg_review_count DESC NULLS LAST`},

	{"type-pricing", `
WITH medians AS (
	SELECT v.type,
		COUNT(*) AS rentals,
		percentile_cont(0.5) WITHIN GROUP (ORDER BY r.daily_rate) AS median_daily_rate,
		percentile_cont(0.5) WITHIN GROUP (ORDER BY v.estimated_price) AS median_price
	FROM rentals r
	JOIN vehicles v ON v.id = r.vehicle_id
	WHERE r.renter_trips_taken IS NOT NULL
		AND r.daily_rate IS NOT NULL
		AND v.estimated_price IS NOT NULL
	GROUP BY v.type
)
SELECT type, rentals, median_daily_rate, median_price,
	median_daily_rate / NULLIF(median_price, 0) AS rate_to_price,
	median_price / NULLIF(median_daily_rate, 0) AS days_to_recoup
FROM medians
ORDER BY median_daily_rate DESC`},

	{"weighted-rating", `
SELECT v.make, v.model,
	COUNT(*) AS rated_rentals,
	AVG(r.rating) AS avg_rating,
	SUM(r.renter_trips_taken) AS total_trips,
	0.5 * AVG(r.rating) + 0.5 * SUM(r.renter_trips_taken) AS weighted_score
FROM rentals r
JOIN vehicles v ON v.id = r.vehicle_id
WHERE r.rating IS NOT NULL
GROUP BY v.make, v.model
ORDER BY weighted_score DESC NULLS LAST`},

	{"review-popularity", `
SELECT v.make, v.model,
	SUM(r.review_count) AS total_reviews,
	AVG(r.rating) AS avg_rating
FROM rentals r
JOIN vehicles v ON v.id = r.vehicle_id
GROUP BY v.make, v.model
ORDER BY total_reviews DESC NULLS LAST`},

	{"make-profitability", `
WITH medians AS (
	SELECT v.make,
		percentile_cont(0.5) WITHIN GROUP (ORDER BY r.daily_rate) AS median_daily_rate,
		percentile_cont(0.5) WITHIN GROUP (ORDER BY v.estimated_price) AS median_price
	FROM rentals r
	JOIN vehicles v ON v.id = r.vehicle_id
	GROUP BY v.make
)
SELECT make, median_daily_rate, median_price,
	median_daily_rate / NULLIF(median_price, 0) AS rate_to_price,
	median_price / NULLIF(median_daily_rate, 0) AS days_to_recoup
FROM medians
ORDER BY rate_to_price DESC NULLS LAST`},

	{"type-potential", `
WITH averages AS (
	SELECT v.type,
		AVG(r.daily_rate) AS avg_daily_rate,
		AVG(r.renter_trips_taken) AS avg_trips
	FROM rentals r
	JOIN vehicles v ON v.id = r.vehicle_id
	GROUP BY v.type
),
ranked AS (
	SELECT type, avg_daily_rate, avg_trips,
		RANK() OVER (ORDER BY avg_daily_rate DESC NULLS LAST) AS rate_rank,
		RANK() OVER (ORDER BY avg_trips DESC NULLS LAST) AS trips_rank
	FROM averages
)
SELECT type, avg_daily_rate, avg_trips, rate_rank, trips_rank,
	0.4 * rate_rank + 0.6 * trips_rank AS weighted_score
FROM ranked
ORDER BY weighted_score`},

	{"location-quality", fmt.Sprintf(`
SELECT l.city,
	COUNT(DISTINCT r.vehicle_id) AS distinct_vehicles,
	SUM(r.review_count) AS total_reviews,
	SUM(r.rating * r.review_count) / NULLIF(SUM(r.review_count), 0) AS weighted_rating
FROM rentals r
JOIN locations l ON l.id = r.location_id
WHERE r.rating IS NOT NULL
	AND r.review_count IS NOT NULL
GROUP BY l.city
HAVING COUNT(DISTINCT r.vehicle_id) >= %d
ORDER BY weighted_rating DESC NULLS LAST`, analytics.DefaultMinCityVehicles)},

	{"top-vehicles", `
SELECT v.id AS vehicle_id, v.make, v.model, v.type, v.year, t.total_trips
FROM (
	SELECT vehicle_id, SUM(renter_trips_taken) AS total_trips
	FROM rentals
	GROUP BY vehicle_id
) t
JOIN vehicles v ON v.id = t.vehicle_id
ORDER BY t.total_trips DESC NULLS LAST`},
}

// CreateReportViews creates one rpt_* view per report. The views rely on
// percentile_cont and are only created on PostgreSQL.
func CreateReportViews(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		log.WithField("dialect", tx.Dialector.Name()).Info("skipping report views, dialect has no percentile_cont")
		return nil
	}

	for _, v := range reportViews {
		stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS %s", ViewName(v.report), strings.TrimSpace(v.query))
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create view %s: %w", ViewName(v.report), err)
		}
	}
	return nil
}

func DropReportViews(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}

	for i := len(reportViews) - 1; i >= 0; i-- {
		name := ViewName(reportViews[i].report)
		if err := tx.Exec("DROP VIEW IF EXISTS " + name).Error; err != nil {
			return fmt.Errorf("failed to drop view %s: %w", name, err)
		}
	}
	return nil
}
