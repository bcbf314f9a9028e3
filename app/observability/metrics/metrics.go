package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	TourGenerationsTotal     metric.Int64Counter
	TourGenerationSeconds    metric.Float64Histogram
	CompletionFallbacksTotal metric.Int64Counter
	PlacesIngestedTotal      metric.Int64Counter
	DbQueryErrorsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("skopje-guide")
		var err error
		m := &AppMetrics{}

		m.TourGenerationsTotal, err = meter.Int64Counter(
			"tour_generations_total",
			metric.WithDescription("Total number of tour generation runs"),
			metric.WithUnit("{run}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create tour_generations_total: %v", err)
		}

		m.TourGenerationSeconds, err = meter.Float64Histogram(
			"tour_generation_duration_seconds",
			metric.WithDescription("Duration of tour generation runs in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create tour_generation_duration_seconds: %v", err)
		}

		m.CompletionFallbacksTotal, err = meter.Int64Counter(
			"completion_fallbacks_total",
			metric.WithDescription("Tour generations that fell back to rule-based selection"),
			metric.WithUnit("{run}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create completion_fallbacks_total: %v", err)
		}

		m.PlacesIngestedTotal, err = meter.Int64Counter(
			"places_ingested_total",
			metric.WithDescription("Places fetched and stored from the maps provider"),
			metric.WithUnit("{place}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create places_ingested_total: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global metrics instance; InitAppMetrics must run first.
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}
