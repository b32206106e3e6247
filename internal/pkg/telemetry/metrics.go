package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricSweepLag      = "market.sweep_lag_seconds"
	MetricListingAge    = "market.listing_age_seconds"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricBagsPosted   = "business.bags_posted"
	MetricBagsRescued  = "business.bags_rescued"
	MetricReservations = "business.reservations_created"
)
