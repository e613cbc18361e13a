package constants

import "time"

// Scheduled jobs (UTC)
const (
	// OfferDeadlineReportSchedule runs the expired-offer report daily at 00:15.
	OfferDeadlineReportSchedule = "15 0 * * *"
	OfferDeadlineReportTimeout  = 2 * time.Minute
)

// Database
const (
	DBConnectMaxAttempts    = 5
	DBConnectInitialBackoff = time.Second
	DBPoolMaxConns          = 10
	HealthCheckTimeout      = 3 * time.Second
)
