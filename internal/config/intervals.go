package config

import "time"

// Backend call timeouts
const (
	// RedisTimeout bounds every Redis round trip made by the report store
	RedisTimeout = 5 * time.Second

	// PostgresSlowThreshold is when GORM starts logging a query as slow
	PostgresSlowThreshold = 500 * time.Millisecond

	// ShutdownTimeout is how long in-flight requests get to finish on SIGTERM
	ShutdownTimeout = 10 * time.Second
)
