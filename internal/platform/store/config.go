package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// Boot probing knobs, zero values take the package defaults
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures the clickhouse audit sink
type CHConfig struct {
	Enabled bool
	URL     string
	Role    string
}
