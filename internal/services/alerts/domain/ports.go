package domain

import (
	"context"
	"time"

	rolldom "bandwatch/internal/services/rollups/domain"
	subdom "bandwatch/internal/services/subscribers/domain"
)

// RunnerPort is the external port for one alert run
type RunnerPort interface {
	// Run executes one detection and fan out pass anchored at the given instant
	Run(ctx context.Context, at time.Time) (Summary, error)
}

// DispatcherPort delivers one notification job
// a returned error means this delivery failed, the run keeps going
type DispatcherPort interface {
	Send(ctx context.Context, job Job) error
}

// Ports are dependencies injected into the alerts module
type Ports struct {
	Rollups     rolldom.ReaderPort // required
	Subscribers subdom.ReaderPort  // required
	Dispatcher  DispatcherPort     // required
}
