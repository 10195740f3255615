// Package modkit provides module wiring and core deps
package modkit

import (
	"bandwatch/internal/modkit/httpkit"
)

// Module is the common surface for service modules
// modules mount optional HTTP routes and expose ports for cross wiring
type Module interface {
	MountRoutes(r httpkit.Router)
	Ports() any
	Name() string
}

// Builder constructs a Module from shared deps and options
// modules typically expose New(deps Deps, opts ...Option) following this shape
type Builder func(Deps, ...Option) Module
