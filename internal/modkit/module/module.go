// Package module defines the minimal module contract plus port discovery helpers
package module

import (
	"bandwatch/internal/modkit/httpkit"
)

// Module is the contract the registry and port helpers operate on
// kept as a sibling of modkit to avoid import knots when a module
// also exports its own ports type
type Module interface {
	MountRoutes(r httpkit.Router)
	Ports() any
	Name() string
}
