// Package module implements the rollups module
package module

import (
	"bandwatch/internal/modkit"
	"bandwatch/internal/modkit/httpkit"
	"bandwatch/internal/modkit/repokit"
	"bandwatch/internal/services/rollups/domain"
	"bandwatch/internal/services/rollups/repo"
	"bandwatch/internal/services/rollups/service"
)

// Ports exposed by the rollups module
type Ports struct {
	Reader domain.ReaderPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new rollups module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	modkit.Build(append([]modkit.Option{
		modkit.WithName("rollups"),
	}, opts...)...)

	if deps.PG == nil {
		panic("rollups module: nil PG TxRunner")
	}
	st := repokit.MustBind(repo.NewPG(), deps.PG)

	m := &Module{deps: deps}
	m.ports = Ports{Reader: service.New(st)}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "rollups" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module, rollups has no HTTP surface
func (m *Module) MountRoutes(httpkit.Router) {}
