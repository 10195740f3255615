// Package module wires subscribers into the API using modkit
package module

import (
	"net/http"

	"bandwatch/internal/modkit"
	"bandwatch/internal/modkit/httpkit"
	"bandwatch/internal/platform/net/middleware"
	"bandwatch/internal/services/subscribers/domain"
	shttp "bandwatch/internal/services/subscribers/http"
	"bandwatch/internal/services/subscribers/repo"
	"bandwatch/internal/services/subscribers/service"
)

// Ports exposed by the subscribers module
type Ports struct {
	Reader domain.ReaderPort
	Admin  domain.AdminPort
}

// Module implements modkit.Module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	ports Ports
}

// New constructs the subscribers module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("subscribers"),
		modkit.WithPrefix("/api/v1"),
		modkit.WithMiddlewares(middleware.AllowContentType("application/json")),
	}, opts...)...)

	if deps.PG == nil {
		panic("subscribers module: nil PG TxRunner")
	}
	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
	}
	m.ports = Ports{Reader: svc, Admin: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		shttp.Register(r, m.ports.Admin)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
