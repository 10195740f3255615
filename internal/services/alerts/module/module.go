// Package module implements the alerts module
package module

import (
	"bandwatch/internal/modkit"
	"bandwatch/internal/modkit/httpkit"
	"bandwatch/internal/modkit/repokit"
	"bandwatch/internal/services/alerts/domain"
	"bandwatch/internal/services/alerts/repo"
	"bandwatch/internal/services/alerts/service"
)

// Ports exposed by the alerts module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new alerts module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("alerts"),
	}, opts...)...)

	// Basic guardrails against incorrect wiring
	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("alerts module: expected WithPorts(alerts/domain.Ports)")
	}
	if ports.Rollups == nil || ports.Subscribers == nil || ports.Dispatcher == nil {
		panic("alerts module: Ports missing Rollups, Subscribers, or Dispatcher")
	}

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.RecentSpan != 0 {
		cfg.RecentSpan = overrides.RecentSpan
	}
	if overrides.BaselineSpan != 0 {
		cfg.BaselineSpan = overrides.BaselineSpan
	}
	if overrides.SpikeThreshold != 0 {
		cfg.SpikeThreshold = overrides.SpikeThreshold
	}
	if overrides.SendWorkers != 0 {
		cfg.SendWorkers = overrides.SendWorkers
	}
	if overrides.TopArtists != 0 {
		cfg.TopArtists = overrides.TopArtists
	}
	// bool overrides win (default false if caller didn't set)
	cfg.DryRun = cfg.DryRun || overrides.DryRun
	cfg.SuppressRepeats = cfg.SuppressRepeats || overrides.SuppressRepeats

	runner := service.New(
		ports.Rollups,
		ports.Subscribers,
		ports.Dispatcher,
		service.Config{
			RecentSpan:      cfg.RecentSpan,
			BaselineSpan:    cfg.BaselineSpan,
			SpikeThreshold:  cfg.SpikeThreshold,
			SendWorkers:     cfg.SendWorkers,
			TopArtists:      cfg.TopArtists,
			SuppressRepeats: cfg.SuppressRepeats,
			DryRun:          cfg.DryRun,
		},
	)
	if cfg.SuppressRepeats && deps.PG != nil {
		runner.WithState(repokit.MustBind(repo.NewPG(), deps.PG))
	}
	if deps.CH != nil {
		runner.WithAudit(deps.CH)
	}

	m := &Module{deps: deps}
	m.ports = Ports{Runner: runner}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "alerts" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module, alerts has no HTTP surface
func (m *Module) MountRoutes(httpkit.Router) {}
