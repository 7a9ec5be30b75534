// Package module implements the insights service module
package module

import (
	"soullatino/internal/modkit"
	"soullatino/internal/modkit/httpkit"
	"soullatino/internal/services/insights/domain"
	"soullatino/internal/services/insights/repo"
	"soullatino/internal/services/insights/service"
)

// Ports exposed by the insights module
type Ports struct {
	Evaluator domain.EvaluatorPort
}

// Module implements the insights service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new insights module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	storage := repo.NewPG().Bind(deps.PG)

	var archive domain.SnapshotSource
	if deps.CH != nil {
		archive = repo.NewArchive(deps.CH)
	}

	svc := service.New(storage, archive, storage, service.Config{
		Engine:             opts.Engine,
		Workers:            opts.Workers,
		ArchiveAfterMonths: opts.ArchiveAfterMonths,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Evaluator: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "insights" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
