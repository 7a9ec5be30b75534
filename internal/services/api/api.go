// Package api provides the HTTP API for the application
package api

import (
	"soullatino/internal/platform/config"
	"soullatino/internal/platform/logger"
	phttp "soullatino/internal/platform/net/http"
	"soullatino/internal/platform/store"

	"soullatino/internal/modkit"
	"soullatino/internal/modkit/httpkit"
	"soullatino/internal/modkit/module"
	"soullatino/internal/modkit/swaggerkit"

	apiinsights "soullatino/internal/services/api/insights/module"
	metamod "soullatino/internal/services/api/meta/module"

	// Worker insights module (owns the Evaluator port)
	workerinsights "soullatino/internal/services/insights/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Construct the WORKER insights module first and extract its Evaluator port
	workerInsights := workerinsights.New(deps)
	eval := module.MustPortsOf[workerinsights.Ports](workerInsights).Evaluator

	// Inject that Evaluator into the API insights module
	apiInsights := apiinsights.New(
		deps,
		modkit.WithPorts(apiinsights.Ports{
			Evaluator: eval,
		}),
	)

	mods := []module.Module{
		metamod.New(deps),
		workerInsights, // include worker so its ports are registered
		apiInsights,    // API module that depends on the worker's Evaluator
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
