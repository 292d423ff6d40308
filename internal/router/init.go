package router

import (
	handlers "github.com/userhub/user-service/internal/interface/http"
	"github.com/userhub/user-service/internal/router/modules"
)

// Deps carries the constructed handlers a Registry needs. Wiring is explicit:
// main builds repository, service and handlers and hands them over here, no
// ambient singletons.
type Deps struct {
	Users        *handlers.UserHandler
	DebugMetrics bool
}

// InitModules registers all application modules with the router registry.
// Called once during startup.
func InitModules(r *Registry, d Deps) {
	r.Add(modules.NewUserModule(d.Users))
	if d.DebugMetrics {
		r.Add(modules.NewDebugModule())
	}
}
