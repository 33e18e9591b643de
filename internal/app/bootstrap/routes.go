// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	coordinatorsfeature "github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/features/coordinators"
	healthfeature "github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/features/health"
	loginfeature "github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/features/login"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. The service exposes a JSON API:
//
//	/health                  liveness and readiness probes
//	/api/login, /api/logout  session endpoints
//	/api/coordinators        the dual-assignment workflow
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Session endpoints
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api", loginfeature.Routes(loginHandler))

	// Dual-assignment coordinators
	coordHandler := coordinatorsfeature.NewHandler(deps.MongoDatabase, notifier, logger)
	r.Mount("/api/coordinators", coordinatorsfeature.Routes(coordHandler))

	return r, nil
}
