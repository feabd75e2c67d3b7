package controllers

import (
	"net/http"

	"github.com/smarttech/storefront/api/responses"
	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/config"
	"github.com/smarttech/storefront/pkg/db"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/logger"
)

const serviceName = "smarttech-api"

// Health reports liveness and, when a pinger is supplied, database reachability.
func Health(cfg *config.Config, dbP db.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, storefront.Health{Status: "healthy", Service: serviceName})
	}
}
