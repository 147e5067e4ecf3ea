package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/promonitor/storefront/api/responses"
	"github.com/promonitor/storefront/pkg/config"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/promonitor/storefront/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and Redis. Either failing reports 503 with the
// failing dependency named in the details.
func HealthReady(cfg *config.Config, logg *logger.Logger, database, redis pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]pinger{"database": database, "redis": redis}
		failed := map[string]string{}
		var firstErr error
		for name, dep := range checks {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				failed[name] = err.Error()
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		if firstErr != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, firstErr, "not ready").WithDetails(failed))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
