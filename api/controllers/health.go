package controllers

import (
	"context"
	"net/http"

	"github.com/refaccionariaweb/storefront-backend/api/responses"
	"github.com/refaccionariaweb/storefront-backend/pkg/config"
	pkgerrors "github.com/refaccionariaweb/storefront-backend/pkg/errors"
	"github.com/refaccionariaweb/storefront-backend/pkg/logger"
)

const envHeader = "X-Refaccionaria-Env"

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when every wired dependency answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency unavailable").
						WithDetails(map[string]string{"dependency": name}))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

// HealthDeps builds the dependency map for HealthReady, skipping nil entries.
func HealthDeps(db pinger, redis pinger) map[string]pinger {
	deps := map[string]pinger{}
	if db != nil {
		deps["postgres"] = db
	}
	if redis != nil {
		deps["redis"] = redis
	}
	return deps
}
