package controllers

import (
	"net/http"

	"github.com/SoiBeTiiii/datn-sub000/api/responses"
	"github.com/SoiBeTiiii/datn-sub000/pkg/config"
	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
	"github.com/SoiBeTiiii/datn-sub000/pkg/logger"
	"github.com/SoiBeTiiii/datn-sub000/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
