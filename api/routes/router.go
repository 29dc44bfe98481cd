package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SoiBeTiiii/datn-sub000/api/controllers"
	"github.com/SoiBeTiiii/datn-sub000/api/middleware"
	"github.com/SoiBeTiiii/datn-sub000/internal/session"
	"github.com/SoiBeTiiii/datn-sub000/internal/wishlist"
	"github.com/SoiBeTiiii/datn-sub000/pkg/config"
	"github.com/SoiBeTiiii/datn-sub000/pkg/logger"
	"github.com/SoiBeTiiii/datn-sub000/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	registry *session.Registry,
	wishlistCache *wishlist.Cache,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisClient))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(cfg.JWT, logg))

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(registry, logg))
			r.Post("/items", controllers.CartAddItem(registry, logg))
			r.Delete("/items", controllers.CartRemoveItem(registry, logg))
			r.Post("/items/increase", controllers.CartIncreaseQuantity(registry, logg))
			r.Post("/items/decrease", controllers.CartDecreaseQuantity(registry, logg))
		})

		r.Route("/v1/wishlist", func(r chi.Router) {
			r.Use(middleware.RequireUser(logg))
			r.Get("/", controllers.WishlistList(wishlistCache, logg))
			r.Get("/contains", controllers.WishlistContains(wishlistCache, logg))
			r.Post("/", controllers.WishlistAdd(wishlistCache, logg))
			r.Delete("/", controllers.WishlistRemove(wishlistCache, logg))
		})
	})

	return r
}
