// Package http реализует маршрутизацию HTTP-слоя сервера projecthub.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - подключение middleware: recover, CORS, логирование, метрики, rate limit;
//   - отдачу swagger и /metrics.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/api"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/config"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/middleware"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - /users и /projects (CRUD), /search (поиск проектов);
//   - /healthz, /swagger/*, а при включённых метриках — /metrics;
//   - middleware из конфигурации.
func NewRouter(h *api.Handler, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           int(cfg.CORS.MaxAge.Seconds()),
	}))
	if cfg.Observability.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(middleware.NewHTTPMetrics()))
	}
	if cfg.Server.MaxBodyBytes > 0 {
		r.Use(chimw.RequestSize(cfg.Server.MaxBodyBytes))
	}

	// служебные пути без rate limit
	r.Get("/healthz", h.Health)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	if cfg.Observability.Metrics.Enabled {
		r.Handle(cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		if rl := cfg.Security.RateLimit; rl.Enabled {
			r.Use(middleware.RateLimitMiddleware(
				middleware.NewIPRateLimiter(rl.RPS, rl.Burst),
				cfg.Server.TrustProxy,
			))
		}

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreateUser)
			r.Get("/", h.SearchUsers)        // ?q= — поиск, без q — все
			r.Delete("/", h.DeleteAllUsers) // все пользователи, авторы проектов обнуляются
			r.Get("/{id}", h.GetUser)
			r.Delete("/{id}", h.DeleteUser) // каскадно убирает из авторов
		})
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", h.CreateProject)
			r.Get("/", h.ListProjects) // ?author_id= — только проекты автора
			r.Delete("/", h.DeleteAllProjects)
			r.Get("/{id}", h.GetProject)
			r.Put("/{id}", h.UpdateProject)
			r.Patch("/{id}", h.UpdateProject)
			r.Delete("/{id}", h.DeleteProject)
		})
		r.Get("/search", h.SearchProjects)
	})

	return r
}
