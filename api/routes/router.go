package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fixflowhq/fixflow-backend/api/controllers"
	"github.com/fixflowhq/fixflow-backend/api/middleware"
	"github.com/fixflowhq/fixflow-backend/internal/auth"
	"github.com/fixflowhq/fixflow-backend/internal/jobs"
	"github.com/fixflowhq/fixflow-backend/internal/shops"
	"github.com/fixflowhq/fixflow-backend/internal/stats"
	"github.com/fixflowhq/fixflow-backend/internal/warranties"
	"github.com/fixflowhq/fixflow-backend/internal/workers"
	"github.com/fixflowhq/fixflow-backend/pkg/auth/session"
	"github.com/fixflowhq/fixflow-backend/pkg/config"
	"github.com/fixflowhq/fixflow-backend/pkg/db"
	"github.com/fixflowhq/fixflow-backend/pkg/logger"
	"github.com/fixflowhq/fixflow-backend/pkg/metrics"
	"github.com/fixflowhq/fixflow-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	authService auth.Service,
	shopService shops.Service,
	jobService jobs.Service,
	warrantyService warranties.Service,
	statsService stats.Service,
	workerService workers.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	authMW := middleware.Auth(cfg.JWT, sessionChecker, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/verify/{shortCode}", controllers.PublicVerify(warrantyService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).Post("/signup", controllers.AuthSignup(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(authMW).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMW)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", controllers.JobsList(jobService, logg))
			r.Post("/", controllers.JobsCreate(jobService, logg))
			r.Route("/{jobId}", func(r chi.Router) {
				r.Get("/", controllers.JobsGet(jobService, logg))
				r.Put("/", controllers.JobsUpdate(jobService, logg))
				r.Patch("/status", controllers.JobsUpdateStatus(jobService, logg))
				r.Delete("/", controllers.JobsDelete(jobService, logg))
				r.Route("/workers", func(r chi.Router) {
					r.Get("/", controllers.JobWorkersList(workerService, logg))
					r.Post("/", controllers.JobWorkersAssign(workerService, logg))
					r.Get("/history", controllers.JobWorkersHistory(workerService, logg))
					r.Delete("/{workerId}", controllers.JobWorkersRemove(workerService, logg))
				})
			})
		})

		r.Route("/workers", func(r chi.Router) {
			r.Get("/", controllers.WorkersList(workerService, logg))
			r.Post("/", controllers.WorkersCreate(workerService, logg))
			r.Put("/{workerId}", controllers.WorkersUpdate(workerService, logg))
			r.Delete("/{workerId}", controllers.WorkersDelete(workerService, logg))
		})

		r.Route("/warranties", func(r chi.Router) {
			r.Get("/", controllers.WarrantiesList(warrantyService, logg))
			r.Post("/", controllers.WarrantiesIssue(warrantyService, logg))
			r.Route("/{warrantyId}", func(r chi.Router) {
				r.Get("/", controllers.WarrantiesGet(warrantyService, logg))
				r.Put("/", controllers.WarrantiesUpdate(warrantyService, logg))
				r.Delete("/", controllers.WarrantiesDelete(warrantyService, logg))
			})
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/jobs", controllers.StatsJobs(statsService, logg))
			r.Get("/warranties", controllers.StatsWarranties(statsService, logg))
			r.Get("/distribution", controllers.StatsDistribution(statsService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Put("/pin", controllers.PinSet(shopService, logg))
			r.Post("/pin/verify", controllers.PinVerify(shopService, logg))
		})

		r.Route("/shops", func(r chi.Router) {
			r.Get("/me", controllers.ShopMe(shopService, logg))
			r.Put("/me", controllers.ShopMeUpdate(shopService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(authMW)
		r.Use(middleware.RequireRole("admin", logg))
		r.Get("/jobs", controllers.AdminJobsList(jobService, logg))
		r.Route("/shops", func(r chi.Router) {
			r.Get("/", controllers.AdminShopsList(shopService, logg))
			r.Put("/{shopId}/subscription", controllers.AdminShopSubscription(shopService, logg))
		})
	})

	return r
}
