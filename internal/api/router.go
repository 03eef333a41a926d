package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Bronc-X/antianxiety/internal/api/handlers"
	mw "github.com/Bronc-X/antianxiety/internal/api/middleware"
	"github.com/Bronc-X/antianxiety/internal/buildconfig"
	"github.com/Bronc-X/antianxiety/internal/cache"
	"github.com/Bronc-X/antianxiety/internal/config"
	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/service"
	"github.com/Bronc-X/antianxiety/internal/store"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router    *chi.Mux
	Sweeper   *service.CalibrationSweeper
	startTime time.Time
	counters  mw.Counters
}

// NewApp wires stores, services and handlers. rdb may be nil, in which
// case literature lookups are not cached.
func NewApp(db *pgxpool.Pool, rdb *redis.Client, policy domain.StabilityPolicy, logger *zap.Logger) *App {
	// Stores
	userStore := store.NewUserStore(db)
	sessionStore := store.NewBeliefSessionStore(db)
	hrvStore := store.NewHRVStore(db)
	paperStore := store.NewPaperStore(db)
	logStore := store.NewDailyLogStore(db)
	responseStore := store.NewScaleResponseStore(db)
	calibrationStore := store.NewCalibrationStore(db)

	var paperCache domain.PaperCache = cache.NopCache{}
	if rdb != nil {
		paperCache = cache.NewEvidenceCache(rdb)
	}

	// Services
	evidenceSvc := service.NewEvidenceService(paperStore, paperCache, logger)
	evidenceSvc.SetCacheTTL(config.EvidenceCacheTTL())
	beliefSvc := service.NewBeliefService(sessionStore, hrvStore, paperStore, evidenceSvc, logger)
	wellnessSvc := service.NewWellnessService(logStore, logger)
	calibrationSvc := service.NewCalibrationService(responseStore, calibrationStore, policy, logger)
	sweeper := service.NewCalibrationSweeper(calibrationSvc, logger)
	sweeper.SetInterval(config.CalibrationInterval())

	// Handlers
	userHandler := handlers.NewUserHandler(userStore)
	beliefHandler := handlers.NewBeliefHandler(beliefSvc)
	evidenceHandler := handlers.NewEvidenceHandler(evidenceSvc)
	hrvHandler := handlers.NewHRVHandler(hrvStore)
	wellnessHandler := handlers.NewWellnessHandler(wellnessSvc)
	calibrationHandler := handlers.NewCalibrationHandler(calibrationSvc)

	r := chi.NewRouter()
	app := &App{
		Router:    r,
		Sweeper:   sweeper,
		startTime: time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Metrics(&app.counters))
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db, rdb))
	r.Get("/metrics", app.metricsHandler())

	// User creation is the bootstrap endpoint and needs no key
	r.Post("/v1/users", userHandler.Create)

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(userStore))

		r.Route("/beliefs", func(r chi.Router) {
			r.Post("/calculate", beliefHandler.Calculate)
			r.Post("/", beliefHandler.Create)
			r.Get("/", beliefHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", beliefHandler.GetByID)
				r.Post("/nudge", beliefHandler.Nudge)
			})
		})

		r.Route("/evidence", func(r chi.Router) {
			r.Post("/stack", evidenceHandler.Stack)
			r.Get("/{context}", evidenceHandler.Search)
		})
		r.Put("/papers", evidenceHandler.Ingest)

		r.Post("/hrv", hrvHandler.Create)

		r.Route("/logs", func(r chi.Router) {
			r.Post("/", wellnessHandler.CreateLog)
			r.Get("/", wellnessHandler.ListLogs)
		})

		r.Route("/trends", func(r chi.Router) {
			r.Get("/", wellnessHandler.Trends)
			r.Get("/confidence", wellnessHandler.Confidence)
			r.Get("/rings", wellnessHandler.Rings)
		})

		r.Route("/calibration", func(r chi.Router) {
			r.Post("/responses", calibrationHandler.Submit)
			r.Get("/daily", calibrationHandler.PreviewDaily)
			r.Post("/daily", calibrationHandler.EvaluateDaily)
			r.Get("/weekly", calibrationHandler.Weekly)
			r.Get("/preferences", calibrationHandler.Preference)
		})
	})

	return app
}

type pinger interface {
	Ping(ctx context.Context) error
}

type redisPinger struct{ rdb *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.rdb.Ping(ctx).Err() }

func healthHandler(db *pgxpool.Pool, rdb *redis.Client) http.HandlerFunc {
	deps := map[string]pinger{"database": db}
	if rdb != nil {
		deps["redis"] = redisPinger{rdb}
	}
	return checkHealth(deps)
}

// checkHealth reports 503 when any dependency fails its ping.
func checkHealth(deps map[string]pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		body := map[string]any{
			"status": "ok",
			"checks": checks,
			"build":  buildconfig.VersionInfo(),
		}
		if status != http.StatusOK {
			body["status"] = "error"
		}
		writeJSON(w, status, body)
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		writeJSON(w, http.StatusOK, map[string]any{
			"uptime_seconds":     uptime.Seconds(),
			"uptime_human":       uptime.Round(time.Second).String(),
			"request_count":      app.counters.Requests.Load(),
			"error_count":        app.counters.Errors(),
			"client_error_count": app.counters.ClientErrors.Load(),
			"server_error_count": app.counters.ServerErrors.Load(),
			"goroutines":         runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		})
	}
}

// Ensure stores satisfy interfaces at compile time.
var (
	_ domain.UserStore          = (*store.UserStore)(nil)
	_ domain.BeliefSessionStore = (*store.BeliefSessionStore)(nil)
	_ domain.HRVStore           = (*store.HRVStore)(nil)
	_ domain.PaperStore         = (*store.PaperStore)(nil)
	_ domain.PaperCache         = (*cache.EvidenceCache)(nil)
	_ domain.PaperCache         = cache.NopCache{}
	_ domain.DailyLogStore      = (*store.DailyLogStore)(nil)
	_ domain.ScaleResponseStore = (*store.ScaleResponseStore)(nil)
	_ domain.CalibrationStore   = (*store.CalibrationStore)(nil)
)
