package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	authdomain "pontaj/internal/domain/auth"
	"pontaj/internal/domain/leave"
	"pontaj/internal/domain/roster"
	"pontaj/internal/domain/schedule"
	"pontaj/internal/domain/timesheet"
	"pontaj/internal/platform/config"
	"pontaj/internal/platform/db"
	authhandler "pontaj/internal/transport/http/handlers/auth"
	leavehandler "pontaj/internal/transport/http/handlers/leave"
	reportshandler "pontaj/internal/transport/http/handlers/reports"
	rosterhandler "pontaj/internal/transport/http/handlers/roster"
	schedulehandler "pontaj/internal/transport/http/handlers/schedule"
	timesheethandler "pontaj/internal/transport/http/handlers/timesheet"
	"pontaj/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	rosterStore := roster.NewStore(pool)
	leaveStore := leave.NewStore(pool)
	timesheetStore := timesheet.NewStore(pool)
	timesheetService := timesheet.NewService(timesheetStore, rosterStore, leaveStore)
	leaveService := leave.NewService(leaveStore)
	scheduleStore := schedule.NewStore(pool)
	authStore := authdomain.NewStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authStore, cfg.JWTSecret, cfg.TokenTTL)
		r.Post("/auth/login", authHandler.HandleLogin)

		timesheethandler.NewHandler(timesheetService).RegisterRoutes(r)
		rosterhandler.NewHandler(rosterStore).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService).RegisterRoutes(r)
		schedulehandler.NewHandler(scheduleStore).RegisterRoutes(r)
		reportshandler.NewHandler(timesheetService, rosterStore).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	log.Printf("pontaj server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
