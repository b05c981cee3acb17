package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Holy-Spoon/Subway-System-Planner/handlers"
	"github.com/Holy-Spoon/Subway-System-Planner/internal/config"
	"github.com/Holy-Spoon/Subway-System-Planner/internal/static"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("Opening %s schedule source", cfg.ScheduleSource)
	src, closeSource, err := static.OpenSource(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open schedule source: %v", err)
	}
	defer closeSource()

	loader := static.NewLoader(src, static.Options{NameSeparator: cfg.StationNameSeparator})
	store := static.NewStore(loader)
	if _, err := store.Reload(ctx); err != nil {
		log.Fatalf("Failed to load schedule: %v", err)
	}

	// Reload on SIGHUP and every ReloadInterval. A failed reload keeps
	// serving the previous snapshot.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go store.Watch(ctx, cfg.ReloadInterval, hup)

	transitHandler := handlers.NewTransitHandler(store, cfg.TripCacheSize)
	healthHandler := handlers.NewHealthHandler(store)
	adminHandler := handlers.NewAdminHandler(store, cfg.HTTPTimeout*3)

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.GetHealth)

	// Legacy health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Legacy ping endpoint
	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Station routes
	r.Get("/api/stations", handlers.Instrument("stations", transitHandler.ListStations))
	r.Get("/api/stations/{name}", handlers.Instrument("station", transitHandler.GetStation))
	r.Get("/api/stations/{name}/lines", handlers.Instrument("station_lines", transitHandler.GetStationLines))
	r.Get("/api/stations/{name}/next", handlers.Instrument("next", transitHandler.GetNextServices))

	// Line routes
	r.Get("/api/lines", handlers.Instrument("lines", transitHandler.ListLines))
	r.Get("/api/lines/{name}", handlers.Instrument("line", transitHandler.GetLine))
	r.Get("/api/lines/{name}/stations", handlers.Instrument("line_stations", transitHandler.GetLineStations))

	// Journey routes
	r.Get("/api/connections", handlers.Instrument("connection", transitHandler.GetConnection))
	r.Get("/api/trips", handlers.Instrument("trip", transitHandler.GetTrip))

	r.Post("/api/admin/reload", adminHandler.Reload)

	// Static file serving (if configured)
	if cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(cfg.StaticDir))
		r.Handle("/*", fs)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("API server starting on :%s", cfg.Port)
	log.Println("Station endpoints:")
	log.Println("  GET /api/stations[?sort=name]")
	log.Println("  GET /api/stations/{name}")
	log.Println("  GET /api/stations/{name}/lines")
	log.Println("  GET /api/stations/{name}/next?after=HHMM")
	log.Println("Line endpoints:")
	log.Println("  GET /api/lines")
	log.Println("  GET /api/lines/{name}")
	log.Println("  GET /api/lines/{name}/stations")
	log.Println("Journey endpoints:")
	log.Println("  GET /api/connections?from=&to=")
	log.Println("  GET /api/trips?from=&to=&after=HHMM")
	log.Println("Admin:")
	log.Println("  POST /api/admin/reload (or send SIGHUP)")
	log.Println("Health:")
	log.Println("  GET /health")
	log.Println("  GET /metrics")

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: shutdown did not complete: %v", err)
	}
	log.Println("Goodbye!")
}
