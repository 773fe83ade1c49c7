package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"trip-telemetry-service/internal/adapters/repositories"
	"trip-telemetry-service/internal/adapters/sink"
	"trip-telemetry-service/internal/api"
	"trip-telemetry-service/internal/api/handlers"
	"trip-telemetry-service/internal/config"
	"trip-telemetry-service/internal/platform/db"
	"trip-telemetry-service/internal/platform/obs"
	"trip-telemetry-service/internal/ports"
	"trip-telemetry-service/internal/services"
	"trip-telemetry-service/internal/telemetry"
)

// main is the application composition root.
// It wires concrete adapters (report store, redis, websocket hub) behind ports and starts the HTTP server.
func main() {
	configPath := flag.String("config", config.Get("CONFIG_PATH", ""), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := obs.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openReportRepository(ctx, cfg.Reports)
	if err != nil {
		log.Fatal(err)
	}
	defer closeRepo()

	catalog := services.NewReportCatalog(repo)
	if err := catalog.Load(ctx); err != nil {
		log.Fatal(err)
	}

	waypoints := telemetry.SampleRoute()
	if cfg.Sim.RoutePath != "" {
		if waypoints, err = telemetry.LoadRouteJSON(cfg.Sim.RoutePath); err != nil {
			log.Fatal(err)
		}
	}

	hub := sink.NewHub()
	defer hub.Close()

	sinks := telemetry.MultiSink{hub}
	if cfg.Redis.URL != "" {
		rs, err := sink.OpenRedisSink(ctx, cfg.Redis.URL, cfg.Redis.KeyPrefix, cfg.Sim.VehicleID)
		if err != nil {
			log.Fatal(err)
		}
		sinks = append(sinks, rs)
	}

	sessions := &handlers.SessionHandler{
		Defaults:  cfg.Sim.Session(),
		Waypoints: waypoints,
		Sink:      sinks,
	}
	router := api.NewRouter(catalog, sessions, hub)

	// WriteTimeout leaves room for the longest session a request may ask for.
	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("server shutdown")
		}
	}()

	log.WithFields(log.Fields{"addr": srv.Addr, "reports": cfg.Reports.Backend}).Info("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func openReportRepository(ctx context.Context, cfg config.ReportsConfig) (ports.ReportRepository, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendFile:
		return repositories.NewFileReportRepository(cfg.Path), noop, nil

	case config.BackendSqlite:
		conn, err := db.OpenSqlite(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		if err := repositories.InitSqliteSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return repositories.NewSqliteReportRepository(conn), closer(conn), nil

	case config.BackendPostgres:
		conn, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return repositories.NewSQLReportRepository(conn), closer(conn), nil
	}

	return nil, noop, fmt.Errorf("open report repository: unknown backend %q", cfg.Backend)
}

func closer(conn *sql.DB) func() {
	return func() {
		if err := conn.Close(); err != nil {
			log.WithError(err).Warn("close report database")
		}
	}
}
