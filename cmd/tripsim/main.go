package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"trip-telemetry-service/internal/adapters/sink"
	"trip-telemetry-service/internal/config"
	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/platform/obs"
	"trip-telemetry-service/internal/ports"
	"trip-telemetry-service/internal/telemetry"
)

// main runs a single simulation session and prints its telemetry to stdout.
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

	waypoints := telemetry.SampleRoute()
	if cfg.Sim.RoutePath != "" {
		waypoints, err = telemetry.LoadRouteJSON(cfg.Sim.RoutePath)
		if err != nil {
			log.Fatal(err)
		}
	}

	sinks := telemetry.MultiSink{telemetry.NewConsoleSink(os.Stdout)}
	if cfg.Redis.URL != "" {
		rs, err := openRedis(ctx, cfg)
		if err != nil {
			log.Fatal(err)
		}
		sinks = append(sinks, rs)
	}

	if err := run(ctx, cfg.Sim.Session(), waypoints, sinks); err != nil {
		log.Fatal(err)
	}
}

func openRedis(ctx context.Context, cfg *config.AppConfig) (ports.TelemetrySink, error) {
	rs, err := sink.OpenRedisSink(ctx, cfg.Redis.URL, cfg.Redis.KeyPrefix, cfg.Sim.VehicleID)
	if err != nil {
		return nil, err
	}
	// Each run publishes a fresh history for the vehicle.
	if err := rs.Reset(ctx); err != nil {
		return nil, err
	}
	log.WithField("key", rs.LatestKey()).Info("publishing telemetry to redis")
	return rs, nil
}

func run(ctx context.Context, session telemetry.Config, waypoints []domain.Waypoint, sinks telemetry.MultiSink) error {
	sup, err := telemetry.NewSupervisor(session, waypoints, nil, sinks)
	if err != nil {
		return err
	}

	res, err := sup.Run(ctx)
	if err != nil {
		return err
	}
	if res.Interrupted {
		log.Warn("session interrupted before its window elapsed")
	}

	return telemetry.WriteSpeedHistory(os.Stdout, res.SpeedHistory)
}
