package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"trip-telemetry-service/internal/telemetry"
)

// Report storage backends.
const (
	BackendFile     = "file"
	BackendSqlite   = "sqlite"
	BackendPostgres = "postgres"
)

type SimConfig struct {
	SensorInterval time.Duration `mapstructure:"sensor_interval"`
	TripInterval   time.Duration `mapstructure:"trip_interval"`
	Duration       time.Duration `mapstructure:"duration"`
	VehicleID      string        `mapstructure:"vehicle_id"`
	RoutePath      string        `mapstructure:"route_path"`
}

// Session converts the simulation settings into session timing.
func (s SimConfig) Session() telemetry.Config {
	return telemetry.Config{
		SensorInterval: s.SensorInterval,
		TripInterval:   s.TripInterval,
		Duration:       s.Duration,
	}
}

type ReportsConfig struct {
	Backend     string `mapstructure:"backend"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
}

type RedisConfig struct {
	URL       string `mapstructure:"url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AppConfig holds the whole configuration of every binary.
type AppConfig struct {
	Sim     SimConfig     `mapstructure:"sim"`
	Reports ReportsConfig `mapstructure:"reports"`
	Redis   RedisConfig   `mapstructure:"redis"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	session := telemetry.DefaultConfig()
	v.SetDefault("sim.sensor_interval", session.SensorInterval)
	v.SetDefault("sim.trip_interval", session.TripInterval)
	v.SetDefault("sim.duration", session.Duration)
	v.SetDefault("sim.vehicle_id", "vehicle-1")
	v.SetDefault("sim.route_path", "")

	v.SetDefault("reports.backend", BackendFile)
	v.SetDefault("reports.path", "accidents.txt")
	v.SetDefault("reports.database_url", "")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.key_prefix", "tripsim")

	v.SetDefault("http.port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first. Environment keys are the
// upper-cased config keys with dots replaced by underscores (SIM_DURATION).
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load config: read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		}
		log.WithField("path", path).Debug("config file loaded")
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	if err := c.Sim.Session().Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Sim.VehicleID) == "" {
		return errors.New("sim.vehicle_id must be non-empty")
	}

	switch c.Reports.Backend {
	case BackendFile, BackendSqlite:
		if strings.TrimSpace(c.Reports.Path) == "" {
			return fmt.Errorf("reports.path is required for the %s backend", c.Reports.Backend)
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Reports.DatabaseURL) == "" {
			return errors.New("reports.database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown reports.backend %q", c.Reports.Backend)
	}

	return nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
