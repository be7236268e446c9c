// Package config loads the matcher's configuration: algorithm/service
// thresholds from a static YAML file (§6.4), with environment secrets
// (database DSN, Redis address, JWT key, routing planner URL) layered in
// from a .env file, matching the teacher's split between
// internal/pkg/config (env-backed secrets) and match-service/main.go's
// viper bootstrap (file-backed static config).
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
)

// Config is the fully resolved configuration the cmd/matcher binary wires
// into the engine, store, and HTTP layer.
type Config struct {
	Matching entity.MatchingConfig

	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	NATS   NATSConfig
	JWT    JWTConfig
	Routing RoutingConfig

	CycleInterval time.Duration
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// DSN builds the libpq-style connection string jackc/pgx consumes.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%d", r.Host, r.Port) }

type NATSConfig struct {
	URL string
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration int // minutes
}

type RoutingConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads config/config.yaml for algorithm/service defaults (overridable
// by environment variables via AutomaticEnv), and a .env file for
// deployment secrets, mirroring the teacher's InitConfig entrypoint.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, using environment variables")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	def := entity.DefaultMatchingConfig()
	viper.SetDefault("algorithm.min_time_overlap_minutes", def.Algorithm.MinTimeOverlapMinutes)
	viper.SetDefault("algorithm.min_overlap_distance_meters", def.Algorithm.MinOverlapDistanceMeters)
	viper.SetDefault("algorithm.overlap_tolerance_meters", def.Algorithm.OverlapToleranceMeters)
	viper.SetDefault("algorithm.overlap_weight", def.Algorithm.OverlapWeight)
	viper.SetDefault("algorithm.interest_weight", def.Algorithm.InterestWeight)
	viper.SetDefault("algorithm.shared_meters_per_minute", def.Algorithm.SharedMetersPerMinute)
	viper.SetDefault("service.pass_cooldown_days", def.Service.PassCooldownDays)
	viper.SetDefault("service.queue_assignment_days_ahead", def.Service.QueueAssignmentDaysAhead)

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "commute_matcher")
	viper.SetDefault("db.ssl_mode", "disable")
	viper.SetDefault("db.max_conns", 20)
	viper.SetDefault("db.idle_conns", 5)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("jwt.secret", "dev-secret")
	viper.SetDefault("jwt.issuer", "commute-matcher")
	viper.SetDefault("jwt.expiration", 60)
	viper.SetDefault("routing.base_url", "http://localhost:8090")
	viper.SetDefault("routing.timeout_seconds", 10)
	viper.SetDefault("cycle.interval_seconds", 60)

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("reading config/config.yaml: %w", err)
		}
		log.Println("warning: config/config.yaml not found, using defaults and environment")
	}

	return Config{
		Matching: entity.MatchingConfig{
			Algorithm: entity.AlgorithmConfig{
				MinTimeOverlapMinutes:    viper.GetInt("algorithm.min_time_overlap_minutes"),
				MinOverlapDistanceMeters: viper.GetFloat64("algorithm.min_overlap_distance_meters"),
				OverlapToleranceMeters:   viper.GetFloat64("algorithm.overlap_tolerance_meters"),
				OverlapWeight:            viper.GetFloat64("algorithm.overlap_weight"),
				InterestWeight:           viper.GetFloat64("algorithm.interest_weight"),
				SharedMetersPerMinute:    viper.GetFloat64("algorithm.shared_meters_per_minute"),
			},
			Service: entity.ServiceConfig{
				PassCooldownDays:         viper.GetInt("service.pass_cooldown_days"),
				QueueAssignmentDaysAhead: viper.GetInt("service.queue_assignment_days_ahead"),
			},
		},
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
		},
		DB: DBConfig{
			Host:      viper.GetString("db.host"),
			Port:      viper.GetInt("db.port"),
			Username:  viper.GetString("db.username"),
			Password:  viper.GetString("db.password"),
			Database:  viper.GetString("db.database"),
			SSLMode:   viper.GetString("db.ssl_mode"),
			MaxConns:  viper.GetInt("db.max_conns"),
			IdleConns: viper.GetInt("db.idle_conns"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("redis.host"),
			Port:     viper.GetInt("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			PoolSize: viper.GetInt("redis.pool_size"),
		},
		NATS: NATSConfig{URL: viper.GetString("nats.url")},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Issuer:     viper.GetString("jwt.issuer"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		Routing: RoutingConfig{
			BaseURL: viper.GetString("routing.base_url"),
			Timeout: time.Duration(viper.GetInt("routing.timeout_seconds")) * time.Second,
		},
		CycleInterval: time.Duration(viper.GetInt("cycle.interval_seconds")) * time.Second,
	}, nil
}
