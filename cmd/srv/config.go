package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/wealthfund/backend/config"
	"github.com/wealthfund/backend/pkg/authenticator"
	"github.com/wealthfund/backend/pkg/logger"
	"github.com/wealthfund/backend/pkg/xcontext"
)

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "path to a toml config file", EnvVars: []string{"CONFIG_FILE"}},
		&cli.StringFlag{Name: "env", EnvVars: []string{"ENV"}},
		&cli.StringFlag{Name: "db-driver", EnvVars: []string{"DB_DRIVER"}},
		&cli.StringFlag{Name: "db-host", EnvVars: []string{"DB_HOST"}},
		&cli.StringFlag{Name: "db-port", EnvVars: []string{"DB_PORT"}},
		&cli.StringFlag{Name: "db-name", EnvVars: []string{"DB_NAME"}},
		&cli.StringFlag{Name: "db-user", EnvVars: []string{"DB_USER"}},
		&cli.StringFlag{Name: "db-password", EnvVars: []string{"DB_PASSWORD"}},
		&cli.StringFlag{Name: "api-port", EnvVars: []string{"API_PORT"}},
		&cli.StringFlag{Name: "prometheus-port", EnvVars: []string{"PROMETHEUS_PORT"}},
		&cli.StringFlag{Name: "token-secret", EnvVars: []string{"TOKEN_SECRET"}},
		&cli.StringFlag{Name: "redis-addr", EnvVars: []string{"REDIS_ADDR"}},
		&cli.StringFlag{Name: "redis-password", EnvVars: []string{"REDIS_PASSWORD"}},
		&cli.StringFlag{Name: "kafka-addr", EnvVars: []string{"KAFKA_ADDR"}},
		&cli.StringFlag{Name: "s3-endpoint", EnvVars: []string{"S3_ENDPOINT"}},
		&cli.StringFlag{Name: "s3-access-key", EnvVars: []string{"S3_ACCESS_KEY"}},
		&cli.StringFlag{Name: "s3-secret-key", EnvVars: []string{"S3_SECRET_KEY"}},
		&cli.StringFlag{Name: "log-level", EnvVars: []string{"LOG_LEVEL"}},
		&cli.StringFlag{Name: "log-file", EnvVars: []string{"LOG_FILE"}},
		&cli.Int64Flag{Name: "node-id", Value: 1, EnvVars: []string{"NODE_ID"}},
	}
}

// loadConfig builds the configs from the defaults, then the toml file, then
// flags and environment variables, each one overriding the previous.
func (s *srv) loadConfig(cctx *cli.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot load .env: %w", err)
	}

	cfg := config.Default()
	if path := cctx.String("config"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return fmt.Errorf("cannot decode %s: %w", path, err)
		}
	}

	overrides := map[string]*string{
		"env":             &cfg.Env,
		"db-driver":       &cfg.Database.Driver,
		"db-host":         &cfg.Database.Host,
		"db-port":         &cfg.Database.Port,
		"db-name":         &cfg.Database.Database,
		"db-user":         &cfg.Database.User,
		"db-password":     &cfg.Database.Password,
		"api-port":        &cfg.ApiServer.Port,
		"prometheus-port": &cfg.PrometheusServer.Port,
		"token-secret":    &cfg.Auth.TokenSecret,
		"redis-addr":      &cfg.Redis.Addr,
		"redis-password":  &cfg.Redis.Password,
		"kafka-addr":      &cfg.Kafka.Addr,
		"s3-endpoint":     &cfg.Storage.Endpoint,
		"s3-access-key":   &cfg.Storage.AccessKey,
		"s3-secret-key":   &cfg.Storage.SecretKey,
		"log-level":       &cfg.Log.Level,
		"log-file":        &cfg.Log.File,
	}
	for name, field := range overrides {
		if cctx.IsSet(name) {
			*field = cctx.String(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	s.nodeID = cctx.Int64("node-id")
	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.Log.Level), &logger.FileConfigs{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}))
	s.ctx = xcontext.WithTokenEngine(s.ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	return nil
}
