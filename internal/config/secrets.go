package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Secrets are never kept in the TOML file, they come from the environment only.
type Secrets struct {
	AppSecret        string `env:"NUTRIFIT_APP_SECRET"`
	RedisPassword    string `env:"NUTRIFIT_REDIS_PASS"`
	PostgresPassword string `env:"NUTRIFIT_POSTGRES_PASS"`
	AMQPURL          string `env:"NUTRIFIT_AMQP_URL"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED" envDefault:"false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"nutrifit"`
}

// LoadSecrets parses the environment, after loading the optional dotenv files.
// Variables already present in the environment win over the dotenv values.
func LoadSecrets(dotenvFiles ...string) (Secrets, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debugf("dotenv file [%s] not found, using environment variables", f)
				continue
			}
			return Secrets{}, fmt.Errorf("load dotenv [%s]: %w", f, err)
		}
	}

	var secrets Secrets
	if err := env.Parse(&secrets); err != nil {
		return Secrets{}, fmt.Errorf("parse env: %w", err)
	}
	return secrets, nil
}

// Warnings lists the secrets the service can run without, but should not.
func (s Secrets) Warnings() []string {
	var warnings []string
	if s.AppSecret == "" {
		warnings = append(warnings, "app secret not set, use NUTRIFIT_APP_SECRET; all routes are public")
	}
	if s.RedisPassword == "" {
		warnings = append(warnings, "redis password not set, use NUTRIFIT_REDIS_PASS")
	}
	if s.AMQPURL == "" {
		warnings = append(warnings, "amqp url not set, use NUTRIFIT_AMQP_URL; analytics go to logs and metrics only")
	}
	if s.HoneycombEnabled && s.HoneycombAPIKey == "" {
		warnings = append(warnings, "HONEYCOMB_API_KEY env var not set")
	}
	return warnings
}
