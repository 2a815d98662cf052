/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	kverrors "github.com/suparena/kvbridge/errors"
	"github.com/suparena/kvbridge/kvstore"
	"github.com/suparena/kvbridge/kvstore/ddb"
	"github.com/suparena/kvbridge/kvstore/memory"
	"github.com/suparena/kvbridge/kvstore/redis"
)

// Backend names a kvstore implementation.
type Backend string

const (
	BackendRedis    Backend = "redis"
	BackendDynamoDB Backend = "dynamodb"
	BackendMemory   Backend = "memory"
)

// Environment variables read by FromEnv.
const (
	EnvBackend          = "KVBRIDGE_BACKEND"
	EnvRedisHost        = "REDIS_HOST"
	EnvRedisPort        = "REDIS_PORT"
	EnvRedisPassword    = "REDIS_PASSWORD"
	EnvRedisDB          = "REDIS_DB"
	EnvRedisDialTimeout = "REDIS_DIAL_TIMEOUT"
	EnvAWSAccessKey     = "AWS_ACCESS_KEY"
	EnvAWSSecretKey     = "AWS_SECRET_KEY"
	EnvAWSRegion        = "AWS_REGION"
	EnvDDBTable         = "AWS_DDB_TABLE"
	EnvDDBEndpoint      = "AWS_DDB_ENDPOINT"
)

// Config selects and parameterizes the backing store. The connection parameters
// are opaque to the adapter and handed to the store client as-is.
type Config struct {
	Backend  Backend
	Redis    redis.Options
	DynamoDB ddb.Config
}

// Load reads the given .env files (default ".env") into the environment and
// builds a Config from it. A missing default file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables. The backend defaults to redis.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Backend: Backend(os.Getenv(EnvBackend)),
		Redis: redis.Options{
			Host:     os.Getenv(EnvRedisHost),
			Password: os.Getenv(EnvRedisPassword),
		},
		DynamoDB: ddb.Config{
			AccessKey: os.Getenv(EnvAWSAccessKey),
			SecretKey: os.Getenv(EnvAWSSecretKey),
			Region:    os.Getenv(EnvAWSRegion),
			Table:     os.Getenv(EnvDDBTable),
			Endpoint:  os.Getenv(EnvDDBEndpoint),
		},
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendRedis
	}

	var err error
	if cfg.Redis.Port, err = intEnv(EnvRedisPort); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = intEnv(EnvRedisDB); err != nil {
		return nil, err
	}
	if v := os.Getenv(EnvRedisDialTimeout); v != "" {
		if cfg.Redis.DialTimeout, err = time.ParseDuration(v); err != nil {
			return nil, kverrors.NewValidationError(EnvRedisDialTimeout, err.Error())
		}
	}
	return cfg, cfg.Validate()
}

func intEnv(name string) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, kverrors.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendRedis, BackendMemory:
		return nil
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" {
			return kverrors.NewValidationError(EnvDDBTable, "required for the dynamodb backend")
		}
		return nil
	default:
		return kverrors.NewValidationError(EnvBackend, "unknown backend "+strconv.Quote(string(c.Backend)))
	}
}

// OpenStore connects to the configured backend.
func (c *Config) OpenStore(ctx context.Context) (kvstore.Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Backend {
	case BackendDynamoDB:
		store, err := ddb.Connect(ctx, c.DynamoDB)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendMemory:
		return memory.New(), nil
	default:
		store, err := redis.Connect(ctx, c.Redis)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
