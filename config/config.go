package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type ServerConfig struct {
	Addr       string `envconfig:"ADDR" default:":8080"`
	OutputPath string `envconfig:"OUTPUT_PATH" default:"/var/lib/wpsio/outputs"`
	OutputURL  string `envconfig:"OUTPUT_URL" default:"http://localhost:8080/outputs"`
}

type DBConfig struct {
	Driver string `envconfig:"DRIVER" default:"sqlite"`
	DSN    string `envconfig:"DSN" default:"/var/lib/wpsio/outputs.db"`
	Name   string `envconfig:"NAME"`
	Schema string `envconfig:"SCHEMA" default:"wpsio"`
}

type BucketConfig struct {
	Dir     string `envconfig:"DIR" default:"/var/lib/wpsio/bucket"`
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080/objects"`
}

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Bucket BucketConfig
}

// New reads the configuration from the environment with the WPSIO
// prefix, optionally loading .env files first.
func New(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, errors.Wrap(err, "error while load from .env file")
		}
	}
	var cfg Config
	if err := envconfig.Process("WPSIO", &cfg); err != nil {
		return nil, errors.Wrap(err, "error while transfer env to config")
	}
	return &cfg, nil
}
