package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Debug      bool   `env:"DEBUG" envDefault:"false"`
	Port       string `env:"PORT" envDefault:"10000"`
	MetricPort string `env:"METRIC_PORT" envDefault:"9090"`

	// Domain is matched against the Origin header on websocket upgrades
	// unless Debug is set.
	Domain string `env:"DOMAIN" envDefault:"http://localhost:10000"`

	// StaticDir is served at the root for the game client.
	StaticDir string `env:"STATIC_DIR" envDefault:"web"`
}

func New() (*Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return &c, nil
}
