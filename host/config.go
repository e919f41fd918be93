package host

import (
	"github.com/kelseyhightower/envconfig"
)

// Config is the host service configuration, read from QUAY_-prefixed
// environment variables.
type Config struct {
	Addr       string  `envconfig:"ADDR" default:"127.0.0.1:0"`
	StorageDir string  `envconfig:"STORAGE_DIR"`
	Keychain   bool    `envconfig:"KEYCHAIN" default:"true"`
	CSRF       bool    `envconfig:"CSRF" default:"true"`
	Latitude   float64 `envconfig:"LATITUDE" default:"52.3676"`
	Longitude  float64 `envconfig:"LONGITUDE" default:"4.9041"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("quay", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
