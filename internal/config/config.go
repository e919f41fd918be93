package config

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/quaybridge/quay/internal/credentials"
)

const (
	appName    = "quay"
	configFile = "config.json"
)

type Config struct {
	StorageDir string `json:"storage_dir"`
	CSRFKey    string `json:"-"`
}

// Load reads (or generates) the app config file under the user config dir
// and pulls the CSRF signing key from the OS keyring, creating it on first
// run.
func Load() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	appDir := filepath.Join(configDir, appName)

	path := filepath.Join(appDir, configFile)
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else {
		cfg.StorageDir = filepath.Join(appDir, "store")
		if err := os.MkdirAll(appDir, 0700); err != nil {
			return nil, err
		}
		out, _ := json.MarshalIndent(cfg, "", "  ")
		_ = os.WriteFile(path, out, 0600)
		log.Printf("Generated new config at: %s", path)
	}

	cfg.CSRFKey, err = credentials.LoadAppSecret("csrf_key")
	if err != nil {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		cfg.CSRFKey = base64.StdEncoding.EncodeToString(key)
		if err := credentials.StoreAppSecret("csrf_key", cfg.CSRFKey); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QUAY_STORAGE_DIR"); v != "" {
		cfg.StorageDir = v
	}
	if v := os.Getenv("QUAY_CSRF_KEY"); v != "" {
		cfg.CSRFKey = v
	}
}
