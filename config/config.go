package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration, read from a yaml file with environment
// overrides for deployment.
type Config struct {
	Listen          string `yaml:"listen"`
	DSN             string `yaml:"dsn"`
	MaxConnections  int    `yaml:"maxConnections"`
	SigningSecret   string `yaml:"signingSecret"` // base64
	AuditQueueDepth int    `yaml:"auditQueueDepth"`
	AutoMigrate     bool   `yaml:"autoMigrate"`
}

// Load reads the yaml file at path (when present) and applies environment
// overrides: LISTEN, DSN, SMARTLOCK_SIGNING_SECRET.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Listen:          "0.0.0.0:8090",
		MaxConnections:  10,
		AuditQueueDepth: 256,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if v := os.Getenv("LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("SMARTLOCK_SIGNING_SECRET"); v != "" {
		cfg.SigningSecret = v
	}

	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required (config file or DSN env)")
	}
	if cfg.SigningSecret == "" {
		return nil, fmt.Errorf("signing secret is required (config file or SMARTLOCK_SIGNING_SECRET env)")
	}

	return cfg, nil
}
