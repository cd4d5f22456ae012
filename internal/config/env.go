package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfigFile names a project config file used instead of ./prjct.toml.
const EnvConfigFile = "PRJCT_CONFIG"

// loadFromEnv overrides fields whose PRJCT_* variable is set.
func loadFromEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
