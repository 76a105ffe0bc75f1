package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type ServerConfig struct {
	Port int `json:"port" validate:"gt=0"`
}

type DatabaseConfig struct {
	// Postgres connection string. When set it wins over the sqlite path.
	URL string `json:"url"`
	// Local sqlite file, or ":memory:".
	SQLitePath string `json:"sqlite_path" validate:"required"`
}

type PlannerConfig struct {
	TargetClusterCapacity int   `json:"target_cluster_capacity" validate:"gt=0"`
	IterationCap          int   `json:"iteration_cap" validate:"gt=0"`
	Seed                  int64 `json:"seed"`
	Workers               int   `json:"workers" validate:"gt=0"`
}

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Planner  PlannerConfig  `json:"planner"`
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/app.db"
	}
	if c.Planner.TargetClusterCapacity == 0 {
		c.Planner.TargetClusterCapacity = 12
	}
	if c.Planner.IterationCap == 0 {
		c.Planner.IterationCap = 30
	}
	if c.Planner.Seed == 0 {
		c.Planner.Seed = 42
	}
	if c.Planner.Workers == 0 {
		c.Planner.Workers = 4
	}
}

// Load builds the configuration from an optional yaml/json file plus STS_
// environment overrides (STS_PLANNER__SEED=7 sets planner.seed), applies
// defaults and validates the result. An empty path loads environment and
// defaults only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("load config: unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("STS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sts_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load config: environment overrides: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	cfg.setDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("load config: validate: %w", err)
	}

	return &cfg, nil
}
