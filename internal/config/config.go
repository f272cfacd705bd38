package config

import (
	"fmt"
	"os"

	"github.com/Versifine/voxel/internal/shapes"
	"github.com/Versifine/voxel/internal/world"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config path given on the command line.
const EnvConfigPath = "VOXEL_CONFIG"

type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Engine    EngineConfig    `yaml:"engine"`
	Catalogue CatalogueConfig `yaml:"catalogue"`
	World     WorldConfig     `yaml:"world"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type EngineConfig struct {
	CubeMergeLimit int `yaml:"cube_merge_limit"`
}

type CatalogueConfig struct {
	Path string `yaml:"path"`
}

type WorldConfig struct {
	Dimension string `yaml:"dimension"`
}

// MetricsConfig enables the prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Engine: EngineConfig{
			CubeMergeLimit: shapes.DefaultCubeMergeLimit,
		},
		Catalogue: CatalogueConfig{
			Path: "configs/blocks.yaml",
		},
		World: WorldConfig{
			Dimension: world.DimensionOverworld,
		},
	}
}

// ResolvePath returns the path named by EnvConfigPath when it is set, and
// path otherwise.
func ResolvePath(path string) string {
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return path
}

// Load reads path over Default and validates the result. Keys missing from
// the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "text", "json":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	if c.Engine.CubeMergeLimit < 1 {
		return fmt.Errorf("engine.cube_merge_limit must be positive, got %d", c.Engine.CubeMergeLimit)
	}
	if c.Catalogue.Path == "" {
		return fmt.Errorf("catalogue.path is empty")
	}
	if _, ok := world.VanillaDimensionBounds(c.World.Dimension); !ok {
		return fmt.Errorf("unknown dimension %q", c.World.Dimension)
	}
	return nil
}
