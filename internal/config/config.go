package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Compare CompareConfig `yaml:"compare" mapstructure:"compare"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// InputConfig names the boundary source file.
type InputConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Format string `yaml:"format" mapstructure:"format"` // auto, geojson or shapefile
}

// ExtractConfig configures the municipality extractor.
type ExtractConfig struct {
	AdminLevel string `yaml:"admin_level" mapstructure:"admin_level"`
	IDPrefix   string `yaml:"id_prefix" mapstructure:"id_prefix"` // empty: per input format
	Output     string `yaml:"output" mapstructure:"output"`
	OmitMiles  bool   `yaml:"omit_miles" mapstructure:"omit_miles"`
}

// CompareConfig configures the corner comparison.
type CompareConfig struct {
	Name       string `yaml:"name" mapstructure:"name"`
	AdminLevel string `yaml:"admin_level" mapstructure:"admin_level"`
	Corners    string `yaml:"corners" mapstructure:"corners"`
	UTMZone    int    `yaml:"utm_zone" mapstructure:"utm_zone"`
	South      bool   `yaml:"south" mapstructure:"south"`
	Output     string `yaml:"output" mapstructure:"output"`
	XLSX       string `yaml:"xlsx" mapstructure:"xlsx"`       // empty: off
	Overlay    string `yaml:"overlay" mapstructure:"overlay"` // empty: off
	FirstMatch bool   `yaml:"first_match" mapstructure:"first_match"`
}

// StoreConfig configures the optional SQLite export.
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"` // empty: off
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BOUNDARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("input.path", "2025-10-09_nh-boundaries.geojson")
	v.SetDefault("input.format", "auto")
	v.SetDefault("extract.admin_level", "8")
	v.SetDefault("extract.id_prefix", "")
	v.SetDefault("extract.output", "nh_municipalities.json")
	v.SetDefault("extract.omit_miles", false)
	v.SetDefault("compare.name", "Enfield")
	v.SetDefault("compare.admin_level", "8")
	v.SetDefault("compare.corners", "data/enfield_corners.yaml")
	v.SetDefault("compare.utm_zone", 19)
	v.SetDefault("compare.south", false)
	v.SetDefault("compare.output", "enfield_corner_inaccuracy.json")
	v.SetDefault("compare.xlsx", "")
	v.SetDefault("compare.overlay", "")
	v.SetDefault("compare.first_match", false)
	v.SetDefault("store.sqlite_path", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Every problem is
// reported in one error.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Input.Format {
	case "auto", "geojson", "shapefile":
	default:
		errs = append(errs, "input.format must be auto, geojson or shapefile")
	}

	switch mode {
	case "extract":
		if c.Input.Path == "" {
			errs = append(errs, "input.path is required")
		}
		if c.Extract.AdminLevel == "" {
			errs = append(errs, "extract.admin_level is required")
		}
		if c.Extract.Output == "" {
			errs = append(errs, "extract.output is required")
		}
	case "compare":
		if c.Input.Path == "" {
			errs = append(errs, "input.path is required")
		}
		if c.Compare.Name == "" {
			errs = append(errs, "compare.name is required")
		}
		if c.Compare.AdminLevel == "" {
			errs = append(errs, "compare.admin_level is required")
		}
		if c.Compare.Corners == "" {
			errs = append(errs, "compare.corners is required")
		}
		if c.Compare.UTMZone < 1 || c.Compare.UTMZone > 60 {
			errs = append(errs, "compare.utm_zone must be between 1 and 60")
		}
		if c.Compare.Output == "" {
			errs = append(errs, "compare.output is required")
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
