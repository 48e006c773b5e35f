package config

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// EnvLogLevel overrides the configured log level when set.
const EnvLogLevel = "IMAGE_LAYERS_LOG_LEVEL"

type config struct {
	Main    configMain    `yaml:"main"`
	Effects configEffects `yaml:"effects"`
	Preview configPreview `yaml:"preview"`
	Files   configFiles   `yaml:"files"`
}

type configMain struct {
	LogLevel string `yaml:"log_level"`
	DevMode  bool   `yaml:"dev_mode"`
}

type configEffects struct {
	// MosaicSeed seeds the mosaic random source; 0 seeds from the clock.
	MosaicSeed uint64 `yaml:"mosaic_seed"`
}

type configPreview struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

type configFiles struct {
	DefaultFormat string `yaml:"default_format"`
	Cache         bool   `yaml:"cache"`
}

// Defaults returns the built-in configuration.
func Defaults() config {
	return config{
		Main: configMain{
			LogLevel: "info",
		},
		Preview: configPreview{
			MaxWidth:  1024,
			MaxHeight: 1024,
		},
		Files: configFiles{
			DefaultFormat: "png",
			Cache:         true,
		},
	}
}

// Config holds the configuration data from the configuration file, the
// environment or flags. It starts out with the values from Defaults.
var Config = Defaults()

// LoadConfiguration reads the YAML file at configPath over Config and then
// applies environment overrides. An empty path only applies the
// environment.
func LoadConfiguration(configPath string) error {
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read configuration: %w", err)
		}
		if err := yaml.Unmarshal(data, &Config); err != nil {
			return fmt.Errorf("failed to parse configuration: %w", err)
		}
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		Config.Main.LogLevel = lvl
	}

	return Config.Validate()
}

var formats = []interface{}{"ppm", "png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff"}

var levels = []interface{}{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}

// Validate checks the loaded values.
func (c *config) Validate() error {
	return validation.Errors{
		"main": validation.ValidateStruct(&c.Main,
			validation.Field(&c.Main.LogLevel, validation.Required, validation.In(levels...)),
		),
		"preview": validation.ValidateStruct(&c.Preview,
			validation.Field(&c.Preview.MaxWidth, validation.Min(0)),
			validation.Field(&c.Preview.MaxHeight, validation.Min(0)),
		),
		"files": validation.ValidateStruct(&c.Files,
			validation.Field(&c.Files.DefaultFormat, validation.Required, validation.In(formats...)),
		),
	}.Filter()
}
