package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for logging, the scan itself, report output and metrics.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// Scan contains the scanner configuration
	Scan struct {
		// Root is the directory of the module to index
		Root string `env:"SCAN_ROOT" env-default:"." yaml:"root"`
		// Manifest is a prebuilt index file; when set the sources under Root are not parsed
		Manifest string `env:"SCAN_MANIFEST" yaml:"manifest"`
		// ResourcePackages scope application and marker discovery; empty means every package
		ResourcePackages []string `env:"SCAN_RESOURCE_PACKAGES" env-separator:"," yaml:"resourcePackages"`
		// SchemaPackages are expanded into all the types they contain
		SchemaPackages []string `env:"SCAN_SCHEMA_PACKAGES" env-separator:"," yaml:"schemaPackages"`
		// UseResourcePackagesChildren lets packages nested below a resource package match it
		UseResourcePackagesChildren bool `env:"SCAN_USE_RESOURCE_PACKAGES_CHILDREN" env-default:"false" yaml:"useResourcePackagesChildren"` //nolint: lll
		// IncludeUnexported also indexes unexported types
		IncludeUnexported bool `env:"SCAN_INCLUDE_UNEXPORTED" env-default:"false" yaml:"includeUnexported"`
		// DirectivePrefix is the namespace of marker directives, e.g. "openapi" for //openapi:path
		DirectivePrefix string `env:"SCAN_DIRECTIVE_PREFIX" env-default:"openapi" yaml:"directivePrefix"`
		// InstantiateApplication constructs the discovered application type; only enable
		// it in a binary that registers the module's constructors with instance.Register
		InstantiateApplication bool `env:"SCAN_INSTANTIATE_APPLICATION" env-default:"false" yaml:"instantiateApplication"`
	} `yaml:"scan"`

	// Output contains report output settings
	Output struct {
		// Path is the report file; empty writes to stdout
		Path string `env:"OUTPUT_PATH" yaml:"path"`
		// Indent is the JSON indentation width; 0 writes compact JSON
		Indent int `env:"OUTPUT_INDENT" env-default:"2" yaml:"indent"`
	} `yaml:"output"`

	// Metrics contains metrics export settings
	Metrics struct {
		// TextfilePath is where metrics are written after a run; empty disables export
		TextfilePath string `env:"METRICS_TEXTFILE_PATH" yaml:"textfilePath"`
	} `yaml:"metrics"`
}

// Load reads the yaml config file at configPath and applies environment
// overrides. A missing file is not an error: configuration then comes from the
// environment and defaults only.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from environment: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
