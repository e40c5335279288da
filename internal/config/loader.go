package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var log = logrus.New()

// SetLogger replaces the package-level logger.
func SetLogger(l *logrus.Logger) { log = l }

// Load reads configuration from a TOML file using viper.
func Load(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = "./config.toml"
	}

	if !fileExists(configFile) {
		return nil, fmt.Errorf("configuration file not found: %s", configFile)
	}

	viper.SetConfigFile(configFile)
	viper.SetConfigType("toml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	applyDefaults(&conf)

	log.Infof("Configuration loaded from %s", configFile)
	return &conf, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	conf := &Config{}
	applyDefaults(conf)
	return conf
}

func applyDefaults(conf *Config) {
	if conf.Logging.Level == "" {
		conf.Logging.Level = "info"
	}
	if conf.Logging.MaxSize == 0 {
		conf.Logging.MaxSize = 100
	}
	if conf.Logging.MaxBackups == 0 {
		conf.Logging.MaxBackups = 7
	}
	if conf.Logging.MaxAge == 0 {
		conf.Logging.MaxAge = 30
	}

	if conf.Generator.OutputDir == "" {
		conf.Generator.OutputDir = "db"
	}
}

// ValidateConfig performs basic configuration validation.
func ValidateConfig(c *Config) error {
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %v", err)
	}

	if (c.Database.ExtensionFile == "") != (c.Database.ContentTypeFile == "") {
		return errors.New("database.extension_file and database.content_type_file must be set together")
	}

	if c.Generator.OverridesFile != "" && !fileExists(c.Generator.OverridesFile) {
		return fmt.Errorf("generator.overrides_file not found: %s", c.Generator.OverridesFile)
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GenerateMinimalConfig returns a minimal example configuration string.
func GenerateMinimalConfig() string {
	return `# minimime - Minimal Configuration

[logging]
level = "info"
file = ""
max_size = 100
max_backups = 7
max_age = 30
compress = true

[database]
# Leave empty to use the embedded datasets.
extension_file = ""
content_type_file = ""

[generator]
mime_types_files = ["data/mime.types"]
registry_files = ["data/registry.yaml"]
overrides_file = "data/overrides.toml"
output_dir = "db"
`
}
