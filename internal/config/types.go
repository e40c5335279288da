// Package config contains all configuration types and loading logic.
package config

// Config is the root of the TOML configuration shared by the command-line
// tools. Every section is optional; defaults cover a plain run against the
// embedded datasets.
type Config struct {
	Logging   LoggingConfig   `toml:"logging" mapstructure:"logging"`
	Database  DatabaseConfig  `toml:"database" mapstructure:"database"`
	Generator GeneratorConfig `toml:"generator" mapstructure:"generator"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// DatabaseConfig points the tools at an external dataset pair instead of the
// embedded one. Both paths must be set together.
type DatabaseConfig struct {
	ExtensionFile   string `toml:"extension_file" mapstructure:"extension_file"`
	ContentTypeFile string `toml:"content_type_file" mapstructure:"content_type_file"`
}

// GeneratorConfig lists the sources the dataset generator merges, in the
// order they are applied.
type GeneratorConfig struct {
	MimeTypesFiles []string `toml:"mime_types_files" mapstructure:"mime_types_files"`
	RegistryFiles  []string `toml:"registry_files" mapstructure:"registry_files"`
	OverridesFile  string   `toml:"overrides_file" mapstructure:"overrides_file"`
	OutputDir      string   `toml:"output_dir" mapstructure:"output_dir"`
}

// UsesExternalDatasets reports whether an external dataset pair is
// configured.
func (c *Config) UsesExternalDatasets() bool {
	return c.Database.ExtensionFile != "" || c.Database.ContentTypeFile != ""
}
