package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
[logging]
level = "debug"
file = "/var/log/minimime.log"
compress = true

[database]
extension_file = "/usr/share/minimime/ext_mime.db"
content_type_file = "/usr/share/minimime/content_type_mime.db"

[generator]
mime_types_files = ["data/mime.types"]
registry_files = ["data/registry.yaml", "data/extra.json"]
output_dir = "out"
`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if conf.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", conf.Logging.Level, "debug")
	}
	if conf.Logging.File != "/var/log/minimime.log" {
		t.Errorf("Logging.File = %q, want %q", conf.Logging.File, "/var/log/minimime.log")
	}
	if !conf.Logging.Compress {
		t.Error("Logging.Compress = false, want true")
	}
	if conf.Database.ExtensionFile != "/usr/share/minimime/ext_mime.db" {
		t.Errorf("Database.ExtensionFile = %q", conf.Database.ExtensionFile)
	}
	if !conf.UsesExternalDatasets() {
		t.Error("UsesExternalDatasets() = false, want true")
	}
	if len(conf.Generator.RegistryFiles) != 2 {
		t.Errorf("Generator.RegistryFiles = %v, want 2 entries", conf.Generator.RegistryFiles)
	}
	if conf.Generator.OutputDir != "out" {
		t.Errorf("Generator.OutputDir = %q, want %q", conf.Generator.OutputDir, "out")
	}
	// Defaults fill whatever the file leaves out.
	if conf.Logging.MaxSize != 100 {
		t.Errorf("Logging.MaxSize = %d, want 100", conf.Logging.MaxSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load() error = nil, want missing file error")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	conf, err := Load(writeConfigFile(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if conf.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", conf.Logging.Level, "info")
	}
	if conf.Generator.OutputDir != "db" {
		t.Errorf("Generator.OutputDir = %q, want %q", conf.Generator.OutputDir, "db")
	}
	if conf.UsesExternalDatasets() {
		t.Error("UsesExternalDatasets() = true, want false")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad logging level",
			mutate:  func(c *Config) { c.Logging.Level = "shout" },
			wantErr: true,
		},
		{
			name: "external datasets set together",
			mutate: func(c *Config) {
				c.Database.ExtensionFile = "ext.db"
				c.Database.ContentTypeFile = "ct.db"
			},
		},
		{
			name:    "extension file without content-type file",
			mutate:  func(c *Config) { c.Database.ExtensionFile = "ext.db" },
			wantErr: true,
		},
		{
			name:    "content-type file without extension file",
			mutate:  func(c *Config) { c.Database.ContentTypeFile = "ct.db" },
			wantErr: true,
		},
		{
			name:    "missing overrides file",
			mutate:  func(c *Config) { c.Generator.OverridesFile = "/nonexistent/overrides.toml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := DefaultConfig()
			tt.mutate(conf)
			err := ValidateConfig(conf)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
