package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ParseMimeTypes reads an Apache httpd style mime.types listing: one content
// type per line followed by its extensions, separated by whitespace. Blank
// lines and # comments are skipped, as are types that list no extensions.
// Source order is preserved.
func ParseMimeTypes(r io.Reader) ([]Type, error) {
	var types []Type
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		types = append(types, Type{ContentType: fields[0], Extensions: fields[1:]})
	}
	return types, scanner.Err()
}

type registryEntry struct {
	ContentType string   `json:"content-type" yaml:"content-type"`
	Extensions  []string `json:"extensions" yaml:"extensions"`
	Encoding    string   `json:"encoding" yaml:"encoding"`
	Preferred   string   `json:"preferred-extension" yaml:"preferred-extension"`
	Obsolete    bool     `json:"obsolete" yaml:"obsolete"`
}

// LoadRegistry reads a media-type registry export, a flat list of entries
// with content-type, extensions and optional encoding and preferred
// extension. The format is chosen by file extension: .json, .yaml or .yml.
// Obsolete entries are dropped.
func LoadRegistry(path string) ([]Type, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []registryEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parsing registry %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parsing registry %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("registry %s: unsupported format %q", path, filepath.Ext(path))
	}

	types := make([]Type, 0, len(entries))
	for _, e := range entries {
		if e.Obsolete {
			continue
		}
		types = append(types, Type{
			ContentType: e.ContentType,
			Extensions:  e.Extensions,
			Encoding:    e.Encoding,
			Preferred:   e.Preferred,
		})
	}
	return types, nil
}

type overridesFile struct {
	Override []overrideEntry `toml:"override"`
}

type overrideEntry struct {
	ContentType string   `toml:"content-type"`
	Extensions  []string `toml:"extensions"`
	Encoding    string   `toml:"encoding"`
	Preferred   string   `toml:"preferred-extension"`
	Drop        bool     `toml:"drop"`
}

// Overrides is the parsed override list: types to merge on top of the
// registries and types to drop entirely.
type Overrides struct {
	Types []Type
	Drop  []string
}

// LoadOverrides reads the hand-maintained TOML override list applied after
// all registries. Each [[override]] entry can claim extensions for a type,
// force its encoding, pin the preferred extension, or drop the type.
func LoadOverrides(path string) (Overrides, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return Overrides{}, err
	}
	var f overridesFile
	if err := tree.Unmarshal(&f); err != nil {
		return Overrides{}, fmt.Errorf("parsing overrides %s: %w", path, err)
	}

	var ov Overrides
	for _, o := range f.Override {
		if o.Drop {
			ov.Drop = append(ov.Drop, o.ContentType)
			continue
		}
		ov.Types = append(ov.Types, Type{
			ContentType: o.ContentType,
			Extensions:  o.Extensions,
			Encoding:    o.Encoding,
			Preferred:   o.Preferred,
		})
	}
	return ov, nil
}
