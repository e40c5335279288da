// Command gendb rebuilds the lookup datasets from their sources: Apache
// style mime.types listings, media-type registry exports and the TOML
// override list. Sources are merged in that order and the two dataset files
// are rewritten atomically.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"git.uuxo.net/uuxo/minimime"
	"git.uuxo.net/uuxo/minimime/internal/config"
	"git.uuxo.net/uuxo/minimime/internal/dataset"
	"git.uuxo.net/uuxo/minimime/internal/logging"
)

const version = "1.2.0"

var log = logrus.New()

func main() {
	var configFile string
	var mimeTypesList string
	var registryList string
	var overridesFile string
	var outputDir string
	var genConfig bool
	var showVersion bool

	flag.StringVar(&configFile, "config", "", "Path to configuration file.")
	flag.StringVar(&mimeTypesList, "mime-types", "", "Comma-separated mime.types files to merge.")
	flag.StringVar(&registryList, "registry", "", "Comma-separated registry exports (.json/.yaml) to merge.")
	flag.StringVar(&overridesFile, "overrides", "", "TOML override list applied last.")
	flag.StringVar(&outputDir, "out", "", "Directory the dataset files are written to.")
	flag.BoolVar(&genConfig, "genconfig", false, "Print minimal configuration example and exit.")
	flag.BoolVar(&showVersion, "version", false, "Show version information and exit.")
	flag.Parse()

	if showVersion {
		fmt.Printf("minimime gendb v%s\n", version)
		os.Exit(0)
	}
	if genConfig {
		fmt.Println(config.GenerateMinimalConfig())
		os.Exit(0)
	}

	config.SetLogger(log)

	conf := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := config.ValidateConfig(loaded); err != nil {
			log.Fatalf("Configuration validation failed: %v", err)
		}
		conf = loaded
	}
	logging.Setup(log, conf.Logging)

	// Flags override whatever the config file says.
	if mimeTypesList != "" {
		conf.Generator.MimeTypesFiles = splitList(mimeTypesList)
	}
	if registryList != "" {
		conf.Generator.RegistryFiles = splitList(registryList)
	}
	if overridesFile != "" {
		conf.Generator.OverridesFile = overridesFile
	}
	if outputDir != "" {
		conf.Generator.OutputDir = outputDir
	}

	if len(conf.Generator.MimeTypesFiles) == 0 && len(conf.Generator.RegistryFiles) == 0 {
		log.Fatal("No dataset sources configured; pass -mime-types or -registry, or set them in the config file.")
	}

	builder := dataset.NewBuilder()

	for _, path := range conf.Generator.MimeTypesFiles {
		types, err := parseMimeTypesFile(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		builder.AddTypes(types)
		log.Infof("Merged %d types from %s", len(types), path)
	}
	for _, path := range conf.Generator.RegistryFiles {
		types, err := dataset.LoadRegistry(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		builder.AddTypes(types)
		log.Infof("Merged %d types from %s", len(types), path)
	}
	if conf.Generator.OverridesFile != "" {
		ov, err := dataset.LoadOverrides(conf.Generator.OverridesFile)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", conf.Generator.OverridesFile, err)
		}
		builder.AddTypes(ov.Types)
		for _, ct := range ov.Drop {
			builder.Remove(ct)
		}
		log.Infof("Applied %d overrides from %s (%d dropped)", len(ov.Types), conf.Generator.OverridesFile, len(ov.Drop))
	}

	if err := os.MkdirAll(conf.Generator.OutputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	extPath := filepath.Join(conf.Generator.OutputDir, "ext_mime.db")
	ctPath := filepath.Join(conf.Generator.OutputDir, "content_type_mime.db")

	extRecords := builder.ExtensionRecords()
	size, err := writeDataset(extPath, extRecords)
	if err != nil {
		log.Fatalf("Failed to write %s: %v", extPath, err)
	}
	log.Infof("Wrote %s: %d records, %s", extPath, len(extRecords), humanize.Bytes(uint64(size)))

	ctRecords := builder.ContentTypeRecords()
	size, err = writeDataset(ctPath, ctRecords)
	if err != nil {
		log.Fatalf("Failed to write %s: %v", ctPath, err)
	}
	log.Infof("Wrote %s: %d records, %s", ctPath, len(ctRecords), humanize.Bytes(uint64(size)))

	verify(extPath, ctPath)
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseMimeTypesFile(path string) ([]dataset.Type, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.ParseMimeTypes(f)
}

// writeDataset writes records to a temporary file in the target directory
// and renames it over path, so readers never observe a half-written dataset.
func writeDataset(path string, records []minimime.Info) (int, error) {
	var buf bytes.Buffer
	if err := dataset.WriteRecords(&buf, records); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	return buf.Len(), nil
}

// verify loads the freshly written pair through the real database loader.
func verify(extPath, ctPath string) {
	extFile, err := os.Open(extPath)
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}
	defer extFile.Close()
	ctFile, err := os.Open(ctPath)
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}
	defer ctFile.Close()

	db, err := minimime.NewDatabase(extFile, ctFile)
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}
	log.Infof("Verified: %d extensions, %d content types", len(db.Extensions()), len(db.ContentTypes()))
}
