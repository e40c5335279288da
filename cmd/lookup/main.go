// Command lookup resolves filenames, extensions and content types against
// the MIME database from the command line. It exits non-zero when any query
// has no record, so it can back shell conditionals.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"git.uuxo.net/uuxo/minimime"
	"git.uuxo.net/uuxo/minimime/internal/config"
	"git.uuxo.net/uuxo/minimime/internal/logging"
)

const version = "1.2.0"

var log = logrus.New()

type result struct {
	Query       string `json:"query"`
	Found       bool   `json:"found"`
	Extension   string `json:"extension,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Encoding    string `json:"encoding,omitempty"`
	Binary      bool   `json:"binary"`
}

func main() {
	var configFile string
	var extension string
	var contentType string
	var asJSON bool
	var showVersion bool

	flag.StringVar(&configFile, "config", "", "Path to configuration file.")
	flag.StringVar(&extension, "ext", "", "Resolve a file extension given without the leading dot.")
	flag.StringVar(&contentType, "type", "", "Resolve a content type by exact match.")
	flag.BoolVar(&asJSON, "json", false, "Emit results as JSON.")
	flag.BoolVar(&showVersion, "version", false, "Show version information and exit.")
	flag.Parse()

	if showVersion {
		fmt.Printf("minimime lookup v%s\n", version)
		os.Exit(0)
	}

	if extension == "" && contentType == "" && flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: lookup [-config file] [-json] [-ext extension] [-type content-type] [filename ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	db := openDatabase(configFile)

	var results []result
	if extension != "" {
		info, ok := db.LookupByExtension(extension)
		results = append(results, newResult(extension, info, ok))
	}
	if contentType != "" {
		info, ok := db.LookupByContentType(contentType)
		results = append(results, newResult(contentType, info, ok))
	}
	for _, filename := range flag.Args() {
		info, ok := db.LookupByFilename(filename)
		results = append(results, newResult(filename, info, ok))
	}

	if asJSON {
		printJSON(results)
	} else {
		printTable(results)
	}

	for _, r := range results {
		if !r.Found {
			os.Exit(1)
		}
	}
}

func newResult(query string, info minimime.Info, found bool) result {
	r := result{Query: query, Found: found}
	if found {
		r.Extension = info.Extension
		r.ContentType = info.ContentType
		r.Encoding = info.Encoding
		r.Binary = info.IsBinary()
	}
	return r
}

// openDatabase returns the embedded database, or the external pair when the
// config names one.
func openDatabase(configFile string) *minimime.Database {
	if configFile == "" {
		db, err := minimime.Default()
		if err != nil {
			log.Fatalf("Failed to load embedded datasets: %v", err)
		}
		return db
	}

	config.SetLogger(log)
	conf, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ValidateConfig(conf); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	logging.Setup(log, conf.Logging)

	if !conf.UsesExternalDatasets() {
		db, err := minimime.Default()
		if err != nil {
			log.Fatalf("Failed to load embedded datasets: %v", err)
		}
		return db
	}

	extFile, err := os.Open(conf.Database.ExtensionFile)
	if err != nil {
		log.Fatalf("Failed to open extension dataset: %v", err)
	}
	defer extFile.Close()
	ctFile, err := os.Open(conf.Database.ContentTypeFile)
	if err != nil {
		log.Fatalf("Failed to open content-type dataset: %v", err)
	}
	defer ctFile.Close()

	db, err := minimime.NewDatabase(extFile, ctFile)
	if err != nil {
		log.Fatalf("Failed to load datasets: %v", err)
	}
	return db
}

func printJSON(results []result) {
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode results: %v", err)
	}
	fmt.Println(string(out))
}

func printTable(results []result) {
	fmt.Printf("%-24s %-52s %-18s %s\n", "QUERY", "CONTENT-TYPE", "ENCODING", "CLASS")
	for _, r := range results {
		if !r.Found {
			fmt.Printf("%-24s %-52s %-18s %s\n", r.Query, "-", "-", "not found")
			continue
		}
		class := "text"
		if r.Binary {
			class = "binary"
		}
		fmt.Printf("%-24s %-52s %-18s %s\n", r.Query, r.ContentType, r.Encoding, class)
	}
}
