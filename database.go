package minimime

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// LoadError reports that a dataset could not be read during database
// construction. Malformed individual lines are not load errors; they are
// skipped silently.
type LoadError struct {
	Dataset string // "extensions" or "content types"
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("minimime: loading %s dataset: %v", e.Dataset, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Database holds the two lookup indices built from the extension and
// content-type datasets. A Database is immutable once constructed and safe
// for any number of concurrent readers without locking.
type Database struct {
	byExtension   map[string]Info
	byContentType map[string]Info
}

// NewDatabase builds a Database from the two datasets. Each input is read
// line by line and parsed with ParseInfo; short or blank lines are skipped.
// When the same key occurs twice within one dataset, the later line wins.
// The datasets are independent: neither is reconciled against the other.
// The only failure mode is an input that cannot be read at all, reported as
// a *LoadError.
func NewDatabase(extensions, contentTypes io.Reader) (*Database, error) {
	db := &Database{
		byExtension:   make(map[string]Info),
		byContentType: make(map[string]Info),
	}

	if err := scanDataset(extensions, func(info Info) {
		db.byExtension[info.Extension] = info
	}); err != nil {
		return nil, &LoadError{Dataset: "extensions", Err: err}
	}
	if err := scanDataset(contentTypes, func(info Info) {
		db.byContentType[info.ContentType] = info
	}); err != nil {
		return nil, &LoadError{Dataset: "content types", Err: err}
	}

	return db, nil
}

func scanDataset(r io.Reader, insert func(Info)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if info, ok := ParseInfo(scanner.Text()); ok {
			insert(info)
		}
	}
	return scanner.Err()
}

// LookupByExtension returns the record for a file extension, given without
// the leading dot. The exact spelling is tried first, then the lowercased
// form, so a dataset that keys both "ZIP" and "zip" resolves "ZIP" to its
// exact entry and "Zip" to the lowercase one.
func (db *Database) LookupByExtension(extension string) (Info, bool) {
	if info, ok := db.byExtension[extension]; ok {
		return info, true
	}
	info, ok := db.byExtension[strings.ToLower(extension)]
	return info, ok
}

// LookupByContentType returns the record for a content type. The match is
// exact: no case folding, no trimming.
func (db *Database) LookupByContentType(contentType string) (Info, bool) {
	info, ok := db.byContentType[contentType]
	return info, ok
}

// LookupByFilename extracts the extension from the last path element of
// filename and resolves it via LookupByExtension. A name with no dot in its
// last element, or one ending in a bare dot, has no extension and misses
// without consulting the index.
func (db *Database) LookupByFilename(filename string) (Info, bool) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return Info{}, false
	}
	return db.LookupByExtension(ext)
}

// Extensions returns the records of the extension index, sorted by
// extension. The slice is a copy; mutating it does not affect the database.
func (db *Database) Extensions() []Info {
	infos := make([]Info, 0, len(db.byExtension))
	for _, info := range db.byExtension {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Extension < infos[j].Extension
	})
	return infos
}

// ContentTypes returns the records of the content-type index, sorted by
// content type. The slice is a copy; mutating it does not affect the
// database.
func (db *Database) ContentTypes() []Info {
	infos := make([]Info, 0, len(db.byContentType))
	for _, info := range db.byContentType {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ContentType < infos[j].ContentType
	})
	return infos
}
