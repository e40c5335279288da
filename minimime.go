// Package minimime resolves filenames, file extensions and content types to
// MIME metadata: the canonical extension, the content type, the transfer
// encoding and a binary/text classification.
//
// The two lookup datasets are embedded at build time, so resolution needs no
// runtime data files, no OS mime tables and no network access. Lookups
// against a constructed Database are plain map reads and safe for concurrent
// use. The package-level lookup functions share a single lazily built
// database; callers that want explicit ownership or a custom dataset can
// construct their own with NewDatabase.
package minimime

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"
)

//go:embed db/ext_mime.db
var extensionData []byte

//go:embed db/content_type_mime.db
var contentTypeData []byte

var (
	defaultOnce sync.Once
	defaultDB   *Database
	defaultErr  error
)

// Default returns the process-wide Database built from the embedded
// datasets. It is constructed on first use, exactly once, and is read-only
// afterwards. The error is non-nil only when the embedded data cannot be
// read, which means the build itself is broken.
func Default() (*Database, error) {
	defaultOnce.Do(func() {
		defaultDB, defaultErr = NewDatabase(
			bytes.NewReader(extensionData),
			bytes.NewReader(contentTypeData),
		)
	})
	return defaultDB, defaultErr
}

func mustDefault() *Database {
	db, err := Default()
	if err != nil {
		panic(fmt.Sprintf("minimime: embedded database failed to load: %v", err))
	}
	return db
}

// LookupByFilename resolves a filename or path against the default database.
// It panics if the embedded datasets cannot be loaded; use Default directly
// to handle that case as an error.
func LookupByFilename(filename string) (Info, bool) {
	return mustDefault().LookupByFilename(filename)
}

// LookupByExtension resolves a file extension (without the leading dot)
// against the default database, trying the exact spelling first and the
// lowercased form second.
func LookupByExtension(extension string) (Info, bool) {
	return mustDefault().LookupByExtension(extension)
}

// LookupByContentType resolves a content type against the default database
// by exact match.
func LookupByContentType(contentType string) (Info, bool) {
	return mustDefault().LookupByContentType(contentType)
}
