// Package dataset builds the flat lookup datasets shipped with the library.
// It merges extension listings from several source formats, resolves which
// content type owns each extension, picks a preferred extension per type and
// emits the records in the aligned three-column layout the parser expects.
package dataset

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"git.uuxo.net/uuxo/minimime"
)

// Transfer encodings assigned to records whose source does not specify one.
const (
	encodingText   = "quoted-printable"
	encodingBinary = "base64"
)

// Type collects everything a source states about one content type. Encoding
// and Preferred are optional; empty values mean the builder decides.
type Type struct {
	ContentType string
	Extensions  []string
	Encoding    string
	Preferred   string
}

// Builder accumulates Types from successive sources. Sources are applied in
// the order given: a later source may extend a type seen earlier, replace
// its encoding or preferred extension, and take ownership of an extension
// that an earlier type claimed.
type Builder struct {
	order []string
	types map[string]*Type
	owner map[string]string
}

func NewBuilder() *Builder {
	return &Builder{
		types: make(map[string]*Type),
		owner: make(map[string]string),
	}
}

// AddTypes merges one source into the builder. Content types are matched
// exactly, case preserved. Within a type, extensions keep their first-seen
// order. Within one source the first type to list an extension keeps it; a
// later source takes ownership of every extension it lists.
func (b *Builder) AddTypes(types []Type) {
	claimed := make(map[string]bool)
	for _, t := range types {
		if t.ContentType == "" {
			continue
		}
		merged, ok := b.types[t.ContentType]
		if !ok {
			merged = &Type{ContentType: t.ContentType}
			b.types[t.ContentType] = merged
			b.order = append(b.order, t.ContentType)
		}
		for _, ext := range t.Extensions {
			if ext == "" {
				continue
			}
			if !containsString(merged.Extensions, ext) {
				merged.Extensions = append(merged.Extensions, ext)
			}
			if claimed[ext] && b.owner[ext] != t.ContentType {
				continue
			}
			b.owner[ext] = t.ContentType
			claimed[ext] = true
		}
		if t.Encoding != "" {
			merged.Encoding = t.Encoding
		}
		if t.Preferred != "" {
			merged.Preferred = t.Preferred
		}
	}
}

// Remove drops a content type and releases the extensions it owns. Types
// named by an override's drop entry go through here.
func (b *Builder) Remove(contentType string) {
	t, ok := b.types[contentType]
	if !ok {
		return
	}
	for _, ext := range t.Extensions {
		if b.owner[ext] == contentType {
			delete(b.owner, ext)
		}
	}
	delete(b.types, contentType)
}

// Len reports the number of distinct content types seen so far.
func (b *Builder) Len() int { return len(b.types) }

// ExtensionRecords returns one record per owned extension, sorted by
// extension. This is the content of the extension dataset.
func (b *Builder) ExtensionRecords() []minimime.Info {
	exts := make([]string, 0, len(b.owner))
	for ext := range b.owner {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	records := make([]minimime.Info, 0, len(exts))
	for _, ext := range exts {
		t := b.types[b.owner[ext]]
		records = append(records, minimime.Info{
			Extension:   ext,
			ContentType: t.ContentType,
			Encoding:    b.encodingFor(t),
		})
	}
	return records
}

// ContentTypeRecords returns one record per content type that still owns at
// least one extension, sorted by content type. The record carries the
// preferred extension: the explicit one when a source set it and the type
// still owns it, otherwise the first extension the type owns.
func (b *Builder) ContentTypeRecords() []minimime.Info {
	names := make([]string, 0, len(b.order))
	names = append(names, b.order...)
	sort.Strings(names)

	records := make([]minimime.Info, 0, len(names))
	for _, name := range names {
		t, ok := b.types[name]
		if !ok {
			continue
		}
		ext := b.preferredFor(t)
		if ext == "" {
			continue
		}
		records = append(records, minimime.Info{
			Extension:   ext,
			ContentType: t.ContentType,
			Encoding:    b.encodingFor(t),
		})
	}
	return records
}

func (b *Builder) preferredFor(t *Type) string {
	if t.Preferred != "" && b.owner[t.Preferred] == t.ContentType {
		return t.Preferred
	}
	for _, ext := range t.Extensions {
		if b.owner[ext] == t.ContentType {
			return ext
		}
	}
	return ""
}

func (b *Builder) encodingFor(t *Type) string {
	if t.Encoding != "" {
		return t.Encoding
	}
	if strings.HasPrefix(t.ContentType, "text/") {
		return encodingText
	}
	return encodingBinary
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// WriteRecords emits records in the dataset file layout: extension and
// content type left-justified in columns sized to the longest value,
// encoding last. Records written this way parse back unchanged with
// minimime.ParseInfo.
func WriteRecords(w io.Writer, records []minimime.Info) error {
	extWidth, typeWidth := 0, 0
	for _, r := range records {
		if len(r.Extension) > extWidth {
			extWidth = len(r.Extension)
		}
		if len(r.ContentType) > typeWidth {
			typeWidth = len(r.ContentType)
		}
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%-*s %-*s %s\n", extWidth, r.Extension, typeWidth, r.ContentType, r.Encoding); err != nil {
			return err
		}
	}
	return nil
}
