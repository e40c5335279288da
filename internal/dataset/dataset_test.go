package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"git.uuxo.net/uuxo/minimime"
)

func TestParseMimeTypes(t *testing.T) {
	input := `
# This file maps media types to file extensions.
application/pdf			pdf
image/jpeg			jpeg jpg jpe
application/vnd.ms-excel	xls xlm xla
text/plain			txt text conf

application/x-not-mapped
`
	got, err := ParseMimeTypes(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseMimeTypes() error = %v", err)
	}

	want := []Type{
		{ContentType: "application/pdf", Extensions: []string{"pdf"}},
		{ContentType: "image/jpeg", Extensions: []string{"jpeg", "jpg", "jpe"}},
		{ContentType: "application/vnd.ms-excel", Extensions: []string{"xls", "xlm", "xla"}},
		{ContentType: "text/plain", Extensions: []string{"txt", "text", "conf"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseMimeTypes() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRegistry(t *testing.T) {
	jsonBody := `[
  {"content-type": "application/pdf", "extensions": ["pdf"], "encoding": "base64"},
  {"content-type": "text/csv", "extensions": ["csv"]},
  {"content-type": "application/x-obsolete", "extensions": ["obs"], "obsolete": true},
  {"content-type": "image/jpeg", "extensions": ["jpeg", "jpg"], "preferred-extension": "jpg"}
]`
	yamlBody := `
- content-type: application/pdf
  extensions: [pdf]
  encoding: base64
- content-type: text/csv
  extensions: [csv]
- content-type: application/x-obsolete
  extensions: [obs]
  obsolete: true
- content-type: image/jpeg
  extensions: [jpeg, jpg]
  preferred-extension: jpg
`
	want := []Type{
		{ContentType: "application/pdf", Extensions: []string{"pdf"}, Encoding: "base64"},
		{ContentType: "text/csv", Extensions: []string{"csv"}},
		{ContentType: "image/jpeg", Extensions: []string{"jpeg", "jpg"}, Preferred: "jpg"},
	}

	tests := []struct {
		name string
		file string
		body string
	}{
		{name: "json", file: "registry.json", body: jsonBody},
		{name: "yaml", file: "registry.yaml", body: yamlBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("writing registry fixture: %v", err)
			}
			got, err := LoadRegistry(path)
			if err != nil {
				t.Fatalf("LoadRegistry() error = %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("LoadRegistry() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadRegistryUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.csv")
	if err := os.WriteFile(path, []byte("pdf,application/pdf"), 0o644); err != nil {
		t.Fatalf("writing registry fixture: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Error("LoadRegistry() error = nil, want unsupported format error")
	}
}

func TestLoadOverrides(t *testing.T) {
	body := `
[[override]]
content-type = "audio/flac"
extensions = ["flac"]

[[override]]
content-type = "model/stl"
extensions = ["stl"]
encoding = "base64"
preferred-extension = "stl"

[[override]]
content-type = "application/x-obsolete"
drop = true
`
	path := filepath.Join(t.TempDir(), "overrides.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing overrides fixture: %v", err)
	}

	got, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v", err)
	}
	want := Overrides{
		Types: []Type{
			{ContentType: "audio/flac", Extensions: []string{"flac"}},
			{ContentType: "model/stl", Extensions: []string{"stl"}, Encoding: "base64", Preferred: "stl"},
		},
		Drop: []string{"application/x-obsolete"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadOverrides() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderExtensionRecords(t *testing.T) {
	b := NewBuilder()
	b.AddTypes([]Type{
		{ContentType: "text/plain", Extensions: []string{"txt", "conf"}},
		{ContentType: "application/vnd.ms-pki.stl", Extensions: []string{"stl"}},
	})
	// A later source takes the stl extension for itself.
	b.AddTypes([]Type{
		{ContentType: "model/stl", Extensions: []string{"stl"}},
	})

	want := []minimime.Info{
		{Extension: "conf", ContentType: "text/plain", Encoding: "quoted-printable"},
		{Extension: "stl", ContentType: "model/stl", Encoding: "base64"},
		{Extension: "txt", ContentType: "text/plain", Encoding: "quoted-printable"},
	}
	if diff := cmp.Diff(want, b.ExtensionRecords()); diff != "" {
		t.Errorf("ExtensionRecords() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderFirstListingWinsWithinSource(t *testing.T) {
	b := NewBuilder()
	b.AddTypes([]Type{
		{ContentType: "application/pgp-keys", Extensions: []string{"asc"}},
		{ContentType: "application/pgp-signature", Extensions: []string{"asc", "sig"}},
	})

	want := []minimime.Info{
		{Extension: "asc", ContentType: "application/pgp-keys", Encoding: "base64"},
		{Extension: "sig", ContentType: "application/pgp-signature", Encoding: "base64"},
	}
	if diff := cmp.Diff(want, b.ExtensionRecords()); diff != "" {
		t.Errorf("ExtensionRecords() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderRemove(t *testing.T) {
	b := NewBuilder()
	b.AddTypes([]Type{
		{ContentType: "text/plain", Extensions: []string{"txt"}},
		{ContentType: "application/x-obsolete", Extensions: []string{"obs"}},
	})
	b.Remove("application/x-obsolete")
	b.Remove("application/x-never-added")

	if got := b.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	want := []minimime.Info{
		{Extension: "txt", ContentType: "text/plain", Encoding: "quoted-printable"},
	}
	if diff := cmp.Diff(want, b.ExtensionRecords()); diff != "" {
		t.Errorf("ExtensionRecords() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, b.ContentTypeRecords()); diff != "" {
		t.Errorf("ContentTypeRecords() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderMergesAcrossSources(t *testing.T) {
	b := NewBuilder()
	b.AddTypes([]Type{
		{ContentType: "image/jpeg", Extensions: []string{"jpeg", "jpg"}},
	})
	b.AddTypes([]Type{
		{ContentType: "image/jpeg", Extensions: []string{"jpe", "jpg"}, Preferred: "jpg"},
	})

	want := []minimime.Info{
		{Extension: "jpe", ContentType: "image/jpeg", Encoding: "base64"},
		{Extension: "jpeg", ContentType: "image/jpeg", Encoding: "base64"},
		{Extension: "jpg", ContentType: "image/jpeg", Encoding: "base64"},
	}
	if diff := cmp.Diff(want, b.ExtensionRecords()); diff != "" {
		t.Errorf("ExtensionRecords() mismatch (-want +got):\n%s", diff)
	}

	types := b.ContentTypeRecords()
	if len(types) != 1 {
		t.Fatalf("ContentTypeRecords() returned %d records, want 1", len(types))
	}
	if types[0].Extension != "jpg" {
		t.Errorf("preferred extension = %q, want %q", types[0].Extension, "jpg")
	}
}

func TestBuilderContentTypeRecords(t *testing.T) {
	b := NewBuilder()
	b.AddTypes([]Type{
		{ContentType: "text/plain", Extensions: []string{"txt", "conf"}},
		{ContentType: "application/pdf", Extensions: []string{"pdf"}, Encoding: "base64"},
		// Loses its only extension to a later type and must drop out.
		{ContentType: "application/vnd.ms-pki.stl", Extensions: []string{"stl"}},
	})
	b.AddTypes([]Type{
		{ContentType: "model/stl", Extensions: []string{"stl"}},
	})

	want := []minimime.Info{
		{Extension: "pdf", ContentType: "application/pdf", Encoding: "base64"},
		{Extension: "stl", ContentType: "model/stl", Encoding: "base64"},
		{Extension: "txt", ContentType: "text/plain", Encoding: "quoted-printable"},
	}
	if diff := cmp.Diff(want, b.ContentTypeRecords()); diff != "" {
		t.Errorf("ContentTypeRecords() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderPreferredIgnoredWhenStolen(t *testing.T) {
	b := NewBuilder()
	b.AddTypes([]Type{
		{ContentType: "application/x-first", Extensions: []string{"aaa", "bbb"}, Preferred: "aaa"},
	})
	b.AddTypes([]Type{
		{ContentType: "application/x-second", Extensions: []string{"aaa"}},
	})

	records := b.ContentTypeRecords()
	for _, r := range records {
		if r.ContentType == "application/x-first" && r.Extension != "bbb" {
			t.Errorf("application/x-first preferred extension = %q, want %q", r.Extension, "bbb")
		}
		if r.ContentType == "application/x-second" && r.Extension != "aaa" {
			t.Errorf("application/x-second preferred extension = %q, want %q", r.Extension, "aaa")
		}
	}
}

func TestBuilderEncoding(t *testing.T) {
	b := NewBuilder()
	b.AddTypes([]Type{
		{ContentType: "text/html", Extensions: []string{"html"}, Encoding: "8bit"},
		{ContentType: "text/csv", Extensions: []string{"csv"}},
		{ContentType: "application/zip", Extensions: []string{"zip"}},
	})

	want := map[string]string{
		"html": "8bit",
		"csv":  "quoted-printable",
		"zip":  "base64",
	}
	for _, r := range b.ExtensionRecords() {
		if enc := want[r.Extension]; r.Encoding != enc {
			t.Errorf("encoding for %q = %q, want %q", r.Extension, r.Encoding, enc)
		}
	}
}

func TestWriteRecords(t *testing.T) {
	records := []minimime.Info{
		{Extension: "pdf", ContentType: "application/pdf", Encoding: "base64"},
		{Extension: "webmanifest", ContentType: "application/manifest+json", Encoding: "8bit"},
		{Extension: "txt", ContentType: "text/plain", Encoding: "quoted-printable"},
	}

	var buf strings.Builder
	if err := WriteRecords(&buf, records); err != nil {
		t.Fatalf("WriteRecords() error = %v", err)
	}

	want := "pdf         application/pdf           base64\n" +
		"webmanifest application/manifest+json 8bit\n" +
		"txt         text/plain                quoted-printable\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteRecords() output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRecordsRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.AddTypes([]Type{
		{ContentType: "text/plain", Extensions: []string{"txt", "conf", "log"}},
		{ContentType: "application/vnd.HandHeld-Entertainment+xml", Extensions: []string{"zmm"}},
		{ContentType: "application/pdf", Extensions: []string{"pdf"}},
	})
	records := b.ExtensionRecords()

	var buf strings.Builder
	if err := WriteRecords(&buf, records); err != nil {
		t.Fatalf("WriteRecords() error = %v", err)
	}

	var parsed []minimime.Info
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		info, ok := minimime.ParseInfo(line)
		if !ok {
			t.Fatalf("ParseInfo(%q) ok = false, want true", line)
		}
		parsed = append(parsed, info)
	}
	if diff := cmp.Diff(records, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
