package minimime

import "strings"

// Transfer encodings that mark a record as binary content. The check is an
// exact, case-sensitive match; everything else counts as text.
var binaryEncodings = []string{"base64", "8bit"}

// Info is a single MIME database record: a file extension, the content type
// registered for it, and the transfer encoding of that type.
type Info struct {
	Extension   string // file extension without the leading dot, e.g. "pdf"
	ContentType string // MIME content type, e.g. "application/pdf"
	Encoding    string // transfer encoding hint, e.g. "base64", "7bit"
}

// ParseInfo parses one database line of the form "extension content-type
// encoding", with fields separated by runs of whitespace. Extra trailing
// fields are ignored. Lines with fewer than three fields yield ok=false;
// malformed input is never an error.
func ParseInfo(line string) (Info, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Info{}, false
	}
	return Info{
		Extension:   fields[0],
		ContentType: fields[1],
		Encoding:    fields[2],
	}, true
}

// IsBinary checks if the record describes binary content, meaning its
// encoding is "base64" or "8bit".
func (i Info) IsBinary() bool {
	for _, enc := range binaryEncodings {
		if i.Encoding == enc {
			return true
		}
	}
	return false
}
