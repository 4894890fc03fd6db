package storage

import (
	"mime"
	"net/http"
	"path"

	"github.com/gabriel-vasile/mimetype"
)

// OctetStream is returned when nothing better is known.
const OctetStream = "application/octet-stream"

// DetectContentType sniffs head, the leading bytes of a file. The standard
// sniffer is tried first; mimetype recognizes many more binary formats.
// When both give up, the extension of name decides.
func DetectContentType(name string, head []byte) string {
	if len(head) > 0 {
		if ct := http.DetectContentType(head); ct != OctetStream {
			return ct
		}
		if mt := mimetype.Detect(head); mt.String() != OctetStream {
			return mt.String()
		}
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return OctetStream
}
