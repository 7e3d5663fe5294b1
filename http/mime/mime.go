package mime

import "strings"

type MIME = string

const (
	OctetStream MIME = "application/octet-stream"
	Plain       MIME = "text/plain"
	HTML        MIME = "text/html"
	JSON        MIME = "application/json"
)

// Base strips parameters (e.g. charset) off the Content-Type value.
func Base(contentType string) MIME {
	if semicolon := strings.IndexByte(contentType, ';'); semicolon != -1 {
		contentType = contentType[:semicolon]
	}

	return strings.TrimSpace(contentType)
}
