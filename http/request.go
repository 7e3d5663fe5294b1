package http

import (
	"net"
	"strings"

	"github.com/indigo-web/ringhttp/http/method"
	"github.com/indigo-web/ringhttp/http/proto"
	"github.com/indigo-web/ringhttp/kv"
	"github.com/indigo-web/utils/strcomp"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request represents an HTTP request being parsed or already parsed. The same instance is
// reused for all the requests of a connection, so neither the request nor any of its strings
// and slices may be retained after the handler returns. Clone what must outlive it.
type Request struct {
	// Method is the request method. method.Unknown is used for a request that isn't parsed yet.
	Method method.Method
	// URI is the request target as it was transmitted, path and query together.
	URI string
	// Proto is the protocol the request was made with.
	Proto proto.Proto
	// RawHeaders hold header lines verbatim, in the order of their arrival.
	RawHeaders []string
	// Headers is a key-value view over RawHeaders. Lines without a colon are omitted.
	Headers Headers
	// ContentType is populated only for requests carrying a body.
	ContentType string
	// ContentLength is the announced body length, 0 unless the body is expected.
	ContentLength uint64
	// Body holds the request body, never longer than ContentLength.
	Body []byte
	// Remote holds the remote address.
	Remote net.Addr
}

func NewRequest(headers Headers, remote net.Addr) *Request {
	return &Request{
		Method:  method.Unknown,
		Headers: headers,
		Remote:  remote,
	}
}

// Path returns the URI without the query.
func (r *Request) Path() string {
	path, _, _ := strings.Cut(r.URI, "?")
	return path
}

// Query returns the raw query, the part of the URI after the first question mark.
func (r *Request) Query() string {
	_, query, _ := strings.Cut(r.URI, "?")
	return query
}

// KeepAlive tells whether the connection may serve more requests after this one. HTTP/1.1
// connections are persistent unless closed explicitly, HTTP/1.0 ones are the opposite.
func (r *Request) KeepAlive() bool {
	connection := r.Headers.Value("Connection")

	switch r.Proto {
	case proto.HTTP11:
		return !hasToken(connection, "close")
	case proto.HTTP10:
		return hasToken(connection, "keep-alive")
	default:
		return false
	}
}

// hasToken reports whether the comma-separated list contains the token, case-insensitively.
func hasToken(list, token string) bool {
	for len(list) > 0 {
		var elem string
		elem, list, _ = strings.Cut(list, ",")
		if strcomp.EqualFold(strings.TrimSpace(elem), token) {
			return true
		}
	}

	return false
}

// Reset brings the request into its initial state, so it is indistinguishable from a new one.
// Allocated space is kept for further reuse.
func (r *Request) Reset() {
	r.Method = method.Unknown
	r.URI = ""
	r.Proto = proto.Unknown
	r.RawHeaders = r.RawHeaders[:0]
	r.Headers.Clear()
	r.ContentType = ""
	r.ContentLength = 0
	r.Body = r.Body[:0]
}
