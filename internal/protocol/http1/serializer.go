package http1

import (
	"strconv"

	"github.com/indigo-web/ringhttp/http"
	"github.com/indigo-web/ringhttp/http/method"
	"github.com/indigo-web/ringhttp/http/proto"
	"github.com/indigo-web/ringhttp/http/status"
	"github.com/indigo-web/ringhttp/kv"
	"github.com/indigo-web/ringhttp/transport"
)

// Serializer renders responses into a reusable buffer and writes each of them into the client
// with a single call.
type Serializer struct {
	buff   []byte
	client transport.Client
}

func NewSerializer(buff []byte, client transport.Client) *Serializer {
	return &Serializer{
		buff:   buff[:0],
		client: client,
	}
}

// Write serializes the response to the request. The protocol of the response mirrors the
// request's one, falling back to HTTP/1.1 if the request line wasn't parsed. The body of a
// response to a HEAD request is omitted, while its length is still announced.
func (s *Serializer) Write(request *http.Request, response *http.Response, keepAlive bool) error {
	fields := response.Reveal()
	protocol := request.Proto

	s.appendProtocol(protocol)
	s.appendStatus(fields.Code)

	if len(fields.ContentType) > 0 {
		s.appendKnownHeader("Content-Type: ", fields.ContentType)
	}

	for _, header := range fields.Headers {
		s.appendHeader(header)
	}

	s.appendContentLength(len(fields.Body))

	switch {
	case !keepAlive:
		s.appendKnownHeader("Connection: ", "close")
	case protocol == proto.HTTP10:
		s.appendKnownHeader("Connection: ", "keep-alive")
	}

	s.crlf()

	if request.Method != method.HEAD {
		s.buff = append(s.buff, fields.Body...)
	}

	return s.flush()
}

func (s *Serializer) flush() error {
	_, err := s.client.Write(s.buff)
	s.buff = s.buff[:0]

	return err
}

func (s *Serializer) appendProtocol(protocol proto.Proto) {
	if protocol == proto.Unknown {
		// in case the request method or path were malformed, parser had no chance of reaching
		// the protocol and thereby resulting in the unknown one.
		protocol = proto.HTTP11
	}

	s.buff = append(s.buff, protocol.String()...)
	s.sp()
}

func (s *Serializer) appendStatus(code status.Code) {
	if str := status.StringCode(code); len(str) > 0 {
		s.buff = append(s.buff, str...)
	} else {
		// some non-standard code
		s.buff = strconv.AppendUint(s.buff, uint64(code), 10)
	}

	s.sp()
	s.buff = append(s.buff, status.Text(code)...)
	s.crlf()
}

// appendHeader writes a complete header field line.
func (s *Serializer) appendHeader(header kv.Pair) {
	s.buff = append(s.buff, header.Key...)
	s.colonsp()
	s.buff = append(s.buff, header.Value...)
	s.crlf()
}

// appendKnownHeader differs from appendHeader only by the fact that the key is known to already
// have a colon and a space included.
func (s *Serializer) appendKnownHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.buff = append(s.buff, value...)
	s.crlf()
}

func (s *Serializer) appendContentLength(value int) {
	s.buff = append(s.buff, "Content-Length: "...)
	s.buff = strconv.AppendUint(s.buff, uint64(value), 10)
	s.crlf()
}

func (s *Serializer) sp() {
	s.buff = append(s.buff, ' ')
}

func (s *Serializer) colonsp() {
	s.buff = append(s.buff, ':', ' ')
}

const crlf = "\r\n"

func (s *Serializer) crlf() {
	s.buff = append(s.buff, crlf...)
}
