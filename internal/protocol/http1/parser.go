package http1

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/indigo-web/ringhttp/config"
	"github.com/indigo-web/ringhttp/http"
	"github.com/indigo-web/ringhttp/http/method"
	"github.com/indigo-web/ringhttp/http/proto"
	"github.com/indigo-web/ringhttp/http/status"
	"github.com/indigo-web/ringhttp/internal/buffer"
	"github.com/indigo-web/ringhttp/internal/linereader"
	"github.com/indigo-web/ringhttp/internal/ring"
	"github.com/indigo-web/utils/uf"
)

type State uint8

const (
	ReadMethod State = iota
	ReadHeaders
	ReadBody
	Reply
)

func (s State) String() string {
	switch s {
	case ReadMethod:
		return "read_method"
	case ReadHeaders:
		return "read_headers"
	case ReadBody:
		return "read_body"
	case Reply:
		return "reply"
	default:
		return "unknown"
	}
}

// Parser is a per-connection state machine. Inbound bytes are staged in a fixed-capacity ring
// buffer and consumed from there line by line (request line, headers) or as a raw span (body).
// Chunk boundaries don't affect the result: whatever can't be processed yet stays buffered
// until more data arrives.
//
// Parser isn't safe for concurrent use.
type Parser struct {
	state   State
	cfg     *config.Config
	request *http.Request
	ring    *ring.Ring
	reader  *linereader.Reader
	arena   *buffer.Buffer
}

func NewParser(cfg *config.Config, request *http.Request, arena *buffer.Buffer) *Parser {
	r := ring.New(cfg.Buffer.Capacity)

	return &Parser{
		state:   ReadMethod,
		cfg:     cfg,
		request: request,
		ring:    r,
		reader:  linereader.New(r, cfg.Buffer.LineBlock),
		arena:   arena,
	}
}

// State returns the current state.
func (p *Parser) State() State {
	return p.state
}

// Buffered returns the number of staged, yet unprocessed bytes.
func (p *Parser) Buffered() int {
	return p.ring.Size()
}

// Feed stages the data and processes as much of it as possible. Writes into the ring are
// all-or-nothing, so the data is pushed in pieces fitting the free space, each followed by
// draining the ring. It stops as soon as the request is complete, returning the unconsumed rest
// of the data, which must be fed again after the request is replied and the parser is reset.
func (p *Parser) Feed(data []byte) (rest []byte, err error) {
	if p.state == Reply {
		if len(data) > 0 {
			return data, status.ErrUnexpectedData
		}

		return nil, nil
	}

	for {
		if err = p.Drain(); err != nil || p.state == Reply {
			return data, err
		}

		if len(data) == 0 {
			return nil, nil
		}

		n := min(len(data), p.ring.Free())
		if p.ring.Write(data[:n]) == 0 {
			// the ring is full and nothing can be consumed from it. Drain would have already
			// reported this, so it indicates a bug.
			return data, status.ErrInternalServerError
		}

		data = data[n:]
	}
}

// Drain processes already staged bytes until either they're exhausted or the request is
// complete.
func (p *Parser) Drain() error {
	for {
		switch p.state {
		case ReadMethod:
			line, err := p.readLine()
			if err != nil {
				return p.pending(err, status.ErrTooLongRequestLine)
			}

			if err = p.parseRequestLine(line); err != nil {
				return err
			}
		case ReadHeaders:
			line, err := p.readLine()
			if err != nil {
				return p.pending(err, status.ErrHeaderFieldsTooLarge)
			}

			if err = p.parseHeader(line); err != nil {
				return err
			}
		case ReadBody:
			if p.ring.Size() == 0 {
				return nil
			}

			p.readBody()
		case Reply:
			return nil
		default:
			return status.ErrInternalServerError
		}
	}
}

// Reset prepares the parser and the request for the next request. Bytes already staged are kept.
func (p *Parser) Reset() {
	p.request.Reset()
	p.arena.Clear()
	p.state = ReadMethod
}

func (p *Parser) readLine() ([]byte, error) {
	if p.state == ReadBody || p.state == Reply {
		return nil, status.ErrInternalServerError
	}

	return p.reader.ReadLine()
}

// pending decides whether an incomplete line means waiting for more data or an error. As long
// as the ring isn't full, more data may complete the line.
func (p *Parser) pending(err, overflow error) error {
	if !errors.Is(err, linereader.ErrIncomplete) {
		return err
	}

	if p.ring.EOF() {
		return overflow
	}

	return nil
}

func (p *Parser) parseRequestLine(line []byte) error {
	if bytes.Count(line, []byte{' '}) != 2 {
		return status.ErrBadRequestLine
	}

	sp1 := bytes.IndexByte(line, ' ')
	sp2 := sp1 + 1 + bytes.IndexByte(line[sp1+1:], ' ')
	rawMethod, uri, version := line[:sp1], line[sp1+1:sp2], line[sp2+1:]

	protocol := proto.FromBytes(version)
	if protocol == proto.Unknown {
		return status.ErrHTTPVersionNotSupported
	}

	if !isValidURI(uri) {
		return status.ErrBadURI
	}

	m := method.FromBytes(rawMethod)
	if m == method.Unknown {
		return status.ErrMethodNotAllowed
	}

	if !p.arena.Append(uri) {
		return status.ErrTooLongRequestLine
	}

	p.request.Method = m
	p.request.URI = uf.B2S(p.arena.Finish())
	p.request.Proto = protocol
	p.state = ReadHeaders

	return nil
}

func (p *Parser) parseHeader(line []byte) error {
	if len(line) == 0 {
		return p.endOfHeaders()
	}

	request := p.request
	if len(request.RawHeaders) >= p.cfg.Headers.Number.Maximal {
		return status.ErrTooManyHeaders
	}

	if !p.arena.Append(line) {
		return status.ErrHeaderFieldsTooLarge
	}

	header := uf.B2S(p.arena.Finish())
	request.RawHeaders = append(request.RawHeaders, header)

	if key, value, found := strings.Cut(header, ":"); found {
		request.Headers.Add(key, strings.Trim(value, " \t"))
	}

	return nil
}

// endOfHeaders decides whether a body follows. POST requests must announce both its length
// and type, other methods read a body only if they announce the length.
func (p *Parser) endOfHeaders() error {
	request := p.request
	isPost := request.Method == method.POST

	rawLength, hasLength := request.Headers.Get("Content-Length")
	if !hasLength {
		if isPost {
			return status.ErrLengthRequired
		}

		p.state = Reply
		return nil
	}

	length, err := p.contentLength(rawLength)
	if err != nil {
		return err
	}

	contentType, hasType := request.Headers.Get("Content-Type")
	if isPost && !hasType {
		return status.ErrMissingContentType
	}

	request.ContentType = contentType
	request.ContentLength = length

	if length == 0 {
		p.state = Reply
		return nil
	}

	p.state = ReadBody
	// all the bytes may already be staged
	p.readBody()

	return nil
}

func (p *Parser) contentLength(first string) (uint64, error) {
	length, err := strconv.ParseUint(strings.TrimSpace(first), 10, 64)
	if err != nil {
		return 0, status.ErrBadContentLength
	}

	// repeated headers are tolerated only as long as they agree
	for value := range p.request.Headers.Values("Content-Length") {
		if strings.TrimSpace(value) != strings.TrimSpace(first) {
			return 0, status.ErrBadContentLength
		}
	}

	if length > p.cfg.Body.MaxSize {
		return 0, status.ErrBodyTooLarge
	}

	return length, nil
}

func (p *Parser) readBody() {
	request := p.request
	remaining := request.ContentLength - uint64(len(request.Body))
	n := min(uint64(p.reader.Buffered()), remaining)
	// can't fail, as n never exceeds the buffered amount
	request.Body, _ = p.reader.ReadChunk(request.Body, int(n))

	if uint64(len(request.Body)) >= request.ContentLength {
		p.state = Reply
	}
}

// isValidURI accepts origin-form targets and the asterisk. Fragments and non-printable
// characters are rejected.
func isValidURI(uri []byte) bool {
	if len(uri) == 0 {
		return false
	}

	if len(uri) == 1 && uri[0] == '*' {
		return true
	}

	if uri[0] != '/' {
		return false
	}

	for _, c := range uri {
		if c == '#' || isProhibitedChar(c) {
			return false
		}
	}

	return true
}

func isProhibitedChar(c byte) bool {
	return c <= 0x20 || c > 0x7e
}
