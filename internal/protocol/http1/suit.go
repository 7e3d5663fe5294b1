package http1

import (
	"github.com/indigo-web/ringhttp/config"
	"github.com/indigo-web/ringhttp/http"
	"github.com/indigo-web/ringhttp/http/status"
	"github.com/indigo-web/ringhttp/internal/buffer"
	"github.com/indigo-web/ringhttp/kv"
	"github.com/indigo-web/ringhttp/router"
	"github.com/indigo-web/ringhttp/transport"
)

// Suit drives a single connection: inbound chunks are fed into the parser, completed requests
// are routed and responses are serialized back. Requests are served strictly one after another.
type Suit struct {
	parser     *Parser
	serializer *Serializer
	router     router.Router
	client     transport.Client
	request    *http.Request
}

func New(
	cfg *config.Config,
	r router.Router,
	client transport.Client,
	request *http.Request,
	arena *buffer.Buffer,
	respBuff []byte,
) *Suit {
	return &Suit{
		parser:     NewParser(cfg, request, arena),
		serializer: NewSerializer(respBuff, client),
		router:     r,
		client:     client,
		request:    request,
	}
}

// Initialize is the same constructor as just New, but allocates everything by itself.
func Initialize(cfg *config.Config, r router.Router, client transport.Client) *Suit {
	request := http.NewRequest(kv.NewPrealloc(cfg.Headers.Number.Default), client.Remote())
	request.Body = make([]byte, 0, cfg.Body.Prealloc)
	arena := buffer.New(cfg.Headers.Space.Default, cfg.Headers.Space.Maximal)
	respBuff := make([]byte, 0, cfg.NET.WriteBufferSize)

	return New(cfg, r, client, request, arena, respBuff)
}

// Serve processes the connection until it's closed either by the peer, by an error or by a
// request which doesn't keep the connection alive. The client is closed before returning.
func (s *Suit) Serve() {
	defer s.client.Close()

	for {
		data, err := s.client.Read()
		if err != nil {
			// read-error most probably means deadline exceeding or the peer gone. Just notify
			// the user in this case and return
			s.router.OnError(s.request, status.ErrCloseConnection)
			return
		}

		if !s.ServeChunk(data) {
			return
		}
	}
}

// ServeChunk feeds the data to the parser, replying to every request it completes. Bytes
// following a request are kept, so pipelined requests are served in order. False is returned
// if the connection must be closed.
func (s *Suit) ServeChunk(data []byte) bool {
	for {
		rest, err := s.parser.Feed(data)
		if err != nil {
			s.fail(err)
			return false
		}

		if s.parser.State() != Reply {
			return true
		}

		if !s.reply() {
			return false
		}

		data = rest
	}
}

func (s *Suit) reply() bool {
	keepAlive := s.request.KeepAlive()
	resp := notNil(s.router.OnRequest(s.request))

	if err := s.serializer.Write(s.request, resp, keepAlive); err != nil {
		// if error happened during writing the response, it makes no sense to try
		// to write anything again
		s.router.OnError(s.request, status.ErrCloseConnection)
		return false
	}

	s.parser.Reset()

	return keepAlive
}

// fail responds to the error and leaves the connection ready to be closed. Nothing is written
// if the error demands closing the connection silently.
func (s *Suit) fail(err error) {
	resp := s.router.OnError(s.request, err)
	if status.CodeOf(err) == status.CloseConnection {
		return
	}

	if resp == nil {
		resp = http.RespondDefault(status.CodeOf(err))
	}

	// as fatal error already happened and connection will anyway be closed, we don't
	// care about any socket errors anymore
	_ = s.serializer.Write(s.request, resp, false)
}

func notNil(resp *http.Response) *http.Response {
	if resp != nil {
		return resp
	}

	return http.NewResponse()
}
