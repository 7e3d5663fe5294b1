package config

import (
	"errors"
	"time"
)

type (
	HeadersNumber struct {
		Default, Maximal int
	}

	HeadersSpace struct {
		Default, Maximal int
	}
)

type (
	Buffer struct {
		// Capacity is the size of a per-connection ring buffer which stages inbound bytes. It also
		// limits the length of a single line (request line or header), as the line must fit the
		// buffer entirely in order to be recognized.
		Capacity int
		// LineBlock is the size of blocks in which the ring buffer is scanned for line
		// terminators.
		LineBlock int
	}

	Headers struct {
		// Number is responsible for headers storage size.
		// Default value is an initial size of allocated headers storage.
		// Maximal value is maximum number of headers allowed to be presented
		Number HeadersNumber
		// Space limits the amount of memory occupied by request headers.
		Space HeadersSpace
	}

	Body struct {
		// MaxSize is the greatest Content-Length value accepted. Requests announcing more result
		// in status.ErrBodyTooLarge.
		MaxSize uint64
		// Prealloc is the initial capacity of the body buffer.
		Prealloc int
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections. If no data was
		// received in this period of time, it'll be closed.
		ReadTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
		// WriteBufferSize is the initial capacity of the buffer responses are rendered into.
		WriteBufferSize int
		// ReusePort sets SO_REUSEPORT on listening sockets, so multiple server processes may
		// share the same address. Ignored on platforms lacking the option.
		ReusePort bool
	}
)

// Config holds settings used across various parts of the server, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Buffer  Buffer
	Headers Headers
	Body    Body
	NET     NET
}

// Default returns default config. Those are initially well-balanced, however maximal defaults
// are pretty permitting.
func Default() *Config {
	return &Config{
		Buffer: Buffer{
			Capacity:  4 * 1024,
			LineBlock: 64,
		},
		Headers: Headers{
			Number: HeadersNumber{
				Default: 10,
				Maximal: 50,
			},
			Space: HeadersSpace{
				Default: 1 * 1024,  // 1kb for headers must be fairly enough in most cases.
				Maximal: 16 * 1024, // However, there also might be extremely long cookies.
			},
		},
		Body: Body{
			MaxSize:  512 * 1024 * 1024, // 512 megabytes
			Prealloc: 1024,
		},
		NET: NET{
			ReadBufferSize:            2 * 1024,
			ReadTimeout:               90 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
			WriteBufferSize:           2 * 1024,
		},
	}
}

var (
	ErrBadBuffer   = errors.New("config: buffer capacity and line block must be positive")
	ErrBadHeaders  = errors.New("config: headers limits must be positive and not less than defaults")
	ErrBadNET      = errors.New("config: network buffers and periods must be positive")
	ErrBadPrealloc = errors.New("config: body prealloc must not be negative")
)

// Validate reports the first inconsistency found.
func (c *Config) Validate() error {
	switch {
	case c.Buffer.Capacity <= 0 || c.Buffer.LineBlock <= 0:
		return ErrBadBuffer
	case c.Headers.Number.Maximal <= 0 || c.Headers.Number.Default < 0 ||
		c.Headers.Space.Maximal <= 0 || c.Headers.Space.Default < 0 ||
		c.Headers.Space.Default > c.Headers.Space.Maximal:
		return ErrBadHeaders
	case c.Body.Prealloc < 0:
		return ErrBadPrealloc
	case c.NET.ReadBufferSize <= 0 || c.NET.ReadTimeout <= 0 ||
		c.NET.AcceptLoopInterruptPeriod <= 0 || c.NET.WriteBufferSize < 0:
		return ErrBadNET
	}

	return nil
}
