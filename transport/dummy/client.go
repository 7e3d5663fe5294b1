package dummy

import (
	"io"
	"net"

	"github.com/indigo-web/ringhttp/transport"
)

var _ transport.Client = new(Client)

// Client returns the chunks it was initialised with, one per read, and journals everything
// written into it. After the last chunk io.EOF is returned, unless the client is circular: then
// it starts from the beginning. Circular clients are mainly used in benchmarks
type Client struct {
	data     [][]byte
	pointer  int
	circular bool
	closed   bool
	journal  []byte
	nop      bool
}

func NewClient(data ...[]byte) *Client {
	return &Client{
		data: data,
	}
}

func (c *Client) Read() ([]byte, error) {
	if c.closed {
		return nil, io.EOF
	}

	if c.pointer >= len(c.data) {
		if !c.circular || len(c.data) == 0 {
			return nil, io.EOF
		}

		c.pointer = 0
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Write(p []byte) (int, error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	if !c.nop {
		c.journal = append(c.journal, p...)
	}

	return len(p), nil
}

func (c *Client) Conn() net.Conn {
	return new(Conn)
}

func (*Client) Remote() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080}
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

// Written returns everything the client received.
func (c *Client) Written() string {
	return string(c.journal)
}

// Closed reports whether the client was closed.
func (c *Client) Closed() bool {
	return c.closed
}

// Circular makes the client loop over its chunks forever.
func (c *Client) Circular() *Client {
	c.circular = true
	return c
}

// Nop disables the journal.
func (c *Client) Nop() *Client {
	c.nop = true
	return c
}

func NewNopClient() *Client {
	return NewClient().Nop()
}
