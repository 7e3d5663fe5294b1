package transport

import (
	"net"
	"time"
)

// Client is a connection as seen by the protocol layer: a source of inbound byte chunks, a sink
// for responses, and a way to terminate the connection.
type Client interface {
	// Read returns the next chunk of inbound bytes. The chunk is valid until the next call.
	Read() ([]byte, error)
	// Write sends the data.
	Write([]byte) (int, error)
	// Conn unwraps the underlying net.Conn.
	Conn() net.Conn
	// Remote returns the remote address of the connection.
	Remote() net.Addr
	// Close closes the connection.
	Close() error
}

type client struct {
	conn    net.Conn
	buff    []byte
	timeout time.Duration
}

func NewClient(conn net.Conn, timeout time.Duration, buff []byte) Client {
	return &client{
		buff:    buff,
		conn:    conn,
		timeout: timeout,
	}
}

// Read reads data into the internal buffer and returns a piece of it back. Timeouts are also
// handled automatically.
func (c *client) Read() ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	n, err := c.conn.Read(c.buff)
	return c.buff[:n], err
}

func (c *client) Conn() net.Conn {
	return c.conn
}

func (c *client) Write(b []byte) (int, error) {
	return c.conn.Write(b)
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
