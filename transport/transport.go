package transport

import (
	"net"

	"github.com/indigo-web/ringhttp/config"
)

// Transport accepts connections and spawns a callback for each of them.
type Transport interface {
	Bind(addr string) error
	Listen(cfg config.NET, cb func(conn net.Conn)) error
	Addr() net.Addr
	Stop()
	Close()
	Wait()
}
