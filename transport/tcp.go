package transport

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/indigo-web/ringhttp/config"
)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

type TCP struct {
	l         listener
	wg        *sync.WaitGroup
	stop      *atomic.Bool
	reusePort bool
}

func NewTCP() *TCP {
	tcp := newTCP(nil)
	return &tcp
}

func newTCP(l listener) TCP {
	return TCP{
		l:    l,
		wg:   new(sync.WaitGroup),
		stop: new(atomic.Bool),
	}
}

func bindTCP(addr string, reusePort bool) (*net.TCPListener, error) {
	var lc net.ListenConfig
	if reusePort {
		lc.Control = reusePortControl
	}

	l, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, err
	}

	return l.(*net.TCPListener), nil
}

// SetReusePort enables SO_REUSEPORT on the socket, so multiple processes may be bound to the
// same address. Must be called before Bind. It's a no-op on platforms without the option.
func (t *TCP) SetReusePort(enable bool) {
	t.reusePort = enable
}

func (t *TCP) Bind(addr string) (err error) {
	t.l, err = bindTCP(addr, t.reusePort)
	return err
}

// Listen accepts connections until stopped. Every connection is served in its own goroutine
// and closed as soon as the callback returns.
func (t *TCP) Listen(cfg config.NET, cb func(conn net.Conn)) error {
	for !t.stop.Load() {
		err := t.l.SetDeadline(time.Now().Add(cfg.AcceptLoopInterruptPeriod))
		if err != nil {
			return err
		}

		conn, err := t.l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			if t.stop.Load() {
				return nil
			}

			return err
		}

		t.wg.Add(1)
		go func(conn net.Conn) {
			defer t.wg.Done()
			cb(conn)
			_ = conn.Close()
		}(conn)
	}

	return nil
}

// Addr returns the bound address, which is useful when binding to the port 0.
func (t *TCP) Addr() net.Addr {
	return t.l.Addr()
}

func (t *TCP) Stop() {
	t.stop.Store(true)
}

func (t *TCP) Close() {
	if t.l != nil {
		_ = t.l.Close()
	}
}

func (t *TCP) Wait() {
	t.wg.Wait()
}
