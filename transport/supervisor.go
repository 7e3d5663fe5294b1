package transport

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/indigo-web/ringhttp/config"
)

// Supervisor runs multiple bound transports at once. Whenever any of them fails, all the others
// are stopped, too.
type Supervisor struct {
	mu      sync.Mutex
	stopped *atomic.Bool
	running *atomic.Bool
	ts      []boundTransport
	stopch  chan struct{}
	done    chan struct{}
}

func NewSupervisor() *Supervisor {
	return &Supervisor{
		stopped: new(atomic.Bool),
		running: new(atomic.Bool),
		stopch:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Add binds the transport. If binding fails, all the previously added transports are closed.
func (s *Supervisor) Add(addr string, transport Transport, cb func(net.Conn)) error {
	err := transport.Bind(addr)
	if err != nil {
		s.close()
		return err
	}

	s.ts = append(s.ts, boundTransport{
		cb: cb,
		t:  transport,
	})

	return nil
}

// Addrs returns addresses of all the bound transports in the order they were added.
func (s *Supervisor) Addrs() []net.Addr {
	addrs := make([]net.Addr, len(s.ts))
	for i, t := range s.ts {
		addrs[i] = t.t.Addr()
	}

	return addrs
}

// Run blocks until either any transport fails or Stop is called. All the transports are
// stopped and waited for before returning.
func (s *Supervisor) Run(cfg config.NET) error {
	s.mu.Lock()
	if len(s.ts) == 0 || s.stopped.Load() {
		s.mu.Unlock()
		return nil
	}

	s.running.Store(true)
	s.mu.Unlock()
	defer close(s.done)
	errch := make(chan error)

	for _, t := range s.ts {
		go func(t boundTransport, ch chan<- error) {
			errch <- t.t.Listen(cfg, t.cb)
		}(t, errch)
	}

	select {
	case err := <-errch:
		s.stop()
		drain(errch, len(s.ts)-1)

		return err
	case <-s.stopch:
		s.stop()
		drain(errch, len(s.ts))
		s.stopch <- struct{}{}

		return nil
	}
}

// Stop stops all the transports and waits until all the connections are done. Calling it on
// a supervisor that isn't running yet closes the bound transports, and Run won't start them
// afterward.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.running.Load() {
		s.stopped.Store(true)
		s.mu.Unlock()
		s.close()
		return
	}
	s.mu.Unlock()

	select {
	case s.stopch <- struct{}{}:
		<-s.stopch
	case <-s.done:
	}
}

func (s *Supervisor) stop() {
	if s.stopped.Swap(true) {
		return
	}

	for _, t := range s.ts {
		t.t.Stop()
	}

	for _, t := range s.ts {
		t.t.Wait()
		t.t.Close()
	}
}

func (s *Supervisor) close() {
	for _, t := range s.ts {
		t.t.Close()
	}
}

type boundTransport struct {
	cb func(conn net.Conn)
	t  Transport
}

func drain(ch <-chan error, n int) {
	for range n {
		<-ch
	}
}
