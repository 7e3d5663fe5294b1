package ringhttp

import (
	"errors"
	"log"
	"net"
	"sync/atomic"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/ringhttp/config"
	"github.com/indigo-web/ringhttp/http"
	"github.com/indigo-web/ringhttp/http/status"
	"github.com/indigo-web/ringhttp/internal/protocol/http1"
	"github.com/indigo-web/ringhttp/router"
	"github.com/indigo-web/ringhttp/router/simple"
	"github.com/indigo-web/ringhttp/transport"
)

// App is the HTTP server. It serves a single router over any number of transports.
type App struct {
	cfg        *config.Config
	hooks      hooks
	transports []Transport
	supervisor *transport.Supervisor
	logger     *log.Logger
	shutdown   atomic.Value
}

// New returns a new App instance, serving plain-text HTTP on the addr. An empty addr adds no
// transport, so ones must be added explicitly via Listen.
func New(addr string) *App {
	app := &App{
		cfg:        config.Default(),
		supervisor: transport.NewSupervisor(),
	}

	if len(addr) > 0 {
		app.Listen(addr, TCP())
	}

	return app
}

// Tune replaces default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// NotifyOnStart calls the callback at the moment, when all the transports are bound. However,
// it isn't strongly guaranteed that they'll be able to accept new connections immediately
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback at the moment, when all the transports are down. It's
// guaranteed, that at the moment as the callback is called, the server isn't able to accept any
// new connections and all the clients are already disconnected
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Logger sets the logger for connection events. Nil disables logging, which is the default.
func (a *App) Logger(logger *log.Logger) *App {
	a.logger = logger
	return a
}

// Listen adds a new transport bound to the addr.
func (a *App) Listen(addr string, t Transport) *App {
	t.addr = addr
	a.transports = append(a.transports, t)
	return a
}

// AutoHTTPS enables HTTPS on the addr. Certificates are obtained automatically for the
// domains, unless the only domain is localhost: a self-signed certificate is used instead.
func (a *App) AutoHTTPS(addr string, domains ...string) *App {
	if len(domains) == 1 && domains[0] == "localhost" {
		cert, key, err := selfSignedCert(cacheDir())
		if err != nil {
			log.Printf(
				"WARNING: AutoHTTPS(...): can't generate self-signed certificate: %s. Disabling TLS",
				err,
			)

			return a
		}

		return a.Listen(addr, TLS(cert, key))
	}

	return a.Listen(addr, AutoTLS(domains...))
}

// Serve binds all the transports and serves the router until either any transport fails or
// the App is stopped. If nil is passed instead of a router, every request is responded
// with 404 Not Found.
func (a *App) Serve(r router.Router) error {
	if r == nil {
		r = simple.New(func(*http.Request) *http.Response {
			return http.RespondDefault(status.NotFound)
		}, nil)
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	for _, t := range a.transports {
		if t.error != nil {
			a.supervisor.Stop()
			return t.error
		}

		if rp, ok := t.inner.(interface{ SetReusePort(bool) }); ok {
			rp.SetReusePort(a.cfg.NET.ReusePort)
		}

		if err := a.supervisor.Add(t.addr, t.inner, a.newConnCallback(r)); err != nil {
			return err
		}
	}

	callIfNotNil(a.hooks.OnStart)
	err := a.supervisor.Run(a.cfg.NET)
	callIfNotNil(a.hooks.OnStop)

	if err == nil {
		if reason, ok := a.shutdown.Load().(error); ok {
			err = reason
		}
	}

	return err
}

// Addrs returns addresses of the bound transports. It's meaningful only after the App has
// started, e.g. in the NotifyOnStart callback.
func (a *App) Addrs() []net.Addr {
	return a.supervisor.Addrs()
}

// GracefulStop stops accepting new connections and blocks until all the old ones are served.
// Serve returns status.ErrGracefulShutdown afterward.
func (a *App) GracefulStop() {
	a.shutdown.CompareAndSwap(nil, status.ErrGracefulShutdown)
	a.supervisor.Stop()
}

// Stop stops accepting new connections. Serve returns status.ErrShutdown as soon as already
// accepted ones are served.
//
// NOTE: the call isn't blocking. So by that, after the method returned, the server
// will still be working
func (a *App) Stop() {
	a.shutdown.CompareAndSwap(nil, status.ErrShutdown)
	go a.supervisor.Stop()
}

func (a *App) newConnCallback(r router.Router) func(net.Conn) {
	return func(conn net.Conn) {
		id := uniuri.NewLen(8)
		a.logf("conn %s: accepted %s", id, conn.RemoteAddr())

		client := transport.NewClient(conn, a.cfg.NET.ReadTimeout, make([]byte, a.cfg.NET.ReadBufferSize))
		http1.Initialize(a.cfg, loggingRouter{r, a, id}, client).Serve()

		a.logf("conn %s: closed", id)
	}
}

func (a *App) logf(format string, v ...any) {
	if a.logger != nil {
		a.logger.Printf(format, v...)
	}
}

// loggingRouter reports errors of a single connection before passing them further.
type loggingRouter struct {
	router.Router
	app *App
	id  string
}

func (l loggingRouter) OnError(request *http.Request, err error) *http.Response {
	if !errors.Is(err, status.ErrCloseConnection) {
		l.app.logf("conn %s: %s %s: %d %s", l.id, request.Method, request.URI, status.CodeOf(err), err)
	}

	return l.Router.OnError(request, err)
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
