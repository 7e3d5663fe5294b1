package simple

import (
	"github.com/indigo-web/ringhttp/http"
	"github.com/indigo-web/ringhttp/http/status"
	"github.com/indigo-web/ringhttp/router"
)

type (
	Handler      func(*http.Request) *http.Response
	ErrorHandler func(*http.Request, error) *http.Response
)

var _ router.Router = Router{}

// Router passes every request to a single handler.
type Router struct {
	handler    Handler
	errHandler ErrorHandler
}

// New returns a router calling the handler for every request. If errHandler is nil,
// DefaultErrorHandler is used.
func New(handler Handler, errHandler ErrorHandler) Router {
	if errHandler == nil {
		errHandler = DefaultErrorHandler
	}

	return Router{
		handler:    handler,
		errHandler: errHandler,
	}
}

func (r Router) OnRequest(request *http.Request) *http.Response {
	return r.handler(request)
}

func (r Router) OnError(request *http.Request, err error) *http.Response {
	return r.errHandler(request, err)
}

// DefaultErrorHandler responds with a plain status line and the status text as the body.
func DefaultErrorHandler(_ *http.Request, err error) *http.Response {
	return http.RespondDefault(status.CodeOf(err))
}
