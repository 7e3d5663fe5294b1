package inbuilt

import (
	"github.com/indigo-web/ringhttp/http"
	"github.com/indigo-web/ringhttp/http/method"
	"github.com/indigo-web/ringhttp/http/status"
	"github.com/indigo-web/ringhttp/router"
)

type (
	Handler      func(*http.Request) *http.Response
	ErrorHandler func(*http.Request, error) *http.Response
	Middleware   func(next Handler, request *http.Request) *http.Response
)

var _ router.Router = new(Router)

// Router is a built-in implementation of router.Router interface that provides
// some basic router features like middlewares, static routing, error handlers,
// and some implicit things like calling GET-handlers for HEAD-requests, or
// responding OPTIONS-requests with allowed methods in case no handler is registered
type Router struct {
	routes      routesMap
	middlewares []Middleware
	errHandlers errorHandlers
}

// New constructs a new instance of inbuilt router
func New() *Router {
	return &Router{
		routes:      make(routesMap),
		errHandlers: newErrorHandlers(),
	}
}

// OnRequest routes the request by its path and method.
func (r *Router) OnRequest(request *http.Request) *http.Response {
	entry, found := r.routes[stripTrailingSlash(request.Path())]
	if !found {
		return r.OnError(request, status.ErrNotFound)
	}

	handler := entry.handlers[request.Method]
	if handler == nil && request.Method == method.HEAD {
		// the serializer drops the body of HEAD responses by itself
		handler = entry.handlers[method.GET]
	}

	if handler == nil {
		return r.notAllowed(request, entry.allow)
	}

	return handler(request)
}

// OnError looks up a handler registered for the error's code. If there's none, the universal
// one is called.
func (r *Router) OnError(request *http.Request, err error) *http.Response {
	handler, found := r.errHandlers[status.CodeOf(err)]
	if !found {
		handler = r.errHandlers[AllErrors]
	}

	return handler(request, err)
}

func (r *Router) notAllowed(request *http.Request, allow string) *http.Response {
	if request.Method == method.OPTIONS {
		return http.NewResponse().Header("Allow", allow)
	}

	resp := r.OnError(request, status.ErrMethodNotAllowed)
	if resp != nil {
		resp.Header("Allow", allow)
	}

	return resp
}
