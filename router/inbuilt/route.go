package inbuilt

import (
	"fmt"
	"strings"

	"github.com/indigo-web/ringhttp/http"
	"github.com/indigo-web/ringhttp/http/method"
	"github.com/indigo-web/ringhttp/http/status"
)

// AllErrors is used to be passed into Router.RouteError, indicating by that,
// that the handler must handle ALL errors (if concrete error's handler won't
// override it)
const AllErrors = status.Code(0)

type routesMapEntry struct {
	handlers [method.Count + 1]Handler
	allow    string
}

type routesMap map[string]*routesMapEntry

type errorHandlers map[status.Code]ErrorHandler

func newErrorHandlers() errorHandlers {
	return errorHandlers{
		AllErrors: genericErrorHandler,
	}
}

func genericErrorHandler(request *http.Request, err error) *http.Response {
	return http.RespondDefault(status.CodeOf(err))
}

// Route is a base method for registering handlers. Middlewares passed here are applied
// after the ones registered via Use. Registering the same route twice panics.
func (r *Router) Route(m method.Method, path string, handler Handler, middlewares ...Middleware) *Router {
	if m == method.Unknown || int(m) > method.Count {
		panic(fmt.Sprintf("inbuilt: bad method %d", m))
	}

	path = stripTrailingSlash(path)
	entry := r.routes[path]
	if entry == nil {
		entry = new(routesMapEntry)
		r.routes[path] = entry
	}

	if entry.handlers[m] != nil {
		panic(fmt.Sprintf("inbuilt: route already registered: %s %s", m, path))
	}

	chain := append(append([]Middleware(nil), r.middlewares...), middlewares...)
	entry.handlers[m] = compose(handler, chain)
	entry.allow = getAllowString(entry)

	return r
}

// RouteError adds an error handler for corresponding status codes. AllErrors overrides the
// fallback for all the codes without own handler.
//
// You can set your own handler and override default response.
func (r *Router) RouteError(handler ErrorHandler, codes ...status.Code) *Router {
	for _, code := range codes {
		r.errHandlers[code] = handler
	}

	return r
}

func getAllowString(entry *routesMapEntry) string {
	allowed := make([]string, 0, len(method.List))
	for _, m := range method.List {
		if entry.handlers[m] != nil {
			allowed = append(allowed, m.String())
		}
	}

	return strings.Join(allowed, ",")
}

func stripTrailingSlash(path string) string {
	if len(path) > 1 && path[len(path)-1] == '/' {
		return path[:len(path)-1]
	}

	return path
}
