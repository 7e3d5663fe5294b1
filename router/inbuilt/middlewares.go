package inbuilt

import "github.com/indigo-web/ringhttp/http"

// Use adds middlewares, which are applied to all the routes registered afterward.
func (r *Router) Use(middlewares ...Middleware) *Router {
	r.middlewares = append(r.middlewares, middlewares...)
	return r
}

// compose just makes a single Handler from a chain of middlewares and the handler in the end.
// The first middleware is the outermost one.
func compose(handler Handler, middlewares []Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw, next := middlewares[i], handler
		handler = func(request *http.Request) *http.Response {
			return mw(next, request)
		}
	}

	return handler
}
