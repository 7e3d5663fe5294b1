package inbuilt

import (
	"github.com/indigo-web/ringhttp/http/method"
)

/*
This file is responsible for methods predicates - shortcuts for Route method
with already set method taken from name of the method
*/

func (r *Router) Get(path string, handler Handler, middlewares ...Middleware) *Router {
	return r.Route(method.GET, path, handler, middlewares...)
}

func (r *Router) Head(path string, handler Handler, middlewares ...Middleware) *Router {
	return r.Route(method.HEAD, path, handler, middlewares...)
}

func (r *Router) Post(path string, handler Handler, middlewares ...Middleware) *Router {
	return r.Route(method.POST, path, handler, middlewares...)
}

func (r *Router) Put(path string, handler Handler, middlewares ...Middleware) *Router {
	return r.Route(method.PUT, path, handler, middlewares...)
}

func (r *Router) Delete(path string, handler Handler, middlewares ...Middleware) *Router {
	return r.Route(method.DELETE, path, handler, middlewares...)
}

func (r *Router) Options(path string, handler Handler, middlewares ...Middleware) *Router {
	return r.Route(method.OPTIONS, path, handler, middlewares...)
}

func (r *Router) Patch(path string, handler Handler, middlewares ...Middleware) *Router {
	return r.Route(method.PATCH, path, handler, middlewares...)
}

// Any registers the handler for every known method.
func (r *Router) Any(path string, handler Handler, middlewares ...Middleware) *Router {
	for _, m := range method.List {
		r.Route(m, path, handler, middlewares...)
	}

	return r
}
