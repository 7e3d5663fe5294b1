package router

import (
	"github.com/indigo-web/ringhttp/http"
)

// Router is the layer parsed requests are handed to. Both methods are called synchronously
// from the connection's goroutine and must not retain the request after returning. A nil
// response is replaced by the default one.
type Router interface {
	// OnRequest is called exactly once per completely parsed request.
	OnRequest(request *http.Request) *http.Response
	// OnError is called when the request can't be processed. The connection is closed right
	// after the returned response is written. In case of status.ErrCloseConnection the response
	// is ignored, as the connection is already unusable.
	OnError(request *http.Request, err error) *http.Response
}
