package status

import "errors"

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// CodeOf extracts the status code out of the error. Errors which aren't an HTTPError are
// considered internal ones.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}

var (
	ErrShutdown         = errors.New("shutdown")
	ErrGracefulShutdown = errors.New("graceful shutdown")

	ErrCloseConnection = NewError(CloseConnection, "actively closing the connection")

	ErrBadRequest              = NewError(BadRequest, "bad request")
	ErrBadRequestLine          = NewError(BadRequest, "malformed request line")
	ErrBadURI                  = NewError(BadRequest, "invalid request URI")
	ErrTooLongRequestLine      = NewError(RequestURITooLong, "request line is too long")
	ErrHTTPVersionNotSupported = NewError(HTTPVersionNotSupported, "HTTP version not supported")
	ErrMethodNotAllowed        = NewError(MethodNotAllowed, "method not allowed")
	ErrHeaderFieldsTooLarge    = NewError(RequestHeaderFieldsTooLarge, "too large headers section")
	ErrTooManyHeaders          = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrLengthRequired          = NewError(LengthRequired, "length required")
	ErrBadContentLength        = NewError(BadRequest, "invalid Content-Length value")
	ErrMissingContentType      = NewError(BadRequest, "Content-Type is required")
	ErrBodyTooLarge            = NewError(RequestEntityTooLarge, "request body is too large")
	ErrUnexpectedData          = NewError(BadRequest, "unexpected data while replying")
	ErrNotFound                = NewError(NotFound, "not found")
	ErrInternalServerError     = NewError(InternalServerError, "internal server error")
	ErrNotImplemented          = NewError(NotImplemented, "not implemented")
)
