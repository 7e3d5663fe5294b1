package http

import (
	"errors"

	"github.com/indigo-web/ringhttp/http/mime"
	"github.com/indigo-web/ringhttp/http/status"
	"github.com/indigo-web/ringhttp/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// why 7? I don't know. There's no theory behind this number nor researches.
const preallocRespHeaders = 7

// Fields are the response's contents, exposed to the serializer.
type Fields struct {
	Code        status.Code
	ContentType mime.MIME
	Headers     []kv.Pair
	Body        []byte
}

type Response struct {
	fields Fields
}

// NewResponse returns a new instance of the Response object with status code set to 200 OK,
// pre-allocated space for response headers and text/html content-type.
func NewResponse() *Response {
	return &Response{
		fields: Fields{
			Code:        status.OK,
			Headers:     make([]kv.Pair, 0, preallocRespHeaders),
			ContentType: mime.HTML,
		},
	}
}

// RespondDefault returns a minimal plain-text response, consisting of the status line and the
// status itself as a body.
func RespondDefault(code status.Code) *Response {
	return NewResponse().
		Code(code).
		ContentType(mime.Plain).
		String(status.StringCode(code) + " " + string(status.Text(code)))
}

// Code sets the response code.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// ContentType sets a custom Content-Type header value.
func (r *Response) ContentType(value mime.MIME) *Response {
	r.fields.ContentType = value
	return r
}

// Header sets header values to a key. In case it already exists the value will
// be appended. Content-Length and Connection are controlled by the server and therefore
// silently ignored.
func (r *Response) Header(key string, values ...string) *Response {
	switch {
	case strcomp.EqualFold(key, "content-type"):
		if len(values) > 0 {
			return r.ContentType(values[0])
		}

		return r
	case strcomp.EqualFold(key, "content-length"), strcomp.EqualFold(key, "connection"):
		return r
	}

	for _, value := range values {
		r.fields.Headers = append(r.fields.Headers, kv.Pair{
			Key:   key,
			Value: value,
		})
	}

	return r
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	return r
}

// Write implements io.Writer interface. It always returns n=len(b) and err=nil
func (r *Response) Write(b []byte) (n int, err error) {
	r.fields.Body = append(r.fields.Body, b...)
	return len(b), nil
}

// TryJSON serializes the model into the body and returns an error, if any.
func (r *Response) TryJSON(model any) (*Response, error) {
	r.fields.Body = nil
	stream := json.ConfigDefault.BorrowStream(r)
	stream.WriteVal(model)
	err := stream.Flush()
	if err == nil {
		err = stream.Error
	}
	json.ConfigDefault.ReturnStream(stream)

	return r.ContentType(mime.JSON), err
}

// JSON does the same as TryJSON does, except returned error is being implicitly wrapped
// by Error
func (r *Response) JSON(model any) *Response {
	resp, err := r.TryJSON(model)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Error makes the response represent the error. Instances of status.HTTPError set their code
// and message, other errors are hidden behind 500 Internal Server Error. Nil error changes
// nothing.
func (r *Response) Error(err error) *Response {
	if err == nil {
		return r
	}

	var httpErr status.HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = status.ErrInternalServerError.(status.HTTPError)
	}

	return r.
		Code(httpErr.Code).
		ContentType(mime.Plain).
		String(httpErr.Message)
}

// Clear returns the response to its initial state.
func (r *Response) Clear() *Response {
	r.fields.Code = status.OK
	r.fields.ContentType = mime.HTML
	r.fields.Headers = r.fields.Headers[:0]
	r.fields.Body = nil
	return r
}

// Reveal exposes the response's fields.
func (r *Response) Reveal() *Fields {
	return &r.fields
}
