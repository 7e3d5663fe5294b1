package status

import "strconv"

type (
	Code   uint16
	Status string
)

// HTTP status codes as registered with IANA. Only those the server may ever produce by
// itself, plus the most common ones used by handlers, are listed.
// See: https://www.iana.org/assignments/http-status-codes/http-status-codes.xhtml
const (
	Continue           Code = 100 // RFC 9110, 15.2.1
	SwitchingProtocols Code = 101 // RFC 9110, 15.2.2

	OK        Code = 200 // RFC 9110, 15.3.1
	Created   Code = 201 // RFC 9110, 15.3.2
	Accepted  Code = 202 // RFC 9110, 15.3.3
	NoContent Code = 204 // RFC 9110, 15.3.5

	MovedPermanently  Code = 301 // RFC 9110, 15.4.2
	Found             Code = 302 // RFC 9110, 15.4.3
	NotModified       Code = 304 // RFC 9110, 15.4.5
	TemporaryRedirect Code = 307 // RFC 9110, 15.4.8
	PermanentRedirect Code = 308 // RFC 9110, 15.4.9

	BadRequest                  Code = 400 // RFC 9110, 15.5.1
	Unauthorized                Code = 401 // RFC 9110, 15.5.2
	Forbidden                   Code = 403 // RFC 9110, 15.5.4
	NotFound                    Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed            Code = 405 // RFC 9110, 15.5.6
	RequestTimeout              Code = 408 // RFC 9110, 15.5.9
	LengthRequired              Code = 411 // RFC 9110, 15.5.12
	RequestEntityTooLarge       Code = 413 // RFC 9110, 15.5.14
	RequestURITooLong           Code = 414 // RFC 9110, 15.5.15
	UnsupportedMediaType        Code = 415 // RFC 9110, 15.5.16
	Teapot                      Code = 418 // RFC 9110, 15.5.19 (Unused)
	UnprocessableEntity         Code = 422 // RFC 9110, 15.5.21
	TooManyRequests             Code = 429 // RFC 6585, 4
	RequestHeaderFieldsTooLarge Code = 431 // RFC 6585, 5

	InternalServerError     Code = 500 // RFC 9110, 15.6.1
	NotImplemented          Code = 501 // RFC 9110, 15.6.2
	BadGateway              Code = 502 // RFC 9110, 15.6.3
	ServiceUnavailable      Code = 503 // RFC 9110, 15.6.4
	GatewayTimeout          Code = 504 // RFC 9110, 15.6.5
	HTTPVersionNotSupported Code = 505 // RFC 9110, 15.6.6

	// CloseConnection isn't a real status code. It marks errors which must silently
	// terminate the connection without writing any response.
	CloseConnection Code = 1
)

// KnownCodes lists every real code declared above.
var KnownCodes = []Code{
	Continue, SwitchingProtocols,
	OK, Created, Accepted, NoContent,
	MovedPermanently, Found, NotModified, TemporaryRedirect, PermanentRedirect,
	BadRequest, Unauthorized, Forbidden, NotFound, MethodNotAllowed, RequestTimeout,
	LengthRequired, RequestEntityTooLarge, RequestURITooLong, UnsupportedMediaType, Teapot,
	UnprocessableEntity, TooManyRequests, RequestHeaderFieldsTooLarge,
	InternalServerError, NotImplemented, BadGateway, ServiceUnavailable, GatewayTimeout,
	HTTPVersionNotSupported,
}

// Text returns a reason phrase for the code. Unknown codes result in "Unknown Status Code".
func Text(code Code) Status {
	switch code {
	case Continue:
		return "Continue"
	case SwitchingProtocols:
		return "Switching Protocols"
	case OK:
		return "OK"
	case Created:
		return "Created"
	case Accepted:
		return "Accepted"
	case NoContent:
		return "No Content"
	case MovedPermanently:
		return "Moved Permanently"
	case Found:
		return "Found"
	case NotModified:
		return "Not Modified"
	case TemporaryRedirect:
		return "Temporary Redirect"
	case PermanentRedirect:
		return "Permanent Redirect"
	case BadRequest:
		return "Bad Request"
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case RequestTimeout:
		return "Request Timeout"
	case LengthRequired:
		return "Length Required"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case RequestURITooLong:
		return "Request URI Too Long"
	case UnsupportedMediaType:
		return "Unsupported Media Type"
	case Teapot:
		return "I'm a teapot"
	case UnprocessableEntity:
		return "Unprocessable Entity"
	case TooManyRequests:
		return "Too Many Requests"
	case RequestHeaderFieldsTooLarge:
		return "Request Header Fields Too Large"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case BadGateway:
		return "Bad Gateway"
	case ServiceUnavailable:
		return "Service Unavailable"
	case GatewayTimeout:
		return "Gateway Timeout"
	case HTTPVersionNotSupported:
		return "HTTP Version Not Supported"
	default:
		return "Unknown Status Code"
	}
}

// StringCode returns the code as a decimal string.
func StringCode(code Code) string {
	return strconv.FormatUint(uint64(code), 10)
}
