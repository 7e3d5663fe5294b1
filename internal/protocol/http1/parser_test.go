package http1

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/ringhttp/config"
	"github.com/indigo-web/ringhttp/http"
	"github.com/indigo-web/ringhttp/http/method"
	"github.com/indigo-web/ringhttp/http/proto"
	"github.com/indigo-web/ringhttp/http/status"
	"github.com/indigo-web/ringhttp/internal/buffer"
	"github.com/indigo-web/ringhttp/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getParser(cfg *config.Config) (*Parser, *http.Request) {
	request := http.NewRequest(kv.New(), nil)
	arena := buffer.New(cfg.Headers.Space.Default, cfg.Headers.Space.Maximal)

	return NewParser(cfg, request, arena), request
}

func generateRequest(uri string, headers []string) []byte {
	raw := "GET " + uri + " HTTP/1.1\r\n"
	for _, header := range headers {
		raw += header + "\r\n"
	}

	return []byte(raw + "\r\n")
}

func BenchmarkParser(b *testing.B) {
	parser, _ := getParser(config.Default())

	for _, n := range []int{5, 10, 50} {
		b.Run(fmt.Sprintf("with %d headers", n), func(b *testing.B) {
			data := generateRequest("/"+strings.Repeat("a", 500), genHeaders(n))
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = parser.Feed(data)
				parser.Reset()
			}
		})
	}
}

type wantedRequest struct {
	Method   method.Method
	URI      string
	Proto    proto.Proto
	Headers  map[string]string
	Body     string
	NHeaders int
}

func compareRequests(t *testing.T, wanted wantedRequest, actual *http.Request) {
	require.Equal(t, wanted.Method, actual.Method)
	require.Equal(t, wanted.URI, actual.URI)
	require.Equal(t, wanted.Proto, actual.Proto)
	require.Equal(t, wanted.Body, string(actual.Body))
	require.Len(t, actual.RawHeaders, wanted.NHeaders)

	for key, value := range wanted.Headers {
		require.Equal(t, value, actual.Headers.Value(key), key)
	}
}

func splitIntoParts(req []byte, n int) (parts [][]byte) {
	for i := 0; i < len(req); i += n {
		end := min(i+n, len(req))
		parts = append(parts, req[i:end])
	}

	return parts
}

// feedPartially feeds the request in chunks of n bytes. The request is expected to be
// complete exactly by the last chunk.
func feedPartially(t *testing.T, p *Parser, raw []byte, n int) error {
	parts := splitIntoParts(raw, n)

	for i, chunk := range parts {
		rest, err := p.Feed(chunk)
		if err != nil {
			return err
		}

		require.Empty(t, rest)

		if i+1 < len(parts) {
			require.NotEqual(t, Reply, p.State(), "completed too early")
		}
	}

	return nil
}

func TestParser(t *testing.T) {
	cfg := config.Default()

	t.Run("simple GET", func(t *testing.T) {
		parser, request := getParser(cfg)
		rest, err := parser.Feed([]byte("GET /index.html HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, Reply, parser.State())
		require.Zero(t, parser.Buffered())

		compareRequests(t, wantedRequest{
			Method: method.GET,
			URI:    "/index.html",
			Proto:  proto.HTTP11,
		}, request)
	})

	t.Run("bare LF", func(t *testing.T) {
		parser, request := getParser(cfg)
		_, err := parser.Feed([]byte("GET / HTTP/1.0\nAccept: */*\n\n"))
		require.NoError(t, err)
		require.Equal(t, Reply, parser.State())

		compareRequests(t, wantedRequest{
			Method:   method.GET,
			URI:      "/",
			Proto:    proto.HTTP10,
			Headers:  map[string]string{"accept": "*/*"},
			NHeaders: 1,
		}, request)
	})

	t.Run("GET with headers", func(t *testing.T) {
		raw := "GET /path?a=b HTTP/1.1\r\nHello: World!\r\nEaster:\t Egg \r\nnot a header\r\n\r\n"
		parser, request := getParser(cfg)
		_, err := parser.Feed([]byte(raw))
		require.NoError(t, err)
		require.Equal(t, Reply, parser.State())

		compareRequests(t, wantedRequest{
			Method: method.GET,
			URI:    "/path?a=b",
			Proto:  proto.HTTP11,
			Headers: map[string]string{
				"hello":  "World!",
				"EASTER": "Egg",
			},
			NHeaders: 3,
		}, request)
		require.Equal(t, "not a header", request.RawHeaders[2])
		require.Equal(t, 2, request.Headers.Len())
		require.Equal(t, "/path", request.Path())
		require.Equal(t, "a=b", request.Query())
	})

	t.Run("asterisk URI", func(t *testing.T) {
		parser, request := getParser(cfg)
		_, err := parser.Feed([]byte("OPTIONS * HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)
		require.Equal(t, "*", request.URI)
		require.Equal(t, method.OPTIONS, request.Method)
	})

	t.Run("POST in a single chunk", func(t *testing.T) {
		raw := "POST /submit HTTP/1.1\r\nContent-Length: 5\r\nContent-Type: text/plain\r\n\r\nhello"
		parser, request := getParser(cfg)
		rest, err := parser.Feed([]byte(raw))
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, Reply, parser.State())

		compareRequests(t, wantedRequest{
			Method:   method.POST,
			URI:      "/submit",
			Proto:    proto.HTTP11,
			Body:     "hello",
			NHeaders: 2,
		}, request)
		require.Equal(t, "text/plain", request.ContentType)
		require.Equal(t, uint64(5), request.ContentLength)
	})

	t.Run("POST in two chunks", func(t *testing.T) {
		parser, request := getParser(cfg)
		rest, err := parser.Feed([]byte("POST /submit HTTP/1.1\r\nContent-Length: 5\r\nContent-Type: text/plain\r\n\r\nhel"))
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, ReadBody, parser.State())

		rest, err = parser.Feed([]byte("lo"))
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, Reply, parser.State())
		require.Equal(t, "hello", string(request.Body))
	})

	t.Run("POST with empty body", func(t *testing.T) {
		parser, request := getParser(cfg)
		_, err := parser.Feed([]byte("POST / HTTP/1.1\r\nContent-Length: 0\r\nContent-Type: text/plain\r\n\r\n"))
		require.NoError(t, err)
		require.Equal(t, Reply, parser.State())
		require.Empty(t, request.Body)
	})

	t.Run("GET with body", func(t *testing.T) {
		parser, request := getParser(cfg)
		_, err := parser.Feed([]byte("GET / HTTP/1.1\r\nContent-Length: 3\r\n\r\nabc"))
		require.NoError(t, err)
		require.Equal(t, Reply, parser.State())
		require.Equal(t, "abc", string(request.Body))
		require.Empty(t, request.ContentType)
	})

	t.Run("agreeing duplicate content length", func(t *testing.T) {
		parser, request := getParser(cfg)
		_, err := parser.Feed([]byte(
			"POST / HTTP/1.1\r\nContent-Length: 2\r\nContent-Length: 2\r\nContent-Type: a/b\r\n\r\nhi",
		))
		require.NoError(t, err)
		require.Equal(t, "hi", string(request.Body))
	})

	t.Run("chunk size independence", func(t *testing.T) {
		raw := []byte("POST /submit?x=y HTTP/1.1\r\nHost: localhost\r\nContent-Length: 11\r\n" +
			"Content-Type: text/plain\r\n\r\nhello world")

		for n := 1; n <= len(raw); n++ {
			parser, request := getParser(cfg)
			require.NoError(t, feedPartially(t, parser, raw, n), n)
			require.Equal(t, Reply, parser.State(), n)

			compareRequests(t, wantedRequest{
				Method:   method.POST,
				URI:      "/submit?x=y",
				Proto:    proto.HTTP11,
				Headers:  map[string]string{"host": "localhost"},
				Body:     "hello world",
				NHeaders: 3,
			}, request)
		}
	})

	t.Run("request line split at the terminator", func(t *testing.T) {
		parser, request := getParser(cfg)
		_, err := parser.Feed([]byte("GET / HTTP/1.1\r"))
		require.NoError(t, err)
		require.Equal(t, ReadMethod, parser.State())
		require.Equal(t, len("GET / HTTP/1.1\r"), parser.Buffered())

		_, err = parser.Feed([]byte("\n\r\n"))
		require.NoError(t, err)
		require.Equal(t, Reply, parser.State())
		require.Equal(t, "/", request.URI)
	})

	t.Run("body larger than the ring", func(t *testing.T) {
		cfg := config.Default()
		cfg.Buffer.Capacity = 32
		body := strings.Repeat("x", 100)
		raw := "POST / HTTP/1.1\r\nContent-Length: 100\r\nContent-Type: text/plain\r\n\r\n" + body

		parser, request := getParser(cfg)
		rest, err := parser.Feed([]byte(raw))
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, Reply, parser.State())
		require.Equal(t, body, string(request.Body))
	})

	t.Run("random headers", func(t *testing.T) {
		headers := genHeaders(20)
		parser, request := getParser(cfg)
		_, err := parser.Feed(generateRequest("/", headers))
		require.NoError(t, err)
		require.Equal(t, Reply, parser.State())
		require.Equal(t, headers, request.RawHeaders)

		for _, header := range headers {
			key, value, _ := strings.Cut(header, ": ")
			require.Equal(t, value, request.Headers.Value(key))
		}
	})

	t.Run("feeding while replying", func(t *testing.T) {
		parser, _ := getParser(cfg)
		_, err := parser.Feed([]byte("GET / HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)
		require.Equal(t, Reply, parser.State())

		_, err = parser.Feed(nil)
		require.NoError(t, err)

		rest, err := parser.Feed([]byte("x"))
		require.ErrorIs(t, err, status.ErrUnexpectedData)
		require.Equal(t, "x", string(rest))
		require.Equal(t, status.BadRequest, status.CodeOf(err))
	})

	t.Run("reading lines in wrong state", func(t *testing.T) {
		for _, state := range []State{ReadBody, Reply} {
			parser, _ := getParser(cfg)
			parser.state = state
			_, err := parser.readLine()
			require.ErrorIs(t, err, status.ErrInternalServerError)
		}
	})

	t.Run("pipelined requests", func(t *testing.T) {
		parser, request := getParser(cfg)
		rest, err := parser.Feed([]byte("GET /a HTTP/1.1\r\n\r\nGET /b HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, Reply, parser.State())
		require.Equal(t, "/a", request.URI)
		require.NotZero(t, parser.Buffered())

		parser.Reset()
		_, err = parser.Feed(rest)
		require.NoError(t, err)
		require.Equal(t, Reply, parser.State())
		require.Equal(t, "/b", request.URI)
		require.Zero(t, parser.Buffered())
	})

	t.Run("pipelined requests overflowing the ring", func(t *testing.T) {
		cfg := config.Default()
		cfg.Buffer.Capacity = 32
		parser, request := getParser(cfg)

		rest, err := parser.Feed([]byte("GET /a HTTP/1.1\r\n\r\nGET /b HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)
		require.Equal(t, "\r\n\r\n", string(rest[len(rest)-4:]))
		require.Equal(t, "/a", request.URI)

		parser.Reset()
		rest, err = parser.Feed(rest)
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, Reply, parser.State())
		require.Equal(t, "/b", request.URI)
	})

	t.Run("reset", func(t *testing.T) {
		parser, request := getParser(cfg)
		_, err := parser.Feed([]byte("GET / HTTP/1.1\r\nA: b\r\n\r\n"))
		require.NoError(t, err)

		parser.Reset()
		require.Equal(t, ReadMethod, parser.State())
		require.Equal(t, method.Unknown, request.Method)
		require.Empty(t, request.URI)
		require.Empty(t, request.RawHeaders)
		require.True(t, request.Headers.Empty())
	})
}

func TestParser_Errors(t *testing.T) {
	for _, tc := range []struct {
		Name string
		Raw  string
		Err  error
		Code status.Code
	}{
		{"missing content length", "POST / HTTP/1.1\r\nContent-Type: text/plain\r\n\r\nhello",
			status.ErrLengthRequired, status.LengthRequired},
		{"missing content type", "POST / HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello",
			status.ErrMissingContentType, status.BadRequest},
		{"non-numeric content length", "POST / HTTP/1.1\r\nContent-Length: five\r\nContent-Type: a/b\r\n\r\n",
			status.ErrBadContentLength, status.BadRequest},
		{"negative content length", "GET / HTTP/1.1\r\nContent-Length: -1\r\n\r\n",
			status.ErrBadContentLength, status.BadRequest},
		{"conflicting content length", "POST / HTTP/1.1\r\nContent-Length: 1\r\nContent-Length: 2\r\n\r\n",
			status.ErrBadContentLength, status.BadRequest},
		{"unsupported version", "GET / HTTP/2.0\r\n\r\n",
			status.ErrHTTPVersionNotSupported, status.HTTPVersionNotSupported},
		{"malformed version", "GET / HTTPS/1.1\r\n\r\n",
			status.ErrHTTPVersionNotSupported, status.HTTPVersionNotSupported},
		{"unknown method", "BREW / HTTP/1.1\r\n\r\n",
			status.ErrMethodNotAllowed, status.MethodNotAllowed},
		{"relative URI", "GET index.html HTTP/1.1\r\n\r\n", status.ErrBadURI, status.BadRequest},
		{"fragment", "GET /index.html#top HTTP/1.1\r\n\r\n", status.ErrBadURI, status.BadRequest},
		{"non-printable URI", "GET /\x7f HTTP/1.1\r\n\r\n", status.ErrBadURI, status.BadRequest},
		{"too few spaces", "GET /HTTP/1.1\r\n\r\n", status.ErrBadRequestLine, status.BadRequest},
		{"too many spaces", "GET / a HTTP/1.1\r\n\r\n", status.ErrBadRequestLine, status.BadRequest},
		{"leading CRLF", "\r\nGET / HTTP/1.1\r\n\r\n", status.ErrBadRequestLine, status.BadRequest},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			parser, _ := getParser(config.Default())
			_, err := parser.Feed([]byte(tc.Raw))
			require.ErrorIs(t, err, tc.Err)
			assert.Equal(t, tc.Code, status.CodeOf(err))
		})
	}

	t.Run("too long request line", func(t *testing.T) {
		cfg := config.Default()
		cfg.Buffer.Capacity = 64
		parser, _ := getParser(cfg)
		_, err := parser.Feed([]byte("GET /" + strings.Repeat("a", 100) + " HTTP/1.1\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrTooLongRequestLine)
		require.Equal(t, status.RequestURITooLong, status.CodeOf(err))
	})

	t.Run("too long header", func(t *testing.T) {
		cfg := config.Default()
		cfg.Buffer.Capacity = 64
		parser, _ := getParser(cfg)
		_, err := parser.Feed([]byte("GET / HTTP/1.1\r\nX: " + strings.Repeat("a", 100) + "\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrHeaderFieldsTooLarge)
		require.Equal(t, status.RequestHeaderFieldsTooLarge, status.CodeOf(err))
	})

	t.Run("headers overflowing the arena", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Space.Default, cfg.Headers.Space.Maximal = 8, 16
		parser, _ := getParser(cfg)
		_, err := parser.Feed([]byte("GET / HTTP/1.1\r\nHello: World\r\nEaster: Egg\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrHeaderFieldsTooLarge)
	})

	t.Run("too many headers", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Number.Maximal = 3
		parser, _ := getParser(cfg)
		_, err := parser.Feed(generateRequest("/", genHeaders(4)))
		require.ErrorIs(t, err, status.ErrTooManyHeaders)
		require.Equal(t, status.RequestHeaderFieldsTooLarge, status.CodeOf(err))
	})

	t.Run("body too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.MaxSize = 10
		parser, _ := getParser(cfg)
		_, err := parser.Feed([]byte("POST / HTTP/1.1\r\nContent-Length: 11\r\nContent-Type: a/b\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrBodyTooLarge)
		require.Equal(t, status.RequestEntityTooLarge, status.CodeOf(err))
	})
}

func TestIsValidURI(t *testing.T) {
	for _, uri := range []string{"/", "*", "/a/b?c=d&e", "/%20", "/~user"} {
		assert.True(t, isValidURI([]byte(uri)), uri)
	}

	for _, uri := range []string{"", "**", "a", "http://example.com/", "/a#b", "/\x00", "/\xff"} {
		assert.False(t, isValidURI([]byte(uri)), uri)
	}
}

func TestState_String(t *testing.T) {
	require.Equal(t, "read_method", ReadMethod.String())
	require.Equal(t, "read_headers", ReadHeaders.String())
	require.Equal(t, "read_body", ReadBody.String())
	require.Equal(t, "reply", Reply.String())
	require.Equal(t, "unknown", State(42).String())
}

func genHeaders(n int) (out []string) {
	for i := 0; i < n; i++ {
		out = append(out, genHeader())
	}

	return out
}

func genHeader() string {
	return fmt.Sprintf("%[1]s: %[1]s", uniuri.NewLen(16))
}
