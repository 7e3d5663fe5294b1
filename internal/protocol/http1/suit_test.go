package http1

import (
	"strings"
	"testing"

	"github.com/indigo-web/ringhttp/config"
	"github.com/indigo-web/ringhttp/http"
	"github.com/indigo-web/ringhttp/http/status"
	"github.com/indigo-web/ringhttp/router/simple"
	"github.com/indigo-web/ringhttp/transport/dummy"
	"github.com/stretchr/testify/require"
)

type journal struct {
	requests []string
	bodies   []string
	errors   []error
}

func (j *journal) router() simple.Router {
	return simple.New(
		func(request *http.Request) *http.Response {
			j.requests = append(j.requests, request.Method.String()+" "+request.URI)
			j.bodies = append(j.bodies, string(request.Body))

			return http.NewResponse().ContentType("").String("ok")
		},
		func(request *http.Request, err error) *http.Response {
			j.errors = append(j.errors, err)
			return simple.DefaultErrorHandler(request, err)
		},
	)
}

func getSuit(data ...[]byte) (*Suit, *dummy.Client, *journal) {
	client := dummy.NewClient(data...)
	j := new(journal)

	return Initialize(config.Default(), j.router(), client), client, j
}

const okResponse = "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"

func BenchmarkSuit(b *testing.B) {
	data := generateRequest("/", genHeaders(10))
	client := dummy.NewNopClient()
	router := simple.New(func(*http.Request) *http.Response {
		return http.NewResponse()
	}, nil)
	suit := Initialize(config.Default(), router, client)

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		suit.ServeChunk(data)
	}
}

func TestSuit(t *testing.T) {
	t.Run("simple GET", func(t *testing.T) {
		suit, client, j := getSuit([]byte("GET /index.html HTTP/1.1\r\n\r\n"))
		suit.Serve()

		require.Equal(t, okResponse, client.Written())
		require.Equal(t, []string{"GET /index.html"}, j.requests)
		// the connection was closed by the peer
		require.Equal(t, []error{status.ErrCloseConnection}, j.errors)
		require.True(t, client.Closed())
	})

	t.Run("keep the connection open between chunks", func(t *testing.T) {
		suit, client, _ := getSuit()
		require.True(t, suit.ServeChunk([]byte("GET / HTTP/1.1\r\n\r\n")))
		require.False(t, client.Closed())
	})

	t.Run("POST split into chunks", func(t *testing.T) {
		suit, client, j := getSuit(
			[]byte("POST /submit HTTP/1.1\r\nContent-Le"),
			[]byte("ngth: 5\r\nContent-Type: text/plain\r\n\r\nhel"),
			[]byte("lo"),
		)
		suit.Serve()

		require.Equal(t, okResponse, client.Written())
		require.Equal(t, []string{"POST /submit"}, j.requests)
		require.Equal(t, []string{"hello"}, j.bodies)
	})

	t.Run("byte by byte", func(t *testing.T) {
		raw := "POST /submit HTTP/1.1\r\nContent-Length: 5\r\nContent-Type: text/plain\r\n\r\nhello"
		suit, client, j := getSuit()

		for i := 0; i < len(raw); i++ {
			require.True(t, suit.ServeChunk([]byte{raw[i]}))
		}

		require.Equal(t, okResponse, client.Written())
		require.Equal(t, []string{"hello"}, j.bodies)
	})

	t.Run("keep-alive", func(t *testing.T) {
		suit, client, j := getSuit(
			[]byte("GET /a HTTP/1.1\r\n\r\nGET /b HTTP/1.1\r\n\r\nGET /c"),
			[]byte(" HTTP/1.1\r\n\r\n"),
		)
		suit.Serve()

		require.Equal(t, strings.Repeat(okResponse, 3), client.Written())
		require.Equal(t, []string{"GET /a", "GET /b", "GET /c"}, j.requests)
	})

	t.Run("pipelined requests exceeding the ring", func(t *testing.T) {
		cfg := config.Default()
		cfg.Buffer.Capacity = 32
		client := dummy.NewClient([]byte(strings.Repeat("GET / HTTP/1.1\r\n\r\n", 10)))
		j := new(journal)
		Initialize(cfg, j.router(), client).Serve()

		require.Equal(t, strings.Repeat(okResponse, 10), client.Written())
		require.Len(t, j.requests, 10)
	})

	t.Run("connection close", func(t *testing.T) {
		suit, client, j := getSuit(
			[]byte("GET /a HTTP/1.1\r\nConnection: close\r\n\r\nGET /b HTTP/1.1\r\n\r\n"),
		)
		suit.Serve()

		require.Equal(t,
			"HTTP/1.1 200 OK\r\nContent-Length: 2\r\nConnection: close\r\n\r\nok",
			client.Written(),
		)
		require.Equal(t, []string{"GET /a"}, j.requests)
		require.Empty(t, j.errors)
		require.True(t, client.Closed())
	})

	t.Run("HTTP/1.0", func(t *testing.T) {
		suit, client, j := getSuit(
			[]byte("GET /a HTTP/1.0\r\nConnection: keep-alive\r\n\r\nGET /b HTTP/1.0\r\n\r\nGET /c HTTP/1.0\r\n\r\n"),
		)
		suit.Serve()

		require.Equal(t,
			"HTTP/1.0 200 OK\r\nContent-Length: 2\r\nConnection: keep-alive\r\n\r\nok"+
				"HTTP/1.0 200 OK\r\nContent-Length: 2\r\nConnection: close\r\n\r\nok",
			client.Written(),
		)
		require.Equal(t, []string{"GET /a", "GET /b"}, j.requests)
	})

	t.Run("missing content length", func(t *testing.T) {
		suit, client, j := getSuit(
			[]byte("POST / HTTP/1.1\r\nContent-Type: text/plain\r\n\r\nhello"),
			[]byte("GET / HTTP/1.1\r\n\r\n"),
		)
		suit.Serve()

		require.Equal(t,
			"HTTP/1.1 411 Length Required\r\nContent-Type: text/plain\r\nContent-Length: 19\r\n"+
				"Connection: close\r\n\r\n411 Length Required",
			client.Written(),
		)
		require.Empty(t, j.requests)
		require.Equal(t, []error{status.ErrLengthRequired}, j.errors)
		require.True(t, client.Closed())
	})

	t.Run("bad request line", func(t *testing.T) {
		suit, client, j := getSuit([]byte("GARBAGE\r\n\r\n"))
		suit.Serve()

		require.True(t, strings.HasPrefix(client.Written(), "HTTP/1.1 400 Bad Request\r\n"))
		require.Contains(t, client.Written(), "Connection: close\r\n")
		require.Empty(t, j.requests)
	})

	t.Run("unsupported version", func(t *testing.T) {
		suit, client, _ := getSuit([]byte("GET / HTTP/2.0\r\n\r\n"))
		suit.Serve()
		require.True(t, strings.HasPrefix(client.Written(), "HTTP/1.1 505 HTTP Version Not Supported\r\n"))
	})

	t.Run("nil responses", func(t *testing.T) {
		client := dummy.NewClient(
			[]byte("GET / HTTP/1.1\r\n\r\n"),
			[]byte("BREW / HTTP/1.1\r\n\r\n"),
		)
		router := simple.New(
			func(*http.Request) *http.Response { return nil },
			func(*http.Request, error) *http.Response { return nil },
		)
		Initialize(config.Default(), router, client).Serve()

		require.Equal(t,
			"HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: 0\r\n\r\n"+
				"HTTP/1.1 405 Method Not Allowed\r\nContent-Type: text/plain\r\nContent-Length: 22\r\n"+
				"Connection: close\r\n\r\n405 Method Not Allowed",
			client.Written(),
		)
	})

	t.Run("failed write", func(t *testing.T) {
		suit, client, j := getSuit()
		require.NoError(t, client.Close())
		require.False(t, suit.ServeChunk([]byte("GET / HTTP/1.1\r\n\r\n")))
		require.Equal(t, []error{status.ErrCloseConnection}, j.errors)
	})
}
