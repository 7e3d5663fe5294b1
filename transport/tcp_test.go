package transport

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/indigo-web/ringhttp/config"
	"github.com/stretchr/testify/require"
)

func TestTCP(t *testing.T) {
	cfg := config.Default().NET
	cfg.AcceptLoopInterruptPeriod = 20 * time.Millisecond

	tcp := NewTCP()
	require.NoError(t, tcp.Bind("127.0.0.1:0"))

	errch := make(chan error, 1)
	go func() {
		errch <- tcp.Listen(cfg, func(conn net.Conn) {
			client := NewClient(conn, time.Second, make([]byte, 64))
			data, err := client.Read()
			if err != nil {
				return
			}

			_, _ = client.Write(append([]byte("echo: "), data...))
		})
	}()

	conn, err := net.Dial("tcp", tcp.Addr().String())
	require.NoError(t, err)
	_, err = conn.Write([]byte("ping"))
	require.NoError(t, err)

	// the server closes the connection after the callback returns
	reply, err := io.ReadAll(conn)
	require.NoError(t, err)
	require.Equal(t, "echo: ping", string(reply))
	require.NoError(t, conn.Close())

	tcp.Stop()
	tcp.Wait()
	tcp.Close()

	select {
	case err = <-errch:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.Fail(t, "listener did not stop")
	}
}

func TestAutoTLS(t *testing.T) {
	t.Run("host policy", func(t *testing.T) {
		m := newAutocertManager("", "example.com")
		require.NoError(t, m.HostPolicy(context.Background(), "example.com"))
		require.Error(t, m.HostPolicy(context.Background(), "evil.example.org"))
		require.Nil(t, m.Cache)
	})

	t.Run("cache", func(t *testing.T) {
		m := newAutocertManager(t.TempDir())
		require.NotNil(t, m.Cache)
		require.Nil(t, m.HostPolicy)
	})

	t.Run("bind", func(t *testing.T) {
		tls := NewAutoTLS("", "example.com")
		require.NoError(t, tls.Bind("127.0.0.1:0"))
		require.NotNil(t, tls.Addr())
		tls.Close()
	})
}
