package transport

import (
	"crypto/tls"
	"net"

	"golang.org/x/crypto/acme/autocert"
)

type TLS struct {
	cfg *tls.Config
	TCP
}

func NewTLS(certs []tls.Certificate) *TLS {
	return &TLS{
		cfg: &tls.Config{
			Certificates: certs,
		},
	}
}

// NewAutoTLS returns a TLS transport obtaining certificates automatically via ACME (Let's
// Encrypt by default). Certificates are issued only for the listed domains, or for any domain
// if none are listed. Issued certificates are cached in cacheDir, unless it's empty.
func NewAutoTLS(cacheDir string, domains ...string) *TLS {
	return &TLS{
		cfg: newAutocertManager(cacheDir, domains...).TLSConfig(),
	}
}

func newAutocertManager(cacheDir string, domains ...string) *autocert.Manager {
	m := &autocert.Manager{
		Prompt: autocert.AcceptTOS,
	}

	if len(domains) > 0 {
		m.HostPolicy = autocert.HostWhitelist(domains...)
	}

	if len(cacheDir) > 0 {
		m.Cache = autocert.DirCache(cacheDir)
	}

	return m
}

func (t *TLS) Bind(addr string) error {
	tcp, err := bindTCP(addr, t.reusePort)
	if err != nil {
		return err
	}

	reusePort := t.reusePort
	t.TCP = newTCP(tlsAdapter{tcp, tls.NewListener(tcp, t.cfg)})
	t.reusePort = reusePort

	return nil
}

type tlsAdapter struct {
	*net.TCPListener
	tls net.Listener
}

func (t tlsAdapter) Accept() (net.Conn, error) {
	return t.tls.Accept()
}
