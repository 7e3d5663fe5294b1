package ringhttp

import (
	"crypto/tls"
	"errors"

	"github.com/indigo-web/ringhttp/transport"
)

var (
	ErrBadCertificate = errors.New("one or more passed certificates are empty")
	ErrNoCertificates = errors.New("no certificates were passed")
)

// Transport pairs a transport with the address it must be bound to. Errors which occurred while
// constructing it are deferred until the App binds its transports.
type Transport struct {
	addr  string
	inner transport.Transport
	error error
}

// TCP returns a plain-text transport.
func TCP() Transport {
	return Transport{
		inner: transport.NewTCP(),
	}
}

// TLS loads the certificate and the key and returns an encrypted transport.
func TLS(cert, key string) Transport {
	c, err := tls.LoadX509KeyPair(cert, key)
	if err != nil {
		// if any error occurred, there's no way to report it at this point.
		// Save it in the transport, the App will catch and return it when
		// will bind listeners.
		return Transport{error: err}
	}

	return HTTPS(c)
}

// HTTPS returns an encrypted transport serving the certificates.
func HTTPS(certs ...tls.Certificate) Transport {
	// simple checks in order to avoid the most obvious mistakes
	switch {
	case len(certs) == 0:
		return Transport{error: ErrNoCertificates}
	case !noEmptyCerts(certs):
		return Transport{error: ErrBadCertificate}
	}

	return Transport{
		inner: transport.NewTLS(certs),
	}
}

// AutoTLS returns an encrypted transport obtaining certificates for the domains automatically.
// Certificates are cached in the user's cache directory, if it's available.
func AutoTLS(domains ...string) Transport {
	return Transport{
		inner: transport.NewAutoTLS(autocertCache(), domains...),
	}
}

// Cert loads a certificate. In case of an error an empty certificate is returned, which will be
// reported by HTTPS.
func Cert(cert, key string) tls.Certificate {
	c, _ := tls.LoadX509KeyPair(cert, key)
	return c
}

func noEmptyCerts(certs []tls.Certificate) bool {
	for _, c := range certs {
		if c.Certificate == nil {
			return false
		}
	}

	return true
}
