package freebox

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	"github.com/benmeehan/freebox-agent/pkg/file"
)

// newHTTPClient builds the TLS client used to talk to the Freebox. When
// caCertFile is set, only the certificates it contains are trusted.
func newHTTPClient(fileOps file.FileOperations, caCertFile string, insecureSkipVerify bool, timeout time.Duration) (*http.Client, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: insecureSkipVerify,
	}

	if caCertFile != "" {
		pem, err := fileOps.ReadFileRaw(caCertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificate found in %s", caCertFile)
		}
		tlsConfig.RootCAs = pool
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:     tlsConfig,
		TLSHandshakeTimeout: timeout,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, fmt.Errorf("failed to enable HTTP/2: %w", err)
	}

	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

// tlsConfigOf returns a copy of the client's TLS settings restricted to
// HTTP/1.1, as needed for websocket upgrades.
func tlsConfigOf(client *http.Client) *tls.Config {
	var cfg *tls.Config
	if t, ok := client.Transport.(*http.Transport); ok && t.TLSClientConfig != nil {
		cfg = t.TLSClientConfig.Clone()
	} else {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	cfg.NextProtos = []string{"http/1.1"}
	return cfg
}
