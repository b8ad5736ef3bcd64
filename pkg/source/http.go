package source

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultTimeout is the default timeout for fetching an image over HTTP.
const DefaultTimeout = 30 * time.Second

// TLS configures certificate verification for HTTPS sources.
type TLS struct {
	// Insecure disables certificate verification and permits http:// URLs.
	Insecure bool

	// CACertFile is a PEM file of trusted CA certificates.
	// If empty, the system pool is used.
	CACertFile string
}

// NewHTTPClient builds the client a Loader uses for URLs.
func NewHTTPClient(cfg TLS, timeout time.Duration) (*http.Client, error) {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: cfg.Insecure,
	}

	if cfg.CACertFile != "" {
		pem, err := os.ReadFile(cfg.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate file %q: %w", cfg.CACertFile, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("failed to parse CA certificate file %q: no valid certificates found", cfg.CACertFile)
		}
		tlsCfg.RootCAs = pool
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Transport: &http.Transport{TLSClientConfig: tlsCfg},
		Timeout:   timeout,
	}, nil
}

// ValidateURL refuses http:// unless insecure is set.
func ValidateURL(url string, insecure bool) error {
	if strings.HasPrefix(url, "http://") && !insecure {
		return fmt.Errorf("URL %q uses insecure http:// protocol; use https:// or pass --insecure to allow it", url)
	}
	return nil
}
