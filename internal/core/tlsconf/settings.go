// Package tlsconf loads the client TLS settings used to reach a self-hosted
// shortening service.
package tlsconf

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// Settings is the tls section of config.yaml.
type Settings struct {
	// CAFile is a PEM bundle trusted in addition to the system roots.
	CAFile   string `yaml:"ca_file,omitempty"`
	CertFile string `yaml:"cert_file,omitempty"`
	KeyFile  string `yaml:"key_file,omitempty"`
	// ServerName overrides the name checked against the server certificate.
	ServerName string `yaml:"server_name,omitempty"`
	Insecure   bool   `yaml:"insecure,omitempty"`
}

// Enabled reports whether any setting differs from the default transport.
func (s Settings) Enabled() bool {
	return s.CAFile != "" || s.CertFile != "" || s.KeyFile != "" || s.ServerName != "" || s.Insecure
}

// Load builds the client config. It returns nil when nothing is set so the
// caller keeps its default transport.
func (s Settings) Load() (*tls.Config, error) {
	if !s.Enabled() {
		return nil, nil
	}

	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ServerName:         s.ServerName,
		InsecureSkipVerify: s.Insecure, //nolint:gosec // opt-in for local test servers
	}

	if (s.CertFile == "") != (s.KeyFile == "") {
		return nil, errors.New("tls: cert_file and key_file must be set together")
	}
	if s.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(s.CertFile, s.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("loading client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	if s.CAFile != "" {
		pem, err := os.ReadFile(s.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA bundle: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", s.CAFile)
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}
