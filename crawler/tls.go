package crawler

import (
	"context"
	"crypto/tls"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/seo-check/seo-check/analyzer"
)

const tlsProbeTimeout = 5 * time.Second

// ProbeTLS performs one certificate handshake against the site's host and
// reports whether the chain verifies. Returns nil for non-HTTPS URLs, where
// there is no certificate to judge.
func ProbeTLS(ctx context.Context, rawURL string) *analyzer.TLSProbe {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.EqualFold(u.Scheme, "https") || u.Hostname() == "" {
		return nil
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "443"
	}

	ctx, cancel := context.WithTimeout(ctx, tlsProbeTimeout)
	defer cancel()

	dialer := tls.Dialer{
		NetDialer: &net.Dialer{Timeout: tlsProbeTimeout},
		Config:    &tls.Config{ServerName: host},
	}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return &analyzer.TLSProbe{Valid: false, Err: err.Error()}
	}
	conn.Close()
	return &analyzer.TLSProbe{Valid: true}
}
