package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	tls2 "github.com/refraction-networking/utls"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// preflightProbe checks URL reachability with a Chrome TLS fingerprint
// before the navigation tiers spend minutes on a host that will never
// answer. Only conclusive network failures (DNS, refused connection,
// rejected TLS handshake) count as unreachable. Everything ambiguous —
// probe timeouts, resets mid-response, HTTP error statuses — proceeds to
// the browser: slow hosts are exactly what the tier ladder tolerates, and
// bot walls that 403 plain clients frequently pass in the real browser.
type preflightProbe struct {
	timeout time.Duration
}

func newPreflightProbe(timeout time.Duration) *preflightProbe {
	return &preflightProbe{timeout: timeout}
}

// check probes targetURL. A nil return means "worth launching the browser" —
// including when the probe itself could not reach a verdict in time.
func (p *preflightProbe) check(ctx context.Context, targetURL string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	transport := &http.Transport{
		DialTLSContext: dialTLSChrome,
	}
	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return fmt.Errorf("preflight: build request: %w", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		if isHardNetworkError(err) {
			return fmt.Errorf("preflight: %w", err)
		}
		slog.Debug("preflight inconclusive, proceeding to navigation",
			"url", targetURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	// Drain a little so the connection can be reused, then discard.
	_, _ = io.CopyN(io.Discard, resp.Body, 4096)
	return nil
}

// isHardNetworkError reports whether err conclusively means the host can
// never answer: DNS resolution failure, refused connection, or a TLS
// handshake the server rejected. Timeouts are never hard failures — a host
// that is merely slow to first byte still deserves the tier ladder.
func isHardNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var hsErr *tlsHandshakeError
	return errors.As(err, &hsErr)
}

// tlsHandshakeError marks a handshake the server actively rejected, as
// opposed to one that merely ran out of time.
type tlsHandshakeError struct {
	err error
}

func (e *tlsHandshakeError) Error() string { return "tls handshake: " + e.err.Error() }
func (e *tlsHandshakeError) Unwrap() error { return e.err }

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via utls.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls2.UClient(rawConn, &tls2.Config{
		ServerName: host,
	}, tls2.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &tlsHandshakeError{err: err}
	}
	return tlsConn, nil
}
