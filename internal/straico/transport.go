package straico

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// NewTransport builds the process-wide pooled http.Transport the gateway
// shares across every request's Complete call. It refuses to dial loopback,
// private, or link-local addresses: the upstream base URL is
// operator-configured, and a misconfigured URL should fail the dial rather
// than silently reach an internal host.
func NewTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 20
	t.IdleConnTimeout = 90 * time.Second
	t.DialContext = safeDialContext
	return t
}

func safeDialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
	ip := net.ParseIP(host)
	if ip == nil {
		conn.Close()
		return nil, fmt.Errorf("failed to parse remote IP for %q", addr)
	}

	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
		conn.Close()
		return nil, fmt.Errorf("refusing to dial private address %s", ip)
	}

	return conn, nil
}
