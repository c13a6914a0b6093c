package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout bounds the SOCKS5 greeting performed by CheckProxy.
const checkProxyTimeout = 2 * time.Second

// SOCKS5 greeting bytes.
const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5AuthNoAccept = 0xFF
)

// NewSOCKS5Transport returns an HTTP transport that dials through the SOCKS5
// proxy at address ("host:port"). The proxy is not contacted here; call
// CheckProxy to verify it.
//
// Design decision: unlike a hidden-service scanner, crewguard keeps TLS
// verification on. A site whose certificate fails is reported unreachable,
// the same as without a proxy.
func NewSOCKS5Transport(address string) (*http.Transport, error) {
	if !isValidProxyAddress(address) {
		return nil, ErrInvalidProxyAddress
	}

	dialer, err := proxy.SOCKS5("tcp", address, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	} else {
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}
	transport.MaxIdleConnsPerHost = 4
	transport.IdleConnTimeout = 30 * time.Second
	return transport, nil
}

// isValidProxyAddress checks for a non-empty host and a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// CheckProxy verifies that a SOCKS5 proxy accepting unauthenticated clients
// is listening at address.
//
// Only the method negotiation is performed. No CONNECT is sent, so the check
// never touches a target site.
func CheckProxy(ctx context.Context, address string) ProxyStatus {
	if !isValidProxyAddress(address) {
		return ProxyStatusCannotConnect
	}

	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	reply := make([]byte, 2)
	if _, err := io.ReadFull(conn, reply); err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}

	if reply[0] != socks5Version || reply[1] == socks5AuthNoAccept || reply[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}
