package fetch

import "errors"

// Proxy errors.
//
// Design decision: each failure mode of the proxy check has its own error so
// the CLI can tell "nothing listening" apart from "something that is not a
// SOCKS5 proxy is listening".
var (
	// ErrInvalidProxyAddress is returned when the proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrProxyCannotConnect is returned when no TCP connection to the proxy
	// could be established.
	ErrProxyCannotConnect = errors.New("cannot connect to proxy")

	// ErrProxyNotSOCKS5 is returned when the proxy answers but does not speak
	// SOCKS5 without authentication.
	ErrProxyNotSOCKS5 = errors.New("proxy is not a SOCKS5 proxy")

	// ErrProxyTimeout is returned when the proxy handshake times out.
	ErrProxyTimeout = errors.New("timeout connecting to proxy")
)

// ProxyStatus is the outcome of a proxy check.
type ProxyStatus int

const (
	// ProxyStatusOK means the proxy completed the SOCKS5 greeting.
	ProxyStatusOK ProxyStatus = iota
	// ProxyStatusWrongType means the peer is not a usable SOCKS5 proxy.
	ProxyStatusWrongType
	// ProxyStatusCannotConnect means the TCP connection failed.
	ProxyStatusCannotConnect
	// ProxyStatusTimeout means the check ran out of time.
	ProxyStatusTimeout
)

// String returns a human-readable description of the proxy status.
func (s ProxyStatus) String() string {
	switch s {
	case ProxyStatusOK:
		return "OK"
	case ProxyStatusWrongType:
		return "wrong type (not SOCKS5)"
	case ProxyStatusCannotConnect:
		return "cannot connect"
	case ProxyStatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Err returns the error for this status, or nil if OK.
func (s ProxyStatus) Err() error {
	switch s {
	case ProxyStatusOK:
		return nil
	case ProxyStatusWrongType:
		return ErrProxyNotSOCKS5
	case ProxyStatusCannotConnect:
		return ErrProxyCannotConnect
	case ProxyStatusTimeout:
		return ErrProxyTimeout
	default:
		return errors.New("unknown proxy status")
	}
}
