package certs

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vietdv277/gatecert/pkg/provider"
	"github.com/vietdv277/gatecert/pkg/types"
)

const (
	// DefaultPort is the port certificates are fetched from
	DefaultPort = 443
	// DefaultTimeout bounds dialing and the TLS handshake for one host
	DefaultTimeout = 10 * time.Second
)

// Inspector retrieves the certificate a host presents on its TLS port
type Inspector struct {
	port    int
	timeout time.Duration
	logger  *logrus.Entry
	dial    func(ctx context.Context, network, addr string) (net.Conn, error)
}

// InspectorOption allows customizing the Inspector
type InspectorOption func(*Inspector)

// WithPort sets the TLS port to connect to
func WithPort(port int) InspectorOption {
	return func(i *Inspector) {
		i.port = port
	}
}

// WithTimeout sets the per-host connection timeout
func WithTimeout(timeout time.Duration) InspectorOption {
	return func(i *Inspector) {
		i.timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Entry) InspectorOption {
	return func(i *Inspector) {
		i.logger = logger
	}
}

// WithDialContext replaces the TCP dialer, for example to route every
// host to a test server
func WithDialContext(dial func(ctx context.Context, network, addr string) (net.Conn, error)) InspectorOption {
	return func(i *Inspector) {
		i.dial = dial
	}
}

// NewInspector creates a new Inspector with the given options
func NewInspector(opts ...InspectorOption) *Inspector {
	i := &Inspector{
		port:    DefaultPort,
		timeout: DefaultTimeout,
		logger:  logrus.NewEntry(logrus.StandardLogger()),
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.dial == nil {
		i.dial = (&net.Dialer{}).DialContext
	}

	return i
}

// Expiration connects to host, sending host as SNI, and returns the date the
// presented leaf certificate stops being valid. The certificate is not
// verified: an expired or self-signed certificate is still reported.
func (i *Inspector) Expiration(ctx context.Context, host string) (time.Time, error) {
	cert, err := i.Certificate(ctx, host)
	if err != nil {
		return time.Time{}, err
	}
	if cert.NotAfter.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %s: certificate has no expiration", provider.ErrParse, host)
	}
	return types.DateOf(cert.NotAfter), nil
}

// Certificate returns details of the leaf certificate presented by host
func (i *Inspector) Certificate(ctx context.Context, host string) (*Info, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	addr := net.JoinHostPort(host, strconv.Itoa(i.port))
	i.logger.WithField("addr", addr).Debug("connecting")

	rawConn, err := i.dial(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", provider.ErrConnection, addr, err)
	}
	defer func() { _ = rawConn.Close() }()

	conn := tls.Client(rawConn, &tls.Config{
		ServerName: host,
		// the certificate is reported, not trusted
		InsecureSkipVerify: true, //nolint:gosec
	})
	if err := conn.HandshakeContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: tls handshake with %s: %w", provider.ErrConnection, addr, err)
	}

	peers := conn.ConnectionState().PeerCertificates
	if len(peers) == 0 {
		return nil, fmt.Errorf("%w: %s presented no certificate", provider.ErrParse, addr)
	}

	return infoFrom(host, peers[0]), nil
}
