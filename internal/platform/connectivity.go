package platform

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ytget/yt-clipper/internal/logger"
)

var netLog = logger.Get("Network")

// Resolver resolves host names; *net.Resolver satisfies it
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// ConnectivityChecker verifies DNS and HTTPS reachability before any download
type ConnectivityChecker struct {
	dnsHost  string
	httpURL  string
	timeout  time.Duration
	resolver Resolver
	client   *http.Client
}

// NewConnectivityChecker creates a checker for the given DNS host and URL.
// Each probe is bounded by timeout.
func NewConnectivityChecker(dnsHost, httpURL string, timeout time.Duration) *ConnectivityChecker {
	return &ConnectivityChecker{
		dnsHost:  dnsHost,
		httpURL:  httpURL,
		timeout:  timeout,
		resolver: net.DefaultResolver,
		client:   &http.Client{Timeout: timeout},
	}
}

// WithResolver replaces the DNS resolver
func (c *ConnectivityChecker) WithResolver(r Resolver) *ConnectivityChecker {
	c.resolver = r
	return c
}

// WithHTTPClient replaces the HTTP client used for the reachability request
func (c *ConnectivityChecker) WithHTTPClient(client *http.Client) *ConnectivityChecker {
	c.client = client
	return c
}

// Check runs the DNS probe then the HTTP probe and reports whether both passed.
// It never retries.
func (c *ConnectivityChecker) Check(ctx context.Context) bool {
	netLog.Emit(logger.INFO, "Testing network connectivity...")

	if err := c.checkDNS(ctx); err != nil {
		netLog.Emit(logger.ERROR, "✗ DNS resolution failed: %v", err)
		return false
	}
	netLog.Emit(logger.SUCCESS, "✓ DNS resolution working")

	if err := c.checkHTTP(ctx); err != nil {
		netLog.Emit(logger.ERROR, "✗ HTTP connectivity failed: %v", err)
		return false
	}
	netLog.Emit(logger.SUCCESS, "✓ Basic HTTP connectivity working")

	return true
}

func (c *ConnectivityChecker) checkDNS(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addrs, err := c.resolver.LookupHost(ctx, c.dnsHost)
	if err != nil {
		return err
	}
	if len(addrs) == 0 {
		return fmt.Errorf("no addresses for %s", c.dnsHost)
	}
	return nil
}

func (c *ConnectivityChecker) checkHTTP(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.httpURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
