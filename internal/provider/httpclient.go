package provider

import (
	"context"
	"math/rand"
	"net"
	"net/http"
	"time"

	"mailprobe/internal/proxy"
)

// userAgents rotates a small pool of desktop browser strings so the
// provider-API probes don't all present an identical, easily fingerprinted
// client.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// NewHTTPClient builds the shared client used by the Gmail/Yahoo/Microsoft365
// API probes. When desc names a proxy, every request the transport makes is
// tunnelled through its SOCKS5 endpoint; a zero-value Descriptor dials
// direct.
func NewHTTPClient(desc proxy.Descriptor, timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return proxy.DialContext(ctx, network, addr, desc, timeout)
		},
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
