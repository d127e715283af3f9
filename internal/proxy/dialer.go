package proxy

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	netproxy "golang.org/x/net/proxy"
)

// connSemaphore bounds concurrently open proxied connections process-wide,
// independent of whichever Descriptor/Rotator a caller is using. Sized by
// SetConcurrency; a nil channel (the zero value) means unbounded.
var connSemaphore chan struct{}

// SetConcurrency bounds the number of concurrently open proxy dials. Call
// once at startup; n <= 0 removes the bound.
func SetConcurrency(n int) {
	if n <= 0 {
		connSemaphore = nil
		return
	}
	connSemaphore = make(chan struct{}, n)
}

// semConn releases its concurrency-slot exactly once when closed.
type semConn struct {
	net.Conn
	releaseOnce sync.Once
}

func (c *semConn) Close() error {
	c.releaseOnce.Do(func() {
		if connSemaphore != nil {
			<-connSemaphore
		}
	})
	return c.Conn.Close()
}

// DialContext opens network/addr, tunnelled through d's SOCKS5 proxy. A
// zero-value Descriptor (empty Host) dials direct — callers decide whether a
// direct connection is acceptable for a given probe. Errors from building
// the proxy dialer or dialing through it are classified into the Socks5Error
// taxonomy; direct-dial errors and context cancellation are returned as is.
func DialContext(ctx context.Context, network, addr string, d Descriptor, defaultTimeout time.Duration) (net.Conn, error) {
	timeout := defaultTimeout
	if d.TimeoutMs > 0 {
		timeout = time.Duration(d.TimeoutMs) * time.Millisecond
	}
	direct := &net.Dialer{Timeout: timeout}

	if d.Host == "" {
		return direct.DialContext(ctx, network, addr)
	}

	if connSemaphore != nil {
		select {
		case connSemaphore <- struct{}{}:
		case <-ctx.Done():
			return nil, fmt.Errorf("timeout waiting for a free proxy slot: %w", ctx.Err())
		}
	}
	release := func() {
		if connSemaphore != nil {
			<-connSemaphore
		}
	}

	proxyURL := &url.URL{
		Scheme: "socks5",
		Host:   net.JoinHostPort(d.Host, fmt.Sprintf("%d", d.Port)),
	}
	if d.Username != "" {
		proxyURL.User = url.UserPassword(d.Username, d.Password)
	}

	pdialer, err := netproxy.FromURL(proxyURL, direct)
	if err != nil {
		release()
		return nil, ClassifyError(proxyURL.Host, err)
	}

	var conn net.Conn
	if cdialer, ok := pdialer.(netproxy.ContextDialer); ok {
		conn, err = cdialer.DialContext(ctx, network, addr)
	} else {
		// pdialer doesn't implement ContextDialer; race the blocking Dial
		// against ctx so callers still get cancellation.
		type result struct {
			conn net.Conn
			err  error
		}
		ch := make(chan result, 1)
		go func() {
			c, e := pdialer.Dial(network, addr)
			ch <- result{c, e}
		}()
		select {
		case res := <-ch:
			conn, err = res.conn, res.err
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}

	if err != nil {
		release()
		return nil, ClassifyError(proxyURL.Host, err)
	}

	if connSemaphore == nil {
		return conn, nil
	}
	return &semConn{Conn: conn}, nil
}
