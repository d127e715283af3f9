// Package publicip discovers this process's outbound public IP address,
// caching the result process-wide for a short TTL.
package publicip

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const cacheDuration = 300 * time.Second

var services = []string{
	"https://api.ipify.org",
	"https://ifconfig.me/ip",
	"https://icanhazip.com",
	"https://ipecho.net/plain",
}

var (
	mu          sync.RWMutex
	cachedIP    string
	lastFetched time.Time
)

// Get returns "local:<ip>" using the cached value if it's younger than 300s,
// otherwise fetching sequentially from the named services (first success
// wins) and caching the result. On total failure it falls back to
// "local:<hostname>" or "local:unknown".
func Get(ctx context.Context) string {
	mu.RLock()
	if cachedIP != "" && time.Since(lastFetched) < cacheDuration {
		ip := cachedIP
		mu.RUnlock()
		return ip
	}
	mu.RUnlock()

	ip := fetch(ctx)

	mu.Lock()
	cachedIP = ip
	lastFetched = time.Now()
	mu.Unlock()

	return ip
}

func fetch(ctx context.Context) string {
	client := &http.Client{Timeout: 5 * time.Second}

	for _, svc := range services {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc, nil)
		if err != nil {
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			continue
		}
		ip := strings.TrimSpace(string(body))
		if isValidIP(ip) {
			return "local:" + ip
		}
	}

	return localHostname()
}

func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

func localHostname() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "local:unknown"
	}
	return "local:" + host
}
