// Package mx performs MX lookups and reports records ordered by preference.
package mx

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"
)

// Record is a simplified MX entry: exchange host plus its preference.
type Record struct {
	Preference uint16
	Host       string
}

// Details is the structured result of an MX lookup for one domain.
type Details struct {
	Records []Record
	Err     error
}

// Lookup resolves domain's MX records using a direct (non-proxied) resolver.
// DNS is deliberately never routed through a SOCKS5 proxy: most SOCKS5
// proxies don't carry UDP, which plain DNS needs.
func Lookup(ctx context.Context, domain string) Details {
	resolver := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{Timeout: 3 * time.Second}
			return d.DialContext(ctx, network, address)
		},
	}

	records, err := resolver.LookupMX(ctx, domain)
	if err != nil {
		return Details{Err: fmt.Errorf("MX lookup failed for %s: %w", domain, err)}
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, Record{
			Preference: r.Pref,
			// Go's resolver returns the FQDN form with a trailing dot; strip
			// it, since SOCKS5 proxies and some SMTP servers choke on it.
			Host: strings.TrimSuffix(r.Host, "."),
		})
	}
	return Details{Records: out}
}

// Preferred returns the record with the lowest Preference value, ties broken
// by first-encountered order (stable sort).
func Preferred(d Details) (Record, bool) {
	if len(d.Records) == 0 {
		return Record{}, false
	}
	sorted := make([]Record, len(d.Records))
	copy(sorted, d.Records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Preference < sorted[j].Preference
	})
	return sorted[0], true
}
