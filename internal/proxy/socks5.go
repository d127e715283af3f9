package proxy

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// Socks5Error wraps a dial failure that happened while talking to a SOCKS5
// proxy, attaching an actionable description keyed off the reply code or I/O
// error kind observed. golang.org/x/net/proxy doesn't expose a typed
// reply-code enum the way some other SOCKS5 clients do — it folds the
// negotiation into a plain error string — so classification here works by
// pattern-matching on that string and on the underlying net.Error, not on a
// typed reply value.
type Socks5Error struct {
	ProxyHost string
	Detail    string
	Cause     error
}

func (e *Socks5Error) Error() string {
	return fmt.Sprintf("socks5 proxy %s: %s: %v", e.ProxyHost, e.Detail, e.Cause)
}

func (e *Socks5Error) Unwrap() error { return e.Cause }

// replyDetail maps the SOCKS5 reply-code phrase golang.org/x/net/proxy
// embeds in its error string to the named, actionable description the
// original implementation's format_socks5_reply_error produces. Phrasing
// (the "SOCKS5 <Name> (reply code 0x0N): ..." contract) is reproduced
// verbatim in wording so log analyzers keyed on it still match.
var replyDetail = []struct {
	match string
	text  string
}{
	{"general SOCKS server failure",
		"SOCKS5 General Failure (reply code 0x01): the proxy server encountered an internal error " +
			"and could not complete the request. Possible causes: it cannot reach the target SMTP " +
			"server, it has internal configuration issues or is overloaded, or a firewall/security " +
			"policy on the proxy is blocking this connection. Try a different proxy or verify the " +
			"target server is reachable from the proxy's location."},
	{"connection not allowed by ruleset",
		"SOCKS5 Connection Not Allowed (reply code 0x02): the proxy's ruleset explicitly denies this " +
			"connection. This may be due to IP-based access control lists, domain blocking rules, port " +
			"restrictions (SMTP port 25 is often blocked), or rate limiting. Contact the proxy provider " +
			"or use a different proxy."},
	{"network unreachable",
		"SOCKS5 Network Unreachable (reply code 0x03): the proxy cannot route traffic to the target " +
			"network. Possible causes: no route exists to the target network, a network partition or " +
			"outage, or the proxy's network configuration doesn't include this route. Try a proxy in a " +
			"different geographic location."},
	{"host unreachable",
		"SOCKS5 Host Unreachable (reply code 0x04): the proxy could not reach the target SMTP server " +
			"host. Possible causes: the SMTP server is down, DNS resolution failed on the proxy side, " +
			"the host is blocking connections from the proxy's IP, or a firewall is blocking at the " +
			"destination. Verify the target email domain's MX servers are operational."},
	{"connection refused",
		"SOCKS5 Connection Refused (reply code 0x05): the target SMTP server actively refused the " +
			"connection. Possible causes: the SMTP server is not accepting connections on this port, " +
			"the proxy's IP address is blacklisted by the SMTP server, rate limiting or connection " +
			"limits on the target server, or the SMTP service is temporarily unavailable. Try a " +
			"different proxy with a clean IP reputation."},
	{"TTL expired",
		"SOCKS5 TTL Expired (reply code 0x06): the connection attempt timed out due to TTL expiration. " +
			"This typically indicates severe network latency or routing problems between the proxy and " +
			"target."},
	{"command not supported",
		"SOCKS5 Command Not Supported (reply code 0x07): the proxy does not support the CONNECT " +
			"command. The proxy may have limited functionality or be misconfigured."},
	{"address type not supported",
		"SOCKS5 Address Type Not Supported (reply code 0x08): the proxy does not support the target " +
			"address format (IPv4/IPv6/domain). Try a different address format or a proxy with broader " +
			"address support."},
}

// ClassifyError wraps err, observed while dialing host through a SOCKS5
// proxy, into a Socks5Error carrying an actionable Detail string.
func ClassifyError(host string, err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	for _, r := range replyDetail {
		if strings.Contains(msg, r.match) {
			return &Socks5Error{ProxyHost: host, Detail: r.text, Cause: err}
		}
	}

	switch {
	case strings.Contains(msg, "username/password authentication failed"),
		strings.Contains(msg, "authentication failed"):
		return &Socks5Error{ProxyHost: host, Detail: "authentication rejected; verify proxy username and password", Cause: err}
	case strings.Contains(msg, "no acceptable authentication methods"):
		return &Socks5Error{ProxyHost: host, Detail: "proxy offered no authentication method this client supports", Cause: err}
	case strings.Contains(msg, "unknown SOCKS version"):
		return &Socks5Error{ProxyHost: host, Detail: "target does not speak SOCKS5; check the proxy type/port", Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Socks5Error{ProxyHost: host, Detail: "SOCKS5 I/O error (timeout): timed out negotiating with the proxy", Cause: err}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &Socks5Error{ProxyHost: host, Detail: ioKindDetail(opErr.Err), Cause: err}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Socks5Error{ProxyHost: host, Detail: "SOCKS5 I/O error (unexpected eof): proxy closed the connection prematurely; it may have crashed or rejected the request", Cause: err}
	}

	return &Socks5Error{ProxyHost: host, Detail: "unclassified SOCKS5 negotiation error", Cause: err}
}

// ioKindDetail classifies the innermost error of a *net.OpError by message,
// mirroring a match on io.ErrorKind in languages that expose one; Go's net
// package doesn't, so substring matching on the wrapped syscall error is the
// idiomatic fallback. Prefix and wording reproduce the original
// implementation's format_socks5_error_detailed I/O branch.
func ioKindDetail(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "SOCKS5 I/O error (connection refused): Connection refused - the SOCKS5 proxy server is " +
			"not accepting connections. Verify the proxy is running and the port is correct."
	case strings.Contains(msg, "connection reset"):
		return "SOCKS5 I/O error (connection reset): Connection reset by proxy - the SOCKS5 server " +
			"terminated the connection unexpectedly. The proxy may be overloaded or blocking this " +
			"connection."
	case strings.Contains(msg, "i/o timeout"):
		return "SOCKS5 I/O error (timed out): Connection timed out - unable to reach the SOCKS5 proxy " +
			"server within the timeout period. Check network connectivity and firewall rules."
	case strings.Contains(msg, "no route to host"):
		return "SOCKS5 I/O error (host unreachable): no route to the proxy host; check network " +
			"connectivity and firewall rules."
	default:
		return "SOCKS5 I/O error (other): I/O error occurred while communicating with the SOCKS5 proxy."
	}
}
