package smtp

import (
	"context"
	"errors"

	"mailprobe/internal/proxy"
)

// CheckPostmaster probes postmaster@domain and reports whether the mailbox
// looks reachable. It fails open: any non-definitive failure (timeout, rate
// limit, transport error) is reported as "working" rather than "broken", so
// transient network noise never marks a domain's postmaster as broken. Used
// only as an extended diagnostic signal — never consulted by verdict fusion.
func CheckPostmaster(ctx context.Context, mxHost, domain string, cfg Config, proxies proxy.Table) bool {
	details, _, err := Probe(ctx, mxHost, "postmaster@"+domain, domain, cfg, proxies, nil)
	if err == nil {
		return details.IsDeliverable || details.CanConnectSMTP
	}
	var ce *ConversationError
	if errors.As(err, &ce) && (ce.Code == 550 || ce.Code == 551) {
		return false
	}
	return true
}
