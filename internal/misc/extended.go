package misc

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"mailprobe/internal/cache"
	"mailprobe/internal/proxy"
	"mailprobe/internal/smtp"
)

// ExtendedSignals is diagnostic-only metadata enriching CheckEmailOutput; it
// never participates in verdict fusion (see internal/pipeline's fusion
// function, which never reads Details.Extended).
type ExtendedSignals struct {
	MXProvider         string
	HasSPF             bool
	HasDMARC           bool
	HasSaaSTokens      bool
	DomainAgeDays      int
	HasTeamsPresence   bool
	HasGoogleCalendar  bool
	HasSharePoint      bool
	HasGitHub          bool
	BreachCount        int
	EntropyScore       float64
	IsPostmasterBroken bool
}

// ExtendedInput bundles the extra context ExtendedSignals needs beyond the
// base misc Input: the MX host (for provider ID and postmaster probing) and
// the optional HIBP API key (breach count reuses the same v3 endpoint as
// the base haveibeenpwned check, but this time for a count rather than a
// bool).
type ExtendedInput struct {
	Client               *http.Client
	MXHost               string
	HaveIBeenPwnedAPIKey string
	SmtpConfig           smtp.Config
	Proxies              proxy.Table
}

var saasIndicators = []string{
	"salesforce", "zendesk", "atlassian", "docusign",
	"facebook-domain-verification", "apple-domain-verification", "stripe",
}

const extendedCacheTTL = 10 * time.Minute

// ComputeExtended runs the extended diagnostic checks concurrently via
// errgroup, ground: globusdigital-email-verifier's errgrouper pattern. Any
// individual check failing just leaves its field at the zero value —
// ComputeExtended itself never returns an error. Domain-scoped checks
// (MXProvider, HasSPF, HasDMARC, HasSaaSTokens, DomainAgeDays) are cached
// per domain since they're identical across addresses at the same domain.
func ComputeExtended(ctx context.Context, address, username, domain string, in ExtendedInput) *ExtendedSignals {
	client := in.Client
	if client == nil {
		client = http.DefaultClient
	}
	mxHost := in.MXHost

	sig := &ExtendedSignals{
		EntropyScore: entropy(username),
	}

	if cached, ok := cache.DomainCache.Get("misc-extended:" + domain); ok {
		if snap, ok := cached.(domainSignals); ok {
			sig.MXProvider = snap.MXProvider
			sig.HasSPF = snap.HasSPF
			sig.HasDMARC = snap.HasDMARC
			sig.HasSaaSTokens = snap.HasSaaSTokens
			sig.DomainAgeDays = snap.DomainAgeDays
		}
	} else {
		snap := computeDomainSignals(ctx, domain, mxHost)
		cache.DomainCache.Set("misc-extended:"+domain, snap, extendedCacheTTL)
		sig.MXProvider = snap.MXProvider
		sig.HasSPF = snap.HasSPF
		sig.HasDMARC = snap.HasDMARC
		sig.HasSaaSTokens = snap.HasSaaSTokens
		sig.DomainAgeDays = snap.DomainAgeDays
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { sig.HasTeamsPresence = checkTeamsPresence(gctx, domain); return nil })
	g.Go(func() error { sig.HasGoogleCalendar = checkGoogleCalendar(gctx, client, address); return nil })
	g.Go(func() error { sig.HasSharePoint = checkSharePoint(gctx, client, address); return nil })
	g.Go(func() error { sig.HasGitHub = checkGitHub(gctx, client, address); return nil })
	if in.HaveIBeenPwnedAPIKey != "" {
		g.Go(func() error { sig.BreachCount = breachCount(gctx, client, address, in.HaveIBeenPwnedAPIKey); return nil })
	}
	if mxHost != "" {
		g.Go(func() error {
			sig.IsPostmasterBroken = !smtp.CheckPostmaster(gctx, mxHost, domain, in.SmtpConfig, in.Proxies)
			return nil
		})
	}
	_ = g.Wait() // every goroutine above always returns nil; Wait only joins them.

	return sig
}

// domainSignals is the subset of ExtendedSignals that only depends on the
// domain, not the specific address — what gets cached.
type domainSignals struct {
	MXProvider    string
	HasSPF        bool
	HasDMARC      bool
	HasSaaSTokens bool
	DomainAgeDays int
}

func computeDomainSignals(ctx context.Context, domain, mxHost string) domainSignals {
	return domainSignals{
		MXProvider:    identifyProvider(mxHost),
		HasSPF:        hasSPF(ctx, domain),
		HasDMARC:      hasDMARC(ctx, domain),
		HasSaaSTokens: hasSaaSTokens(ctx, domain),
		DomainAgeDays: domainAgeDays(ctx, domain),
	}
}

func identifyProvider(mxHost string) string {
	host := strings.ToLower(mxHost)
	switch {
	case strings.Contains(host, "pphosted.com"):
		return "proofpoint"
	case strings.Contains(host, "mimecast.com"):
		return "mimecast"
	case strings.Contains(host, "barracudanetworks.com"):
		return "barracuda"
	case strings.Contains(host, "google.com"), strings.Contains(host, "googlemail.com"):
		return "google"
	case strings.Contains(host, "outlook.com"), strings.Contains(host, "protection.outlook.com"):
		return "office365"
	default:
		return "generic"
	}
}

func hasSPF(ctx context.Context, domain string) bool {
	txts, err := net.DefaultResolver.LookupTXT(ctx, domain)
	if err != nil {
		return false
	}
	for _, txt := range txts {
		if strings.HasPrefix(txt, "v=spf1") {
			return true
		}
	}
	return false
}

func hasDMARC(ctx context.Context, domain string) bool {
	txts, err := net.DefaultResolver.LookupTXT(ctx, "_dmarc."+domain)
	if err != nil {
		return false
	}
	for _, txt := range txts {
		if strings.HasPrefix(txt, "v=DMARC1") {
			return true
		}
	}
	return false
}

func hasSaaSTokens(ctx context.Context, domain string) bool {
	txts, err := net.DefaultResolver.LookupTXT(ctx, domain)
	if err != nil {
		return false
	}
	for _, txt := range txts {
		lower := strings.ToLower(txt)
		for _, ind := range saasIndicators {
			if strings.Contains(lower, ind) {
				return true
			}
		}
	}
	return false
}

// entropy is the ratio of digits to total length of s; > 0.5 is a common
// heuristic for bot-generated local-parts.
func entropy(s string) float64 {
	if s == "" {
		return 0
	}
	digits := 0.0
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits / float64(len(s))
}
