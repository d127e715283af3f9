package provider

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"mailprobe/internal/proxy"
	"mailprobe/internal/smtp"
)

// familyLimiters paces HTTP/SMTP retries per provider family so concurrent
// probes against the same family don't all retry in lockstep. Tiers
// grounded on DevyanshuNegi-email-validator's worker/ratelimiter.go.
var familyLimiters = map[Family]*rate.Limiter{
	FamilyGmail:          rate.NewLimiter(2, 2),
	FamilyYahoo:          rate.NewLimiter(1, 1),
	FamilyHotmailB2B:     rate.NewLimiter(1, 1),
	FamilyHotmailB2C:     rate.NewLimiter(1, 1),
	FamilyMicrosoft365:   rate.NewLimiter(1, 1),
	FamilyEverythingElse: rate.NewLimiter(5, 5),
}

func limiterFor(f Family) *rate.Limiter {
	if l, ok := familyLimiters[f]; ok {
		return l
	}
	return familyLimiters[FamilyEverythingElse]
}

// Dispatch runs the verification strategy configured for address's
// provider family and returns the generic SmtpDetails/Debug shape shared by
// every strategy, per §4.3's "each returns {is_deliverable, is_disabled} or
// a typed error" contract.
func Dispatch(ctx context.Context, address, domain, mxHost string, table StrategyTable, smtpCfg smtp.Config, proxies proxy.Table, headless HeadlessProber) (smtp.Details, smtp.Debug, error) {
	family := Classify(domain, mxHost)
	strategy := table.StrategyFor(family)
	debug := smtp.Debug{VerificationMethod: string(strategy)}

	switch strategy {
	case StrategySmtp:
		limiter := limiterFor(family)
		details, d, err := smtp.Probe(ctx, mxHost, address, domain, smtpCfg, proxies, limiter)
		d.VerificationMethod = "smtp"
		return details, d, err

	case StrategyApi:
		return dispatchAPI(ctx, family, address, smtpCfg, proxies)

	case StrategyHeadless:
		if headless == nil {
			headless = UnconfiguredHeadless{}
		}
		details, err := headless.Probe(ctx, domain, address)
		debug.VerificationMethod = "headless"
		return details, debug, err

	default: // StrategySkipped
		debug.VerificationMethod = "skipped"
		return smtp.Details{}, debug, nil
	}
}

func dispatchAPI(ctx context.Context, family Family, address string, smtpCfg smtp.Config, proxies proxy.Table) (smtp.Details, smtp.Debug, error) {
	debug := smtp.Debug{VerificationMethod: "api"}

	var desc proxy.Descriptor
	if smtpCfg.ProxyID != "" {
		d, err := proxy.Resolve(proxies, smtpCfg.ProxyID)
		if err != nil {
			return smtp.Details{}, debug, &smtp.UnexpectedError{Cause: err}
		}
		desc = d
		debug.ProxyUsed = smtpCfg.ProxyID
	}

	client := NewHTTPClient(desc, 15*time.Second)
	if err := limiterFor(family).Wait(ctx); err != nil {
		return smtp.Details{}, debug, &smtp.TimeoutError{Elapsed: 0}
	}

	switch family {
	case FamilyGmail:
		details, err := ProbeGmail(ctx, client, address)
		return details, debug, err
	case FamilyYahoo:
		username := address
		if at := strings.IndexByte(address, '@'); at >= 0 {
			username = address[:at]
		}
		details, err := ProbeYahoo(ctx, client, username)
		return details, debug, err
	case FamilyMicrosoft365, FamilyHotmailB2B, FamilyHotmailB2C:
		details, err := ProbeMicrosoft365(ctx, client, address)
		return details, debug, err
	default:
		return smtp.Details{}, debug, &smtp.UnexpectedError{Cause: errUnsupportedAPIFamily(family)}
	}
}

type unsupportedFamilyErr string

func (e unsupportedFamilyErr) Error() string { return "no API probe defined for family " + string(e) }

func errUnsupportedAPIFamily(f Family) error { return unsupportedFamilyErr(f) }
