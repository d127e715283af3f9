package pipeline

import (
	"context"
	"crypto/tls"
	"net/http"
	"sync"
	"time"

	"mailprobe/internal/misc"
	"mailprobe/internal/mx"
	"mailprobe/internal/provider"
	"mailprobe/internal/proxy"
	"mailprobe/internal/syntax"
)

// tlsConfig is the process-wide TLS configuration, handed out by TLSConfig.
// None of the HTTP or SMTP clients in this module read it; they use Go's
// default TLS settings. Go has no global crypto-provider
// registry to initialize the way the original implementation does, so this
// sync.Once latch stands in for that step: idempotent, process-wide, exactly
// once, per §4.1/§9's "shared mutable singletons" note.
var (
	initOnce  sync.Once
	tlsConfig *tls.Config
)

func initCrypto() {
	initOnce.Do(func() {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	})
}

// TLSConfig returns the process-wide TLS configuration, initializing it on
// first call.
func TLSConfig() *tls.Config {
	initCrypto()
	return tlsConfig
}

// CheckEmail runs the full verification pipeline for one address. It never
// returns an error: every failure mode is reified into the output's
// IsReachable/Reason fields, per §4.1's "never fails" contract.
func CheckEmail(ctx context.Context, in Input) CheckEmailOutput {
	initCrypto()

	out := CheckEmailOutput{
		Input: in.ToEmail,
		Debug: Debug{
			StartTime:   time.Now(),
			BackendName: in.BackendName,
		},
	}

	syntaxDetails := syntax.Check(in.ToEmail)
	out.Syntax = syntaxDetails
	if !syntaxDetails.IsValidSyntax {
		out.IsReachable = Invalid
		out.Reason = "Invalid: email syntax is invalid"
		return finalize(out)
	}

	mxDetails := mx.Lookup(ctx, syntaxDetails.Domain)
	out.Mx = mxDetails
	if mxDetails.Err != nil {
		syntax.EnrichSuggestion(&syntaxDetails)
		out.Syntax = syntaxDetails
		out.IsReachable = Unknown
		out.Reason = "Unknown: MX lookup failed - " + mxDetails.Err.Error()
		return finalize(out)
	}
	if len(mxDetails.Records) == 0 {
		syntax.EnrichSuggestion(&syntaxDetails)
		out.Syntax = syntaxDetails
		out.IsReachable = Invalid
		out.Reason = "Invalid: no MX records found for domain"
		return finalize(out)
	}

	miscDetails := misc.Compute(ctx, misc.Input{
		Address:              syntaxDetails.Address,
		Username:             syntaxDetails.Username,
		Domain:               syntaxDetails.Domain,
		CheckGravatar:        in.CheckGravatar,
		HaveIBeenPwnedAPIKey: in.HaveIBeenPwnedAPIKey,
	})

	preferred, _ := mx.Preferred(mxDetails)
	mxHost := preferred.Host

	miscDetails.Extended = misc.ComputeExtended(ctx, syntaxDetails.Address, syntaxDetails.Username, syntaxDetails.Domain, misc.ExtendedInput{
		Client:               extendedHTTPClient(in),
		MXHost:               mxHost,
		HaveIBeenPwnedAPIKey: in.HaveIBeenPwnedAPIKey,
		SmtpConfig:           in.SmtpConfig,
		Proxies:              in.Proxies,
	})
	out.Misc = miscDetails

	smtpDetails, smtpDebug, smtpErr := provider.Dispatch(ctx, syntaxDetails.Address, syntaxDetails.Domain, mxHost, in.VerifMethod, in.SmtpConfig, in.Proxies, in.Headless)
	out.Smtp = smtpDetails
	out.Debug.Smtp = smtpDebug
	if smtpErr != nil {
		syntax.EnrichSuggestion(&syntaxDetails)
		out.Syntax = syntaxDetails
	}

	out.IsReachable, out.Reason = fuse(miscDetails, smtpErr, smtpDetails)
	return finalize(out)
}

// extendedHTTPClient builds the HTTP client extended-signal probes (Calendar,
// SharePoint, GitHub, HIBP breach count) use, tunnelled through the configured SMTP
// proxy when one is set so those probes share the same egress path as the
// SMTP conversation.
func extendedHTTPClient(in Input) *http.Client {
	var desc proxy.Descriptor
	if in.SmtpConfig.ProxyID != "" {
		if d, err := proxy.Resolve(in.Proxies, in.SmtpConfig.ProxyID); err == nil {
			desc = d
		}
	}
	return provider.NewHTTPClient(desc, 15*time.Second)
}

func finalize(out CheckEmailOutput) CheckEmailOutput {
	out.Debug.EndTime = time.Now()
	d := out.Debug.EndTime.Sub(out.Debug.StartTime)
	if d < 0 {
		d = 0
	}
	out.Debug.Duration = d
	return out
}
