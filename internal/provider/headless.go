package provider

import (
	"context"

	"mailprobe/internal/smtp"
)

// HeadlessProber drives a headless browser through a provider's
// password-recovery flow and interprets the post-submit page. It is kept
// as a narrow interface so no browser-automation dependency needs to live
// in this module — callers wire in a real implementation (chromedp,
// playwright-go, ...) only if they need the Headless strategy.
type HeadlessProber interface {
	Probe(ctx context.Context, domain, address string) (smtp.Details, error)
}

// UnconfiguredHeadless is the default HeadlessProber: it always fails with
// a HeadlessError tagged "not_configured", so a build with no browser
// automation wired in still compiles and runs standalone.
type UnconfiguredHeadless struct{}

func (UnconfiguredHeadless) Probe(ctx context.Context, domain, address string) (smtp.Details, error) {
	return smtp.Details{}, &smtp.HeadlessError{
		Stage:   "not_configured",
		Message: "no headless browser driver is wired into this build",
	}
}
