// Package provider classifies an email domain/MX host into a provider
// family and dispatches to that family's configured verification strategy.
package provider

import "strings"

// Family identifies a mailbox provider group with its own verification
// idiosyncrasies.
type Family string

const (
	FamilyGmail        Family = "gmail"
	FamilyYahoo        Family = "yahoo"
	FamilyHotmailB2B   Family = "hotmail_b2b"
	FamilyHotmailB2C   Family = "hotmail_b2c"
	FamilyMicrosoft365 Family = "microsoft365"
	FamilyEverythingElse Family = "everything_else"
)

// Strategy is the verification approach configured for a family.
type Strategy string

const (
	StrategySmtp     Strategy = "smtp"
	StrategyApi      Strategy = "api"
	StrategyHeadless Strategy = "headless"
	StrategySkipped  Strategy = "skipped"
)

type familyRule struct {
	family Family
	match  func(domain, mxHost string) bool
}

var consumerHotmailDomains = []string{"hotmail.", "outlook.", "live.", "msn."}

// rules is deliberately data, not a chain of if-statements, so a new
// provider family is one slice entry rather than a structural change.
var rules = []familyRule{
	{FamilyGmail, func(domain, mx string) bool {
		return domain == "gmail.com" || domain == "googlemail.com" ||
			strings.Contains(mx, "google.com") || strings.Contains(mx, "googlemail.com")
	}},
	{FamilyYahoo, func(domain, mx string) bool {
		return strings.HasPrefix(domain, "yahoo.") || strings.Contains(mx, "yahoodns.net") || strings.Contains(mx, "yahoo.com")
	}},
	{FamilyMicrosoft365, func(domain, mx string) bool {
		return strings.Contains(mx, "mail.protection.outlook.com")
	}},
	{FamilyHotmailB2C, func(domain, mx string) bool {
		if !strings.Contains(mx, "protection.outlook.com") {
			return false
		}
		for _, d := range consumerHotmailDomains {
			if strings.HasPrefix(domain, d) {
				return true
			}
		}
		return false
	}},
	{FamilyHotmailB2B, func(domain, mx string) bool {
		return strings.Contains(mx, "protection.outlook.com")
	}},
}

// Classify maps a domain and its preferred MX host to a provider family,
// falling back to FamilyEverythingElse when no rule matches. Matching is
// case-insensitive; callers should already have lowercased domain, but
// Classify lowercases defensively since mxHost often isn't.
func Classify(domain, mxHost string) Family {
	d := strings.ToLower(domain)
	mx := strings.ToLower(mxHost)
	for _, r := range rules {
		if r.match(d, mx) {
			return r.family
		}
	}
	return FamilyEverythingElse
}

// StrategyTable is the input's verif_method: strategy configured per
// family, keyed by Family.
type StrategyTable map[Family]Strategy

// StrategyFor looks up the configured strategy for family, defaulting to
// StrategySkipped when unconfigured.
func (t StrategyTable) StrategyFor(f Family) Strategy {
	if s, ok := t[f]; ok {
		return s
	}
	return StrategySkipped
}
