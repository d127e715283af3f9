// Package syntax validates the well-formedness of an email address and
// decomposes it into a username/domain pair, the way the first stage of the
// verification pipeline needs it.
package syntax

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// Details is the structured result of a syntax check.
type Details struct {
	Input        string
	IsValidSyntax bool
	Username     string
	Domain       string
	Address      string
	Suggestion   string
}

// localPartRe and domainRe accept a practical subset of RFC 5322: no quoted
// strings, no comments, no obsolete syntax. Good enough to reject garbage
// before we spend a DNS lookup or an SMTP connection on it.
var (
	localPartRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+$`)
	domainRe    = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?)+$`)
)

// roleAccounts mirrors the teacher's built-in list of generic mailbox
// prefixes that are typically not tied to one person.
var roleAccounts = map[string]struct{}{
	"admin": {}, "support": {}, "info": {}, "contact": {}, "sales": {},
	"help": {}, "office": {}, "marketing": {}, "jobs": {}, "billing": {},
	"abuse": {}, "postmaster": {}, "noreply": {}, "no-reply": {},
	"webmaster": {}, "hostmaster": {}, "hr": {},
}

// disposableDomains mirrors the teacher's built-in burner-provider list.
var disposableDomains = map[string]struct{}{
	"temp-mail.org": {}, "10minutemail.com": {}, "guerrillamail.com": {},
	"mailinator.com": {}, "yopmail.com": {}, "throwawaymail.com": {},
	"tempmail.net": {}, "sharklasers.com": {}, "dispostable.com": {},
}

// Check parses raw into Details. Canonicalizes to lowercase before any
// further pipeline stage touches it, per the orchestrator's ordering policy.
func Check(raw string) Details {
	d := Details{Input: raw}

	addr := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return d
	}

	username := addr[:at]
	domain := addr[at+1:]

	if !localPartRe.MatchString(username) || strings.Contains(username, "..") {
		return d
	}
	if !domainRe.MatchString(domain) {
		// Try IDN: a domain with non-ASCII labels fails the ASCII domainRe
		// but may still be valid once punycoded.
		ascii, err := idna.Lookup.ToASCII(domain)
		if err != nil || !domainRe.MatchString(ascii) {
			return d
		}
		domain = ascii
	}

	d.IsValidSyntax = true
	d.Username = username
	d.Domain = domain
	d.Address = username + "@" + domain
	return d
}

// IsRoleAccount reports whether the local part is a generic function mailbox.
func IsRoleAccount(username string) bool {
	_, ok := roleAccounts[strings.ToLower(username)]
	return ok
}

// IsDisposableDomain reports whether domain belongs to a known burner provider.
func IsDisposableDomain(domain string) bool {
	_, ok := disposableDomains[strings.ToLower(domain)]
	return ok
}

// ToASCII punycodes domain for DNS/SMTP use, per the IDN requirement.
func ToASCII(domain string) string {
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return domain
	}
	return ascii
}
