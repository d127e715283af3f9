// Package smtp drives the generic SMTP conversation used to probe a
// mailbox: connect, greet, HELO/EHLO, MAIL FROM, RCPT TO, and the signal
// extraction and retry policy around that exchange.
package smtp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error is the closed error taxonomy for an SMTP probe attempt. Every probe
// failure — SMTP conversation, Gmail/Yahoo/Microsoft365 HTTP probe, headless
// browser probe, SOCKS5 transport — collapses into one of these variants so
// verdict fusion always has a typed reason to render, never a bare string.
type Error interface {
	error
	// Reason renders the canonical "Unknown: ..." prefix used in
	// CheckEmailOutput.Reason. It never re-inspects the wrapped cause beyond
	// what the variant already carries.
	Reason() string
}

// YahooError wraps a failure from the Yahoo account-lookup HTTP probe.
type YahooError struct {
	Kind    string
	Message string
}

func (e *YahooError) Error() string { return fmt.Sprintf("yahoo error (%s): %s", e.Kind, e.Message) }
func (e *YahooError) Reason() string {
	return fmt.Sprintf("Unknown: Yahoo verification failed - %s", e.Message)
}

// GmailError wraps a failure from the Gmail recipient-check HTTP probe.
type GmailError struct {
	Kind    string
	Message string
}

func (e *GmailError) Error() string { return fmt.Sprintf("gmail error (%s): %s", e.Kind, e.Message) }
func (e *GmailError) Reason() string {
	return fmt.Sprintf("Unknown: Gmail verification failed - %s", e.Message)
}

// HeadlessError wraps a failure from the headless-browser probe, tagged
// with the stage of the password-recovery flow it failed at.
type HeadlessError struct {
	Stage   string
	Message string
}

func (e *HeadlessError) Error() string {
	return fmt.Sprintf("headless verification error at stage %q: %s", e.Stage, e.Message)
}
func (e *HeadlessError) Reason() string {
	return fmt.Sprintf("Unknown: Headless browser verification failed - %s", e.Message)
}

// Microsoft365Error wraps a failure from the M365 tenant-probe HTTP call.
type Microsoft365Error struct {
	Kind    string
	Message string
}

func (e *Microsoft365Error) Error() string {
	return fmt.Sprintf("microsoft365 error (%s): %s", e.Kind, e.Message)
}
func (e *Microsoft365Error) Reason() string {
	return fmt.Sprintf("Unknown: Microsoft 365 verification failed - %s", e.Message)
}

// ConversationError wraps an unexpected SMTP reply: a banner or command
// response outside what the state machine's transition accepts, captured
// verbatim for diagnostics. Named ConversationError rather than the
// originating implementation's AsyncSmtpError, since this codebase has no
// async-smtp crate of its own.
type ConversationError struct {
	Code int
	Line string
}

func (e *ConversationError) Error() string {
	return fmt.Sprintf("smtp error %d: %s", e.Code, e.Line)
}
func (e *ConversationError) Reason() string {
	return fmt.Sprintf("Unknown: SMTP error - %s", e.Line)
}

// IOError wraps a transport-level failure (dial, read, write) that is not a
// timeout or a SOCKS5 failure.
type IOError struct {
	Cause error
}

func (e *IOError) Error() string  { return fmt.Sprintf("i/o error: %v", e.Cause) }
func (e *IOError) Unwrap() error  { return e.Cause }
func (e *IOError) Reason() string { return fmt.Sprintf("Unknown: I/O error during SMTP connection - %v", e.Cause) }

// TimeoutError marks a per-step budget (connect or command) being exceeded.
type TimeoutError struct {
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string { return fmt.Sprintf("timeout after %s", e.Elapsed) }
func (e *TimeoutError) Reason() string {
	return fmt.Sprintf("Unknown: SMTP connection timed out after %s", e.Elapsed)
}

// Socks5Error wraps a classified SOCKS5 transport failure (see
// internal/proxy's ClassifyError).
type Socks5Error struct {
	Detail string
	Cause  error
}

func (e *Socks5Error) Error() string { return fmt.Sprintf("socks5 error: %s", e.Detail) }
func (e *Socks5Error) Unwrap() error { return e.Cause }
func (e *Socks5Error) Reason() string {
	if e.Detail != "" {
		return fmt.Sprintf("Unknown: %s", e.Detail)
	}
	return fmt.Sprintf("Unknown: SOCKS5 proxy connection failed - %v", e.Cause)
}

// UnexpectedError is the catch-all for any failure that doesn't fit the
// other variants — the one stringly-typed escape hatch the taxonomy allows.
type UnexpectedError struct {
	Cause error
}

func (e *UnexpectedError) Error() string  { return e.Cause.Error() }
func (e *UnexpectedError) Unwrap() error  { return e.Cause }
func (e *UnexpectedError) Reason() string { return fmt.Sprintf("Unknown: Unexpected error - %v", e.Cause) }

// ErrorDesc further classifies the final error from a failed SMTP
// conversation into a well-known IP-reputation cause, when the server's own
// reply line names one. It never changes which Error variant was returned —
// it's an additional, best-effort descriptor surfaced through Debug.
type ErrorDesc string

const (
	// IpBlacklisted means the server's reply names a DNS blacklist
	// (Spamhaus, SPFBL, or an unnamed blocklist) as the reason it refused
	// the connection.
	IpBlacklisted ErrorDesc = "ip_blacklisted"
	// NeedsRDNS means the server's reply demands that the sending IP
	// resolve a PTR record before it will accept mail.
	NeedsRDNS ErrorDesc = "needs_rdns"
)

var ipBlacklistedPhrases = []string{"blocked using", "spamhaus", "blacklist", "blocklist", "spfbl"}
var needsRDNSPhrases = []string{"reverse dns", "rdns", "ptr record"}

// Describe scans a ConversationError's server reply line for known
// IP-reputation phrases and reports which reputation issue, if any, it
// names. Ground: the teacher's lookup/smtp.go keyword scan over the SMTP
// error string ("spamhaus", "reverse dns", "ptr", "blacklisted", ...). Only
// ConversationError carries the raw server line this needs; every other
// Error variant reports ("", false).
func Describe(err error) (ErrorDesc, bool) {
	var ce *ConversationError
	if !errors.As(err, &ce) {
		return "", false
	}
	msg := strings.ToLower(ce.Line)
	if containsAny(msg, ipBlacklistedPhrases) {
		return IpBlacklisted, true
	}
	if containsAny(msg, needsRDNSPhrases) {
		return NeedsRDNS, true
	}
	return "", false
}
