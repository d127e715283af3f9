package smtp

import (
	"strings"
	"testing"
	"time"
)

func TestReasonPrefixes(t *testing.T) {
	cases := []struct {
		err    Error
		prefix string
	}{
		{&YahooError{Message: "timed out"}, "Unknown: Yahoo verification failed"},
		{&GmailError{Message: "bad response"}, "Unknown: Gmail verification failed"},
		{&HeadlessError{Stage: "submit", Message: "element not found"}, "Unknown: Headless browser verification failed"},
		{&Microsoft365Error{Message: "decode error"}, "Unknown: Microsoft 365 verification failed"},
		{&ConversationError{Code: 421, Line: "service not available"}, "Unknown: SMTP error"},
		{&IOError{Cause: errString("connection reset")}, "Unknown: I/O error during SMTP connection"},
		{&TimeoutError{Elapsed: 5 * time.Second}, "Unknown: SMTP connection timed out after 5s"},
		{&Socks5Error{Detail: "SOCKS5 General Failure (reply code 0x01): the proxy server encountered an internal error"}, "Unknown: SOCKS5 General Failure (reply code 0x01)"},
		{&UnexpectedError{Cause: errString("boom")}, "Unknown: Unexpected error"},
	}

	for _, c := range cases {
		if !strings.HasPrefix(c.err.Reason(), c.prefix) {
			t.Errorf("%T.Reason() = %q, want prefix %q", c.err, c.err.Reason(), c.prefix)
		}
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestDescribeClassifiesKnownPhrases(t *testing.T) {
	cases := []struct {
		line string
		want ErrorDesc
	}{
		{"Client host blocked using Spamhaus ZEN", IpBlacklisted},
		{"your IP is on our blacklist", IpBlacklisted},
		{"listed in blocklist.example.com", IpBlacklisted},
		{"rejected by SPFBL policy", IpBlacklisted},
		{"please set up reverse DNS for your IP", NeedsRDNS},
		{"no rDNS entry found", NeedsRDNS},
		{"missing PTR record for host", NeedsRDNS},
	}
	for _, c := range cases {
		desc, ok := Describe(&ConversationError{Code: 550, Line: c.line})
		if !ok {
			t.Errorf("Describe(%q) = not recognized, want %v", c.line, c.want)
			continue
		}
		if desc != c.want {
			t.Errorf("Describe(%q) = %v, want %v", c.line, desc, c.want)
		}
	}
}

func TestDescribeUnrecognizedReturnsFalse(t *testing.T) {
	if _, ok := Describe(&ConversationError{Code: 550, Line: "mailbox does not exist"}); ok {
		t.Error("expected Describe to report no known reputation issue for an unrelated reply")
	}
	if _, ok := Describe(&IOError{Cause: errString("connection reset")}); ok {
		t.Error("expected Describe to report false for non-ConversationError variants")
	}
}
