package smtp

import "strings"

var notExistPhrases = []string{
	"does not exist", "unknown", "no such", "invalid recipient", "user unknown",
}

var disabledPhrases = []string{
	"disabled", "suspended", "deactivated", "locked",
}

var fullInboxPhrases = []string{
	"over quota", "mailbox full", "inbox is full",
}

// classifyRcpt extracts the primary RCPT signals from a reply code and its
// normalized (lowercased) message text, per the heuristic table: acceptance
// codes mark deliverable, specific 5xx phrasing marks non-existence or a
// disabled account, and 452/552 with quota phrasing marks a full inbox.
func classifyRcpt(code int, message string) Details {
	msg := strings.ToLower(message)
	var d Details
	d.CanConnectSMTP = true

	switch {
	case code == 250 || code == 251:
		d.IsDeliverable = true
	case (code == 550 || code == 551 || code == 553) && containsAny(msg, notExistPhrases):
		d.IsDeliverable = false
	}

	if (code/100) == 5 && containsAny(msg, disabledPhrases) {
		d.IsDisabled = true
	}
	if (code == 452 || code == 552) && containsAny(msg, fullInboxPhrases) {
		d.HasFullInbox = true
	}

	return d
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// isTransient reports whether code represents a transient (4xx) failure
// worth retrying, per the retry policy in §4.4.
func isTransient(code int) bool {
	return code/100 == 4
}
