package pipeline

import (
	"fmt"
	"strings"

	"mailprobe/internal/misc"
	"mailprobe/internal/smtp"
)

// fuse implements §4.6's verdict cascade literally: no weights, no scoring.
// It is a pure function of (miscDetails, smtpErr, smtpDetails). It never
// reads miscDetails.Extended, so those fields can never influence the verdict.
func fuse(miscDetails misc.Details, smtpErr error, smtpDetails smtp.Details) (Reachability, string) {
	if smtpErr != nil {
		return Unknown, unknownReason(smtpErr)
	}

	var riskyReasons []string
	if miscDetails.IsDisposable {
		riskyReasons = append(riskyReasons, "disposable email address")
	}
	if miscDetails.IsRoleAccount {
		riskyReasons = append(riskyReasons, "role-based account (e.g., admin@, support@)")
	}
	if smtpDetails.IsCatchAll {
		riskyReasons = append(riskyReasons, "catch-all address (accepts all emails)")
	}
	if smtpDetails.HasFullInbox {
		riskyReasons = append(riskyReasons, "inbox is full")
	}
	if len(riskyReasons) > 0 {
		return Risky, "Risky: " + strings.Join(riskyReasons, ", ")
	}

	var invalidReasons []string
	if !smtpDetails.CanConnectSMTP {
		invalidReasons = append(invalidReasons, "cannot connect to SMTP server")
	}
	if smtpDetails.IsDisabled {
		invalidReasons = append(invalidReasons, "email account is disabled")
	}
	if !smtpDetails.IsDeliverable {
		invalidReasons = append(invalidReasons, "email is not deliverable")
	}
	if len(invalidReasons) > 0 {
		return Invalid, "Invalid: " + strings.Join(invalidReasons, ", ")
	}

	return Safe, "Email verification passed all checks"
}

// unknownReason renders the §7 error-reason table. Every smtp.Error variant
// already knows how to render its own "Unknown: ..." prefix; anything else
// (a bare error that slipped through some other path) falls back to the
// AnyhowError-equivalent prefix.
func unknownReason(err error) string {
	if se, ok := err.(smtp.Error); ok {
		return se.Reason()
	}
	return fmt.Sprintf("Unknown: Unexpected error - %v", err)
}
