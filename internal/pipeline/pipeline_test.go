package pipeline

import (
	"context"
	"strings"
	"testing"

	"mailprobe/internal/misc"
)

func TestCheckEmailInvalidSyntax(t *testing.T) {
	out := CheckEmail(context.Background(), Input{ToEmail: "not-an-email"})
	if out.IsReachable != Invalid {
		t.Fatalf("IsReachable = %v, want Invalid", out.IsReachable)
	}
	if !strings.Contains(out.Reason, "email syntax is invalid") {
		t.Errorf("Reason = %q", out.Reason)
	}
	if out.Syntax.IsValidSyntax {
		t.Error("expected IsValidSyntax = false")
	}
	// Invariant: invalid syntax never triggers MX/SMTP work.
	if len(out.Mx.Records) != 0 || out.Mx.Err != nil {
		t.Error("expected zero-value Mx on a syntax-invalid input")
	}
}

func TestCheckEmailMxFailureLeavesMiscAndSmtpDefault(t *testing.T) {
	out := CheckEmail(context.Background(), Input{ToEmail: "user@example-nxdomain-mailprobe-test.invalid"})
	if out.IsReachable != Unknown {
		t.Fatalf("IsReachable = %v, want Unknown", out.IsReachable)
	}
	if !strings.HasPrefix(out.Reason, "Unknown:") {
		t.Errorf("Reason = %q, want Unknown: prefix", out.Reason)
	}
	if out.Smtp.CanConnectSMTP || out.Smtp.IsDeliverable {
		t.Error("expected default SmtpDetails on MX failure")
	}
	if out.Misc != (misc.Details{}) {
		t.Errorf("Misc = %+v, want default MiscDetails on MX failure", out.Misc)
	}
}

func TestCheckEmailDurationNonNegative(t *testing.T) {
	out := CheckEmail(context.Background(), Input{ToEmail: "not-an-email"})
	if out.Debug.Duration < 0 {
		t.Errorf("Duration = %v, want >= 0", out.Debug.Duration)
	}
	if out.Debug.EndTime.Before(out.Debug.StartTime) {
		t.Error("EndTime before StartTime")
	}
}

func TestCheckEmailReasonPrefixMatchesVerdict(t *testing.T) {
	out := CheckEmail(context.Background(), Input{ToEmail: "not-an-email"})
	prefix := string(out.IsReachable) + ":"
	if !strings.HasPrefix(out.Reason, prefix) {
		t.Errorf("Reason %q does not start with %q", out.Reason, prefix)
	}
}
