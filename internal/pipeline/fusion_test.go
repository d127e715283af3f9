package pipeline

import (
	"strings"
	"testing"

	"mailprobe/internal/misc"
	"mailprobe/internal/smtp"
)

func TestFuseSmtpError(t *testing.T) {
	verdict, reason := fuse(misc.Details{}, &smtp.ConversationError{Code: 421, Line: "4.3.0 try again later"}, smtp.Details{})
	if verdict != Unknown {
		t.Fatalf("verdict = %v, want Unknown", verdict)
	}
	if !strings.HasPrefix(reason, "Unknown: SMTP error - ") {
		t.Errorf("reason = %q, want SMTP error prefix", reason)
	}
}

func TestFuseRiskyBeforeInvalid(t *testing.T) {
	// A role account that also fails deliverability must still report Risky,
	// per §4.6's "risky before invalid" ordering note.
	md := misc.Details{IsRoleAccount: true}
	sd := smtp.Details{CanConnectSMTP: true, IsDeliverable: false}
	verdict, reason := fuse(md, nil, sd)
	if verdict != Risky {
		t.Fatalf("verdict = %v, want Risky", verdict)
	}
	if !strings.Contains(reason, "role-based account") {
		t.Errorf("reason = %q, want role-based account substring", reason)
	}
}

func TestFuseRiskyReasonOrder(t *testing.T) {
	md := misc.Details{IsDisposable: true, IsRoleAccount: true}
	sd := smtp.Details{IsCatchAll: true, HasFullInbox: true}
	_, reason := fuse(md, nil, sd)
	want := "Risky: disposable email address, role-based account (e.g., admin@, support@), catch-all address (accepts all emails), inbox is full"
	if reason != want {
		t.Errorf("reason = %q, want %q", reason, want)
	}
}

func TestFuseInvalidNotDeliverable(t *testing.T) {
	sd := smtp.Details{CanConnectSMTP: true, IsDeliverable: false}
	verdict, reason := fuse(misc.Details{}, nil, sd)
	if verdict != Invalid {
		t.Fatalf("verdict = %v, want Invalid", verdict)
	}
	if reason != "Invalid: email is not deliverable" {
		t.Errorf("reason = %q", reason)
	}
}

func TestFuseSafe(t *testing.T) {
	sd := smtp.Details{CanConnectSMTP: true, IsDeliverable: true}
	verdict, reason := fuse(misc.Details{}, nil, sd)
	if verdict != Safe {
		t.Fatalf("verdict = %v, want Safe", verdict)
	}
	if reason != "Email verification passed all checks" {
		t.Errorf("reason = %q", reason)
	}
}

func TestFuseExtendedNeverConsulted(t *testing.T) {
	// misc.Details.Extended reaches fuse inside misc.Details, but fuse never
	// reads it. This test sets a non-nil Extended with alarming values and
	// checks that an otherwise safe result stays Safe.
	md := misc.Details{Extended: &misc.ExtendedSignals{IsPostmasterBroken: true, BreachCount: 99}}
	sd := smtp.Details{CanConnectSMTP: true, IsDeliverable: true}
	verdict, _ := fuse(md, nil, sd)
	if verdict != Safe {
		t.Fatalf("verdict = %v, want Safe regardless of Extended", verdict)
	}
}
